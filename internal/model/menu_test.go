// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseItemType(t *testing.T) {
	tests := []struct {
		in      string
		want    ItemType
		wantErr bool
	}{
		{"CUSTOM", ItemCustom, false},
		{"categories", ItemCategory, false},
		{"tag", ItemTag, false},
		{" Comics ", ItemComic, false},
		{"PAGE", ItemPage, false},
		{"menus", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseItemType(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseItemType(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseItemType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCatalogPath(t *testing.T) {
	for _, kind := range CatalogTypes {
		if kind.CatalogPath() == "" {
			t.Errorf("%s has no catalog path", kind)
		}
		back, err := ParseItemType(kind.CatalogPath())
		if err != nil || back != kind {
			t.Errorf("ParseItemType(%q) = %q, %v", kind.CatalogPath(), back, err)
		}
	}
	if ItemCustom.CatalogPath() != "" {
		t.Error("CUSTOM must not have a catalog path")
	}
	if ItemCustom.IsCatalog() {
		t.Error("CUSTOM is not a catalog type")
	}
}

func TestMenuItemValidate(t *testing.T) {
	tests := []struct {
		name string
		item MenuItem
		want error
	}{
		{"custom", MenuItem{Type: ItemCustom, Title: "Home", URL: "/"}, nil},
		{"blank custom link while editing", MenuItem{Type: ItemCustom, Title: "New link"}, nil},
		{"catalog", MenuItem{Type: ItemPage, ReferenceID: "7", Title: "About"}, nil},
		{"missing title", MenuItem{Type: ItemCustom, Title: "  ", URL: "/"}, ErrTitleRequired},
		{"unknown type", MenuItem{Type: "FEED", Title: "x"}, ErrInvalidType},
		{"custom with reference", MenuItem{Type: ItemCustom, ReferenceID: "1", Title: "x"}, ErrCustomReference},
		{"catalog without reference", MenuItem{Type: ItemTag, Title: "x"}, ErrReferenceRequired},
		{"catalog with url", MenuItem{Type: ItemTag, ReferenceID: "1", Title: "x", URL: "/t"}, ErrCatalogURLForbidden},
		{"bad target", MenuItem{Type: ItemCustom, Title: "x", Target: "_new"}, ErrInvalidTarget},
		{"bad display mode", MenuItem{Type: ItemCustom, Title: "x", DisplayMode: "BIG"}, ErrInvalidDisplayMode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNestedItemValidate(t *testing.T) {
	valid := NestedItem{
		Type: ItemCustom, Title: "Docs", URL: "/docs",
		Children: []NestedItem{
			{Type: ItemTag, ReferenceID: "1", Title: "go", Order: 0},
			{Type: ItemCustom, Title: "API", URL: "/api", Order: 1},
		},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	blank := valid
	blank.Children = []NestedItem{{Type: ItemCustom, Title: "New link", Order: 0}}
	if err := blank.Validate(); !errors.Is(err, ErrCustomURLRequired) {
		t.Errorf("blank child url: err = %v, want ErrCustomURLRequired", err)
	}

	gap := valid
	gap.Children = []NestedItem{{Type: ItemCustom, Title: "A", URL: "/a", Order: 2}}
	if err := gap.Validate(); err == nil {
		t.Error("expected error for non-contiguous child order")
	}
}

func TestIdentity(t *testing.T) {
	m := MenuItem{TempID: "t-1"}
	if m.Identity() != "t-1" {
		t.Errorf("Identity() = %q, want t-1", m.Identity())
	}
	m.ID = "42"
	if m.Identity() != "42" {
		t.Errorf("Identity() = %q, want 42", m.Identity())
	}
}

func TestCatalogEntryUnmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want CatalogEntry
	}{
		{`{"id": 3, "title": "Go"}`, CatalogEntry{ID: "3", Title: "Go"}},
		{`{"id": "abc", "name": "News"}`, CatalogEntry{ID: "abc", Title: "News"}},
		{`{"id": null, "title": "x", "name": "y"}`, CatalogEntry{Title: "x"}},
	}
	for _, tt := range tests {
		var got CatalogEntry
		if err := json.Unmarshal([]byte(tt.in), &got); err != nil {
			t.Errorf("Unmarshal(%s): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Unmarshal(%s) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}
