// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the menu domain types shared by the editor, the store and the API.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ItemType discriminates custom links from catalog-backed menu items.
type ItemType string

// Menu item types
const (
	ItemCustom   ItemType = "CUSTOM"
	ItemCategory ItemType = "CATEGORY"
	ItemTag      ItemType = "TAG"
	ItemComic    ItemType = "COMIC"
	ItemPage     ItemType = "PAGE"
)

// CatalogTypes lists the item types that reference an external catalog entity.
var CatalogTypes = []ItemType{ItemCategory, ItemTag, ItemComic, ItemPage}

// IsCatalog reports whether items of this type carry a referenceId.
func (t ItemType) IsCatalog() bool {
	return slices.Contains(CatalogTypes, t)
}

// IsValid reports whether t is a known item type.
func (t ItemType) IsValid() bool {
	return t == ItemCustom || t.IsCatalog()
}

// CatalogPath returns the collection name used by the catalog endpoint (e.g. "categories").
func (t ItemType) CatalogPath() string {
	switch t {
	case ItemCategory:
		return "categories"
	case ItemTag:
		return "tags"
	case ItemComic:
		return "comics"
	case ItemPage:
		return "pages"
	}
	return ""
}

// ParseItemType converts a catalog or type name ("categories", "tag", "COMIC") to an ItemType.
func ParseItemType(s string) (ItemType, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	switch name {
	case "CATEGORIES":
		name = string(ItemCategory)
	case "TAGS":
		name = string(ItemTag)
	case "COMICS":
		name = string(ItemComic)
	case "PAGES":
		name = string(ItemPage)
	}
	t := ItemType(name)
	if !t.IsValid() {
		return "", fmt.Errorf("unknown item type %q", s)
	}
	return t, nil
}

// DisplayMode controls whether an item renders its title, its icon or both.
type DisplayMode string

// Display modes
const (
	DisplayTextIcon DisplayMode = "TEXT_ICON"
	DisplayText     DisplayMode = "TEXT"
	DisplayIcon     DisplayMode = "ICON"
)

// IsValid reports whether m is a known display mode.
func (m DisplayMode) IsValid() bool {
	return m == DisplayTextIcon || m == DisplayText || m == DisplayIcon
}

// DefaultIconSize is applied to items created without an explicit icon size.
const DefaultIconSize = 16

// Menu target values
const (
	TargetSelf   = "_self"
	TargetBlank  = "_blank"
	TargetParent = "_parent"
	TargetTop    = "_top"
)

// ValidTargets contains all valid link target values.
var ValidTargets = []string{TargetSelf, TargetBlank, TargetParent, TargetTop}

// IsValidTarget checks if a target value is valid.
func IsValidTarget(target string) bool {
	return slices.Contains(ValidTargets, target)
}

// Menu is the persisted container of a navigation item tree.
type Menu struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Locations []string `json:"locations"`
	IsActive  bool     `json:"isActive"`
}

// MenuItem is one node of the editing tree.
//
// TempID is session-local and always set. ID is empty until the item has been
// persisted. ParentID holds the identity (ID or TempID) of the parent node and is
// empty for roots. Collapsed is UI state and is never persisted.
type MenuItem struct {
	ID          string
	TempID      string
	ParentID    string
	Type        ItemType
	ReferenceID string
	Title       string
	URL         string
	Target      string
	Icon        string
	DisplayMode DisplayMode
	IconSize    int
	Order       int
	Children    []*MenuItem
	Collapsed   bool
}

// Identity returns the persisted ID when present, otherwise the TempID.
func (m *MenuItem) Identity() string {
	if m.ID != "" {
		return m.ID
	}
	return m.TempID
}

// Item validation errors
var (
	ErrTitleRequired       = errors.New("title is required")
	ErrInvalidType         = errors.New("invalid item type")
	ErrCustomReference     = errors.New("custom items cannot reference a catalog entity")
	ErrReferenceRequired   = errors.New("catalog items require a referenceId")
	ErrInvalidTarget       = errors.New("invalid target")
	ErrInvalidDisplayMode  = errors.New("invalid display mode")
	ErrCustomURLRequired   = errors.New("custom items require a url")
	ErrCatalogURLForbidden = errors.New("catalog items cannot carry a url")
)

// Validate checks the variant rules of a single item (children are not visited).
// Blank custom links (empty URL) are allowed while editing.
func (m *MenuItem) Validate() error {
	return validateFields(m.Type, m.ReferenceID, m.Title, m.URL, m.Target, m.DisplayMode)
}

func validateFields(t ItemType, referenceID, title, url, target string, mode DisplayMode) error {
	if strings.TrimSpace(title) == "" {
		return ErrTitleRequired
	}
	if !t.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, t)
	}
	if t == ItemCustom && referenceID != "" {
		return ErrCustomReference
	}
	if t.IsCatalog() {
		if referenceID == "" {
			return ErrReferenceRequired
		}
		if url != "" {
			return ErrCatalogURLForbidden
		}
	}
	if target != "" && !IsValidTarget(target) {
		return fmt.Errorf("%w: %q", ErrInvalidTarget, target)
	}
	if mode != "" && !mode.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidDisplayMode, mode)
	}
	return nil
}

// FlatItem is the load wire format: one record per node with a parentId link.
type FlatItem struct {
	ID          string      `json:"id"`
	ParentID    string      `json:"parentId,omitempty"`
	Type        ItemType    `json:"type"`
	ReferenceID string      `json:"referenceId,omitempty"`
	Title       string      `json:"title"`
	URL         string      `json:"url,omitempty"`
	Target      string      `json:"target,omitempty"`
	Icon        string      `json:"icon,omitempty"`
	DisplayMode DisplayMode `json:"displayMode"`
	IconSize    int         `json:"iconSize"`
	Order       int         `json:"order"`
}

// NestedItem is the save wire format. It carries no id: saving replaces the whole tree.
type NestedItem struct {
	Type        ItemType     `json:"type" validate:"required"`
	ReferenceID string       `json:"referenceId"`
	Title       string       `json:"title" validate:"required,max=255"`
	URL         string       `json:"url" validate:"max=2048"`
	Target      string       `json:"target"`
	Icon        string       `json:"icon" validate:"max=2048"`
	DisplayMode DisplayMode  `json:"displayMode"`
	IconSize    int          `json:"iconSize" validate:"min=0,max=512"`
	Order       int          `json:"order" validate:"min=0"`
	Children    []NestedItem `json:"children" validate:"dive"`
}

// Validate checks the variant rules of the item and, recursively, of its children.
// Unlike MenuItem.Validate, custom links must carry a URL at the save boundary.
func (n NestedItem) Validate() error {
	if err := validateFields(n.Type, n.ReferenceID, n.Title, n.URL, n.Target, n.DisplayMode); err != nil {
		return err
	}
	if n.Type == ItemCustom && strings.TrimSpace(n.URL) == "" {
		return ErrCustomURLRequired
	}
	for i, child := range n.Children {
		if child.Order != i {
			return fmt.Errorf("child %q has order %d, want %d", child.Title, child.Order, i)
		}
		if err := child.Validate(); err != nil {
			return fmt.Errorf("child %q: %w", child.Title, err)
		}
	}
	return nil
}

// SaveRequest is the body of PUT /menus/{id}/items.
type SaveRequest struct {
	Items []NestedItem `json:"items" validate:"dive"`
}

// MenuWithItems is the payload of GET /menus/{id}.
type MenuWithItems struct {
	Menu
	Items []FlatItem `json:"items"`
}

// CatalogEntry is one addable source item from a catalog (category, tag, comic or page).
type CatalogEntry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// UnmarshalJSON accepts either "title" or "name" and numeric or string ids.
func (c *CatalogEntry) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID    json.RawMessage `json:"id"`
		Title string          `json:"title"`
		Name  string          `json:"name"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if id := string(raw.ID); id != "null" {
		c.ID = strings.Trim(id, `"`)
	}
	c.Title = raw.Title
	if c.Title == "" {
		c.Title = raw.Name
	}
	return nil
}
