// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/ocms-menus/internal/model"
)

func TestMenusGet(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/menus/"+s.menuID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var menu model.MenuWithItems
	decode(t, w, &menu)
	assert.Equal(t, "Main Menu", menu.Name)
	assert.Equal(t, []string{"header"}, menu.Locations)
	assert.True(t, menu.IsActive)
	require.Len(t, menu.Items, 3)
	assert.Equal(t, "Home", menu.Items[0].Title)
	assert.Empty(t, menu.Items[0].ParentID)
}

func TestMenusGetNotFound(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/menus/999", "/menus/abc"} {
		w := s.do(t, http.MethodGet, path, nil)
		assertJSONResponse(t, w, http.StatusNotFound, false)
	}
}

func TestMenusSaveItems(t *testing.T) {
	s := newTestServer(t)

	body := map[string]any{
		"items": []map[string]any{
			{
				"type": "CUSTOM", "title": "Docs", "url": "/docs", "target": "_blank",
				"displayMode": "TEXT", "iconSize": 16, "order": 0,
				"children": []map[string]any{
					{"type": "TAG", "referenceId": "1", "title": "go", "displayMode": "TEXT", "order": 0, "children": []any{}},
				},
			},
		},
	}
	w := s.do(t, http.MethodPut, "/menus/"+s.menuID+"/items", body)
	assertJSONResponse(t, w, http.StatusOK, true)

	w = s.do(t, http.MethodGet, "/menus/"+s.menuID, nil)
	var menu model.MenuWithItems
	decode(t, w, &menu)
	require.Len(t, menu.Items, 2)
	assert.Equal(t, "Docs", menu.Items[0].Title)
	assert.Equal(t, menu.Items[0].ID, menu.Items[1].ParentID)
}

func TestMenusSaveItemsRejected(t *testing.T) {
	s := newTestServer(t)
	path := "/menus/" + s.menuID + "/items"

	tests := []struct {
		name string
		body any
		want int
	}{
		{"malformed json", "{", http.StatusBadRequest},
		{"missing title", map[string]any{"items": []map[string]any{{"type": "CUSTOM", "url": "/"}}}, http.StatusUnprocessableEntity},
		{"custom without url", map[string]any{"items": []map[string]any{{"type": "CUSTOM", "title": "x"}}}, http.StatusUnprocessableEntity},
		{"catalog with url", map[string]any{"items": []map[string]any{{"type": "PAGE", "referenceId": "1", "title": "x", "url": "/x"}}}, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPut, path, tt.body)
			assertJSONResponse(t, w, tt.want, false)
		})
	}

	w := s.do(t, http.MethodPut, "/menus/999/items", map[string]any{"items": []any{}})
	assertJSONResponse(t, w, http.StatusNotFound, false)
}

func TestMenusCatalogs(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		path  string
		count int
		first string
	}{
		{"/categories", 3, "News"},
		{"/tags", 3, "go"},
		{"/comics", 2, "Null Pointer"},
		{"/pages", 3, "About"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := s.do(t, http.MethodGet, tt.path, nil)
			require.Equal(t, http.StatusOK, w.Code)

			var entries []model.CatalogEntry
			decode(t, w, &entries)
			require.Len(t, entries, tt.count)
			assert.Equal(t, tt.first, entries[0].Title)
			assert.NotEmpty(t, entries[0].ID)
		})
	}
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/widgets", nil)
	assertJSONResponse(t, w, http.StatusNotFound, false)

	w = s.do(t, http.MethodDelete, "/menus/"+s.menuID, nil)
	assertJSONResponse(t, w, http.StatusMethodNotAllowed, false)
}
