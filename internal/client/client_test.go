// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/ocms-menus/internal/editor"
	"github.com/olegiv/ocms-menus/internal/model"
)

var _ editor.Backend = (*Client)(nil)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL+"/", WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return c
}

func TestLoadMenu(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/menus/7", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"7","name":"Main","locations":["header"],"isActive":true,
			"items":[{"id":"1","type":"CUSTOM","title":"Home","url":"/","displayMode":"TEXT","iconSize":16,"order":0},
			         {"id":"2","parentId":"1","type":"PAGE","referenceId":"3","title":"About","displayMode":"TEXT","iconSize":16,"order":0}]}`))
	})

	menu, err := c.LoadMenu(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, "Main", menu.Name)
	require.Len(t, menu.Items, 2)
	assert.Equal(t, "1", menu.Items[1].ParentID)
	assert.Equal(t, model.ItemPage, menu.Items[1].Type)
}

func TestSaveMenuItems(t *testing.T) {
	var got model.SaveRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/menus/7/items", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"success":true}`))
	})

	items := []model.NestedItem{{Type: model.ItemCustom, Title: "Home", URL: "/", Children: []model.NestedItem{}}}
	require.NoError(t, c.SaveMenuItems(context.Background(), "7", items))
	assert.Equal(t, items, got.Items)

	require.NoError(t, c.SaveMenuItems(context.Background(), "7", nil))
	assert.NotNil(t, got.Items)
}

func TestListCatalog(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/comics", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":1,"name":"Null Pointer"},{"id":"2","title":"Gophers"}]`))
	})

	entries, err := c.ListCatalog(context.Background(), model.ItemComic)
	require.NoError(t, err)
	assert.Equal(t, []model.CatalogEntry{{ID: "1", Title: "Null Pointer"}, {ID: "2", Title: "Gophers"}}, entries)

	_, err = c.ListCatalog(context.Background(), model.ItemCustom)
	assert.ErrorIs(t, err, model.ErrInvalidType)
}

func TestStatusErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		message  string
		notFound bool
	}{
		{"json error", http.StatusNotFound, `{"success":false,"error":"Menu not found"}`, "Menu not found", true},
		{"api error object", http.StatusTooManyRequests, `{"error":{"code":"rate_limit_exceeded","message":"Slow down"}}`, "Slow down", false},
		{"plain text", http.StatusBadGateway, "upstream down\n", "upstream down", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.LoadMenu(context.Background(), "1")
			var se *StatusError
			require.True(t, errors.As(err, &se), "err = %v", err)
			assert.Equal(t, tt.status, se.StatusCode)
			assert.Equal(t, tt.message, se.Message)
			assert.Equal(t, tt.notFound, errors.Is(err, ErrNotFound))
		})
	}
}

func TestNewRejectsBadURL(t *testing.T) {
	for _, u := range []string{"localhost:8080", "ftp://example.com", "://"} {
		if _, err := New(u); err == nil {
			t.Errorf("New(%q) succeeded, want error", u)
		}
	}
}

func TestSessionOverClient(t *testing.T) {
	saved := make(chan model.SaveRequest, 1)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"id":"1","name":"Main","locations":[],"isActive":true,"items":[
				{"id":"1","type":"CUSTOM","title":"Home","url":"/","displayMode":"TEXT","iconSize":16,"order":0},
				{"id":"2","type":"CUSTOM","title":"Blog","url":"/blog","displayMode":"TEXT","iconSize":16,"order":1}]}`))
		case http.MethodPut:
			var req model.SaveRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			saved <- req
			_, _ = w.Write([]byte(`{"success":true}`))
		}
	})

	s, err := editor.Open(context.Background(), c, "1", nil)
	require.NoError(t, err)
	tree := s.Tree()
	changed, err := s.Indent(tree[1].TempID)
	require.NoError(t, err)
	require.True(t, changed)
	require.NoError(t, s.Save(context.Background()))

	req := <-saved
	require.Len(t, req.Items, 1)
	require.Len(t, req.Items[0].Children, 1)
	assert.Equal(t, "Blog", req.Items[0].Children[0].Title)
}
