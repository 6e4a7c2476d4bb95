// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/olegiv/ocms-menus/internal/cache"
	"github.com/olegiv/ocms-menus/internal/editor"
	"github.com/olegiv/ocms-menus/internal/service"
	"github.com/olegiv/ocms-menus/internal/store"
	"github.com/olegiv/ocms-menus/internal/testutil"
)

// testServer is a fully wired router over a seeded database.
type testServer struct {
	db       *sql.DB
	handler  http.Handler
	registry *editor.Registry
	menuID   string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db := testutil.TestSeededDB(t)
	c := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = c.Close() })

	svc := service.NewMenuService(db, cache.NewMenuCache(c, time.Minute))
	registry, err := editor.NewRegistry(svc, 8, testutil.TestLoggerSilent())
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	menus, err := store.New(db).ListMenus(context.Background())
	if err != nil || len(menus) == 0 {
		t.Fatalf("ListMenus: %v", err)
	}

	return &testServer{
		db: db,
		handler: NewRouter(RouterConfig{
			Menus:  NewMenusHandler(svc),
			Editor: NewEditorHandler(registry),
			Health: NewHealthHandler(db, c, registry, "test"),
			Logger: testutil.TestLoggerSilent(),
		}),
		registry: registry,
		menuID:   strconv.FormatInt(menus[0].ID, 10),
	}
}

// do sends a request with an optional JSON body and returns the recorder.
func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(HeaderContentType, "application/json")
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

// decode unmarshals the recorder body into v.
func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decoding %q: %v", w.Body.String(), err)
	}
}
