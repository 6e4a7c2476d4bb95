// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/ocms-menus/internal/middleware"
)

// RouterConfig wires the handlers and middleware of the service.
type RouterConfig struct {
	Menus   *MenusHandler
	Editor  *EditorHandler
	Health  *HealthHandler
	Logger  *slog.Logger
	Limiter *middleware.RateLimiter // nil disables rate limiting
	Timeout time.Duration           // 0 disables the request timeout
}

// NewRouter builds the chi router. Health routes bypass the rate limiter.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(chimw.Recoverer)
	if cfg.Timeout > 0 {
		r.Use(middleware.Timeout(cfg.Timeout))
	}

	if cfg.Health != nil {
		cfg.Health.Routes(r)
	}

	r.Group(func(r chi.Router) {
		if cfg.Limiter != nil {
			r.Use(cfg.Limiter.Middleware())
		}
		if cfg.Menus != nil {
			cfg.Menus.Routes(r)
		}
		if cfg.Editor != nil {
			r.Route(RouteEditorSessions, cfg.Editor.Routes)
		}
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	return r
}
