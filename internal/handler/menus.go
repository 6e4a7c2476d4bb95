// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides the HTTP handlers of the menu service: the menu store
// API, the source catalogs and the server-side editor sessions.
package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator"

	"github.com/olegiv/ocms-menus/internal/editor"
	"github.com/olegiv/ocms-menus/internal/model"
	"github.com/olegiv/ocms-menus/internal/service"
	"github.com/olegiv/ocms-menus/internal/store"
)

// MenusHandler serves the menu load/save API and the source catalogs.
type MenusHandler struct {
	backend  editor.Backend
	validate *validator.Validate
}

// NewMenusHandler creates a new MenusHandler.
func NewMenusHandler(backend editor.Backend) *MenusHandler {
	return &MenusHandler{
		backend:  backend,
		validate: validator.New(),
	}
}

// Routes registers the menu and catalog routes.
func (h *MenusHandler) Routes(r chi.Router) {
	r.Get(RouteMenusID, h.Get)
	r.Put(RouteMenusIDItems, h.SaveItems)
	for _, kind := range model.CatalogTypes {
		r.Get("/"+kind.CatalogPath(), h.Catalog(kind))
	}
}

// Get handles GET /menus/{id}.
func (h *MenusHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	menu, err := h.backend.LoadMenu(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "Menu not found")
			return
		}
		slog.Error("failed to load menu", "error", err, "menu_id", id)
		writeJSONError(w, http.StatusInternalServerError, "Failed to load menu")
		return
	}

	writeJSON(w, http.StatusOK, menu)
}

// SaveItems handles PUT /menus/{id}/items. The body replaces the whole item tree.
func (h *MenusHandler) SaveItems(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req model.SaveRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}
	if req.Items == nil {
		req.Items = []model.NestedItem{}
	}

	if err := h.backend.SaveMenuItems(r.Context(), id, req.Items); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeJSONError(w, http.StatusNotFound, "Menu not found")
		case errors.Is(err, service.ErrInvalidItems):
			writeValidationError(w, err)
		default:
			slog.Error("failed to save menu items", "error", err, "menu_id", id)
			writeJSONError(w, http.StatusInternalServerError, "Failed to save menu")
		}
		return
	}

	writeJSONSuccess(w, nil)
}

// Catalog returns a handler listing the entries of one source catalog.
func (h *MenusHandler) Catalog(kind model.ItemType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := h.backend.ListCatalog(r.Context(), kind)
		if err != nil {
			slog.Error("failed to list catalog", "error", err, "catalog", kind.CatalogPath())
			writeJSONError(w, http.StatusInternalServerError, "Failed to list "+kind.CatalogPath())
			return
		}
		if entries == nil {
			entries = []model.CatalogEntry{}
		}
		writeJSON(w, http.StatusOK, entries)
	}
}
