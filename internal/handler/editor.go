// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator"

	"github.com/olegiv/ocms-menus/internal/editor"
	"github.com/olegiv/ocms-menus/internal/menutree"
	"github.com/olegiv/ocms-menus/internal/model"
	"github.com/olegiv/ocms-menus/internal/service"
	"github.com/olegiv/ocms-menus/internal/store"
)

// EditorHandler exposes editing sessions over HTTP. Every mutating call returns
// the session view, which carries the whole working tree and the pending notices.
type EditorHandler struct {
	registry *editor.Registry
	validate *validator.Validate
}

// NewEditorHandler creates a new EditorHandler.
func NewEditorHandler(registry *editor.Registry) *EditorHandler {
	return &EditorHandler{
		registry: registry,
		validate: validator.New(),
	}
}

// Routes registers the editor session routes.
func (h *EditorHandler) Routes(r chi.Router) {
	r.Post("/", h.Create)
	r.Route(RouteParamSessionID, func(r chi.Router) {
		r.Get("/", h.Get)
		r.Delete("/", h.Close)
		r.Get(RouteCatalogsKind, h.Catalog)
		r.Post(RouteSuffixItems, h.AddItem)
		r.Patch(RouteItemsTempID, h.EditItem)
		r.Delete(RouteItemsTempID, h.DeleteItem)
		r.Post(RouteItemsTempID+RouteSuffixIndent, h.Indent)
		r.Post(RouteItemsTempID+RouteSuffixOutdent, h.Outdent)
		r.Post(RouteItemsTempID+RouteSuffixMove, h.Move)
		r.Post(RouteSuffixDrag+"/start", h.DragStart)
		r.Post(RouteSuffixDrag+"/over", h.DragOver)
		r.Post(RouteSuffixDrag+"/end", h.DragEnd)
		r.Post(RouteSuffixDrag+"/cancel", h.DragCancel)
		r.Post(RouteSuffixSave, h.Save)
	})
}

// TreeNode is the JSON form of a working tree node.
type TreeNode struct {
	TempID      string            `json:"tempId"`
	ID          string            `json:"id,omitempty"`
	ParentID    string            `json:"parentId,omitempty"`
	Type        model.ItemType    `json:"type"`
	ReferenceID string            `json:"referenceId,omitempty"`
	Title       string            `json:"title"`
	URL         string            `json:"url,omitempty"`
	Target      string            `json:"target,omitempty"`
	Icon        string            `json:"icon,omitempty"`
	DisplayMode model.DisplayMode `json:"displayMode"`
	IconSize    int               `json:"iconSize"`
	Order       int               `json:"order"`
	Collapsed   bool              `json:"collapsed,omitempty"`
	Children    []TreeNode        `json:"children"`
}

// DragView describes the drag in progress.
type DragView struct {
	State    string `json:"state"`
	ActiveID string `json:"activeId,omitempty"`
}

// SessionView is the response body of the editor endpoints.
type SessionView struct {
	ID      string          `json:"id"`
	MenuID  string          `json:"menuId"`
	Menu    model.Menu      `json:"menu"`
	Dirty   bool            `json:"dirty"`
	Saving  bool            `json:"saving"`
	Drag    DragView        `json:"drag"`
	Items   []TreeNode      `json:"items"`
	Notices []editor.Notice `json:"notices"`

	Item     *TreeNode `json:"item,omitempty"`
	Removed  int       `json:"removed,omitempty"`
	Changed  *bool     `json:"changed,omitempty"`
	Position string    `json:"position,omitempty"`
	Result   string    `json:"result,omitempty"`
}

func treeNodes(tree []*model.MenuItem) []TreeNode {
	out := make([]TreeNode, 0, len(tree))
	for _, n := range tree {
		out = append(out, treeNode(n))
	}
	return out
}

func treeNode(n *model.MenuItem) TreeNode {
	return TreeNode{
		TempID:      n.TempID,
		ID:          n.ID,
		ParentID:    n.ParentID,
		Type:        n.Type,
		ReferenceID: n.ReferenceID,
		Title:       n.Title,
		URL:         n.URL,
		Target:      n.Target,
		Icon:        n.Icon,
		DisplayMode: n.DisplayMode,
		IconSize:    n.IconSize,
		Order:       n.Order,
		Collapsed:   n.Collapsed,
		Children:    treeNodes(n.Children),
	}
}

func view(s *editor.Session) *SessionView {
	state, active := s.DragState()
	notices := s.Notices()
	if notices == nil {
		notices = []editor.Notice{}
	}
	return &SessionView{
		ID:      s.ID(),
		MenuID:  s.MenuID(),
		Menu:    s.Menu(),
		Dirty:   s.Dirty(),
		Saving:  s.Saving(),
		Drag:    DragView{State: state.String(), ActiveID: active},
		Items:   treeNodes(s.Tree()),
		Notices: notices,
	}
}

// writeEditorError maps editor and tree errors to HTTP statuses. The session,
// when known, is included so that notices recorded by the failure reach the client.
func writeEditorError(w http.ResponseWriter, s *editor.Session, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, editor.ErrSessionNotFound),
		errors.Is(err, menutree.ErrNotFound),
		errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, menutree.ErrCycle),
		errors.Is(err, editor.ErrSaveInProgress),
		errors.Is(err, menutree.ErrNotDragging):
		status = http.StatusConflict
	case isValidationError(err):
		status = http.StatusUnprocessableEntity
	default:
		slog.Error("editor request failed", "error", err)
	}

	resp := map[string]any{
		"success": false,
		"error":   err.Error(),
	}
	if s != nil {
		resp["session"] = view(s)
	}
	writeJSON(w, status, resp)
}

var validationErrors = []error{
	model.ErrTitleRequired,
	model.ErrInvalidType,
	model.ErrCustomReference,
	model.ErrReferenceRequired,
	model.ErrInvalidTarget,
	model.ErrInvalidDisplayMode,
	model.ErrCustomURLRequired,
	model.ErrCatalogURLForbidden,
	service.ErrInvalidItems,
}

func isValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// session resolves the {sessionId} URL parameter, writing a 404 when unknown.
func (h *EditorHandler) session(w http.ResponseWriter, r *http.Request) (*editor.Session, bool) {
	s, err := h.registry.Get(chi.URLParam(r, "sessionId"))
	if err != nil {
		writeEditorError(w, nil, err)
		return nil, false
	}
	return s, true
}

// CreateSessionRequest is the body of POST /editor/sessions.
type CreateSessionRequest struct {
	MenuID string `json:"menuId" validate:"required"`
}

// Create handles POST /editor/sessions.
func (h *EditorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	s, err := h.registry.Open(r.Context(), req.MenuID)
	if err != nil {
		writeEditorError(w, nil, err)
		return
	}
	slog.Info("editor session opened", "session_id", s.ID(), "menu_id", req.MenuID)
	writeJSON(w, http.StatusCreated, view(s))
}

// Get handles GET /editor/sessions/{sessionId}.
func (h *EditorHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, view(s))
}

// Close handles DELETE /editor/sessions/{sessionId}. Unsaved changes are discarded.
func (h *EditorHandler) Close(w http.ResponseWriter, r *http.Request) {
	if err := h.registry.Close(chi.URLParam(r, "sessionId")); err != nil {
		writeEditorError(w, nil, err)
		return
	}
	writeJSONSuccess(w, nil)
}

// Catalog handles GET /editor/sessions/{sessionId}/catalogs/{kind}.
func (h *EditorHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	kind, err := model.ParseItemType(chi.URLParam(r, "kind"))
	if err != nil || !kind.IsCatalog() {
		writeJSONError(w, http.StatusNotFound, "Unknown catalog")
		return
	}
	entries, err := s.Catalog(r.Context(), kind)
	if err != nil {
		writeEditorError(w, nil, err)
		return
	}
	if entries == nil {
		entries = []model.CatalogEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// AddItemRequest is the body of POST /editor/sessions/{sessionId}/items.
// Catalog items take their reference and default title from the picked entry.
type AddItemRequest struct {
	Type         string `json:"type" validate:"required"`
	ReferenceID  string `json:"referenceId"`
	Title        string `json:"title" validate:"max=255"`
	URL          string `json:"url" validate:"max=2048"`
	Target       string `json:"target"`
	ParentTempID string `json:"parentTempId"`
}

// AddItem handles POST /editor/sessions/{sessionId}/items.
func (h *EditorHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req AddItemRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}
	kind, err := model.ParseItemType(req.Type)
	if err != nil {
		writeValidationError(w, err)
		return
	}

	var item *model.MenuItem
	if kind == model.ItemCustom {
		item, err = s.AddCustom(req.Title, req.URL, req.Target, req.ParentTempID)
	} else {
		entry := model.CatalogEntry{ID: req.ReferenceID, Title: req.Title}
		if strings.TrimSpace(entry.Title) == "" && entry.ID != "" {
			entry, err = lookupCatalogEntry(r.Context(), s, kind, entry.ID)
			if err != nil {
				writeEditorError(w, s, err)
				return
			}
		}
		item, err = s.AddFromCatalog(kind, entry, req.ParentTempID)
	}
	if err != nil {
		writeEditorError(w, s, err)
		return
	}

	v := view(s)
	node := treeNode(item)
	v.Item = &node
	writeJSON(w, http.StatusCreated, v)
}

// lookupCatalogEntry finds a catalog entry by id so its title can be used as
// the item title.
func lookupCatalogEntry(ctx context.Context, s *editor.Session, kind model.ItemType, id string) (model.CatalogEntry, error) {
	entries, err := s.Catalog(ctx, kind)
	if err != nil {
		return model.CatalogEntry{}, err
	}
	for _, e := range entries {
		if e.ID == id {
			return e, nil
		}
	}
	return model.CatalogEntry{}, fmt.Errorf("%w: %s %s is not in the catalog", model.ErrReferenceRequired, kind.CatalogPath(), id)
}

// EditItem handles PATCH /editor/sessions/{sessionId}/items/{tempId}.
func (h *EditorHandler) EditItem(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var patch editor.Patch
	if err := decodeJSON(w, r, &patch, false); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.Edit(chi.URLParam(r, "tempId"), patch); err != nil {
		writeEditorError(w, s, err)
		return
	}
	writeJSON(w, http.StatusOK, view(s))
}

// DeleteItem handles DELETE /editor/sessions/{sessionId}/items/{tempId}.
// The whole subtree is removed; the response reports how many nodes went.
func (h *EditorHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	removed, err := s.Delete(chi.URLParam(r, "tempId"))
	if err != nil {
		writeEditorError(w, s, err)
		return
	}
	v := view(s)
	v.Removed = removed
	writeJSON(w, http.StatusOK, v)
}

// Indent handles POST /editor/sessions/{sessionId}/items/{tempId}/indent.
func (h *EditorHandler) Indent(w http.ResponseWriter, r *http.Request) {
	h.shift(w, r, (*editor.Session).Indent)
}

// Outdent handles POST /editor/sessions/{sessionId}/items/{tempId}/outdent.
func (h *EditorHandler) Outdent(w http.ResponseWriter, r *http.Request) {
	h.shift(w, r, (*editor.Session).Outdent)
}

func (h *EditorHandler) shift(w http.ResponseWriter, r *http.Request, op func(*editor.Session, string) (bool, error)) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	changed, err := op(s, chi.URLParam(r, "tempId"))
	if err != nil {
		writeEditorError(w, s, err)
		return
	}
	v := view(s)
	v.Changed = &changed
	writeJSON(w, http.StatusOK, v)
}

// MoveRequest is the body of POST /editor/sessions/{sessionId}/items/{tempId}/move.
type MoveRequest struct {
	OverID   string `json:"overId" validate:"required"`
	Position string `json:"position" validate:"required"`
}

// Move handles POST /editor/sessions/{sessionId}/items/{tempId}/move.
func (h *EditorHandler) Move(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req MoveRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}
	pos, err := menutree.ParseDropPosition(req.Position)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.Move(chi.URLParam(r, "tempId"), req.OverID, pos); err != nil {
		writeEditorError(w, s, err)
		return
	}
	writeJSON(w, http.StatusOK, view(s))
}

// DragStartRequest is the body of POST /editor/sessions/{sessionId}/drag/start.
type DragStartRequest struct {
	TempID string `json:"tempId" validate:"required"`
}

// DragStart handles POST /editor/sessions/{sessionId}/drag/start.
func (h *EditorHandler) DragStart(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req DragStartRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}
	if err := s.DragStart(req.TempID); err != nil {
		writeEditorError(w, s, err)
		return
	}
	writeJSON(w, http.StatusOK, view(s))
}

// DragOverRequest is the body of POST /editor/sessions/{sessionId}/drag/over.
// Either Position or both rectangles must be given.
type DragOverRequest struct {
	OverID   string         `json:"overId" validate:"required"`
	Position string         `json:"position"`
	Active   *menutree.Rect `json:"active"`
	Over     *menutree.Rect `json:"over"`
}

// DragOver handles POST /editor/sessions/{sessionId}/drag/over.
func (h *EditorHandler) DragOver(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req DragOverRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	var pos menutree.DropPosition
	var err error
	switch {
	case req.Position != "":
		pos, err = menutree.ParseDropPosition(req.Position)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		err = s.DragOverPosition(req.OverID, pos)
	case req.Active != nil && req.Over != nil:
		pos, err = s.DragOver(req.OverID, *req.Active, *req.Over)
	default:
		writeJSONError(w, http.StatusBadRequest, "position or active and over rectangles are required")
		return
	}
	if err != nil {
		writeEditorError(w, s, err)
		return
	}

	v := view(s)
	v.Position = string(pos)
	writeJSON(w, http.StatusOK, v)
}

// DragEnd handles POST /editor/sessions/{sessionId}/drag/end.
func (h *EditorHandler) DragEnd(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	state, err := s.DragEnd()
	if err != nil {
		writeEditorError(w, s, err)
		return
	}
	v := view(s)
	v.Result = state.String()
	writeJSON(w, http.StatusOK, v)
}

// DragCancel handles POST /editor/sessions/{sessionId}/drag/cancel.
func (h *EditorHandler) DragCancel(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	state := s.DragCancel()
	v := view(s)
	v.Result = state.String()
	writeJSON(w, http.StatusOK, v)
}

// Save handles POST /editor/sessions/{sessionId}/save.
func (h *EditorHandler) Save(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.Save(r.Context()); err != nil {
		writeEditorError(w, s, err)
		return
	}
	writeJSON(w, http.StatusOK, view(s))
}
