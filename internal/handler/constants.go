// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteHealth is the health check route.
	RouteHealth = "/health"
	// RouteMenus is the menus route.
	RouteMenus = "/menus"
	// RouteEditorSessions is the editor sessions route.
	RouteEditorSessions = "/editor/sessions"

	// RouteParamID is the ID parameter pattern.
	RouteParamID = "/{id}"
	// RouteParamSessionID is the editor session ID parameter pattern.
	RouteParamSessionID = "/{sessionId}"
	// RouteItemsTempID is the editor item route pattern.
	RouteItemsTempID = "/items/{tempId}"
	// RouteCatalogsKind is the editor catalog route pattern.
	RouteCatalogsKind = "/catalogs/{kind}"

	// RouteSuffixItems is the suffix for menu item routes.
	RouteSuffixItems = "/items"
	// RouteSuffixIndent is the suffix for indent routes.
	RouteSuffixIndent = "/indent"
	// RouteSuffixOutdent is the suffix for outdent routes.
	RouteSuffixOutdent = "/outdent"
	// RouteSuffixMove is the suffix for move routes.
	RouteSuffixMove = "/move"
	// RouteSuffixSave is the suffix for save routes.
	RouteSuffixSave = "/save"
	// RouteSuffixDrag is the prefix of the drag routes.
	RouteSuffixDrag = "/drag"

	// RouteMenusID is the menus ID route pattern.
	RouteMenusID = RouteMenus + RouteParamID
	// RouteMenusIDItems is the menu save route pattern.
	RouteMenusIDItems = RouteMenusID + RouteSuffixItems
)

// HeaderContentType is the Content-Type HTTP header name.
const HeaderContentType = "Content-Type"
