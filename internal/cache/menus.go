// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/olegiv/ocms-menus/internal/model"
)

// MenuCache caches loaded menus by id and source catalogs by type.
// Menus are invalidated whenever their items are saved.
type MenuCache struct {
	menus    *TypedCache[model.MenuWithItems]
	catalogs *TypedCache[[]model.CatalogEntry]
}

// NewMenuCache creates a menu cache on top of c.
func NewMenuCache(c Cache, ttl time.Duration) *MenuCache {
	return &MenuCache{
		menus:    NewTypedCache[model.MenuWithItems](c, "menu:", ttl),
		catalogs: NewTypedCache[[]model.CatalogEntry](c, "catalog:", ttl),
	}
}

// Menu returns the cached menu or loads it with load.
func (c *MenuCache) Menu(ctx context.Context, id string, load func() (*model.MenuWithItems, error)) (*model.MenuWithItems, error) {
	return c.menus.GetOrSet(ctx, id, load)
}

// Catalog returns the cached catalog or loads it with load.
func (c *MenuCache) Catalog(ctx context.Context, kind model.ItemType, load func() (*[]model.CatalogEntry, error)) ([]model.CatalogEntry, error) {
	entries, err := c.catalogs.GetOrSet(ctx, string(kind), load)
	if err != nil {
		return nil, err
	}
	return *entries, nil
}

// InvalidateMenu drops the cached copy of one menu.
func (c *MenuCache) InvalidateMenu(ctx context.Context, id string) {
	if err := c.menus.Delete(ctx, id); err != nil {
		slog.Warn("failed to invalidate menu cache", "menu_id", id, "error", err)
	}
}

// Invalidate drops every cached menu and catalog.
func (c *MenuCache) Invalidate(ctx context.Context) {
	if err := c.menus.Clear(ctx); err != nil {
		slog.Warn("failed to clear menu cache", "error", err)
	}
	if err := c.catalogs.Clear(ctx); err != nil {
		slog.Warn("failed to clear catalog cache", "error", err)
	}
}
