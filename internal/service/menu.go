// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides the menu persistence service used by the API and
// by server-side editing sessions.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/ocms-menus/internal/cache"
	"github.com/olegiv/ocms-menus/internal/model"
	"github.com/olegiv/ocms-menus/internal/store"
	"github.com/olegiv/ocms-menus/internal/util"
	"github.com/olegiv/ocms-menus/internal/webhook"
)

// ErrNotFound is returned for unknown menus.
var ErrNotFound = store.ErrNotFound

// ErrInvalidItems wraps validation failures of a save payload.
var ErrInvalidItems = errors.New("invalid menu items")

// EventPublisher receives notifications about saved menus.
type EventPublisher interface {
	DispatchEvent(ctx context.Context, eventType string, data any) error
}

// MenuService loads and saves menus. It implements editor.Backend.
type MenuService struct {
	db        *sql.DB
	queries   *store.Queries
	menuCache *cache.MenuCache
	events    EventPublisher
}

// Option configures a MenuService.
type Option func(*MenuService)

// WithEventPublisher publishes a webhook.EventMenuSaved event after every save.
func WithEventPublisher(p EventPublisher) Option {
	return func(s *MenuService) { s.events = p }
}

// NewMenuService creates a new MenuService.
// If menuCache is nil, menus are always read from the database.
func NewMenuService(db *sql.DB, menuCache *cache.MenuCache, opts ...Option) *MenuService {
	s := &MenuService{
		db:        db,
		queries:   store.New(db),
		menuCache: menuCache,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func parseID(id string) (int64, error) {
	n, ok := util.ParseID(id)
	if !ok {
		return 0, fmt.Errorf("menu %q: %w", id, ErrNotFound)
	}
	return n, nil
}

// LoadMenu returns the menu with its items in flat parent-pointer form.
func (s *MenuService) LoadMenu(ctx context.Context, menuID string) (*model.MenuWithItems, error) {
	id, err := parseID(menuID)
	if err != nil {
		return nil, err
	}
	if s.menuCache == nil {
		return s.loadMenu(ctx, id)
	}
	return s.menuCache.Menu(ctx, menuID, func() (*model.MenuWithItems, error) {
		return s.loadMenu(ctx, id)
	})
}

func (s *MenuService) loadMenu(ctx context.Context, id int64) (*model.MenuWithItems, error) {
	menu, err := s.queries.GetMenu(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading menu %d: %w", id, err)
	}
	rows, err := s.queries.ListMenuItems(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading items of menu %d: %w", id, err)
	}

	var locations []string
	if err := json.Unmarshal([]byte(menu.Locations), &locations); err != nil {
		slog.Warn("invalid menu locations", "menu_id", id, "error", err)
	}
	if locations == nil {
		locations = []string{}
	}

	out := &model.MenuWithItems{
		Menu: model.Menu{
			ID:        util.FormatID(menu.ID),
			Name:      menu.Name,
			Locations: locations,
			IsActive:  menu.IsActive,
		},
		Items: make([]model.FlatItem, 0, len(rows)),
	}
	for _, r := range rows {
		out.Items = append(out.Items, flatItem(r))
	}
	return out, nil
}

func flatItem(r store.MenuItem) model.FlatItem {
	return model.FlatItem{
		ID:          util.FormatID(r.ID),
		ParentID:    util.FormatNullID(r.ParentID),
		Type:        model.ItemType(r.Type),
		ReferenceID: r.ReferenceID.String,
		Title:       r.Title,
		URL:         r.Url,
		Target:      r.Target,
		Icon:        r.Icon,
		DisplayMode: model.DisplayMode(r.DisplayMode),
		IconSize:    int(r.IconSize),
		Order:       int(r.Position),
	}
}

// SaveMenuItems replaces the whole item tree of a menu in one transaction.
func (s *MenuService) SaveMenuItems(ctx context.Context, menuID string, items []model.NestedItem) error {
	id, err := parseID(menuID)
	if err != nil {
		return err
	}
	for i, item := range items {
		if item.Order != i {
			return fmt.Errorf("%w: item %q has order %d, want %d", ErrInvalidItems, item.Title, item.Order, i)
		}
		if err := item.Validate(); err != nil {
			return fmt.Errorf("%w: %q: %w", ErrInvalidItems, item.Title, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	q := s.queries.WithTx(tx)

	if err := q.TouchMenu(ctx, id, time.Now()); err != nil {
		return fmt.Errorf("menu %s: %w", menuID, err)
	}
	if err := q.DeleteMenuItems(ctx, id); err != nil {
		return fmt.Errorf("deleting items of menu %s: %w", menuID, err)
	}
	count, err := insertItems(ctx, q, id, sql.NullInt64{}, items)
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing menu %s: %w", menuID, err)
	}

	if s.menuCache != nil {
		s.menuCache.InvalidateMenu(ctx, menuID)
	}
	slog.Info("menu items saved", "menu_id", menuID, "items", count)

	if s.events != nil {
		data := webhook.MenuEventData{MenuID: menuID, ItemCount: count}
		if err := s.events.DispatchEvent(ctx, webhook.EventMenuSaved, data); err != nil {
			slog.Warn("failed to publish menu event", "menu_id", menuID, "error", err)
		}
	}
	return nil
}

// insertItems writes a sibling group and, recursively, its children. Parents are
// inserted before their children so every parent_id refers to an existing row.
func insertItems(ctx context.Context, q *store.Queries, menuID int64, parent sql.NullInt64, items []model.NestedItem) (int, error) {
	count := 0
	for i, item := range items {
		target := item.Target
		if target == "" {
			target = model.TargetSelf
		}
		mode := item.DisplayMode
		if mode == "" {
			mode = model.DisplayText
		}
		row, err := q.CreateMenuItem(ctx, store.CreateMenuItemParams{
			MenuID:      menuID,
			ParentID:    parent,
			Type:        string(item.Type),
			ReferenceID: util.NullStringFromValue(item.ReferenceID),
			Title:       item.Title,
			Url:         item.URL,
			Target:      target,
			Icon:        item.Icon,
			DisplayMode: string(mode),
			IconSize:    int64(item.IconSize),
			Position:    int64(i),
		})
		if err != nil {
			return count, fmt.Errorf("inserting item %q: %w", item.Title, err)
		}
		count++

		n, err := insertItems(ctx, q, menuID, util.NullID(row.ID), item.Children)
		count += n
		if err != nil {
			return count, err
		}
	}
	return count, nil
}

// ListCatalog returns the entries of a source catalog.
func (s *MenuService) ListCatalog(ctx context.Context, kind model.ItemType) ([]model.CatalogEntry, error) {
	if !kind.IsCatalog() {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidType, kind)
	}
	load := func() (*[]model.CatalogEntry, error) {
		rows, err := s.queries.ListCatalog(ctx, store.Catalog(kind.CatalogPath()))
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", kind.CatalogPath(), err)
		}
		entries := make([]model.CatalogEntry, 0, len(rows))
		for _, r := range rows {
			entries = append(entries, model.CatalogEntry{ID: util.FormatID(r.ID), Title: r.Title})
		}
		return &entries, nil
	}

	if s.menuCache == nil {
		entries, err := load()
		if err != nil {
			return nil, err
		}
		return *entries, nil
	}
	return s.menuCache.Catalog(ctx, kind, load)
}

// InvalidateCache drops cached menus and catalogs.
func (s *MenuService) InvalidateCache(ctx context.Context) {
	if s.menuCache != nil {
		s.menuCache.Invalidate(ctx)
	}
}
