// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"time"
)

// Demo catalog content created by Seed.
var (
	demoCategories = []string{"News", "Reviews", "Tutorials"}
	demoTags       = []string{"go", "sqlite", "web"}
	demoComics     = []string{"The Gopher Chronicles", "Null Pointer"}
	demoPages      = []string{"About", "Contact", "Privacy Policy"}
)

// Seed creates a demo main menu and catalog rows. It does nothing when a menu
// already exists.
func Seed(ctx context.Context, db *sql.DB) error {
	queries := New(db)

	count, err := queries.CountMenus(ctx)
	if err != nil {
		return fmt.Errorf("counting menus: %w", err)
	}
	if count > 0 {
		slog.Info("menus already exist, skipping seed")
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	q := queries.WithTx(tx)

	catalogs := map[Catalog][]string{
		CatalogCategories: demoCategories,
		CatalogTags:       demoTags,
		CatalogComics:     demoComics,
		CatalogPages:      demoPages,
	}
	first := make(map[Catalog]int64)
	for c, titles := range catalogs {
		for _, title := range titles {
			e, err := q.CreateCatalogEntry(ctx, c, title)
			if err != nil {
				return fmt.Errorf("creating %s entry %q: %w", c, title, err)
			}
			if _, ok := first[c]; !ok {
				first[c] = e.ID
			}
		}
	}

	now := time.Now()
	menu, err := q.CreateMenu(ctx, CreateMenuParams{
		Name:      "Main Menu",
		Locations: `["header"]`,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return fmt.Errorf("creating main menu: %w", err)
	}

	home, err := q.CreateMenuItem(ctx, demoItem(menu.ID, sql.NullInt64{}, "CUSTOM", "", "Home", "/", 0))
	if err != nil {
		return fmt.Errorf("creating menu item: %w", err)
	}
	about, err := q.CreateMenuItem(ctx, demoItem(menu.ID, sql.NullInt64{}, "PAGE", refID(first[CatalogPages]), "About", "", 1))
	if err != nil {
		return fmt.Errorf("creating menu item: %w", err)
	}
	aboutRef := sql.NullInt64{Int64: about.ID, Valid: true}
	if _, err := q.CreateMenuItem(ctx, demoItem(menu.ID, aboutRef, "CATEGORY", refID(first[CatalogCategories]), "News", "", 0)); err != nil {
		return fmt.Errorf("creating menu item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing seed: %w", err)
	}

	slog.Info("created demo menu", "id", menu.ID, "home_item", home.ID)
	return nil
}

func demoItem(menuID int64, parent sql.NullInt64, itemType, referenceID, title, url string, position int64) CreateMenuItemParams {
	return CreateMenuItemParams{
		MenuID:      menuID,
		ParentID:    parent,
		Type:        itemType,
		ReferenceID: sql.NullString{String: referenceID, Valid: referenceID != ""},
		Title:       title,
		Url:         url,
		Target:      "_self",
		DisplayMode: "TEXT",
		IconSize:    16,
		Position:    position,
	}
}

func refID(id int64) string {
	return strconv.FormatInt(id, 10)
}
