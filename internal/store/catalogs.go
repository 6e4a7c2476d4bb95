// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
)

// Catalog names a source catalog table.
type Catalog string

// Source catalogs
const (
	CatalogCategories Catalog = "categories"
	CatalogTags       Catalog = "tags"
	CatalogComics     Catalog = "comics"
	CatalogPages      Catalog = "pages"
)

// titleColumn returns the display column of the catalog table. Categories and
// tags are named, comics and pages are titled.
func (c Catalog) titleColumn() (string, error) {
	switch c {
	case CatalogCategories, CatalogTags:
		return "name", nil
	case CatalogComics, CatalogPages:
		return "title", nil
	}
	return "", fmt.Errorf("unknown catalog %q", string(c))
}

// ListCatalog returns all entries of a catalog ordered by title.
func (q *Queries) ListCatalog(ctx context.Context, c Catalog) ([]CatalogEntry, error) {
	col, err := c.titleColumn()
	if err != nil {
		return nil, err
	}
	rows, err := q.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT id, %s FROM %s ORDER BY %s COLLATE NOCASE, id`, col, c, col))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []CatalogEntry
	for rows.Next() {
		var e CatalogEntry
		if err := rows.Scan(&e.ID, &e.Title); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

// CreateCatalogEntry inserts an entry into a catalog.
func (q *Queries) CreateCatalogEntry(ctx context.Context, c Catalog, title string) (CatalogEntry, error) {
	col, err := c.titleColumn()
	if err != nil {
		return CatalogEntry{}, err
	}
	var e CatalogEntry
	err = q.db.QueryRowContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (%s) VALUES (?) RETURNING id, %s`, c, col, col),
		title,
	).Scan(&e.ID, &e.Title)
	return e, err
}
