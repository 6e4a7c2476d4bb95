// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const menuColumns = `id, name, locations, is_active, created_at, updated_at`

func scanMenu(row interface{ Scan(...any) error }) (Menu, error) {
	var m Menu
	err := row.Scan(&m.ID, &m.Name, &m.Locations, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

// CreateMenuParams holds the fields of a new menu.
type CreateMenuParams struct {
	Name      string
	Locations string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateMenu inserts a menu.
func (q *Queries) CreateMenu(ctx context.Context, arg CreateMenuParams) (Menu, error) {
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO menus (name, locations, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 RETURNING `+menuColumns,
		arg.Name, arg.Locations, arg.IsActive, arg.CreatedAt, arg.UpdatedAt,
	)
	return scanMenu(row)
}

// GetMenu returns the menu with the given id.
func (q *Queries) GetMenu(ctx context.Context, id int64) (Menu, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+menuColumns+` FROM menus WHERE id = ?`, id)
	m, err := scanMenu(row)
	return m, notFound(err)
}

// ListMenus returns all menus ordered by name.
func (q *Queries) ListMenus(ctx context.Context) ([]Menu, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+menuColumns+` FROM menus ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []Menu
	for rows.Next() {
		m, err := scanMenu(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// CountMenus returns the number of menus.
func (q *Queries) CountMenus(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM menus`).Scan(&n)
	return n, err
}

// TouchMenu updates the menu's updated_at timestamp.
func (q *Queries) TouchMenu(ctx context.Context, id int64, updatedAt time.Time) error {
	res, err := q.db.ExecContext(ctx, `UPDATE menus SET updated_at = ? WHERE id = ?`, updatedAt, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

const menuItemColumns = `id, menu_id, parent_id, type, reference_id, title, url, target, icon, display_mode, icon_size, position`

func scanMenuItem(row interface{ Scan(...any) error }) (MenuItem, error) {
	var i MenuItem
	err := row.Scan(
		&i.ID, &i.MenuID, &i.ParentID, &i.Type, &i.ReferenceID, &i.Title,
		&i.Url, &i.Target, &i.Icon, &i.DisplayMode, &i.IconSize, &i.Position,
	)
	return i, err
}

// ListMenuItems returns the items of a menu ordered by parent and position.
func (q *Queries) ListMenuItems(ctx context.Context, menuID int64) ([]MenuItem, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+menuItemColumns+` FROM menu_items
		 WHERE menu_id = ?
		 ORDER BY COALESCE(parent_id, 0), position, id`,
		menuID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []MenuItem
	for rows.Next() {
		i, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

// CreateMenuItemParams holds the fields of a new menu item.
type CreateMenuItemParams struct {
	MenuID      int64
	ParentID    sql.NullInt64
	Type        string
	ReferenceID sql.NullString
	Title       string
	Url         string
	Target      string
	Icon        string
	DisplayMode string
	IconSize    int64
	Position    int64
}

// CreateMenuItem inserts a menu item.
func (q *Queries) CreateMenuItem(ctx context.Context, arg CreateMenuItemParams) (MenuItem, error) {
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO menu_items (menu_id, parent_id, type, reference_id, title, url, target, icon, display_mode, icon_size, position)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 RETURNING `+menuItemColumns,
		arg.MenuID, arg.ParentID, arg.Type, arg.ReferenceID, arg.Title,
		arg.Url, arg.Target, arg.Icon, arg.DisplayMode, arg.IconSize, arg.Position,
	)
	return scanMenuItem(row)
}

// DeleteMenuItems removes every item of a menu.
func (q *Queries) DeleteMenuItems(ctx context.Context, menuID int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM menu_items WHERE menu_id = ?`, menuID)
	return err
}
