// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	PrepareContext(context.Context, string) (*sql.Stmt, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// Queries runs the store's SQL statements against a database or transaction.
type Queries struct {
	db DBTX
}

// New creates Queries bound to db.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns Queries bound to tx.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// Menu is a row of the menus table.
type Menu struct {
	ID        int64
	Name      string
	Locations string // JSON array
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MenuItem is a row of the menu_items table.
type MenuItem struct {
	ID          int64
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

// CatalogEntry is a row of one of the catalog tables.
type CatalogEntry struct {
	ID    int64
	Title string
}

// Event is a row of the events table.
type Event struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	Metadata  string
	CreatedAt time.Time
}

// notFound maps sql.ErrNoRows to ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
