// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util converts between the string identifiers used by the API and the
// integer and nullable columns used by the database.
package util

import (
	"database/sql"
	"strconv"
	"strings"
)

// ParseID parses a positive decimal id. It reports false for empty, malformed,
// zero or negative input.
func ParseID(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// FormatID renders an integer id as a string.
func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// NullID creates a valid sql.NullInt64 from an id.
func NullID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: true}
}

// FormatNullID renders a nullable id, returning "" when it is NULL.
func FormatNullID(n sql.NullInt64) string {
	if !n.Valid {
		return ""
	}
	return FormatID(n.Int64)
}

// NullStringFromValue returns a NULL string for "" and a valid one otherwise.
func NullStringFromValue(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
