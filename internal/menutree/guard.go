// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menutree

import (
	"errors"

	"github.com/olegiv/ocms-menus/internal/model"
)

// ErrCycle is returned when a move would nest a node under itself or one of its descendants.
var ErrCycle = errors.New("cannot move a menu item inside itself or one of its children")

// IsDescendant reports whether the node with tempID is somewhere below ancestor.
func IsDescendant(ancestor *model.MenuItem, tempID string) bool {
	for _, c := range ancestor.Children {
		if c.TempID == tempID || IsDescendant(c, tempID) {
			return true
		}
	}
	return false
}

// CanNestUnder returns ErrCycle if making x a child of y would create a cycle.
func CanNestUnder(x, y *model.MenuItem) error {
	if x.TempID == y.TempID || IsDescendant(x, y.TempID) {
		return ErrCycle
	}
	return nil
}
