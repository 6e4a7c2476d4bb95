// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menutree

import (
	"slices"

	"github.com/olegiv/ocms-menus/internal/model"
)

// Indent moves the node under its previous sibling, as that sibling's last child.
// The first node of a sibling group cannot be indented; in that case the original
// tree is returned unchanged with changed == false.
func Indent(tree []*model.MenuItem, tempID string) (out []*model.MenuItem, changed bool, err error) {
	loc, ok := Locate(tree, tempID)
	if !ok {
		return tree, false, ErrNotFound
	}
	if loc.Index == 0 {
		return tree, false, nil
	}

	out = Clone(tree)
	loc, _ = Locate(out, tempID)
	siblings := container(&out, loc)
	prev := (*siblings)[loc.Index-1]

	removeAt(siblings, loc.Index)
	loc.Node.ParentID = prev.Identity()
	prev.Children = append(prev.Children, loc.Node)

	reindex(*siblings)
	reindex(prev.Children)
	return out, true, nil
}

// Outdent moves the node up one level, directly after its former parent.
// Root nodes cannot be outdented; in that case the original tree is returned
// unchanged with changed == false.
func Outdent(tree []*model.MenuItem, tempID string) (out []*model.MenuItem, changed bool, err error) {
	loc, ok := Locate(tree, tempID)
	if !ok {
		return tree, false, ErrNotFound
	}
	if loc.Parent == nil {
		return tree, false, nil
	}

	out = Clone(tree)
	loc, _ = Locate(out, tempID)
	parent := loc.Parent
	parentLoc, _ := Locate(out, parent.TempID)

	removeAt(&parent.Children, loc.Index)
	grand := container(&out, parentLoc)
	loc.Node.ParentID = parentRef(parentLoc.Parent)
	*grand = slices.Insert(*grand, parentLoc.Index+1, loc.Node)

	reindex(parent.Children)
	reindex(*grand)
	return out, true, nil
}

// Delete removes the node together with its whole subtree and re-indexes the
// remaining siblings. It returns the number of removed nodes.
func Delete(tree []*model.MenuItem, tempID string) (out []*model.MenuItem, removed int, err error) {
	if _, ok := Locate(tree, tempID); !ok {
		return tree, 0, ErrNotFound
	}

	out = Clone(tree)
	loc, _ := Locate(out, tempID)
	siblings := container(&out, loc)
	removed = 1 + Count(loc.Node.Children)

	removeAt(siblings, loc.Index)
	reindex(*siblings)
	return out, removed, nil
}

// Append adds item as the last child of the node with parentTempID, or as the last
// root when parentTempID is empty. The item's ParentID and Order are set accordingly.
func Append(tree []*model.MenuItem, item *model.MenuItem, parentTempID string) ([]*model.MenuItem, error) {
	out := Clone(tree)
	node := *item
	node.Children = Clone(item.Children)

	if parentTempID == "" {
		node.ParentID = ""
		node.Order = len(out)
		return append(out, &node), nil
	}

	parent := Find(out, parentTempID)
	if parent == nil {
		return tree, ErrNotFound
	}
	node.ParentID = parent.Identity()
	node.Order = len(parent.Children)
	parent.Children = append(parent.Children, &node)
	return out, nil
}

// Update applies fn to a copy of the node with the given TempID. fn must not touch
// structural fields (Children, ParentID, Order, TempID).
func Update(tree []*model.MenuItem, tempID string, fn func(*model.MenuItem) error) ([]*model.MenuItem, error) {
	out := Clone(tree)
	node := Find(out, tempID)
	if node == nil {
		return tree, ErrNotFound
	}
	if err := fn(node); err != nil {
		return tree, err
	}
	return out, nil
}
