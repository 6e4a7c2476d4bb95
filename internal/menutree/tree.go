// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package menutree implements the menu tree editing engine: conversion between the
// flat parent-pointer form and the nested tree, structural operators (indent, outdent,
// delete, drag and drop) and the cycle guard that keeps the forest acyclic.
//
// Every operator works on a clone of its input and returns the new tree; the input
// is never mutated. Nodes are addressed by TempID so that persisted and unsaved
// items are handled uniformly.
package menutree

import (
	"errors"
	"slices"
	"sort"

	"github.com/olegiv/ocms-menus/internal/model"
)

// ErrNotFound is returned when an operation names a TempID that is not in the tree.
var ErrNotFound = errors.New("menu item not found")

// Build converts a flat list of persisted items into a nested tree.
//
// Every item gets a fresh TempID from newTempID. Items whose parentId is empty or
// does not resolve to another item in the list become roots; items caught in a
// parent cycle are detached and promoted to roots as well. Within each sibling group
// the stored order is used as a stable sort key and then re-indexed to 0..k-1.
func Build(flat []model.FlatItem, newTempID func() string) []*model.MenuItem {
	nodes := make([]*model.MenuItem, 0, len(flat))
	byID := make(map[string]*model.MenuItem, len(flat))

	for _, f := range flat {
		n := &model.MenuItem{
			ID:          f.ID,
			TempID:      newTempID(),
			ParentID:    f.ParentID,
			Type:        f.Type,
			ReferenceID: f.ReferenceID,
			Title:       f.Title,
			URL:         f.URL,
			Target:      f.Target,
			Icon:        f.Icon,
			DisplayMode: f.DisplayMode,
			IconSize:    f.IconSize,
			Order:       f.Order,
		}
		if n.DisplayMode == "" {
			n.DisplayMode = model.DisplayText
		}
		nodes = append(nodes, n)
		if f.ID != "" {
			if _, dup := byID[f.ID]; !dup {
				byID[f.ID] = n
			}
		}
	}

	var roots []*model.MenuItem
	for _, n := range nodes {
		parent, ok := byID[n.ParentID]
		if n.ParentID == "" || !ok || parent == n {
			n.ParentID = ""
			roots = append(roots, n)
			continue
		}
		parent.Children = append(parent.Children, n)
	}

	// Nodes not reachable from a root sit on a parent cycle.
	reached := make(map[*model.MenuItem]bool, len(nodes))
	mark := func(n *model.MenuItem) {
		walk([]*model.MenuItem{n}, 0, func(m *model.MenuItem, _ int) bool {
			reached[m] = true
			return true
		})
	}
	for _, r := range roots {
		mark(r)
	}
	for _, n := range nodes {
		if reached[n] {
			continue
		}
		parent := byID[n.ParentID]
		parent.Children = slices.DeleteFunc(parent.Children, func(c *model.MenuItem) bool { return c == n })
		n.ParentID = ""
		roots = append(roots, n)
		mark(n)
	}

	sortByOrder(roots)
	return roots
}

// sortByOrder stable-sorts every sibling group by stored order and re-indexes it.
func sortByOrder(group []*model.MenuItem) {
	sort.SliceStable(group, func(i, j int) bool {
		return group[i].Order < group[j].Order
	})
	for i, n := range group {
		n.Order = i
		sortByOrder(n.Children)
	}
}

// Flatten converts a tree into the flat parent-pointer form in depth-first pre-order.
// The order of every emitted item is its index within its sibling group and its
// parentId is the identity of the enclosing node (parentID for the top level).
func Flatten(tree []*model.MenuItem, parentID string) []model.FlatItem {
	var out []model.FlatItem
	for i, n := range tree {
		out = append(out, model.FlatItem{
			ID:          n.ID,
			ParentID:    parentID,
			Type:        n.Type,
			ReferenceID: n.ReferenceID,
			Title:       n.Title,
			URL:         n.URL,
			Target:      n.Target,
			Icon:        n.Icon,
			DisplayMode: n.DisplayMode,
			IconSize:    n.IconSize,
			Order:       i,
		})
		out = append(out, Flatten(n.Children, n.Identity())...)
	}
	return out
}

// Nest converts a tree into the nested save payload. Identities and UI state are
// dropped, order is recomputed from each node's position and children are always
// a non-nil slice.
func Nest(tree []*model.MenuItem) []model.NestedItem {
	out := make([]model.NestedItem, 0, len(tree))
	for i, n := range tree {
		out = append(out, model.NestedItem{
			Type:        n.Type,
			ReferenceID: n.ReferenceID,
			Title:       n.Title,
			URL:         n.URL,
			Target:      n.Target,
			Icon:        n.Icon,
			DisplayMode: n.DisplayMode,
			IconSize:    n.IconSize,
			Order:       i,
			Children:    Nest(n.Children),
		})
	}
	return out
}

// Clone returns a deep structural copy of the tree.
func Clone(tree []*model.MenuItem) []*model.MenuItem {
	if len(tree) == 0 {
		return nil
	}
	out := make([]*model.MenuItem, len(tree))
	for i, n := range tree {
		c := *n
		c.Children = Clone(n.Children)
		out[i] = &c
	}
	return out
}

// Location describes where a node sits in the tree.
type Location struct {
	Node   *model.MenuItem
	Parent *model.MenuItem // nil for roots
	Index  int             // position within the sibling group
}

// Locate finds the node with the given TempID.
func Locate(tree []*model.MenuItem, tempID string) (Location, bool) {
	return locate(tree, nil, tempID)
}

func locate(group []*model.MenuItem, parent *model.MenuItem, tempID string) (Location, bool) {
	for i, n := range group {
		if n.TempID == tempID {
			return Location{Node: n, Parent: parent, Index: i}, true
		}
		if loc, ok := locate(n.Children, n, tempID); ok {
			return loc, true
		}
	}
	return Location{}, false
}

// Find returns the node with the given TempID, or nil.
func Find(tree []*model.MenuItem, tempID string) *model.MenuItem {
	loc, ok := Locate(tree, tempID)
	if !ok {
		return nil
	}
	return loc.Node
}

// FindByID returns the node whose persisted ID matches, or nil.
func FindByID(tree []*model.MenuItem, id string) *model.MenuItem {
	var found *model.MenuItem
	Walk(tree, func(n *model.MenuItem, _ int) bool {
		if id != "" && n.ID == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// Walk visits every node in depth-first pre-order with its depth (roots are 0).
// Returning false from fn stops the walk.
func Walk(tree []*model.MenuItem, fn func(n *model.MenuItem, depth int) bool) {
	walk(tree, 0, fn)
}

func walk(group []*model.MenuItem, depth int, fn func(*model.MenuItem, int) bool) bool {
	for _, n := range group {
		if !fn(n, depth) {
			return false
		}
		if !walk(n.Children, depth+1, fn) {
			return false
		}
	}
	return true
}

// Count returns the number of nodes in the tree.
func Count(tree []*model.MenuItem) int {
	total := 0
	Walk(tree, func(*model.MenuItem, int) bool {
		total++
		return true
	})
	return total
}

// Reindex recomputes order in every sibling group of the tree, in place.
func Reindex(tree []*model.MenuItem) {
	for i, n := range tree {
		n.Order = i
		Reindex(n.Children)
	}
}

// reindex recomputes order in a single sibling group.
func reindex(group []*model.MenuItem) {
	for i, n := range group {
		n.Order = i
	}
}

// container returns a pointer to the sibling slice that holds loc.Node.
func container(roots *[]*model.MenuItem, loc Location) *[]*model.MenuItem {
	if loc.Parent == nil {
		return roots
	}
	return &loc.Parent.Children
}

// removeAt deletes the element at i; an emptied group becomes nil so that a
// node without children always has a nil Children slice.
func removeAt(group *[]*model.MenuItem, i int) {
	*group = slices.Delete(*group, i, i+1)
	if len(*group) == 0 {
		*group = nil
	}
}

// parentRef returns the parentId value for nodes placed under parent.
func parentRef(parent *model.MenuItem) string {
	if parent == nil {
		return ""
	}
	return parent.Identity()
}
