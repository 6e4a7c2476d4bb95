// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menutree

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/ocms-menus/internal/model"
)

func TestClassify(t *testing.T) {
	over := Rect{Top: 100, Height: 40}

	tests := []struct {
		name      string
		activeTop float64
		want      DropPosition
	}{
		{"well above", 60, DropBefore},
		{"upper quarter", 85, DropBefore},
		{"just under the upper boundary", 89.9, DropBefore},
		{"upper boundary", 90, DropInside},
		{"centre", 100, DropInside},
		{"lower boundary", 110, DropInside},
		{"just past the lower boundary", 110.1, DropAfter},
		{"lower quarter", 115, DropAfter},
		{"well below", 160, DropAfter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			active := Rect{Top: tt.activeTop, Height: 40}
			assert.Equal(t, tt.want, Classify(active, over))
		})
	}
}

func TestParseDropPosition(t *testing.T) {
	for _, s := range []string{"before", "after", "inside"} {
		p, err := ParseDropPosition(s)
		require.NoError(t, err)
		assert.Equal(t, DropPosition(s), p)
	}
	_, err := ParseDropPosition("under")
	assert.Error(t, err)
}

func TestDragBeforeFirstRoot(t *testing.T) {
	// [A, B, C] drag C before A -> [C, A, B]
	tree := forest(node("A"), node("B"), node("C"))
	var d DragController

	require.NoError(t, d.Start(tree, "t-C"))
	assert.Equal(t, DragDragging, d.State())

	tree, pos, err := d.Over(tree, "t-A", Rect{Top: 0, Height: 40}, Rect{Top: 40, Height: 40})
	require.NoError(t, err)
	assert.Equal(t, DropBefore, pos)
	assert.Equal(t, DragHovering, d.State())
	assert.Equal(t, "A B C", shape(tree), "same container must not preview")

	got, state, err := d.Drop(tree)
	require.NoError(t, err)
	assert.Equal(t, DragCommitted, state)
	assert.Equal(t, DragIdle, d.State())
	assert.Equal(t, "C A B", shape(got))
	for i, n := range got {
		assert.Equal(t, i, n.Order, n.Title)
	}
}

func TestMoveWithinContainer(t *testing.T) {
	tests := []struct {
		name   string
		active string
		over   string
		pos    DropPosition
		want   string
	}{
		{"after next sibling", "t-A", "t-B", DropAfter, "B C A"},
		{"after last sibling", "t-A", "t-C", DropAfter, "B C A"},
		{"before next sibling", "t-A", "t-B", DropBefore, "B A C"},
		{"before last sibling", "t-B", "t-C", DropBefore, "A C B"},
		{"before previous sibling", "t-C", "t-B", DropBefore, "A C B"},
		{"after first sibling", "t-C", "t-A", DropAfter, "A C B"},
		{"after previous sibling is a no-op", "t-B", "t-A", DropAfter, "A B C"},
		{"onto itself", "t-B", "t-B", DropBefore, "A B C"},
		{"inside sibling", "t-A", "t-C", DropInside, "B C[A]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := forest(node("A"), node("B"), node("C"))
			got, err := Move(tree, tt.active, tt.over, tt.pos)
			require.NoError(t, err)
			assert.Equal(t, tt.want, shape(got))
			checkOrders(t, got, "")
		})
	}
}

func TestDropInsideSetsParent(t *testing.T) {
	tree := forest(node("A", node("A1")), node("B"))
	var d DragController

	require.NoError(t, d.Start(tree, "t-B"))
	tree, err := d.OverPosition(tree, "t-A", DropInside)
	require.NoError(t, err)

	got, state, err := d.Drop(tree)
	require.NoError(t, err)
	assert.Equal(t, DragCommitted, state)
	assert.Equal(t, "A[A1 B]", shape(got))
	assert.Equal(t, "A", got[0].Children[1].ParentID)
	checkOrders(t, got, "")
}

func TestDropInsideDescendantIsRejected(t *testing.T) {
	base := func() []*model.MenuItem {
		return forest(node("A", node("B", node("C")), node("D")), node("E"))
	}

	targets := []string{"t-A", "t-B", "t-C", "t-D"}
	for _, over := range targets {
		t.Run(over, func(t *testing.T) {
			tree := base()
			before, err := json.Marshal(Nest(tree))
			require.NoError(t, err)

			var d DragController
			require.NoError(t, d.Start(tree, "t-A"))
			tree, err = d.OverPosition(tree, over, DropInside)
			require.NoError(t, err)

			got, state, err := d.Drop(tree)
			assert.ErrorIs(t, err, ErrCycle)
			assert.Equal(t, DragDiscarded, state)
			assert.Equal(t, DragIdle, d.State())

			after, err := json.Marshal(Nest(got))
			require.NoError(t, err)
			assert.JSONEq(t, string(before), string(after))
		})
	}
}

func TestDropDownwardWithinContainer(t *testing.T) {
	tree := forest(node("A"), node("B"), node("C"))
	var d DragController

	require.NoError(t, d.Start(tree, "t-A"))
	tree, err := d.OverPosition(tree, "t-B", DropAfter)
	require.NoError(t, err)

	got, state, err := d.Drop(tree)
	require.NoError(t, err)
	assert.Equal(t, DragCommitted, state)
	assert.Equal(t, "B C A", shape(got))
	checkOrders(t, got, "")
}

func TestMoveWithinNestedGroup(t *testing.T) {
	tree := forest(node("P", node("A"), node("B"), node("C")), node("D"))

	got, err := Move(tree, "t-A", "t-B", DropAfter)
	require.NoError(t, err)
	assert.Equal(t, "P[B C A] D", shape(got))
	assert.Equal(t, "P", got[0].Children[2].ParentID)
	checkOrders(t, got, "")
	assert.Equal(t, "P[A B C] D", shape(tree), "move must not mutate its input")
}

func TestMoveBesideDescendantIsRejected(t *testing.T) {
	tree := forest(node("A", node("B")), node("C"))

	got, err := Move(tree, "t-A", "t-B", DropAfter)
	assert.ErrorIs(t, err, ErrCycle)
	assert.Equal(t, "A[B] C", shape(got))
}

func TestHoverPreviewReparents(t *testing.T) {
	tree := forest(node("A", node("B")), node("C"))
	var d DragController

	require.NoError(t, d.Start(tree, "t-C"))
	preview, err := d.OverPosition(tree, "t-B", DropBefore)
	require.NoError(t, err)

	assert.Equal(t, "A[B C]", shape(preview), "preview appends to the hovered container")
	assert.Equal(t, "A", preview[0].Children[1].ParentID)
	assert.Equal(t, "A[B] C", shape(tree), "preview must not mutate its input")

	got, state, err := d.Drop(preview)
	require.NoError(t, err)
	assert.Equal(t, DragCommitted, state)
	assert.Equal(t, "A[C B]", shape(got))
	checkOrders(t, got, "")
}

func TestHoverPreviewIsStickyOnCancel(t *testing.T) {
	tree := forest(node("A", node("B")), node("C"))
	var d DragController

	require.NoError(t, d.Start(tree, "t-C"))
	preview, err := d.OverPosition(tree, "t-B", DropInside)
	require.NoError(t, err)

	// The pointer leaves every target before release.
	preview, err = d.OverPosition(preview, "", DropInside)
	require.NoError(t, err)
	assert.Equal(t, DragDragging, d.State())

	got, state, err := d.Drop(preview)
	require.NoError(t, err)
	assert.Equal(t, DragDiscarded, state)
	assert.Equal(t, "A[B C]", shape(got), "last preview is kept")

	assert.Equal(t, DragIdle, d.Cancel())
}

func TestHoverPreviewSkipsOwnSubtree(t *testing.T) {
	tree := forest(node("A", node("B", node("C"))), node("D"))
	var d DragController

	require.NoError(t, d.Start(tree, "t-A"))
	got, err := d.OverPosition(tree, "t-C", DropAfter)
	require.NoError(t, err)

	assert.Equal(t, "A[B[C]] D", shape(got))
}

func TestDragWithoutStart(t *testing.T) {
	tree := forest(node("A"), node("B"))
	var d DragController

	_, err := d.OverPosition(tree, "t-A", DropBefore)
	assert.ErrorIs(t, err, ErrNotDragging)

	got, state, err := d.Drop(tree)
	require.NoError(t, err)
	assert.Equal(t, DragDiscarded, state)
	assert.Equal(t, "A B", shape(got))

	assert.ErrorIs(t, d.Start(tree, "missing"), ErrNotFound)
	assert.Equal(t, DragIdle, d.State())
}

func TestCancel(t *testing.T) {
	tree := forest(node("A"), node("B"))
	var d DragController

	require.NoError(t, d.Start(tree, "t-A"))
	assert.Equal(t, DragDiscarded, d.Cancel())
	assert.Equal(t, DragIdle, d.State())
	assert.Empty(t, d.Active())
}

func TestDragStateString(t *testing.T) {
	assert.Equal(t, "hovering", DragHovering.String())
	assert.Equal(t, "DragState(42)", DragState(42).String())
}
