// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menutree

import (
	"errors"
	"fmt"
	"slices"

	"github.com/olegiv/ocms-menus/internal/model"
)

// DropPosition is the hover-time classification of drag intent.
type DropPosition string

// Drop positions
const (
	DropBefore DropPosition = "before"
	DropAfter  DropPosition = "after"
	DropInside DropPosition = "inside"
)

// ParseDropPosition validates a drop position name.
func ParseDropPosition(s string) (DropPosition, error) {
	switch p := DropPosition(s); p {
	case DropBefore, DropAfter, DropInside:
		return p, nil
	}
	return "", fmt.Errorf("invalid drop position %q", s)
}

// Rect is the vertical extent of a rendered node, in pixels.
type Rect struct {
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
}

// Classify maps the dragged element's rectangle over a hovered target's rectangle to
// a drop position. The centre of the dragged element is measured from the top of the
// target: the upper quarter means before, the lower quarter means after and the
// middle half means inside.
func Classify(active, over Rect) DropPosition {
	relativeY := active.Top - over.Top + active.Height/2
	h := over.Height
	switch {
	case relativeY < 0.25*h:
		return DropBefore
	case relativeY > 0.75*h:
		return DropAfter
	default:
		return DropInside
	}
}

// DragState is the state of a DragController.
type DragState int

// Drag states. Committed and Discarded are reported by Drop and Cancel; the
// controller itself returns to Idle afterwards.
const (
	DragIdle DragState = iota
	DragDragging
	DragHovering
	DragCommitted
	DragDiscarded
)

func (s DragState) String() string {
	switch s {
	case DragIdle:
		return "idle"
	case DragDragging:
		return "dragging"
	case DragHovering:
		return "hovering"
	case DragCommitted:
		return "committed"
	case DragDiscarded:
		return "discarded"
	}
	return fmt.Sprintf("DragState(%d)", int(s))
}

// ErrNotDragging is returned by Over when no drag is in progress.
var ErrNotDragging = errors.New("no drag in progress")

// DragController turns pointer drag events into tree moves.
//
// While hovering, a target in a different sibling group than the dragged node
// causes a live reparent preview: the dragged node is moved to the end of the
// hovered group immediately. The preview is part of the working tree; a drag that
// ends without a target keeps whatever the last preview produced.
//
// The zero value is an idle controller. It is not safe for concurrent use.
type DragController struct {
	state    DragState
	activeID string
	overID   string
	position DropPosition
}

// State returns the current state.
func (d *DragController) State() DragState { return d.state }

// Active returns the TempID of the dragged node, or "" when idle.
func (d *DragController) Active() string { return d.activeID }

// Target returns the current hover target and drop position.
func (d *DragController) Target() (overID string, position DropPosition) {
	return d.overID, d.position
}

// Start begins dragging the node with the given TempID. Any drag already in
// progress is abandoned.
func (d *DragController) Start(tree []*model.MenuItem, tempID string) error {
	if Find(tree, tempID) == nil {
		return ErrNotFound
	}
	d.reset()
	d.state = DragDragging
	d.activeID = tempID
	return nil
}

// Over records a hover over the node overID, classifying the drop position from
// the two rectangles. It returns the possibly updated working tree.
func (d *DragController) Over(tree []*model.MenuItem, overID string, active, over Rect) ([]*model.MenuItem, DropPosition, error) {
	pos := Classify(active, over)
	out, err := d.OverPosition(tree, overID, pos)
	return out, pos, err
}

// OverPosition is Over with an already classified drop position.
func (d *DragController) OverPosition(tree []*model.MenuItem, overID string, pos DropPosition) ([]*model.MenuItem, error) {
	if d.state != DragDragging && d.state != DragHovering {
		return tree, ErrNotDragging
	}

	activeLoc, ok := Locate(tree, d.activeID)
	if !ok {
		return tree, ErrNotFound
	}
	overLoc, ok := Locate(tree, overID)
	if !ok {
		// Pointer left every target: keep dragging without a target.
		d.state = DragDragging
		d.overID, d.position = "", ""
		return tree, nil
	}

	d.state = DragHovering
	d.overID, d.position = overID, pos

	if overID == d.activeID || activeLoc.Parent == overLoc.Parent {
		return tree, nil
	}
	// Never preview a move into the dragged node's own subtree.
	if overLoc.Parent != nil && CanNestUnder(activeLoc.Node, overLoc.Parent) != nil {
		return tree, nil
	}

	out := Clone(tree)
	activeLoc, _ = Locate(out, d.activeID)
	overLoc, _ = Locate(out, overID)

	from := container(&out, activeLoc)
	removeAt(from, activeLoc.Index)
	reindex(*from)

	to := container(&out, overLoc)
	activeLoc.Node.ParentID = parentRef(overLoc.Parent)
	*to = append(*to, activeLoc.Node)
	reindex(*to)
	return out, nil
}

// Drop finalises the drag using the last hover target and drop position.
//
// Without a target the drag is discarded and the tree is returned as is
// (including any preview). Dropping inside a descendant returns ErrCycle and the
// tree unchanged. In every case the controller returns to Idle; the returned
// state is DragCommitted or DragDiscarded.
func (d *DragController) Drop(tree []*model.MenuItem) ([]*model.MenuItem, DragState, error) {
	activeID, overID, pos := d.activeID, d.overID, d.position
	hovering := d.state == DragHovering
	d.reset()

	if !hovering {
		return tree, DragDiscarded, nil
	}
	out, err := Move(tree, activeID, overID, pos)
	if err != nil {
		return tree, DragDiscarded, err
	}
	return out, DragCommitted, nil
}

// Cancel abandons the drag. Preview mutations already applied are kept.
func (d *DragController) Cancel() DragState {
	if d.state == DragIdle {
		return DragIdle
	}
	d.reset()
	return DragDiscarded
}

func (d *DragController) reset() {
	d.state = DragIdle
	d.activeID, d.overID, d.position = "", "", ""
}

// Move places the node activeID relative to the node overID. Inside appends it to
// the target's children; before and after insert it next to the target in the
// target's sibling group. Within one sibling group the move is an array move:
// the node lands at the target's index (plus one for after) measured before it
// was removed, so dragging A after B in [A B C] yields [B C A]. Across groups the
// target is resolved again after the detach. Moving a node onto itself is a no-op.
func Move(tree []*model.MenuItem, activeID, overID string, pos DropPosition) ([]*model.MenuItem, error) {
	active := Find(tree, activeID)
	target := Find(tree, overID)
	if active == nil || target == nil {
		return tree, ErrNotFound
	}

	switch pos {
	case DropInside:
		if err := CanNestUnder(active, target); err != nil {
			return tree, err
		}
	case DropBefore, DropAfter:
		if activeID == overID {
			return tree, nil
		}
		// A sibling position next to a descendant is still inside our own subtree.
		if IsDescendant(active, overID) {
			return tree, ErrCycle
		}
	default:
		return tree, fmt.Errorf("invalid drop position %q", pos)
	}

	out := Clone(tree)
	activeLoc, _ := Locate(out, activeID)
	if pos != DropInside {
		if overLoc, _ := Locate(out, overID); overLoc.Parent == activeLoc.Parent {
			return moveWithinGroup(out, activeLoc, overLoc.Index, pos), nil
		}
	}

	from := container(&out, activeLoc)
	removeAt(from, activeLoc.Index)
	reindex(*from)

	overLoc, _ := Locate(out, overID)
	node := activeLoc.Node

	if pos == DropInside {
		node.ParentID = overLoc.Node.Identity()
		overLoc.Node.Children = append(overLoc.Node.Children, node)
		reindex(overLoc.Node.Children)
		return out, nil
	}

	idx := overLoc.Index
	if pos == DropAfter {
		idx++
	}
	to := container(&out, overLoc)
	node.ParentID = parentRef(overLoc.Parent)
	*to = slices.Insert(*to, idx, node)
	reindex(*to)
	return out, nil
}

func moveWithinGroup(roots []*model.MenuItem, loc Location, overIdx int, pos DropPosition) []*model.MenuItem {
	idx := overIdx
	if pos == DropAfter {
		idx++
	}
	group := container(&roots, loc)
	*group = slices.Delete(*group, loc.Index, loc.Index+1)
	*group = slices.Insert(*group, min(idx, len(*group)), loc.Node)
	reindex(*group)
	return roots
}
