// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menutree

import (
	"errors"
	"reflect"
	"testing"

	"github.com/olegiv/ocms-menus/internal/model"
)

func TestIndent(t *testing.T) {
	// [A, B] -> indent(B) -> [A{children:[B]}]
	tree := forest(node("A"), node("B"))

	got, changed, err := Indent(tree, "t-B")
	if err != nil {
		t.Fatalf("Indent: %v", err)
	}
	if !changed {
		t.Fatal("Indent reported no change")
	}
	if s := shape(got); s != "A[B]" {
		t.Errorf("shape = %q, want %q", s, "A[B]")
	}
	if got[0].Children[0].ParentID != "A" {
		t.Errorf("B.ParentID = %q, want %q", got[0].Children[0].ParentID, "A")
	}
	checkOrders(t, got, "")

	if s := shape(tree); s != "A B" {
		t.Errorf("input was mutated: %q", s)
	}
}

func TestIndentAppendsAfterExistingChildren(t *testing.T) {
	tree := forest(node("A", node("X")), node("B"), node("C"))

	got, _, err := Indent(tree, "t-B")
	if err != nil {
		t.Fatalf("Indent: %v", err)
	}
	if s := shape(got); s != "A[X B] C" {
		t.Errorf("shape = %q, want %q", s, "A[X B] C")
	}
	checkOrders(t, got, "")
}

func TestIndentFirstChildIsNoop(t *testing.T) {
	tree := forest(node("A", node("B")), node("C"))
	before := Clone(tree)

	for _, id := range []string{"t-A", "t-B"} {
		got, changed, err := Indent(tree, id)
		if err != nil {
			t.Fatalf("Indent(%s): %v", id, err)
		}
		if changed {
			t.Errorf("Indent(%s) changed = true, want false", id)
		}
		if &got[0] != &tree[0] {
			t.Errorf("Indent(%s) returned a new tree for a no-op", id)
		}
	}
	if !reflect.DeepEqual(tree, before) {
		t.Error("no-op indent modified the tree")
	}
}

func TestIndentNotFound(t *testing.T) {
	_, _, err := Indent(forest(node("A")), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestOutdent(t *testing.T) {
	// [A{children:[B,C]}] -> outdent(C) -> [A{children:[B]}, C]
	tree := forest(node("A", node("B"), node("C")))

	got, changed, err := Outdent(tree, "t-C")
	if err != nil {
		t.Fatalf("Outdent: %v", err)
	}
	if !changed {
		t.Fatal("Outdent reported no change")
	}
	if s := shape(got); s != "A[B] C" {
		t.Errorf("shape = %q, want %q", s, "A[B] C")
	}
	if got[1].ParentID != "" {
		t.Errorf("C.ParentID = %q, want root", got[1].ParentID)
	}
	checkOrders(t, got, "")
}

func TestOutdentPlacesAfterFormerParent(t *testing.T) {
	tree := forest(node("R", node("A", node("B"), node("C")), node("D")))

	got, _, err := Outdent(tree, "t-B")
	if err != nil {
		t.Fatalf("Outdent: %v", err)
	}
	if s := shape(got); s != "R[A[C] B D]" {
		t.Errorf("shape = %q, want %q", s, "R[A[C] B D]")
	}
	if got[0].Children[1].ParentID != "R" {
		t.Errorf("B.ParentID = %q, want %q", got[0].Children[1].ParentID, "R")
	}
	checkOrders(t, got, "")
}

func TestOutdentRootIsNoop(t *testing.T) {
	tree := forest(node("A"), node("B"))
	before := Clone(tree)

	got, changed, err := Outdent(tree, "t-B")
	if err != nil {
		t.Fatalf("Outdent: %v", err)
	}
	if changed {
		t.Error("changed = true, want false")
	}
	if !reflect.DeepEqual(got, before) {
		t.Error("no-op outdent modified the tree")
	}
}

func TestIndentThenOutdentRestores(t *testing.T) {
	base := func() []*model.MenuItem {
		return forest(
			node("A", node("A1"), node("A2", node("A2x"))),
			node("B"),
			node("C", node("C1")),
			node("D"),
		)
	}

	var ids []string
	Walk(base(), func(n *model.MenuItem, _ int) bool {
		ids = append(ids, n.TempID)
		return true
	})

	for _, id := range ids {
		t.Run(id, func(t *testing.T) {
			tree := base()
			want := Clone(tree)

			indented, changed, err := Indent(tree, id)
			if err != nil {
				t.Fatalf("Indent: %v", err)
			}
			if !changed {
				// First child: the no-op must leave the tree untouched.
				if !reflect.DeepEqual(indented, want) {
					t.Fatal("no-op indent changed the tree")
				}
				return
			}

			restored, changed, err := Outdent(indented, id)
			if err != nil {
				t.Fatalf("Outdent: %v", err)
			}
			if !changed {
				t.Fatal("outdent after indent was a no-op")
			}
			if !reflect.DeepEqual(restored, want) {
				t.Errorf("indent+outdent = %q, want %q", shape(restored), shape(want))
			}
		})
	}
}

func TestDelete(t *testing.T) {
	tree := forest(node("A"), node("B", node("B1", node("B1a")), node("B2")), node("C"), node("D"))

	got, removed, err := Delete(tree, "t-B")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if removed != 4 {
		t.Errorf("removed = %d, want 4", removed)
	}
	if Count(got) != Count(tree)-4 {
		t.Errorf("Count = %d, want %d", Count(got), Count(tree)-4)
	}
	if s := shape(got); s != "A C D" {
		t.Errorf("shape = %q, want %q", s, "A C D")
	}
	checkOrders(t, got, "")

	if _, _, err := Delete(tree, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete(missing) err = %v, want ErrNotFound", err)
	}
}

func TestDeleteNested(t *testing.T) {
	tree := forest(node("A", node("B"), node("C"), node("D")))

	got, removed, err := Delete(tree, "t-C")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if s := shape(got); s != "A[B D]" {
		t.Errorf("shape = %q, want %q", s, "A[B D]")
	}
	checkOrders(t, got, "")
}

func TestAppend(t *testing.T) {
	tree := forest(node("A", node("B")))
	item := &model.MenuItem{TempID: "new", Type: model.ItemTag, ReferenceID: "3", Title: "News"}

	got, err := Append(tree, item, "t-A")
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if s := shape(got); s != "A[B News]" {
		t.Errorf("shape = %q, want %q", s, "A[B News]")
	}
	checkOrders(t, got, "")

	got, err = Append(got, &model.MenuItem{TempID: "root", Title: "Root"}, "")
	if err != nil {
		t.Fatalf("Append root: %v", err)
	}
	if s := shape(got); s != "A[B News] Root" {
		t.Errorf("shape = %q", s)
	}

	if _, err := Append(tree, item, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdate(t *testing.T) {
	tree := forest(node("A"))
	boom := errors.New("boom")

	got, err := Update(tree, "t-A", func(n *model.MenuItem) error {
		n.Title = "Renamed"
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got[0].Title != "Renamed" || tree[0].Title != "A" {
		t.Errorf("titles = %q/%q, want Renamed/A", got[0].Title, tree[0].Title)
	}

	got, err = Update(tree, "t-A", func(n *model.MenuItem) error {
		n.Title = "Half"
		return boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
	if got[0].Title != "A" {
		t.Errorf("failed update leaked title %q", got[0].Title)
	}
}

func TestCycleGuard(t *testing.T) {
	tree := forest(node("A", node("B", node("C"))), node("D"))
	a, b, c, d := tree[0], tree[0].Children[0], tree[0].Children[0].Children[0], tree[1]

	tests := []struct {
		name    string
		x, y    *model.MenuItem
		wantErr bool
	}{
		{"self", a, a, true},
		{"child", a, b, true},
		{"grandchild", a, c, true},
		{"sibling", a, d, false},
		{"ancestor", c, a, false},
		{"unrelated", d, b, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanNestUnder(tt.x, tt.y)
			if tt.wantErr && !errors.Is(err, ErrCycle) {
				t.Errorf("CanNestUnder(%s, %s) = %v, want ErrCycle", tt.x.Title, tt.y.Title, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("CanNestUnder(%s, %s) = %v, want nil", tt.x.Title, tt.y.Title, err)
			}
		})
	}

	if IsDescendant(c, "t-A") {
		t.Error("IsDescendant(C, A) = true, want false")
	}
}
