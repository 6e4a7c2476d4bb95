// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/olegiv/ocms-menus/internal/editor"
	"github.com/olegiv/ocms-menus/internal/menutree"
	"github.com/olegiv/ocms-menus/internal/model"
)

func printMenu(w io.Writer, m model.Menu, tree []*model.MenuItem) {
	status := "active"
	if !m.IsActive {
		status = "inactive"
	}
	_, _ = fmt.Fprintf(w, "%s (#%s, %s)\n", m.Name, m.ID, status)
	if len(tree) == 0 {
		_, _ = fmt.Fprintln(w, "  (empty)")
		return
	}
	menutree.Walk(tree, func(n *model.MenuItem, depth int) bool {
		_, _ = fmt.Fprintf(w, "%s- %s\n", strings.Repeat("  ", depth+1), itemLine(n))
		return true
	})
}

func itemLine(n *model.MenuItem) string {
	id := n.ID
	if id == "" {
		id = "new"
	}
	var b strings.Builder
	_, _ = fmt.Fprintf(&b, "[%s] %s", id, n.Title)
	switch {
	case n.Type == model.ItemCustom && n.URL != "":
		_, _ = fmt.Fprintf(&b, " -> %s", n.URL)
	case n.Type.IsCatalog():
		_, _ = fmt.Fprintf(&b, " (%s %s)", strings.ToLower(string(n.Type)), n.ReferenceID)
	}
	if n.Target != "" && n.Target != model.TargetSelf {
		_, _ = fmt.Fprintf(&b, " %s", n.Target)
	}
	return b.String()
}

func printNotices(w io.Writer, notices []editor.Notice) {
	for _, n := range notices {
		_, _ = fmt.Fprintf(w, "%s: %s\n", n.Level, n.Message)
	}
}
