// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/olegiv/ocms-menus/internal/editor"
	"github.com/olegiv/ocms-menus/internal/menutree"
	"github.com/olegiv/ocms-menus/internal/model"
)

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <menu-id>",
		Short: "Print a menu tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.context(cmd)
			defer cancel()
			s, err := app.openSession(ctx, args[0])
			if err != nil {
				return err
			}
			printMenu(cmd.OutOrStdout(), s.Menu(), s.Tree())
			return nil
		},
	}
}

func newCatalogCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog <categories|tags|comics|pages>",
		Short: "List the entries of a source catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := model.ParseItemType(args[0])
			if err != nil {
				return err
			}
			c, err := app.backend()
			if err != nil {
				return err
			}
			ctx, cancel := app.context(cmd)
			defer cancel()
			entries, err := c.ListCatalog(ctx, kind)
			if err != nil {
				return err
			}
			for _, e := range entries {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", e.ID, e.Title)
			}
			return nil
		},
	}
}

func newAddCmd(app *App) *cobra.Command {
	var title, url, target, parent, from string
	cmd := &cobra.Command{
		Use:   "add <menu-id>",
		Short: "Append a custom link or a catalog item",
		Long: strings.TrimSpace(`
Append a custom link (--title/--url/--target) or, with --from <kind>:<id>, an
item referencing a catalog entry. The item is added as the last root, or as the
last child of --parent.`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.edit(cmd, args[0], func(ctx context.Context, s *editor.Session) error {
				parentTemp := ""
				if parent != "" {
					t, err := tempID(s, parent)
					if err != nil {
						return err
					}
					parentTemp = t
				}
				if from == "" {
					_, err := s.AddCustom(title, url, target, parentTemp)
					return err
				}
				kind, entry, err := catalogEntry(ctx, s, from)
				if err != nil {
					return err
				}
				if title != "" {
					entry.Title = title
				}
				_, err = s.AddFromCatalog(kind, entry, parentTemp)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Item title")
	cmd.Flags().StringVar(&url, "url", "", "Link URL (custom links)")
	cmd.Flags().StringVar(&target, "target", model.TargetSelf, "Link target (_self or _blank)")
	cmd.Flags().StringVar(&parent, "parent", "", "Parent item id")
	cmd.Flags().StringVar(&from, "from", "", "Catalog entry as <kind>:<id>, e.g. tags:3")
	return cmd
}

// catalogEntry resolves a "<kind>:<id>" reference against the live catalog.
func catalogEntry(ctx context.Context, s *editor.Session, ref string) (model.ItemType, model.CatalogEntry, error) {
	kindName, id, ok := strings.Cut(ref, ":")
	if !ok || id == "" {
		return "", model.CatalogEntry{}, fmt.Errorf("invalid --from %q, want <kind>:<id>", ref)
	}
	kind, err := model.ParseItemType(kindName)
	if err != nil {
		return "", model.CatalogEntry{}, err
	}
	entries, err := s.Catalog(ctx, kind)
	if err != nil {
		return "", model.CatalogEntry{}, err
	}
	for _, e := range entries {
		if e.ID == id {
			return kind, e, nil
		}
	}
	return "", model.CatalogEntry{}, fmt.Errorf("%s %s not found", kind.CatalogPath(), id)
}

func newIndentCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "indent <menu-id> <item-id>",
		Short: "Nest an item under its previous sibling",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.edit(cmd, args[0], func(_ context.Context, s *editor.Session) error {
				return shift(cmd, s, args[1], s.Indent, "first among its siblings")
			})
		},
	}
}

func newOutdentCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "outdent <menu-id> <item-id>",
		Short: "Move an item up one level, right after its parent",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.edit(cmd, args[0], func(_ context.Context, s *editor.Session) error {
				return shift(cmd, s, args[1], s.Outdent, "already a root")
			})
		},
	}
}

func shift(cmd *cobra.Command, s *editor.Session, id string, op func(string) (bool, error), reason string) error {
	t, err := tempID(s, id)
	if err != nil {
		return err
	}
	changed, err := op(t)
	if err != nil {
		return err
	}
	if !changed {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "item %s is %s\n", id, reason)
	}
	return nil
}

func newMoveCmd(app *App) *cobra.Command {
	var before, after, inside string
	cmd := &cobra.Command{
		Use:   "move <menu-id> <item-id>",
		Short: "Move an item before, after or inside another item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			over, pos, err := moveTarget(before, after, inside)
			if err != nil {
				return err
			}
			return app.edit(cmd, args[0], func(_ context.Context, s *editor.Session) error {
				active, err := tempID(s, args[1])
				if err != nil {
					return err
				}
				overTemp, err := tempID(s, over)
				if err != nil {
					return err
				}
				return s.Move(active, overTemp, pos)
			})
		},
	}
	cmd.Flags().StringVar(&before, "before", "", "Place before this item id")
	cmd.Flags().StringVar(&after, "after", "", "Place after this item id")
	cmd.Flags().StringVar(&inside, "inside", "", "Append as the last child of this item id")
	return cmd
}

func moveTarget(before, after, inside string) (string, menutree.DropPosition, error) {
	var over string
	var pos menutree.DropPosition
	n := 0
	for _, c := range []struct {
		id  string
		pos menutree.DropPosition
	}{{before, menutree.DropBefore}, {after, menutree.DropAfter}, {inside, menutree.DropInside}} {
		if c.id != "" {
			over, pos = c.id, c.pos
			n++
		}
	}
	if n != 1 {
		return "", "", errors.New("provide exactly one of --before, --after or --inside")
	}
	return over, pos, nil
}

func newDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <menu-id> <item-id>",
		Short: "Delete an item and all of its descendants",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.edit(cmd, args[0], func(_ context.Context, s *editor.Session) error {
				t, err := tempID(s, args[1])
				if err != nil {
					return err
				}
				removed, err := s.Delete(t)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "removed %d item(s)\n", removed)
				return nil
			})
		},
	}
}
