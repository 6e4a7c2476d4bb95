// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cli implements menuctl, a command line editor for menus served by
// ocms-menus. Every command opens an editing session against the service,
// applies one operation and saves the result.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/olegiv/ocms-menus/internal/client"
	"github.com/olegiv/ocms-menus/internal/editor"
)

// App holds the global flags shared by all commands.
type App struct {
	Server  string
	DryRun  bool
	Timeout time.Duration
}

// NewRootCmd builds the menuctl command tree.
func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "menuctl",
		Short:        "Edit ocms-menus menu trees from the command line",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Print a menu
  menuctl show 1

  # Nest item 5 under its previous sibling
  menuctl indent 1 5

  # Move item 5 inside item 2 without saving
  menuctl move 1 5 --inside 2 --dry-run
`),
	}

	cmd.PersistentFlags().StringVar(&app.Server, "server", envOr("OCMS_MENUS_URL", "http://localhost:8080"), "Base URL of the ocms-menus service")
	cmd.PersistentFlags().BoolVar(&app.DryRun, "dry-run", false, "Print the result without saving")
	cmd.PersistentFlags().DurationVar(&app.Timeout, "timeout", 30*time.Second, "Request timeout")

	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newCatalogCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newIndentCmd(app))
	cmd.AddCommand(newOutdentCmd(app))
	cmd.AddCommand(newMoveCmd(app))
	cmd.AddCommand(newDeleteCmd(app))
	return cmd
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func (a *App) backend() (*client.Client, error) {
	return client.New(a.Server)
}

func (a *App) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, a.Timeout)
}

// openSession loads menuID into a new editing session.
func (a *App) openSession(ctx context.Context, menuID string) (*editor.Session, error) {
	c, err := a.backend()
	if err != nil {
		return nil, err
	}
	return editor.Open(ctx, c, menuID, nil)
}

// edit opens a session, applies op, prints the resulting tree and saves it
// unless --dry-run was given or the tree did not change.
func (a *App) edit(cmd *cobra.Command, menuID string, op func(ctx context.Context, s *editor.Session) error) error {
	ctx, cancel := a.context(cmd)
	defer cancel()

	s, err := a.openSession(ctx, menuID)
	if err != nil {
		return err
	}
	if err := op(ctx, s); err != nil {
		printNotices(cmd.ErrOrStderr(), s.Notices())
		return err
	}

	out := cmd.OutOrStdout()
	printMenu(out, s.Menu(), s.Tree())

	switch {
	case !s.Dirty():
		_, _ = fmt.Fprintln(out, "no changes")
		return nil
	case a.DryRun:
		_, _ = fmt.Fprintln(out, "dry run, not saved")
		return nil
	}
	err = s.Save(ctx)
	printNotices(out, s.Notices())
	return err
}

// tempID maps a persisted item id to its node in the session.
func tempID(s *editor.Session, id string) (string, error) {
	t, ok := s.TempIDFor(id)
	if !ok {
		return "", fmt.Errorf("menu item %s not found", id)
	}
	return t, nil
}
