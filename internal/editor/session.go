// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package editor provides menu editing sessions on top of the menutree engine.
//
// A Session owns the working tree of one menu. Every operation clones the tree,
// applies the change and swaps the result in, so readers never observe a partial
// mutation. Saving is the only call that leaves the process; it is guarded by a
// flag so that at most one save per session is outstanding.
package editor

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/olegiv/ocms-menus/internal/menutree"
	"github.com/olegiv/ocms-menus/internal/model"
)

// ErrSaveInProgress is returned by Save while another save of the same session is outstanding.
var ErrSaveInProgress = errors.New("a save is already in progress")

// DefaultCustomTitle is used for custom links added without a title.
const DefaultCustomTitle = "New link"

// Backend is the persistence boundary used by sessions.
type Backend interface {
	LoadMenu(ctx context.Context, menuID string) (*model.MenuWithItems, error)
	SaveMenuItems(ctx context.Context, menuID string, items []model.NestedItem) error
	ListCatalog(ctx context.Context, kind model.ItemType) ([]model.CatalogEntry, error)
}

// Patch holds the editable fields of a menu item. Nil fields are left unchanged.
type Patch struct {
	Title       *string            `json:"title,omitempty"`
	URL         *string            `json:"url,omitempty"`
	Target      *string            `json:"target,omitempty"`
	Icon        *string            `json:"icon,omitempty"`
	DisplayMode *model.DisplayMode `json:"displayMode,omitempty"`
	IconSize    *int               `json:"iconSize,omitempty"`
	Collapsed   *bool              `json:"collapsed,omitempty"`
}

// viewOnly reports whether the patch touches only fields that are never saved.
func (p Patch) viewOnly() bool {
	return p.Title == nil && p.URL == nil && p.Target == nil && p.Icon == nil &&
		p.DisplayMode == nil && p.IconSize == nil
}

var titlePolicy = bluemonday.StrictPolicy()

// sanitizeTitle strips markup from user or catalog supplied titles.
func sanitizeTitle(s string) string {
	return strings.TrimSpace(html.UnescapeString(titlePolicy.Sanitize(s)))
}

// Session is an editing session for a single menu.
type Session struct {
	id      string
	menuID  string
	backend Backend
	logger  *slog.Logger
	notices *Notices

	mu       sync.Mutex
	menu     model.Menu
	tree     []*model.MenuItem
	drag     menutree.DragController
	revision uint64
	saved    uint64

	saving   atomic.Bool
	lastUsed atomic.Int64 // unix nanoseconds
}

// Open loads a menu from the backend and starts a session on it.
func Open(ctx context.Context, backend Backend, menuID string, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}
	data, err := backend.LoadMenu(ctx, menuID)
	if err != nil {
		return nil, fmt.Errorf("loading menu %s: %w", menuID, err)
	}

	s := &Session{
		id:      uuid.NewString(),
		menuID:  menuID,
		backend: backend,
		notices: NewNotices(DefaultNoticeLimit),
		menu:    data.Menu,
		tree:    menutree.Build(data.Items, uuid.NewString),
	}
	s.touch(time.Now())
	s.logger = logger.With("session_id", s.id, "menu_id", menuID)
	s.logger.Debug("menu session opened", "items", menutree.Count(s.tree))
	return s, nil
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// MenuID returns the id of the edited menu.
func (s *Session) MenuID() string { return s.menuID }

// Menu returns the menu metadata loaded with the session.
func (s *Session) Menu() model.Menu {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.menu
}

// Tree returns a copy of the working tree.
func (s *Session) Tree() []*model.MenuItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return menutree.Clone(s.tree)
}

// Dirty reports whether the tree changed since it was loaded or last saved.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision != s.saved
}

// Saving reports whether a save is outstanding.
func (s *Session) Saving() bool { return s.saving.Load() }

// Notices drains the pending notices.
func (s *Session) Notices() []Notice { return s.notices.Drain() }

// DragState returns the state of the drag controller and the dragged node.
func (s *Session) DragState() (menutree.DragState, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drag.State(), s.drag.Active()
}

// LastUsed returns the time the session was opened or last fetched from a Registry.
func (s *Session) LastUsed() time.Time { return time.Unix(0, s.lastUsed.Load()) }

func (s *Session) touch(now time.Time) { s.lastUsed.Store(now.UnixNano()) }

// TempIDFor returns the TempID of the node with the given persisted id.
func (s *Session) TempIDFor(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := menutree.FindByID(s.tree, id)
	if n == nil {
		return "", false
	}
	return n.TempID, true
}

// swap replaces the working tree. Callers must hold s.mu.
func (s *Session) swap(tree []*model.MenuItem) {
	s.tree = tree
	s.revision++
}

// Catalog lists the entries of a source catalog.
func (s *Session) Catalog(ctx context.Context, kind model.ItemType) ([]model.CatalogEntry, error) {
	if !kind.IsCatalog() {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidType, kind)
	}
	return s.backend.ListCatalog(ctx, kind)
}

// AddFromCatalog appends a catalog-backed item under parentTempID (or as a root
// when empty). The title defaults to the catalog entry's title.
func (s *Session) AddFromCatalog(kind model.ItemType, entry model.CatalogEntry, parentTempID string) (*model.MenuItem, error) {
	if !kind.IsCatalog() {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidType, kind)
	}
	item := &model.MenuItem{
		TempID:      uuid.NewString(),
		Type:        kind,
		ReferenceID: entry.ID,
		Title:       sanitizeTitle(entry.Title),
		Target:      model.TargetSelf,
		DisplayMode: model.DisplayText,
		IconSize:    model.DefaultIconSize,
	}
	return s.add(item, parentTempID)
}

// AddCustom appends a custom link. A blank title gets DefaultCustomTitle and a
// blank target gets _self; the URL may be left empty until the item is edited.
func (s *Session) AddCustom(title, url, target, parentTempID string) (*model.MenuItem, error) {
	title = sanitizeTitle(title)
	if title == "" {
		title = DefaultCustomTitle
	}
	if target == "" {
		target = model.TargetSelf
	}
	item := &model.MenuItem{
		TempID:      uuid.NewString(),
		Type:        model.ItemCustom,
		Title:       title,
		URL:         strings.TrimSpace(url),
		Target:      target,
		DisplayMode: model.DisplayText,
		IconSize:    model.DefaultIconSize,
	}
	return s.add(item, parentTempID)
}

func (s *Session) add(item *model.MenuItem, parentTempID string) (*model.MenuItem, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tree, err := menutree.Append(s.tree, item, parentTempID)
	if err != nil {
		return nil, err
	}
	s.swap(tree)

	added := *menutree.Find(tree, item.TempID)
	added.Children = nil
	s.logger.Debug("menu item added", "temp_id", added.TempID, "type", added.Type)
	return &added, nil
}

// Edit applies a patch to the node with the given TempID. The patched node must
// still satisfy the item variant rules; otherwise nothing changes.
func (s *Session) Edit(tempID string, p Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tree, err := menutree.Update(s.tree, tempID, func(n *model.MenuItem) error {
		if p.Title != nil {
			n.Title = sanitizeTitle(*p.Title)
		}
		if p.URL != nil {
			n.URL = strings.TrimSpace(*p.URL)
		}
		if p.Target != nil {
			n.Target = *p.Target
		}
		if p.Icon != nil {
			n.Icon = strings.TrimSpace(*p.Icon)
		}
		if p.DisplayMode != nil {
			n.DisplayMode = *p.DisplayMode
		}
		if p.IconSize != nil {
			if *p.IconSize < 0 {
				return fmt.Errorf("icon size must not be negative")
			}
			n.IconSize = *p.IconSize
		}
		if p.Collapsed != nil {
			n.Collapsed = *p.Collapsed
		}
		return n.Validate()
	})
	if err != nil {
		return err
	}
	if p.viewOnly() {
		// Collapsing a node does not change what gets saved.
		s.tree = tree
		return nil
	}
	s.swap(tree)
	return nil
}

// Delete removes the node and its whole subtree. It returns the number of removed nodes.
func (s *Session) Delete(tempID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tree, removed, err := menutree.Delete(s.tree, tempID)
	if err != nil {
		return 0, err
	}
	s.swap(tree)
	s.logger.Debug("menu item deleted", "temp_id", tempID, "removed", removed)
	return removed, nil
}

// Indent nests the node under its previous sibling. It reports false for a no-op.
func (s *Session) Indent(tempID string) (bool, error) {
	return s.apply(tempID, menutree.Indent)
}

// Outdent moves the node to its parent's level. It reports false for a no-op.
func (s *Session) Outdent(tempID string) (bool, error) {
	return s.apply(tempID, menutree.Outdent)
}

func (s *Session) apply(tempID string, op func([]*model.MenuItem, string) ([]*model.MenuItem, bool, error)) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tree, changed, err := op(s.tree, tempID)
	if err != nil || !changed {
		return false, err
	}
	s.swap(tree)
	return true, nil
}

// DragStart begins dragging the node with the given TempID.
func (s *Session) DragStart(tempID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drag.Start(s.tree, tempID)
}

// DragOver reports a hover over overID with the rectangles of the dragged and the
// hovered element. A hover over another sibling group moves the dragged node there
// immediately.
func (s *Session) DragOver(overID string, active, over menutree.Rect) (menutree.DropPosition, error) {
	pos := menutree.Classify(active, over)
	return pos, s.DragOverPosition(overID, pos)
}

// DragOverPosition is DragOver with an explicit drop position.
func (s *Session) DragOverPosition(overID string, pos menutree.DropPosition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tree, err := s.drag.OverPosition(s.tree, overID, pos)
	if err != nil {
		return err
	}
	if !sameTree(tree, s.tree) {
		s.swap(tree)
	}
	return nil
}

// DragEnd drops the dragged node at the last hover target. A drop inside the
// node's own subtree is rejected with ErrCycle, recorded as an error notice and
// leaves the tree unchanged.
func (s *Session) DragEnd() (menutree.DragState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tree, state, err := s.drag.Drop(s.tree)
	if err != nil {
		if errors.Is(err, menutree.ErrCycle) {
			s.notices.Add(NoticeError, "Cannot move a menu item inside itself or one of its children")
		}
		return state, err
	}
	if state == menutree.DragCommitted {
		s.swap(tree)
	}
	return state, nil
}

// DragCancel abandons the drag. Hover previews already applied are kept.
func (s *Session) DragCancel() menutree.DragState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drag.Cancel()
}

// Move places activeID before, after or inside overID in a single step.
func (s *Session) Move(activeID, overID string, pos menutree.DropPosition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tree, err := menutree.Move(s.tree, activeID, overID, pos)
	if err != nil {
		if errors.Is(err, menutree.ErrCycle) {
			s.notices.Add(NoticeError, "Cannot move a menu item inside itself or one of its children")
		}
		return err
	}
	if !sameTree(tree, s.tree) {
		s.swap(tree)
	}
	return nil
}

// Save sends the nested tree to the backend. Editing may continue while a save
// is outstanding; a second Save returns ErrSaveInProgress without contacting the
// backend. A failed save records an error notice and keeps the tree as edited.
func (s *Session) Save(ctx context.Context) error {
	if !s.saving.CompareAndSwap(false, true) {
		return ErrSaveInProgress
	}
	defer s.saving.Store(false)

	s.mu.Lock()
	items := menutree.Nest(s.tree)
	revision := s.revision
	s.mu.Unlock()

	for _, item := range items {
		if err := item.Validate(); err != nil {
			s.notices.Add(NoticeError, fmt.Sprintf("Menu item %q is invalid: %v", item.Title, err))
			return fmt.Errorf("validating menu items: %w", err)
		}
	}

	if err := s.backend.SaveMenuItems(ctx, s.menuID, items); err != nil {
		s.logger.Error("failed to save menu", "error", err)
		s.notices.Add(NoticeError, "Failed to save menu")
		return fmt.Errorf("saving menu %s: %w", s.menuID, err)
	}

	s.mu.Lock()
	if revision > s.saved {
		s.saved = revision
	}
	s.mu.Unlock()

	s.notices.Add(NoticeInfo, "Menu saved")
	s.logger.Info("menu saved", "items", len(items))
	return nil
}

// sameTree reports whether an operator returned its input unchanged.
func sameTree(a, b []*model.MenuItem) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}
