// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package editor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ErrSessionNotFound is returned for unknown or evicted session ids.
var ErrSessionNotFound = errors.New("editor session not found")

// DefaultMaxSessions bounds the number of live sessions kept by a Registry.
const DefaultMaxSessions = 256

// Registry keeps live editing sessions. When full, the least recently used
// session is evicted and its unsaved changes are lost. Sessions dropped with
// unsaved changes are logged at warn level.
type Registry struct {
	backend  Backend
	logger   *slog.Logger
	sessions *lru.Cache[string, *Session]
}

// NewRegistry creates a registry opening sessions against backend.
func NewRegistry(backend Backend, size int, logger *slog.Logger) (*Registry, error) {
	if size <= 0 {
		size = DefaultMaxSessions
	}
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{backend: backend, logger: logger}

	cache, err := lru.NewWithEvict[string, *Session](size, r.onEvict)
	if err != nil {
		return nil, err
	}
	r.sessions = cache
	return r, nil
}

func (r *Registry) onEvict(id string, s *Session) {
	if s.Dirty() {
		r.logger.Warn("editor session discarded with unsaved changes", "session_id", id, "menu_id", s.MenuID())
	}
}

// Open loads the menu and registers a new session for it.
func (r *Registry) Open(ctx context.Context, menuID string) (*Session, error) {
	s, err := Open(ctx, r.backend, menuID, r.logger)
	if err != nil {
		return nil, err
	}
	r.sessions.Add(s.ID(), s)
	return s, nil
}

// Get returns the session with the given id.
func (r *Registry) Get(id string) (*Session, error) {
	s, ok := r.sessions.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.touch(time.Now())
	return s, nil
}

// Close removes the session. Closing an unknown session returns ErrSessionNotFound.
func (r *Registry) Close(id string) error {
	if !r.sessions.Remove(id) {
		return ErrSessionNotFound
	}
	return nil
}

// Len returns the number of live sessions.
func (r *Registry) Len() int { return r.sessions.Len() }

// Sweep closes sessions not used for longer than idle and returns how many
// were closed. Peek is used so that sweeping does not refresh LRU order.
func (r *Registry) Sweep(idle time.Duration, now time.Time) int {
	closed := 0
	for _, id := range r.sessions.Keys() {
		s, ok := r.sessions.Peek(id)
		if !ok || now.Sub(s.LastUsed()) <= idle {
			continue
		}
		if r.sessions.Remove(id) {
			closed++
		}
	}
	if closed > 0 {
		r.logger.Info("closed idle editor sessions", "count", closed, "idle", idle)
	}
	return closed
}
