// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package editor

import (
	"sync"
	"time"
)

// NoticeLevel is the severity of a Notice.
type NoticeLevel string

// Notice levels
const (
	NoticeInfo  NoticeLevel = "info"
	NoticeError NoticeLevel = "error"
)

// Notice is a transient user-facing message.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
	Time    time.Time   `json:"time"`
}

// DefaultNoticeLimit is the number of notices kept per session.
const DefaultNoticeLimit = 20

// Notices is a bounded queue of pending notices. The oldest notice is dropped
// when the queue is full. It is safe for concurrent use.
type Notices struct {
	mu    sync.Mutex
	items []Notice
	limit int
}

// NewNotices creates a queue holding at most limit notices.
func NewNotices(limit int) *Notices {
	if limit <= 0 {
		limit = DefaultNoticeLimit
	}
	return &Notices{limit: limit}
}

// Add queues a notice.
func (n *Notices) Add(level NoticeLevel, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.items = append(n.items, Notice{Level: level, Message: message, Time: time.Now()})
	if over := len(n.items) - n.limit; over > 0 {
		n.items = append(n.items[:0:0], n.items[over:]...)
	}
}

// Drain returns the pending notices, oldest first, and empties the queue.
func (n *Notices) Drain() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := n.items
	n.items = nil
	return out
}

// Len returns the number of pending notices.
func (n *Notices) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.items)
}
