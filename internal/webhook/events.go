// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package webhook notifies external endpoints about menu changes.
package webhook

import (
	"time"
)

// Event types
const (
	EventMenuSaved = "menu.saved"
)

// Event represents a webhook event to be dispatched.
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// NewEvent creates a new webhook event.
func NewEvent(eventType string, data any) *Event {
	return &Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// MenuEventData contains data for menu events.
type MenuEventData struct {
	MenuID    string `json:"menuId"`
	ItemCount int    `json:"itemCount"`
}
