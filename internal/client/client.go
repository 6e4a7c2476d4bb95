// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package client is an HTTP client for the menu store API. It implements
// editor.Backend so that editing sessions can run against a remote service.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/olegiv/ocms-menus/internal/model"
)

// Client defaults
const (
	DefaultTimeout = 30 * time.Second
	UserAgent      = "ocms-menus-client/1.0"

	// maxErrorBody bounds how much of an error response is read.
	maxErrorBody = 64 << 10
)

// ErrNotFound matches a StatusError with status 404.
var ErrNotFound = errors.New("not found")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.URL, e.StatusCode, msg)
}

// Is reports whether target is ErrNotFound and the status was 404.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Client talks to a menu service.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for the service at baseURL (e.g. "http://localhost:8080").
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL: u,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// LoadMenu fetches GET /menus/{id}.
func (c *Client) LoadMenu(ctx context.Context, menuID string) (*model.MenuWithItems, error) {
	var menu model.MenuWithItems
	if err := c.do(ctx, http.MethodGet, "/menus/"+url.PathEscape(menuID), nil, &menu); err != nil {
		return nil, err
	}
	return &menu, nil
}

// SaveMenuItems replaces the menu's item tree with PUT /menus/{id}/items.
func (c *Client) SaveMenuItems(ctx context.Context, menuID string, items []model.NestedItem) error {
	if items == nil {
		items = []model.NestedItem{}
	}
	return c.do(ctx, http.MethodPut, "/menus/"+url.PathEscape(menuID)+"/items", model.SaveRequest{Items: items}, nil)
}

// ListCatalog fetches GET /categories, /tags, /comics or /pages.
func (c *Client) ListCatalog(ctx context.Context, kind model.ItemType) ([]model.CatalogEntry, error) {
	if !kind.IsCatalog() {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidType, kind)
	}
	var entries []model.CatalogEntry
	if err := c.do(ctx, http.MethodGet, "/"+kind.CatalogPath(), nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// do sends a JSON request and decodes a JSON response into out (when non-nil).
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	target := c.baseURL.String() + path

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{
			Method:     method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.Body),
		}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s: %w", method, target, err)
	}
	return nil
}

// errorMessage extracts "error" from a JSON error body, or returns the raw text.
func errorMessage(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	var payload struct {
		Error json.RawMessage `json:"error"`
	}
	if json.Unmarshal(data, &payload) == nil && len(payload.Error) > 0 {
		var msg string
		if json.Unmarshal(payload.Error, &msg) == nil {
			return msg
		}
		var detail struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(payload.Error, &detail) == nil && detail.Message != "" {
			return detail.Message
		}
	}
	return strings.TrimSpace(string(data))
}
