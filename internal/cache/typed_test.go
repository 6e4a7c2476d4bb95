// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/ocms-menus/internal/model"
)

func TestTypedCache_GetOrSet(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute})
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	tc := NewTypedCache[model.Menu](c, "menu:", time.Minute)
	calls := 0
	load := func() (*model.Menu, error) {
		calls++
		return &model.Menu{ID: "1", Name: "Main", Locations: []string{"header"}}, nil
	}

	first, err := tc.GetOrSet(ctx, "1", load)
	require.NoError(t, err)
	second, err := tc.GetOrSet(ctx, "1", load)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)

	ok, err := c.Has(ctx, "menu:1")
	require.NoError(t, err)
	assert.True(t, ok, "keys are prefixed")

	boom := errors.New("boom")
	_, err = tc.GetOrSet(ctx, "2", func() (*model.Menu, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
}

func TestTypedCache_CorruptValueIsMiss(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute})
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "menu:1", []byte("{not json"), 0))

	tc := NewTypedCache[model.Menu](c, "menu:", time.Minute)
	_, ok := tc.Get(ctx, "1")
	assert.False(t, ok)
}

func TestMenuCache(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute})
	defer func() { _ = c.Close() }()
	ctx := context.Background()
	mc := NewMenuCache(c, time.Minute)

	loads := 0
	load := func() (*model.MenuWithItems, error) {
		loads++
		return &model.MenuWithItems{
			Menu:  model.Menu{ID: "1", Name: "Main"},
			Items: []model.FlatItem{{ID: "10", Type: model.ItemCustom, Title: "Home", URL: "/"}},
		}, nil
	}

	m, err := mc.Menu(ctx, "1", load)
	require.NoError(t, err)
	assert.Equal(t, "Home", m.Items[0].Title)
	_, _ = mc.Menu(ctx, "1", load)
	assert.Equal(t, 1, loads)

	mc.InvalidateMenu(ctx, "1")
	_, _ = mc.Menu(ctx, "1", load)
	assert.Equal(t, 2, loads)

	catalogLoads := 0
	tags := func() (*[]model.CatalogEntry, error) {
		catalogLoads++
		entries := []model.CatalogEntry{{ID: "3", Title: "go"}}
		return &entries, nil
	}
	entries, err := mc.Catalog(ctx, model.ItemTag, tags)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	mc.Invalidate(ctx)
	_, _ = mc.Catalog(ctx, model.ItemTag, tags)
	_, _ = mc.Menu(ctx, "1", load)
	assert.Equal(t, 2, catalogLoads)
	assert.Equal(t, 3, loads)
}

func TestNewFallsBackToMemory(t *testing.T) {
	c, err := New(DefaultConfig())
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	_, ok := c.(*MemoryCache)
	assert.True(t, ok, "New without RedisURL = %T, want *MemoryCache", c)
}

func TestNewRedisInvalidURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RedisURL = "not-a-url://"
	_, err := New(cfg)
	assert.Error(t, err)
}
