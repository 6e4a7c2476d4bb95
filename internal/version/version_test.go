// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package version

import "testing"

func TestInfoString(t *testing.T) {
	info := Info{
		Version:   "v1.0.0",
		GitCommit: "abc1234",
		BuildTime: "2025-01-30T12:00:00Z",
	}

	want := "v1.0.0 (commit abc1234, built 2025-01-30T12:00:00Z)"
	if got := info.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if info.Label() != "v1.0.0" {
		t.Errorf("Label() = %q, want %q", info.Label(), "v1.0.0")
	}
}

func TestInfoZeroValue(t *testing.T) {
	var info Info

	if info.Label() != "dev" {
		t.Errorf("zero value Label() = %q, want dev", info.Label())
	}
	want := "dev (commit unknown, built unknown)"
	if got := info.String(); got != want {
		t.Errorf("zero value String() = %q, want %q", got, want)
	}
}
