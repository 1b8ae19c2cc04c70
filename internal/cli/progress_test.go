package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

const crateURL = "https://static.crates.io/crates/git2/git2-0.18.0.crate"

func TestBar(t *testing.T) {
	tests := []struct {
		read, total int64
		want        string
	}{
		{0, 300, "[>-----------------------------]"},
		{150, 300, "[###############>--------------]"},
		{300, 300, "[##############################]"},
		{10, 0, "[##############################]"},
	}
	for _, tt := range tests {
		if got := bar(tt.read, tt.total); got != tt.want {
			t.Errorf("bar(%d, %d) = %q, want %q", tt.read, tt.total, got, tt.want)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{999, "999 B"},
		{200_000, "200.0 kB"},
		{3_400_000, "3.4 MB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestDownloadBar(t *testing.T) {
	var out bytes.Buffer
	clock := time.Unix(0, 0)
	b := newDownloadBar(&out)
	b.now = func() time.Time { return clock }
	ctx := context.Background()

	b.OnDownloadStart(ctx, crateURL, 400_000)
	if !strings.Contains(out.String(), "git2-0.18.0.crate") || !strings.Contains(out.String(), "400.0 kB") {
		t.Fatalf("start line = %q", out.String())
	}

	out.Reset()
	b.OnDownloadProgress(ctx, crateURL, 1000, 400_000)
	if out.Len() != 0 {
		t.Errorf("redrew within the throttle window: %q", out.String())
	}

	clock = clock.Add(redrawEvery)
	b.OnDownloadProgress(ctx, crateURL, 200_000, 400_000)
	if !strings.Contains(out.String(), "200.0 kB") {
		t.Errorf("progress line = %q", out.String())
	}

	out.Reset()
	b.OnDownloadProgress(ctx, crateURL, 400_000, 400_000)
	if !strings.Contains(out.String(), "[##############################]") {
		t.Errorf("final progress should always draw, got %q", out.String())
	}

	out.Reset()
	b.OnDownloadComplete(ctx, crateURL, 400_000, nil)
	if got := out.String(); !strings.HasPrefix(got, "\r") || strings.TrimSpace(got) != "" {
		t.Errorf("complete should clear the line, got %q", got)
	}
}

func TestNonTerminalHasNoProgress(t *testing.T) {
	c := New(&bytes.Buffer{}, LogWarn)
	if c.progress != nil {
		t.Error("progress enabled for a non-terminal writer")
	}
}
