package crates

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matzehuels/tmplgen/pkg/cache"
	"github.com/matzehuels/tmplgen/pkg/integrations"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/crates/openssl", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Error("missing User-Agent header")
		}
		var resp crateResponse
		resp.Crate.Name = "openssl"
		resp.Crate.MaxVersion = "0.10.66"
		resp.Crate.Description = "OpenSSL bindings"
		resp.Crate.Repository = "https://github.com/sfackler/rust-openssl"
		resp.Versions = []versionEntry{
			{Num: "0.10.66", License: "Apache-2.0", Checksum: "abc123"},
			{Num: "0.10.65", License: "MIT", Checksum: "old"},
		}
		json.NewEncoder(w).Encode(resp)
	})
	mux.HandleFunc("/crates/openssl/0.10.66/dependencies", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(depsResponse{Dependencies: []Dependency{
			{CrateID: "openssl-sys", Kind: "normal"},
			{CrateID: "tempdir", Kind: "dev"},
		}})
	})
	return httptest.NewServer(mux)
}

func TestClient_FetchCrate(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	c := NewClient(cache.NewNullCache(), time.Hour).WithBaseURL(server.URL)

	info, err := c.FetchCrate(context.Background(), "openssl", false)
	if err != nil {
		t.Fatalf("FetchCrate failed: %v", err)
	}

	if info.Name != "openssl" || info.Version != "0.10.66" {
		t.Errorf("got %s %s, want openssl 0.10.66", info.Name, info.Version)
	}
	if info.License != "Apache-2.0" {
		t.Errorf("License = %q, want license of max_version", info.License)
	}
	if info.Checksum != "abc123" {
		t.Errorf("Checksum = %q, want abc123", info.Checksum)
	}
	if len(info.Dependencies) != 2 || info.Dependencies[0].CrateID != "openssl-sys" {
		t.Errorf("Dependencies = %+v", info.Dependencies)
	}
}

func TestClient_FetchCrate_Cached(t *testing.T) {
	server := newTestServer(t)

	c := NewClient(cache.NewNullCache(), time.Hour).WithBaseURL(server.URL)
	backend, _ := cache.NewFileCache(t.TempDir())
	c.Client = integrations.NewClient(backend, "crates:", time.Hour, integrations.DefaultHeaders())

	if _, err := c.FetchCrate(context.Background(), "openssl", false); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	server.Close()

	info, err := c.FetchCrate(context.Background(), "openssl", false)
	if err != nil {
		t.Fatalf("cached fetch after server shutdown: %v", err)
	}
	if info.Version != "0.10.66" {
		t.Errorf("cached Version = %q", info.Version)
	}
}

func TestClient_FetchCrate_NotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	c := NewClient(cache.NewNullCache(), time.Hour).WithBaseURL(server.URL)

	_, err := c.FetchCrate(context.Background(), "missing-crate", false)
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestClient_Exists(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	c := NewClient(cache.NewNullCache(), time.Hour).WithBaseURL(server.URL)

	ok, err := c.Exists(context.Background(), "openssl")
	if err != nil || !ok {
		t.Errorf("Exists(openssl) = %v, %v", ok, err)
	}
	ok, err = c.Exists(context.Background(), "nope")
	if err != nil || ok {
		t.Errorf("Exists(nope) = %v, %v", ok, err)
	}
}
