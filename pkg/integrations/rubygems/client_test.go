package rubygems

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

func TestClient_FetchGem(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/gems/rspec.json" {
			http.NotFound(w, r)
			return
		}
		resp := gemResponse{
			Name:        "rspec",
			Version:     "3.13.0",
			Info:        "BDD for Ruby",
			Licenses:    []string{"MIT"},
			HomepageURI: "https://rspec.info",
			SHA:         "d490914ac1d5a5a64a0e1400c1d54ddd2a501324d703b8cfe83f458337bab993",
		}
		resp.Dependencies.Runtime = []Dependency{
			{Name: "rspec-core", Requirements: "~> 3.13.0"},
			{Name: "rspec-expectations", Requirements: "~> 3.13.0"},
			{Name: "rspec-core", Requirements: ">= 0"},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	c := NewClient(cache.NewNullCache(), time.Hour).WithBaseURL(server.URL)

	info, err := c.FetchGem(context.Background(), " rspec ", true)
	if err != nil {
		t.Fatalf("FetchGem failed: %v", err)
	}

	if info.Name != "rspec" || info.Version != "3.13.0" {
		t.Errorf("got %s %s", info.Name, info.Version)
	}
	if len(info.Dependencies) != 2 {
		t.Fatalf("expected 2 unique runtime deps, got %d", len(info.Dependencies))
	}
	if info.Dependencies[0].Requirements != "~> 3.13.0" {
		t.Errorf("first requirement should win, got %q", info.Dependencies[0].Requirements)
	}
	if info.SHA == "" {
		t.Error("expected sha to be carried over")
	}
}

func TestClient_FetchGem_NoLicenses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"old","version":"0.1","licenses":null,"dependencies":{"runtime":[]}}`))
	}))
	defer server.Close()

	c := NewClient(cache.NewNullCache(), time.Hour).WithBaseURL(server.URL)

	info, err := c.FetchGem(context.Background(), "old", true)
	if err != nil {
		t.Fatalf("FetchGem failed: %v", err)
	}
	if info.Licenses != nil {
		t.Errorf("Licenses = %v, want nil", info.Licenses)
	}
	if info.Dependencies != nil {
		t.Errorf("Dependencies = %v, want nil", info.Dependencies)
	}
}

func TestClient_FetchGem_NotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	c := NewClient(cache.NewNullCache(), time.Hour).WithBaseURL(server.URL)

	_, err := c.FetchGem(context.Background(), "missing-gem", true)
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	ok, err := c.Exists(context.Background(), "missing-gem")
	if ok || err != nil {
		t.Errorf("Exists() = %v, %v; want false, nil", ok, err)
	}
}

func TestRuntimeDeps(t *testing.T) {
	deps := []Dependency{
		{Name: "activesupport", Requirements: "= 7.1.0"},
		{Name: " actionpack ", Requirements: "= 7.1.0"},
		{Name: "actionpack", Requirements: ">= 0"},
		{Name: ""},
	}

	result := runtimeDeps(deps)
	if len(result) != 2 {
		t.Errorf("expected 2 unique deps, got %d", len(result))
	}
	if result[1].Name != "actionpack" {
		t.Errorf("name should be trimmed, got %q", result[1].Name)
	}
}
