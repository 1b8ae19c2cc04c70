package crates

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/matzehuels/tmplgen/pkg/cache"
	"github.com/matzehuels/tmplgen/pkg/integrations"
)

// CrateInfo holds metadata for a Rust crate from crates.io.
//
// The Version field contains the max_version reported by the registry.
// Dependencies lists every declared dependency of that version, including
// dev, build and optional ones; callers decide which kinds matter.
type CrateInfo struct {
	Name         string       `json:"name"`
	Version      string       `json:"version"`
	Description  string       `json:"description,omitempty"`
	Homepage     string       `json:"homepage,omitempty"`
	Repository   string       `json:"repository,omitempty"`
	License      string       `json:"license,omitempty"`  // SPDX expression of Version, e.g. "MIT OR Apache-2.0"
	Checksum     string       `json:"checksum,omitempty"` // sha256 of the .crate file
	Dependencies []Dependency `json:"dependencies,omitempty"`
}

// Dependency is a single entry of a crate version's dependency list.
type Dependency struct {
	CrateID  string `json:"crate_id"`
	Kind     string `json:"kind"` // normal, build or dev
	Optional bool   `json:"optional"`
}

// Client provides access to the crates.io package registry API.
// All methods are safe for concurrent use by multiple goroutines.
//
// crates.io requires a User-Agent header; this client sets one automatically.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a crates.io client with the given cache backend.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		Client:  integrations.NewClient(backend, "crates:", cacheTTL, integrations.DefaultHeaders()),
		baseURL: "https://crates.io/api/v1",
	}
}

// WithBaseURL points the client at another registry mirror (or a test server).
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}

// FetchCrate retrieves metadata and the dependency list of the latest
// version of a crate. The name is case-sensitive.
//
// Returns [integrations.ErrNotFound] if the crate doesn't exist and
// [integrations.ErrNetwork] for HTTP failures.
func (c *Client) FetchCrate(ctx context.Context, crate string, refresh bool) (*CrateInfo, error) {
	var info CrateInfo
	err := c.Cached(ctx, crate, refresh, &info, func() error {
		return c.fetch(ctx, crate, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// Exists reports whether crate is published on crates.io. Transport failures
// are returned as errors so a miss can be told apart from an outage.
func (c *Client) Exists(ctx context.Context, crate string) (bool, error) {
	_, err := c.FetchCrate(ctx, crate, false)
	if errors.Is(err, integrations.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (c *Client) fetch(ctx context.Context, crate string, info *CrateInfo) error {
	var data crateResponse
	if err := c.Get(ctx, fmt.Sprintf("%s/crates/%s", c.baseURL, url.PathEscape(crate)), &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: crate %s", err, crate)
		}
		return err
	}

	*info = CrateInfo{
		Name:        data.Crate.Name,
		Version:     data.Crate.MaxVersion,
		Description: data.Crate.Description,
		Homepage:    data.Crate.Homepage,
		Repository:  data.Crate.Repository,
	}
	for _, v := range data.Versions {
		if v.Num == data.Crate.MaxVersion {
			info.License = v.License
			info.Checksum = v.Checksum
			break
		}
	}

	deps, err := c.fetchDeps(ctx, crate, info.Version)
	if err != nil {
		return err
	}
	info.Dependencies = deps
	return nil
}

func (c *Client) fetchDeps(ctx context.Context, crate, version string) ([]Dependency, error) {
	u := fmt.Sprintf("%s/crates/%s/%s/dependencies", c.baseURL, url.PathEscape(crate), url.PathEscape(version))

	var data depsResponse
	if err := c.Get(ctx, u, &data); err != nil {
		return nil, err
	}
	return data.Dependencies, nil
}

type crateResponse struct {
	Crate struct {
		Name        string `json:"name"`
		MaxVersion  string `json:"max_version"`
		Description string `json:"description"`
		Repository  string `json:"repository"`
		Homepage    string `json:"homepage"`
	} `json:"crate"`
	Versions []versionEntry `json:"versions"`
}

type versionEntry struct {
	Num      string `json:"num"`
	License  string `json:"license"`
	Checksum string `json:"checksum"`
}

type depsResponse struct {
	Dependencies []Dependency `json:"dependencies"`
}
