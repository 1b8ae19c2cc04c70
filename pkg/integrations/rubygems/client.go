package rubygems

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/tmplgen/pkg/cache"
	"github.com/matzehuels/tmplgen/pkg/integrations"
)

// GemInfo holds metadata for a Ruby gem from RubyGems.
//
// Licenses is nil when the gem declares none. Dependencies holds runtime
// dependencies only, in registry order, with their raw requirement strings
// (e.g. "~> 3.8, >= 3.8.0").
type GemInfo struct {
	Name          string       `json:"name"`
	Version       string       `json:"version"`
	Info          string       `json:"info,omitempty"`
	Licenses      []string     `json:"licenses,omitempty"`
	HomepageURI   string       `json:"homepage_uri,omitempty"`
	SourceCodeURI string       `json:"source_code_uri,omitempty"`
	SHA           string       `json:"sha,omitempty"`
	Dependencies  []Dependency `json:"dependencies,omitempty"`
}

// Dependency is a runtime dependency with its requirement expression.
type Dependency struct {
	Name         string `json:"name"`
	Requirements string `json:"requirements"`
}

// Client provides access to the RubyGems package registry API.
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a RubyGems client with the given cache backend.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		Client:  integrations.NewClient(backend, "rubygems:", cacheTTL, integrations.DefaultHeaders()),
		baseURL: "https://rubygems.org/api/v1",
	}
}

// WithBaseURL points the client at another gem server (or a test server).
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}

// FetchGem retrieves metadata for a Ruby gem from RubyGems.
//
// The gem parameter is trimmed; gem names are case-sensitive on rubygems.org.
//
// Returns [integrations.ErrNotFound] if the gem doesn't exist and
// [integrations.ErrNetwork] for HTTP failures.
func (c *Client) FetchGem(ctx context.Context, gem string, refresh bool) (*GemInfo, error) {
	gem = strings.TrimSpace(gem)

	var info GemInfo
	err := c.Cached(ctx, gem, refresh, &info, func() error {
		return c.fetch(ctx, gem, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// Exists reports whether gem is published on rubygems.org.
func (c *Client) Exists(ctx context.Context, gem string) (bool, error) {
	_, err := c.FetchGem(ctx, gem, false)
	if errors.Is(err, integrations.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (c *Client) fetch(ctx context.Context, gem string, info *GemInfo) error {
	var data gemResponse
	if err := c.Get(ctx, fmt.Sprintf("%s/gems/%s.json", c.baseURL, url.PathEscape(gem)), &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: gem %s", err, gem)
		}
		return err
	}

	*info = GemInfo{
		Name:          data.Name,
		Version:       data.Version,
		Info:          data.Info,
		Licenses:      data.Licenses,
		HomepageURI:   data.HomepageURI,
		SourceCodeURI: data.SourceCodeURI,
		SHA:           data.SHA,
		Dependencies:  runtimeDeps(data.Dependencies.Runtime),
	}
	return nil
}

// runtimeDeps drops duplicate names, keeping the first requirement seen.
func runtimeDeps(deps []Dependency) []Dependency {
	seen := make(map[string]bool)
	var result []Dependency
	for _, d := range deps {
		name := strings.TrimSpace(d.Name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		result = append(result, Dependency{Name: name, Requirements: strings.TrimSpace(d.Requirements)})
	}
	return result
}

type gemResponse struct {
	Name          string   `json:"name"`
	Version       string   `json:"version"`
	Info          string   `json:"info"`
	Licenses      []string `json:"licenses"`
	SourceCodeURI string   `json:"source_code_uri"`
	HomepageURI   string   `json:"homepage_uri"`
	SHA           string   `json:"sha"`
	Dependencies  struct {
		Runtime []Dependency `json:"runtime"`
	} `json:"dependencies"`
}
