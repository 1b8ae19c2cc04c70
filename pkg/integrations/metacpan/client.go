package metacpan

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/tmplgen/pkg/cache"
	"github.com/matzehuels/tmplgen/pkg/integrations"
)

// ReleaseInfo holds the latest release of a Perl distribution.
type ReleaseInfo struct {
	Distribution   string       `json:"distribution"`
	Version        string       `json:"version"`
	Abstract       string       `json:"abstract,omitempty"`
	Homepage       string       `json:"homepage,omitempty"`
	License        []string     `json:"license,omitempty"`
	DownloadURL    string       `json:"download_url,omitempty"`
	ChecksumSHA256 string       `json:"checksum_sha256,omitempty"`
	Dependencies   []Dependency `json:"dependencies,omitempty"`
}

// Dependency is one module requirement of a release.
type Dependency struct {
	Module       string `json:"module"`
	Phase        string `json:"phase"`        // configure, build, test, runtime, develop
	Relationship string `json:"relationship"` // requires, recommends, suggests
	Version      string `json:"version,omitempty"`
}

// Client provides access to the MetaCPAN API.
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a MetaCPAN client with the given cache backend.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		Client:  integrations.NewClient(backend, "metacpan:", cacheTTL, integrations.DefaultHeaders()),
		baseURL: "https://fastapi.metacpan.org/v1",
	}
}

// WithBaseURL points the client at another MetaCPAN instance (or a test server).
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}

// FetchRelease retrieves the latest release of the distribution dist
// (e.g. "Moose", "JSON-PP").
//
// Returns [integrations.ErrNotFound] if no such distribution exists.
func (c *Client) FetchRelease(ctx context.Context, dist string, refresh bool) (*ReleaseInfo, error) {
	var info ReleaseInfo
	err := c.Cached(ctx, "release:"+dist, refresh, &info, func() error {
		return c.fetchRelease(ctx, dist, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// Distribution resolves a module name (e.g. "JSON::PP") to the name of the
// distribution that ships it.
func (c *Client) Distribution(ctx context.Context, module string, refresh bool) (string, error) {
	var dist string
	err := c.Cached(ctx, "module:"+module, refresh, &dist, func() error {
		var data moduleResponse
		if err := c.Get(ctx, fmt.Sprintf("%s/module/%s", c.baseURL, url.PathEscape(module)), &data); err != nil {
			if errors.Is(err, integrations.ErrNotFound) {
				return fmt.Errorf("%w: module %s", err, module)
			}
			return err
		}
		if data.Distribution == "" {
			return fmt.Errorf("%w: module %s has no distribution", integrations.ErrNotFound, module)
		}
		dist = data.Distribution
		return nil
	})
	return dist, err
}

// Exists reports whether name is a distribution on metacpan.org. Module
// names are resolved to their distribution first.
func (c *Client) Exists(ctx context.Context, name string) (bool, error) {
	_, err := c.FetchRelease(ctx, name, false)
	if errors.Is(err, integrations.ErrNotFound) {
		_, err = c.Distribution(ctx, name, false)
	}
	if errors.Is(err, integrations.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (c *Client) fetchRelease(ctx context.Context, dist string, info *ReleaseInfo) error {
	var data releaseResponse
	if err := c.Get(ctx, fmt.Sprintf("%s/release/%s", c.baseURL, url.PathEscape(dist)), &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: distribution %s", err, dist)
		}
		return err
	}

	*info = ReleaseInfo{
		Distribution:   data.Distribution,
		Version:        data.Version.String(),
		Abstract:       data.Abstract,
		Homepage:       data.Resources.Homepage,
		License:        data.License,
		DownloadURL:    data.DownloadURL,
		ChecksumSHA256: data.ChecksumSHA256,
		Dependencies:   data.Dependency,
	}
	if info.Distribution == "" {
		info.Distribution = dist
	}
	return nil
}

// version accepts both the string and the numeric form metacpan emits.
type version string

func (v *version) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*v = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = version(s)
		return nil
	}
	*v = version(strings.TrimSpace(string(b)))
	return nil
}

func (v version) String() string { return string(v) }

type releaseResponse struct {
	Distribution   string       `json:"distribution"`
	Version        version      `json:"version"`
	Abstract       string       `json:"abstract"`
	License        []string     `json:"license"`
	DownloadURL    string       `json:"download_url"`
	ChecksumSHA256 string       `json:"checksum_sha256"`
	Dependency     []Dependency `json:"dependency"`
	Resources      struct {
		Homepage string `json:"homepage"`
	} `json:"resources"`
}

type moduleResponse struct {
	Distribution string `json:"distribution"`
}
