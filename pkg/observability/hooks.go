// Package observability provides hooks for logging and metrics around
// registry fetches, template generation, cache use, HTTP traffic and
// distfile downloads.
//
// Libraries emit events through the package-level accessors; the CLI
// registers concrete implementations at startup. Until something is
// registered every hook is a no-op.
//
//	observability.Generate().OnFetchStart(ctx, "crates.io", "serde")
//	rec, err := fetch(ctx, "serde")
//	observability.Generate().OnFetchComplete(ctx, "crates.io", "serde", time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Generate Hooks
// =============================================================================

// GenerateHooks receives events from the fetch/generate/write cycle.
type GenerateHooks interface {
	// Registry fetch events
	OnFetchStart(ctx context.Context, platform, pkg string)
	OnFetchComplete(ctx context.Context, platform, pkg string, duration time.Duration, err error)

	// OnTemplateWritten fires once per template written (or updated) on disk.
	OnTemplateWritten(ctx context.Context, pkgname, path string, updated bool)

	// OnDependencySkipped fires when the walker does not descend into a dependency.
	OnDependencySkipped(ctx context.Context, pkgname, reason string)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, key string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, key string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, key string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// Download Hooks
// =============================================================================

// DownloadHooks receives progress of distfile downloads large enough to be
// worth showing. total is the response's Content-Length.
type DownloadHooks interface {
	OnDownloadStart(ctx context.Context, url string, total int64)
	OnDownloadProgress(ctx context.Context, url string, read, total int64)
	OnDownloadComplete(ctx context.Context, url string, read int64, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopGenerateHooks is a no-op implementation of GenerateHooks.
type NoopGenerateHooks struct{}

func (NoopGenerateHooks) OnFetchStart(context.Context, string, string)                           {}
func (NoopGenerateHooks) OnFetchComplete(context.Context, string, string, time.Duration, error) {}
func (NoopGenerateHooks) OnTemplateWritten(context.Context, string, string, bool)               {}
func (NoopGenerateHooks) OnDependencySkipped(context.Context, string, string)                   {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// NoopDownloadHooks is a no-op implementation of DownloadHooks.
type NoopDownloadHooks struct{}

func (NoopDownloadHooks) OnDownloadStart(context.Context, string, int64)           {}
func (NoopDownloadHooks) OnDownloadProgress(context.Context, string, int64, int64) {}
func (NoopDownloadHooks) OnDownloadComplete(context.Context, string, int64, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	generateHooks GenerateHooks = NoopGenerateHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	downloadHooks DownloadHooks = NoopDownloadHooks{}
	hooksMu       sync.RWMutex
)

// SetGenerateHooks registers custom generate hooks.
// This should be called once at application startup.
func SetGenerateHooks(h GenerateHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		generateHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// SetDownloadHooks registers custom download hooks.
func SetDownloadHooks(h DownloadHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		downloadHooks = h
	}
}

// Generate returns the registered generate hooks.
func Generate() GenerateHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return generateHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Download returns the registered download hooks.
func Download() DownloadHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return downloadHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	generateHooks = NoopGenerateHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
	downloadHooks = NoopDownloadHooks{}
}
