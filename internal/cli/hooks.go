package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tmplgen/pkg/observability"
)

// logHooks reports every observability event at debug level.
type logHooks struct {
	logger *log.Logger
}

func registerLogHooks(l *log.Logger) {
	h := logHooks{logger: l.WithPrefix("trace")}
	observability.SetGenerateHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
	observability.SetDownloadHooks(h)
}

func (h logHooks) OnFetchStart(_ context.Context, platform, pkg string) {
	h.logger.Debug("fetch", "platform", platform, "pkg", pkg)
}

func (h logHooks) OnFetchComplete(_ context.Context, platform, pkg string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("fetch failed", "platform", platform, "pkg", pkg, "took", d.Round(time.Millisecond), "err", err)
		return
	}
	h.logger.Debug("fetched", "platform", platform, "pkg", pkg, "took", d.Round(time.Millisecond))
}

func (h logHooks) OnTemplateWritten(_ context.Context, pkgname, path string, updated bool) {
	h.logger.Debug("template written", "pkg", pkgname, "path", path, "updated", updated)
}

func (h logHooks) OnDependencySkipped(_ context.Context, pkgname, reason string) {
	h.logger.Debug("dependency skipped", "pkg", pkgname, "reason", reason)
}

func (h logHooks) OnCacheHit(_ context.Context, key string) {
	h.logger.Debug("cache hit", "key", key)
}

func (h logHooks) OnCacheMiss(_ context.Context, key string) {
	h.logger.Debug("cache miss", "key", key)
}

func (h logHooks) OnCacheSet(_ context.Context, key string, size int) {
	h.logger.Debug("cache set", "key", key, "bytes", size)
}

func (h logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "took", d.Round(time.Millisecond))
}

func (h logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "err", err)
}

func (h logHooks) OnDownloadStart(_ context.Context, url string, total int64) {
	h.logger.Debug("download", "url", url, "bytes", total)
}

func (h logHooks) OnDownloadProgress(context.Context, string, int64, int64) {}

func (h logHooks) OnDownloadComplete(_ context.Context, url string, read int64, err error) {
	if err != nil {
		h.logger.Debug("download failed", "url", url, "read", read, "err", err)
		return
	}
	h.logger.Debug("download done", "url", url, "bytes", read)
}
