// Package checksum downloads distfiles and computes their sha256 digest,
// the value xbps-src expects in a template's checksum= field.
package checksum

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tmplgen/pkg/buildinfo"
	"github.com/matzehuels/tmplgen/pkg/errors"
	"github.com/matzehuels/tmplgen/pkg/httputil"
	"github.com/matzehuels/tmplgen/pkg/observability"
)

// downloadTimeout bounds a single attempt. Distfiles can be large, so this
// is far above the registry API timeout.
const downloadTimeout = 5 * time.Minute

// ProgressThreshold is the Content-Length above which a download reports
// progress through the observability download hooks. Smaller files finish
// before a progress bar would be readable.
const ProgressThreshold = 200_000

// Service computes checksums of remote files.
type Service struct {
	http     *http.Client
	attempts int
	delay    time.Duration
	logger   *log.Logger
}

// Option configures a [Service].
type Option func(*Service)

// WithRetry overrides the retry policy (attempt count and initial delay).
func WithRetry(attempts int, delay time.Duration) Option {
	return func(s *Service) {
		if attempts > 0 {
			s.attempts = attempts
		}
		if delay > 0 {
			s.delay = delay
		}
	}
}

// WithHTTPClient replaces the HTTP client used for downloads.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Service) { s.http = c }
}

// WithLogger sets the logger for download progress.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// New creates a checksum service with the default retry policy.
func New(opts ...Option) *Service {
	s := &Service{
		http:     &http.Client{Timeout: downloadTimeout},
		attempts: httputil.DefaultAttempts,
		delay:    httputil.DefaultDelay,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Compute downloads url and returns the hex-encoded sha256 of its body.
// Network errors, 429 and 5xx responses are retried with exponential
// backoff; every failure surfaces as ErrCodeChecksumFailure.
func (s *Service) Compute(ctx context.Context, url string) (string, error) {
	s.logger.Debug("computing checksum", "url", url)

	var sum string
	err := httputil.Retry(ctx, s.attempts, s.delay, func() error {
		var err error
		sum, err = s.download(ctx, url)
		if err != nil && httputil.IsRetryable(err) {
			s.logger.Debug("checksum download failed, retrying", "url", url, "error", err)
		}
		return err
	})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeChecksumFailure, err, "couldn't compute checksum of %s", url)
	}
	return sum, nil
}

func (s *Service) download(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())

	resp, err := s.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", httputil.Retryable(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode >= 500:
		return "", httputil.Retryable(fmt.Errorf("status %d", resp.StatusCode))
	default:
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	h := sha256.New()
	if resp.ContentLength <= ProgressThreshold {
		if _, err := io.Copy(h, resp.Body); err != nil {
			return "", httputil.Retryable(err)
		}
		return hex.EncodeToString(h.Sum(nil)), nil
	}

	pr := &progressReader{
		ctx:   ctx,
		r:     resp.Body,
		url:   url,
		total: resp.ContentLength,
		hooks: observability.Download(),
	}
	pr.hooks.OnDownloadStart(ctx, url, pr.total)
	_, err = io.Copy(h, pr)
	pr.hooks.OnDownloadComplete(ctx, url, pr.read, err)
	if err != nil {
		return "", httputil.Retryable(err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// progressReader reports every successful read to the download hooks.
type progressReader struct {
	ctx   context.Context
	r     io.Reader
	url   string
	read  int64
	total int64
	hooks observability.DownloadHooks
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.read += int64(n)
		p.hooks.OnDownloadProgress(p.ctx, p.url, p.read, p.total)
	}
	return n, err
}
