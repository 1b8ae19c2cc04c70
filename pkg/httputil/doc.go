// Package httputil provides the retry policy shared by every network
// collaborator: registry API clients and the distfile checksum download.
//
// # Retry
//
// [Retry] re-runs a function while it fails with a [RetryableError], doubling
// the delay between attempts:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    return fetch(ctx)
//	})
//
// Only transient failures should be wrapped with [Retryable]: connection
// errors, timeouts and 5xx responses. A 404 is final and returned at once.
//
// Retrying lives at the collaborator boundary. Template rendering and
// dependency normalization never retry on their own.
package httputil
