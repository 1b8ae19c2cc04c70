// Package integrations provides HTTP clients for the package registries
// tmplgen generates templates from.
//
// Each registry has its own subpackage:
//
//   - [crates]: Rust crates.io
//   - [rubygems]: Ruby gems
//   - [metacpan]: Perl distributions via metacpan.org
//
// # Client Pattern
//
// All registry clients follow a consistent pattern:
//
//	client := crates.NewClient(backend, 24*time.Hour)
//	info, err := client.FetchCrate(ctx, "serde", false) // false = use cache
//
// The shared [Client] handles retries for transient failures (network errors,
// 429 and 5xx responses), JSON decoding, and response caching through any
// [cache.Cache] backend. A missing package surfaces as [ErrNotFound]; every
// other transport failure wraps [ErrNetwork].
//
// [crates]: github.com/matzehuels/tmplgen/pkg/integrations/crates
// [rubygems]: github.com/matzehuels/tmplgen/pkg/integrations/rubygems
// [metacpan]: github.com/matzehuels/tmplgen/pkg/integrations/metacpan
// [cache.Cache]: github.com/matzehuels/tmplgen/pkg/cache.Cache
package integrations
