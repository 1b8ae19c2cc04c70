// Package crates provides an HTTP client for the crates.io API.
//
// [Client.FetchCrate] returns a [CrateInfo] for the crate's max_version:
// description, homepage, repository, the version's license expression and
// sha256 checksum, and its full dependency list (the caller filters by kind).
// Two requests are made per crate, one for the crate document and one for
// the version's dependencies.
//
// Responses are cached through the backend passed to [NewClient]; pass
// refresh=true to bypass the cache.
package crates
