// Package rubygems provides an HTTP client for the RubyGems.org API.
//
// [Client.FetchGem] returns a [GemInfo] with the gem's current version,
// summary, licenses, homepage, the sha256 of the .gem file and its runtime
// dependencies. Requirement strings are passed through verbatim; turning
// them into packaging specifiers is the caller's job.
package rubygems
