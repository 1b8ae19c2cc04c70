// Package pkg holds the libraries behind tmplgen, a generator for Void Linux
// xbps-src templates.
//
// # Overview
//
// tmplgen looks a package up on crates.io, rubygems.org or metacpan.org,
// renders a template for it and then walks its dependencies, writing a
// template for every one that is not already packaged. The packages are
// layered:
//
//	[tmplgen]      domain types, normalization, rendering, updating, walking
//	[sources]      registry lookups turned into tmplgen.PackageRecord values
//	[integrations] HTTP clients for the three registries
//	[pipeline]     one tmplgen invocation: identify, fetch, write, walk
//
// Supporting packages:
//
//	[distdir]       reads and writes srcpkgs/<pkgname>/template
//	[checksum]      sha256 of a downloaded distfile
//	[gitident]      maintainer identity from git config
//	[cache]         file, Redis and null response caches
//	[config]        YAML configuration and environment overrides
//	[errors]        error codes surfaced to the user
//	[httputil]      retry policy for network collaborators
//	[observability] hooks fired while fetching and writing
//	[buildinfo]     version metadata set at link time
//
// # Quick Start
//
//	dir, _ := distdir.New("~/void-packages")
//	src := sources.New(cache.NewNullCache(), time.Hour, checksum.New(), logger)
//	renderer := &tmplgen.Renderer{
//	    Tables:    tmplgen.DefaultTables(),
//	    Identity:  gitident.Resolver{},
//	    Checksums: src.Checksums,
//	}
//	runner := pipeline.NewRunner(src, src.Probers(), renderer, dir, logger)
//	res, err := runner.Run(ctx, pipeline.Options{Name: "rspec"})
package pkg
