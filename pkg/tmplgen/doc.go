// Package tmplgen turns registry metadata into xbps-src templates.
//
// A [PackageRecord] is the registry-independent view of one crate, gem or
// Perl distribution. Registry adapters (see package sources) produce
// records; [Renderer] writes new templates from them or patches existing
// ones, and [Walker] follows dependencies so that a gem or Perl
// distribution ends up with templates for everything it needs.
//
// [Builder] strings the steps together for a single package:
//
//	b := tmplgen.NewBuilder("rspec", renderer)
//	if err := b.Identify(ctx, probers); err != nil {
//	    return err
//	}
//	if err := b.FetchInfo(ctx, fetcher); err != nil {
//	    return err
//	}
//	tmpl, err := b.Generate(true)
//
// The static tables (built-in packages, license spellings and native
// libraries of crates) are embedded from data.toml; see [DefaultTables].
package tmplgen
