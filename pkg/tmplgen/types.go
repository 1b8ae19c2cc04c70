package tmplgen

import (
	"strings"

	"github.com/matzehuels/tmplgen/pkg/errors"
)

// PkgType identifies the registry a package comes from. The zero value
// means "not determined yet".
type PkgType int

const (
	Crate PkgType = iota + 1
	Gem
	PerlDist
)

// AllTypes lists every PkgType in the order registries are reported.
var AllTypes = []PkgType{Crate, Gem, PerlDist}

// String returns the name accepted by --type.
func (t PkgType) String() string {
	switch t {
	case Crate:
		return "crate"
	case Gem:
		return "gem"
	case PerlDist:
		return "perldist"
	default:
		return "unknown"
	}
}

// Valid reports whether t is one of the known types.
func (t PkgType) Valid() bool { return t >= Crate && t <= PerlDist }

// Prefix is the xbps package name prefix for the ecosystem.
func (t PkgType) Prefix() string {
	switch t {
	case Crate:
		return "rust-"
	case Gem:
		return "ruby-"
	case PerlDist:
		return "perl-"
	default:
		return ""
	}
}

// BuildStyle is the xbps-src build_style for the ecosystem.
func (t PkgType) BuildStyle() string {
	switch t {
	case Crate:
		return "cargo"
	case Gem:
		return "gem"
	case PerlDist:
		return "perl-module"
	default:
		return ""
	}
}

// Platform is the registry host, as shown to users.
func (t PkgType) Platform() string {
	switch t {
	case Crate:
		return "crates.io"
	case Gem:
		return "rubygems.org"
	case PerlDist:
		return "metacpan.org"
	default:
		return ""
	}
}

// Runtime is the language runtime package every package of this type
// depends on. Crates link statically and have none.
func (t PkgType) Runtime() string {
	switch t {
	case Gem:
		return "ruby"
	case PerlDist:
		return "perl"
	default:
		return ""
	}
}

// StripPrefix removes the ecosystem prefix from name, if present.
func (t PkgType) StripPrefix(name string) string {
	return strings.TrimPrefix(name, t.Prefix())
}

// PkgName returns the xbps package name for a bare registry name. Perl
// module separators become dashes.
func (t PkgType) PkgName(bare string, prefix bool) string {
	if t == PerlDist {
		bare = strings.ReplaceAll(bare, "::", "-")
	}
	if !prefix {
		return bare
	}
	return t.Prefix() + bare
}

// ParsePkgType parses a --type value. Ecosystem aliases are accepted.
func ParsePkgType(s string) (PkgType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "crate", "rust":
		return Crate, nil
	case "gem", "ruby":
		return Gem, nil
	case "perldist", "perl":
		return PerlDist, nil
	default:
		return 0, errors.New(errors.ErrCodeInvalidType, "unknown package type %q (want crate, gem or perldist)", s)
	}
}

// Dependencies holds dependency specifiers by xbps category. A nil slice
// means the category is absent and its template line is dropped.
type Dependencies struct {
	Host  []string `json:"host,omitempty"`
	Build []string `json:"build,omitempty"`
	Run   []string `json:"run,omitempty"`
}

// PackageRecord is the registry-independent metadata of one package.
//
// Name carries the ecosystem prefix unless the caller stripped it.
// Description, License, Dependencies and DownloadURL may be nil; Homepage
// always holds something, falling back to the registry page.
type PackageRecord struct {
	Name         string        `json:"name"`
	Version      string        `json:"version"`
	Description  *string       `json:"description,omitempty"`
	Homepage     string        `json:"homepage"`
	License      []string      `json:"license,omitempty"`
	Dependencies *Dependencies `json:"dependencies,omitempty"`
	Checksum     string        `json:"checksum"`
	DownloadURL  *string       `json:"download_url,omitempty"` // contains ${version}
}

// WithoutPrefix returns a copy of r whose Name has the ecosystem prefix removed.
func (r PackageRecord) WithoutPrefix(t PkgType) PackageRecord {
	r.Name = t.StripPrefix(r.Name)
	return r
}

// Template is a rendered xbps-src template.
type Template struct {
	Name    string // pkgname; also the srcpkgs/ directory name
	Content string
}

// Ptr returns a pointer to s. Handy for optional record fields.
func Ptr(s string) *string { return &s }
