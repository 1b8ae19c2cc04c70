package tmplgen

import "strings"

// wrapColumn is where JoinDeps breaks a line. Together with the longest
// field name (hostmakedepends=") it keeps templates under 80 columns.
const wrapColumn = 65

// JoinDeps renders dependency specifiers for a quoted xbps field. Entries
// are separated by a space; when the current line plus the next entry would
// reach wrapColumn the entry starts a new line indented by one space.
//
// For PerlDist every entry except "perl" itself gets the perl- prefix and
// its "::" separators rewritten to "-". Other types pass through unchanged.
func JoinDeps(specs []string, t PkgType) string {
	var b strings.Builder
	lineLen := 0

	for i, spec := range specs {
		rendered := renderSpec(spec, t)
		switch {
		case i == 0:
		case lineLen+len(rendered) >= wrapColumn:
			b.WriteString("\n ")
			lineLen = 1
		default:
			b.WriteByte(' ')
			lineLen++
		}
		b.WriteString(rendered)
		lineLen += len(rendered)
	}
	return b.String()
}

func renderSpec(spec string, t PkgType) string {
	if t != PerlDist || spec == t.Runtime() {
		return spec
	}
	return t.Prefix() + strings.ReplaceAll(spec, "::", "-")
}

// StripComparator returns the package name of a specifier such as
// "ruby-rspec-core>=3.8.0".
func StripComparator(spec string) string {
	if i := strings.IndexAny(spec, "<>="); i >= 0 {
		return spec[:i]
	}
	return spec
}
