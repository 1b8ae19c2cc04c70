package tmplgen

import "strings"

// permissiveMarkers trigger the vlicense post_install hook: these licenses
// require shipping the license text.
var permissiveMarkers = []string{"MIT", "ISC", "BSD"}

const vlicenseSnippet = "\n\npost_install() {\n\tvlicense LICENSE\n}"

// licenseSplitter splits SPDX expressions and the older slash notation
// used by crates.io ("MIT/Apache-2.0").
var licenseSplitter = strings.NewReplacer(" OR ", "\x00", " AND ", "\x00", " or ", "\x00", " and ", "\x00", "/", "\x00")

// SplitLicense splits a compound license expression into its identifiers.
// Parentheses and WITH exceptions are kept verbatim. Returns nil for an
// empty expression.
func SplitLicense(expr string) []string {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(licenseSplitter.Replace(expr), "\x00") {
		part = strings.Trim(strings.TrimSpace(part), "()")
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// joinLicenses corrects every entry and joins them xbps-style. Entries that
// are blank after trimming are dropped.
func (t *Tables) joinLicenses(ids []string) string {
	var parts []string
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			parts = append(parts, t.CorrectLicense(id))
		}
	}
	return strings.Join(parts, ", ")
}

func needsVlicense(license string) bool {
	for _, m := range permissiveMarkers {
		if strings.Contains(license, m) {
			return true
		}
	}
	return false
}
