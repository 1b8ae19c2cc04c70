package tmplgen

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

//go:embed data.toml
var dataTOML []byte

// Tables holds the static lookup data: built-in packages, license
// corrections and native library dependencies of crates. A Tables value is
// read-only after construction and safe for concurrent use.
type Tables struct {
	builtIns map[PkgType]map[string]bool
	licenses map[string]string
	native   map[string]string
}

type tablesFile struct {
	BuiltIns struct {
		Gem      []string `toml:"gem"`
		PerlDist []string `toml:"perldist"`
	} `toml:"builtins"`
	Licenses map[string]string `toml:"licenses"`
	Native   struct {
		Crate map[string]string `toml:"crate"`
	} `toml:"native"`
}

// ParseTables decodes tables from TOML in the layout of the embedded data.toml.
func ParseTables(data []byte) (*Tables, error) {
	var f tablesFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse tables: %w", err)
	}

	t := &Tables{
		builtIns: map[PkgType]map[string]bool{
			Gem:      set(f.BuiltIns.Gem),
			PerlDist: set(f.BuiltIns.PerlDist),
		},
		licenses: f.Licenses,
		native:   f.Native.Crate,
	}
	if t.licenses == nil {
		t.licenses = map[string]string{}
	}
	if t.native == nil {
		t.native = map[string]string{}
	}
	return t, nil
}

var defaultTables = sync.OnceValues(func() (*Tables, error) {
	return ParseTables(dataTOML)
})

// DefaultTables returns the tables embedded in the binary. They are parsed
// once on first use.
func DefaultTables() *Tables {
	t, err := defaultTables()
	if err != nil {
		panic(err) // embedded data is fixed at build time
	}
	return t
}

func set(names []string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// IsBuiltIn reports whether name ships with the language runtime and thus
// never gets a template of its own. Crates are never built in. Perl module
// names are compared in distribution form.
func (t *Tables) IsBuiltIn(name string, typ PkgType) bool {
	switch typ {
	case Gem:
		return t.builtIns[Gem][name]
	case PerlDist:
		return t.builtIns[PerlDist][strings.ReplaceAll(name, "::", "-")]
	default:
		return false
	}
}

// CorrectLicense maps a non-standard license identifier to its SPDX form.
// Unknown identifiers pass through unchanged.
func (t *Tables) CorrectLicense(id string) string {
	if fixed, ok := t.licenses[id]; ok {
		return fixed
	}
	return id
}

// NativeDep returns the system package a crate links against, if any.
func (t *Tables) NativeDep(crate string) (string, bool) {
	dep, ok := t.native[crate]
	return dep, ok
}
