package tmplgen

import (
	"reflect"
	"testing"
)

func TestCorrectLicense(t *testing.T) {
	tables := DefaultTables()
	tests := map[string]string{
		"GPL-1.0+":   "GPL-1.0-or-later",
		"GPL-3.0+":   "GPL-3.0-or-later",
		"perl_5":     "Artistic-1.0-Perl, GPL-1.0-or-later",
		"apache_2_0": "Apache-2.0",
		"MIT":        "MIT",
		"WTFPL":      "WTFPL",
	}
	for in, want := range tests {
		if got := tables.CorrectLicense(in); got != want {
			t.Errorf("CorrectLicense(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsBuiltIn(t *testing.T) {
	tables := DefaultTables()
	tests := []struct {
		name string
		typ  PkgType
		want bool
	}{
		{"ruby", Gem, true},
		{"json", Gem, true},
		{"rake", Gem, true},
		{"rspec", Gem, false},
		{"perl", PerlDist, true},
		{"File::Basename", PerlDist, true},
		{"ExtUtils-MakeMaker", PerlDist, true},
		{"Moose", PerlDist, false},
		{"serde", Crate, false},
		{"json", Crate, false},
	}
	for _, tt := range tests {
		if got := tables.IsBuiltIn(tt.name, tt.typ); got != tt.want {
			t.Errorf("IsBuiltIn(%q, %v) = %v, want %v", tt.name, tt.typ, got, tt.want)
		}
	}
}

func TestNativeDep(t *testing.T) {
	tables := DefaultTables()
	if dep, ok := tables.NativeDep("openssl-sys"); !ok || dep != "openssl-devel" {
		t.Errorf("NativeDep(openssl-sys) = %q, %v", dep, ok)
	}
	if _, ok := tables.NativeDep("serde"); ok {
		t.Error("serde should need no native library")
	}
}

func TestParseTables(t *testing.T) {
	tables, err := ParseTables([]byte(`
[builtins]
gem = ["ruby", "json"]

[licenses]
"foo" = "Foo-1.0"
`))
	if err != nil {
		t.Fatalf("ParseTables: %v", err)
	}
	if !tables.IsBuiltIn("json", Gem) || tables.IsBuiltIn("perl", PerlDist) {
		t.Error("built-ins not taken from input")
	}
	if got := tables.CorrectLicense("foo"); got != "Foo-1.0" {
		t.Errorf("CorrectLicense(foo) = %q", got)
	}
	if _, ok := tables.NativeDep("openssl-sys"); ok {
		t.Error("missing [native] section should give an empty table")
	}

	if _, err := ParseTables([]byte("[builtins\n")); err == nil {
		t.Error("expected error for malformed TOML")
	}
}

func TestSplitLicense(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"MIT", []string{"MIT"}},
		{"MIT OR Apache-2.0", []string{"MIT", "Apache-2.0"}},
		{"MIT/Apache-2.0", []string{"MIT", "Apache-2.0"}},
		{"(MIT OR Apache-2.0) AND Unicode-DFS-2016", []string{"MIT", "Apache-2.0", "Unicode-DFS-2016"}},
		{"  ", nil},
	}
	for _, tt := range tests {
		if got := SplitLicense(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitLicense(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNeedsVlicense(t *testing.T) {
	tests := map[string]bool{
		"MIT":                                 true,
		"MIT, Apache-2.0":                     true,
		"BSD-3-Clause":                        true,
		"ISC":                                 true,
		"Apache-2.0":                          false,
		"Artistic-1.0-Perl, GPL-1.0-or-later": false,
		"":                                    false,
	}
	for in, want := range tests {
		if got := needsVlicense(in); got != want {
			t.Errorf("needsVlicense(%q) = %v, want %v", in, got, want)
		}
	}
}
