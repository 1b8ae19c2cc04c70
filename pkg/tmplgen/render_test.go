package tmplgen

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/matzehuels/tmplgen/pkg/errors"
)

type staticIdentity string

func (s staticIdentity) Maintainer() (string, error) { return string(s), nil }

type brokenIdentity struct{}

func (brokenIdentity) Maintainer() (string, error) {
	return "", errors.New(errors.ErrCodeMaintainerResolution, "no git author")
}

type fakeChecksums struct {
	sums map[string]string
	urls []string
}

func (f *fakeChecksums) Compute(_ context.Context, url string) (string, error) {
	f.urls = append(f.urls, url)
	if sum, ok := f.sums[url]; ok {
		return sum, nil
	}
	return "", errors.New(errors.ErrCodeChecksumFailure, "can't download %s", url)
}

func testRenderer() *Renderer {
	return &Renderer{
		Tables:   DefaultTables(),
		Identity: staticIdentity("Jane Doe <jane@example.org>"),
		Logger:   quietLogger(),
	}
}

func gemRecord() *PackageRecord {
	return &PackageRecord{
		Name:        "ruby-rspec",
		Version:     "3.8.0",
		Description: Ptr("BDD for Ruby."),
		Homepage:    "http://github.com/rspec",
		License:     []string{"MIT"},
		Dependencies: &Dependencies{
			Run: []string{"ruby-rspec-core>=3.8.0", "ruby-rspec-expectations>=3.8.0", "ruby-rspec-mocks>=3.8.0", "ruby"},
		},
		Checksum:    "7e6b2b8ff9d5e7ad5ef3d1af0d1a6c7f1a3b35d8d1c7f6ba0c4d4d2e2f1b2a3c",
		DownloadURL: Ptr("https://rubygems.org/downloads/rspec-${version}.gem"),
	}
}

func TestGenerateGem(t *testing.T) {
	got, err := testRenderer().Generate(gemRecord(), Gem, true)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	want := `# Template file for 'ruby-rspec'
pkgname=ruby-rspec
version=3.8.0
revision=1
noarch=yes
build_style=gem
depends="ruby-rspec-core>=3.8.0 ruby-rspec-expectations>=3.8.0
 ruby-rspec-mocks>=3.8.0 ruby"
short_desc="BDD for Ruby"
maintainer="Jane Doe <jane@example.org>"
license="MIT"
homepage="http://github.com/rspec"
distfiles="https://rubygems.org/downloads/rspec-${version}.gem"
checksum=7e6b2b8ff9d5e7ad5ef3d1af0d1a6c7f1a3b35d8d1c7f6ba0c4d4d2e2f1b2a3c

post_install() {
	vlicense LICENSE
}
`
	if got.Content != want {
		t.Errorf("Generate =\n%s\nwant\n%s", got.Content, want)
	}
	if got.Name != "ruby-rspec" {
		t.Errorf("Name = %q", got.Name)
	}
}

func TestGenerateCrate(t *testing.T) {
	rec := &PackageRecord{
		Name:         "rust-git2",
		Version:      "0.18.1",
		Description:  Ptr("Bindings to libgit2"),
		Homepage:     "https://github.com/rust-lang/git2-rs",
		License:      []string{"Apache-2.0"},
		Dependencies: &Dependencies{Host: []string{"pkg-config"}, Build: []string{"libgit2-devel"}, Run: []string{"ignored"}},
		Checksum:     "abc123",
		DownloadURL:  Ptr("https://static.crates.io/crates/git2/git2-${version}.crate"),
	}
	got, err := testRenderer().Generate(rec, Crate, true)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	want := `# Template file for 'rust-git2'
pkgname=rust-git2
version=0.18.1
revision=1
wrksrc="${pkgname/rust-/}-${version}"
build_style=cargo
hostmakedepends="pkg-config"
makedepends="libgit2-devel"
short_desc="Bindings to libgit2"
maintainer="Jane Doe <jane@example.org>"
license="Apache-2.0"
homepage="https://github.com/rust-lang/git2-rs"
distfiles="https://static.crates.io/crates/git2/git2-${version}.crate"
checksum=abc123
`
	if got.Content != want {
		t.Errorf("Generate =\n%s\nwant\n%s", got.Content, want)
	}
}

func TestGeneratePerl(t *testing.T) {
	rec := &PackageRecord{
		Name:        "perl-Moose",
		Version:     "2.2207",
		Description: Ptr("A postmodern object system for Perl 5"),
		Homepage:    "http://moose.perl.org/",
		License:     []string{"perl_5"},
		Dependencies: &Dependencies{
			Host:  []string{"perl"},
			Build: []string{"Dist-CheckConflicts", "perl"},
			Run:   []string{"Class-Load", "Data-OptList"},
		},
		Checksum:    "def456",
		DownloadURL: Ptr("https://cpan.metacpan.org/authors/id/E/ET/ETHER/Moose-${version}.tar.gz"),
	}

	got, err := testRenderer().Generate(rec, PerlDist, false)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	want := `# Template file for 'perl-Moose'
pkgname=perl-Moose
version=2.2207
revision=1
noarch=yes
build_style=perl-module
hostmakedepends="perl"
makedepends="perl-Dist-CheckConflicts perl"
depends="perl-Class-Load perl-Data-OptList"
short_desc="A postmodern object system for Perl 5"
maintainer="Jane Doe <jane@example.org>"
license="Artistic-1.0-Perl, GPL-1.0-or-later"
homepage="http://moose.perl.org/"
distfiles="https://cpan.metacpan.org/authors/id/E/ET/ETHER/Moose-${version}.tar.gz"
checksum=def456
`
	if got.Content != want {
		t.Errorf("Generate =\n%s\nwant\n%s", got.Content, want)
	}
}

func TestGenerateWrksrc(t *testing.T) {
	rec := &PackageRecord{Name: "perl-Moose", Version: "1", Homepage: "h", Checksum: "c"}

	got, err := testRenderer().Generate(rec, PerlDist, true)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got.Content, "\nwrksrc=\"${pkgname/perl-/}-${version}\"\n") {
		t.Errorf("prefixed perl template lacks wrksrc:\n%s", got.Content)
	}

	got, err = testRenderer().Generate(gemRecord(), Gem, true)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(got.Content, "wrksrc=") {
		t.Errorf("gem template has wrksrc:\n%s", got.Content)
	}
}

func TestGenerateMissingOptionalFields(t *testing.T) {
	rec := &PackageRecord{Name: "ruby-bare", Version: "0.1.0", Homepage: "https://rubygems.org/gems/bare", Checksum: "abc"}

	got, err := testRenderer().Generate(rec, Gem, true)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, absent := range []string{"license=", "depends=", "distfiles=", "post_install"} {
		if strings.Contains(got.Content, absent) {
			t.Errorf("output contains %q:\n%s", absent, got.Content)
		}
	}
	if !strings.Contains(got.Content, "\nshort_desc=\"\"\n") {
		t.Errorf("short_desc should be left empty:\n%s", got.Content)
	}
	if placeholder.MatchString(got.Content) {
		t.Errorf("unreplaced placeholder:\n%s", got.Content)
	}
}

var placeholder = regexp.MustCompile(`@[a-z_]+@`)

func TestGenerateIsDeterministic(t *testing.T) {
	r := testRenderer()
	a, err := r.Generate(gemRecord(), Gem, true)
	if err != nil {
		t.Fatal(err)
	}
	b, err := r.Generate(gemRecord(), Gem, true)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("two renders of the same record differ")
	}
	if !strings.HasSuffix(a.Content, "}\n") || strings.HasSuffix(a.Content, "\n\n") {
		t.Errorf("output should end with exactly one newline: %q", a.Content[len(a.Content)-10:])
	}
}

func TestGenerateErrors(t *testing.T) {
	r := testRenderer()

	if _, err := r.Generate(nil, Gem, true); !errors.Is(err, errors.ErrCodeMissingPrerequisite) {
		t.Errorf("nil record: %v", err)
	}
	if _, err := r.Generate(gemRecord(), 0, true); !errors.Is(err, errors.ErrCodeMissingPrerequisite) {
		t.Errorf("no type: %v", err)
	}

	r.Identity = brokenIdentity{}
	if _, err := r.Generate(gemRecord(), Gem, true); !errors.Is(err, errors.ErrCodeMaintainerResolution) {
		t.Errorf("broken identity: %v", err)
	}

	r.Identity = nil
	if _, err := r.Generate(gemRecord(), Gem, true); !errors.Is(err, errors.ErrCodeMaintainerResolution) {
		t.Errorf("no identity: %v", err)
	}
}

func TestDescription(t *testing.T) {
	r := testRenderer()
	if got := r.description("x", "Fast JSON."); got != "Fast JSON" {
		t.Errorf("description = %q", got)
	}
	if got := r.description("x", "v1.0 of foo"); got != "v1.0 of foo" {
		t.Errorf("description = %q", got)
	}
	long := strings.Repeat("a", 100)
	if got := r.description("x", long); got != long {
		t.Error("long descriptions are kept as is")
	}
}
