package tmplgen

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tmplgen/pkg/errors"
)

const oldGemTemplate = `# Template file for 'ruby-rspec'
pkgname=ruby-rspec
version=3.7.0
revision=3
noarch=yes
build_style=gem
depends="ruby-rspec-core>=3.7.0 ruby-rspec-expectations>=3.7.0
 ruby-rspec-mocks>=3.7.0"
short_desc="Old description"
maintainer="Someone <someone@example.org>"
license="MIT"
homepage="https://old.example.org"
distfiles="https://rubygems.org/downloads/rspec-${version}.gem"
checksum=oldsum

post_install() {
	vlicense LICENSE
	# keep this
}
`

func oldGem() Template { return Template{Name: "ruby-rspec", Content: oldGemTemplate} }

func TestUpdateVersionOnly(t *testing.T) {
	got, err := testRenderer().Update(context.Background(), oldGem(), gemRecord(), Gem, false)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	want := strings.NewReplacer(
		"version=3.7.0", "version=3.8.0",
		"revision=3", "revision=1",
		"checksum=oldsum", "checksum="+gemRecord().Checksum,
	).Replace(oldGemTemplate)
	if got.Content != want {
		t.Errorf("Update =\n%s\nwant\n%s", got.Content, want)
	}
}

func TestUpdateAll(t *testing.T) {
	got, err := testRenderer().Update(context.Background(), oldGem(), gemRecord(), Gem, true)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	want := strings.NewReplacer(
		"version=3.7.0", "version=3.8.0",
		"revision=3", "revision=1",
		`short_desc="Old description"`, `short_desc="BDD for Ruby"`,
		`homepage="https://old.example.org"`, `homepage="http://github.com/rspec"`,
		"checksum=oldsum", "checksum="+gemRecord().Checksum,
	).Replace(oldGemTemplate)
	if got.Content != want {
		t.Errorf("Update =\n%s\nwant\n%s", got.Content, want)
	}
}

func TestUpdateAllDistfiles(t *testing.T) {
	const mirror = `distfiles="https://github.com/rspec/rspec/archive/v${version}.tar.gz"`
	old := Template{
		Name:    "ruby-rspec",
		Content: strings.Replace(oldGemTemplate, `distfiles="https://rubygems.org/downloads/rspec-${version}.gem"`, mirror, 1),
	}

	tests := []struct {
		name string
		url  *string
		want string
	}{
		{"no download url keeps old value", nil, mirror},
		{"download url replaces old value", Ptr("https://rubygems.org/downloads/rspec-${version}.gem"), `distfiles="https://rubygems.org/downloads/rspec-${version}.gem"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := gemRecord()
			rec.DownloadURL = tt.url
			got, err := testRenderer().Update(context.Background(), old, rec, Gem, true)
			if err != nil {
				t.Fatalf("Update: %v", err)
			}
			if !strings.Contains(got.Content, "\n"+tt.want+"\n") {
				t.Errorf("distfiles line = %q, want %q", parseDocumentValue(got.Content, "distfiles"), tt.want)
			}
			if !strings.Contains(got.Content, "\nversion=3.8.0\n") {
				t.Error("version was not bumped")
			}
		})
	}
}

func TestUpdateAllWithoutDescription(t *testing.T) {
	var logs bytes.Buffer
	r := testRenderer()
	r.Logger = log.New(&logs)

	rec := gemRecord()
	rec.Description = nil
	got, err := r.Update(context.Background(), oldGem(), rec, Gem, true)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !strings.Contains(got.Content, `short_desc="Old description"`) {
		t.Errorf("short_desc changed without a description:\n%s", got.Content)
	}
	if !strings.Contains(got.Content, `homepage="http://github.com/rspec"`) {
		t.Error("other update-all fields should still be refreshed")
	}
	if !strings.Contains(logs.String(), "no description") {
		t.Errorf("expected a warning about the missing description, got %q", logs.String())
	}
}

func parseDocumentValue(content, key string) string {
	v, _ := parseDocument(content).value(key)
	return v
}

func TestUpdateVersionOnlyLeavesMetadata(t *testing.T) {
	got, err := testRenderer().Update(context.Background(), oldGem(), gemRecord(), Gem, false)
	if err != nil {
		t.Fatal(err)
	}
	for _, line := range []string{`short_desc="Old description"`, `homepage="https://old.example.org"`, `maintainer="Someone <someone@example.org>"`} {
		if !strings.Contains(got.Content, line) {
			t.Errorf("version-only update lost %q", line)
		}
	}
}

func TestUpdateSameVersionKeepsRevision(t *testing.T) {
	rec := gemRecord()
	rec.Version = "3.7.0"
	got, err := testRenderer().Update(context.Background(), oldGem(), rec, Gem, false)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got.Content, "\nrevision=3\n") {
		t.Errorf("revision changed without a version bump:\n%s", got.Content)
	}
}

func TestUpdateRecomputesMovedDistfiles(t *testing.T) {
	old := strings.Replace(oldGemTemplate,
		`distfiles="https://rubygems.org/downloads/rspec-${version}.gem"`,
		`distfiles="https://github.com/rspec/${pkgname}/archive/v${version}.tar.gz"`, 1)
	sums := &fakeChecksums{sums: map[string]string{
		"https://github.com/rspec/ruby-rspec/archive/v3.8.0.tar.gz": "githubsum",
	}}
	r := testRenderer()
	r.Checksums = sums

	got, err := r.Update(context.Background(), Template{Name: "ruby-rspec", Content: old}, gemRecord(), Gem, false)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !strings.Contains(got.Content, "\nchecksum=githubsum\n") {
		t.Errorf("checksum not recomputed:\n%s", got.Content)
	}
	if len(sums.urls) != 1 {
		t.Errorf("Compute called %d times, want 1", len(sums.urls))
	}
	if !strings.Contains(got.Content, "archive/v${version}.tar.gz") {
		t.Error("distfiles should keep its placeholders")
	}
}

func TestUpdateChecksumFailure(t *testing.T) {
	old := strings.Replace(oldGemTemplate, "rubygems.org/downloads", "mirror.example.org", 1)
	r := testRenderer()
	r.Checksums = &fakeChecksums{}

	_, err := r.Update(context.Background(), Template{Name: "ruby-rspec", Content: old}, gemRecord(), Gem, false)
	if !errors.Is(err, errors.ErrCodeChecksumFailure) {
		t.Errorf("err = %v, want CHECKSUM_FAILURE", err)
	}
}

func TestUpdateMissingLines(t *testing.T) {
	old := "pkgname=ruby-rspec\nversion=3.7.0\nrevision=2\n"

	for _, all := range []bool{false, true} {
		got, err := testRenderer().Update(context.Background(), Template{Name: "ruby-rspec", Content: old}, gemRecord(), Gem, all)
		if err != nil {
			t.Fatalf("Update(all=%v): %v", all, err)
		}
		want := "pkgname=ruby-rspec\nversion=3.8.0\nrevision=1\n"
		if got.Content != want {
			t.Errorf("Update(all=%v) = %q, want %q", all, got.Content, want)
		}
	}
}

func TestUpdateRequiresRecord(t *testing.T) {
	_, err := testRenderer().Update(context.Background(), oldGem(), nil, Gem, false)
	if !errors.Is(err, errors.ErrCodeMissingPrerequisite) {
		t.Errorf("err = %v, want MISSING_PREREQUISITE", err)
	}
}

func TestParseDocumentRoundTrip(t *testing.T) {
	for _, content := range []string{oldGemTemplate, "", "a=1", "x=\"open\n still open\"\ny=2\n"} {
		if got := parseDocument(content).String(); got != content {
			t.Errorf("round trip of %q = %q", content, got)
		}
	}

	doc := parseDocument(oldGemTemplate)
	v, ok := doc.value("depends")
	if !ok || !strings.HasSuffix(v, "\n ruby-rspec-mocks>=3.7.0") {
		t.Errorf("multi-line depends = %q, %v", v, ok)
	}
	if _, ok := doc.value("nosuchkey"); ok {
		t.Error("value of a missing key reported as present")
	}
}
