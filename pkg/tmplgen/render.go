package tmplgen

import (
	"context"
	_ "embed"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tmplgen/pkg/errors"
)

//go:embed template.in
var skeleton string

// maxDescLen is the short_desc length xlint complains about.
const maxDescLen = 80

// Identity supplies the maintainer= value.
type Identity interface {
	Maintainer() (string, error)
}

// Checksummer computes the sha256 of a remote file.
type Checksummer interface {
	Compute(ctx context.Context, url string) (string, error)
}

// Renderer produces and updates templates. Tables and Identity are required
// for Generate; Checksums is only used by version-only updates whose
// distfiles moved.
type Renderer struct {
	Tables    *Tables
	Identity  Identity
	Checksums Checksummer
	Logger    *log.Logger
}

func (r *Renderer) logger() *log.Logger {
	if r.Logger == nil {
		return log.Default()
	}
	return r.Logger
}

func (r *Renderer) tables() *Tables {
	if r.Tables == nil {
		return DefaultTables()
	}
	return r.Tables
}

// Generate renders a new template for rec. With prefix set, wrksrc strips
// the ecosystem prefix from pkgname; otherwise the wrksrc line is dropped.
//
// Missing optional metadata is logged and the affected line is left empty
// (short_desc) or dropped (license, dependency categories, distfiles).
func (r *Renderer) Generate(rec *PackageRecord, t PkgType, prefix bool) (Template, error) {
	if rec == nil {
		return Template{}, errors.New(errors.ErrCodeMissingPrerequisite, "can't write a new template without package info")
	}
	if !t.Valid() {
		return Template{}, errors.New(errors.ErrCodeMissingPrerequisite, "can't write a new template without a package type")
	}
	if r.Identity == nil {
		return Template{}, errors.New(errors.ErrCodeMaintainerResolution, "no maintainer source configured")
	}
	maintainer, err := r.Identity.Maintainer()
	if err != nil {
		return Template{}, err
	}

	logger := r.logger().With("pkg", rec.Name)
	drop := map[string]bool{}

	description := ""
	if rec.Description == nil {
		logger.Warn("package has no description, please fill in short_desc yourself")
	} else {
		description = r.description(rec.Name, *rec.Description)
	}

	license := ""
	if rec.License == nil {
		logger.Warn("package has no license, please add one yourself")
		drop["license"] = true
	} else if license = r.tables().joinLicenses(rec.License); license == "" {
		logger.Warn("package license is empty, please add one yourself")
		drop["license"] = true
	}

	if rec.Homepage == "" {
		logger.Warn("package has no homepage")
		drop["homepage"] = true
	}

	var host, build, run string
	deps := rec.Dependencies
	if deps == nil {
		deps = &Dependencies{}
	}
	if deps.Host != nil {
		host = JoinDeps(deps.Host, t)
	} else {
		drop["hostmakedepends"] = true
	}
	if deps.Build != nil {
		build = JoinDeps(deps.Build, t)
	} else {
		drop["makedepends"] = true
	}
	if deps.Run != nil {
		run = JoinDeps(deps.Run, t)
	} else {
		drop["depends"] = true
	}

	distfiles := ""
	if rec.DownloadURL != nil {
		distfiles = *rec.DownloadURL
	} else {
		drop["distfiles"] = true
	}

	noarch, wrksrc := "yes", ""
	switch t {
	case Crate:
		drop["noarch"] = true
		drop["depends"] = true
	case Gem:
		drop["wrksrc"] = true
	}
	if prefix {
		wrksrc = "${pkgname/" + t.Prefix() + "/}-${version}"
	} else {
		drop["wrksrc"] = true
	}

	subst := strings.NewReplacer(
		"@pkgname@", rec.Name,
		"@version@", rec.Version,
		"@wrksrc@", wrksrc,
		"@noarch@", noarch,
		"@build_style@", t.BuildStyle(),
		"@hostmakedepends@", host,
		"@makedepends@", build,
		"@depends@", run,
		"@description@", description,
		"@maintainer@", maintainer,
		"@license@", license,
		"@homepage@", rec.Homepage,
		"@distfiles@", distfiles,
		"@checksum@", rec.Checksum,
	)

	var lines []string
	for _, line := range strings.Split(strings.TrimRight(skeleton, "\n"), "\n") {
		if key, _, ok := strings.Cut(line, "="); ok && drop[key] {
			continue
		}
		lines = append(lines, subst.Replace(line))
	}

	content := strings.Join(lines, "\n")
	if needsVlicense(license) {
		content += vlicenseSnippet
	}

	return Template{Name: rec.Name, Content: strings.TrimRight(content, "\n") + "\n"}, nil
}

// description trims a trailing full stop and warns about overlong text.
func (r *Renderer) description(pkg, desc string) string {
	if utf8.RuneCountInString(desc) >= maxDescLen {
		r.logger().Warn("description is longer than 80 characters, please cut as you see fit", "pkg", pkg)
	}
	return strings.TrimSuffix(desc, ".")
}
