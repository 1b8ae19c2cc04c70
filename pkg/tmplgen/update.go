package tmplgen

import (
	"context"
	"regexp"
	"strings"

	"github.com/matzehuels/tmplgen/pkg/errors"
)

// assignment matches a top-level shell variable assignment.
var assignment = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)=(.*)$`)

// entry is one logical declaration of a template. Lines that aren't
// top-level assignments (comments, functions, blanks) get an empty key and
// are written back untouched.
type entry struct {
	key string
	raw string // may span several physical lines
}

// document is a template parsed into ordered entries.
type document struct {
	entries       []entry
	trailingNewln bool
}

func parseDocument(content string) *document {
	doc := &document{trailingNewln: strings.HasSuffix(content, "\n")}
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	if content == "" {
		lines = nil
	}

	for i := 0; i < len(lines); i++ {
		m := assignment.FindStringSubmatch(lines[i])
		if m == nil {
			doc.entries = append(doc.entries, entry{raw: lines[i]})
			continue
		}
		raw := lines[i]
		// A quoted value may continue over several lines.
		for openQuote(raw) && i+1 < len(lines) {
			i++
			raw += "\n" + lines[i]
		}
		doc.entries = append(doc.entries, entry{key: m[1], raw: raw})
	}
	return doc
}

// openQuote reports whether the value part of an assignment has an
// unterminated double quote.
func openQuote(raw string) bool {
	_, value, _ := strings.Cut(raw, "=")
	open := false
	for i := 0; i < len(value); i++ {
		switch value[i] {
		case '\\':
			i++
		case '"':
			open = !open
		}
	}
	return open
}

func (d *document) index(key string) int {
	for i, e := range d.entries {
		if e.key == key {
			return i
		}
	}
	return -1
}

// value returns the unquoted value of key and whether the key exists.
func (d *document) value(key string) (string, bool) {
	i := d.index(key)
	if i < 0 {
		return "", false
	}
	_, v, _ := strings.Cut(d.entries[i].raw, "=")
	return unquote(v), true
}

// set replaces the whole declaration of key. It reports false when the
// template has no such line.
func (d *document) set(key, raw string) bool {
	i := d.index(key)
	if i < 0 {
		return false
	}
	d.entries[i].raw = key + "=" + raw
	return true
}

func (d *document) String() string {
	raws := make([]string, len(d.entries))
	for i, e := range d.entries {
		raws[i] = e.raw
	}
	s := strings.Join(raws, "\n")
	if d.trailingNewln {
		s += "\n"
	}
	return s
}

func unquote(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		return v[1 : len(v)-1]
	}
	return v
}

func quote(v string) string { return `"` + v + `"` }

// Update patches old to rec's version. Only version, revision and checksum
// change in version-only mode; updateAll also refreshes homepage, short_desc
// and distfiles. Every other line is kept byte for byte, in order.
//
// A version bump resets revision to 1. In version-only mode the record's
// checksum is reused when the template's distfiles matches the record's
// download URL; otherwise the template's own distfiles (with ${version}
// expanded) is downloaded and hashed.
func (r *Renderer) Update(ctx context.Context, old Template, rec *PackageRecord, t PkgType, updateAll bool) (Template, error) {
	if rec == nil {
		return Template{}, errors.New(errors.ErrCodeMissingPrerequisite, "can't update a template without package info")
	}

	logger := r.logger().With("pkg", rec.Name)
	logger.Info("updating template", "version", rec.Version)

	doc := parseDocument(old.Content)

	oldVersion, hasVersion := doc.value("version")
	if !hasVersion {
		logger.Warn("template has no version line, won't update it")
	}
	if hasVersion && oldVersion != rec.Version {
		doc.set("revision", "1")
	}
	doc.set("version", rec.Version)

	oldDistfiles, hasDistfiles := doc.value("distfiles")

	if updateAll {
		if !doc.set("checksum", rec.Checksum) {
			logger.Warn("couldn't find 'checksum' line, won't update it")
		}
		if !doc.set("homepage", quote(rec.Homepage)) {
			logger.Warn("couldn't find 'homepage' line, won't update it")
		}
		switch {
		case !hasDistfiles:
			logger.Warn("couldn't find 'distfiles' line, won't update it")
		case rec.DownloadURL != nil:
			doc.set("distfiles", quote(*rec.DownloadURL))
		default:
			doc.set("distfiles", quote(oldDistfiles))
		}
		switch {
		case rec.Description == nil:
			logger.Warn("package has no description, leaving short_desc alone")
		case !doc.set("short_desc", quote(r.description(rec.Name, *rec.Description))):
			logger.Warn("couldn't find 'short_desc' line, won't update it")
		}
		return Template{Name: rec.Name, Content: doc.String()}, nil
	}

	if doc.index("checksum") < 0 {
		logger.Warn("couldn't find 'checksum' line, won't update it")
		return Template{Name: rec.Name, Content: doc.String()}, nil
	}

	recordURL := ""
	if rec.DownloadURL != nil {
		recordURL = *rec.DownloadURL
	}
	checksum := rec.Checksum
	if oldDistfiles != "" && oldDistfiles != recordURL {
		pkgname, _ := doc.value("pkgname")
		url := strings.NewReplacer("${version}", rec.Version, "${pkgname}", pkgname).Replace(oldDistfiles)
		if r.Checksums == nil {
			return Template{}, errors.New(errors.ErrCodeChecksumFailure, "distfiles changed but no checksum service is configured")
		}
		logger.Debug("distfiles differ from registry, computing checksum", "url", url)
		sum, err := r.Checksums.Compute(ctx, url)
		if err != nil {
			return Template{}, err
		}
		checksum = sum
	}
	doc.set("checksum", checksum)

	return Template{Name: rec.Name, Content: doc.String()}, nil
}
