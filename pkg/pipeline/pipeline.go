// Package pipeline runs one tmplgen invocation end to end.
//
// A run resolves the package type (unless it was given), refuses packages
// that ship with their runtime, fetches the registry metadata, writes a new
// template or updates the existing one, and finally walks the dependencies
// of gems and Perl distributions so that they get templates too.
//
//	runner := pipeline.NewRunner(src, src.Probers(), renderer, dir, logger)
//	res, err := runner.Run(ctx, pipeline.Options{Name: "rspec"})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Path)
package pipeline

import (
	"strings"

	"github.com/matzehuels/tmplgen/pkg/errors"
	"github.com/matzehuels/tmplgen/pkg/tmplgen"
)

// Mode says what a run does with the template of the requested package.
type Mode int

const (
	// ModeGenerate writes a new template.
	ModeGenerate Mode = iota
	// ModeUpdate bumps version and checksum of an existing template.
	ModeUpdate
	// ModeUpdateAll also refreshes homepage, short_desc and distfiles.
	ModeUpdateAll
)

func (m Mode) String() string {
	switch m {
	case ModeUpdate:
		return "update"
	case ModeUpdateAll:
		return "update-all"
	default:
		return "generate"
	}
}

// Options configures a single run.
type Options struct {
	Name string

	// Type pins the package type. Zero means probe all registries.
	Type tmplgen.PkgType

	Force     bool // overwrite an existing template when generating
	Update    bool // version-only update
	UpdateAll bool // full update; wins over Update
	NoPrefix  bool // drop the rust-/ruby-/perl- prefix from pkgname
}

// Validate checks the package name and trims it in place.
func (o *Options) Validate() error {
	o.Name = strings.TrimSpace(o.Name)
	if err := errors.ValidatePackageName(o.Name); err != nil {
		return err
	}
	if o.Type != 0 && !o.Type.Valid() {
		return errors.New(errors.ErrCodeInvalidType, "invalid package type %d", o.Type)
	}
	return nil
}

// Mode returns what the options ask for. UpdateAll takes precedence.
func (o Options) Mode() Mode {
	switch {
	case o.UpdateAll:
		return ModeUpdateAll
	case o.Update:
		return ModeUpdate
	default:
		return ModeGenerate
	}
}

// Result describes what a run did.
type Result struct {
	Type     tmplgen.PkgType
	Record   *tmplgen.PackageRecord
	Template tmplgen.Template
	Path     string
	Mode     Mode

	// Dependencies holds the paths of templates written for dependencies.
	Dependencies []string
}
