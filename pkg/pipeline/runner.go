package pipeline

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tmplgen/pkg/errors"
	"github.com/matzehuels/tmplgen/pkg/observability"
	"github.com/matzehuels/tmplgen/pkg/tmplgen"
)

// Store is a template destination that can also read templates back.
type Store interface {
	tmplgen.Destination
	Read(pkgname string) (tmplgen.Template, error)
}

// Runner executes runs. It holds no per-run state, so one Runner may serve
// several runs.
type Runner struct {
	Fetcher  tmplgen.Fetcher
	Probers  map[tmplgen.PkgType]tmplgen.Prober
	Renderer *tmplgen.Renderer
	Store    Store
	Logger   *log.Logger
}

// NewRunner creates a runner. A nil logger means log.Default().
func NewRunner(f tmplgen.Fetcher, probers map[tmplgen.PkgType]tmplgen.Prober, r *tmplgen.Renderer, s Store, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Fetcher:  f,
		Probers:  probers,
		Renderer: r,
		Store:    s,
		Logger:   logger,
	}
}

// Run generates or updates the template for opts.Name and then the
// templates of its dependencies. Failures on the requested package abort
// the run; failures on dependencies are only logged.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Update && opts.UpdateAll {
		r.Logger.Warn("both --update and --update-all given, doing a full update")
	}
	logger := r.Logger.With("pkg", opts.Name)

	b := tmplgen.NewBuilder(opts.Name, r.Renderer)
	if opts.Type.Valid() {
		b.SetType(opts.Type)
	} else {
		logger.Debug("package type not given, asking all registries")
		if err := b.Identify(ctx, r.Probers); err != nil {
			return nil, err
		}
		logger.Info("identified package", "type", b.Type(), "platform", b.Type().Platform())
	}

	if builtIn, err := b.IsBuiltIn(); err != nil {
		return nil, err
	} else if builtIn {
		return nil, errors.New(errors.ErrCodeBuiltInPackage,
			"%s is part of %s, won't write a template for it", opts.Name, b.Type().Runtime())
	}

	if err := b.FetchInfo(ctx, r.Fetcher); err != nil {
		return nil, err
	}
	rec := b.Record()
	if opts.NoPrefix {
		stripped := rec.WithoutPrefix(b.Type())
		rec = &stripped
		b.SetInfo(rec)
	}

	res := &Result{Type: b.Type(), Record: rec, Mode: opts.Mode()}
	var err error
	switch res.Mode {
	case ModeUpdate, ModeUpdateAll:
		res.Template, res.Path, err = r.update(ctx, b, rec.Name, res.Mode == ModeUpdateAll)
	default:
		res.Template, res.Path, err = r.generate(b, rec.Name, opts)
	}
	if err != nil {
		return nil, err
	}
	observability.Generate().OnTemplateWritten(ctx, rec.Name, res.Path, res.Mode != ModeGenerate)
	logger.Info("wrote template", "path", res.Path, "mode", res.Mode)

	walker := &tmplgen.Walker{
		Fetcher:  r.Fetcher,
		Renderer: r.Renderer,
		Dest:     r.Store,
		NoPrefix: opts.NoPrefix,
		Logger:   r.Logger,
	}
	res.Dependencies, err = walker.Walk(ctx, rec, res.Type)
	if err != nil {
		return res, err
	}
	return res, nil
}

func (r *Runner) generate(b *tmplgen.Builder, pkgname string, opts Options) (tmplgen.Template, string, error) {
	if r.Store.Exists(pkgname) && !opts.Force {
		return tmplgen.Template{}, "", errors.New(errors.ErrCodeTemplateAlreadyExists,
			"template for %s already exists, use --force to overwrite it or --update to update it", pkgname)
	}
	tmpl, err := b.Generate(!opts.NoPrefix)
	if err != nil {
		return tmplgen.Template{}, "", err
	}
	path, err := r.Store.Write(tmpl, opts.Force)
	return tmpl, path, err
}

func (r *Runner) update(ctx context.Context, b *tmplgen.Builder, pkgname string, all bool) (tmplgen.Template, string, error) {
	old, err := r.Store.Read(pkgname)
	if err != nil {
		return tmplgen.Template{}, "", err
	}
	tmpl, err := b.Update(ctx, old, all)
	if err != nil {
		return tmplgen.Template{}, "", err
	}
	path, err := r.Store.Write(tmpl, true)
	return tmpl, path, err
}
