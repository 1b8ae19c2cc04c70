package tmplgen

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tmplgen/pkg/observability"
)

// Destination is where the walker writes templates.
type Destination interface {
	// Exists reports whether a template for pkgname is already there.
	Exists(pkgname string) bool
	// Write stores t and returns the path it was written to.
	Write(t Template, overwrite bool) (string, error)
}

// Walker generates templates for the dependencies of a package, and for
// theirs, until it runs out of dependencies that have no template yet.
type Walker struct {
	Fetcher  Fetcher
	Renderer *Renderer
	Dest     Destination
	NoPrefix bool
	Logger   *log.Logger
}

func (w *Walker) logger() *log.Logger {
	if w.Logger == nil {
		return log.Default()
	}
	return w.Logger
}

// Walk writes templates for every build and run dependency of rec that is
// neither built in nor already present, recursing into each new one. It
// returns the paths of the templates it wrote.
//
// Crates are vendored by cargo, so walking one is a no-op. A failing
// dependency is logged and skipped; only cancellation of ctx aborts the walk.
func (w *Walker) Walk(ctx context.Context, rec *PackageRecord, t PkgType) ([]string, error) {
	if rec == nil || t == Crate {
		return nil, nil
	}
	root := rec.Name
	if !w.NoPrefix {
		root = t.StripPrefix(root)
	}
	visited := map[string]visit{root: walking}
	var written []string
	err := w.walk(ctx, rec, t, visited, &written)
	visited[root] = done
	return written, err
}

type visit int

const (
	unseen visit = iota
	walking
	done
)

func (w *Walker) walk(ctx context.Context, rec *PackageRecord, t PkgType, visited map[string]visit, written *[]string) error {
	if rec.Dependencies == nil {
		return nil
	}
	tables := w.Renderer.tables()
	hooks := observability.Generate()

	specs := append(append([]string(nil), rec.Dependencies.Build...), rec.Dependencies.Run...)
	for _, spec := range specs {
		if err := ctx.Err(); err != nil {
			return err
		}

		bare := depName(spec, t)
		pkgname := t.PkgName(bare, !w.NoPrefix)
		logger := w.logger().With("pkg", pkgname, "parent", rec.Name)

		switch {
		case bare == "" || tables.IsBuiltIn(bare, t):
			continue
		case visited[bare] == walking:
			logger.Warn("dependency cycle, not descending again")
			hooks.OnDependencySkipped(ctx, pkgname, "cycle")
			continue
		case visited[bare] == done:
			logger.Debug("dependency already handled in this run")
			continue
		case w.Dest.Exists(pkgname):
			logger.Info("template already exists, not descending")
			hooks.OnDependencySkipped(ctx, pkgname, "exists")
			visited[bare] = done
			continue
		}
		visited[bare] = walking

		dep, path, err := w.generate(ctx, bare, t)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Warn("couldn't generate template for dependency, skipping it", "err", err)
			hooks.OnDependencySkipped(ctx, pkgname, "failed")
			visited[bare] = done
			continue
		}
		logger.Info("wrote template for dependency", "path", path)
		hooks.OnTemplateWritten(ctx, dep.Name, path, false)
		*written = append(*written, path)

		err = w.walk(ctx, dep, t, visited, written)
		visited[bare] = done
		if err != nil {
			return err
		}
	}
	return nil
}

// depName turns a dependency specifier into the name the registry knows.
// Gem specifiers carry the ruby- prefix; Perl specifiers are bare
// distribution names, some of which start with perl- themselves.
func depName(spec string, t PkgType) string {
	name := StripComparator(spec)
	if t == Gem {
		name = t.StripPrefix(name)
	}
	return name
}

func (w *Walker) generate(ctx context.Context, bare string, t PkgType) (*PackageRecord, string, error) {
	rec, err := w.Fetcher.Fetch(ctx, bare, t)
	if err != nil {
		return nil, "", err
	}
	if w.NoPrefix {
		stripped := rec.WithoutPrefix(t)
		rec = &stripped
	}
	tmpl, err := w.Renderer.Generate(rec, t, !w.NoPrefix)
	if err != nil {
		return nil, "", err
	}
	path, err := w.Dest.Write(tmpl, false)
	if err != nil {
		return nil, "", err
	}
	return rec, path, nil
}
