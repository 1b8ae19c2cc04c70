package tmplgen

import (
	"context"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/tmplgen/pkg/errors"
)

// GemRequirement is a runtime dependency as declared on rubygems.org.
type GemRequirement struct {
	Name         string
	Requirements string // e.g. "~> 3.8, >= 3.8.0"
}

// PerlRequirement is a module dependency as declared in CPAN META.
type PerlRequirement struct {
	Module       string
	Phase        string // configure, build, test, runtime, develop
	Relationship string // requires, recommends, suggests; empty means requires
}

// ModuleResolver maps a Perl module to the distribution that ships it.
// A module unknown to the registry is reported with ErrCodePackageNotFound.
type ModuleResolver func(ctx context.Context, module string) (string, error)

// perlResolveLimit bounds concurrent module lookups against metacpan.
const perlResolveLimit = 8

// Normalizer turns registry dependency declarations into xbps specifiers.
type Normalizer struct {
	Tables *Tables
	Logger *log.Logger
}

func (n *Normalizer) logger() *log.Logger {
	if n.Logger == nil {
		return log.Default()
	}
	return n.Logger
}

// CrateDependencies looks up the crate itself and its direct dependencies in
// the native library table. Crates are linked statically, so only system
// libraries matter. Returns nil when nothing native is needed.
func (n *Normalizer) CrateDependencies(crate string, deps []string) *Dependencies {
	var build []string
	for _, name := range append([]string{crate}, deps...) {
		if dep, ok := n.Tables.NativeDep(name); ok && !slices.Contains(build, dep) {
			build = append(build, dep)
		}
	}
	if len(build) == 0 {
		return nil
	}
	n.logger().Debug("crate needs native libraries", "crate", crate, "libs", build)
	return &Dependencies{Host: []string{"pkg-config"}, Build: build}
}

// GemDependencies maps runtime requirements to ruby- specifiers. Gems that
// ship with ruby are dropped, and ruby itself is always a run dependency.
func (n *Normalizer) GemDependencies(reqs []GemRequirement) *Dependencies {
	var run []string
	for _, r := range reqs {
		if n.Tables.IsBuiltIn(r.Name, Gem) {
			n.logger().Debug("skipping built-in gem", "gem", r.Name)
			continue
		}
		spec := GemSpecifier(r.Name, r.Requirements)
		if !slices.Contains(run, spec) {
			run = append(run, spec)
		}
	}
	if !slices.Contains(run, "ruby") {
		run = append(run, "ruby")
	}
	return &Dependencies{Run: run}
}

// GemSpecifier converts the first comparator/version pair of a gem
// requirement into an xbps specifier. "~>" loses its upper bound and becomes
// ">=", ">= 0" means any version.
func GemSpecifier(name, requirements string) string {
	pkg := Gem.Prefix() + name

	first, _, _ := strings.Cut(requirements, ",")
	fields := strings.Fields(first)
	if len(fields) < 2 {
		return pkg
	}
	cmp, ver := fields[0], fields[1]

	switch cmp {
	case ">", "<", "<=":
		return pkg + cmp + ver
	case ">=":
		if ver == "0" {
			return pkg
		}
		return pkg + cmp + ver
	case "~>":
		return pkg + ">=" + ver
	default:
		return pkg
	}
}

// PerlDependencies resolves module requirements to distributions. Modules
// that ship with perl are dropped before any lookup; the remaining lookups
// run concurrently but the result keeps declaration order. configure
// requirements become build dependencies, runtime ones run dependencies;
// other phases and non-"requires" relationships are ignored. perl is always
// a host and build dependency.
func (n *Normalizer) PerlDependencies(ctx context.Context, reqs []PerlRequirement, resolve ModuleResolver) (*Dependencies, error) {
	var wanted []PerlRequirement
	for _, r := range reqs {
		if r.Relationship != "" && r.Relationship != "requires" {
			continue
		}
		if r.Phase != "configure" && r.Phase != "runtime" {
			continue
		}
		if n.Tables.IsBuiltIn(r.Module, PerlDist) {
			continue
		}
		wanted = append(wanted, r)
	}

	dists := make([]string, len(wanted))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(perlResolveLimit)
	for i, r := range wanted {
		g.Go(func() error {
			dist, err := resolve(gctx, r.Module)
			if errors.Is(err, errors.ErrCodePackageNotFound) {
				n.logger().Warn("couldn't resolve perl module, skipping it", "module", r.Module)
				return nil
			}
			if err != nil {
				return err
			}
			dists[i] = dist
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	deps := &Dependencies{Host: []string{"perl"}}
	for i, r := range wanted {
		dist := dists[i]
		if dist == "" || n.Tables.IsBuiltIn(dist, PerlDist) {
			continue
		}
		switch r.Phase {
		case "configure":
			if !slices.Contains(deps.Build, dist) {
				deps.Build = append(deps.Build, dist)
			}
		case "runtime":
			if !slices.Contains(deps.Run, dist) {
				deps.Run = append(deps.Run, dist)
			}
		}
	}
	if !slices.Contains(deps.Build, "perl") {
		deps.Build = append(deps.Build, "perl")
	}
	return deps, nil
}
