package tmplgen

import (
	"context"
	stderrors "errors"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/tmplgen/pkg/errors"
)

// Prober checks whether a package exists on one registry. A transport
// failure is returned as an error, never as false.
type Prober interface {
	Exists(ctx context.Context, name string) (bool, error)
}

// ProberFunc adapts a function to the Prober interface.
type ProberFunc func(ctx context.Context, name string) (bool, error)

// Exists calls f.
func (f ProberFunc) Exists(ctx context.Context, name string) (bool, error) { return f(ctx, name) }

// Identify works out which registry publishes name by probing all of them
// concurrently. Exactly one hit returns that type. No hit returns
// ErrCodePackageNotFound, or ErrCodeRegistryUnavailable when every probe
// failed on transport. Several hits return an AmbiguousPackageError listing
// the matching platforms in AllTypes order.
func Identify(ctx context.Context, name string, probers map[PkgType]Prober) (PkgType, error) {
	type result struct {
		found bool
		err   error
	}
	results := make([]result, len(AllTypes))

	var g errgroup.Group
	for i, t := range AllTypes {
		p, ok := probers[t]
		if !ok {
			continue
		}
		// Probe failures are classified below; only cancellation fails the group.
		g.Go(func() error {
			found, err := p.Exists(ctx, name)
			results[i] = result{found: found, err: err}
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	var (
		matched   []PkgType
		failures  []error
		attempted int
	)
	for i, t := range AllTypes {
		if _, ok := probers[t]; !ok {
			continue
		}
		attempted++
		switch r := results[i]; {
		case r.err != nil:
			failures = append(failures, r.err)
		case r.found:
			matched = append(matched, t)
		}
	}

	switch len(matched) {
	case 0:
		if attempted > 0 && len(failures) == attempted {
			return 0, errors.Wrap(errors.ErrCodeRegistryUnavailable, stderrors.Join(failures...),
				"couldn't reach any registry to look up %s", name)
		}
		return 0, errors.New(errors.ErrCodePackageNotFound, "couldn't find package %s on any platform", name)
	case 1:
		return matched[0], nil
	default:
		platforms := make([]string, len(matched))
		for i, t := range matched {
			platforms[i] = t.Platform()
		}
		return 0, &errors.AmbiguousPackageError{Name: name, Platforms: platforms}
	}
}
