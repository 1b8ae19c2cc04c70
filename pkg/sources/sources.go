package sources

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tmplgen/pkg/cache"
	"github.com/matzehuels/tmplgen/pkg/errors"
	"github.com/matzehuels/tmplgen/pkg/integrations"
	"github.com/matzehuels/tmplgen/pkg/integrations/crates"
	"github.com/matzehuels/tmplgen/pkg/integrations/metacpan"
	"github.com/matzehuels/tmplgen/pkg/integrations/rubygems"
	"github.com/matzehuels/tmplgen/pkg/observability"
	"github.com/matzehuels/tmplgen/pkg/tmplgen"
)

// Sources fetches package records from crates.io, rubygems.org and
// metacpan.org.
type Sources struct {
	Crates     *crates.Client
	Gems       *rubygems.Client
	CPAN       *metacpan.Client
	Normalizer *tmplgen.Normalizer

	// Checksums downloads distfiles whose registry doesn't publish a sha256.
	// Without it such records get an empty checksum.
	Checksums tmplgen.Checksummer

	// Refresh bypasses cached registry responses.
	Refresh bool
	Logger  *log.Logger
}

// New creates Sources talking to the public registries, caching responses
// in backend for ttl.
func New(backend cache.Cache, ttl time.Duration, checksums tmplgen.Checksummer, logger *log.Logger) *Sources {
	return &Sources{
		Crates:     crates.NewClient(backend, ttl),
		Gems:       rubygems.NewClient(backend, ttl),
		CPAN:       metacpan.NewClient(backend, ttl),
		Normalizer: &tmplgen.Normalizer{Tables: tmplgen.DefaultTables(), Logger: logger},
		Checksums:  checksums,
		Logger:     logger,
	}
}

func (s *Sources) logger() *log.Logger {
	if s.Logger == nil {
		return log.Default()
	}
	return s.Logger
}

// Fetch retrieves the record of name from the registry of type t. The
// record's name carries the ecosystem prefix.
func (s *Sources) Fetch(ctx context.Context, name string, t tmplgen.PkgType) (*tmplgen.PackageRecord, error) {
	hooks := observability.Generate()
	hooks.OnFetchStart(ctx, t.Platform(), name)
	start := time.Now()

	var (
		rec *tmplgen.PackageRecord
		err error
	)
	switch t {
	case tmplgen.Crate:
		rec, err = s.fetchCrate(ctx, name)
	case tmplgen.Gem:
		rec, err = s.fetchGem(ctx, name)
	case tmplgen.PerlDist:
		rec, err = s.fetchPerl(ctx, name)
	default:
		err = errors.New(errors.ErrCodeInvalidType, "can't fetch %s: unknown package type", name)
	}

	hooks.OnFetchComplete(ctx, t.Platform(), name, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	s.logger().Debug("fetched package info", "pkg", rec.Name, "version", rec.Version, "platform", t.Platform())
	return rec, nil
}

// Probers returns one prober per registry for [tmplgen.Identify].
func (s *Sources) Probers() map[tmplgen.PkgType]tmplgen.Prober {
	return map[tmplgen.PkgType]tmplgen.Prober{
		tmplgen.Crate:    s.Crates,
		tmplgen.Gem:      s.Gems,
		tmplgen.PerlDist: s.CPAN,
	}
}

// ResolveModule maps a Perl module to its distribution. It satisfies
// [tmplgen.ModuleResolver].
func (s *Sources) ResolveModule(ctx context.Context, module string) (string, error) {
	dist, err := s.CPAN.Distribution(ctx, module, s.Refresh)
	if err != nil {
		return "", registryError(err, tmplgen.PerlDist, module)
	}
	return dist, nil
}

// checksum returns registrySum, or downloads url and hashes it when the
// registry didn't publish one.
func (s *Sources) checksum(ctx context.Context, pkg, registrySum, url string) (string, error) {
	if registrySum != "" {
		return registrySum, nil
	}
	if s.Checksums == nil || url == "" {
		s.logger().Warn("registry has no checksum for package, please fill it in yourself", "pkg", pkg)
		return "", nil
	}
	s.logger().Debug("registry has no checksum, downloading distfile", "pkg", pkg, "url", url)
	return s.Checksums.Compute(ctx, url)
}

// registryError maps integration errors onto error codes.
func registryError(err error, t tmplgen.PkgType, name string) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return err
	case errors.GetCode(err) != "":
		return err
	case stderrors.Is(err, integrations.ErrNotFound):
		return errors.Wrap(errors.ErrCodePackageNotFound, err, "couldn't find %s on %s", name, t.Platform())
	default:
		return errors.Wrap(errors.ErrCodeRegistryUnavailable, err, "couldn't query %s for %s", t.Platform(), name)
	}
}

// optional returns nil for blank strings.
func optional(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}
