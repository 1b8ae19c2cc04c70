package sources

import (
	"context"
	stderrors "errors"
	"slices"
	"strings"

	"github.com/matzehuels/tmplgen/pkg/integrations"
	"github.com/matzehuels/tmplgen/pkg/integrations/metacpan"
	"github.com/matzehuels/tmplgen/pkg/tmplgen"
)

func (s *Sources) fetchPerl(ctx context.Context, name string) (*tmplgen.PackageRecord, error) {
	info, err := s.release(ctx, name)
	if err != nil {
		return nil, registryError(err, tmplgen.PerlDist, name)
	}

	reqs := make([]tmplgen.PerlRequirement, len(info.Dependencies))
	for i, d := range info.Dependencies {
		reqs[i] = tmplgen.PerlRequirement{Module: d.Module, Phase: d.Phase, Relationship: d.Relationship}
	}
	deps, err := s.Normalizer.PerlDependencies(ctx, reqs, s.ResolveModule)
	if err != nil {
		return nil, err
	}

	sum, err := s.checksum(ctx, info.Distribution, info.ChecksumSHA256, info.DownloadURL)
	if err != nil {
		return nil, err
	}

	var download *string
	if info.DownloadURL != "" && info.Version != "" {
		u := strings.ReplaceAll(info.DownloadURL, info.Version, "${version}")
		download = &u
	}

	license := info.License
	if slices.Equal(license, []string{"unknown"}) {
		license = nil
	}

	return &tmplgen.PackageRecord{
		Name:         tmplgen.PerlDist.PkgName(info.Distribution, true),
		Version:      info.Version,
		Description:  optional(info.Abstract),
		Homepage:     integrations.FirstNonEmpty(info.Homepage, "https://metacpan.org/pod/"+info.Distribution),
		License:      license,
		Dependencies: deps,
		Checksum:     sum,
		DownloadURL:  download,
	}, nil
}

// release fetches the distribution name, or the distribution shipping the
// module name when no distribution of that name exists.
func (s *Sources) release(ctx context.Context, name string) (*metacpan.ReleaseInfo, error) {
	info, err := s.CPAN.FetchRelease(ctx, strings.ReplaceAll(name, "::", "-"), s.Refresh)
	if !stderrors.Is(err, integrations.ErrNotFound) {
		return info, err
	}

	dist, derr := s.CPAN.Distribution(ctx, name, s.Refresh)
	if derr != nil {
		if stderrors.Is(derr, integrations.ErrNotFound) {
			return nil, err
		}
		return nil, derr
	}
	s.logger().Info("resolved perl module to its distribution", "module", name, "dist", dist)
	return s.CPAN.FetchRelease(ctx, dist, s.Refresh)
}
