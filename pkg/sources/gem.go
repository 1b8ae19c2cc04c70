package sources

import (
	"context"
	"fmt"

	"github.com/matzehuels/tmplgen/pkg/integrations"
	"github.com/matzehuels/tmplgen/pkg/tmplgen"
)

const gemDownloadURL = "https://rubygems.org/downloads/%s-${version}.gem"

func (s *Sources) fetchGem(ctx context.Context, name string) (*tmplgen.PackageRecord, error) {
	info, err := s.Gems.FetchGem(ctx, name, s.Refresh)
	if err != nil {
		return nil, registryError(err, tmplgen.Gem, name)
	}

	reqs := make([]tmplgen.GemRequirement, len(info.Dependencies))
	for i, d := range info.Dependencies {
		reqs[i] = tmplgen.GemRequirement{Name: d.Name, Requirements: d.Requirements}
	}

	url := fmt.Sprintf(gemDownloadURL, info.Name)
	sum, err := s.checksum(ctx, info.Name, info.SHA, fmt.Sprintf("https://rubygems.org/downloads/%s-%s.gem", info.Name, info.Version))
	if err != nil {
		return nil, err
	}

	return &tmplgen.PackageRecord{
		Name:         tmplgen.Gem.PkgName(info.Name, true),
		Version:      info.Version,
		Description:  optional(info.Info),
		Homepage:     integrations.FirstNonEmpty(info.HomepageURI, integrations.NormalizeRepoURL(info.SourceCodeURI), "https://rubygems.org/gems/"+info.Name),
		License:      info.Licenses,
		Dependencies: s.Normalizer.GemDependencies(reqs),
		Checksum:     sum,
		DownloadURL:  &url,
	}, nil
}
