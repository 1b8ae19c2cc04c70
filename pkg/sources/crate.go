package sources

import (
	"context"
	"fmt"
	"strings"

	"github.com/matzehuels/tmplgen/pkg/integrations"
	"github.com/matzehuels/tmplgen/pkg/tmplgen"
)

const crateDownloadURL = "https://static.crates.io/crates/%[1]s/%[1]s-${version}.crate"

func (s *Sources) fetchCrate(ctx context.Context, name string) (*tmplgen.PackageRecord, error) {
	info, err := s.Crates.FetchCrate(ctx, name, s.Refresh)
	if err != nil {
		return nil, registryError(err, tmplgen.Crate, name)
	}

	var linked []string
	for _, d := range info.Dependencies {
		if d.Kind == "dev" || d.Optional {
			continue
		}
		linked = append(linked, d.CrateID)
	}

	url := fmt.Sprintf(crateDownloadURL, info.Name)
	sum, err := s.checksum(ctx, info.Name, info.Checksum, strings.ReplaceAll(url, "${version}", info.Version))
	if err != nil {
		return nil, err
	}

	return &tmplgen.PackageRecord{
		Name:         tmplgen.Crate.PkgName(info.Name, true),
		Version:      info.Version,
		Description:  optional(info.Description),
		Homepage:     integrations.FirstNonEmpty(info.Homepage, integrations.NormalizeRepoURL(info.Repository), "https://crates.io/crates/"+info.Name),
		License:      tmplgen.SplitLicense(info.License),
		Dependencies: s.Normalizer.CrateDependencies(info.Name, linked),
		Checksum:     sum,
		DownloadURL:  &url,
	}, nil
}
