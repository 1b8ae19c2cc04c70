package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tmplgen/pkg/checksum"
	"github.com/matzehuels/tmplgen/pkg/distdir"
	"github.com/matzehuels/tmplgen/pkg/gitident"
	"github.com/matzehuels/tmplgen/pkg/pipeline"
	"github.com/matzehuels/tmplgen/pkg/sources"
	"github.com/matzehuels/tmplgen/pkg/tmplgen"
)

// generateFlags holds the flags of the root command.
type generateFlags struct {
	typ       string
	force     bool
	update    bool
	updateAll bool
	noPrefix  bool
	refresh   bool
	noCache   bool
	cacheURL  string
	distDir   string
}

// generateCommand creates the root command, which generates (or updates)
// the template of one package.
func (c *CLI) generateCommand() *cobra.Command {
	var flags generateFlags

	cmd := &cobra.Command{
		Use:   "tmplgen <package>",
		Short: "Generate xbps-src templates from crates.io, rubygems.org and metacpan.org",
		Long: `tmplgen writes a Void Linux xbps-src template for a Rust crate, Ruby gem or
Perl distribution into $XBPS_DISTDIR/srcpkgs/<pkgname>/template.

The registry is detected automatically unless --type is given. Templates for
dependencies of gems and Perl distributions are generated as well.`,
		Example: `  tmplgen ripgrep
  tmplgen -t gem rspec
  tmplgen --update Moose
  tmplgen -U -t perl JSON::PP`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd, args[0], flags)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.typ, "type", "t", "", "package type: crate, gem or perldist (default: detect)")
	f.BoolVarP(&flags.force, "force", "f", false, "overwrite an existing template")
	f.BoolVarP(&flags.update, "update", "u", false, "update version and checksum of an existing template")
	f.BoolVarP(&flags.updateAll, "update-all", "U", false, "also update homepage, short_desc and distfiles")
	f.BoolVarP(&flags.noPrefix, "no-prefix", "n", false, "don't prefix pkgname with rust-, ruby- or perl-")
	f.BoolVar(&flags.refresh, "refresh", false, "ignore cached registry responses")
	f.BoolVar(&flags.noCache, "no-cache", false, "don't cache registry responses")
	f.StringVar(&flags.cacheURL, "cache-url", "", "cache registry responses in Redis (redis://host:port/db)")
	f.StringVar(&flags.distDir, "distdir", "", "void-packages checkout (default $XBPS_DISTDIR or ~/void-packages)")

	cmd.RegisterFlagCompletionFunc("type", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, len(tmplgen.AllTypes))
		for i, t := range tmplgen.AllTypes {
			names[i] = t.String()
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func (c *CLI) runGenerate(cmd *cobra.Command, name string, flags generateFlags) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	timer := startTimer(logger)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if flags.distDir != "" {
		cfg.DistDir = flags.distDir
	}
	if flags.cacheURL != "" {
		cfg.Cache.RedisURL = flags.cacheURL
	}

	var typ tmplgen.PkgType
	if flags.typ != "" {
		if typ, err = tmplgen.ParsePkgType(flags.typ); err != nil {
			return err
		}
	}

	dir, err := distdir.New(cfg.DistDir)
	if err != nil {
		return err
	}

	backend, err := newCache(ctx, flags.noCache, cfg.Cache.RedisURL)
	if err != nil {
		return err
	}
	defer backend.Close()

	sums := checksum.New(
		checksum.WithRetry(cfg.Checksum.Attempts, cfg.Checksum.Delay),
		checksum.WithLogger(logger),
	)
	src := sources.New(backend, cfg.Cache.TTL, sums, logger)
	src.Refresh = flags.refresh

	renderer := &tmplgen.Renderer{
		Tables:    tmplgen.DefaultTables(),
		Identity:  gitident.Resolver{Override: cfg.Maintainer},
		Checksums: sums,
		Logger:    logger,
	}

	runner := pipeline.NewRunner(src, src.Probers(), renderer, dir, logger)
	res, err := runner.Run(ctx, pipeline.Options{
		Name:      name,
		Type:      typ,
		Force:     flags.force,
		Update:    flags.update,
		UpdateAll: flags.updateAll,
		NoPrefix:  flags.noPrefix,
	})
	if res != nil {
		printResult(res)
	}
	if err != nil {
		return err
	}
	timer.finish(1 + len(res.Dependencies))
	return nil
}

func printResult(res *pipeline.Result) {
	verb := "Wrote"
	if res.Mode != pipeline.ModeGenerate {
		verb = "Updated"
	}
	printSuccess("%s template for %s %s", verb, StyleHighlight.Render(res.Record.Name), StyleValue.Render(res.Record.Version))
	printDetail("%s · %s", res.Type, res.Type.Platform())
	printFile(res.Path)

	if len(res.Dependencies) > 0 {
		printInfo("Wrote %s for dependencies", StyleNumber.Render(plural(len(res.Dependencies), "template")))
		for _, path := range res.Dependencies {
			printFile(path)
		}
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
