// Package gitident resolves the "Name <email>" string written into a
// template's maintainer= field.
//
// GIT_AUTHOR_NAME and GIT_AUTHOR_EMAIL win when both are set; otherwise
// user.name and user.email are read with `git config`.
package gitident

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/tmplgen/pkg/errors"
)

// Resolver looks up the maintainer identity. The zero value reads the real
// environment and runs the git binary on PATH.
type Resolver struct {
	// Override, when non-empty, is returned as-is (config file maintainer).
	Override string

	// Getenv and GitConfig replace the environment and the git binary in tests.
	Getenv    func(string) string
	GitConfig func(ctx context.Context, key string) ([]byte, error)
}

// Maintainer returns "Name <email>". It fails with ErrCodeMaintainerResolution
// when no source yields both a name and an email, and with ErrCodeEncoding when
// git prints something that isn't valid UTF-8.
func (r Resolver) Maintainer() (string, error) {
	return r.MaintainerContext(context.Background())
}

// MaintainerContext is [Resolver.Maintainer] with a context bounding the git calls.
func (r Resolver) MaintainerContext(ctx context.Context) (string, error) {
	if r.Override != "" {
		return strings.ReplaceAll(r.Override, "\n", ""), nil
	}

	getenv := r.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	name, email := getenv("GIT_AUTHOR_NAME"), getenv("GIT_AUTHOR_EMAIL")

	if name == "" || email == "" {
		var err error
		if name, err = r.gitConfig(ctx, "user.name"); err != nil {
			return "", err
		}
		if email, err = r.gitConfig(ctx, "user.email"); err != nil {
			return "", err
		}
	}

	return format(name, email), nil
}

func (r Resolver) gitConfig(ctx context.Context, key string) (string, error) {
	run := r.GitConfig
	if run == nil {
		run = runGitConfig
	}
	out, err := run(ctx, key)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeMaintainerResolution, err,
			"couldn't determine %s; set GIT_AUTHOR_NAME and GIT_AUTHOR_EMAIL or configure git", key)
	}
	if !utf8.Valid(out) {
		return "", errors.New(errors.ErrCodeEncoding, "git config %s is not valid UTF-8", key)
	}
	val := strings.TrimSpace(string(out))
	if val == "" {
		return "", errors.New(errors.ErrCodeMaintainerResolution, "git config %s is empty", key)
	}
	return val, nil
}

func runGitConfig(ctx context.Context, key string) ([]byte, error) {
	return exec.CommandContext(ctx, "git", "config", "--get", key).Output()
}

func format(name, email string) string {
	return strings.ReplaceAll(strings.TrimSpace(name)+" <"+strings.TrimSpace(email)+">", "\n", "")
}
