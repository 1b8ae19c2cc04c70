// Package distdir reads and writes templates in a void-packages checkout.
//
// Templates live at $XBPS_DISTDIR/srcpkgs/<pkgname>/template.
package distdir

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/matzehuels/tmplgen/pkg/config"
	"github.com/matzehuels/tmplgen/pkg/errors"
	"github.com/matzehuels/tmplgen/pkg/tmplgen"
)

// Dir is a void-packages checkout.
type Dir struct {
	mu   sync.RWMutex
	root string
}

// New opens the checkout at root. A leading "~" is expanded. The directory
// doesn't have to exist yet; srcpkgs/ is created on the first write.
func New(root string) (*Dir, error) {
	expanded, err := config.ExpandHome(root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDistDir, err, "resolve distdir %s", root)
	}
	if expanded == "" {
		return nil, errors.New(errors.ErrCodeDistDir, "distdir is empty")
	}
	return &Dir{root: filepath.Clean(expanded)}, nil
}

// Root returns the expanded checkout path.
func (d *Dir) Root() string { return d.root }

// Path returns where the template of pkgname lives.
func (d *Dir) Path(pkgname string) string {
	return filepath.Join(d.root, "srcpkgs", pkgname, "template")
}

// Exists reports whether pkgname already has a template.
func (d *Dir) Exists(pkgname string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	_, err := os.Stat(d.Path(pkgname))
	return err == nil
}

// Read loads the template of pkgname. A missing template is reported with
// ErrCodeTemplateDoesNotExist.
func (d *Dir) Read(pkgname string) (tmplgen.Template, error) {
	if err := errors.ValidatePackageName(pkgname); err != nil {
		return tmplgen.Template{}, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	path := d.Path(pkgname)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return tmplgen.Template{}, errors.New(errors.ErrCodeTemplateDoesNotExist,
			"can't update %s: there is no template at %s", pkgname, path)
	}
	if err != nil {
		return tmplgen.Template{}, errors.Wrap(errors.ErrCodeDistDir, err, "read %s", path)
	}
	return tmplgen.Template{Name: pkgname, Content: string(data)}, nil
}

// Write stores t and returns its path. Unless overwrite is set an existing
// template is left alone and ErrCodeTemplateAlreadyExists is returned. The
// file is replaced atomically.
func (d *Dir) Write(t tmplgen.Template, overwrite bool) (string, error) {
	if err := errors.ValidatePackageName(t.Name); err != nil {
		return "", err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	path := d.Path(t.Name)
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return "", errors.New(errors.ErrCodeTemplateAlreadyExists,
				"template for %s already exists at %s, use --force to overwrite it", t.Name, path)
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(errors.ErrCodeDistDir, err, "create %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".template-*")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeDistDir, err, "write %s", path)
	}
	if _, err := tmp.WriteString(t.Content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", errors.Wrap(errors.ErrCodeDistDir, err, "write %s", path)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", errors.Wrap(errors.ErrCodeDistDir, err, "write %s", path)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", errors.Wrap(errors.ErrCodeDistDir, err, "write %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", errors.Wrap(errors.ErrCodeDistDir, err, "write %s", path)
	}
	return path, nil
}

var _ tmplgen.Destination = (*Dir)(nil)
