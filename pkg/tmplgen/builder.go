package tmplgen

import (
	"context"

	"github.com/matzehuels/tmplgen/pkg/errors"
)

// Fetcher retrieves the package record of name from the registry of type t.
type Fetcher interface {
	Fetch(ctx context.Context, name string, t PkgType) (*PackageRecord, error)
}

// Builder walks one package through type detection, metadata retrieval and
// rendering. Each step checks its prerequisites through require, so calling
// them out of order fails with ErrCodeMissingPrerequisite.
type Builder struct {
	name     string
	typ      PkgType
	rec      *PackageRecord
	renderer *Renderer
}

// NewBuilder starts a builder for the package the user asked for.
func NewBuilder(name string, renderer *Renderer) *Builder {
	return &Builder{name: name, renderer: renderer}
}

// Name returns the requested package name.
func (b *Builder) Name() string { return b.name }

// Type returns the package type, or zero if it isn't known yet.
func (b *Builder) Type() PkgType { return b.typ }

// Record returns the package record, or nil if it isn't known yet.
func (b *Builder) Record() *PackageRecord { return b.rec }

// SetType pins the package type, skipping registry detection.
func (b *Builder) SetType(t PkgType) *Builder {
	b.typ = t
	return b
}

// SetInfo sets the package record directly.
func (b *Builder) SetInfo(rec *PackageRecord) *Builder {
	b.rec = rec
	return b
}

// Identify detects the package type from the registries. See [Identify].
func (b *Builder) Identify(ctx context.Context, probers map[PkgType]Prober) error {
	t, err := Identify(ctx, b.name, probers)
	if err != nil {
		return err
	}
	b.typ = t
	return nil
}

// IsBuiltIn reports whether the requested package ships with its runtime.
func (b *Builder) IsBuiltIn() (bool, error) {
	if err := b.require(needType); err != nil {
		return false, err
	}
	return b.renderer.tables().IsBuiltIn(b.name, b.typ), nil
}

// FetchInfo retrieves the package record from the registry.
func (b *Builder) FetchInfo(ctx context.Context, f Fetcher) error {
	if err := b.require(needType); err != nil {
		return err
	}
	rec, err := f.Fetch(ctx, b.name, b.typ)
	if err != nil {
		return err
	}
	b.rec = rec
	return nil
}

// Generate renders a new template. Built-in packages are refused with
// ErrCodeBuiltInPackage.
func (b *Builder) Generate(prefix bool) (Template, error) {
	if err := b.require(needType, needInfo); err != nil {
		return Template{}, err
	}
	if builtIn, _ := b.IsBuiltIn(); builtIn {
		return Template{}, errors.New(errors.ErrCodeBuiltInPackage,
			"%s is part of %s, won't write a template for it", b.name, b.typ.Runtime())
	}
	return b.renderer.Generate(b.rec, b.typ, prefix)
}

// Update patches an existing template to the fetched version.
func (b *Builder) Update(ctx context.Context, old Template, updateAll bool) (Template, error) {
	if err := b.require(needType, needInfo); err != nil {
		return Template{}, err
	}
	return b.renderer.Update(ctx, old, b.rec, b.typ, updateAll)
}

type prerequisite int

const (
	needType prerequisite = iota
	needInfo
)

// require is the single guard for builder state.
func (b *Builder) require(needs ...prerequisite) error {
	for _, n := range needs {
		switch n {
		case needType:
			if !b.typ.Valid() {
				return errors.New(errors.ErrCodeMissingPrerequisite,
					"package type of %s isn't known yet; set it or identify it first", b.name)
			}
		case needInfo:
			if b.rec == nil {
				return errors.New(errors.ErrCodeMissingPrerequisite,
					"package info of %s isn't known yet; set or fetch it first", b.name)
			}
		}
	}
	return nil
}
