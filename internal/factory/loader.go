// Package factory provides the settings loaders.
// A loader turns a settings file into one concrete settings variant whose
// kind is only known from the file's `type` field.
//
// # Loading
//
// Every load runs in two passes over the same file:
//
//  1. Discovery: only the `type` field is read, through config.SneakParam.
//  2. Full parse: the whole document is read again and handed to the
//     constructor registered for the discovered kind.
//
// Kind checks (expected kind, closed kind table) happen between the two
// passes, so a rejected file is never parsed as a concrete variant.
//
// # Adding New Kinds
//
// Loaders are built over the closed tables in internal/registry. To add a
// new kind, see the documentation there; the loaders need no change.
package factory

import (
	"errors"
	"fmt"
	"time"

	"github.com/realmcfg/runtime/internal/config"
	"github.com/realmcfg/runtime/internal/errhandling"
	"github.com/realmcfg/runtime/internal/logger"
	"github.com/realmcfg/runtime/internal/registry"
	"github.com/realmcfg/runtime/pkg/settings"
)

// typeParam is the reserved parameter holding the settings kind.
const typeParam = "type"

// Loader loads settings files into the descriptors of one kind table.
// It holds no mutable state and is safe for concurrent use.
type Loader[D settings.Descriptor] struct {
	table  *registry.Table[D]
	reader config.Reader
}

// NewLoader creates a loader over table. A nil reader reads from the
// local filesystem.
func NewLoader[D settings.Descriptor](table *registry.Table[D], reader config.Reader) *Loader[D] {
	if reader == nil {
		reader = config.FileReader{}
	}
	return &Loader[D]{table: table, reader: reader}
}

// Name returns the name of the loader's kind table.
func (l *Loader[D]) Name() string {
	return l.table.Name()
}

// Kinds returns the kinds the loader can construct, sorted.
func (l *Loader[D]) Kinds() []string {
	return l.table.Kinds()
}

// Load loads the settings file at path, accepting any kind in the table.
func (l *Loader[D]) Load(path string) (D, error) {
	return l.load(nil, path)
}

// LoadKind loads the settings file at path and rejects it unless it
// declares exactly expectedKind.
func (l *Loader[D]) LoadKind(expectedKind, path string) (D, error) {
	return l.load(&expectedKind, path)
}

func (l *Loader[D]) load(expected *string, path string) (D, error) {
	start := time.Now()

	lctx := logger.LoadContext{Loader: l.table.Name(), Path: path}
	if expected != nil {
		lctx.ExpectedKind = *expected
	}

	declared, err := l.discover(path)
	if err != nil {
		return l.fail(lctx, err)
	}
	lctx.DeclaredKind = declared
	logger.WithLoad(lctx).Debug("settings kind discovered")

	if expected != nil && *expected != declared {
		return l.fail(lctx, errhandling.NewTypeMismatchError(path, *expected, declared))
	}

	ctor, ok := l.table.Lookup(declared)
	if !ok {
		return l.fail(lctx, errhandling.NewUnsupportedKindError(path, declared, l.table.Kinds()))
	}

	doc, err := l.reader.ReadDocument(path)
	if err != nil {
		return l.fail(lctx, errhandling.NewFileError(path, err))
	}

	s, err := ctor(doc)
	if err != nil {
		// Field errors reach the caller unwrapped.
		return l.fail(lctx, err)
	}
	if s.Type() != declared {
		return l.fail(lctx, fmt.Errorf("%s table: constructor for '%s' built '%s'", l.table.Name(), declared, s.Type()))
	}

	logger.LogLoadSuccess(lctx, len(s.Names()), time.Since(start))
	return s, nil
}

// discover reads the declared kind of the file at path.
func (l *Loader[D]) discover(path string) (string, error) {
	declared, err := config.SneakParam[string](l.reader, path, typeParam)
	if err == nil && declared != "" {
		return declared, nil
	}

	var typeErr *config.ParamTypeError
	switch {
	case err == nil:
		return "", errhandling.NewMissingTypeError(path, nil)
	case errors.Is(err, config.ErrParamNotFound), errors.As(err, &typeErr):
		return "", errhandling.NewMissingTypeError(path, err)
	default:
		return "", errhandling.NewFileError(path, err)
	}
}

func (l *Loader[D]) fail(lctx logger.LoadContext, err error) (D, error) {
	var zero D
	logger.LogLoadFailure(lctx, string(errhandling.ClassifyError(err)), err)
	return zero, err
}
