// Package registry provides the closed kind tables used by the settings
// loaders.
//
// # Overview
//
// A Table maps a kind string, as found in the `type` field of a settings
// file, to the constructor of exactly one concrete settings variant. Tables
// are built once from a fixed list of entries and never change afterwards:
// an unknown kind is an error, not an extension point.
//
// # Adding a New Kind
//
// To add a new camera model (e.g., "fisheye"):
//
//  1. Implement the variant in pkg/settings, including its schema
//  2. Add an Entry for it to the Camera table in builtins.go
//
// Example:
//
//	var Camera = MustNew("camera",
//	    Entry[settings.CameraSettings]{Kind: settings.KindPinhole, New: newPinhole},
//	    Entry[settings.CameraSettings]{Kind: settings.KindFisheye, New: newFisheye},
//	)
package registry

import (
	"fmt"
	"maps"
	"slices"

	"github.com/realmcfg/runtime/internal/config"
)

// Constructor builds a concrete settings value from a parsed settings document.
// It must not return a usable value together with a non-nil error.
type Constructor[D any] func(doc config.Document) (D, error)

// Entry binds a kind string to its constructor.
type Entry[D any] struct {
	Kind string
	New  Constructor[D]
}

// Table is an immutable kind -> constructor mapping.
// It is safe for concurrent use.
type Table[D any] struct {
	name  string
	ctors map[string]Constructor[D]
	kinds []string
}

// New builds a table from entries. Empty kinds, nil constructors and
// duplicate kinds are rejected.
func New[D any](name string, entries ...Entry[D]) (*Table[D], error) {
	ctors := make(map[string]Constructor[D], len(entries))
	for i, e := range entries {
		if e.Kind == "" {
			return nil, fmt.Errorf("%s table: entry %d has an empty kind", name, i)
		}
		if e.New == nil {
			return nil, fmt.Errorf("%s table: kind '%s' has no constructor", name, e.Kind)
		}
		if _, dup := ctors[e.Kind]; dup {
			return nil, fmt.Errorf("%s table: kind '%s' registered twice", name, e.Kind)
		}
		ctors[e.Kind] = e.New
	}
	return &Table[D]{
		name:  name,
		ctors: ctors,
		kinds: slices.Sorted(maps.Keys(ctors)),
	}, nil
}

// MustNew is like New but panics on an invalid entry list.
// It is intended for package-level tables.
func MustNew[D any](name string, entries ...Entry[D]) *Table[D] {
	t, err := New(name, entries...)
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the table name, e.g. "camera".
func (t *Table[D]) Name() string {
	return t.name
}

// Lookup returns the constructor registered for kind.
func (t *Table[D]) Lookup(kind string) (Constructor[D], bool) {
	ctor, ok := t.ctors[kind]
	return ctor, ok
}

// Kinds returns the supported kinds in sorted order.
func (t *Table[D]) Kinds() []string {
	return slices.Clone(t.kinds)
}
