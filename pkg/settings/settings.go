// Package settings provides the typed settings descriptors produced by the
// settings loaders: camera model settings and per-stage pipeline settings.
//
// # Descriptors
//
// Every descriptor reports the kind it was built for and exposes its
// declared parameters by name. Concrete variants additionally carry typed
// fields for direct access:
//
//	cam, err := settings.NewPinhole(doc)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(cam.Type(), cam.Fx, cam.Fy)
//
// # Full Parse
//
// A variant is built from a parsed settings document in four steps: the
// document is validated against the variant's embedded JSON schema, schema
// defaults fill absent optional parameters, cross-field rules are checked,
// and the result is decoded into the typed struct. Any failure is reported
// as FieldErrors and no descriptor is returned.
package settings

import (
	"fmt"
	"maps"
	"slices"
)

// Descriptor is a fully parsed settings object.
type Descriptor interface {
	// Type returns the kind the descriptor was built for.
	Type() string
	// Param returns the value of a declared parameter.
	Param(name string) (any, bool)
	// Params returns a copy of all declared parameters.
	Params() map[string]any
	// Names returns the declared parameter names in sorted order.
	Names() []string
}

// params is the by-name view shared by all variants.
type params struct {
	kind   string
	values map[string]any
}

func newParams(kind string, values map[string]any) params {
	return params{kind: kind, values: maps.Clone(values)}
}

// Type returns the kind the descriptor was built for.
func (p *params) Type() string {
	return p.kind
}

// Param returns the value of a declared parameter.
func (p *params) Param(name string) (any, bool) {
	v, ok := p.values[name]
	return v, ok
}

// Params returns a copy of all declared parameters.
func (p *params) Params() map[string]any {
	return maps.Clone(p.values)
}

// Names returns the declared parameter names in sorted order.
func (p *params) Names() []string {
	return slices.Sorted(maps.Keys(p.values))
}

func (p *params) setParams(v params) {
	*p = v
}

// Float returns a numeric parameter.
func Float(d Descriptor, name string) (float64, error) {
	v, err := lookup(d, name)
	if err != nil {
		return 0, err
	}
	f, ok := v.(float64)
	if !ok {
		return 0, typeError(d, name, "number", v)
	}
	return f, nil
}

// Int returns an integral numeric parameter.
func Int(d Descriptor, name string) (int, error) {
	f, err := Float(d, name)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, typeError(d, name, "integer", f)
	}
	return int(f), nil
}

// String returns a string parameter.
func String(d Descriptor, name string) (string, error) {
	v, err := lookup(d, name)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", typeError(d, name, "string", v)
	}
	return s, nil
}

// Bool returns a boolean parameter.
func Bool(d Descriptor, name string) (bool, error) {
	v, err := lookup(d, name)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, typeError(d, name, "boolean", v)
	}
	return b, nil
}

func lookup(d Descriptor, name string) (any, error) {
	v, ok := d.Param(name)
	if !ok {
		return nil, &FieldError{
			Kind:    d.Type(),
			Param:   name,
			Reason:  ReasonMissing,
			Message: "parameter is not declared",
		}
	}
	return v, nil
}

func typeError(d Descriptor, name, want string, got any) *FieldError {
	return &FieldError{
		Kind:    d.Type(),
		Param:   name,
		Reason:  ReasonType,
		Message: fmt.Sprintf("expected %s, got %T", want, got),
	}
}
