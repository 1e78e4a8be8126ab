package settings

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
)

// variantDef describes how one settings kind is parsed.
type variantDef struct {
	kind  string
	bases []string
	rules *ruleSet
}

// binder is implemented by pointers to variant structs.
type binder[T any] interface {
	*T
	setParams(params)
}

// construct runs the full parse of doc for def and returns a new variant.
// Nothing is returned unless every step succeeds.
func construct[T any, PT binder[T]](def *variantDef, doc map[string]any) (PT, error) {
	if err := loadSchemas(); err != nil {
		return nil, err
	}
	declared := declaredParams(def)
	if errs := nonFinite(def.kind, declared, doc); len(errs) > 0 {
		return nil, errs
	}
	if err := validateDocument(def, doc); err != nil {
		return nil, err
	}

	values := make(map[string]any, len(declared))
	for name, fallback := range declared {
		if v, ok := doc[name]; ok {
			values[name] = v
		} else if fallback != nil {
			values[name] = fallback
		}
	}

	if def.rules != nil {
		if err := def.rules.check(def.kind, values); err != nil {
			return nil, err
		}
	}

	data, err := json.Marshal(values)
	if err != nil {
		return nil, FieldErrors{{Kind: def.kind, Reason: ReasonInvalid, Message: err.Error()}}
	}
	out := PT(new(T))
	if err := json.Unmarshal(data, out); err != nil {
		return nil, FieldErrors{{Kind: def.kind, Reason: ReasonType, Message: err.Error()}}
	}
	out.setParams(newParams(def.kind, values))
	return out, nil
}

// nonFinite reports every declared parameter of doc that holds NaN or an
// infinity, nested values included.
func nonFinite(settingsKind string, declared, doc map[string]any) FieldErrors {
	var errs FieldErrors
	var walk func(param string, v any)
	walk = func(param string, v any) {
		switch val := v.(type) {
		case float64:
			if math.IsNaN(val) || math.IsInf(val, 0) {
				errs = append(errs, &FieldError{
					Kind:    settingsKind,
					Param:   param,
					Reason:  ReasonInvalid,
					Message: "value must be a finite number",
				})
			}
		case float32:
			walk(param, float64(val))
		case map[string]any:
			for _, key := range slices.Sorted(maps.Keys(val)) {
				walk(param+"/"+key, val[key])
			}
		case []any:
			for i, item := range val {
				walk(param+"/"+strconv.Itoa(i), item)
			}
		}
	}

	for _, name := range slices.Sorted(maps.Keys(declared)) {
		if v, ok := doc[name]; ok {
			walk(name, v)
		}
	}
	return errs
}

// Parameters lists the declared parameters of a settings kind together
// with their defaults; required parameters map to nil.
func Parameters(settingsKind string) (map[string]any, error) {
	def, ok := variants[settingsKind]
	if !ok {
		return nil, fmt.Errorf("unknown settings kind %q", settingsKind)
	}
	if err := loadSchemas(); err != nil {
		return nil, err
	}
	return maps.Clone(declaredParams(def)), nil
}
