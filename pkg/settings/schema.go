package settings

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/*.json
var schemaFS embed.FS

// schemaBaseURL is the URL prefix every embedded schema is registered under.
const schemaBaseURL = "https://realmcfg.io/schemas/settings/"

// schemaOnce ensures thread-safe initialization of the compiled schemas.
var schemaOnce sync.Once

// compiledSchemas caches the compiled schema of every settings kind.
var compiledSchemas map[string]*jsonschema.Schema

// rawSchemas keeps the decoded schema documents for defaults and parameter lists.
var rawSchemas map[string]rawSchema

// schemaInitErr stores any error from schema initialization.
var schemaInitErr error

type rawSchema struct {
	Properties map[string]map[string]any `json:"properties"`
}

// GetEmbeddedSchema returns the embedded schema of a settings kind.
func GetEmbeddedSchema(settingsKind string) ([]byte, error) {
	return schemaFS.ReadFile(path.Join("schema", settingsKind+".json"))
}

// loadSchemas compiles every embedded schema, once.
func loadSchemas() error {
	schemaOnce.Do(func() {
		entries, err := schemaFS.ReadDir("schema")
		if err != nil {
			schemaInitErr = fmt.Errorf("failed to list embedded schemas: %w", err)
			return
		}

		compiler := jsonschema.NewCompiler()
		raws := make(map[string]rawSchema, len(entries))
		names := make([]string, 0, len(entries))

		for _, entry := range entries {
			name := strings.TrimSuffix(entry.Name(), ".json")
			data, err := schemaFS.ReadFile(path.Join("schema", entry.Name()))
			if err != nil {
				schemaInitErr = fmt.Errorf("failed to read schema %s: %w", name, err)
				return
			}

			var schemaDoc interface{}
			if err := json.Unmarshal(data, &schemaDoc); err != nil {
				schemaInitErr = fmt.Errorf("failed to parse schema %s: %w", name, err)
				return
			}
			if err := compiler.AddResource(schemaBaseURL+entry.Name(), schemaDoc); err != nil {
				schemaInitErr = fmt.Errorf("failed to add schema resource %s: %w", name, err)
				return
			}

			var raw rawSchema
			if err := json.Unmarshal(data, &raw); err != nil {
				schemaInitErr = fmt.Errorf("failed to read properties of schema %s: %w", name, err)
				return
			}
			raws[name] = raw
			names = append(names, name)
		}

		compiled := make(map[string]*jsonschema.Schema, len(names))
		for _, name := range names {
			schema, err := compiler.Compile(schemaBaseURL + name + ".json")
			if err != nil {
				schemaInitErr = fmt.Errorf("failed to compile schema %s: %w", name, err)
				return
			}
			compiled[name] = schema
		}

		compiledSchemas = compiled
		rawSchemas = raws
	})
	return schemaInitErr
}

// declaredParams returns every parameter the kind declares, with schema
// defaults where present. Base schemas are applied first.
func declaredParams(def *variantDef) map[string]any {
	declared := make(map[string]any)
	for _, name := range append(append([]string{}, def.bases...), def.kind) {
		for param, prop := range rawSchemas[name].Properties {
			fallback, ok := prop["default"]
			if _, seen := declared[param]; !seen || ok {
				declared[param] = fallback
			}
		}
	}
	return declared
}

// validateDocument validates doc against the kind's schema.
func validateDocument(def *variantDef, doc map[string]any) error {
	schema, ok := compiledSchemas[def.kind]
	if !ok {
		return FieldErrors{{Kind: def.kind, Reason: ReasonInvalid, Message: "no schema for settings kind"}}
	}

	err := schema.Validate(doc)
	if err == nil {
		return nil
	}

	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return FieldErrors{{Kind: def.kind, Reason: ReasonInvalid, Message: err.Error()}}
	}

	errs := convertValidationErrors(def.kind, verr, message.NewPrinter(language.English))
	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Param < errs[j].Param })
	return errs
}

// convertValidationErrors flattens the leaves of a jsonschema error tree.
func convertValidationErrors(settingsKind string, err *jsonschema.ValidationError, p *message.Printer) FieldErrors {
	if len(err.Causes) > 0 {
		var errs FieldErrors
		for _, cause := range err.Causes {
			errs = append(errs, convertValidationErrors(settingsKind, cause, p)...)
		}
		return errs
	}

	param := strings.Join(err.InstanceLocation, "/")

	switch k := err.ErrorKind.(type) {
	case *kind.Required:
		errs := make(FieldErrors, 0, len(k.Missing))
		for _, missing := range k.Missing {
			errs = append(errs, &FieldError{
				Kind:    settingsKind,
				Param:   missing,
				Reason:  ReasonMissing,
				Message: "required parameter is missing",
			})
		}
		return errs
	case *kind.Type:
		return FieldErrors{{
			Kind:    settingsKind,
			Param:   param,
			Reason:  ReasonType,
			Message: k.LocalizedString(p),
		}}
	default:
		return FieldErrors{{
			Kind:    settingsKind,
			Param:   param,
			Reason:  ReasonInvalid,
			Message: err.ErrorKind.LocalizedString(p),
		}}
	}
}
