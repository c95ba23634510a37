// Package schema implements Layer 1 of the validation engine: JSON-Schema
// (Draft-07) structural checks per entity type.
package schema

import (
	"fmt"
	"regexp"

	"github.com/xeipuuv/gojsonschema"

	"ttrpgconv/internal/ir"
)

// entityIDPattern enforces the 16-20 character alphanumeric ID convention
// shared by every UIR entity.
var entityIDPattern = regexp.MustCompile(`^[a-zA-Z0-9]{16,20}$`)

// Validator holds a compiled schema per entity type, plus the uncompiled
// schema document so callers can still introspect/regenerate templates
// from it (spec §9 Open Question 3: keep both representations rather than
// discard the AST once compiled).
type Validator struct {
	compiled   map[string]*gojsonschema.Schema
	documents  map[string]map[string]any
}

// New returns a Validator with the built-in entity schemas registered.
func New() (*Validator, error) {
	v := &Validator{
		compiled:  map[string]*gojsonschema.Schema{},
		documents: map[string]map[string]any{},
	}
	for entityType, doc := range defaultSchemas() {
		if err := v.Register(entityType, doc); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// Register compiles and installs a schema document for entityType,
// replacing any previous schema for that type.
func (v *Validator) Register(entityType string, document map[string]any) error {
	loader := gojsonschema.NewGoLoader(document)
	compiled, err := gojsonschema.NewSchema(loader)
	if err != nil {
		return fmt.Errorf("compile schema for %s: %w", entityType, err)
	}
	v.compiled[entityType] = compiled
	v.documents[entityType] = document
	return nil
}

// ValidateAgainstSchema runs data against entityType's compiled schema,
// returning one ValidationIssue per violation with the JSON pointer of the
// failing node as Field. If no schema is registered for entityType, it
// returns no issues (absence of a schema is not itself a violation).
func (v *Validator) ValidateAgainstSchema(entityType string, data map[string]any) ([]ir.ValidationIssue, error) {
	compiled, ok := v.compiled[entityType]
	if !ok {
		return nil, nil
	}

	result, err := compiled.Validate(gojsonschema.NewGoLoader(data))
	if err != nil {
		return nil, fmt.Errorf("validate %s against schema: %w", entityType, err)
	}

	var issues []ir.ValidationIssue
	for _, re := range result.Errors() {
		field := re.Field()
		issues = append(issues, ir.IssueError(entityType, re.Description()).WithField(field))
	}
	return issues, nil
}

// ValidateEntityID enforces the global 16-20 character alphanumeric ID
// pattern, independent of any per-entity schema.
func ValidateEntityID(entityType, id string) *ir.ValidationIssue {
	if id == "" {
		issue := ir.IssueError(entityType, "Entity ID cannot be empty").WithField("id")
		return &issue
	}
	if !entityIDPattern.MatchString(id) {
		issue := ir.IssueError(entityType, fmt.Sprintf("entity ID %q does not match the expected 16-20 character alphanumeric pattern", id)).
			WithField("id").
			WithEntityID(id)
		return &issue
	}
	return nil
}

// ValidateRequiredFields checks presence and non-emptiness of each field in
// required against data.
func ValidateRequiredFields(entityType string, data map[string]any, required []string) []ir.ValidationIssue {
	var issues []ir.ValidationIssue
	for _, field := range required {
		value, present := data[field]
		if !present || value == nil || value == "" {
			issues = append(issues, ir.IssueError(entityType, "missing required field: "+field).WithField(field))
		}
	}
	return issues
}

// GenerateTemplate walks entityType's registered schema document and
// synthesizes a minimal conforming object: required fields populated with
// type-minimum defaults. Used by tests and "new empty entity" flows.
func (v *Validator) GenerateTemplate(entityType string) (map[string]any, bool) {
	doc, ok := v.documents[entityType]
	if !ok {
		return nil, false
	}
	return generateFromSchema(doc), true
}

func generateFromSchema(doc map[string]any) map[string]any {
	out := map[string]any{}
	properties, _ := doc["properties"].(map[string]any)
	required, _ := doc["required"].([]any)

	requiredSet := map[string]struct{}{}
	for _, r := range required {
		if name, ok := r.(string); ok {
			requiredSet[name] = struct{}{}
		}
	}

	for name := range requiredSet {
		propSchema, ok := properties[name].(map[string]any)
		if !ok {
			out[name] = ""
			continue
		}
		out[name] = zeroValueFor(propSchema)
	}
	return out
}

func zeroValueFor(propSchema map[string]any) any {
	switch propSchema["type"] {
	case "integer", "number":
		if min, ok := propSchema["minimum"]; ok {
			return min
		}
		return 0
	case "boolean":
		return false
	case "object":
		return generateFromSchema(propSchema)
	case "array":
		return []any{}
	default:
		return ""
	}
}

func defaultSchemas() map[string]map[string]any {
	return map[string]map[string]any{
		"actor": {
			"type": "object",
			"properties": map[string]any{
				"id":   map[string]any{"type": "string", "pattern": entityIDPattern.String()},
				"name": map[string]any{"type": "string", "minLength": 1, "maxLength": 255},
				"type": map[string]any{"type": "string", "enum": []any{"PC", "NPC"}},
			},
			"required": []any{"id", "name", "type"},
		},
		"scene": {
			"type": "object",
			"properties": map[string]any{
				"id":   map[string]any{"type": "string", "pattern": entityIDPattern.String()},
				"name": map[string]any{"type": "string", "minLength": 1, "maxLength": 255},
			},
			"required": []any{"id", "name"},
		},
		"item": {
			"type": "object",
			"properties": map[string]any{
				"id":   map[string]any{"type": "string", "pattern": entityIDPattern.String()},
				"name": map[string]any{"type": "string", "minLength": 1, "maxLength": 255},
			},
			"required": []any{"id", "name"},
		},
		"campaign": {
			"type": "object",
			"properties": map[string]any{
				"title": map[string]any{"type": "string", "minLength": 1},
			},
			"required": []any{"title"},
		},
	}
}
