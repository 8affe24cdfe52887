package catalog

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "schema://quantprep-catalog.json"

// documentSchema describes the catalog file: a JSON array of question
// objects. Extra properties (explanations, sources) are allowed and ignored.
var documentSchema = map[string]any{
	"type":     "array",
	"minItems": 1,
	"items": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id": map[string]any{
				"type":    "integer",
				"minimum": 1,
			},
			"type": map[string]any{
				"type": "string",
				"enum": []any{
					"multiple_choice", "multiple_answer", "quantitative_comparison", "numeric_entry",
					"mc", "ma", "qc", "numeric",
				},
			},
			"question":   map[string]any{"type": "string"},
			"quantity_a": map[string]any{"type": "string"},
			"quantity_b": map[string]any{"type": "string"},
			"options": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"correct": map[string]any{
				"type": []any{"integer", "string", "number", "array"},
				"items": map[string]any{
					"type":    "integer",
					"minimum": 0,
				},
			},
			"difficulty": map[string]any{"type": "string"},
			"topic":      map[string]any{"type": "string"},
		},
		"required": []any{"id", "type", "correct"},
	},
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// validateDocument checks raw catalog JSON against the document schema.
func validateDocument(raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	sch, err := documentValidator()
	if err != nil {
		return fmt.Errorf("compile catalog schema: %w", err)
	}
	if err := sch.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// documentValidator compiles the document schema once.
func documentValidator() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The jsonschema library expects a parsed JSON value (any), not
		// Go maps with typed slices, so round-trip the definition.
		defBytes, err := json.Marshal(documentSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema definition: %w", err)
			return
		}
		var defParsed any
		if err := json.Unmarshal(defBytes, &defParsed); err != nil {
			compileErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, defParsed); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}
