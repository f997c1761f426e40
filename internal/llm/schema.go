package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildMatchSchema returns the JSON-Schema (draft 2020-12 subset) for the
// row-match object the model is asked to produce. matched_rows elements are
// permissive on purpose: numbers and digit strings both appear in practice
// and are coerced after validation.
func BuildMatchSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"matched_rows": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": []string{"integer", "number", "string"}},
			},
			"target_column": map[string]any{"type": "string"},
			"confidence":    map[string]any{"type": "string"},
			"explanation":   map[string]any{"type": "string"},
		},
		"required": []string{"matched_rows"},
	}
}

// ValidateAgainstSchema validates data against schemaMap.
func ValidateAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
