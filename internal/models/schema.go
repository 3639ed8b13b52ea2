package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

func stringProps(names ...string) map[string]any {
	props := make(map[string]any, len(names))
	for _, n := range names {
		props[n] = map[string]any{"type": "string"}
	}
	return props
}

func objectOf(names ...string) map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           stringProps(names...),
		"required":             names,
	}
}

func arrayOf(item map[string]any) map[string]any {
	return map[string]any{"type": "array", "items": item}
}

// BuildParsedResumeSchema returns the JSON schema every ParsedResume response body satisfies.
func BuildParsedResumeSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"personal": objectOf("firstName", "lastName", "email", "phone", "city", "state", "linkedIn", "gitHub", "summary"),
			"skills":    arrayOf(objectOf("label", "value")),
			"jobs":      arrayOf(objectOf("title", "company", "location", "start", "end", "description")),
			"education": arrayOf(objectOf("degree", "school", "gradYear")),
		},
		"required": []string{"personal", "skills", "jobs", "education"},
	}
}

var (
	compiledOnce   sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func parsedResumeSchema() (*jsonschema.Schema, error) {
	compiledOnce.Do(func() {
		b, err := json.Marshal(BuildParsedResumeSchema())
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("parsed_resume.json", bytes.NewReader(b)); err != nil {
			compileErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile("parsed_resume.json")
	})
	return compiledSchema, compileErr
}

// ValidateJSON checks raw JSON against the ParsedResume schema.
func ValidateJSON(data []byte) error {
	schema, err := parsedResumeSchema()
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

// Validate marshals the resume and checks it against the schema.
func (r ParsedResume) Validate() error {
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal parsed resume: %w", err)
	}
	return ValidateJSON(b)
}
