// Package jsonschema checks response bodies against JSON Schema documents.
package jsonschema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const resourceName = "schema.json"

// ValidationErrors lists every violation found in a document
type ValidationErrors []string

func (ve ValidationErrors) Error() string {
	return strings.Join(ve, "; ")
}

// Schema is a compiled JSON Schema
type Schema struct {
	schema *jsonschema.Schema
}

// Compile parses and compiles a schema document
func Compile(schema string) (*Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(resourceName, strings.NewReader(schema)); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	compiled, err := compiler.Compile(resourceName)
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return &Schema{schema: compiled}, nil
}

// Validate returns nil when body satisfies the schema and ValidationErrors
// when it does not. Any other error means body is not JSON.
func (s *Schema) Validate(body string) error {
	var doc interface{}
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	err := s.schema.Validate(doc)
	if err == nil {
		return nil
	}
	if verr, ok := err.(*jsonschema.ValidationError); ok {
		return collect(verr)
	}
	return ValidationErrors{err.Error()}
}

// Validate compiles schema and validates body against it
func Validate(body, schema string) error {
	s, err := Compile(schema)
	if err != nil {
		return err
	}
	return s.Validate(body)
}

// collect flattens the cause tree into leaf messages
func collect(err *jsonschema.ValidationError) ValidationErrors {
	if len(err.Causes) == 0 {
		location := err.InstanceLocation
		if location == "" {
			location = "/"
		}
		return ValidationErrors{fmt.Sprintf("%s: %s", location, err.Message)}
	}

	var out ValidationErrors
	for _, cause := range err.Causes {
		out = append(out, collect(cause)...)
	}
	return out
}
