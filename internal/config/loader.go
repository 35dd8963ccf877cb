package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Collection is a file of requests run one after another
type Collection struct {
	// Variables are substituted for {{name}} in request URLs and form values
	Variables map[string]string `json:"variables,omitempty" yaml:"variables,omitempty"`

	// Timeout bounds every request in the collection, e.g. "5s" or "1 minute"
	Timeout string `json:"timeout,omitempty" yaml:"timeout,omitempty"`

	Requests []Request `json:"requests" yaml:"requests"`

	dir string
}

// Request represents one request of a collection
type Request struct {
	Name   string            `json:"name" yaml:"name"`
	Method string            `json:"method" yaml:"method"`
	URL    string            `json:"url" yaml:"url"`
	Form   map[string]string `json:"form,omitempty" yaml:"form,omitempty"`
	Expect Expect            `json:"expect,omitempty" yaml:"expect,omitempty"`

	// Extract maps variable names to JSONPath expressions evaluated against
	// the response body
	Extract map[string]string `json:"extract,omitempty" yaml:"extract,omitempty"`

	// Schema is a JSON Schema file relative to the collection, or an inline
	// schema document
	Schema string `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// Expect lists the checks applied to a response
type Expect struct {
	Status  int               `json:"status,omitempty" yaml:"status,omitempty"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
}

// LoadCollection reads a collection from a .json file or, for any other
// extension, a YAML file
func LoadCollection(path string) (*Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, errors.Wrap(err, "error reading config file")
	}

	var c Collection
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &c)
	} else {
		err = yaml.Unmarshal(data, &c)
	}
	if err != nil {
		return nil, errors.Wrap(err, "error parsing config file")
	}

	c.dir = filepath.Dir(path)
	return &c, nil
}

// Select returns the named requests in the order given, or every request in
// file order when no names are given
func (c *Collection) Select(names ...string) ([]Request, error) {
	if len(names) == 0 {
		return c.Requests, nil
	}

	byName := make(map[string]Request, len(c.Requests))
	for _, r := range c.Requests {
		byName[r.Name] = r
	}

	selected := make([]Request, 0, len(names))
	for _, name := range names {
		r, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("request not found: %s", name)
		}
		selected = append(selected, r)
	}
	return selected, nil
}

// TimeoutDuration parses Timeout; an empty Timeout means no limit
func (c *Collection) TimeoutDuration() (time.Duration, error) {
	if strings.TrimSpace(c.Timeout) == "" {
		return 0, nil
	}
	return parseDurationString(c.Timeout)
}

// LoadSchema returns the schema document referenced by ref
func (c *Collection) LoadSchema(ref string) (string, error) {
	if trimmed := strings.TrimSpace(ref); strings.HasPrefix(trimmed, "{") {
		return trimmed, nil
	}

	path := ref
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.dir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "error reading schema %s", ref)
	}
	return string(data), nil
}

// Expand substitutes variables into the request URL and form values
func (r Request) Expand(vars map[string]string) Request {
	out := r
	out.URL = ProcessVariables(r.URL, vars)
	if r.Form != nil {
		out.Form = ProcessVariablesInMap(r.Form, vars)
	}
	return out
}

// parseDurationString parses duration strings like "30s", "5m" or "1 minute"
func parseDurationString(duration string) (time.Duration, error) {
	duration = strings.TrimSpace(duration)
	if duration == "" {
		return 0, fmt.Errorf("duration cannot be empty")
	}

	if d, err := time.ParseDuration(duration); err == nil {
		return d, nil
	}

	duration = strings.ToLower(strings.ReplaceAll(duration, " ", ""))

	// longest words first so "seconds" is not turned into "ss"
	replacements := []struct{ word, unit string }{
		{"milliseconds", "ms"},
		{"millisecond", "ms"},
		{"seconds", "s"},
		{"second", "s"},
		{"minutes", "m"},
		{"minute", "m"},
		{"hours", "h"},
		{"hour", "h"},
	}
	for _, r := range replacements {
		duration = strings.ReplaceAll(duration, r.word, r.unit)
	}

	return time.ParseDuration(duration)
}

// ProcessVariables replaces {{name}} placeholders in input
func ProcessVariables(input string, vars map[string]string) string {
	result := input
	for key, value := range vars {
		result = strings.ReplaceAll(result, "{{"+key+"}}", value)
	}
	return result
}

// ProcessVariablesInMap processes variables in every value of a map
func ProcessVariablesInMap(input map[string]string, vars map[string]string) map[string]string {
	result := make(map[string]string, len(input))
	for key, value := range input {
		result[key] = ProcessVariables(value, vars)
	}
	return result
}

// MergeVariables merges two variable sets, with the second taking precedence
func MergeVariables(base, override map[string]string) map[string]string {
	result := make(map[string]string, len(base)+len(override))
	for key, value := range base {
		result[key] = value
	}
	for key, value := range override {
		result[key] = value
	}
	return result
}
