package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Path    string
	Message string
}

// Error returns the error message
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidateCollection checks a collection before any request is sent
func ValidateCollection(c *Collection) []ValidationError {
	var errors []ValidationError

	if len(c.Requests) == 0 {
		errors = append(errors, ValidationError{
			Path:    "requests",
			Message: "at least one request is required",
		})
	}

	if _, err := c.TimeoutDuration(); err != nil {
		errors = append(errors, ValidationError{
			Path:    "timeout",
			Message: fmt.Sprintf("invalid duration '%s'", c.Timeout),
		})
	}

	seen := make(map[string]bool)
	for i, req := range c.Requests {
		path := fmt.Sprintf("requests[%d]", i)

		if req.Name == "" {
			errors = append(errors, ValidationError{Path: path + ".name", Message: "name is required"})
		} else if seen[req.Name] {
			errors = append(errors, ValidationError{Path: path + ".name", Message: fmt.Sprintf("duplicate request name: %s", req.Name)})
		}
		seen[req.Name] = true

		errors = append(errors, ValidateRequest(path, req)...)
	}

	return errors
}

// ValidateRequest validates a single request found at path
func ValidateRequest(path string, req Request) []ValidationError {
	var errors []ValidationError

	if req.URL == "" {
		errors = append(errors, ValidationError{Path: path + ".url", Message: "url is required"})
	}

	switch req.Method {
	case "":
		errors = append(errors, ValidationError{Path: path + ".method", Message: "method is required"})
	case "GET", "POST":
	default:
		errors = append(errors, ValidationError{
			Path:    path + ".method",
			Message: fmt.Sprintf("invalid method: %s (only GET and POST are supported)", req.Method),
		})
	}

	if req.Method == "GET" && len(req.Form) > 0 {
		errors = append(errors, ValidationError{Path: path + ".form", Message: "form is only sent with POST"})
	}

	if s := req.Expect.Status; s != 0 && (s < 100 || s > 599) {
		errors = append(errors, ValidationError{
			Path:    path + ".expect.status",
			Message: fmt.Sprintf("invalid status code: %d", s),
		})
	}

	for name, expr := range req.Extract {
		if !strings.HasPrefix(expr, "$") {
			errors = append(errors, ValidationError{
				Path:    fmt.Sprintf("%s.extract.%s", path, name),
				Message: "extract path must start with $",
			})
		}
	}

	return errors
}
