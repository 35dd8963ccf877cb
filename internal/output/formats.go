package output

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/sockhttp/internal/http"
)

// OutputFormat represents the available output formats
type OutputFormat string

const (
	// FormatPlain prints the status code and body, nothing else
	FormatPlain OutputFormat = "plain"
	// FormatText is the human-readable, colored text format
	FormatText OutputFormat = "text"
	// FormatJSON outputs in JSON format
	FormatJSON OutputFormat = "json"
	// FormatYAML outputs in YAML format
	FormatYAML OutputFormat = "yaml"
)

var formats = []OutputFormat{FormatPlain, FormatText, FormatJSON, FormatYAML}

// ParseFormat validates a format name given on the command line
func ParseFormat(name string) (OutputFormat, error) {
	for _, f := range formats {
		if string(f) == strings.ToLower(name) {
			return f, nil
		}
	}
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return "", fmt.Errorf("unknown output format %q, must be one of: %s", name, strings.Join(names, ", "))
}

// FormatProvider is an interface for different output formatters
type FormatProvider interface {
	FormatRequest(req *http.Request) string
	FormatResponse(req *http.Request, resp *http.Response) string
}

// TimingData represents timing information for a request
type TimingData struct {
	TCPConnection   int64 `json:"tcpConnectionMs" yaml:"tcpConnectionMs"`
	Send            int64 `json:"sendMs" yaml:"sendMs"`
	TimeToFirstByte int64 `json:"timeToFirstByteMs" yaml:"timeToFirstByteMs"`
	ContentTransfer int64 `json:"contentTransferMs" yaml:"contentTransferMs"`
	Total           int64 `json:"totalMs" yaml:"totalMs"`
}

// ResponseData represents the structured data of an exchange
type ResponseData struct {
	Method     string              `json:"method" yaml:"method"`
	URL        string              `json:"url" yaml:"url"`
	Form       map[string][]string `json:"form,omitempty" yaml:"form,omitempty"`
	StatusCode int                 `json:"statusCode" yaml:"statusCode"`
	Headers    map[string]string   `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body       interface{}         `json:"body,omitempty" yaml:"body,omitempty"`
	Timing     *TimingData         `json:"timing,omitempty" yaml:"timing,omitempty"`
	Timestamp  string              `json:"timestamp" yaml:"timestamp"`
}

// NewResponseData converts an exchange into its serializable form. A JSON
// body is embedded as a value, anything else as a string.
func NewResponseData(req *http.Request, resp *http.Response, withTiming bool) ResponseData {
	data := ResponseData{
		Method:     req.Method,
		URL:        req.URL,
		StatusCode: resp.Code,
		Headers:    resp.Headers,
		Timestamp:  time.Now().Format(time.RFC3339),
	}

	if len(req.Form) > 0 {
		data.Form = make(map[string][]string, len(req.Form))
		for key, values := range req.Form {
			data.Form[key] = append([]string(nil), values...)
		}
	}

	if resp.Body != "" {
		var body interface{}
		if err := json.Unmarshal([]byte(resp.Body), &body); err == nil {
			data.Body = body
		} else {
			data.Body = resp.Body
		}
	}

	if withTiming {
		data.Timing = &TimingData{
			TCPConnection:   resp.Timing.ConnectMillis(),
			Send:            resp.Timing.SendMillis(),
			TimeToFirstByte: resp.Timing.TimeToFirstByteMillis(),
			ContentTransfer: resp.Timing.ContentTransferMillis(),
			Total:           resp.Timing.TotalMillis(),
		}
	}

	return data
}

// PlainFormatter prints "<code>\n<body>" and nothing about the request
type PlainFormatter struct{}

// FormatRequest returns nothing; plain output only shows the response
func (f *PlainFormatter) FormatRequest(req *http.Request) string {
	return ""
}

// FormatResponse formats a response as its status code and body
func (f *PlainFormatter) FormatResponse(req *http.Request, resp *http.Response) string {
	return resp.String() + "\n"
}

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	Verbose bool
	Pretty  bool
}

// FormatRequest returns nothing; the request is part of the response document
func (f *JSONFormatter) FormatRequest(req *http.Request) string {
	return ""
}

// FormatResponse formats an exchange as a JSON document
func (f *JSONFormatter) FormatResponse(req *http.Request, resp *http.Response) string {
	data := NewResponseData(req, resp, f.Verbose)

	var (
		output []byte
		err    error
	)
	if f.Pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}
	if err != nil {
		return fmt.Sprintf(`{"error": "Failed to marshal response: %s"}`+"\n", err)
	}

	return string(output) + "\n"
}

// YAMLFormatter formats output as YAML
type YAMLFormatter struct {
	Verbose bool
}

// FormatRequest returns nothing; the request is part of the response document
func (f *YAMLFormatter) FormatRequest(req *http.Request) string {
	return ""
}

// FormatResponse formats an exchange as a YAML document
func (f *YAMLFormatter) FormatResponse(req *http.Request, resp *http.Response) string {
	output, err := yaml.Marshal(NewResponseData(req, resp, f.Verbose))
	if err != nil {
		return fmt.Sprintf("error: Failed to marshal response: %s\n", err)
	}

	return "---\n" + string(output)
}

// GetFormatter returns the formatter for the given output format
func GetFormatter(format OutputFormat, verbose bool, noColor bool) FormatProvider {
	switch format {
	case FormatText:
		return NewFormatter(verbose, noColor)
	case FormatJSON:
		return &JSONFormatter{Verbose: verbose, Pretty: true}
	case FormatYAML:
		return &YAMLFormatter{Verbose: verbose}
	default:
		return &PlainFormatter{}
	}
}
