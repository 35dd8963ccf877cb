package http

import (
	"encoding/json"
	"strconv"
	"strings"
)

const (
	lineSep   = "\r\n"
	headerEnd = "\r\n\r\n"
)

// Response represents a parsed HTTP response
type Response struct {
	Code    int
	Headers map[string]string
	Body    string
	Timing  TimingInfo

	// Raw is the full response text as read from the connection
	Raw string
}

// ParseResponse splits the full text of a response into status code, headers
// and body
func ParseResponse(text string) (*Response, error) {
	code, err := ParseStatusCode(text)
	if err != nil {
		return nil, err
	}
	headers, err := ParseHeaders(text)
	if err != nil {
		return nil, err
	}
	body, err := ParseBody(text)
	if err != nil {
		return nil, err
	}
	return &Response{Code: code, Headers: headers, Body: body, Raw: text}, nil
}

// ParseStatusCode returns the second whitespace separated token of the
// status line as an integer
func ParseStatusCode(text string) (int, error) {
	statusLine, _, _ := strings.Cut(text, lineSep)

	fields := strings.Fields(statusLine)
	if len(fields) < 2 {
		return 0, malformed("missing status code", statusLine)
	}
	code, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, malformed("non-numeric status code", statusLine)
	}
	return code, nil
}

// ParseHeaders reads the header lines between the status line and the first
// empty line. Names and values are trimmed; a repeated name keeps its last
// value.
func ParseHeaders(text string) (map[string]string, error) {
	headers := make(map[string]string)

	lines := strings.Split(text, lineSep)
	for _, line := range lines[1:] {
		if line == "" {
			break
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, malformed("header line without colon", line)
		}
		headers[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}

	return headers, nil
}

// ParseBody returns everything after the first blank line
func ParseBody(text string) (string, error) {
	_, body, ok := strings.Cut(text, headerEnd)
	if !ok {
		return "", malformed("no header/body separator", "")
	}
	return body, nil
}

// String renders the response the way the command line prints it
func (r *Response) String() string {
	return strconv.Itoa(r.Code) + "\n" + r.Body
}

// Header returns the value of the named header. An exact match wins over a
// case-insensitive one.
func (r *Response) Header(name string) string {
	if v, ok := r.Headers[name]; ok {
		return v
	}
	for k, v := range r.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// BodyAsJSON unmarshals the response body into v
func (r *Response) BodyAsJSON(v interface{}) error {
	return json.Unmarshal([]byte(r.Body), v)
}

// IsSuccess returns true if the response status code is in the 2xx range
func (r *Response) IsSuccess() bool {
	return r.Code >= 200 && r.Code < 300
}

// IsRedirect returns true if the response status code is in the 3xx range
func (r *Response) IsRedirect() bool {
	return r.Code >= 300 && r.Code < 400
}

// IsClientError returns true if the response status code is in the 4xx range
func (r *Response) IsClientError() bool {
	return r.Code >= 400 && r.Code < 500
}

// IsServerError returns true if the response status code is in the 5xx range
func (r *Response) IsServerError() bool {
	return r.Code >= 500 && r.Code < 600
}
