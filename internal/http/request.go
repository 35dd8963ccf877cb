package http

import (
	"bytes"
	"net/url"
	"strconv"
)

const (
	MethodGet  = "GET"
	MethodPost = "POST"

	formContentType = "application/x-www-form-urlencoded"
)

// Request represents an HTTP request to a single resolved target
type Request struct {
	Method string
	URL    string
	Target Target
	Form   url.Values
}

// NewRequest creates a new request for the given method and URL. Any method
// other than POST is sent as a GET.
func NewRequest(method, rawURL string) *Request {
	if method != MethodPost {
		method = MethodGet
	}
	return &Request{
		Method: method,
		URL:    rawURL,
		Target: Resolve(rawURL),
		Form:   make(url.Values),
	}
}

// WithFormValue adds a form field to the request body
func (r *Request) WithFormValue(key, value string) *Request {
	r.Form.Add(key, value)
	return r
}

// WithForm adds every field of form to the request body
func (r *Request) WithForm(form url.Values) *Request {
	for key, values := range form {
		for _, value := range values {
			r.Form.Add(key, value)
		}
	}
	return r
}

// Bytes returns the request exactly as it is written to the wire
func (r *Request) Bytes() []byte {
	if r.Method == MethodPost {
		return BuildPost(r.Target, r.Form)
	}
	return BuildGet(r.Target)
}

// BuildGet serializes a GET request for t, e.g.:
//
//	GET /foo HTTP/1.1\r\n
//	Host: example.com\r\n
//	Connection: close\r\n
//	\r\n
func BuildGet(t Target) []byte {
	var buf bytes.Buffer
	writeRequestLine(&buf, MethodGet, t)
	writeConnectionClose(&buf)
	return buf.Bytes()
}

// BuildPost serializes a form-encoded POST request for t. A nil or empty form
// produces a single space body with Content-Length: 0, which is what the
// reference client sent.
func BuildPost(t Target, form url.Values) []byte {
	body, length := " ", 0
	if len(form) > 0 {
		body = form.Encode()
		length = len(body)
	}

	var buf bytes.Buffer
	writeRequestLine(&buf, MethodPost, t)
	writeHeader(&buf, "Content-Type", formContentType)
	writeHeader(&buf, "Content-Length", strconv.Itoa(length))
	writeConnectionClose(&buf)
	buf.WriteString(body)
	return buf.Bytes()
}

func writeRequestLine(buf *bytes.Buffer, method string, t Target) {
	buf.WriteString(method)
	buf.WriteByte(' ')
	buf.WriteString(t.Path)
	buf.WriteString(" HTTP/1.1\r\n")
	writeHeader(buf, "Host", t.Host)
}

func writeHeader(buf *bytes.Buffer, key, value string) {
	buf.WriteString(key)
	buf.WriteString(": ")
	buf.WriteString(value)
	buf.WriteString("\r\n")
}

func writeConnectionClose(buf *bytes.Buffer) {
	writeHeader(buf, "Connection", "close")
	buf.WriteString("\r\n")
}
