package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/wesleyorama2/sockhttp/internal/http"
)

// Formatter renders requests and responses as human-readable, optionally
// colored text
type Formatter struct {
	Verbose bool
	NoColor bool
	scheme  *ColorScheme
}

// NewFormatter creates a new formatter with the given options
func NewFormatter(verbose, noColor bool) *Formatter {
	scheme := DefaultColorScheme()
	if noColor {
		scheme = NoColorScheme()
	}
	return &Formatter{
		Verbose: verbose,
		NoColor: noColor,
		scheme:  scheme,
	}
}

// FormatRequest formats an HTTP request for display. In verbose mode the
// exact bytes written to the socket are shown.
func (f *Formatter) FormatRequest(req *http.Request) string {
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("▶ REQUEST: %s %s\n", f.scheme.Method.Sprint(req.Method), f.scheme.URL.Sprint(req.URL)))

	if f.Verbose {
		buf.WriteString(fmt.Sprintf("  Connecting to %s\n", req.Target.Addr()))
		writeWire(&buf, f.scheme, "> ", string(req.Bytes()))
	}

	if len(req.Form) > 0 {
		buf.WriteString("  Form:\n")
		for _, key := range sortedKeys(req.Form) {
			for _, value := range req.Form[key] {
				buf.WriteString(fmt.Sprintf("    %s = %s\n", f.scheme.HeaderKey.Sprint(key), value))
			}
		}
	}

	return buf.String()
}

// FormatResponse formats an HTTP response for display
func (f *Formatter) FormatResponse(req *http.Request, resp *http.Response) string {
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("◀ RESPONSE: %s (%dms)\n",
		f.scheme.Status(resp.Code).Sprint(resp.Code),
		resp.Timing.TotalMillis()))

	if f.Verbose {
		buf.WriteString("  Timing:\n")
		buf.WriteString(fmt.Sprintf("    TCP Connection:     %dms\n", resp.Timing.ConnectMillis()))
		buf.WriteString(fmt.Sprintf("    Request Send:       %dms\n", resp.Timing.SendMillis()))
		buf.WriteString(fmt.Sprintf("    Time to First Byte: %dms\n", resp.Timing.TimeToFirstByteMillis()))
		buf.WriteString(fmt.Sprintf("    Content Transfer:   %dms\n", resp.Timing.ContentTransferMillis()))
		buf.WriteString(fmt.Sprintf("    Total:              %dms\n", resp.Timing.TotalMillis()))

		buf.WriteString("  Headers:\n")
		for _, key := range sortedKeys(resp.Headers) {
			buf.WriteString(fmt.Sprintf("    %s: %s\n",
				f.scheme.HeaderKey.Sprint(key),
				f.scheme.HeaderValue.Sprint(resp.Headers[key])))
		}
	}

	if resp.Body != "" {
		buf.WriteString("  Body:\n")
		buf.WriteString(formatJSONString(resp.Body))
		buf.WriteString("\n")
	}

	return buf.String()
}

// writeWire prints raw protocol text one line at a time with a prefix
func writeWire(buf *strings.Builder, scheme *ColorScheme, prefix, raw string) {
	lines := strings.Split(raw, "\r\n")
	for i, line := range lines {
		if i == len(lines)-1 && line == "" {
			break
		}
		buf.WriteString("  ")
		buf.WriteString(scheme.Wire.Sprint(prefix + line))
		buf.WriteString("\n")
	}
}

// formatJSONString attempts to pretty-print a JSON string
func formatJSONString(s string) string {
	var prettyJSON bytes.Buffer
	err := json.Indent(&prettyJSON, []byte(s), "  ", "  ")
	if err != nil {
		return s
	}
	return "  " + prettyJSON.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
