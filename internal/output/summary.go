package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/wesleyorama2/sockhttp/internal/metrics"
)

// FormatSummary renders the latency summary of repeated requests
func FormatSummary(s metrics.Summary, noColor bool) string {
	scheme := DefaultColorScheme()
	if noColor {
		scheme = NoColorScheme()
	}

	var buf strings.Builder
	buf.WriteString(scheme.Highlight.Sprint("Latency summary"))
	buf.WriteString(fmt.Sprintf(" (%d ok, %d failed)\n", s.Count, s.Errors))
	if s.Count == 0 {
		return buf.String()
	}

	rows := []struct {
		name  string
		value time.Duration
	}{
		{"min", s.Min},
		{"mean", s.Mean},
		{"p50", s.P50},
		{"p90", s.P90},
		{"p99", s.P99},
		{"max", s.Max},
	}
	for _, row := range rows {
		buf.WriteString(fmt.Sprintf("  %-5s %s\n", row.name, row.value.Round(time.Microsecond)))
	}
	return buf.String()
}
