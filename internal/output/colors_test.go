package output

import (
	"testing"

	"github.com/fatih/color"
)

func TestColorSchemes(t *testing.T) {
	for name, scheme := range map[string]*ColorScheme{
		"default":  DefaultColorScheme(),
		"no color": NoColorScheme(),
	} {
		for i, c := range scheme.all() {
			if c == nil {
				t.Errorf("%s scheme: color %d should not be nil", name, i)
			}
		}
	}
}

func TestNoColorScheme_PlainText(t *testing.T) {
	scheme := NoColorScheme()
	for _, c := range scheme.all() {
		if got := c.Sprint("text"); got != "text" {
			t.Errorf("Expected uncolored text, got %q", got)
		}
	}
}

func TestColorScheme_Status(t *testing.T) {
	scheme := DefaultColorScheme()

	tests := []struct {
		code     int
		expected *color.Color
	}{
		{200, scheme.StatusOK},
		{204, scheme.StatusOK},
		{301, scheme.StatusWarn},
		{404, scheme.StatusError},
		{500, scheme.StatusError},
		{100, scheme.StatusError},
	}

	for _, tt := range tests {
		if got := scheme.Status(tt.code); got != tt.expected {
			t.Errorf("Status(%d) returned the wrong color", tt.code)
		}
	}
}

func TestIcons(t *testing.T) {
	if SuccessIcon(true) != "✓" {
		t.Errorf("Expected plain checkmark, got %q", SuccessIcon(true))
	}
	if ErrorIcon(true) != "✗" {
		t.Errorf("Expected plain cross, got %q", ErrorIcon(true))
	}
}
