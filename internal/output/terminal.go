package output

import (
	"os"

	"github.com/mattn/go-isatty"
)

// IsTerminal reports whether f is attached to a terminal
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ColorEnabled decides whether output written to f should be colored
func ColorEnabled(f *os.File, noColor bool) bool {
	if noColor || f == nil || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return IsTerminal(f)
}
