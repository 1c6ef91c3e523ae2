package output

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// ColorMode determines when to use colored output.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // Auto-detect based on TTY
	ColorAlways                  // Always use colors
	ColorNever                   // Never use colors
)

// ParseColorMode converts a flag value to a ColorMode, defaulting to auto.
func ParseColorMode(s string) ColorMode {
	switch strings.ToLower(s) {
	case "always":
		return ColorAlways
	case "never":
		return ColorNever
	default:
		return ColorAuto
	}
}

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// shouldColorize determines if output should be colorized based on mode and TTY detection.
func shouldColorize(mode ColorMode, w interface{}) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	case ColorAuto:
		if f, ok := w.(*os.File); ok {
			return isTerminal(f)
		}
		return false
	}
	return false
}

// ColorizeLyrics highlights the parts of a song the model is asked to
// produce: a parenthesised style hint on the first line is gray and the
// closing tagline is bold yellow.
func ColorizeLyrics(lyrics string) string {
	lines := strings.Split(lyrics, "\n")

	last := -1
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) != "" {
			last = i
			break
		}
	}

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case i == 0 && isStyleHint(trimmed):
			lines[i] = colorGray + line + colorReset
		case i == last && i != 0:
			lines[i] = colorBold + colorYellow + line + colorReset
		}
	}
	return strings.Join(lines, "\n")
}

func isStyleHint(line string) bool {
	return strings.HasPrefix(line, "(") && strings.HasSuffix(line, ")")
}
