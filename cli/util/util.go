// Package util holds small terminal helpers shared by the doclens commands.
package util

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// MaskToken redacts an API key for display. Keys long enough to stay
// unguessable keep their first and last four characters so the user can
// recognize which key is configured.
func MaskToken(token string) string {
	const edge = 4
	if len(token) <= 2*edge {
		return "****"
	}
	hidden := strings.Repeat("*", len(token)-2*edge)
	return token[:edge] + hidden + token[len(token)-edge:]
}

// ReadLine prompts and reads one line from stdin, trimmed.
func ReadLine(prompt string) (string, error) {
	fmt.Print(prompt)

	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}

	return strings.TrimSpace(scanner.Text()), nil
}

// ReadPassword prompts and reads a secret without echoing it.
func ReadPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(secret), nil
}

// Confirm asks a yes/no question. An empty answer takes the default.
func Confirm(prompt string, defaultYes bool) (bool, error) {
	suffix := " [y/N]: "
	if defaultYes {
		suffix = " [Y/n]: "
	}

	answer, err := ReadLine(prompt + suffix)
	if err != nil {
		return false, err
	}

	switch strings.ToLower(answer) {
	case "":
		return defaultYes, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// TruncateString caps s at maxLen bytes, ending in "..." when something
// was cut and the limit leaves room for it.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// FormatBytes renders a byte count with a binary unit, one decimal place.
func FormatBytes(n int64) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}

	units := []string{"KB", "MB", "GB", "TB", "PB"}
	value := float64(n)
	for i, unit := range units {
		value /= 1024
		if value < 1024 || i == len(units)-1 {
			return fmt.Sprintf("%.1f %s", value, unit)
		}
	}
	return fmt.Sprintf("%d B", n)
}

// IsInteractive reports whether stdin is attached to a terminal. Prompting
// commands refuse to run in pipelines.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
