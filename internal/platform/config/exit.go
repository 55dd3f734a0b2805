package config

import (
	"fmt"
	"os"
)

// ExitInvalid is the exit status used when a command completed but its
// result is not acceptable (for example a character with Error findings).
const ExitInvalid = 2

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	ExitCodef(1, format, args...)
}

// ExitCodef writes a formatted message to stderr and exits with code.
func ExitCodef(code int, format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(code)
}
