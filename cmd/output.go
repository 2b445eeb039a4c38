package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// StatusLinePrinter provides printing facilities for dynamically updating
// status lines in the console. It supports colorized printing.
type StatusLinePrinter struct {
	// UseStandardError causes the printer to use standard error for its output
	// instead of standard output (the default).
	UseStandardError bool
	// nonEmpty indicates whether or not the printer has printed any non-empty
	// content to the status line.
	nonEmpty bool
}

// width returns the current width of the printer's output terminal, querying
// the OS if the stream is a terminal and falling back to
// defaultStatusLineWidth otherwise (e.g. output redirected to a file or a
// scan running inside CI).
func (p *StatusLinePrinter) width() int {
	fd := os.Stdout.Fd()
	if p.UseStandardError {
		fd = os.Stderr.Fd()
	}
	if w, _, err := term.GetSize(int(fd)); err == nil && w > 0 {
		return w
	}
	return defaultStatusLineWidth
}

// Print prints a message to the status line, overwriting any existing content.
// Color escape sequences are supported. Messages are truncated to the current
// terminal width (or a platform-dependent default if that width can't be
// determined) and right-padded with spaces so that stale content from the
// previous message is fully overwritten.
func (p *StatusLinePrinter) Print(message string) {
	// Determine output stream.
	output := color.Output
	if p.UseStandardError {
		output = color.Error
	}

	// Print the message, prefixed with a carriage return to wipe out the
	// previous line (if any), truncated or right-padded with spaces to the
	// terminal width.
	width := p.width()
	fmt.Fprintf(output, "\r%-*.*s", width, width, message)

	// Update our non-empty status. We're always non-empty after printing
	// because we print padding as well.
	p.nonEmpty = true
}

// Clear clears any content on the status line and moves the cursor back to the
// beginning of the line.
func (p *StatusLinePrinter) Clear() {
	// Write over any existing data.
	p.Print("")

	// Determine output stream.
	output := os.Stdout
	if p.UseStandardError {
		output = os.Stderr
	}

	// Wipe out any existing line.
	fmt.Fprint(output, "\r")

	// Update our non-empty status.
	p.nonEmpty = false
}

// BreakIfNonEmpty prints a newline character if the current line is non-empty.
func (p *StatusLinePrinter) BreakIfNonEmpty() {
	// If the status line contents are non-empty, then print a newline and mark
	// ourselves as empty.
	if p.nonEmpty {
		// Determine output stream.
		output := os.Stdout
		if p.UseStandardError {
			output = os.Stderr
		}

		// Print a line break.
		fmt.Fprintln(output)

		// Update our non-empty status.
		p.nonEmpty = false
	}
}
