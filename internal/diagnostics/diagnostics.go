// Package diagnostics renders compiler diagnostics (lexical, parse, and
// semantic) with source-line context and an optional caret, generalizing
// the teacher's CompilerError/FormatErrors pair to a single Diagnostic type
// shared by every pipeline stage instead of one ad hoc error type per
// stage.
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/cwbudde/ablc/internal/token"
)

// Severity distinguishes a hard failure from an informational hint. Only
// Error-severity diagnostics make a compilation fail (spec invariant:
// compilation aborts only on a nonzero *error* count, hints are advisory).
type Severity int

const (
	Error Severity = iota
	Hint
)

func (s Severity) String() string {
	if s == Hint {
		return "hint"
	}
	return "error"
}

// Diagnostic is one reported problem.
type Diagnostic struct {
	Severity Severity
	Message  string
	File     string
	Pos      token.Position
	Source   string // the full source text, for snippet rendering; may be empty
}

// Format renders d as "<message> on line <N>" (the wire format spec.md §6
// mandates for stderr output; a hint gets a "Hint: " prefix) when Source is
// empty, or as a richer source-snippet-plus-caret block when Source is
// available.
func (d Diagnostic) Format(color bool) string {
	if d.Source == "" {
		if d.Severity == Hint {
			return fmt.Sprintf("Hint: %s on line %d", d.Message, d.Pos.Line)
		}
		return fmt.Sprintf("%s on line %d", d.Message, d.Pos.Line)
	}

	var sb strings.Builder
	if d.File != "" {
		fmt.Fprintf(&sb, "%s in %s:%d:%d\n", strings.Title(d.Severity.String()), d.File, d.Pos.Line, d.Pos.Column)
	} else {
		fmt.Fprintf(&sb, "%s at line %d:%d\n", strings.Title(d.Severity.String()), d.Pos.Line, d.Pos.Column)
	}

	lines := strings.Split(d.Source, "\n")
	if d.Pos.Line >= 1 && d.Pos.Line <= len(lines) {
		lineNumStr := fmt.Sprintf("%4d | ", d.Pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(lines[d.Pos.Line-1])
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+d.Pos.Column-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(d.Message)
	if color {
		sb.WriteString("\033[0m")
	}
	return sb.String()
}

// ColorEnabled reports whether diagnostics written to fd (an *os.File's
// file descriptor) should use ANSI color, based on whether fd is a
// terminal — this is what lets the CLI default to color-when-a-human-is-
// watching without the user having to remember a flag.
func ColorEnabled(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// List is a collection of diagnostics with helpers mirroring the teacher's
// FormatErrors for multi-error reporting.
type List []Diagnostic

// Errors returns only the Error-severity diagnostics.
func (l List) Errors() List {
	var out List
	for _, d := range l {
		if d.Severity == Error {
			out = append(out, d)
		}
	}
	return out
}

// HasErrors reports whether l contains any Error-severity diagnostic.
func (l List) HasErrors() bool { return len(l.Errors()) > 0 }

// Format renders every diagnostic in l, numbering them when there is more
// than one.
func (l List) Format(color bool) string {
	if len(l) == 0 {
		return ""
	}
	if len(l) == 1 {
		return l[0].Format(color)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "compilation reported %d diagnostic(s):\n\n", len(l))
	for i, d := range l {
		fmt.Fprintf(&sb, "[%d of %d]\n", i+1, len(l))
		sb.WriteString(d.Format(color))
		if i < len(l)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}
