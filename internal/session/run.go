package session

import (
	"errors"
	"fmt"

	"github.com/cwbudde/ablc/internal/ast"
	"github.com/cwbudde/ablc/internal/backend"
	"github.com/cwbudde/ablc/internal/diagnostics"
	"github.com/cwbudde/ablc/internal/flame"
	"github.com/cwbudde/ablc/internal/lexer"
	"github.com/cwbudde/ablc/internal/parser"
	"github.com/cwbudde/ablc/internal/semantic"
)

var errCompileFailed = errors.New("cannot generate a backend for a script that failed analysis")

func unknownBackendError(name string) error {
	return fmt.Errorf("unknown backend %q", name)
}

// Options configures one compilation run.
type Options struct {
	Filename string
	Source   string
	// LintOnly skips flame-model derivation and backend generation: the
	// run stops once semantic analysis has produced its diagnostics.
	LintOnly bool
	// Params holds every `-P name=value` override, applied against the
	// declared param constants once analysis succeeds. An undeclared name,
	// unparseable value, or non-promotable value is reported as an error
	// diagnostic rather than aborting the run outright, so it surfaces
	// alongside any other diagnostic the script produced.
	Params map[string]string
}

// Result is everything a single compile/lint run produced, regardless of
// whether it succeeded.
type Result struct {
	Script      *ast.Script
	Analysis    *semantic.Result
	Flame       *flame.Model
	Diagnostics diagnostics.List
}

// HasErrors reports whether the run failed.
func (r *Result) HasErrors() bool { return r.Diagnostics.HasErrors() }

// Run lexes, parses, and semantically analyzes opts.Source, and — unless
// opts.LintOnly — derives the flame model. It is the single entry point
// both `ablc compile` and `ablc lint` call into, per SPEC_FULL.md §14:
// lint is compile with LintOnly forced and backend selection skipped.
func Run(opts Options) *Result {
	l := lexer.New(opts.Source)
	p := parser.New(l)
	scr := p.Parse()

	var diags diagnostics.List
	for _, e := range p.Errors() {
		diags = append(diags, diagnostics.Diagnostic{
			Severity: diagnostics.Error,
			Message:  e.Message,
			File:     opts.Filename,
			Pos:      e.Pos,
			Source:   opts.Source,
		})
	}
	if diags.HasErrors() {
		return &Result{Script: scr, Diagnostics: diags}
	}

	ids := NewIDSource()
	analyzer := semantic.New(ids)
	result := analyzer.Analyze(scr)
	for _, d := range result.Diagnostics {
		d.File = opts.Filename
		d.Source = opts.Source
		diags = append(diags, d)
	}

	for name, literal := range opts.Params {
		if result.HasErrors() {
			break
		}
		if err := result.OverrideParam(name, literal); err != nil {
			diags = append(diags, diagnostics.Diagnostic{
				Severity: diagnostics.Error,
				Message:  err.Error(),
				File:     opts.Filename,
			})
		}
	}

	out := &Result{Script: scr, Analysis: result, Diagnostics: diags}
	if opts.LintOnly || diags.HasErrors() {
		return out
	}

	out.Flame = flame.GenerateFromScript(scr)
	return out
}

// GenerateBackend hands an already-analyzed, error-free Result off to the
// named backend in reg. Returns an error if the run has unresolved errors,
// was LintOnly (and so never derived a flame model), or names an unknown
// backend — mirroring OpenABL's Cli.cpp, which refuses to invoke a
// generator over a script that failed analysis.
func GenerateBackend(r *Result, reg *backend.Registry, name string, ctx backend.Context) error {
	if r.HasErrors() {
		return errCompileFailed
	}
	if r.Flame == nil {
		return errors.New("cannot generate a backend for a lint-only run")
	}
	b, ok := reg.Get(name)
	if !ok {
		return unknownBackendError(name)
	}
	return b.Generate(r.Script, r.Flame, ctx)
}
