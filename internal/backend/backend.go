// Package backend defines the contract between the analyzed front end and
// the (external, per spec.md §4.5 a Non-goal to implement in-tree) code
// generators named on the command line: Backend.Generate receives an
// analyzed script, its derived flame model, and the merged -C/--config-file
// configuration, and is responsible for handing that off to its target.
// Only debugdump builds and writes a backendreq envelope; every other named
// backend's Generate returns an error and writes nothing.
package backend

import (
	"fmt"

	"github.com/cwbudde/ablc/internal/ast"
	"github.com/cwbudde/ablc/internal/config"
	"github.com/cwbudde/ablc/internal/flame"
	"github.com/cwbudde/ablc/internal/types"
)

// Context is everything a Backend needs besides the script/model: the
// directories OpenABL's Cli.cpp threads through as -o/-A, the merged
// configuration, and any `-P` param overrides resolved against the script's
// declared param constants.
type Context struct {
	OutputDir string
	AssetDir  string
	Config    *config.Config
	Params    map[string]types.Value
	BuildID   string
}

// Backend generates (or, for every non-debugdump backend, hands off to an
// external process) output for one analyzed script.
type Backend interface {
	Generate(scr *ast.Script, model *flame.Model, ctx Context) error
}

// Registry is the set of backend names ablc accepts on -b/--backend,
// mirroring OpenABL's Cli.cpp dispatch (`c`, `flame`, `flamegpu`, `mason`,
// `mason2`, `dmason`), plus the in-tree debugdump backend this rewrite adds
// to exercise the backendreq envelope without an external process.
type Registry struct {
	backends map[string]Backend
}

// NewRegistry returns a Registry with every OpenABL backend name registered
// to a placeholder that reports the hand-off point to an (out of scope)
// external generator. The caller additionally registers "debugdump" (see
// internal/backend/debugdump) — that package imports this one, so it
// cannot be registered from here without an import cycle.
func NewRegistry() *Registry {
	r := &Registry{backends: map[string]Backend{}}
	for _, name := range []string{"c", "flame", "flamegpu", "mason", "mason2", "dmason"} {
		r.backends[name] = externalBackend{name: name}
	}
	return r
}

// Register adds or replaces the Backend for name.
func (r *Registry) Register(name string, b Backend) {
	r.backends[name] = b
}

// Get resolves name to its Backend.
func (r *Registry) Get(name string) (Backend, bool) {
	b, ok := r.backends[name]
	return b, ok
}

// Names returns every registered backend name, for CLI help/usage text.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	return names
}

// externalBackend is the placeholder Generate implementation for every
// named backend whose actual code generation is an external collaborator
// per spec.md §4.5 — it only reports that the hand-off point was reached,
// since emitting C/FLAME GPU/MASON project trees is explicitly out of
// scope for this front end.
type externalBackend struct{ name string }

func (b externalBackend) Generate(scr *ast.Script, model *flame.Model, ctx Context) error {
	return fmt.Errorf("backend %q is generated by an external process; this front end only prepares its request envelope", b.name)
}
