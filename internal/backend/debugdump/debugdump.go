// Package debugdump implements backend.Backend by writing the backendreq
// envelope to disk instead of handing it to an external process — the one
// backend this front end actually executes in-tree, used by `ablc compile
// -b debugdump` and by tests that need to assert on the envelope shape
// without spawning a generator.
package debugdump

import (
	"os"
	"path/filepath"

	"github.com/cwbudde/ablc/internal/ast"
	"github.com/cwbudde/ablc/internal/backend"
	"github.com/cwbudde/ablc/internal/backend/backendreq"
	"github.com/cwbudde/ablc/internal/flame"
)

// Name is the backend identifier this package registers itself under.
const Name = "debugdump"

// Backend writes the backendreq envelope as <OutputDir>/debugdump.json.
type Backend struct{}

// Register adds Backend to r under Name.
func Register(r *backend.Registry) {
	r.Register(Name, Backend{})
}

// Generate implements backend.Backend.
func (Backend) Generate(scr *ast.Script, model *flame.Model, ctx backend.Context) error {
	doc, err := backendreq.Build(scr, model, ctx.Config, ctx.Params, ctx.BuildID, ctx.OutputDir, ctx.AssetDir)
	if err != nil {
		return err
	}
	if ctx.OutputDir == "" {
		return nil
	}
	if err := os.MkdirAll(ctx.OutputDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(ctx.OutputDir, "debugdump.json"), doc, 0o644)
}
