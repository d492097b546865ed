package debugdump

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/ablc/internal/ast"
	"github.com/cwbudde/ablc/internal/backend"
	"github.com/cwbudde/ablc/internal/backend/backendreq"
	"github.com/cwbudde/ablc/internal/flame"
)

func TestRegisterAddsDebugdumpBackend(t *testing.T) {
	r := backend.NewRegistry()
	Register(r)
	b, ok := r.Get(Name)
	if !ok {
		t.Fatal("expected debugdump to be registered")
	}
	if _, ok := b.(Backend); !ok {
		t.Errorf("expected the registered backend to be a debugdump.Backend, got %T", b)
	}
}

func TestGenerateWritesEnvelopeToOutputDir(t *testing.T) {
	dir := t.TempDir()
	scr := ast.NewScript()
	scr.Agents = append(scr.Agents, &ast.AgentDecl{Name: "Boid"})

	ctx := backend.Context{OutputDir: dir, BuildID: "test-build"}
	if err := (Backend{}).Generate(scr, &flame.Model{}, ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path := filepath.Join(dir, "debugdump.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected debugdump.json to be written: %v", err)
	}
	if got := backendreq.Get(data, "buildId").String(); got != "test-build" {
		t.Errorf("buildId = %q, want test-build", got)
	}
	if got := backendreq.Get(data, "agents.0.name").String(); got != "Boid" {
		t.Errorf("agents.0.name = %q, want Boid", got)
	}
}

func TestGenerateWithEmptyOutputDirSkipsWrite(t *testing.T) {
	scr := ast.NewScript()
	if err := (Backend{}).Generate(scr, &flame.Model{}, backend.Context{}); err != nil {
		t.Fatalf("unexpected error with no output directory: %v", err)
	}
}

func TestGenerateCreatesOutputDirIfMissing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	scr := ast.NewScript()
	ctx := backend.Context{OutputDir: dir}
	if err := (Backend{}).Generate(scr, &flame.Model{}, ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "debugdump.json")); err != nil {
		t.Errorf("expected debugdump.json to exist under the created directory: %v", err)
	}
}
