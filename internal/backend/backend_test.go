package backend

import (
	"testing"

	"github.com/cwbudde/ablc/internal/ast"
	"github.com/cwbudde/ablc/internal/flame"
)

func TestNewRegistryRegistersEveryOpenABLBackendName(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"c", "flame", "flamegpu", "mason", "mason2", "dmason"} {
		if _, ok := r.Get(name); !ok {
			t.Errorf("expected backend %q to be registered", name)
		}
	}
	if _, ok := r.Get("debugdump"); ok {
		t.Error("debugdump must not be pre-registered, to avoid an import cycle with its own package")
	}
}

func TestExternalBackendGenerateReportsHandoff(t *testing.T) {
	r := NewRegistry()
	b, ok := r.Get("flame")
	if !ok {
		t.Fatal("expected the flame backend to be registered")
	}
	err := b.Generate(ast.NewScript(), &flame.Model{}, Context{})
	if err == nil {
		t.Fatal("expected an error: external backends only report the hand-off point")
	}
}

func TestRegistryRegisterOverridesExistingEntry(t *testing.T) {
	r := NewRegistry()
	r.Register("flame", stubBackend{})
	b, ok := r.Get("flame")
	if !ok {
		t.Fatal("expected flame to still resolve after Register")
	}
	if err := b.Generate(nil, nil, Context{}); err != nil {
		t.Errorf("expected the stub backend to succeed, got %v", err)
	}
}

func TestRegistryGetUnknownNameFails(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.Get("nonexistent"); ok {
		t.Error("expected Get to fail for an unregistered name")
	}
}

func TestRegistryNamesIncludesEveryRegisteredBackend(t *testing.T) {
	r := NewRegistry()
	names := map[string]bool{}
	for _, n := range r.Names() {
		names[n] = true
	}
	for _, want := range []string{"c", "flame", "flamegpu", "mason", "mason2", "dmason"} {
		if !names[want] {
			t.Errorf("expected Names() to include %q, got %v", want, r.Names())
		}
	}
}

type stubBackend struct{}

func (stubBackend) Generate(scr *ast.Script, model *flame.Model, ctx Context) error {
	return nil
}
