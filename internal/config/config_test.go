package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSetAndGetString(t *testing.T) {
	c := New()
	if got := c.GetString("missing", "default"); got != "default" {
		t.Errorf("GetString on an unset key: got %q", got)
	}
	c.Set("name", "boids")
	if got := c.GetString("name", "default"); got != "boids" {
		t.Errorf("GetString after Set: got %q", got)
	}
	if !c.Has("name") || c.Has("missing") {
		t.Error("Has did not reflect Set calls correctly")
	}
}

func TestGetBool(t *testing.T) {
	c := New()
	if v, err := c.GetBool("absent", true); err != nil || !v {
		t.Errorf("GetBool on an unset key should return the default: got %v, %v", v, err)
	}
	c.Set("verbose", "true")
	if v, err := c.GetBool("verbose", false); err != nil || !v {
		t.Errorf("GetBool(verbose) = %v, %v, want true, nil", v, err)
	}
	c.Set("verbose", "not-a-bool")
	if _, err := c.GetBool("verbose", false); err == nil {
		t.Error("GetBool should error on a present-but-invalid value rather than silently returning the default")
	}
}

func TestGetInt(t *testing.T) {
	c := New()
	c.Set("steps", "100")
	v, err := c.GetInt("steps", 0)
	if err != nil || v != 100 {
		t.Errorf("GetInt(steps) = %v, %v, want 100, nil", v, err)
	}
	c.Set("steps", "not-a-number")
	if _, err := c.GetInt("steps", 0); err == nil {
		t.Error("GetInt should error on a present-but-invalid value")
	}
}

func TestSetOverwritesPriorValue(t *testing.T) {
	c := New()
	c.Set("key", "first")
	c.Set("key", "second")
	if got := c.GetString("key", ""); got != "second" {
		t.Errorf("expected the later Set to win, got %q", got)
	}
}

func TestAllReturnsACopy(t *testing.T) {
	c := New()
	c.Set("a", "1")
	c.Set("b", "2")

	all := c.All()
	if len(all) != 2 || all["a"] != "1" || all["b"] != "2" {
		t.Fatalf("unexpected All() result: %v", all)
	}

	all["a"] = "mutated"
	if got := c.GetString("a", ""); got != "1" {
		t.Error("mutating the map returned by All() should not affect the Config")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := "numAgents: 500\nenabled: true\nname: boids\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing fixture config file: %v", err)
	}

	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got := c.GetString("name", ""); got != "boids" {
		t.Errorf("expected name=boids, got %q", got)
	}
	n, err := c.GetInt("numAgents", 0)
	if err != nil || n != 500 {
		t.Errorf("expected numAgents=500, got %v, %v", n, err)
	}
	enabled, err := c.GetBool("enabled", false)
	if err != nil || !enabled {
		t.Errorf("expected enabled=true, got %v, %v", enabled, err)
	}
}

func TestLoadFileMissingPath(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "does-not-exist.yaml")); err == nil {
		t.Error("expected an error reading a nonexistent config file")
	}
}
