package session

import (
	"testing"

	"github.com/cwbudde/ablc/internal/backend"
)

func TestRunSucceedsAndDerivesFlameModel(t *testing.T) {
	r := Run(Options{Filename: "boids.abl", Source: `
		agent Boid {
			position pos: vec2;
			vel: vec2;
		}
		environment {
			vec2 min = [0.0, 0.0];
			vec2 max = [100.0, 100.0];
			float granularity = 1.0;
		}
		step function move(Boid b) {
			b.pos = b.pos;
		}
		function main() {
			simulate(10; move);
		}
	`})
	if r.HasErrors() {
		t.Fatalf("unexpected errors: %s", r.Diagnostics.Format(false))
	}
	if r.Flame == nil || len(r.Flame.Funcs) == 0 {
		t.Fatal("expected a derived flame model")
	}
}

func TestRunReportsParseErrorsWithoutRunningAnalysis(t *testing.T) {
	r := Run(Options{Filename: "broken.abl", Source: `agent { }`})
	if !r.HasErrors() {
		t.Fatal("expected a parse error to surface")
	}
	if r.Analysis != nil {
		t.Error("analysis should not run when parsing already failed")
	}
}

func TestRunReportsSemanticErrors(t *testing.T) {
	r := Run(Options{Filename: "bad.abl", Source: `
		function main() {
			int x = "not an int";
		}
	`})
	if !r.HasErrors() {
		t.Fatal("expected a semantic error")
	}
	if r.Flame != nil {
		t.Error("a failed run should not derive a flame model")
	}
}

func TestRunLintOnlySkipsFlameDerivation(t *testing.T) {
	r := Run(Options{
		Filename: "boids.abl",
		LintOnly: true,
		Source: `
			agent Boid { position pos: vec2; }
			environment {
				vec2 min = [0.0, 0.0];
				vec2 max = [100.0, 100.0];
				float granularity = 1.0;
			}
			step function move(Boid b) {
				b.pos = b.pos;
			}
			function main() {
				simulate(10; move);
			}
		`,
	})
	if r.HasErrors() {
		t.Fatalf("unexpected errors: %s", r.Diagnostics.Format(false))
	}
	if r.Flame != nil {
		t.Error("LintOnly should skip flame model derivation")
	}
}

func TestRunAppliesParamOverrides(t *testing.T) {
	r := Run(Options{
		Filename: "params.abl",
		Params:   map[string]string{"radius": "7.5"},
		Source: `
			param float radius = 5.0;
			function main() {
			}
		`,
	})
	if r.HasErrors() {
		t.Fatalf("unexpected errors: %s", r.Diagnostics.Format(false))
	}
	v, ok := r.Analysis.ParamOverrides["radius"]
	if !ok {
		t.Fatal("expected radius to be recorded in ParamOverrides")
	}
	if f, _ := v.AsFloat(); f != 7.5 {
		t.Errorf("radius override = %v, want 7.5", f)
	}
}

func TestRunReportsBadParamOverrideAsDiagnostic(t *testing.T) {
	r := Run(Options{
		Filename: "params.abl",
		Params:   map[string]string{"missing": "1"},
		Source: `
			function main() {
			}
		`,
	})
	if !r.HasErrors() {
		t.Fatal("expected an error for overriding an undeclared param")
	}
}

func TestGenerateBackendFailsForScriptWithErrors(t *testing.T) {
	r := Run(Options{Source: `agent { }`})
	if err := GenerateBackend(r, backend.NewRegistry(), "debugdump", backend.Context{}); err == nil {
		t.Fatal("expected GenerateBackend to refuse a failed run")
	}
}

func TestGenerateBackendFailsForUnknownBackendName(t *testing.T) {
	r := Run(Options{Source: `
		function main() {
		}
	`})
	if r.HasErrors() {
		t.Fatalf("unexpected errors: %s", r.Diagnostics.Format(false))
	}
	if err := GenerateBackend(r, backend.NewRegistry(), "nonexistent", backend.Context{}); err == nil {
		t.Fatal("expected GenerateBackend to refuse an unknown backend name")
	}
}
