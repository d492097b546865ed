package semantic

import (
	"testing"

	"github.com/cwbudde/ablc/internal/lexer"
	"github.com/cwbudde/ablc/internal/parser"
	"github.com/cwbudde/ablc/internal/session"
	"github.com/cwbudde/ablc/internal/types"
)

func analyze(t *testing.T, src string) *Result {
	t.Helper()
	p := parser.New(lexer.New(src))
	scr := p.Parse()
	if errs := p.Errors(); len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	return New(session.NewIDSource()).Analyze(scr)
}

const boidsFixture = `
agent Boid {
	position pos: vec2;
	vel: vec2;
}

param float radius = 5.0;

environment {
	vec2 min = [0.0, 0.0];
	vec2 max = [100.0, 100.0];
}

step function move(Boid b) {
	for (Boid other: near(b, radius)) {
		b.vel = other.vel;
	}
	b.pos = b.pos;
}

function main() {
	simulate(10; move);
}
`

func TestAnalyzeBoidsFixtureSucceeds(t *testing.T) {
	result := analyze(t, boidsFixture)
	if result.HasErrors() {
		t.Fatalf("unexpected errors: %s", result.Diagnostics.Format(false))
	}
	if len(result.Script.Agents) != 1 {
		t.Fatalf("expected 1 agent, got %d", len(result.Script.Agents))
	}

	fn := result.Script.Funcs[0]
	if fn.AccessedAgent == nil || fn.AccessedAgent.Name != "Boid" {
		t.Fatalf("expected move's AccessedAgent to resolve to Boid, got %#v", fn.AccessedAgent)
	}
	if _, ok := fn.AccessedMembers["vel"]; !ok {
		t.Errorf("expected AccessedMembers to record vel, got %v", fn.AccessedMembers)
	}
}

func TestAnalyzeUndeclaredAgentIsAnError(t *testing.T) {
	result := analyze(t, `
		step function move(Ghost g) {
		}
		function main() {
			simulate(1; move);
		}
	`)
	if !result.HasErrors() {
		t.Fatal("expected an error for a step function parameter of an undeclared agent type")
	}
}

func TestAnalyzeStepFunctionRequiresSingleAgentParam(t *testing.T) {
	result := analyze(t, `
		agent Boid { position pos: vec2; }
		step function move() {
		}
		function main() {
			simulate(1; move);
		}
	`)
	if !result.HasErrors() {
		t.Fatal("expected an error: a step function must take exactly one agent parameter")
	}
}

func TestAnalyzeTypeMismatchInAssignment(t *testing.T) {
	result := analyze(t, `
		function main() {
			int x = 1;
			x = "not an int";
		}
	`)
	if !result.HasErrors() {
		t.Fatal("expected a type error assigning a string into an int variable")
	}
}

func TestAnalyzeIntPromotesToFloat(t *testing.T) {
	result := analyze(t, `
		function main() {
			float x = 1;
		}
	`)
	if result.HasErrors() {
		t.Fatalf("int-to-float initialization should be allowed via promotion: %s", result.Diagnostics.Format(false))
	}
}

func TestAnalyzeBreakOutsideLoopIsAnError(t *testing.T) {
	result := analyze(t, `
		function main() {
			break;
		}
	`)
	if !result.HasErrors() {
		t.Fatal("expected an error for break outside any loop")
	}
}

func TestAnalyzeSimulateOutsideMainIsAnError(t *testing.T) {
	result := analyze(t, `
		step_seq function tick() {
			simulate(1; tick);
		}
		function main() {
		}
	`)
	if !result.HasErrors() {
		t.Fatal("expected an error: simulate is only legal at the top level of main")
	}
}

func TestAnalyzeUnscheduledStepFunctionIsOnlyAHint(t *testing.T) {
	result := analyze(t, `
		agent Boid { position pos: vec2; }
		environment {
			vec2 min = [0.0, 0.0];
			vec2 max = [100.0, 100.0];
			float granularity = 1.0;
		}
		step function move(Boid b) {
		}
		step function idle(Boid b) {
		}
		function main() {
			simulate(1; move);
		}
	`)
	if result.HasErrors() {
		t.Fatalf("an unscheduled step function should only produce a hint, not an error: %s", result.Diagnostics.Format(false))
	}
	hints := 0
	for _, d := range result.Diagnostics {
		if d.Severity.String() == "hint" {
			hints++
		}
	}
	if hints == 0 {
		t.Error("expected at least one hint about the unscheduled step function idle")
	}
}

func TestOverrideParamRejectsUndeclaredName(t *testing.T) {
	result := analyze(t, `
		function main() {
		}
	`)
	if err := result.OverrideParam("missing", "1"); err == nil {
		t.Fatal("expected an error overriding a name with no declared param const")
	}
}

func TestOverrideParamRejectsNonParamConst(t *testing.T) {
	result := analyze(t, `
		const int N = 10;
		function main() {
		}
	`)
	if err := result.OverrideParam("N", "5"); err == nil {
		t.Fatal("expected an error overriding a const that was not declared with param")
	}
}

func TestOverrideParamAcceptsPromotableValue(t *testing.T) {
	result := analyze(t, `
		param float radius = 5.0;
		function main() {
		}
	`)
	if err := result.OverrideParam("radius", "10"); err != nil {
		t.Fatalf("expected an int literal to promote into a float param: %v", err)
	}
	v, ok := result.ParamOverrides["radius"]
	if !ok {
		t.Fatal("expected radius to be recorded in ParamOverrides")
	}
	if v.Kind != types.Float {
		t.Errorf("expected the override to be stored as a float value, got %s", v.Kind)
	}
}

func TestOverrideParamRejectsUnparseableValue(t *testing.T) {
	result := analyze(t, `
		param int count = 1;
		function main() {
		}
	`)
	if err := result.OverrideParam("count", "not-a-number"); err == nil {
		t.Fatal("expected an error for an unparseable -P value")
	}
}

func TestOverrideParamRejectsNonPromotableValue(t *testing.T) {
	result := analyze(t, `
		param int count = 1;
		function main() {
		}
	`)
	if err := result.OverrideParam("count", "3.14"); err == nil {
		t.Fatal("expected an error assigning a float literal to an int param")
	}
}

func TestAnalyzeDuplicateAgentDeclarationIsAnError(t *testing.T) {
	result := analyze(t, `
		agent Boid { position pos: vec2; }
		agent Boid { position pos: vec2; }
		function main() {
		}
	`)
	if !result.HasErrors() {
		t.Fatal("expected an error for redeclaring the same agent name")
	}
}

func TestAnalyzeCountBuiltinResolvesPerAgent(t *testing.T) {
	result := analyze(t, `
		agent Boid { position pos: vec2; }
		environment {
			vec2 min = [0.0, 0.0];
			vec2 max = [100.0, 100.0];
			float granularity = 1.0;
		}
		step_seq function report() {
			int n = count(Boid);
		}
		function main() {
			simulate(1; report);
		}
	`)
	if result.HasErrors() {
		t.Fatalf("count(Boid) should resolve once Boid is declared: %s", result.Diagnostics.Format(false))
	}
}
