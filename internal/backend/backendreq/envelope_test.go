package backendreq

import (
	"testing"

	"github.com/cwbudde/ablc/internal/ast"
	"github.com/cwbudde/ablc/internal/config"
	"github.com/cwbudde/ablc/internal/flame"
	"github.com/cwbudde/ablc/internal/types"
)

func TestBuildEncodesAgentsAndMembers(t *testing.T) {
	scr := ast.NewScript()
	scr.Agents = append(scr.Agents, &ast.AgentDecl{
		Name: "Boid",
		Members: []ast.AgentMemberDecl{
			{Name: "pos", Type: types.TVec2, IsPosition: true},
			{Name: "speed", Type: types.TFloat},
		},
	})

	doc, err := Build(scr, nil, nil, nil, "build-1", "/out", "/assets")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := Get(doc, "buildId").String(); got != "build-1" {
		t.Errorf("buildId = %q, want build-1", got)
	}
	if got := Get(doc, "outputDir").String(); got != "/out" {
		t.Errorf("outputDir = %q, want /out", got)
	}
	if got := Get(doc, "agents.0.name").String(); got != "Boid" {
		t.Errorf("agents.0.name = %q, want Boid", got)
	}
	if got := Get(doc, "agents.0.members.0.name").String(); got != "pos" {
		t.Errorf("agents.0.members.0.name = %q, want pos", got)
	}
	if !Get(doc, "agents.0.members.0.isPosition").Bool() {
		t.Error("expected agents.0.members.0.isPosition to be true")
	}
	if Get(doc, "agents.0.members.1.isPosition").Bool() {
		t.Error("expected agents.0.members.1.isPosition (speed) to be false")
	}
}

func TestBuildEncodesParamOverride(t *testing.T) {
	scr := ast.NewScript()
	scr.Consts = append(scr.Consts, &ast.ConstDecl{
		Name:         "radius",
		ResolvedType: types.TFloat,
		IsParam:      true,
	})
	params := map[string]types.Value{"radius": types.FloatValue(7.5)}

	doc, err := Build(scr, nil, nil, params, "", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := Get(doc, "consts.0.overrideValue").Float(); got != 7.5 {
		t.Errorf("consts.0.overrideValue = %v, want 7.5", got)
	}
	if !Get(doc, "consts.0.isParam").Bool() {
		t.Error("expected consts.0.isParam to be true")
	}
}

func TestBuildEncodesEnvironmentAndFlags(t *testing.T) {
	scr := ast.NewScript()
	gran := types.FloatValue(2.0)
	scr.Environment = &ast.EnvironmentDecl{Dimension: 2, Granularity: &gran}
	scr.UsesRuntimeRemoval = true
	scr.UsesLogging = true

	doc, err := Build(scr, nil, nil, nil, "", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := Get(doc, "environment.dimension").Int(); got != 2 {
		t.Errorf("environment.dimension = %v, want 2", got)
	}
	if got := Get(doc, "environment.granularity").Float(); got != 2.0 {
		t.Errorf("environment.granularity = %v, want 2.0", got)
	}
	if !Get(doc, "flags.usesRuntimeRemoval").Bool() {
		t.Error("expected flags.usesRuntimeRemoval to be true")
	}
	if !Get(doc, "flags.usesLogging").Bool() {
		t.Error("expected flags.usesLogging to be true")
	}
	if Get(doc, "flags.usesTiming").Bool() {
		t.Error("expected flags.usesTiming to default to false")
	}
}

func TestBuildEncodesReductions(t *testing.T) {
	scr := ast.NewScript()
	boid := &ast.AgentDecl{Name: "Boid"}
	scr.Agents = append(scr.Agents, boid)
	scr.Reductions[ast.ReductionKey{Kind: ast.ReduceCountType, Agent: boid}] = struct{}{}

	doc, err := Build(scr, nil, nil, nil, "", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := Get(doc, "reductions.0.kind").String(); got != "countType" {
		t.Errorf("reductions.0.kind = %q, want countType", got)
	}
	if got := Get(doc, "reductions.0.agent").String(); got != "Boid" {
		t.Errorf("reductions.0.agent = %q, want Boid", got)
	}
}

func TestBuildEncodesFlameModel(t *testing.T) {
	scr := ast.NewScript()
	model := &flame.Model{
		Messages: []flame.Message{{Name: "move_message", Members: []ast.AgentMemberDecl{{Name: "pos"}}}},
		Funcs: []flame.Func{{
			Name: "move_gen", OutMsgName: "move_message",
			CurrentState: "start", NextState: "1",
		}},
	}

	doc, err := Build(scr, model, nil, nil, "", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := Get(doc, "flame.messages.0.name").String(); got != "move_message" {
		t.Errorf("flame.messages.0.name = %q, want move_message", got)
	}
	if got := Get(doc, "flame.funcs.0.outMsg").String(); got != "move_message" {
		t.Errorf("flame.funcs.0.outMsg = %q, want move_message", got)
	}
}

func TestBuildEncodesConfig(t *testing.T) {
	scr := ast.NewScript()
	cfg := config.New()
	cfg.Set("verbose", "true")

	doc, err := Build(scr, nil, cfg, nil, "", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := Get(doc, "config.verbose").String(); got != "true" {
		t.Errorf("config.verbose = %q, want true", got)
	}
}
