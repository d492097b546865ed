// Package backendreq builds and inspects the JSON request envelope handed
// to an external backend process: a summary of the analyzed script (agent
// types, reductions, runtime-mutation flags), the derived flame model, and
// the merged backend configuration, keyed so a generator in any language
// can consume it without linking against this compiler's Go types.
package backendreq

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/cwbudde/ablc/internal/ast"
	"github.com/cwbudde/ablc/internal/config"
	"github.com/cwbudde/ablc/internal/flame"
	"github.com/cwbudde/ablc/internal/types"
)

// Build serializes scr, model, cfg, and params into one JSON document: the
// backendreq wire contract. Values are set one key at a time with sjson,
// the same incremental shape -C/-P flags themselves arrive in.
func Build(scr *ast.Script, model *flame.Model, cfg *config.Config, params map[string]types.Value, buildID, outputDir, assetDir string) ([]byte, error) {
	doc := []byte("{}")
	var err error

	set := func(path string, value any) {
		if err != nil {
			return
		}
		doc, err = sjson.SetBytes(doc, path, value)
	}

	set("buildId", buildID)
	set("outputDir", outputDir)
	set("assetDir", assetDir)

	for i, ad := range scr.Agents {
		set(fmt.Sprintf("agents.%d.name", i), ad.Name)
		for j, m := range ad.Members {
			base := fmt.Sprintf("agents.%d.members.%d", i, j)
			set(base+".name", m.Name)
			set(base+".type", m.Type.String())
			set(base+".isPosition", m.IsPosition)
		}
	}

	for i, cd := range scr.Consts {
		base := fmt.Sprintf("consts.%d", i)
		set(base+".name", cd.Name)
		set(base+".type", cd.ResolvedType.String())
		set(base+".isParam", cd.IsParam)
		if ov, ok := params[cd.Name]; ok {
			set(base+".overrideValue", valueForJSON(ov))
		}
	}

	if env := scr.Environment; env != nil {
		set("environment.dimension", env.Dimension)
		if env.Granularity != nil {
			f, _ := env.Granularity.AsFloat()
			set("environment.granularity", f)
		}
	}

	set("flags.usesRuntimeRemoval", scr.UsesRuntimeRemoval)
	set("flags.usesRuntimeAddition", scr.UsesRuntimeAddition)
	set("flags.usesRuntimeAdditionAtDifferentPos", scr.UsesRuntimeAdditionAtDifferentPos)
	set("flags.usesLogging", scr.UsesLogging)
	set("flags.usesTiming", scr.UsesTiming)

	reductionIdx := 0
	for key := range scr.Reductions {
		base := fmt.Sprintf("reductions.%d", reductionIdx)
		set(base+".kind", reductionKindName(key.Kind))
		if key.Agent != nil {
			set(base+".agent", key.Agent.Name)
		}
		if key.Member != "" {
			set(base+".member", key.Member)
		}
		reductionIdx++
	}

	if model != nil {
		for i, msg := range model.Messages {
			base := fmt.Sprintf("flame.messages.%d", i)
			set(base+".name", msg.Name)
			for j, m := range msg.Members {
				set(fmt.Sprintf("%s.members.%d", base, j), m.Name)
			}
		}
		for i, fn := range model.Funcs {
			base := fmt.Sprintf("flame.funcs.%d", i)
			set(base+".name", fn.Name)
			set(base+".inMsg", fn.InMsgName)
			set(base+".outMsg", fn.OutMsgName)
			set(base+".currentState", fn.CurrentState)
			set(base+".nextState", fn.NextState)
			if fn.Agent != nil {
				set(base+".agent", fn.Agent.Name)
			}
		}
	}

	if cfg != nil {
		for k, v := range cfg.All() {
			set("config."+k, v)
		}
	}

	if err != nil {
		return nil, fmt.Errorf("building backend request envelope: %w", err)
	}
	return doc, nil
}

// valueForJSON renders a types.Value as a plain Go value sjson can encode
// natively, rather than forcing every override through its String() text
// form.
func valueForJSON(v types.Value) any {
	switch v.Kind {
	case types.Bool:
		return v.BoolVal
	case types.Int:
		return v.IntVal
	case types.Float:
		return v.FloatVal
	case types.String:
		return v.StringVal
	case types.Vec2:
		return []float64{v.Vec2X, v.Vec2Y}
	case types.Vec3:
		return []float64{v.Vec3X, v.Vec3Y, v.Vec3Z}
	default:
		return v.String()
	}
}

func reductionKindName(kind ast.ReductionKindTag) string {
	switch kind {
	case ast.ReduceCountType:
		return "countType"
	case ast.ReduceCountMember:
		return "countMember"
	case ast.ReduceSumMember:
		return "sumMember"
	default:
		return "unknown"
	}
}

// Get reads one field of a previously-built envelope with gjson, the path
// the tests use instead of unmarshalling the envelope into a Go struct.
func Get(doc []byte, path string) gjson.Result {
	return gjson.GetBytes(doc, path)
}
