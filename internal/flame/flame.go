// Package flame derives the FLAME/FLAME GPU agent-communication model — the
// Message/Func graph the flame and flamegpu backends compile against — from
// an analyzed Script. A step function that reads another agent's members
// gets a synthesized "_gen" message-producing function ahead of it; every
// function transitions its agent from one numbered state to the next, so
// the sequence of scheduled step functions becomes a FLAME state machine.
package flame

import (
	"strconv"

	"github.com/cwbudde/ablc/internal/ast"
)

// Message is one FLAME message type: the position member (always present,
// since distance comparisons need it) plus every member a step function's
// body actually reads off the agent it iterates with near().
type Message struct {
	Name    string
	Members []ast.AgentMemberDecl
}

// Func is one FLAME transition function. InMsgName/OutMsgName are empty
// when the function doesn't consume/produce a message. AddedAgent is set
// when the step function that Func wraps may add a new agent of that type.
type Func struct {
	Name         string
	InMsgName    string
	OutMsgName   string
	CurrentState string
	NextState    string
	Agent        *ast.AgentDecl
	StepFunc     *ast.FuncDecl
	AddedAgent   *ast.AgentDecl
}

// Model is the complete derived FLAME model for one script.
type Model struct {
	Messages []Message
	Funcs    []Func
}

// MessageByName finds a message by name, or reports ok=false.
func (m *Model) MessageByName(name string) (Message, bool) {
	for _, msg := range m.Messages {
		if msg.Name == name {
			return msg, true
		}
	}
	return Message{}, false
}

// stateName renders a per-agent state counter the way FLAME state machines
// name their initial state: 0 is "start", every state after is its ordinal.
func stateName(n uint) string {
	if n == 0 {
		return "start"
	}
	return strconv.FormatUint(uint64(n), 10)
}

// GenerateFromScript builds the Model for scr's scheduled step functions.
// A script with no main, or whose main never calls simulate, yields an
// empty Model — there is nothing to schedule, so nothing to derive.
func GenerateFromScript(scr *ast.Script) *Model {
	model := &Model{}
	if scr.Main == nil || scr.Main.SimulateStmtID == ast.InvalidStmt {
		return model
	}
	sim, ok := scr.Stmt(scr.Main.SimulateStmtID).(*ast.SimulateStmt)
	if !ok {
		return model
	}

	numStates := map[*ast.AgentDecl]uint{}
	nextState := func(decl *ast.AgentDecl) (cur, next string) {
		n := numStates[decl]
		cur, next = stateName(n), stateName(n+1)
		numStates[decl] = n + 1
		return
	}

	for _, fd := range sim.StepFuncDecls {
		stepAgent := fd.AccessedAgent
		if stepAgent == nil {
			continue
		}

		var msgName string
		msg := Message{Name: fd.Name + "_message"}
		for _, member := range stepAgent.Members {
			_, read := fd.AccessedMembers[member.Name]
			if member.IsPosition || read {
				msg.Members = append(msg.Members, member)
			}
		}
		if len(msg.Members) > 0 {
			msgName = msg.Name
			model.Messages = append(model.Messages, msg)

			cur, next := nextState(stepAgent)
			model.Funcs = append(model.Funcs, Func{
				Name:         fd.Name + "_gen",
				OutMsgName:   msgName,
				Agent:        stepAgent,
				CurrentState: cur,
				NextState:    next,
			})
		}

		cur, next := nextState(stepAgent)
		model.Funcs = append(model.Funcs, Func{
			Name:         fd.Name,
			InMsgName:    msgName,
			Agent:        stepAgent,
			StepFunc:     fd,
			AddedAgent:   fd.RuntimeAddedAgent,
			CurrentState: cur,
			NextState:    next,
		})
	}

	return model
}

// UnpackedMember is one flattened scalar field of an unpacked FLAME member
// list: FLAME/FLAME GPU agent members cannot themselves be vectors or
// booleans, so a vec2/vec3 member expands into 2-3 named scalars and a bool
// member becomes a single int of the same name.
type UnpackedMember struct {
	Name string
	Type string // "int", "float", or "double"
}

// UnpackedMembers flattens members into FLAME's scalar member model.
// useFloat selects "float" over "double" for floating members; forGpu
// additionally forces the position member to exactly x/y/z (FLAME GPU
// always represents agent position in 3D, even for a 2D environment).
func UnpackedMembers(members []ast.AgentMemberDecl, useFloat, forGpu bool) []UnpackedMember {
	result := make([]UnpackedMember, 0, len(members))
	for _, m := range members {
		result = append(result, unpackOne(m, useFloat, forGpu)...)
	}
	return result
}

func unpackOne(m ast.AgentMemberDecl, useFloat, forGpu bool) []UnpackedMember {
	floatType := "double"
	if useFloat {
		floatType = "float"
	}

	if forGpu && m.IsPosition {
		return []UnpackedMember{
			{Name: "x", Type: floatType},
			{Name: "y", Type: floatType},
			{Name: "z", Type: floatType},
		}
	}

	switch m.Type.Kind.String() {
	case "bool":
		return []UnpackedMember{{Name: m.Name, Type: "int"}}
	case "int":
		return []UnpackedMember{{Name: m.Name, Type: "int"}}
	case "float":
		return []UnpackedMember{{Name: m.Name, Type: floatType}}
	case "vec2":
		return []UnpackedMember{
			{Name: m.Name + "_x", Type: floatType},
			{Name: m.Name + "_y", Type: floatType},
		}
	case "vec3":
		return []UnpackedMember{
			{Name: m.Name + "_x", Type: floatType},
			{Name: m.Name + "_y", Type: floatType},
			{Name: m.Name + "_z", Type: floatType},
		}
	default:
		return nil
	}
}
