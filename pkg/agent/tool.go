package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gecBurton/dosac/pkg/llm"

	"github.com/google/uuid"
)

// Tool is one capability the model may invoke. The set of tools is closed:
// new capabilities are added as new implementations, never registered at
// runtime.
type Tool interface {
	Name() string
	Definition() llm.ToolDef

	// Invoke runs the tool for the given caller. It returns display text
	// for the model plus structured artifacts for citation derivation.
	Invoke(ctx context.Context, userID uuid.UUID, args json.RawMessage) (string, []Artifact, error)
}

// Toolset is an ordered, closed collection of tools.
type Toolset struct {
	tools  []Tool
	byName map[string]Tool
}

func NewToolset(tools ...Tool) *Toolset {
	ts := &Toolset{
		byName: make(map[string]Tool, len(tools)),
	}
	for _, t := range tools {
		ts.tools = append(ts.tools, t)
		ts.byName[t.Name()] = t
	}
	return ts
}

func (ts *Toolset) Definitions() []llm.ToolDef {
	defs := make([]llm.ToolDef, len(ts.tools))
	for i, t := range ts.tools {
		defs[i] = t.Definition()
	}
	return defs
}

func (ts *Toolset) Get(name string) (Tool, error) {
	t, ok := ts.byName[name]
	if !ok {
		return nil, fmt.Errorf("unknown tool %q", name)
	}
	return t, nil
}
