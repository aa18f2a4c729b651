// Package citation derives source citations for an answer and renders
// them as Markdown footnotes.
package citation

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gecBurton/dosac/pkg/agent"
	"github.com/gecBurton/dosac/pkg/llm"
)

// Citation ties an exact span of the answer to the exact span of a source
// that supports it. Index is the 1-based footnote number assigned at
// derivation time.
type Citation struct {
	TextInAnswer string `json:"text_in_answer"`
	TextInSource string `json:"text_in_source"`
	Reference    string `json:"reference"`

	Index int `json:"-"`
}

const derivePromptFormat = "Given a response to a question and the sources that support it " +
	"determine which parts of the response are supported by source " +
	"there is likely to be more than one part of the response to find a source for." +
	"\n\nHere is the response: %s" +
	"\n\nHere are the supporting source: %s" +
	"Do not guess or invent citations!"

type Deriver struct {
	provider llm.Provider
}

func NewDeriver(provider llm.Provider) *Deriver {
	return &Deriver{provider: provider}
}

// Derive asks the model which spans of the answer are supported by the
// given artifacts. With no artifacts there is nothing to cite and no model
// call is made. The result carries 1-based indexes in model order.
func (d *Deriver) Derive(ctx context.Context, answer string, artifacts []agent.Artifact) ([]Citation, error) {
	if len(artifacts) == 0 {
		return nil, nil
	}

	encoded, err := json.Marshal(artifacts)
	if err != nil {
		return nil, fmt.Errorf("encoding artifacts: %w", err)
	}

	messages := []llm.Message{{
		Role:    llm.RoleSystem,
		Content: fmt.Sprintf(derivePromptFormat, answer, string(encoded)),
	}}

	raw, err := d.provider.Structured(ctx, messages, "citation_list", citationListSchema())
	if err != nil {
		return nil, fmt.Errorf("deriving citations: %w", err)
	}

	var parsed struct {
		Citations []Citation `json:"citations"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decoding citations: %w", err)
	}

	for i := range parsed.Citations {
		parsed.Citations[i].Index = i + 1
	}
	return parsed.Citations, nil
}

func citationListSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"citations": map[string]interface{}{
				"type":        "array",
				"description": "a list of citations that support the response",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"text_in_answer": map[string]interface{}{
							"type":        "string",
							"description": "Exact part of text from `answer` that references a source, include formatting.",
						},
						"text_in_source": map[string]interface{}{
							"type":        "string",
							"description": "Exact part of text from `source` that supports the `answer`",
						},
						"reference": map[string]interface{}{
							"type":        "string",
							"description": "reference to the source, could be a file-name, url or uri",
						},
					},
					"required": []string{"text_in_answer", "text_in_source", "reference"},
				},
			},
		},
		"required": []string{"citations"},
	}
}
