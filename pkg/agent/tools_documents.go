package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gecBurton/dosac/pkg/embedding"
	"github.com/gecBurton/dosac/pkg/llm"

	"github.com/google/uuid"
)

// SearchDocumentsTool finds the caller's nearest document chunks for a
// query.
type SearchDocumentsTool struct {
	Embedder embedding.Provider
	Gateway  Gateway
}

func (t *SearchDocumentsTool) Name() string { return "search_documents" }

func (t *SearchDocumentsTool) Definition() llm.ToolDef {
	return llm.ToolDef{
		Name:        t.Name(),
		Description: "search the user's own documents for relevant sections",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "what to look for",
				},
				"top_k_results": map[string]interface{}{
					"type":        "integer",
					"description": "how many sections to return, defaults to 3",
				},
			},
			"required": []string{"query"},
		},
	}
}

func (t *SearchDocumentsTool) Invoke(ctx context.Context, userID uuid.UUID, args json.RawMessage) (string, []Artifact, error) {
	var params struct {
		Query      string `json:"query"`
		TopKResult int    `json:"top_k_results"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return "", nil, fmt.Errorf("invalid arguments: %w", err)
	}
	if params.TopKResult <= 0 {
		params.TopKResult = 3
	}

	vector, err := t.Embedder.EmbedQuery(ctx, params.Query)
	if err != nil {
		return "", nil, err
	}

	results, err := t.Gateway.SearchChunks(ctx, userID, vector, params.TopKResult)
	if err != nil {
		return "", nil, err
	}

	texts := make([]string, len(results))
	artifacts := make([]Artifact, len(results))
	for i, r := range results {
		texts[i] = r.Text
		artifacts[i] = Artifact{
			Text:      r.Text,
			Reference: r.Reference,
			Title:     r.DocumentName,
			Index:     r.Index,
		}
	}
	return strings.Join(texts, "\n\n"), artifacts, nil
}

// ListDocumentsTool returns the caller's documents by exact name.
type ListDocumentsTool struct {
	Gateway Gateway
}

func (t *ListDocumentsTool) Name() string { return "list_documents" }

func (t *ListDocumentsTool) Definition() llm.ToolDef {
	return llm.ToolDef{
		Name:        t.Name(),
		Description: "returns a list of the user's documents by exact name, with status",
		Parameters: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
	}
}

func (t *ListDocumentsTool) Invoke(ctx context.Context, userID uuid.UUID, args json.RawMessage) (string, []Artifact, error) {
	documents, err := t.Gateway.ListDocuments(ctx, userID)
	if err != nil {
		return "", nil, err
	}

	lines := make([]string, len(documents))
	artifacts := make([]Artifact, len(documents))
	for i, d := range documents {
		lines[i] = fmt.Sprintf("%s (%s)", d.Name, d.Status)
		artifacts[i] = Artifact{
			Text:      d.Name,
			Reference: d.URI,
			Title:     d.Name,
		}
	}
	return strings.Join(lines, "\n"), artifacts, nil
}

// DeleteDocumentTool deletes one of the caller's documents by exact name.
// The name is validated against a freshly queried allow-list so the model
// cannot act on names that do not exist for this user.
type DeleteDocumentTool struct {
	Gateway Gateway
}

func (t *DeleteDocumentTool) Name() string { return "delete_document" }

func (t *DeleteDocumentTool) Definition() llm.ToolDef {
	return llm.ToolDef{
		Name:        t.Name(),
		Description: "delete a document given its exact_document_name; on a miss the valid names are returned",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"exact_document_name": map[string]interface{}{
					"type":        "string",
					"description": "the exact file name of the document to delete",
				},
			},
			"required": []string{"exact_document_name"},
		},
	}
}

func (t *DeleteDocumentTool) Invoke(ctx context.Context, userID uuid.UUID, args json.RawMessage) (string, []Artifact, error) {
	var params struct {
		ExactDocumentName string `json:"exact_document_name"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return "", nil, fmt.Errorf("invalid arguments: %w", err)
	}

	documents, err := t.Gateway.ListDocuments(ctx, userID)
	if err != nil {
		return "", nil, err
	}
	allowed := false
	names := make([]string, len(documents))
	for i, d := range documents {
		names[i] = d.Name
		if d.Name == params.ExactDocumentName {
			allowed = true
		}
	}
	if !allowed {
		return fmt.Sprintf("no document named %q, valid names are: %s",
			params.ExactDocumentName, strings.Join(names, ", ")), nil, nil
	}

	deleted, err := t.Gateway.DeleteDocumentByName(ctx, userID, params.ExactDocumentName)
	if err != nil {
		return "", nil, err
	}
	if !deleted {
		return fmt.Sprintf("no document named %q, valid names are: %s",
			params.ExactDocumentName, strings.Join(names, ", ")), nil, nil
	}
	return fmt.Sprintf("deleted %q", params.ExactDocumentName), nil, nil
}

// ListChatsTool returns the caller's previous chat transcripts.
type ListChatsTool struct {
	Gateway Gateway
}

func (t *ListChatsTool) Name() string { return "list_chats" }

func (t *ListChatsTool) Definition() llm.ToolDef {
	return llm.ToolDef{
		Name:        t.Name(),
		Description: "returns the user's previous chats",
		Parameters: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
	}
}

func (t *ListChatsTool) Invoke(ctx context.Context, userID uuid.UUID, args json.RawMessage) (string, []Artifact, error) {
	chats, err := t.Gateway.ListChats(ctx, userID)
	if err != nil {
		return "", nil, err
	}

	var b strings.Builder
	for i, chat := range chats {
		if i > 0 {
			b.WriteString("\n---\n")
		}
		for _, m := range chat.Messages {
			fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Content)
		}
	}
	return b.String(), nil, nil
}
