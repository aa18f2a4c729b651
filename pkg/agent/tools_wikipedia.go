package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gecBurton/dosac/pkg/llm"
	"github.com/gecBurton/dosac/pkg/wikipedia"

	"github.com/google/uuid"
)

const (
	wikipediaNoResult = "No good Wikipedia Search Result was found"

	// wikipediaMaxChars caps the joined display text, not the artifacts.
	wikipediaMaxChars = 4000
)

// SearchWikipediaTool runs an encyclopedia search and returns one artifact
// per non-empty page section, anchored by URL fragment.
type SearchWikipediaTool struct {
	Wikipedia wikipedia.Searcher
}

func (t *SearchWikipediaTool) Name() string { return "search_wikipedia" }

func (t *SearchWikipediaTool) Definition() llm.ToolDef {
	return llm.ToolDef{
		Name:        t.Name(),
		Description: "run a Wikipedia search and get page section contents",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "what to look for",
				},
				"top_k_results": map[string]interface{}{
					"type":        "integer",
					"description": "how many pages to fetch, defaults to 3",
				},
			},
			"required": []string{"query"},
		},
	}
}

func (t *SearchWikipediaTool) Invoke(ctx context.Context, userID uuid.UUID, args json.RawMessage) (string, []Artifact, error) {
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

	titles, err := t.Wikipedia.Search(ctx, params.Query, params.TopKResult)
	if err != nil {
		return "", nil, err
	}

	var contents []string
	var artifacts []Artifact
	for _, title := range titles {
		page, err := t.Wikipedia.FetchPage(ctx, title)
		if err != nil {
			return "", nil, err
		}
		if page == nil {
			continue
		}
		for _, section := range page.Sections {
			if section.Title == "" || section.Content == "" {
				continue
			}
			contents = append(contents, section.Content)
			artifacts = append(artifacts, Artifact{
				Text:      section.Content,
				Reference: page.URL + "#" + wikipedia.FragmentAnchor(section.Title),
				Title:     page.Title,
			})
		}
	}

	if len(contents) == 0 {
		return wikipediaNoResult, nil, nil
	}

	joined := strings.Join(contents, "\n\n")
	if len(joined) > wikipediaMaxChars {
		// Back up to a rune boundary so the cut never leaves invalid UTF-8.
		cut := wikipediaMaxChars
		for cut > 0 && !utf8.RuneStart(joined[cut]) {
			cut--
		}
		joined = joined[:cut]
	}
	return joined, artifacts, nil
}
