package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/gecBurton/dosac/pkg/wikipedia"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGateway serves canned data and records the user ids it was queried
// with.
type fakeGateway struct {
	chunks    []ChunkResult
	documents []DocumentInfo
	chats     []ChatTranscript

	deletedName string
	deleteOK    bool

	seenUserID uuid.UUID
	err        error
}

func (g *fakeGateway) SearchChunks(_ context.Context, userID uuid.UUID, _ []float32, topK int) ([]ChunkResult, error) {
	g.seenUserID = userID
	if g.err != nil {
		return nil, g.err
	}
	if topK > len(g.chunks) {
		topK = len(g.chunks)
	}
	return g.chunks[:topK], nil
}

func (g *fakeGateway) ListDocuments(_ context.Context, userID uuid.UUID) ([]DocumentInfo, error) {
	g.seenUserID = userID
	if g.err != nil {
		return nil, g.err
	}
	return g.documents, nil
}

func (g *fakeGateway) DeleteDocumentByName(_ context.Context, userID uuid.UUID, exactName string) (bool, error) {
	g.seenUserID = userID
	g.deletedName = exactName
	if g.err != nil {
		return false, g.err
	}
	if g.deleteOK {
		kept := g.documents[:0]
		for _, d := range g.documents {
			if d.Name != exactName {
				kept = append(kept, d)
			}
		}
		g.documents = kept
	}
	return g.deleteOK, nil
}

func (g *fakeGateway) ListChats(_ context.Context, userID uuid.UUID) ([]ChatTranscript, error) {
	g.seenUserID = userID
	if g.err != nil {
		return nil, g.err
	}
	return g.chats, nil
}

type fakeEmbedder struct {
	vector []float32
	err    error
}

func (e *fakeEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i := range vectors {
		vectors[i] = e.vector
	}
	return vectors, e.err
}

func (e *fakeEmbedder) EmbedQuery(context.Context, string) ([]float32, error) {
	return e.vector, e.err
}

type fakeWikipedia struct {
	titles []string
	pages  map[string]*wikipedia.Page
	err    error
}

func (w *fakeWikipedia) Search(context.Context, string, int) ([]string, error) {
	return w.titles, w.err
}

func (w *fakeWikipedia) FetchPage(_ context.Context, title string) (*wikipedia.Page, error) {
	return w.pages[title], w.err
}

func TestSearchDocumentsTool(t *testing.T) {
	gateway := &fakeGateway{chunks: []ChunkResult{
		{Text: "first passage", Reference: "/api/document/v1/chunk/a", Index: 0, DocumentName: "a.pdf"},
		{Text: "second passage", Reference: "/api/document/v1/chunk/b", Index: 1, DocumentName: "b.pdf"},
	}}
	tool := &SearchDocumentsTool{Embedder: &fakeEmbedder{vector: []float32{0.1}}, Gateway: gateway}
	userID := uuid.New()

	content, artifacts, err := tool.Invoke(context.Background(), userID, json.RawMessage(`{"query":"passages"}`))

	require.NoError(t, err)
	assert.Equal(t, "first passage\n\nsecond passage", content)
	require.Len(t, artifacts, 2)
	assert.Equal(t, "a.pdf", artifacts[0].Title)
	assert.Equal(t, "/api/document/v1/chunk/b", artifacts[1].Reference)
	assert.Equal(t, userID, gateway.seenUserID)
}

func TestSearchDocumentsToolRespectsTopK(t *testing.T) {
	gateway := &fakeGateway{chunks: []ChunkResult{
		{Text: "one"}, {Text: "two"}, {Text: "three"}, {Text: "four"},
	}}
	tool := &SearchDocumentsTool{Embedder: &fakeEmbedder{vector: []float32{0.1}}, Gateway: gateway}

	content, artifacts, err := tool.Invoke(context.Background(), uuid.New(),
		json.RawMessage(`{"query":"q","top_k_results":2}`))

	require.NoError(t, err)
	assert.Equal(t, "one\n\ntwo", content)
	assert.Len(t, artifacts, 2)
}

func TestSearchDocumentsToolEmbedderError(t *testing.T) {
	tool := &SearchDocumentsTool{
		Embedder: &fakeEmbedder{err: errors.New("quota exceeded")},
		Gateway:  &fakeGateway{},
	}

	_, _, err := tool.Invoke(context.Background(), uuid.New(), json.RawMessage(`{"query":"q"}`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestListDocumentsTool(t *testing.T) {
	gateway := &fakeGateway{documents: []DocumentInfo{
		{Name: "briefing.pdf", URI: "/api/document/v1/abc", Status: "COMPLETE"},
		{Name: "memo.docx", URI: "/api/document/v1/def", Status: "PROCESSING"},
	}}
	tool := &ListDocumentsTool{Gateway: gateway}

	content, artifacts, err := tool.Invoke(context.Background(), uuid.New(), json.RawMessage(`{}`))

	require.NoError(t, err)
	assert.Equal(t, "briefing.pdf (COMPLETE)\nmemo.docx (PROCESSING)", content)
	require.Len(t, artifacts, 2)
	assert.Equal(t, "briefing.pdf", artifacts[0].Title)
}

func TestListDocumentsToolTenEntries(t *testing.T) {
	gateway := &fakeGateway{}
	for i := 0; i < 10; i++ {
		gateway.documents = append(gateway.documents, DocumentInfo{
			Name:   fmt.Sprintf("report-%d.pdf", i),
			URI:    fmt.Sprintf("/api/document/v1/%d", i),
			Status: "COMPLETE",
		})
	}
	tool := &ListDocumentsTool{Gateway: gateway}

	content, artifacts, err := tool.Invoke(context.Background(), uuid.New(), json.RawMessage(`{}`))

	require.NoError(t, err)
	require.Len(t, artifacts, 10)
	lines := strings.Split(content, "\n")
	require.Len(t, lines, 10)
	for i, line := range lines {
		assert.Contains(t, line, fmt.Sprintf("report-%d.pdf", i))
		assert.Contains(t, line, "COMPLETE")
		assert.Equal(t, fmt.Sprintf("/api/document/v1/%d", i), artifacts[i].Reference)
	}
}

func TestDeleteThenListExcludesDocument(t *testing.T) {
	gateway := &fakeGateway{
		documents: []DocumentInfo{
			{Name: "briefing.pdf", Status: "COMPLETE"},
			{Name: "memo.docx", Status: "COMPLETE"},
			{Name: "minutes.txt", Status: "COMPLETE"},
		},
		deleteOK: true,
	}

	content, _, err := (&DeleteDocumentTool{Gateway: gateway}).Invoke(
		context.Background(), uuid.New(), json.RawMessage(`{"exact_document_name":"memo.docx"}`))
	require.NoError(t, err)
	assert.Equal(t, `deleted "memo.docx"`, content)

	content, artifacts, err := (&ListDocumentsTool{Gateway: gateway}).Invoke(
		context.Background(), uuid.New(), json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.Len(t, artifacts, 2)
	assert.NotContains(t, content, "memo.docx")
	assert.Contains(t, content, "briefing.pdf")
	assert.Contains(t, content, "minutes.txt")
}

func TestDeleteDocumentTool(t *testing.T) {
	gateway := &fakeGateway{
		documents: []DocumentInfo{{Name: "briefing.pdf"}, {Name: "memo.docx"}},
		deleteOK:  true,
	}
	tool := &DeleteDocumentTool{Gateway: gateway}

	content, artifacts, err := tool.Invoke(context.Background(), uuid.New(),
		json.RawMessage(`{"exact_document_name":"memo.docx"}`))

	require.NoError(t, err)
	assert.Equal(t, `deleted "memo.docx"`, content)
	assert.Empty(t, artifacts)
	assert.Equal(t, "memo.docx", gateway.deletedName)
}

func TestDeleteDocumentToolUnknownNameListsValid(t *testing.T) {
	gateway := &fakeGateway{
		documents: []DocumentInfo{{Name: "briefing.pdf"}, {Name: "memo.docx"}},
	}
	tool := &DeleteDocumentTool{Gateway: gateway}

	content, _, err := tool.Invoke(context.Background(), uuid.New(),
		json.RawMessage(`{"exact_document_name":"nope.txt"}`))

	require.NoError(t, err)
	assert.Contains(t, content, `"nope.txt"`)
	assert.Contains(t, content, "briefing.pdf, memo.docx")
	// No delete was attempted for a name outside the allow-list.
	assert.Empty(t, gateway.deletedName)
}

func TestListChatsTool(t *testing.T) {
	gateway := &fakeGateway{chats: []ChatTranscript{
		{Messages: []TranscriptMessage{
			{Role: "human", Content: "hello"},
			{Role: "ai", Content: "what"},
		}},
		{Messages: []TranscriptMessage{
			{Role: "human", Content: "still there?"},
		}},
	}}
	tool := &ListChatsTool{Gateway: gateway}

	content, artifacts, err := tool.Invoke(context.Background(), uuid.New(), json.RawMessage(`{}`))

	require.NoError(t, err)
	assert.Equal(t, "human: hello\nai: what\n\n---\nhuman: still there?\n", content)
	assert.Empty(t, artifacts)
}

func TestSearchWikipediaTool(t *testing.T) {
	wiki := &fakeWikipedia{
		titles: []string{"Cat"},
		pages: map[string]*wikipedia.Page{
			"Cat": {
				Title: "Cat",
				URL:   "https://en.wikipedia.org/wiki/Cat",
				Sections: []wikipedia.Section{
					{Title: "", Content: "lead paragraph"},
					{Title: "Domestication", Content: "cats were domesticated"},
					{Title: "See also", Content: ""},
				},
			},
		},
	}
	tool := &SearchWikipediaTool{Wikipedia: wiki}

	content, artifacts, err := tool.Invoke(context.Background(), uuid.New(), json.RawMessage(`{"query":"cats"}`))

	require.NoError(t, err)
	assert.Equal(t, "cats were domesticated", content)
	require.Len(t, artifacts, 1)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Cat#Domestication", artifacts[0].Reference)
	assert.Equal(t, "Cat", artifacts[0].Title)
}

func TestSearchWikipediaToolNoResult(t *testing.T) {
	tool := &SearchWikipediaTool{Wikipedia: &fakeWikipedia{}}

	content, artifacts, err := tool.Invoke(context.Background(), uuid.New(), json.RawMessage(`{"query":"zzz"}`))

	require.NoError(t, err)
	assert.Equal(t, "No good Wikipedia Search Result was found", content)
	assert.Empty(t, artifacts)
}

func TestSearchWikipediaToolTruncatesDisplayText(t *testing.T) {
	long := ""
	for i := 0; i < 500; i++ {
		long += fmt.Sprintf("sentence %d. ", i)
	}
	wiki := &fakeWikipedia{
		titles: []string{"Long"},
		pages: map[string]*wikipedia.Page{
			"Long": {
				Title:    "Long",
				URL:      "https://en.wikipedia.org/wiki/Long",
				Sections: []wikipedia.Section{{Title: "Body", Content: long}},
			},
		},
	}
	tool := &SearchWikipediaTool{Wikipedia: wiki}

	content, artifacts, err := tool.Invoke(context.Background(), uuid.New(), json.RawMessage(`{"query":"long"}`))

	require.NoError(t, err)
	assert.Len(t, content, 4000)
	// Artifacts keep the full section text.
	require.Len(t, artifacts, 1)
	assert.Equal(t, long, artifacts[0].Text)
}

func TestSearchWikipediaToolTruncatesOnRuneBoundary(t *testing.T) {
	// Every rune is three bytes, so a byte-offset cut at 4000 would land
	// mid-rune.
	long := strings.Repeat("猫", 2000)
	wiki := &fakeWikipedia{
		titles: []string{"Cats"},
		pages: map[string]*wikipedia.Page{
			"Cats": {
				Title:    "Cats",
				URL:      "https://en.wikipedia.org/wiki/Cats",
				Sections: []wikipedia.Section{{Title: "Body", Content: long}},
			},
		},
	}
	tool := &SearchWikipediaTool{Wikipedia: wiki}

	content, _, err := tool.Invoke(context.Background(), uuid.New(), json.RawMessage(`{"query":"cats"}`))

	require.NoError(t, err)
	assert.True(t, utf8.ValidString(content))
	assert.LessOrEqual(t, len(content), 4000)
	assert.Equal(t, 3999, len(content)) // 1333 whole runes
}
