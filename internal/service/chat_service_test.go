package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/gecBurton/dosac/internal/entity"
	"github.com/gecBurton/dosac/internal/repository/contract"
	"github.com/gecBurton/dosac/internal/repository/specification"
	"github.com/gecBurton/dosac/internal/repository/unitofwork"
	"github.com/gecBurton/dosac/pkg/agent"
	"github.com/gecBurton/dosac/pkg/citation"
	"github.com/gecBurton/dosac/pkg/llm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStore is a uow-compatible in-memory backing for chat tests.
type memoryStore struct {
	chats     map[uuid.UUID]*entity.Chat
	messages  []*entity.ChatMessage
	citations []*entity.Citation
}

func newMemoryStore() *memoryStore {
	return &memoryStore{chats: make(map[uuid.UUID]*entity.Chat)}
}

type memoryFactory struct{ store *memoryStore }

func (f *memoryFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork {
	return &memoryUow{store: f.store}
}

type memoryUow struct{ store *memoryStore }

func (u *memoryUow) Begin(context.Context) error { return nil }
func (u *memoryUow) Commit() error               { return nil }
func (u *memoryUow) Rollback() error             { return nil }

func (u *memoryUow) UserRepository() contract.UserRepository { return nil }

func (u *memoryUow) LoginTokenRepository() contract.LoginTokenRepository { return nil }

func (u *memoryUow) DocumentRepository() contract.DocumentRepository { return nil }

func (u *memoryUow) ChunkRepository() contract.ChunkRepository { return nil }

func (u *memoryUow) ChatRepository() contract.ChatRepository {
	return &memoryChatRepo{store: u.store}
}

func (u *memoryUow) ChatMessageRepository() contract.ChatMessageRepository {
	return &memoryMessageRepo{store: u.store}
}

func (u *memoryUow) CitationRepository() contract.CitationRepository {
	return &memoryCitationRepo{store: u.store}
}

type memoryChatRepo struct{ store *memoryStore }

func (r *memoryChatRepo) Create(_ context.Context, chat *entity.Chat) error {
	r.store.chats[chat.Id] = chat
	return nil
}

func (r *memoryChatRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Chat, error) {
	// The service always queries by id and owner; the fake keys on id and
	// trusts the chats it was seeded with.
	for _, chat := range r.store.chats {
		return chat, nil
	}
	return nil, nil
}

func (r *memoryChatRepo) FindAllWithPreview(_ context.Context, userId uuid.UUID, _ int) ([]*entity.Chat, error) {
	var out []*entity.Chat
	for _, chat := range r.store.chats {
		if chat.UserId == userId {
			out = append(out, chat)
		}
	}
	return out, nil
}

func (r *memoryChatRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.store.chats, id)
	return nil
}

type memoryMessageRepo struct{ store *memoryStore }

func (r *memoryMessageRepo) Create(_ context.Context, message *entity.ChatMessage) error {
	r.store.messages = append(r.store.messages, message)
	return nil
}

func (r *memoryMessageRepo) FindAllByChatId(_ context.Context, chatId uuid.UUID) ([]*entity.ChatMessage, error) {
	var out []*entity.ChatMessage
	for _, m := range r.store.messages {
		if m.ChatId == chatId {
			out = append(out, m)
		}
	}
	return out, nil
}

type memoryCitationRepo struct{ store *memoryStore }

func (r *memoryCitationRepo) CreateBulk(_ context.Context, citations []*entity.Citation) error {
	r.store.citations = append(r.store.citations, citations...)
	return nil
}

func (r *memoryCitationRepo) FindAllByMessageId(_ context.Context, messageId uuid.UUID) ([]*entity.Citation, error) {
	var out []*entity.Citation
	for _, c := range r.store.citations {
		if c.ChatMessageId == messageId {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memoryCitationRepo) FindAllByMessageIds(_ context.Context, messageIds []uuid.UUID) ([]*entity.Citation, error) {
	var out []*entity.Citation
	for _, id := range messageIds {
		byId, _ := r.FindAllByMessageId(context.Background(), id)
		out = append(out, byId...)
	}
	return out, nil
}

// scriptedModel replays chat replies in order and returns a fixed
// structured payload.
type scriptedModel struct {
	replies    []*llm.Message
	structured json.RawMessage
}

func (m *scriptedModel) Chat(context.Context, []llm.Message, []llm.ToolDef) (*llm.Message, error) {
	if len(m.replies) == 0 {
		return nil, errors.New("model called more times than scripted")
	}
	reply := m.replies[0]
	m.replies = m.replies[1:]
	return reply, nil
}

func (m *scriptedModel) Structured(context.Context, []llm.Message, string, map[string]interface{}) (json.RawMessage, error) {
	if m.structured == nil {
		return json.RawMessage(`{"citations": []}`), nil
	}
	return m.structured, nil
}

type echoTool struct {
	content   string
	artifacts []agent.Artifact
}

func (t *echoTool) Name() string { return "search_documents" }

func (t *echoTool) Definition() llm.ToolDef {
	return llm.ToolDef{Name: t.Name(), Parameters: map[string]interface{}{"type": "object"}}
}

func (t *echoTool) Invoke(context.Context, uuid.UUID, json.RawMessage) (string, []agent.Artifact, error) {
	return t.content, t.artifacts, nil
}

func seedChat(store *memoryStore, userId uuid.UUID) *entity.Chat {
	chat := &entity.Chat{Id: uuid.New(), UserId: userId}
	store.chats[chat.Id] = chat
	return chat
}

func TestRunTurnPersistsHumanAndAnswer(t *testing.T) {
	store := newMemoryStore()
	userId := uuid.New()
	chat := seedChat(store, userId)

	model := &scriptedModel{replies: []*llm.Message{
		{Role: llm.RoleAssistant, Content: "the cat sat on the mat"},
	}}
	runner := agent.NewRunner(model, agent.NewToolset(), "")
	svc := NewChatService(&memoryFactory{store: store}, runner, citation.NewDeriver(model))

	result, err := svc.RunTurn(context.Background(), userId, chat.Id, "tell me a story", nil)

	require.NoError(t, err)
	assert.Equal(t, "the cat sat on the mat", result.Answer)
	assert.Equal(t, "the cat sat on the mat", result.AnnotatedAnswer)
	assert.Empty(t, result.Citations)

	require.Len(t, store.messages, 2)
	assert.Equal(t, entity.ChatMessageRoleHuman, store.messages[0].Role)
	assert.Equal(t, "tell me a story", store.messages[0].Content)
	assert.Equal(t, entity.ChatMessageRoleAI, store.messages[1].Role)
	assert.Empty(t, store.citations)
}

func TestRunTurnDerivesAndStoresCitations(t *testing.T) {
	store := newMemoryStore()
	userId := uuid.New()
	chat := seedChat(store, userId)

	tool := &echoTool{
		content: "cats are nice",
		artifacts: []agent.Artifact{
			{Text: "cats are nice", Reference: "www.catfacts.com", Title: "cats.pdf"},
		},
	}
	model := &scriptedModel{
		replies: []*llm.Message{
			{Role: llm.RoleAssistant, ToolCalls: []llm.ToolCall{
				{ID: "call-1", Name: "search_documents", Arguments: json.RawMessage(`{"query":"cats"}`)},
			}},
			{Role: llm.RoleAssistant, Content: "the cat sat on the mat"},
		},
		structured: json.RawMessage(`{
			"citations": [
				{"text_in_answer": "the cat", "text_in_source": "cats are nice", "reference": "www.catfacts.com"}
			]
		}`),
	}
	runner := agent.NewRunner(model, agent.NewToolset(tool), "")
	svc := NewChatService(&memoryFactory{store: store}, runner, citation.NewDeriver(model))

	var events []agent.Event
	result, err := svc.RunTurn(context.Background(), userId, chat.Id, "where did the cat sit", func(e agent.Event) {
		events = append(events, e)
	})

	require.NoError(t, err)
	assert.Equal(t,
		"the cat[^1] sat on the mat\n\n[^1]: \"cats are nice\" [source](www.catfacts.com)",
		result.AnnotatedAnswer)
	require.Len(t, result.Citations, 1)
	assert.Equal(t, 1, result.Citations[0].Index)

	// Human message, the tool-requesting reply, then the answer.
	require.Len(t, store.messages, 3)
	require.Len(t, store.citations, 1)
	assert.Equal(t, store.messages[2].Id, store.citations[0].ChatMessageId)

	names := make([]string, len(events))
	for i, e := range events {
		names[i] = e.Event
	}
	assert.Equal(t, []string{
		agent.EventReasoning, agent.EventToolInvoked, agent.EventToolResult,
		agent.EventReasoning, agent.EventAnswer,
	}, names)
}

func TestRunTurnPersistsEveryReply(t *testing.T) {
	store := newMemoryStore()
	userId := uuid.New()
	chat := seedChat(store, userId)

	tool := &echoTool{content: "no documents found"}
	model := &scriptedModel{replies: []*llm.Message{
		{Role: llm.RoleAssistant, Content: "let me check your files", ToolCalls: []llm.ToolCall{
			{ID: "call-1", Name: "search_documents", Arguments: json.RawMessage(`{"query":"cats"}`)},
		}},
		{Role: llm.RoleAssistant, Content: "you have no documents about cats"},
	}}
	runner := agent.NewRunner(model, agent.NewToolset(tool), "")
	svc := NewChatService(&memoryFactory{store: store}, runner, citation.NewDeriver(model))

	result, err := svc.RunTurn(context.Background(), userId, chat.Id, "what do I have on cats", nil)

	require.NoError(t, err)
	assert.Equal(t, "you have no documents about cats", result.Answer)

	require.Len(t, store.messages, 3)
	assert.Equal(t, entity.ChatMessageRoleHuman, store.messages[0].Role)
	assert.Equal(t, entity.ChatMessageRoleAI, store.messages[1].Role)
	assert.Equal(t, "let me check your files", store.messages[1].Content)
	assert.Equal(t, entity.ChatMessageRoleAI, store.messages[2].Role)
	assert.Equal(t, "you have no documents about cats", store.messages[2].Content)

	// The tool produced no artifacts, so nothing was derived.
	assert.Empty(t, store.citations)
	assert.Empty(t, result.Citations)
}

func TestGetMessagesAnnotatesStoredCitations(t *testing.T) {
	store := newMemoryStore()
	userId := uuid.New()
	chat := seedChat(store, userId)

	message := &entity.ChatMessage{
		Id:      uuid.New(),
		ChatId:  chat.Id,
		Role:    entity.ChatMessageRoleAI,
		Content: "the cat sat on the mat",
	}
	store.messages = append(store.messages, message)
	store.citations = append(store.citations, &entity.Citation{
		Id:            uuid.New(),
		ChatMessageId: message.Id,
		TextInAnswer:  "the cat",
		TextInSource:  "cats are nice",
		Reference:     "www.catfacts.com",
		Index:         1,
	})

	model := &scriptedModel{}
	runner := agent.NewRunner(model, agent.NewToolset(), "")
	svc := NewChatService(&memoryFactory{store: store}, runner, citation.NewDeriver(model))

	messages, err := svc.GetMessages(context.Background(), userId, chat.Id)

	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "the cat sat on the mat", messages[0].Content)
	assert.Equal(t,
		"the cat[^1] sat on the mat\n\n[^1]: \"cats are nice\" [source](www.catfacts.com)",
		messages[0].AnnotatedContent)
}

func TestRunTurnUnknownChat(t *testing.T) {
	store := newMemoryStore()
	model := &scriptedModel{}
	runner := agent.NewRunner(model, agent.NewToolset(), "")
	svc := NewChatService(&memoryFactory{store: store}, runner, citation.NewDeriver(model))

	_, err := svc.RunTurn(context.Background(), uuid.New(), uuid.New(), "hello", nil)

	require.Error(t, err)
}
