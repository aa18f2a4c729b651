package service

import (
	"context"
	"time"

	"github.com/gecBurton/dosac/internal/dto"
	"github.com/gecBurton/dosac/internal/entity"
	"github.com/gecBurton/dosac/internal/pkg/serverutils"
	"github.com/gecBurton/dosac/internal/repository/specification"
	"github.com/gecBurton/dosac/internal/repository/unitofwork"
	"github.com/gecBurton/dosac/pkg/agent"
	"github.com/gecBurton/dosac/pkg/citation"
	"github.com/gecBurton/dosac/pkg/llm"

	"github.com/google/uuid"
)

// chatListLimit caps the sidebar listing; older chats stay reachable by id.
const chatListLimit = 100

// TurnResult is what one completed conversation round produces.
type TurnResult struct {
	MessageId       uuid.UUID
	Answer          string
	AnnotatedAnswer string
	Citations       []dto.CitationResponse
}

type IChatService interface {
	Create(ctx context.Context, userId uuid.UUID) (*dto.ChatResponse, error)
	GetAll(ctx context.Context, userId uuid.UUID) ([]dto.ChatResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, chatId uuid.UUID) error

	// GetMessages returns a chat's messages with citation footnotes
	// rendered into AnnotatedContent.
	GetMessages(ctx context.Context, userId uuid.UUID, chatId uuid.UUID) ([]dto.ChatMessageResponse, error)

	// RunTurn runs one round: persist the incoming human message, run the
	// agent over the full history persisting each model reply as it
	// arrives, derive and persist citations for the final answer, and
	// return the annotated answer. Events stream through emit as they
	// happen. Messages persisted before a failure stand.
	RunTurn(ctx context.Context, userId uuid.UUID, chatId uuid.UUID, content string, emit agent.Emitter) (*TurnResult, error)
}

type chatService struct {
	uowFactory unitofwork.RepositoryFactory
	runner     *agent.Runner
	deriver    *citation.Deriver
}

func NewChatService(uowFactory unitofwork.RepositoryFactory, runner *agent.Runner, deriver *citation.Deriver) IChatService {
	return &chatService{
		uowFactory: uowFactory,
		runner:     runner,
		deriver:    deriver,
	}
}

func (s *chatService) Create(ctx context.Context, userId uuid.UUID) (*dto.ChatResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	chat := &entity.Chat{
		Id:        uuid.New(),
		UserId:    userId,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := uow.ChatRepository().Create(ctx, chat); err != nil {
		return nil, err
	}

	return &dto.ChatResponse{Id: chat.Id, CreatedAt: chat.CreatedAt}, nil
}

func (s *chatService) GetAll(ctx context.Context, userId uuid.UUID) ([]dto.ChatResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	chats, err := uow.ChatRepository().FindAllWithPreview(ctx, userId, chatListLimit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ChatResponse, len(chats))
	for i, c := range chats {
		responses[i] = dto.ChatResponse{
			Id:        c.Id,
			Preview:   c.Preview,
			CreatedAt: c.CreatedAt,
		}
	}
	return responses, nil
}

func (s *chatService) Delete(ctx context.Context, userId uuid.UUID, chatId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	chat, err := uow.ChatRepository().FindOne(ctx,
		specification.ByID{ID: chatId},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if chat == nil {
		return serverutils.NewNotFound("chat not found")
	}
	return uow.ChatRepository().Delete(ctx, chat.Id)
}

func (s *chatService) GetMessages(ctx context.Context, userId uuid.UUID, chatId uuid.UUID) ([]dto.ChatMessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := s.findOwnedChat(ctx, uow, userId, chatId); err != nil {
		return nil, err
	}

	messages, err := uow.ChatMessageRepository().FindAllByChatId(ctx, chatId)
	if err != nil {
		return nil, err
	}

	messageIds := make([]uuid.UUID, len(messages))
	for i, m := range messages {
		messageIds[i] = m.Id
	}
	citationsByMessage := make(map[uuid.UUID][]*entity.Citation)
	if len(messageIds) > 0 {
		all, err := uow.CitationRepository().FindAllByMessageIds(ctx, messageIds)
		if err != nil {
			return nil, err
		}
		for _, c := range all {
			citationsByMessage[c.ChatMessageId] = append(citationsByMessage[c.ChatMessageId], c)
		}
	}

	responses := make([]dto.ChatMessageResponse, len(messages))
	for i, m := range messages {
		responses[i] = dto.ChatMessageResponse{
			Id:               m.Id,
			Role:             m.Role,
			Content:          m.Content,
			AnnotatedContent: annotate(m.Content, citationsByMessage[m.Id]),
			CreatedAt:        m.CreatedAt,
		}
	}
	return responses, nil
}

func (s *chatService) RunTurn(ctx context.Context, userId uuid.UUID, chatId uuid.UUID, content string, emit agent.Emitter) (*TurnResult, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	chat, err := s.findOwnedChat(ctx, uow, userId, chatId)
	if err != nil {
		return nil, err
	}

	previous, err := uow.ChatMessageRepository().FindAllByChatId(ctx, chat.Id)
	if err != nil {
		return nil, err
	}

	humanMessage := &entity.ChatMessage{
		Id:        uuid.New(),
		ChatId:    chat.Id,
		Role:      entity.ChatMessageRoleHuman,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, humanMessage); err != nil {
		return nil, err
	}

	history := make([]llm.Message, 0, len(previous)+1)
	for _, m := range previous {
		history = append(history, toLLMMessage(m))
	}
	history = append(history, llm.Message{Role: llm.RoleUser, Content: content})

	// Every model reply is written out the moment it arrives, so replies
	// from completed steps survive a later model or tool failure.
	var answerMessage *entity.ChatMessage
	sink := func(m llm.Message) error {
		row := &entity.ChatMessage{
			Id:        uuid.New(),
			ChatId:    chat.Id,
			Role:      entity.ChatMessageRoleAI,
			Content:   m.Content,
			CreatedAt: time.Now(),
		}
		if err := uow.ChatMessageRepository().Create(ctx, row); err != nil {
			return err
		}
		answerMessage = row
		return nil
	}

	result, err := s.runner.Run(ctx, userId, history, emit, sink)
	if err != nil {
		return nil, err
	}

	derived, err := s.deriver.Derive(ctx, result.Answer, result.Artifacts)
	if err != nil {
		return nil, err
	}

	if len(derived) > 0 {
		if err := uow.Begin(ctx); err != nil {
			return nil, err
		}
		defer uow.Rollback()

		rows := make([]*entity.Citation, len(derived))
		for i, c := range derived {
			rows[i] = &entity.Citation{
				Id:            uuid.New(),
				ChatMessageId: answerMessage.Id,
				TextInAnswer:  c.TextInAnswer,
				TextInSource:  c.TextInSource,
				Reference:     c.Reference,
				Index:         c.Index,
				CreatedAt:     time.Now(),
			}
		}
		if err := uow.CitationRepository().CreateBulk(ctx, rows); err != nil {
			return nil, err
		}

		if err := uow.Commit(); err != nil {
			return nil, err
		}
	}

	citationResponses := make([]dto.CitationResponse, len(derived))
	for i, c := range derived {
		citationResponses[i] = dto.CitationResponse{
			TextInAnswer: c.TextInAnswer,
			TextInSource: c.TextInSource,
			Reference:    c.Reference,
			Index:        c.Index,
		}
	}

	return &TurnResult{
		MessageId:       answerMessage.Id,
		Answer:          result.Answer,
		AnnotatedAnswer: citation.Annotate(result.Answer, derived),
		Citations:       citationResponses,
	}, nil
}

func (s *chatService) findOwnedChat(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, chatId uuid.UUID) (*entity.Chat, error) {
	chat, err := uow.ChatRepository().FindOne(ctx,
		specification.ByID{ID: chatId},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, serverutils.NewNotFound("chat not found")
	}
	return chat, nil
}

func toLLMMessage(m *entity.ChatMessage) llm.Message {
	role := llm.RoleUser
	if m.Role == entity.ChatMessageRoleAI {
		role = llm.RoleAssistant
	}
	return llm.Message{Role: role, Content: m.Content}
}

func annotate(content string, rows []*entity.Citation) string {
	if len(rows) == 0 {
		return content
	}
	citations := make([]citation.Citation, len(rows))
	for i, c := range rows {
		citations[i] = citation.Citation{
			TextInAnswer: c.TextInAnswer,
			TextInSource: c.TextInSource,
			Reference:    c.Reference,
			Index:        c.Index,
		}
	}
	return citation.Annotate(content, citations)
}
