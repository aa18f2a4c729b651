package service

import (
	"context"
	"fmt"

	"github.com/gecBurton/dosac/internal/repository/unitofwork"
	"github.com/gecBurton/dosac/pkg/agent"

	"github.com/google/uuid"
)

// listChatsLimit bounds how many prior conversations the model gets to
// read; full transcripts get long quickly.
const listChatsLimit = 20

// toolGateway backs the agent tools with the repositories. Every query is
// scoped to the calling user here, so a confused model cannot reach
// another user's rows no matter what arguments it invents.
type toolGateway struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewToolGateway(uowFactory unitofwork.RepositoryFactory) agent.Gateway {
	return &toolGateway{uowFactory: uowFactory}
}

func (g *toolGateway) SearchChunks(ctx context.Context, userID uuid.UUID, vector []float32, topK int) ([]agent.ChunkResult, error) {
	uow := g.uowFactory.NewUnitOfWork(ctx)

	chunks, err := uow.ChunkRepository().SearchByVector(ctx, userID, vector, topK)
	if err != nil {
		return nil, err
	}

	results := make([]agent.ChunkResult, len(chunks))
	for i, c := range chunks {
		results[i] = agent.ChunkResult{
			Text:         c.Text,
			Reference:    fmt.Sprintf("/api/document/v1/chunk/%s", c.Id),
			Index:        c.Index,
			DocumentName: c.DocumentName,
		}
	}
	return results, nil
}

func (g *toolGateway) ListDocuments(ctx context.Context, userID uuid.UUID) ([]agent.DocumentInfo, error) {
	uow := g.uowFactory.NewUnitOfWork(ctx)

	documents, err := uow.DocumentRepository().FindAllWithChunkCounts(ctx, userID)
	if err != nil {
		return nil, err
	}

	infos := make([]agent.DocumentInfo, len(documents))
	for i, d := range documents {
		infos[i] = agent.DocumentInfo{
			Name:   d.FileName,
			URI:    fmt.Sprintf("/api/document/v1/%s", d.Id),
			Status: string(d.Status()),
		}
	}
	return infos, nil
}

func (g *toolGateway) DeleteDocumentByName(ctx context.Context, userID uuid.UUID, exactName string) (bool, error) {
	uow := g.uowFactory.NewUnitOfWork(ctx)
	return uow.DocumentRepository().DeleteByName(ctx, userID, exactName)
}

func (g *toolGateway) ListChats(ctx context.Context, userID uuid.UUID) ([]agent.ChatTranscript, error) {
	uow := g.uowFactory.NewUnitOfWork(ctx)

	chats, err := uow.ChatRepository().FindAllWithPreview(ctx, userID, listChatsLimit)
	if err != nil {
		return nil, err
	}

	transcripts := make([]agent.ChatTranscript, 0, len(chats))
	for _, chat := range chats {
		messages, err := uow.ChatMessageRepository().FindAllByChatId(ctx, chat.Id)
		if err != nil {
			return nil, err
		}

		transcript := agent.ChatTranscript{
			Messages: make([]agent.TranscriptMessage, len(messages)),
		}
		for i, m := range messages {
			transcript.Messages[i] = agent.TranscriptMessage{
				Role:    m.Role,
				Content: m.Content,
			}
		}
		transcripts = append(transcripts, transcript)
	}
	return transcripts, nil
}
