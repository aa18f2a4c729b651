package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gecBurton/dosac/internal/dto"
	"github.com/gecBurton/dosac/internal/entity"
	"github.com/gecBurton/dosac/internal/repository/specification"
	"github.com/gecBurton/dosac/internal/repository/unitofwork"
	"github.com/gecBurton/dosac/pkg/embedding"
	"github.com/gecBurton/dosac/pkg/events"
	"github.com/gecBurton/dosac/pkg/extract"
	pktNats "github.com/gecBurton/dosac/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IIngestionService interface {
	Consume(ctx context.Context) error
}

type ingestionService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	extractor         extract.Extractor
	embeddingProvider embedding.Provider
	eventPublisher    *pktNats.Publisher
}

func NewIngestionService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	extractor extract.Extractor,
	embeddingProvider embedding.Provider,
	eventPublisher *pktNats.Publisher,
) IIngestionService {
	return &ingestionService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		extractor:         extractor,
		embeddingProvider: embeddingProvider,
		eventPublisher:    eventPublisher,
	}
}

func (s *ingestionService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (s *ingestionService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishIngestDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal ingest message: %v", err)
		msg.Ack() // malformed, retry cannot help
		return
	}

	log.Printf("[INFO] Ingesting document %s", payload.DocumentId)

	uow := s.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: payload.DocumentId})
	if err != nil {
		log.Printf("[ERROR] Failed to load document %s: %v", payload.DocumentId, err)
		msg.Nack()
		return
	}
	if document == nil {
		// Deleted before the worker got to it.
		log.Printf("[WARN] Document not found: %s", payload.DocumentId)
		msg.Ack()
		return
	}

	if err := s.ingest(ctx, uow, document); err != nil {
		// The failure is recorded on the document itself; the message is
		// done either way, so Ack rather than loop on a broken file.
		log.Printf("[ERROR] Ingestion failed for document %s: %v", document.Id, err)
		s.recordFailure(ctx, document, err)
		msg.Ack()
		return
	}

	msg.Ack()
}

// ingest runs extraction and embedding, then swaps the document's chunks
// in one transaction: either the full new set lands or nothing changes.
func (s *ingestionService) ingest(ctx context.Context, uow unitofwork.UnitOfWork, document *entity.Document) error {
	file, err := os.Open(document.FilePath)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	elements, err := s.extractor.Partition(ctx, document.FileName, file)
	if err != nil {
		return fmt.Errorf("extracting content: %w", err)
	}
	if len(elements) == 0 {
		return fmt.Errorf("no content extracted from %s", document.FileName)
	}

	texts := make([]string, len(elements))
	for i, e := range elements {
		texts[i] = e.Text
	}

	vectors, err := s.embeddingProvider.EmbedDocuments(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding content: %w", err)
	}
	if len(vectors) != len(elements) {
		return fmt.Errorf("embedding count mismatch: %d texts, %d vectors", len(elements), len(vectors))
	}

	chunks := make([]*entity.Chunk, len(elements))
	for i, e := range elements {
		chunks[i] = &entity.Chunk{
			Id:         uuid.New(),
			DocumentId: document.Id,
			Text:       e.Text,
			Embedding:  vectors[i],
			Index:      i,
			Metadata:   e.Metadata,
			CreatedAt:  time.Now(),
		}
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	// Re-ingestion replaces the previous chunk set entirely.
	if err := uow.ChunkRepository().DeleteByDocumentId(ctx, document.Id); err != nil {
		return err
	}
	if err := uow.ChunkRepository().CreateBulk(ctx, chunks); err != nil {
		return err
	}

	document.ProcessingError = nil
	document.UpdatedAt = time.Now()
	if err := uow.DocumentRepository().Update(ctx, document); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	if s.eventPublisher != nil {
		evt := events.NewDocumentProcessed(document.UserId, document.Id, document.FileName, len(chunks))
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			log.Printf("[WARN] Failed to publish DOCUMENT_PROCESSED event: %v", err)
		}
	}
	return nil
}

func (s *ingestionService) recordFailure(ctx context.Context, document *entity.Document, cause error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	reason := cause.Error()
	document.ProcessingError = &reason
	document.UpdatedAt = time.Now()
	if err := uow.DocumentRepository().Update(ctx, document); err != nil {
		log.Printf("[ERROR] Failed to record processing error for %s: %v", document.Id, err)
		return
	}

	if s.eventPublisher != nil {
		evt := events.NewDocumentFailed(document.UserId, document.Id, document.FileName, reason)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			log.Printf("[WARN] Failed to publish DOCUMENT_FAILED event: %v", err)
		}
	}
}
