package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gecBurton/dosac/internal/config"
	"github.com/gecBurton/dosac/internal/dto"
	"github.com/gecBurton/dosac/internal/entity"
	"github.com/gecBurton/dosac/internal/pkg/serverutils"
	"github.com/gecBurton/dosac/internal/repository/specification"
	"github.com/gecBurton/dosac/internal/repository/unitofwork"
	"github.com/gecBurton/dosac/pkg/events"
	pktNats "github.com/gecBurton/dosac/pkg/nats"

	"github.com/google/uuid"
)

type IDocumentService interface {
	// Upload stores the raw file, records the document and queues it for
	// extraction. Uploading a name the user already has replaces the file
	// and triggers re-ingestion of the same document row.
	Upload(ctx context.Context, userId uuid.UUID, fileName string, data []byte) (*dto.DocumentResponse, error)
	GetAll(ctx context.Context, userId uuid.UUID) ([]dto.DocumentResponse, error)
	Get(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DocumentResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error

	// GetChunk resolves a citation reference to the stored chunk, only for
	// chunks of the caller's own documents.
	GetChunk(ctx context.Context, userId uuid.UUID, chunkId uuid.UUID) (*dto.ChunkResponse, error)
}

type documentService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	cfg              *config.Config
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	cfg *config.Config,
) IDocumentService {
	return &documentService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		cfg:              cfg,
	}
}

func (s *documentService) Upload(ctx context.Context, userId uuid.UUID, fileName string, data []byte) (*dto.DocumentResponse, error) {
	if fileName == "" {
		return nil, serverutils.NewBadRequest("file name is required")
	}
	fileName = filepath.Base(fileName)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	document, err := uow.DocumentRepository().FindOne(ctx,
		specification.OwnedBy{UserID: userId},
		specification.Filter("file_name", fileName),
	)
	if err != nil {
		return nil, err
	}

	if document == nil {
		document = &entity.Document{
			Id:        uuid.New(),
			UserId:    userId,
			FileName:  fileName,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		document.FilePath = filepath.Join(s.cfg.App.UploadDir, fmt.Sprintf("%s_%s", document.Id, fileName))
		if err := s.writeFile(document.FilePath, data); err != nil {
			return nil, err
		}
		if err := uow.DocumentRepository().Create(ctx, document); err != nil {
			return nil, err
		}
	} else {
		// Same name again: replace the file and clear the old failure so
		// the status goes back to PROCESSING until ingestion settles it.
		if err := s.writeFile(document.FilePath, data); err != nil {
			return nil, err
		}
		document.ProcessingError = nil
		document.UpdatedAt = time.Now()
		if err := uow.DocumentRepository().Update(ctx, document); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(dto.PublishIngestDocumentMessage{DocumentId: document.Id})
	if err != nil {
		return nil, err
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		evt := events.NewDocumentUploaded(userId, document.Id, document.FileName)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			log.Printf("[WARN] Failed to publish DOCUMENT_UPLOADED event: %v", err)
		}
	}

	// A fresh upload has no chunks yet, so the derived status is PROCESSING.
	document.ChunkCount = 0
	response := s.toResponse(document)
	return &response, nil
}

func (s *documentService) writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *documentService) GetAll(ctx context.Context, userId uuid.UUID) ([]dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	documents, err := uow.DocumentRepository().FindAllWithChunkCounts(ctx, userId)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.DocumentResponse, len(documents))
	for i, d := range documents {
		responses[i] = s.toResponse(d)
	}
	return responses, nil
}

func (s *documentService) Get(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if document == nil {
		return nil, serverutils.NewNotFound("document not found")
	}

	count, err := uow.ChunkRepository().CountByDocumentId(ctx, document.Id)
	if err != nil {
		return nil, err
	}
	document.ChunkCount = int(count)

	response := s.toResponse(document)
	return &response, nil
}

func (s *documentService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if document == nil {
		return serverutils.NewNotFound("document not found")
	}

	if err := uow.DocumentRepository().Delete(ctx, document.Id); err != nil {
		return err
	}

	if err := os.Remove(document.FilePath); err != nil && !os.IsNotExist(err) {
		log.Printf("[WARN] Failed to remove file %s: %v", document.FilePath, err)
	}

	if s.eventPublisher != nil {
		evt := events.NewDocumentDeleted(userId, document.Id, document.FileName)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			log.Printf("[WARN] Failed to publish DOCUMENT_DELETED event: %v", err)
		}
	}
	return nil
}

func (s *documentService) GetChunk(ctx context.Context, userId uuid.UUID, chunkId uuid.UUID) (*dto.ChunkResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	chunk, err := uow.ChunkRepository().FindOneOwned(ctx, userId, chunkId)
	if err != nil {
		return nil, err
	}
	if chunk == nil {
		return nil, serverutils.NewNotFound("chunk not found")
	}

	return &dto.ChunkResponse{
		Id:           chunk.Id,
		DocumentId:   chunk.DocumentId,
		DocumentName: chunk.DocumentName,
		Text:         chunk.Text,
		Index:        chunk.Index,
		Metadata:     chunk.Metadata,
	}, nil
}

func (s *documentService) toResponse(d *entity.Document) dto.DocumentResponse {
	return dto.DocumentResponse{
		Id:              d.Id,
		FileName:        d.FileName,
		Status:          string(d.Status()),
		ProcessingError: d.ProcessingError,
		ChunkCount:      d.ChunkCount,
		URL:             fmt.Sprintf("%s/%s", s.cfg.App.BaseURL, filepath.ToSlash(d.FilePath)),
		CreatedAt:       d.CreatedAt,
	}
}
