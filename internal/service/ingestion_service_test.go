package service

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/gecBurton/dosac/internal/entity"
	"github.com/gecBurton/dosac/internal/repository/contract"
	"github.com/gecBurton/dosac/internal/repository/specification"
	"github.com/gecBurton/dosac/internal/repository/unitofwork"
	"github.com/gecBurton/dosac/pkg/extract"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ingestStore struct {
	documents map[uuid.UUID]*entity.Document
	chunks    []*entity.Chunk
}

type ingestFactory struct {
	store *ingestStore
}

func (f *ingestFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork {
	return &ingestUow{store: f.store}
}

type ingestUow struct {
	store *ingestStore
}

func (u *ingestUow) Begin(context.Context) error { return nil }

func (u *ingestUow) Commit() error { return nil }

func (u *ingestUow) Rollback() error { return nil }

func (u *ingestUow) UserRepository() contract.UserRepository { return nil }

func (u *ingestUow) LoginTokenRepository() contract.LoginTokenRepository { return nil }

func (u *ingestUow) DocumentRepository() contract.DocumentRepository {
	return &memDocRepo{store: u.store}
}

func (u *ingestUow) ChunkRepository() contract.ChunkRepository {
	return &memChunkRepo{store: u.store}
}

func (u *ingestUow) ChatRepository() contract.ChatRepository { return nil }

func (u *ingestUow) ChatMessageRepository() contract.ChatMessageRepository { return nil }

func (u *ingestUow) CitationRepository() contract.CitationRepository { return nil }

type memDocRepo struct {
	store *ingestStore
}

func (r *memDocRepo) Create(_ context.Context, document *entity.Document) error {
	r.store.documents[document.Id] = document
	return nil
}

func (r *memDocRepo) Update(_ context.Context, document *entity.Document) error {
	r.store.documents[document.Id] = document
	return nil
}

func (r *memDocRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.store.documents, id)
	return nil
}

func (r *memDocRepo) FindOne(_ context.Context, _ ...specification.Specification) (*entity.Document, error) {
	for _, d := range r.store.documents {
		return d, nil
	}
	return nil, nil
}

func (r *memDocRepo) FindAllWithChunkCounts(_ context.Context, userId uuid.UUID) ([]*entity.Document, error) {
	var out []*entity.Document
	for _, d := range r.store.documents {
		if d.UserId == userId {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *memDocRepo) DeleteByName(_ context.Context, userId uuid.UUID, exactName string) (bool, error) {
	for id, d := range r.store.documents {
		if d.UserId == userId && d.FileName == exactName {
			delete(r.store.documents, id)
			return true, nil
		}
	}
	return false, nil
}

type memChunkRepo struct {
	store *ingestStore
}

func (r *memChunkRepo) CreateBulk(_ context.Context, chunks []*entity.Chunk) error {
	r.store.chunks = append(r.store.chunks, chunks...)
	return nil
}

func (r *memChunkRepo) DeleteByDocumentId(_ context.Context, documentId uuid.UUID) error {
	var kept []*entity.Chunk
	for _, c := range r.store.chunks {
		if c.DocumentId != documentId {
			kept = append(kept, c)
		}
	}
	r.store.chunks = kept
	return nil
}

func (r *memChunkRepo) FindAll(context.Context, ...specification.Specification) ([]*entity.Chunk, error) {
	return r.store.chunks, nil
}

func (r *memChunkRepo) FindOneOwned(context.Context, uuid.UUID, uuid.UUID) (*entity.Chunk, error) {
	return nil, nil
}

func (r *memChunkRepo) CountByDocumentId(_ context.Context, documentId uuid.UUID) (int64, error) {
	var n int64
	for _, c := range r.store.chunks {
		if c.DocumentId == documentId {
			n++
		}
	}
	return n, nil
}

func (r *memChunkRepo) SearchByVector(context.Context, uuid.UUID, []float32, int) ([]*entity.Chunk, error) {
	return nil, nil
}

type fixedExtractor struct {
	elements []extract.Element
	err      error
}

func (e *fixedExtractor) Partition(context.Context, string, io.Reader) ([]extract.Element, error) {
	return e.elements, e.err
}

type countingEmbedder struct {
	err error
}

func (e *countingEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{float32(i)}
	}
	return vectors, nil
}

func (e *countingEmbedder) EmbedQuery(context.Context, string) ([]float32, error) {
	return []float32{0}, nil
}

func seedDocument(t *testing.T, store *ingestStore) *entity.Document {
	t.Helper()
	path := filepath.Join(t.TempDir(), "briefing.pdf")
	require.NoError(t, os.WriteFile(path, []byte("the cat sat on the mat"), 0o644))

	document := &entity.Document{
		Id:       uuid.New(),
		UserId:   uuid.New(),
		FileName: "briefing.pdf",
		FilePath: path,
	}
	store.documents[document.Id] = document
	return document
}

func TestIngestPersistsChunksInOrder(t *testing.T) {
	store := &ingestStore{documents: map[uuid.UUID]*entity.Document{}}
	document := seedDocument(t, store)

	extractor := &fixedExtractor{elements: []extract.Element{
		{Text: "first passage", Metadata: map[string]interface{}{"page_number": float64(1)}},
		{Text: "second passage"},
		{Text: "third passage"},
	}}
	svc := &ingestionService{
		uowFactory:        &ingestFactory{store: store},
		extractor:         extractor,
		embeddingProvider: &countingEmbedder{},
	}

	uow := svc.uowFactory.NewUnitOfWork(context.Background())
	require.NoError(t, svc.ingest(context.Background(), uow, document))

	require.Len(t, store.chunks, 3)
	for i, chunk := range store.chunks {
		assert.Equal(t, i, chunk.Index)
		assert.Equal(t, document.Id, chunk.DocumentId)
		assert.Equal(t, []float32{float32(i)}, chunk.Embedding)
	}
	assert.Equal(t, "first passage", store.chunks[0].Text)
	assert.Equal(t, "third passage", store.chunks[2].Text)

	// A full chunk set and no recorded error means COMPLETE.
	document.ChunkCount = len(store.chunks)
	assert.Nil(t, document.ProcessingError)
	assert.Equal(t, entity.DocumentStatusComplete, document.Status())
}

func TestIngestReplacesPriorChunks(t *testing.T) {
	store := &ingestStore{documents: map[uuid.UUID]*entity.Document{}}
	document := seedDocument(t, store)

	stale := &entity.Chunk{Id: uuid.New(), DocumentId: document.Id, Text: "stale", Index: 0}
	store.chunks = append(store.chunks, stale)

	extractor := &fixedExtractor{elements: []extract.Element{{Text: "fresh"}}}
	svc := &ingestionService{
		uowFactory:        &ingestFactory{store: store},
		extractor:         extractor,
		embeddingProvider: &countingEmbedder{},
	}

	uow := svc.uowFactory.NewUnitOfWork(context.Background())
	require.NoError(t, svc.ingest(context.Background(), uow, document))

	require.Len(t, store.chunks, 1)
	assert.Equal(t, "fresh", store.chunks[0].Text)
}

func TestIngestEmptyExtractionFails(t *testing.T) {
	store := &ingestStore{documents: map[uuid.UUID]*entity.Document{}}
	document := seedDocument(t, store)

	svc := &ingestionService{
		uowFactory:        &ingestFactory{store: store},
		extractor:         &fixedExtractor{},
		embeddingProvider: &countingEmbedder{},
	}

	uow := svc.uowFactory.NewUnitOfWork(context.Background())
	err := svc.ingest(context.Background(), uow, document)

	require.Error(t, err)
	assert.Empty(t, store.chunks)
}

func TestRecordFailureMarksDocument(t *testing.T) {
	store := &ingestStore{documents: map[uuid.UUID]*entity.Document{}}
	document := seedDocument(t, store)

	svc := &ingestionService{uowFactory: &ingestFactory{store: store}}
	svc.recordFailure(context.Background(), document, errors.New("extraction service unreachable"))

	require.NotNil(t, document.ProcessingError)
	assert.Equal(t, "extraction service unreachable", *document.ProcessingError)
	assert.Equal(t, entity.DocumentStatusError, document.Status())
}
