package service

import (
	"context"
	"errors"
	"sync"

	"techgear-support-be/internal/dto"
	"techgear-support-be/internal/entity"
	"techgear-support-be/internal/repository/contract"
	"techgear-support-be/internal/repository/specification"
	"techgear-support-be/internal/repository/unitofwork"
	"techgear-support-be/pkg/embedding"
	"techgear-support-be/pkg/events"
)

type fakePublisher struct {
	mu     sync.Mutex
	events []events.Event
	chunks []*dto.PublishKnowledgeChunksMessage
	err    error
}

func (f *fakePublisher) PublishEvent(ctx context.Context, event events.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakePublisher) PublishKnowledgeChunks(ctx context.Context, msg *dto.PublishKnowledgeChunksMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.chunks = append(f.chunks, msg)
	return nil
}

type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) Generate(ctx context.Context, text string, taskType string) (*embedding.EmbeddingResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{float32(len(text)), 1}},
	}, nil
}

// memoryChunkRepo keeps chunks per source; it only implements what the consumer uses.
type memoryChunkRepo struct {
	mu       sync.Mutex
	bySource map[string][]*entity.KnowledgeChunk
	failBulk bool
}

func newMemoryChunkRepo() *memoryChunkRepo {
	return &memoryChunkRepo{bySource: map[string][]*entity.KnowledgeChunk{}}
}

func (r *memoryChunkRepo) get(source string) []*entity.KnowledgeChunk {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bySource[source]
}

func (r *memoryChunkRepo) CreateBulk(ctx context.Context, chunks []*entity.KnowledgeChunk) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failBulk {
		return errors.New("insert failed")
	}
	for _, c := range chunks {
		r.bySource[c.Source] = append(r.bySource[c.Source], c)
	}
	return nil
}

func (r *memoryChunkRepo) DeleteBySource(ctx context.Context, source string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bySource, source)
	return nil
}

func (r *memoryChunkRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, chunks := range r.bySource {
		n += int64(len(chunks))
	}
	return n, nil
}

func (r *memoryChunkRepo) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*contract.ScoredKnowledgeChunk, error) {
	return nil, nil
}

type fakeUnitOfWork struct {
	repo       *memoryChunkRepo
	commits    int
	rollbacks  int
	inProgress bool
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error {
	u.inProgress = true
	return nil
}

func (u *fakeUnitOfWork) Commit() error {
	u.inProgress = false
	u.commits++
	return nil
}

func (u *fakeUnitOfWork) Rollback() error {
	u.inProgress = false
	u.rollbacks++
	return nil
}

func (u *fakeUnitOfWork) KnowledgeChunkRepository() contract.KnowledgeChunkRepository {
	return u.repo
}

type fakeFactory struct {
	mu    sync.Mutex
	repo  *memoryChunkRepo
	units []*fakeUnitOfWork
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := &fakeUnitOfWork{repo: f.repo}
	f.units = append(f.units, u)
	return u
}
