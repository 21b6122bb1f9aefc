package search

import (
	"context"
	"errors"
	"time"

	"techgear-support-be/pkg/store"
)

var ErrRetrieverUnavailable = errors.New("retriever unavailable")

// Result is a single knowledge-base hit
type Result struct {
	Content  string
	Source   string
	Metadata map[string]interface{}
	Score    float64
}

// Retriever returns at most k results ordered by decreasing relevance
type Retriever interface {
	Search(ctx context.Context, query string, k int) ([]Result, error)
}

// RetrieverFunc adapts a plain function to Retriever
type RetrieverFunc func(ctx context.Context, query string, k int) ([]Result, error)

func (f RetrieverFunc) Search(ctx context.Context, query string, k int) ([]Result, error) {
	return f(ctx, query, k)
}

type timeoutRetriever struct {
	next    Retriever
	timeout time.Duration
}

// WithTimeout bounds every Search of r by d. A non-positive d returns r unchanged.
func WithTimeout(r Retriever, d time.Duration) Retriever {
	if d <= 0 {
		return r
	}
	return &timeoutRetriever{next: r, timeout: d}
}

func (t *timeoutRetriever) Search(ctx context.Context, query string, k int) ([]Result, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Search(ctx, query, k)
}

// ToDocuments ranks results from 1 and keeps at most k of them
func ToDocuments(results []Result, k int) []store.Document {
	if k >= 0 && len(results) > k {
		results = results[:k]
	}
	docs := make([]store.Document, len(results))
	for i, r := range results {
		docs[i] = store.Document{
			Rank:     i + 1,
			Content:  r.Content,
			Source:   r.Source,
			Score:    r.Score,
			Metadata: r.Metadata,
		}
	}
	return docs
}
