package jina

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJinaGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer jina-key", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data":[{"object":"embedding","index":0,"embedding":[0.5,0.5]}]}`))
	}))
	defer srv.Close()

	res, err := NewJinaProvider("jina-key").WithBaseURL(srv.URL).Generate(context.Background(), "earbuds", "")

	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.5}, res.Embedding.Values)
}

func TestJinaEmptyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	_, err := NewJinaProvider("k").WithBaseURL(srv.URL).Generate(context.Background(), "x", "")
	assert.EqualError(t, err, "empty embeddings from jina api")
}
