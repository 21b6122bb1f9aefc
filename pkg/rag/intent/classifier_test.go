package intent

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techgear-support-be/internal/constant"
	"techgear-support-be/internal/pkg/logger"
	"techgear-support-be/pkg/store"
)

func newTestClassifier() *Classifier {
	return NewClassifier(nil, logger.NewNopLogger())
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		category   store.Category
		confidence float64
		degraded   bool
	}{
		{
			name:       "product price question",
			query:      "What is the price of SmartWatch Pro X?",
			category:   store.CategoryProduct,
			confidence: 1.0,
		},
		{
			name:       "return of damaged item",
			query:      "I want to return my damaged earbuds",
			category:   store.CategoryReturns,
			confidence: 0.87,
		},
		{
			name:       "support hours",
			query:      "What are your customer support hours?",
			category:   store.CategoryGeneral,
			confidence: 1.0,
		},
		{
			name:       "no keyword matches",
			query:      "Tell me about the weather",
			category:   store.CategoryGeneral,
			confidence: 0.3,
		},
		{
			name:       "tie goes to first declared category",
			query:      "watch refund",
			category:   store.CategoryProduct,
			confidence: 0.5,
		},
		{
			name:       "case and surrounding whitespace ignored",
			query:      "   HOW MUCH IS THE POWER BANK   ",
			category:   store.CategoryProduct,
			confidence: 1.0,
		},
		{
			name:       "empty query",
			query:      "",
			category:   store.CategoryGeneral,
			confidence: 0.0,
			degraded:   true,
		},
		{
			name:       "whitespace only query",
			query:      " \t\n ",
			category:   store.CategoryGeneral,
			confidence: 0.0,
			degraded:   true,
		},
	}

	c := newTestClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := c.Classify(tt.query)
			assert.Equal(t, tt.category, result.Category)
			assert.InDelta(t, tt.confidence, result.Confidence, 1e-9)
			assert.Equal(t, tt.degraded, result.Degraded)
		})
	}
}

func TestClassifyScoresAreOrdered(t *testing.T) {
	result := newTestClassifier().Classify("I want to return my damaged earbuds")

	require.Len(t, result.Scores, 3)
	assert.Equal(t, store.CategoryProduct, result.Scores[0].Category)
	assert.Equal(t, store.CategoryReturns, result.Scores[1].Category)
	assert.Equal(t, store.CategoryGeneral, result.Scores[2].Category)
	assert.Equal(t, map[string]int{"product": 1, "returns": 2, "general": 0}, result.ScoreMap())
}

func TestClassifyIsDeterministic(t *testing.T) {
	c := newTestClassifier()
	queries := []string{
		"Does the power bank support fast charging?",
		"Can I exchange my defective earbuds?",
		"Do you accept cash on delivery?",
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, q := range queries {
				assert.Equal(t, c.Classify(q), c.Classify(q))
			}
		}()
	}
	wg.Wait()
}

func TestClassifyConfidenceBounds(t *testing.T) {
	c := newTestClassifier()
	for _, q := range []string{
		"watch earbuds power bank price features buy model color charging waterproof compatible review",
		"refund",
		"help",
		"random words",
	} {
		result := c.Classify(q)
		assert.GreaterOrEqual(t, result.Confidence, 0.0)
		assert.LessOrEqual(t, result.Confidence, 1.0)
	}
}

func TestClassifyState(t *testing.T) {
	c := newTestClassifier()

	t.Run("records scores and classifier type", func(t *testing.T) {
		state := store.NewState("How do I return a product?", "")
		c.ClassifyState(state)

		assert.Equal(t, store.CategoryReturns, state.ClassifiedCategory)
		assert.Equal(t, constant.ClassifierTypeRuleBased, state.Metadata[constant.MetaClassifierType])
		assert.Contains(t, state.Metadata, constant.MetaClassificationScores)
	})

	t.Run("empty query is marked degraded", func(t *testing.T) {
		state := store.NewState("   ", "")
		c.ClassifyState(state)

		assert.Equal(t, store.CategoryGeneral, state.ClassifiedCategory)
		assert.Equal(t, 0.0, state.ConfidenceScore)
		assert.Equal(t, "Empty query", state.Metadata[constant.MetaError])
		assert.Equal(t, constant.ErrorTypeClassificationDegraded, state.Metadata[constant.MetaErrorType])
	})

	t.Run("second classification is ignored", func(t *testing.T) {
		state := store.NewState("refund please", "")
		require.NoError(t, state.Classify(store.CategoryOutOfScope, 0.9))
		c.ClassifyState(state)

		assert.Equal(t, store.CategoryOutOfScope, state.ClassifiedCategory)
	})
}

func TestExplain(t *testing.T) {
	result := newTestClassifier().Classify("What is the price of SmartWatch Pro X?")
	out := Explain("What is the price of SmartWatch Pro X?", result)

	assert.Contains(t, out, "Classified as: PRODUCT")
	assert.Contains(t, out, "Confidence: 1.00")
	assert.Contains(t, out, "product=2")
}
