package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techgear-support-be/internal/constant"
	"techgear-support-be/internal/pkg/logger"
	"techgear-support-be/pkg/rag/response"
	"techgear-support-be/pkg/store"
)

func TestEscalationPipeline(t *testing.T) {
	tests := []struct {
		category store.Category
		reason   string
	}{
		{store.CategoryReturns, response.ReasonReturnRefund},
		{store.CategoryOutOfScope, response.ReasonOutsideKnowledge},
		{store.CategoryPolicyInquiry, response.ReasonPolicyDetails},
		{store.CategoryComplaint, response.ReasonGeneralSupport},
		{store.Category("mystery"), response.ReasonGeneralSupport},
	}

	p := NewEscalationPipeline(constant.DefaultContact, logger.NewNopLogger())
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			state := store.NewState("whatever the customer said", "")
			require.NoError(t, state.Classify(tt.category, 0.9))

			p.Execute(context.Background(), state)

			assert.True(t, state.NeedsEscalation)
			assert.Contains(t, state.FinalResponse, constant.DefaultContact.Email)
			assert.Contains(t, state.FinalResponse, constant.DefaultContact.Phone)
			assert.Equal(t, tt.reason, state.Metadata[constant.MetaEscalationReason])
			assert.Equal(t, true, state.Metadata[constant.MetaRequiresHuman])
			assert.Equal(t, "2026-01-02T03:04:05Z", state.Metadata[constant.MetaEscalationTimestamp])
			assert.Equal(t, constant.DefaultContact.Email, state.Metadata[constant.MetaSupportEmail])
			assert.Equal(t, constant.DefaultContact.Phone, state.Metadata[constant.MetaSupportPhone])
			assert.Equal(t, constant.DefaultContact.Hours, state.Metadata[constant.MetaSupportHours])
			assert.Equal(t, constant.DefaultContact.Website, state.Metadata[constant.MetaSupportWebsite])
		})
	}
}

func TestEscalationIgnoresQueryText(t *testing.T) {
	p := NewEscalationPipeline(constant.DefaultContact, logger.NewNopLogger())

	a := store.NewState("I want a refund", "")
	b := store.NewState("completely different words", "")
	require.NoError(t, a.Classify(store.CategoryReturns, 1))
	require.NoError(t, b.Classify(store.CategoryReturns, 1))

	p.Execute(context.Background(), a)
	p.Execute(context.Background(), b)

	assert.Equal(t, a.FinalResponse, b.FinalResponse)
}
