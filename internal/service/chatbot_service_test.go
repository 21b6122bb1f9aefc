package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techgear-support-be/internal/constant"
	"techgear-support-be/internal/dto"
	"techgear-support-be/internal/pkg/logger"
	"techgear-support-be/pkg/events"
	"techgear-support-be/pkg/store"
)

type scriptedEngine struct {
	escalate    bool
	hadDeadline bool
}

func (e *scriptedEngine) Run(ctx context.Context, query, conversationID string) *store.State {
	_, e.hadDeadline = ctx.Deadline()

	state := store.NewState(query, conversationID)
	if e.escalate {
		_ = state.Classify(store.CategoryReturns, 0.87)
		state.Annotate(constant.MetaEscalationReason, "return_refund_request")
		_ = state.Escalate("contact support")
		return state
	}
	_ = state.Classify(store.CategoryProduct, 0.9)
	state.AttachDocuments([]store.Document{{Rank: 1, Content: "SmartWatch Pro X", Source: "products.txt", Score: 0.8}})
	_ = state.Respond("It costs ₹15,999.")
	return state
}

func newChatbot(engine Answerer, pub IPublisherService) IChatbotService {
	return NewChatbotService(engine, pub, constant.DefaultContact, time.Second, logger.NewNopLogger())
}

func TestAnswerRAG(t *testing.T) {
	engine := &scriptedEngine{}
	pub := &fakePublisher{}

	res, err := newChatbot(engine, pub).Answer(context.Background(), &dto.ChatRequest{Query: "price of watch", ConversationId: "c-1"})
	require.NoError(t, err)

	assert.Equal(t, "price of watch", res.Query)
	assert.Equal(t, "It costs ₹15,999.", res.Response)
	assert.Equal(t, string(store.CategoryProduct), res.Category)
	assert.Equal(t, "c-1", res.ConversationId)
	assert.False(t, res.NeedsEscalation)
	require.Len(t, res.Documents, 1)
	assert.Equal(t, "products.txt", res.Documents[0].Source)
	assert.True(t, engine.hadDeadline)
	assert.Empty(t, pub.events)
}

func TestAnswerEscalationRaisesEvent(t *testing.T) {
	pub := &fakePublisher{}

	res, err := newChatbot(&scriptedEngine{escalate: true}, pub).Answer(context.Background(), &dto.ChatRequest{Query: "refund please"})
	require.NoError(t, err)

	assert.True(t, res.NeedsEscalation)
	require.Len(t, pub.events, 1)
	assert.Equal(t, events.TypeEscalationRaised, pub.events[0].EventType())
	assert.Equal(t, res.ConversationId, events.String(pub.events[0], "conversation_id"))
	assert.Equal(t, "return_refund_request", events.String(pub.events[0], "reason"))
}

func TestAnswerEscalationPublishFailureStillReplies(t *testing.T) {
	pub := &fakePublisher{err: errors.New("bus closed")}

	res, err := newChatbot(&scriptedEngine{escalate: true}, pub).Answer(context.Background(), &dto.ChatRequest{Query: "refund please"})

	require.NoError(t, err)
	assert.Equal(t, "contact support", res.Response)
}

func TestAnswerRejectsBlank(t *testing.T) {
	for _, q := range []string{"", "   ", "\n\t"} {
		_, err := newChatbot(&scriptedEngine{}, nil).Answer(context.Background(), &dto.ChatRequest{Query: q})
		assert.ErrorIs(t, err, ErrEmptyQuery)
	}
}

func TestAnswerWithoutPublisher(t *testing.T) {
	res, err := newChatbot(&scriptedEngine{escalate: true}, nil).Answer(context.Background(), &dto.ChatRequest{Query: "refund"})

	require.NoError(t, err)
	assert.True(t, res.NeedsEscalation)
}

func TestCatalogue(t *testing.T) {
	svc := newChatbot(&scriptedEngine{}, nil)

	categories := svc.Categories()
	assert.Equal(t, len(constant.PublicCategories), categories.Total)
	assert.Equal(t, 3, categories.Total)

	products := svc.Products()
	assert.Equal(t, len(constant.Products), products.Total)
	assert.Equal(t, constant.DefaultContact.Email, products.Contact.Email)
}
