package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"techgear-support-be/internal/constant"
	"techgear-support-be/internal/dto"
	"techgear-support-be/internal/pkg/logger"
	"techgear-support-be/pkg/events"
	"techgear-support-be/pkg/store"
)

var ErrEmptyQuery = errors.New("query must not be empty")

// Answerer runs one query through classify, route and respond.
type Answerer interface {
	Run(ctx context.Context, query, conversationID string) *store.State
}

type IChatbotService interface {
	Answer(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error)
	Categories() *dto.CategoriesResponse
	Products() *dto.ProductsResponse
}

type chatbotService struct {
	engine         Answerer
	publisher      IPublisherService
	contact        constant.ContactInfo
	requestTimeout time.Duration
	logger         logger.ILogger
}

func NewChatbotService(
	engine Answerer,
	publisher IPublisherService,
	contact constant.ContactInfo,
	requestTimeout time.Duration,
	logger logger.ILogger,
) IChatbotService {
	return &chatbotService{
		engine:         engine,
		publisher:      publisher,
		contact:        contact,
		requestTimeout: requestTimeout,
		logger:         logger,
	}
}

func (cs *chatbotService) Answer(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error) {
	if strings.TrimSpace(request.Query) == "" {
		return nil, ErrEmptyQuery
	}

	if cs.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cs.requestTimeout)
		defer cancel()
	}

	state := cs.engine.Run(ctx, request.Query, request.ConversationId)

	if state.NeedsEscalation {
		cs.raiseEscalation(ctx, state)
	}

	return toChatResponse(state), nil
}

// raiseEscalation is best-effort; the customer already has a reply.
func (cs *chatbotService) raiseEscalation(ctx context.Context, state *store.State) {
	if cs.publisher == nil {
		return
	}

	reason, _ := state.Metadata[constant.MetaEscalationReason].(string)
	event := events.EscalationRaised{
		ConversationID: state.ConversationID,
		Query:          state.UserQuery,
		Category:       string(state.ClassifiedCategory),
		Confidence:     state.ConfidenceScore,
		Reason:         reason,
		OccurredAt:     time.Now().UTC(),
	}

	// Detached so a request deadline does not drop the hand-off.
	if err := cs.publisher.PublishEvent(context.WithoutCancel(ctx), event); err != nil {
		cs.logger.Warn("CHATBOT", "Failed to publish escalation event", map[string]interface{}{
			"conversation_id": state.ConversationID,
			"error":           err.Error(),
		})
	}
}

func (cs *chatbotService) Categories() *dto.CategoriesResponse {
	return &dto.CategoriesResponse{
		Categories: constant.PublicCategories,
		Total:      len(constant.PublicCategories),
	}
}

func (cs *chatbotService) Products() *dto.ProductsResponse {
	return &dto.ProductsResponse{
		Products: constant.Products,
		Total:    len(constant.Products),
		Contact:  cs.contact,
	}
}

func toChatResponse(state *store.State) *dto.ChatResponse {
	metadata := make(map[string]interface{}, len(state.Metadata))
	for k, v := range state.Metadata {
		metadata[k] = v
	}

	var docs []dto.DocumentDTO
	for _, d := range state.RetrievedDocuments {
		docs = append(docs, dto.DocumentDTO{
			Rank:    d.Rank,
			Content: d.Content,
			Source:  d.Source,
			Score:   d.Score,
		})
	}

	return &dto.ChatResponse{
		Query:           state.UserQuery,
		Response:        state.FinalResponse,
		Category:        string(state.ClassifiedCategory),
		Confidence:      state.ConfidenceScore,
		NeedsEscalation: state.NeedsEscalation,
		ConversationId:  state.ConversationID,
		Timestamp:       state.Timestamp,
		Documents:       docs,
		Metadata:        metadata,
	}
}
