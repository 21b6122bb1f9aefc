package executor

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"techgear-support-be/internal/constant"
	"techgear-support-be/internal/pkg/logger"
	"techgear-support-be/pkg/ai/router"
	"techgear-support-be/pkg/rag/intent"
	"techgear-support-be/pkg/store"
)

// Responder fills in the final response of a classified state
type Responder interface {
	Execute(ctx context.Context, state *store.State)
}

// Engine runs Classify -> Route -> exactly one responder. It is built once at
// startup and shared; all collaborators are read-only after construction.
type Engine struct {
	classifier *intent.Classifier
	router     *router.Router
	rag        Responder
	escalation Responder
	tracer     trace.Tracer
	logger     logger.ILogger
}

func NewEngine(
	classifier *intent.Classifier,
	router *router.Router,
	rag Responder,
	escalation Responder,
	logger logger.ILogger,
) *Engine {
	return &Engine{
		classifier: classifier,
		router:     router,
		rag:        rag,
		escalation: escalation,
		tracer:     otel.Tracer("techgear-support-be/workflow"),
		logger:     logger,
	}
}

// Run answers one query. It always returns a state with a final response.
func (e *Engine) Run(ctx context.Context, query, conversationID string) *store.State {
	state := store.NewState(query, conversationID)

	ctx, span := e.tracer.Start(ctx, "workflow.run")
	defer span.End()

	result := e.classifier.ClassifyState(state)

	route := e.router.Route(state.ClassifiedCategory)
	if !e.router.Recognizes(state.ClassifiedCategory) {
		e.logger.Warn("WORKFLOW", "Unrecognized category routed to escalation", map[string]interface{}{
			"conversation_id": state.ConversationID,
			"category":        state.ClassifiedCategory,
		})
		state.Annotate(constant.MetaErrorType, constant.ErrorTypeUnrecognizedCategory)
		state.Annotate(constant.MetaUnrecognizedCategory, string(state.ClassifiedCategory))
	}
	state.Annotate(constant.MetaRoute, string(route))

	span.SetAttributes(
		attribute.String("workflow.conversation_id", state.ConversationID),
		attribute.String("workflow.category", string(state.ClassifiedCategory)),
		attribute.Float64("workflow.confidence", state.ConfidenceScore),
		attribute.Bool("workflow.classification_degraded", result.Degraded),
		attribute.String("workflow.route", string(route)),
	)

	switch route {
	case router.RouteRAG:
		e.rag.Execute(ctx, state)
	default:
		e.escalation.Execute(ctx, state)
	}

	span.SetAttributes(attribute.Bool("workflow.needs_escalation", state.NeedsEscalation))

	e.logger.Info("WORKFLOW", "Query answered", map[string]interface{}{
		"conversation_id":  state.ConversationID,
		"category":         state.ClassifiedCategory,
		"confidence":       state.ConfidenceScore,
		"route":            route,
		"needs_escalation": state.NeedsEscalation,
	})

	return state
}
