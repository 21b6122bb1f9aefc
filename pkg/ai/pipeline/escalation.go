package pipeline

import (
	"context"
	"time"

	"techgear-support-be/internal/constant"
	"techgear-support-be/internal/pkg/logger"
	"techgear-support-be/pkg/rag/response"
	"techgear-support-be/pkg/store"
)

// EscalationPipeline hands a query off to human support with a canned reply
type EscalationPipeline struct {
	contact constant.ContactInfo
	logger  logger.ILogger
	now     func() time.Time
}

func NewEscalationPipeline(contact constant.ContactInfo, logger logger.ILogger) *EscalationPipeline {
	return &EscalationPipeline{
		contact: contact,
		logger:  logger,
		now:     time.Now,
	}
}

// Execute picks the template for the state's category. The query text is
// logged for audit only.
func (p *EscalationPipeline) Execute(ctx context.Context, state *store.State) {
	msg := response.Escalation(state.ClassifiedCategory, p.contact)

	p.logger.Info("ESCALATION", "Escalating to human support", map[string]interface{}{
		"conversation_id": state.ConversationID,
		"category":        state.ClassifiedCategory,
		"confidence":      state.ConfidenceScore,
		"query":           state.UserQuery,
		"reason":          msg.Reason,
	})

	if err := state.Escalate(msg.Text); err != nil {
		p.logger.Warn("ESCALATION", "Response already set", map[string]interface{}{
			"conversation_id": state.ConversationID,
		})
		return
	}

	state.Annotate(constant.MetaEscalationReason, msg.Reason)
	state.Annotate(constant.MetaRequiresHuman, true)
	state.Annotate(constant.MetaEscalationTimestamp, p.now().Format(time.RFC3339))
	state.Annotate(constant.MetaSupportEmail, p.contact.Email)
	state.Annotate(constant.MetaSupportPhone, p.contact.Phone)
	state.Annotate(constant.MetaSupportHours, p.contact.Hours)
	state.Annotate(constant.MetaSupportWebsite, p.contact.Website)
}
