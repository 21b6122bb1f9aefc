package dto

import (
	"time"

	"techgear-support-be/internal/constant"
)

type ChatRequest struct {
	Query          string `json:"query" validate:"required,min=1,max=500"`
	ConversationId string `json:"conversation_id,omitempty" validate:"omitempty,max=128"`
}

type ChatResponse struct {
	Query           string                 `json:"query"`
	Response        string                 `json:"response"`
	Category        string                 `json:"category"`
	Confidence      float64                `json:"confidence"`
	NeedsEscalation bool                   `json:"needs_escalation"`
	ConversationId  string                 `json:"conversation_id"`
	Timestamp       time.Time              `json:"timestamp"`
	Documents       []DocumentDTO          `json:"documents,omitempty"`
	Metadata        map[string]interface{} `json:"metadata"`
}

type DocumentDTO struct {
	Rank    int     `json:"rank"`
	Content string  `json:"content"`
	Source  string  `json:"source,omitempty"`
	Score   float64 `json:"score,omitempty"`
}

type ServiceInfoResponse struct {
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	Status    string            `json:"status"`
	Endpoints map[string]string `json:"endpoints"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

type CategoriesResponse struct {
	Categories []constant.CategoryDefinition `json:"categories"`
	Total      int                           `json:"total"`
}

type ProductsResponse struct {
	Products []constant.Product   `json:"products"`
	Total    int                  `json:"total"`
	Contact  constant.ContactInfo `json:"contact"`
}

// PublishKnowledgeChunksMessage carries every chunk of one source so the
// consumer can replace that source atomically.
type PublishKnowledgeChunksMessage struct {
	Source string   `json:"source"`
	Chunks []string `json:"chunks"`
}
