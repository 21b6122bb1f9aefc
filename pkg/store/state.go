package store

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAlreadyClassified = errors.New("state already classified")
	ErrAlreadyResponded  = errors.New("state already has a final response")
)

// Category is the label assigned to a query that decides downstream handling
type Category string

// Canonical categories emitted by the keyword classifier
const (
	CategoryProduct Category = "product"
	CategoryReturns Category = "returns"
	CategoryGeneral Category = "general"
)

// Extended taxonomy recognised by routing and escalation but never emitted by
// the classifier.
const (
	CategoryProductInquiry Category = "product_inquiry"
	CategoryPolicyInquiry  Category = "policy_inquiry"
	CategorySupportInquiry Category = "support_inquiry"
	CategoryGeneralInquiry Category = "general_inquiry"
	CategoryEscalate       Category = "escalate"
	CategoryOutOfScope     Category = "out_of_scope"
	CategoryComplaint      Category = "complaint"
	CategoryIssue          Category = "issue"
)

// Document is a retrieved knowledge-base chunk attached to the state for observability
type Document struct {
	Rank     int                    `json:"rank"`
	Content  string                 `json:"content"`
	Source   string                 `json:"source"`
	Score    float64                `json:"score"`
	Metadata map[string]interface{} `json:"metadata"`
}

// State is the per-request record threaded through classification, routing
// and response generation. It lives for exactly one workflow run.
type State struct {
	UserQuery          string                 `json:"user_query"`
	ConversationID     string                 `json:"conversation_id"`
	ClassifiedCategory Category               `json:"classified_category"`
	ConfidenceScore    float64                `json:"confidence_score"`
	RetrievedDocuments []Document             `json:"retrieved_documents"`
	FinalResponse      string                 `json:"final_response"`
	NeedsEscalation    bool                   `json:"needs_escalation"`
	Metadata           map[string]interface{} `json:"metadata"`
	Timestamp          time.Time              `json:"timestamp"`

	classified bool
	responded  bool
}

// NewState creates a fresh record. An empty conversation id is replaced by a
// generated one; it is only ever used as a correlation token.
func NewState(query, conversationID string) *State {
	if conversationID == "" {
		conversationID = uuid.NewString()
	}
	return &State{
		UserQuery:          query,
		ConversationID:     conversationID,
		RetrievedDocuments: []Document{},
		Metadata:           make(map[string]interface{}),
		Timestamp:          time.Now(),
	}
}

// Classify assigns the category and confidence. It succeeds only once.
func (s *State) Classify(category Category, confidence float64) error {
	if s.classified {
		return ErrAlreadyClassified
	}
	s.ClassifiedCategory = category
	s.ConfidenceScore = confidence
	s.classified = true
	return nil
}

// IsClassified reports whether Classify has run
func (s *State) IsClassified() bool {
	return s.classified
}

// Respond sets the final response. It succeeds only once.
func (s *State) Respond(text string) error {
	if s.responded {
		return ErrAlreadyResponded
	}
	s.FinalResponse = text
	s.responded = true
	return nil
}

// Escalate sets the final response and marks the state as handed off to a human.
func (s *State) Escalate(text string) error {
	if err := s.Respond(text); err != nil {
		return err
	}
	s.NeedsEscalation = true
	return nil
}

// HasResponse reports whether a final response has been recorded
func (s *State) HasResponse() bool {
	return s.responded
}

// Annotate records a diagnostic value. Existing keys are never overwritten;
// the return value reports whether the value was stored.
func (s *State) Annotate(key string, value interface{}) bool {
	if s.Metadata == nil {
		s.Metadata = make(map[string]interface{})
	}
	if _, exists := s.Metadata[key]; exists {
		return false
	}
	s.Metadata[key] = value
	return true
}

// AttachDocuments records the retrieved documents in rank order.
func (s *State) AttachDocuments(docs []Document) {
	s.RetrievedDocuments = append(s.RetrievedDocuments[:0:0], docs...)
}
