package constant

const (
	// RAGAnswerPromptV1 is the single-turn grounding prompt. The two %s verbs
	// are filled with the formatted context and the customer question.
	RAGAnswerPromptV1 = `You are a helpful customer service assistant for TechGear Electronics.

Your role is to answer customer questions about our products, policies, and services.

IMPORTANT INSTRUCTIONS:
1. Answer ONLY based on the provided context
2. If the context doesn't contain the answer, say "I don't have that information in my knowledge base"
3. Be concise, friendly, and professional
4. Include specific details like prices, features, and policies when available
5. Do NOT make up or infer information not present in the context
6. If asked about products not in the context, politely inform the customer

Context:
%s

Customer Question: %s

Your Response:`

	NoRelevantInformation = "No relevant information found."

	DegradedReplyV1 = "I apologize, but I encountered an error processing your request. Please try again or contact our support team."

	EmptyQueryReplyV1 = "I didn't catch a question there. Ask me about our products, returns, shipping, payments or support and I'll be happy to help."

	ResponseSourceRAGChain  = "rag_chain"
	ClassifierTypeRuleBased = "rule-based"
)

// Metadata keys written to the per-request state
const (
	MetaError                = "error"
	MetaErrorType            = "error_type"
	MetaClassificationScores = "classification_scores"
	MetaClassifierType       = "classifier_type"
	MetaRoute                = "route"
	MetaRAGUsed              = "rag_used"
	MetaRAGSkipped           = "rag_skipped"
	MetaDocumentCount        = "document_count"
	MetaResponseSource       = "response_source"
	MetaEscalationReason     = "escalation_reason"
	MetaRequiresHuman        = "requires_human"
	MetaEscalationTimestamp  = "escalation_timestamp"
	MetaSupportEmail         = "support_email"
	MetaSupportPhone         = "support_phone"
	MetaSupportHours         = "support_hours"
	MetaSupportWebsite       = "support_website"
	MetaUnrecognizedCategory = "unrecognized_category"
)

// Values of MetaErrorType
const (
	ErrorTypeClassificationDegraded = "classification_degraded"
	ErrorTypeRetrievalUnavailable   = "retrieval_unavailable"
	ErrorTypeGenerationFailure      = "generation_failure"
	ErrorTypeUnrecognizedCategory   = "unrecognized_category"
)
