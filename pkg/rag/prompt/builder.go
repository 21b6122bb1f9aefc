package prompt

import (
	"fmt"
	"strings"

	"techgear-support-be/internal/constant"
	"techgear-support-be/pkg/store"
)

// Builder renders the grounded answer prompt
type Builder struct {
	template string
}

// NewBuilder creates a builder over the standard support-assistant template
func NewBuilder() *Builder {
	return &Builder{template: constant.RAGAnswerPromptV1}
}

// NewBuilderWithTemplate accepts a custom template with two %s verbs: context then question.
func NewBuilderWithTemplate(template string) *Builder {
	return &Builder{template: template}
}

// Build creates the prompt for query grounded on docs
func (b *Builder) Build(query string, docs []store.Document) string {
	return fmt.Sprintf(b.template, FormatContext(docs), query)
}

// FormatContext numbers documents from 1 in the given order
func FormatContext(docs []store.Document) string {
	if len(docs) == 0 {
		return constant.NoRelevantInformation
	}

	var sb strings.Builder
	for i, doc := range docs {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(fmt.Sprintf("[Source %d]\n", i+1))
		sb.WriteString(doc.Content)
	}
	return sb.String()
}
