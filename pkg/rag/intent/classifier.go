package intent

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"techgear-support-be/internal/constant"
	"techgear-support-be/internal/pkg/logger"
	"techgear-support-be/pkg/store"
)

const (
	// FallbackConfidence is reported when no pattern of any category matches
	FallbackConfidence = 0.3
	// ConfidenceBoost is added when the winning category matched more than one pattern
	ConfidenceBoost = 0.2
)

// CategoryRules pairs a category with its ordered keyword patterns
type CategoryRules struct {
	Category store.Category
	Patterns []*regexp.Regexp
}

// CategoryScore is the number of distinct patterns of a category found in a query
type CategoryScore struct {
	Category store.Category `json:"category"`
	Score    int            `json:"score"`
}

// Result is the outcome of classifying a single query
type Result struct {
	Category   store.Category
	Confidence float64
	Scores     []CategoryScore
	// Degraded is set when the query could not be scored at all
	Degraded bool
}

// ScoreMap flattens Scores for state metadata
func (r Result) ScoreMap() map[string]int {
	out := make(map[string]int, len(r.Scores))
	for _, s := range r.Scores {
		out[string(s.Category)] = s.Score
	}
	return out
}

// DefaultRules returns the keyword table in declaration order: product,
// returns, general. Order matters for tie-breaking.
func DefaultRules() []CategoryRules {
	return []CategoryRules{
		{
			Category: store.CategoryProduct,
			Patterns: compile(
				`smartwatch|smart watch|watch`,
				`earbuds|earphones|headphones`,
				`power bank|powerbank|battery pack`,
				`price|cost|how much`,
				`features|specifications|specs`,
				`available|in stock|buy|purchase`,
				`model|version|variant`,
				`color|colour|size`,
				`battery life|charging`,
				`warranty period|guarantee`,
				`water resistant|waterproof`,
				`compatible|compatibility`,
				`review|rating|feedback`,
			),
		},
		{
			Category: store.CategoryReturns,
			Patterns: compile(
				`return|refund`,
				`exchange|replace|replacement`,
				`cancel|cancellation`,
				`warranty|guarantee`,
				`defective|damaged|broken|faulty`,
				`not working|issue|problem`,
				`complaint|dispute`,
				`money back|get my money`,
				`send back|ship back`,
			),
		},
		{
			Category: store.CategoryGeneral,
			Patterns: compile(
				`support|help|assist`,
				`contact|reach|call|email|phone`,
				`hours|timing|when open`,
				`shipping|delivery|dispatch`,
				`payment|pay|cod|cash on delivery`,
				`track|tracking|order status`,
				`account|login|register|sign up`,
				`location|address|store`,
				`offer|discount|coupon|deal`,
			),
		},
	}
}

func compile(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(`(?i)`+p))
	}
	return out
}

// Classifier is a deterministic keyword classifier. It holds no mutable
// state and may be shared across goroutines.
type Classifier struct {
	rules  []CategoryRules
	logger logger.ILogger
}

// NewClassifier builds a classifier over rules. Nil or empty rules fall back to DefaultRules.
func NewClassifier(rules []CategoryRules, logger logger.ILogger) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Classifier{
		rules:  rules,
		logger: logger,
	}
}

// Classify scores query against every category. The first category in
// declaration order wins ties.
func (c *Classifier) Classify(query string) Result {
	processed := strings.ToLower(strings.TrimSpace(query))
	if processed == "" {
		c.logger.Warn("CLASSIFIER", "Empty query, defaulting to general", nil)
		return Result{
			Category:   store.CategoryGeneral,
			Confidence: 0.0,
			Scores:     []CategoryScore{},
			Degraded:   true,
		}
	}

	scores := make([]CategoryScore, 0, len(c.rules))
	total := 0
	best := -1
	for i, rule := range c.rules {
		count := 0
		for _, pattern := range rule.Patterns {
			if pattern.MatchString(processed) {
				count++
			}
		}
		scores = append(scores, CategoryScore{Category: rule.Category, Score: count})
		total += count
		if best < 0 || count > scores[best].Score {
			best = i
		}
	}

	result := Result{Scores: scores}
	if total == 0 {
		result.Category = store.CategoryGeneral
		result.Confidence = FallbackConfidence
	} else {
		winning := scores[best].Score
		confidence := float64(winning) / float64(total)
		if winning > 1 {
			confidence = math.Min(confidence+ConfidenceBoost, 1.0)
		}
		result.Category = scores[best].Category
		result.Confidence = math.Round(confidence*100) / 100
	}

	c.logger.Debug("CLASSIFIER", "Query classified", map[string]interface{}{
		"category":   result.Category,
		"confidence": result.Confidence,
		"scores":     result.ScoreMap(),
	})

	return result
}

// ClassifyState classifies the state's query and records the outcome on it
func (c *Classifier) ClassifyState(state *store.State) Result {
	result := c.Classify(state.UserQuery)
	if err := state.Classify(result.Category, result.Confidence); err != nil {
		c.logger.Warn("CLASSIFIER", "State already classified", map[string]interface{}{
			"conversation_id": state.ConversationID,
		})
		return result
	}

	if result.Degraded {
		state.Annotate(constant.MetaError, "Empty query")
		state.Annotate(constant.MetaErrorType, constant.ErrorTypeClassificationDegraded)
		return result
	}
	state.Annotate(constant.MetaClassificationScores, result.ScoreMap())
	state.Annotate(constant.MetaClassifierType, constant.ClassifierTypeRuleBased)
	return result
}

// Explain renders a human readable summary of a classification
func Explain(query string, result Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Query: '%s'\n", query)
	fmt.Fprintf(&sb, "Classified as: %s\n", strings.ToUpper(string(result.Category)))
	fmt.Fprintf(&sb, "Confidence: %.2f\n", result.Confidence)
	sb.WriteString("Match scores:")
	for _, s := range result.Scores {
		fmt.Fprintf(&sb, " %s=%d", s.Category, s.Score)
	}
	return sb.String()
}
