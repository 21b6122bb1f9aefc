package router

import (
	"techgear-support-be/internal/pkg/logger"
	"techgear-support-be/pkg/store"
)

// Route is the handling path selected for a classified query
type Route string

const (
	RouteRAG      Route = "RAG"      // Answer from the knowledge base
	RouteEscalate Route = "ESCALATE" // Hand off to human support
)

// DefaultRAGCategories are answered from the knowledge base
var DefaultRAGCategories = []store.Category{
	store.CategoryProduct,
	store.CategoryGeneral,
	store.CategoryProductInquiry,
	store.CategoryGeneralInquiry,
}

// DefaultEscalateCategories always go to a human
var DefaultEscalateCategories = []store.Category{
	store.CategoryReturns,
	store.CategoryPolicyInquiry,
	store.CategoryEscalate,
	store.CategoryOutOfScope,
	store.CategoryComplaint,
	store.CategoryIssue,
}

// Router maps categories to routes. The table is fixed at construction and
// read-only afterwards, so a Router is safe for concurrent use.
type Router struct {
	table  map[store.Category]Route
	logger logger.ILogger
}

// New builds a router from explicit category sets. A category listed in both
// sets escalates.
func New(rag, escalate []store.Category, logger logger.ILogger) *Router {
	table := make(map[store.Category]Route, len(rag)+len(escalate))
	for _, c := range rag {
		table[c] = RouteRAG
	}
	for _, c := range escalate {
		table[c] = RouteEscalate
	}
	return &Router{
		table:  table,
		logger: logger,
	}
}

// Default builds the standard routing table
func Default(logger logger.ILogger) *Router {
	return New(DefaultRAGCategories, DefaultEscalateCategories, logger)
}

// Route returns the path for category. Unknown categories escalate.
func (r *Router) Route(category store.Category) Route {
	if route, ok := r.table[category]; ok {
		return route
	}
	r.logger.Warn("ROUTER", "Unrecognized category, escalating", map[string]interface{}{
		"category": category,
	})
	return RouteEscalate
}

// Recognizes reports whether category has an explicit entry in the table
func (r *Router) Recognizes(category store.Category) bool {
	_, ok := r.table[category]
	return ok
}
