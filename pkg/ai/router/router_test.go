package router

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"techgear-support-be/internal/pkg/logger"
	"techgear-support-be/pkg/store"
)

func TestRoute(t *testing.T) {
	r := Default(logger.NewNopLogger())

	tests := []struct {
		category   store.Category
		route      Route
		recognized bool
	}{
		{store.CategoryProduct, RouteRAG, true},
		{store.CategoryGeneral, RouteRAG, true},
		{store.CategoryProductInquiry, RouteRAG, true},
		{store.CategoryGeneralInquiry, RouteRAG, true},
		{store.CategoryReturns, RouteEscalate, true},
		{store.CategoryPolicyInquiry, RouteEscalate, true},
		{store.CategoryEscalate, RouteEscalate, true},
		{store.CategoryOutOfScope, RouteEscalate, true},
		{store.CategoryComplaint, RouteEscalate, true},
		{store.CategoryIssue, RouteEscalate, true},
		{store.CategorySupportInquiry, RouteEscalate, false},
		{store.Category(""), RouteEscalate, false},
		{store.Category("weather"), RouteEscalate, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			assert.Equal(t, tt.route, r.Route(tt.category))
			assert.Equal(t, tt.recognized, r.Recognizes(tt.category))
		})
	}
}

func TestRouteTableIsDisjoint(t *testing.T) {
	for _, rag := range DefaultRAGCategories {
		assert.NotContains(t, DefaultEscalateCategories, rag)
	}
}

func TestNewEscalateWinsOverlap(t *testing.T) {
	r := New(
		[]store.Category{store.CategoryProduct},
		[]store.Category{store.CategoryProduct},
		logger.NewNopLogger(),
	)
	assert.Equal(t, RouteEscalate, r.Route(store.CategoryProduct))
}
