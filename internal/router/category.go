// Package router holds the three routing decisions the kiosk makes before it
// touches a model: which menu category an order belongs to, which model tier
// should answer a query, and whether the query is served from the cloud or
// the local backend.
package router

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"cafekiosk/internal/menu"
	"cafekiosk/internal/metrics"
	"cafekiosk/internal/validate"
)

// classifier is the gateway surface the category router needs.
type classifier interface {
	ClassifyCategory(ctx context.Context, text string) (string, error)
}

// RouteDecision is the outcome of category routing for one order text.
type RouteDecision struct {
	Category   menu.Category `json:"category"`
	Confidence float64       `json:"confidence"`
	Reasoning  string        `json:"reasoning"`
}

// CategoryRouter decides which menu category an order text belongs to.
// Keyword scoring answers clear-cut orders without a network call; everything
// else goes to the gateway.
type CategoryRouter struct {
	gateway  classifier
	catalog  *menu.Catalog
	keywords map[menu.Category][]string
	log      zerolog.Logger
}

// NewCategoryRouter returns a router over the given catalog and gateway.
func NewCategoryRouter(gateway classifier, catalog *menu.Catalog, logger zerolog.Logger) *CategoryRouter {
	return &CategoryRouter{
		gateway:  gateway,
		catalog:  catalog,
		keywords: categoryKeywords(),
		log:      logger.With().Str("component", "category_router").Logger(),
	}
}

func categoryKeywords() map[menu.Category][]string {
	return map[menu.Category][]string{
		menu.CategoryBeverage: {
			"음료", "커피", "라떼", "아메리카노", "주스", "티", "차",
			"마시", "drink", "coffee", "음료수", "시원한", "따뜻한",
		},
		menu.CategoryDessert: {
			"디저트", "케이크", "빵", "쿠키", "마카롱", "와플", "달콤한",
			"dessert", "sweet", "간식", "후식", "타르트", "스콘",
		},
		menu.CategoryMeal: {
			"식사", "끼니", "샌드위치", "파스타", "샐러드", "피자",
			"meal", "food", "먹을", "배고", "점심", "저녁", "아침",
		},
	}
}

// Route classifies one order text. It never fails: an unreachable gateway
// degrades to the default category at low confidence.
func (r *CategoryRouter) Route(ctx context.Context, orderText string) RouteDecision {
	normalized := validate.NormalizeWhitespace(orderText)

	if decision, ok := r.classifyByKeywords(normalized); ok && decision.Confidence > 0.8 {
		r.log.Info().
			Str("category", string(decision.Category)).
			Float64("confidence", decision.Confidence).
			Msg("fast keyword classification")
		metrics.RoutingDecisions.WithLabelValues("category", string(decision.Category)).Inc()
		return decision
	}

	label, err := r.gateway.ClassifyCategory(ctx, normalized)
	if err != nil {
		r.log.Error().Err(err).Msg("category classification failed")
		decision := RouteDecision{
			Category:   menu.CategoryBeverage,
			Confidence: 0.5,
			Reasoning:  "Fallback to default category",
		}
		metrics.RoutingDecisions.WithLabelValues("category", string(decision.Category)).Inc()
		return decision
	}

	category := r.parseCategory(label)
	r.log.Info().
		Str("category", string(category)).
		Str("raw_output", label).
		Msg("model classification")

	decision := RouteDecision{
		Category:   category,
		Confidence: 0.9,
		Reasoning:  "LLM classification",
	}
	metrics.RoutingDecisions.WithLabelValues("category", string(decision.Category)).Inc()
	return decision
}

// classifyByKeywords scores keyword hits per category. Returns false when no
// keyword hits at all or the winner's share of hits is under 0.6.
func (r *CategoryRouter) classifyByKeywords(text string) (RouteDecision, bool) {
	lower := strings.ToLower(text)

	var (
		best      menu.Category
		bestScore int
		total     int
	)
	for _, category := range menu.Categories() {
		score := 0
		for _, keyword := range r.keywords[category] {
			if strings.Contains(lower, keyword) {
				score++
			}
		}
		total += score
		if score > bestScore {
			best = category
			bestScore = score
		}
	}

	if total == 0 {
		return RouteDecision{}, false
	}

	confidence := float64(bestScore) / float64(total)
	if confidence < 0.6 {
		return RouteDecision{}, false
	}

	return RouteDecision{
		Category:   best,
		Confidence: confidence,
		Reasoning:  "Keyword matching",
	}, true
}

var categoryLabels = map[string]menu.Category{
	"음료":       menu.CategoryBeverage,
	"beverage": menu.CategoryBeverage,
	"디저트":      menu.CategoryDessert,
	"dessert":  menu.CategoryDessert,
	"식사":       menu.CategoryMeal,
	"meal":     menu.CategoryMeal,
}

func (r *CategoryRouter) parseCategory(label string) menu.Category {
	label = strings.ToLower(strings.TrimSpace(label))
	for key, category := range categoryLabels {
		if strings.Contains(label, key) {
			return category
		}
	}
	r.log.Warn().Str("label", label).Msg("unknown category label, using default")
	return menu.CategoryBeverage
}

// RouteBatch classifies several order texts concurrently. Results are
// positional; a panic in one route becomes that slot's fallback decision.
func (r *CategoryRouter) RouteBatch(ctx context.Context, orderTexts []string) []RouteDecision {
	decisions := make([]RouteDecision, len(orderTexts))

	var wg sync.WaitGroup
	for i, text := range orderTexts {
		wg.Add(1)
		go func(i int, text string) {
			defer wg.Done()
			defer func() {
				if rec := recover(); rec != nil {
					r.log.Error().Int("index", i).Interface("panic", rec).Msg("route panicked")
					decisions[i] = RouteDecision{
						Category:   menu.CategoryBeverage,
						Confidence: 0.5,
						Reasoning:  "Error fallback",
					}
				}
			}()
			decisions[i] = r.Route(ctx, text)
		}(i, text)
	}
	wg.Wait()

	return decisions
}

// AvailableMenus returns the orderable menu names for a category.
func (r *CategoryRouter) AvailableMenus(category menu.Category) []string {
	return r.catalog.AvailableNames(category)
}

// CategoryStats reports how many menu items each category carries.
func (r *CategoryRouter) CategoryStats() map[string]int {
	stats := make(map[string]int)
	for category, count := range r.catalog.CategoryCounts() {
		stats[string(category)] = count
	}
	return stats
}
