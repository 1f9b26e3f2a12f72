package router

import (
	"context"
	"math"
	"sync"

	"github.com/rs/zerolog"

	"cafekiosk/internal/config"
	"cafekiosk/internal/llm"
	"cafekiosk/internal/metrics"
)

// complexityAnalyzer is the gateway surface the model router needs.
type complexityAnalyzer interface {
	AnalyzeComplexity(ctx context.Context, query string) (llm.Complexity, error)
	CheckLocalAvailability(ctx context.Context) bool
	LocalModelName() string
}

// ModelSelection is the outcome of model routing for one query.
type ModelSelection struct {
	Backend       llm.Backend    `json:"backend"`
	ModelName     string         `json:"model_name"`
	Complexity    llm.Complexity `json:"complexity"`
	Reason        string         `json:"reason"`
	EstimatedCost float64        `json:"estimated_cost"`
}

// SelectionStats aggregates the retained selection history.
type SelectionStats struct {
	TotalSelections        int                    `json:"total_selections"`
	ModelUsage             map[string]int         `json:"model_usage"`
	ComplexityDistribution map[llm.Complexity]int `json:"complexity_distribution"`
	TotalEstimatedCost     float64                `json:"total_estimated_cost"`
	AverageCost            float64                `json:"average_cost"`
}

// Relative cost per cloud model tier, arbitrary units.
var modelCosts = map[string]float64{
	"gpt-5-nano": 1.0,
	"gpt-5-mini": 3.0,
	"gpt-5":      5.0,
}

// ModelRouter picks a model tier for a free-text query from its assessed
// complexity and the configured strategy. This is the cost/capability axis;
// ServingRouter owns the privacy axis.
type ModelRouter struct {
	gateway  complexityAnalyzer
	settings config.Settings
	history  *Ring[ModelSelection]
	log      zerolog.Logger
}

// NewModelRouter returns a router using the given gateway and settings.
func NewModelRouter(gateway complexityAnalyzer, settings config.Settings, logger zerolog.Logger) *ModelRouter {
	return &ModelRouter{
		gateway:  gateway,
		settings: settings,
		history:  NewRing[ModelSelection](settings.HistoryCapacity),
		log:      logger.With().Str("component", "model_router").Logger(),
	}
}

// Route selects a model for the query. A zero forced complexity means the
// gateway assesses it; gateway failure degrades to medium.
func (r *ModelRouter) Route(ctx context.Context, query string, forced llm.Complexity) ModelSelection {
	var (
		complexity llm.Complexity
		reason     string
	)
	switch {
	case forced != "":
		complexity = forced
		reason = "Forced complexity level"
	default:
		assessed, err := r.gateway.AnalyzeComplexity(ctx, query)
		if err != nil {
			r.log.Error().Err(err).Msg("complexity analysis failed")
			complexity = llm.ComplexityMedium
			reason = "Fallback to medium complexity"
		} else {
			complexity = assessed
			reason = "LLM-analyzed complexity"
		}
	}

	backend, modelName := r.selectByStrategy(ctx, complexity)

	selection := ModelSelection{
		Backend:       backend,
		ModelName:     modelName,
		Complexity:    complexity,
		Reason:        reason,
		EstimatedCost: estimateCost(modelName, len([]rune(query))),
	}
	r.history.Append(selection)
	metrics.RoutingDecisions.WithLabelValues("model", modelName).Inc()

	r.log.Info().
		Str("model", modelName).
		Str("complexity", string(complexity)).
		Float64("estimated_cost", selection.EstimatedCost).
		Msg("model selected")

	return selection
}

func (r *ModelRouter) selectByStrategy(ctx context.Context, complexity llm.Complexity) (llm.Backend, string) {
	switch r.settings.ModelStrategy {
	case config.StrategyCloudOnly:
		return r.selectCloud(complexity)
	case config.StrategyLocalOnly:
		return r.selectLocal(ctx)
	default:
		return r.selectAuto(ctx, complexity)
	}
}

func (r *ModelRouter) selectCloud(complexity llm.Complexity) (llm.Backend, string) {
	switch complexity {
	case llm.ComplexityLow:
		return llm.BackendCloud, r.settings.NanoModel
	case llm.ComplexityHigh:
		return llm.BackendCloud, r.settings.StandardModel
	default:
		return llm.BackendCloud, r.settings.MiniModel
	}
}

func (r *ModelRouter) selectLocal(ctx context.Context) (llm.Backend, string) {
	if r.gateway.CheckLocalAvailability(ctx) {
		return llm.BackendLocal, r.gateway.LocalModelName()
	}
	r.log.Warn().Msg("local model not available, falling back to cloud")
	return r.selectCloud(llm.ComplexityLow)
}

func (r *ModelRouter) selectAuto(ctx context.Context, complexity llm.Complexity) (llm.Backend, string) {
	if complexity == llm.ComplexityLow && r.gateway.CheckLocalAvailability(ctx) {
		return llm.BackendLocal, r.gateway.LocalModelName()
	}
	return r.selectCloud(complexity)
}

// estimateCost weighs the tier's base cost by query length.
func estimateCost(modelName string, queryLength int) float64 {
	base, ok := modelCosts[modelName]
	if !ok {
		base = 1.0
	}
	lengthFactor := 1 + float64(queryLength)/1000
	return math.Round(base*lengthFactor*100) / 100
}

// RouteBatch selects models for several queries concurrently. Results are
// positional; a panic in one route becomes a medium-complexity cloud default.
func (r *ModelRouter) RouteBatch(ctx context.Context, queries []string) []ModelSelection {
	selections := make([]ModelSelection, len(queries))

	var wg sync.WaitGroup
	for i, query := range queries {
		wg.Add(1)
		go func(i int, query string) {
			defer wg.Done()
			defer func() {
				if rec := recover(); rec != nil {
					r.log.Error().Int("index", i).Interface("panic", rec).Msg("route panicked")
					selections[i] = ModelSelection{
						Backend:    llm.BackendCloud,
						ModelName:  r.settings.NanoModel,
						Complexity: llm.ComplexityMedium,
						Reason:     "Error fallback",
					}
				}
			}()
			selections[i] = r.Route(ctx, query, "")
		}(i, query)
	}
	wg.Wait()

	return selections
}

// SelectionStats summarizes the retained history.
func (r *ModelRouter) SelectionStats() SelectionStats {
	history := r.history.Snapshot()
	stats := SelectionStats{
		ModelUsage:             make(map[string]int),
		ComplexityDistribution: make(map[llm.Complexity]int),
	}
	if len(history) == 0 {
		return stats
	}

	var total float64
	for _, s := range history {
		stats.ModelUsage[s.ModelName]++
		stats.ComplexityDistribution[s.Complexity]++
		total += s.EstimatedCost
	}

	stats.TotalSelections = len(history)
	stats.TotalEstimatedCost = math.Round(total*100) / 100
	stats.AverageCost = math.Round(total/float64(len(history))*100) / 100
	return stats
}

// RecentSelections returns the newest retained selections, oldest first.
func (r *ModelRouter) RecentSelections(limit int) []ModelSelection {
	return r.history.Recent(limit)
}

// ClearHistory drops the retained history.
func (r *ModelRouter) ClearHistory() {
	count := r.history.Clear()
	r.log.Info().Int("count", count).Msg("model selection history cleared")
}
