package router

import (
	"context"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"cafekiosk/internal/config"
	"cafekiosk/internal/llm"
	"cafekiosk/internal/metrics"
)

// availability probe results stay valid this long before a re-probe.
const availabilityCacheTTL = 5 * time.Minute

// sensitivityGateway is the gateway surface the serving router needs.
type sensitivityGateway interface {
	AnalyzeSensitivity(ctx context.Context, query string) (llm.Sensitivity, error)
	CheckLocalAvailability(ctx context.Context) bool
	LocalModelName() string
}

// ServingDecision is the outcome of serving routing for one query.
type ServingDecision struct {
	Target            llm.Backend     `json:"target"`
	ModelName         string          `json:"model_name"`
	Sensitivity       llm.Sensitivity `json:"sensitivity"`
	Reason            string          `json:"reason"`
	FallbackAvailable bool            `json:"fallback_available"`
}

// ServingStats aggregates the retained serving history.
type ServingStats struct {
	TotalServings           int                     `json:"total_servings"`
	TargetDistribution      map[llm.Backend]int     `json:"target_distribution"`
	SensitivityDistribution map[llm.Sensitivity]int `json:"sensitivity_distribution"`
	LocalAvailabilityRate   float64                 `json:"local_availability_rate"`
}

// Terms whose presence raises a query's assessed privacy sensitivity.
var sensitiveKeywords = []string{
	"전화번호", "주소", "이메일", "카드", "계좌",
	"주민등록", "비밀번호", "개인정보",
	"phone", "address", "email", "card", "password",
	"personal", "private", "confidential",
}

// ServingRouter decides whether a query is served from the cloud or the local
// backend, based on content sensitivity and local-model availability. It
// caches the availability probe; everything else is per-call.
type ServingRouter struct {
	gateway  sensitivityGateway
	settings config.Settings
	history  *Ring[ServingDecision]
	log      zerolog.Logger

	mu             sync.Mutex
	localAvailable bool
	lastChecked    time.Time

	now func() time.Time
}

// NewServingRouter returns a router using the given gateway and settings.
func NewServingRouter(gateway sensitivityGateway, settings config.Settings, logger zerolog.Logger) *ServingRouter {
	return &ServingRouter{
		gateway:  gateway,
		settings: settings,
		history:  NewRing[ServingDecision](settings.HistoryCapacity),
		log:      logger.With().Str("component", "serving_router").Logger(),
		now:      time.Now,
	}
}

// Route picks a serving target for the query. Forced flags and non-auto
// strategies short-circuit; otherwise sensitivity and availability decide.
func (r *ServingRouter) Route(ctx context.Context, query string, forceLocal, forceCloud bool) ServingDecision {
	var decision ServingDecision
	switch {
	case forceCloud:
		decision = r.cloudDecision(llm.SensitivityLow, "Forced cloud serving", false)
	case forceLocal:
		decision = r.localDecision(ctx, llm.SensitivityHigh, "Forced local serving")
	case r.settings.ModelStrategy == config.StrategyCloudOnly:
		decision = r.cloudDecision(llm.SensitivityLow, "Cloud-only strategy", false)
	case r.settings.ModelStrategy == config.StrategyLocalOnly:
		decision = r.localDecision(ctx, llm.SensitivityMedium, "Local-only strategy")
	default:
		decision = r.autoRoute(ctx, query)
	}

	r.history.Append(decision)
	metrics.RoutingDecisions.WithLabelValues("serving", string(decision.Target)).Inc()

	r.log.Info().
		Str("target", string(decision.Target)).
		Str("sensitivity", string(decision.Sensitivity)).
		Str("reason", decision.Reason).
		Msg("serving decision made")

	return decision
}

func (r *ServingRouter) autoRoute(ctx context.Context, query string) ServingDecision {
	sensitivity := AssessSensitivity(query)
	localAvailable := r.checkLocalAvailability(ctx)

	switch sensitivity {
	case llm.SensitivityHigh:
		if localAvailable {
			return r.localDecision(ctx, sensitivity, "High sensitivity, using local model for privacy")
		}
		r.log.Warn().Msg("high sensitivity query but local model unavailable")
		return r.cloudDecision(sensitivity, "High sensitivity but local unavailable, using cloud with caution", false)
	case llm.SensitivityLow:
		return r.cloudDecision(sensitivity, "Low sensitivity, using cloud for better performance", localAvailable)
	default:
		if localAvailable {
			return r.localDecision(ctx, sensitivity, "Medium sensitivity, local model available")
		}
		return r.cloudDecision(sensitivity, "Medium sensitivity, local unavailable, using cloud", false)
	}
}

// AssessSensitivity grades a query by counting sensitive keyword hits:
// two or more is high, one is medium, none is low.
func AssessSensitivity(query string) llm.Sensitivity {
	lower := strings.ToLower(query)
	hits := 0
	for _, keyword := range sensitiveKeywords {
		if strings.Contains(lower, keyword) {
			hits++
		}
	}
	switch {
	case hits >= 2:
		return llm.SensitivityHigh
	case hits == 1:
		return llm.SensitivityMedium
	default:
		return llm.SensitivityLow
	}
}

// AssessSensitivityLLM grades a query with a model prompt instead of the
// keyword heuristic. Gateway failure degrades to medium.
func (r *ServingRouter) AssessSensitivityLLM(ctx context.Context, query string) llm.Sensitivity {
	sensitivity, err := r.gateway.AnalyzeSensitivity(ctx, query)
	if err != nil {
		r.log.Error().Err(err).Msg("sensitivity analysis failed")
		return llm.SensitivityMedium
	}
	return sensitivity
}

// checkLocalAvailability probes the local backend, serving a cached result
// while it is fresh.
func (r *ServingRouter) checkLocalAvailability(ctx context.Context) bool {
	r.mu.Lock()
	if !r.lastChecked.IsZero() && r.now().Sub(r.lastChecked) < availabilityCacheTTL {
		available := r.localAvailable
		r.mu.Unlock()
		return available
	}
	r.mu.Unlock()

	available := r.gateway.CheckLocalAvailability(ctx)

	r.mu.Lock()
	r.localAvailable = available
	r.lastChecked = r.now()
	r.mu.Unlock()

	return available
}

func (r *ServingRouter) cloudDecision(sensitivity llm.Sensitivity, reason string, fallbackAvailable bool) ServingDecision {
	return ServingDecision{
		Target:            llm.BackendCloud,
		ModelName:         r.settings.StandardModel,
		Sensitivity:       sensitivity,
		Reason:            reason,
		FallbackAvailable: fallbackAvailable,
	}
}

func (r *ServingRouter) localDecision(ctx context.Context, sensitivity llm.Sensitivity, reason string) ServingDecision {
	if !r.checkLocalAvailability(ctx) {
		r.log.Warn().Msg("local model not available, falling back to cloud")
		return r.cloudDecision(sensitivity, reason+" (fallback to cloud: local unavailable)", false)
	}
	return ServingDecision{
		Target:            llm.BackendLocal,
		ModelName:         r.gateway.LocalModelName(),
		Sensitivity:       sensitivity,
		Reason:            reason,
		FallbackAvailable: true,
	}
}

// RouteBatch routes several queries concurrently. Results are positional; a
// panic in one route becomes a medium-sensitivity cloud default.
func (r *ServingRouter) RouteBatch(ctx context.Context, queries []string) []ServingDecision {
	decisions := make([]ServingDecision, len(queries))

	var wg sync.WaitGroup
	for i, query := range queries {
		wg.Add(1)
		go func(i int, query string) {
			defer wg.Done()
			defer func() {
				if rec := recover(); rec != nil {
					r.log.Error().Int("index", i).Interface("panic", rec).Msg("route panicked")
					decisions[i] = r.cloudDecision(llm.SensitivityMedium, "Error fallback", false)
				}
			}()
			decisions[i] = r.Route(ctx, query, false, false)
		}(i, query)
	}
	wg.Wait()

	return decisions
}

// ServingStats summarizes the retained history. The availability rate is the
// percentage of decisions that either used local serving or had it available
// as a fallback.
func (r *ServingRouter) ServingStats() ServingStats {
	history := r.history.Snapshot()
	stats := ServingStats{
		TargetDistribution:      make(map[llm.Backend]int),
		SensitivityDistribution: make(map[llm.Sensitivity]int),
	}
	if len(history) == 0 {
		return stats
	}

	localCount := 0
	for _, d := range history {
		stats.TargetDistribution[d.Target]++
		stats.SensitivityDistribution[d.Sensitivity]++
		if d.Target == llm.BackendLocal || d.FallbackAvailable {
			localCount++
		}
	}

	stats.TotalServings = len(history)
	rate := float64(localCount) / float64(len(history)) * 100
	stats.LocalAvailabilityRate = math.Round(rate*100) / 100
	return stats
}

// RecentDecisions returns the newest retained decisions, oldest first.
func (r *ServingRouter) RecentDecisions(limit int) []ServingDecision {
	return r.history.Recent(limit)
}

// ClearHistory drops the retained history.
func (r *ServingRouter) ClearHistory() {
	count := r.history.Clear()
	r.log.Info().Int("count", count).Msg("serving decision history cleared")
}

// TestLocalConnection probes the local backend once, bypassing the cache,
// and reports the probe latency.
func (r *ServingRouter) TestLocalConnection(ctx context.Context) (available bool, latency time.Duration, model string) {
	start := r.now()
	available = r.gateway.CheckLocalAvailability(ctx)
	latency = r.now().Sub(start)
	if available {
		model = r.gateway.LocalModelName()
	}

	r.mu.Lock()
	r.localAvailable = available
	r.lastChecked = r.now()
	r.mu.Unlock()

	return available, latency, model
}
