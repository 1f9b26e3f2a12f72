package router

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"cafekiosk/internal/config"
	"cafekiosk/internal/llm"
)

type fakeServingGateway struct {
	sensitivity llm.Sensitivity
	err         error
	localUp     bool
	localModel  string
	probeCalls  int
}

func (f *fakeServingGateway) AnalyzeSensitivity(ctx context.Context, query string) (llm.Sensitivity, error) {
	return f.sensitivity, f.err
}

func (f *fakeServingGateway) CheckLocalAvailability(ctx context.Context) bool {
	f.probeCalls++
	return f.localUp
}

func (f *fakeServingGateway) LocalModelName() string { return f.localModel }

func newServingRouter(gw sensitivityGateway, strategy config.Strategy) *ServingRouter {
	return NewServingRouter(gw, testSettings(strategy), zerolog.Nop())
}

func TestAssessSensitivity(t *testing.T) {
	assert.Equal(t, llm.SensitivityLow, AssessSensitivity("아메리카노 주세요"))
	assert.Equal(t, llm.SensitivityMedium, AssessSensitivity("내 전화번호 알려줄게"))
	assert.Equal(t, llm.SensitivityHigh, AssessSensitivity("전화번호랑 주소를 저장해줘"))
	assert.Equal(t, llm.SensitivityHigh, AssessSensitivity("my EMAIL and CARD number"))
}

func TestServingRouteHighSensitivityLocal(t *testing.T) {
	gw := &fakeServingGateway{localUp: true, localModel: "llama3.2"}
	r := newServingRouter(gw, config.StrategyAuto)

	decision := r.Route(context.Background(), "전화번호랑 주소를 알려줄게", false, false)

	assert.Equal(t, llm.BackendLocal, decision.Target)
	assert.Equal(t, llm.SensitivityHigh, decision.Sensitivity)
	assert.Equal(t, "llama3.2", decision.ModelName)
	assert.True(t, decision.FallbackAvailable)
}

func TestServingRouteHighSensitivityLocalDown(t *testing.T) {
	gw := &fakeServingGateway{localUp: false}
	r := newServingRouter(gw, config.StrategyAuto)

	decision := r.Route(context.Background(), "전화번호랑 주소", false, false)

	assert.Equal(t, llm.BackendCloud, decision.Target)
	assert.Equal(t, llm.SensitivityHigh, decision.Sensitivity)
	assert.Contains(t, decision.Reason, "caution")
}

func TestServingRouteLowSensitivityCloud(t *testing.T) {
	gw := &fakeServingGateway{localUp: true, localModel: "llama3.2"}
	r := newServingRouter(gw, config.StrategyAuto)

	decision := r.Route(context.Background(), "아메리카노 주세요", false, false)

	assert.Equal(t, llm.BackendCloud, decision.Target)
	assert.Equal(t, "gpt-5", decision.ModelName)
	assert.True(t, decision.FallbackAvailable)
}

func TestServingRouteMediumSensitivity(t *testing.T) {
	gw := &fakeServingGateway{localUp: true, localModel: "llama3.2"}
	r := newServingRouter(gw, config.StrategyAuto)

	decision := r.Route(context.Background(), "내 주소로 배달돼?", false, false)

	assert.Equal(t, llm.BackendLocal, decision.Target)
	assert.Equal(t, llm.SensitivityMedium, decision.Sensitivity)
}

func TestServingRouteForcedFlags(t *testing.T) {
	gw := &fakeServingGateway{localUp: true, localModel: "llama3.2"}
	r := newServingRouter(gw, config.StrategyAuto)

	cloud := r.Route(context.Background(), "전화번호 주소", false, true)
	assert.Equal(t, llm.BackendCloud, cloud.Target)

	local := r.Route(context.Background(), "아메리카노", true, false)
	assert.Equal(t, llm.BackendLocal, local.Target)
	assert.Equal(t, llm.SensitivityHigh, local.Sensitivity)
}

func TestServingRouteLocalOnlyFallsBack(t *testing.T) {
	gw := &fakeServingGateway{localUp: false}
	r := newServingRouter(gw, config.StrategyLocalOnly)

	decision := r.Route(context.Background(), "아메리카노", false, false)

	assert.Equal(t, llm.BackendCloud, decision.Target)
	assert.Contains(t, decision.Reason, "local unavailable")
}

func TestAvailabilityCache(t *testing.T) {
	gw := &fakeServingGateway{localUp: true, localModel: "llama3.2"}
	r := newServingRouter(gw, config.StrategyAuto)

	now := time.Now()
	r.now = func() time.Time { return now }

	r.Route(context.Background(), "주소 전화번호", false, false)
	firstProbes := gw.probeCalls
	r.Route(context.Background(), "주소 전화번호", false, false)
	assert.Equal(t, firstProbes, gw.probeCalls, "fresh cache must not re-probe")

	now = now.Add(6 * time.Minute)
	r.Route(context.Background(), "주소 전화번호", false, false)
	assert.Greater(t, gw.probeCalls, firstProbes, "stale cache must re-probe")
}

func TestAssessSensitivityLLM(t *testing.T) {
	gw := &fakeServingGateway{sensitivity: llm.SensitivityHigh}
	r := newServingRouter(gw, config.StrategyAuto)
	assert.Equal(t, llm.SensitivityHigh, r.AssessSensitivityLLM(context.Background(), "질문"))

	gw = &fakeServingGateway{err: errors.New("down")}
	r = newServingRouter(gw, config.StrategyAuto)
	assert.Equal(t, llm.SensitivityMedium, r.AssessSensitivityLLM(context.Background(), "질문"))
}

func TestServingStats(t *testing.T) {
	gw := &fakeServingGateway{localUp: true, localModel: "llama3.2"}
	r := newServingRouter(gw, config.StrategyAuto)

	r.Route(context.Background(), "아메리카노", false, false)          // cloud, fallback available
	r.Route(context.Background(), "전화번호 주소", false, false)        // local
	r.Route(context.Background(), "케이크 추천해줘", false, false)       // cloud, fallback available

	stats := r.ServingStats()
	assert.Equal(t, 3, stats.TotalServings)
	assert.Equal(t, 2, stats.TargetDistribution[llm.BackendCloud])
	assert.Equal(t, 1, stats.TargetDistribution[llm.BackendLocal])
	assert.Equal(t, 100.0, stats.LocalAvailabilityRate)
}

func TestServingRouteBatch(t *testing.T) {
	gw := &fakeServingGateway{localUp: false}
	r := newServingRouter(gw, config.StrategyAuto)

	decisions := r.RouteBatch(context.Background(), []string{"아메리카노", "전화번호 주소"})
	assert.Len(t, decisions, 2)
	assert.Equal(t, llm.BackendCloud, decisions[0].Target)
	assert.Equal(t, llm.BackendCloud, decisions[1].Target)
}
