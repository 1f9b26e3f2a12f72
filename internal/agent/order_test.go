package agent

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafekiosk/internal/config"
	"cafekiosk/internal/llm"
	"cafekiosk/internal/menu"
	"cafekiosk/internal/order"
	"cafekiosk/internal/router"
)

// fakeGateway satisfies every gateway surface the agents and routers use.
// ExtractItems runs the deterministic extractor unless items are pinned.
type fakeGateway struct {
	categoryLabel string
	categoryErr   error
	complexity    llm.Complexity
	pinnedItems   []order.ItemRequest
	completion    string
	completeErr   error
	recomText     string
	recomErr      error
	localUp       bool
}

func (f *fakeGateway) ClassifyCategory(ctx context.Context, text string) (string, error) {
	return f.categoryLabel, f.categoryErr
}

func (f *fakeGateway) AnalyzeComplexity(ctx context.Context, query string) (llm.Complexity, error) {
	if f.complexity == "" {
		return llm.ComplexityLow, nil
	}
	return f.complexity, nil
}

func (f *fakeGateway) AnalyzeSensitivity(ctx context.Context, query string) (llm.Sensitivity, error) {
	return llm.SensitivityLow, nil
}

func (f *fakeGateway) CheckLocalAvailability(ctx context.Context) bool { return f.localUp }

func (f *fakeGateway) LocalModelName() string { return "llama3.2" }

func (f *fakeGateway) ExtractItems(ctx context.Context, orderText, category string, availableMenus []string) []order.ItemRequest {
	if f.pinnedItems != nil {
		return f.pinnedItems
	}
	return llm.FallbackExtract(orderText, availableMenus)
}

func (f *fakeGateway) Complete(ctx context.Context, messages []llm.Message, backend llm.Backend, model string) (string, error) {
	return f.completion, f.completeErr
}

func (f *fakeGateway) GenerateRecommendation(ctx context.Context, items []order.ItemRequest) (string, error) {
	return f.recomText, f.recomErr
}

func newTestAgent(t *testing.T, gw *fakeGateway) (*OrderAgent, *order.Store) {
	t.Helper()
	catalog := menu.Default()
	settings := config.Settings{
		NanoModel:       "gpt-5-nano",
		MiniModel:       "gpt-5-mini",
		StandardModel:   "gpt-5",
		ModelStrategy:   config.StrategyCloudOnly,
		HistoryCapacity: 32,
	}
	logger := zerolog.Nop()
	store := order.NewStore(0.1, 32, logger)
	a := NewOrderAgent(
		catalog,
		router.NewCategoryRouter(gw, catalog, logger),
		router.NewModelRouter(gw, settings, logger),
		router.NewServingRouter(gw, settings, logger),
		gw,
		store,
		logger,
	)
	return a, store
}

func TestProcessHappyPath(t *testing.T) {
	a, store := newTestAgent(t, &fakeGateway{categoryLabel: "음료"})

	result := a.Process(context.Background(), "아이스 아메리카노 한 잔 주세요", "")

	require.True(t, result.Success, "errors: %v", result.Errors)
	require.NotNil(t, result.Order)
	assert.Equal(t, order.StatusConfirmed, result.Order.Status)
	assert.Contains(t, result.Message, result.Order.ID)

	require.Len(t, result.Order.Items, 1)
	item := result.Order.Items[0]
	assert.Equal(t, "아메리카노", item.MenuName)
	assert.Equal(t, 1, item.Quantity)
	assert.Equal(t, menu.TemperatureIce, item.Temperature)

	active, _ := store.Counts()
	assert.Equal(t, 1, active)
}

func TestProcessRejectsBadText(t *testing.T) {
	a, _ := newTestAgent(t, &fakeGateway{categoryLabel: "음료"})

	for _, text := range []string{"", " ", "아"} {
		result := a.Process(context.Background(), text, "")
		assert.False(t, result.Success, "text %q", text)
		assert.NotEmpty(t, result.Errors)
	}
}

func TestProcessRejectsUnsafeCharacters(t *testing.T) {
	a, _ := newTestAgent(t, &fakeGateway{categoryLabel: "음료"})

	result := a.Process(context.Background(), "아메리카노 @#$% 주세요", "")
	assert.False(t, result.Success)
	assert.Contains(t, result.Errors, "unsafe_characters")
}

func TestProcessNoItemsExtracted(t *testing.T) {
	a, _ := newTestAgent(t, &fakeGateway{categoryLabel: "음료"})

	result := a.Process(context.Background(), "아무거나 좋은 걸로 주세요", "")
	assert.False(t, result.Success)
	assert.Contains(t, result.Errors, "no_items_extracted")
}

func TestProcessRejectsExcessiveQuantity(t *testing.T) {
	gw := &fakeGateway{
		categoryLabel: "음료",
		pinnedItems:   []order.ItemRequest{{Menu: "아메리카노", Quantity: 150, Options: []string{}}},
	}
	a, store := newTestAgent(t, gw)

	result := a.Process(context.Background(), "아메리카노 150개 주세요", "")
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Errors)

	active, history := store.Counts()
	assert.Zero(t, active+history, "rejected order must not be created")
}

func TestProcessDropsItemsOutsideCategory(t *testing.T) {
	// 피자 routes to the meal category by fast path, so a beverage the
	// model hallucinated must be dropped.
	gw := &fakeGateway{
		pinnedItems: []order.ItemRequest{
			{Menu: "피자", Quantity: 1, Options: []string{}},
			{Menu: "아메리카노", Quantity: 1, Options: []string{}},
		},
	}
	a, _ := newTestAgent(t, gw)

	result := a.Process(context.Background(), "피자 하나 주세요", "")
	require.True(t, result.Success, "errors: %v", result.Errors)
	require.Len(t, result.Order.Items, 1)
	assert.Equal(t, "피자", result.Order.Items[0].MenuName)
}

func TestProcessBatch(t *testing.T) {
	a, _ := newTestAgent(t, &fakeGateway{categoryLabel: "음료"})

	results := a.ProcessBatch(context.Background(), []string{
		"아메리카노 2잔 주세요",
		"아",
		"카페라떼 주세요",
	})

	require.Len(t, results, 3)
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.True(t, results[2].Success)
}

func TestModifyOrder(t *testing.T) {
	a, _ := newTestAgent(t, &fakeGateway{categoryLabel: "음료"})

	created := a.Process(context.Background(), "아메리카노 2잔 주세요", "")
	require.True(t, created.Success)
	id := created.Order.ID

	result := a.Modify(id, []order.ItemRequest{{Menu: "치즈케이크", Quantity: 1, Options: []string{}}}, nil)
	require.True(t, result.Success)
	assert.Len(t, result.Order.Items, 2)

	result = a.Modify(id, nil, []string{"치즈케이크"})
	require.True(t, result.Success)
	assert.Len(t, result.Order.Items, 1)

	result = a.Modify("ORD-x", nil, nil)
	assert.False(t, result.Success)
	assert.Contains(t, result.Errors, "order_not_found")
}

func TestModifyConcurrentWithStatusReads(t *testing.T) {
	a, _ := newTestAgent(t, &fakeGateway{categoryLabel: "음료"})

	created := a.Process(context.Background(), "아메리카노 주세요", "")
	require.True(t, created.Success)
	id := created.Order.ID

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			result := a.Modify(id, []order.ItemRequest{{Menu: "케이크", Quantity: 1, Options: []string{}}}, nil)
			assert.True(t, result.Success)
		}()
		go func() {
			defer wg.Done()
			info := a.Status(id)
			assert.True(t, info.Found)
		}()
	}
	wg.Wait()

	final := a.Status(id)
	require.True(t, final.Found)
	assert.Equal(t, 51, final.ItemsCount)
}

func TestModifyArchivedOrderFails(t *testing.T) {
	a, store := newTestAgent(t, &fakeGateway{categoryLabel: "음료"})

	created := a.Process(context.Background(), "아메리카노 주세요", "")
	require.True(t, created.Success)
	store.UpdateStatus(created.Order.ID, order.StatusCompleted)

	result := a.Modify(created.Order.ID, nil, []string{"아메리카노"})
	assert.False(t, result.Success)
	assert.Contains(t, result.Errors, "order_not_modifiable")
}

func TestCancelOrder(t *testing.T) {
	a, _ := newTestAgent(t, &fakeGateway{categoryLabel: "음료"})

	created := a.Process(context.Background(), "아메리카노 주세요", "")
	require.True(t, created.Success)

	result := a.Cancel(created.Order.ID)
	require.True(t, result.Success)
	assert.Equal(t, order.StatusCancelled, result.Order.Status)

	assert.False(t, a.Cancel(created.Order.ID).Success)
}

func TestOrderStatusAndReceipt(t *testing.T) {
	a, _ := newTestAgent(t, &fakeGateway{categoryLabel: "음료"})

	created := a.Process(context.Background(), "아메리카노 2잔 주세요", "")
	require.True(t, created.Success)

	info := a.Status(created.Order.ID)
	assert.True(t, info.Found)
	assert.Equal(t, "confirmed", info.Status)
	assert.Equal(t, 1, info.ItemsCount)

	receipt, ok := a.Receipt(created.Order.ID)
	require.True(t, ok)
	assert.Contains(t, receipt, created.Order.ID)

	assert.False(t, a.Status("ORD-x").Found)
	_, ok = a.Receipt("ORD-x")
	assert.False(t, ok)
}

func TestQuery(t *testing.T) {
	gw := &fakeGateway{completion: "아메리카노는 4,500원입니다.", complexity: llm.ComplexityLow}
	a, _ := newTestAgent(t, gw)

	resp, err := a.Query(context.Background(), "아메리카노 얼마예요?")
	require.NoError(t, err)
	assert.Equal(t, "아메리카노는 4,500원입니다.", resp.Response)
	assert.Equal(t, "gpt-5-nano", resp.ModelUsed)
	assert.Equal(t, llm.ComplexityLow, resp.Complexity)
}

func TestQueryError(t *testing.T) {
	gw := &fakeGateway{completeErr: errors.New("rate limited")}
	a, _ := newTestAgent(t, gw)

	_, err := a.Query(context.Background(), "질문")
	assert.Error(t, err)
}

func TestStats(t *testing.T) {
	a, store := newTestAgent(t, &fakeGateway{categoryLabel: "음료"})

	created := a.Process(context.Background(), "아메리카노 2잔 주세요", "")
	require.True(t, created.Success)
	store.UpdateStatus(created.Order.ID, order.StatusCompleted)

	stats := a.Stats()
	assert.Equal(t, 8, stats.CategoryStats["음료"])
	assert.Equal(t, 1, stats.DailyRevenue.TotalOrders)
	require.NotEmpty(t, stats.PopularItems)
	assert.Equal(t, "아메리카노", stats.PopularItems[0].MenuName)
}
