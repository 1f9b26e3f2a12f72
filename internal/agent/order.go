// Package agent composes the routers, gateway, validators, and store into
// the order-processing pipeline and the recommendation engine.
package agent

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"cafekiosk/internal/llm"
	"cafekiosk/internal/menu"
	"cafekiosk/internal/metrics"
	"cafekiosk/internal/order"
	"cafekiosk/internal/router"
	"cafekiosk/internal/validate"
)

// orderGateway is the gateway surface the order agent needs.
type orderGateway interface {
	ExtractItems(ctx context.Context, orderText, category string, availableMenus []string) []order.ItemRequest
	Complete(ctx context.Context, messages []llm.Message, backend llm.Backend, model string) (string, error)
}

// ProcessResult is the outcome of one order-processing run.
type ProcessResult struct {
	Success bool         `json:"success"`
	Order   *order.Order `json:"order,omitempty"`
	Message string       `json:"message"`
	Errors  []string     `json:"errors"`
}

func failure(message string, errs ...string) ProcessResult {
	if errs == nil {
		errs = []string{}
	}
	return ProcessResult{Message: message, Errors: errs}
}

// QueryResponse is the answer to a free-text question.
type QueryResponse struct {
	Query      string         `json:"query"`
	Response   string         `json:"response"`
	ModelUsed  string         `json:"model_used"`
	Complexity llm.Complexity `json:"complexity"`
}

// StatusInfo is a summarized view of one order's state.
type StatusInfo struct {
	Found       bool   `json:"found"`
	OrderID     string `json:"order_id,omitempty"`
	Status      string `json:"status,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
	ItemsCount  int    `json:"items_count,omitempty"`
	TotalAmount int    `json:"total_amount,omitempty"`
	FinalAmount int    `json:"final_amount,omitempty"`
	Message     string `json:"message,omitempty"`
}

// Statistics bundles the aggregate views the kiosk exposes.
type Statistics struct {
	CategoryStats map[string]int        `json:"category_stats"`
	ModelStats    router.SelectionStats `json:"model_stats"`
	ServingStats  router.ServingStats   `json:"serving_stats"`
	DailyRevenue  order.DailyRevenue    `json:"daily_revenue"`
	PopularItems  []order.PopularItem   `json:"popular_items"`
}

// OrderAgent runs the full pipeline for one order text: validate and clean
// the input, route it to a category, extract items, validate them, price
// them, and persist the order.
type OrderAgent struct {
	catalog        *menu.Catalog
	categoryRouter *router.CategoryRouter
	modelRouter    *router.ModelRouter
	servingRouter  *router.ServingRouter
	gateway        orderGateway
	store          *order.Store
	validator      *validate.ItemValidator
	log            zerolog.Logger
}

// NewOrderAgent wires an agent from its collaborators.
func NewOrderAgent(
	catalog *menu.Catalog,
	categoryRouter *router.CategoryRouter,
	modelRouter *router.ModelRouter,
	servingRouter *router.ServingRouter,
	gateway orderGateway,
	store *order.Store,
	logger zerolog.Logger,
) *OrderAgent {
	return &OrderAgent{
		catalog:        catalog,
		categoryRouter: categoryRouter,
		modelRouter:    modelRouter,
		servingRouter:  servingRouter,
		gateway:        gateway,
		store:          store,
		validator:      validate.NewItemValidator(catalog),
		log:            logger.With().Str("component", "order_agent").Logger(),
	}
}

// Process runs one order text through the whole pipeline. Every accepted
// order is immediately confirmed.
func (a *OrderAgent) Process(ctx context.Context, orderText, customerNotes string) (result ProcessResult) {
	defer func() {
		if rec := recover(); rec != nil {
			a.log.Error().Interface("panic", rec).Msg("order processing panicked")
			metrics.OrdersProcessed.WithLabelValues("error").Inc()
			result = failure("주문 처리 중 오류가 발생했습니다.", fmt.Sprint(rec))
		}
	}()

	cleanText, res := a.validateAndSanitize(orderText)
	if !res.Valid {
		metrics.OrdersProcessed.WithLabelValues("rejected").Inc()
		return failure(res.Message, res.Errors...)
	}

	decision := a.categoryRouter.Route(ctx, cleanText)
	a.log.Info().
		Str("category", string(decision.Category)).
		Float64("confidence", decision.Confidence).
		Msg("order routed to category")

	items := a.extractItems(ctx, cleanText, decision.Category)
	if len(items) == 0 {
		metrics.OrdersProcessed.WithLabelValues("rejected").Inc()
		return failure("주문 항목을 찾을 수 없습니다. 다시 시도해주세요.", "no_items_extracted")
	}

	if res := a.validator.Items(items); !res.Valid {
		metrics.OrdersProcessed.WithLabelValues("rejected").Inc()
		return failure(res.Message, res.Errors...)
	}

	priced, err := a.priceItems(items, decision.Category)
	if err != nil {
		metrics.OrdersProcessed.WithLabelValues("rejected").Inc()
		return failure(err.Error(), "menu_not_found")
	}

	o := a.store.Create(priced, customerNotes)
	a.store.UpdateStatus(o.ID, order.StatusConfirmed)
	o, _ = a.store.Get(o.ID)

	metrics.OrdersProcessed.WithLabelValues("success").Inc()
	a.log.Info().
		Str("order_id", o.ID).
		Int("items", len(items)).
		Int("total_amount", o.TotalAmount).
		Msg("order processed")

	return ProcessResult{
		Success: true,
		Order:   o,
		Message: fmt.Sprintf("주문이 접수되었습니다. (주문번호: %s)", o.ID),
		Errors:  []string{},
	}
}

func (a *OrderAgent) validateAndSanitize(orderText string) (string, validate.Result) {
	if res := validate.OrderText(orderText); !res.Valid {
		return "", res
	}

	clean := validate.Sanitize(orderText)
	if !validate.SafeCharacters(clean) {
		return "", validate.Result{
			Message: "허용되지 않은 문자가 포함되어 있습니다.",
			Errors:  []string{"unsafe_characters"},
		}
	}

	clean = validate.NormalizeWhitespace(clean)
	clean = validate.NormalizeNumbers(clean)
	clean = validate.NormalizeMenuName(clean)
	return clean, validate.Result{Valid: true}
}

// extractItems extracts candidate items and keeps only those orderable in
// the routed category.
func (a *OrderAgent) extractItems(ctx context.Context, orderText string, category menu.Category) []order.ItemRequest {
	available := a.categoryRouter.AvailableMenus(category)
	extracted := a.gateway.ExtractItems(ctx, orderText, string(category), available)

	availableSet := make(map[string]struct{}, len(available))
	for _, name := range available {
		availableSet[name] = struct{}{}
	}

	kept := extracted[:0]
	for _, it := range extracted {
		if _, ok := availableSet[it.Menu]; ok {
			kept = append(kept, it)
			continue
		}
		a.log.Warn().
			Str("menu", it.Menu).
			Str("category", string(category)).
			Msg("extracted menu not available in category")
	}
	return kept
}

// priceItems turns validated requests into priced order lines.
func (a *OrderAgent) priceItems(items []order.ItemRequest, category menu.Category) ([]order.Item, error) {
	priced := make([]order.Item, 0, len(items))
	for _, req := range items {
		mi, ok := a.catalog.Item(req.Menu, category)
		if !ok {
			return nil, fmt.Errorf("메뉴를 찾을 수 없습니다: %s", req.Menu)
		}
		size, _ := validate.NormalizeSize(req.Size)
		temp, _ := validate.NormalizeTemperature(req.Temperature)
		priced = append(priced, order.NewItem(mi, req.Quantity, size, temp, req.Options))
	}
	return priced, nil
}

// ProcessBatch runs several order texts through the pipeline concurrently.
// Results are positional; one order's failure never aborts the batch.
func (a *OrderAgent) ProcessBatch(ctx context.Context, orderTexts []string) []ProcessResult {
	results := make([]ProcessResult, len(orderTexts))

	var wg sync.WaitGroup
	for i, text := range orderTexts {
		wg.Add(1)
		go func(i int, text string) {
			defer wg.Done()
			defer func() {
				if rec := recover(); rec != nil {
					a.log.Error().Int("index", i).Interface("panic", rec).Msg("batch order panicked")
					results[i] = failure("주문 처리 실패", fmt.Sprint(rec))
				}
			}()
			results[i] = a.Process(ctx, text, "")
		}(i, text)
	}
	wg.Wait()

	success := 0
	for _, r := range results {
		if r.Success {
			success++
		}
	}
	a.log.Info().
		Int("total", len(orderTexts)).
		Int("success", success).
		Int("failed", len(orderTexts)-success).
		Msg("batch orders processed")

	return results
}

// Modify adds and removes items on an active order. Archived orders are
// immutable. Additions are validated and priced before the order is touched,
// so a bad request leaves the order unchanged.
func (a *OrderAgent) Modify(orderID string, addItems []order.ItemRequest, removeMenus []string) ProcessResult {
	var priced []order.Item
	if len(addItems) > 0 {
		if res := a.validator.Items(addItems); !res.Valid {
			return failure(res.Message, res.Errors...)
		}
		for _, req := range addItems {
			mi, ok := a.catalog.Lookup(req.Menu)
			if !ok {
				return failure(fmt.Sprintf("메뉴를 찾을 수 없습니다: %s", req.Menu), "menu_not_found")
			}
			size, _ := validate.NormalizeSize(req.Size)
			temp, _ := validate.NormalizeTemperature(req.Temperature)
			priced = append(priced, order.NewItem(mi, req.Quantity, size, temp, req.Options))
		}
	}

	o, err := a.store.Modify(orderID, func(o *order.Order) error {
		for _, it := range priced {
			o.AddItem(it)
		}
		for _, name := range removeMenus {
			if !o.RemoveItem(name) {
				a.log.Warn().Str("order_id", orderID).Str("menu", name).Msg("remove of missing item ignored")
			}
		}
		return nil
	})
	switch {
	case errors.Is(err, order.ErrNotFound):
		return failure(fmt.Sprintf("주문을 찾을 수 없습니다. (ID: %s)", orderID), "order_not_found")
	case errors.Is(err, order.ErrNotModifiable):
		return failure("완료되거나 취소된 주문은 수정할 수 없습니다.", "order_not_modifiable")
	case err != nil:
		return failure(err.Error())
	}

	a.log.Info().
		Str("order_id", orderID).
		Int("added", len(addItems)).
		Int("removed", len(removeMenus)).
		Msg("order modified")

	return ProcessResult{Success: true, Order: o, Message: "주문이 수정되었습니다.", Errors: []string{}}
}

// Cancel cancels an active order.
func (a *OrderAgent) Cancel(orderID string) ProcessResult {
	if !a.store.Cancel(orderID) {
		return failure(fmt.Sprintf("주문을 찾을 수 없습니다. (ID: %s)", orderID), "order_not_found")
	}
	o, _ := a.store.Get(orderID)
	return ProcessResult{Success: true, Order: o, Message: "주문이 취소되었습니다.", Errors: []string{}}
}

// Status summarizes one order's state.
func (a *OrderAgent) Status(orderID string) StatusInfo {
	o, ok := a.store.Get(orderID)
	if !ok {
		return StatusInfo{Message: "주문을 찾을 수 없습니다."}
	}
	return StatusInfo{
		Found:       true,
		OrderID:     o.ID,
		Status:      string(o.Status),
		CreatedAt:   o.CreatedAt.Format("2006-01-02T15:04:05"),
		UpdatedAt:   o.UpdatedAt.Format("2006-01-02T15:04:05"),
		ItemsCount:  len(o.Items),
		TotalAmount: o.TotalAmount,
		FinalAmount: o.FinalAmount,
	}
}

// Receipt renders the receipt for an order.
func (a *OrderAgent) Receipt(orderID string) (string, bool) {
	o, ok := a.store.Get(orderID)
	if !ok {
		a.log.Warn().Str("order_id", orderID).Msg("order not found for receipt")
		return "", false
	}
	return o.Receipt(), true
}

// Query answers a free-text question, routing it to the model tier the
// model router picks.
func (a *OrderAgent) Query(ctx context.Context, query string) (QueryResponse, error) {
	selection := a.modelRouter.Route(ctx, query, "")

	response, err := a.gateway.Complete(ctx, []llm.Message{{Role: "user", Content: query}},
		selection.Backend, selection.ModelName)
	if err != nil {
		return QueryResponse{}, fmt.Errorf("answer query: %w", err)
	}

	return QueryResponse{
		Query:      query,
		Response:   response,
		ModelUsed:  selection.ModelName,
		Complexity: selection.Complexity,
	}, nil
}

// Stats bundles routing, revenue, and popularity aggregates.
func (a *OrderAgent) Stats() Statistics {
	return Statistics{
		CategoryStats: a.categoryRouter.CategoryStats(),
		ModelStats:    a.modelRouter.SelectionStats(),
		ServingStats:  a.servingRouter.ServingStats(),
		DailyRevenue:  a.store.DailyRevenueReport(),
		PopularItems:  a.store.PopularItems(5),
	}
}
