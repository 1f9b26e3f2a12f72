package order

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"cafekiosk/internal/menu"
	"cafekiosk/internal/metrics"
)

// PopularItem is one entry in the popularity ranking.
type PopularItem struct {
	MenuName   string `json:"menu_name"`
	OrderCount int    `json:"order_count"`
}

// DailyRevenue aggregates orders completed on one calendar day.
type DailyRevenue struct {
	Date              string                `json:"date"`
	TotalRevenue      int                   `json:"total_revenue"`
	TotalOrders       int                   `json:"total_orders"`
	AverageOrderValue int                   `json:"average_order_value"`
	CategoryRevenue   map[menu.Category]int `json:"category_revenue"`
}

var (
	// ErrNotFound means no order with the given id exists.
	ErrNotFound = errors.New("order not found")
	// ErrNotModifiable means the order reached a terminal status.
	ErrNotModifiable = errors.New("order not modifiable")
)

// Store tracks orders in memory. An order lives in exactly one of the active
// map or the history list; reaching a terminal status moves it to history.
// History is bounded: the oldest entries fall off once capacity is reached.
//
// The stored *Order values never leave the store: every accessor returns a
// detached copy, and mutation happens only through Modify or UpdateStatus
// under the store lock.
type Store struct {
	mu              sync.RWMutex
	active          map[string]*Order
	history         []*Order
	historyCapacity int
	taxRate         float64
	onTerminal      func(*Order)
	log             zerolog.Logger

	now func() time.Time
}

// NewStore returns an empty store.
func NewStore(taxRate float64, historyCapacity int, logger zerolog.Logger) *Store {
	if historyCapacity <= 0 {
		historyCapacity = 512
	}
	return &Store{
		active:          make(map[string]*Order),
		historyCapacity: historyCapacity,
		taxRate:         taxRate,
		log:             logger.With().Str("component", "order_store").Logger(),
		now:             time.Now,
	}
}

// SetTerminalHook registers a callback invoked whenever an order reaches a
// terminal status. Call before the store is shared across goroutines.
func (s *Store) SetTerminalHook(fn func(*Order)) {
	s.onTerminal = fn
}

// Create builds a pending order from priced items and registers it as active.
func (s *Store) Create(items []Item, notes string) *Order {
	o := NewOrder(items, notes, s.taxRate)

	s.mu.Lock()
	s.active[o.ID] = o
	s.mu.Unlock()

	metrics.ActiveOrders.Inc()
	s.log.Info().
		Str("order_id", o.ID).
		Int("items", len(items)).
		Int("total_amount", o.TotalAmount).
		Msg("order created")

	return o.snapshot()
}

// Get returns a copy of the order with the given id, searching active orders
// first, then history.
func (s *Store) Get(id string) (*Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if o, ok := s.active[id]; ok {
		return o.snapshot(), true
	}
	for _, o := range s.history {
		if o.ID == id {
			return o.snapshot(), true
		}
	}
	return nil, false
}

// Modify applies fn to an active order under the store lock and returns a
// detached copy of the result. Archived orders are immutable. An error from
// fn is returned as-is, with any mutation fn already made left in place.
func (s *Store) Modify(id string, fn func(*Order) error) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.active[id]
	if !ok {
		for _, h := range s.history {
			if h.ID == id {
				return nil, ErrNotModifiable
			}
		}
		return nil, ErrNotFound
	}
	if err := fn(o); err != nil {
		return nil, err
	}
	return o.snapshot(), nil
}

// UpdateStatus moves an active order to the given status. Terminal statuses
// move it to history. Returns false for unknown or already-archived orders.
func (s *Store) UpdateStatus(id string, status Status) bool {
	s.mu.Lock()
	o, ok := s.active[id]
	if !ok {
		s.mu.Unlock()
		s.log.Warn().Str("order_id", id).Msg("status update for unknown order")
		return false
	}

	old := o.Status
	o.SetStatus(status)
	var terminal *Order
	if status.Terminal() {
		delete(s.active, id)
		s.appendHistoryLocked(o)
		metrics.ActiveOrders.Dec()
		terminal = o.snapshot()
	}
	s.mu.Unlock()

	if terminal != nil && s.onTerminal != nil {
		s.onTerminal(terminal)
	}

	s.log.Info().
		Str("order_id", id).
		Str("old_status", string(old)).
		Str("new_status", string(status)).
		Msg("order status updated")
	return true
}

func (s *Store) appendHistoryLocked(o *Order) {
	s.history = append(s.history, o)
	if len(s.history) > s.historyCapacity {
		s.history = s.history[len(s.history)-s.historyCapacity:]
	}
}

// Cancel moves an active order to Cancelled.
func (s *Store) Cancel(id string) bool {
	if s.UpdateStatus(id, StatusCancelled) {
		metrics.OrdersProcessed.WithLabelValues("cancelled").Inc()
		return true
	}
	return false
}

// ListActive returns copies of all active orders, newest first.
func (s *Store) ListActive() []*Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Order, 0, len(s.active))
	for _, o := range s.active {
		out = append(out, o.snapshot())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// History returns copies of the newest archived orders, oldest first, at
// most limit.
func (s *Store) History(limit int) []*Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h := s.history
	if limit > 0 && limit < len(h) {
		h = h[len(h)-limit:]
	}
	out := make([]*Order, len(h))
	for i, o := range h {
		out[i] = o.snapshot()
	}
	return out
}

// DailyRevenueReport aggregates orders completed today.
func (s *Store) DailyRevenueReport() DailyRevenue {
	s.mu.RLock()
	defer s.mu.RUnlock()

	today := s.now()
	report := DailyRevenue{
		Date:            today.Format("2006-01-02"),
		CategoryRevenue: make(map[menu.Category]int),
	}

	y, m, d := today.Date()
	for _, o := range s.history {
		if o.Status != StatusCompleted {
			continue
		}
		oy, om, od := o.CreatedAt.Date()
		if oy != y || om != m || od != d {
			continue
		}
		report.TotalRevenue += o.FinalAmount
		report.TotalOrders++
		for _, it := range o.Items {
			report.CategoryRevenue[it.Category] += it.Subtotal
		}
	}

	if report.TotalOrders > 0 {
		report.AverageOrderValue = report.TotalRevenue / report.TotalOrders
	}
	return report
}

// PopularItems ranks menu names by cumulative quantity across completed
// historical orders, descending. Ties keep first-encounter order.
func (s *Store) PopularItems(topN int) []PopularItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	var seen []string
	for _, o := range s.history {
		if o.Status != StatusCompleted {
			continue
		}
		for _, it := range o.Items {
			if _, ok := counts[it.MenuName]; !ok {
				seen = append(seen, it.MenuName)
			}
			counts[it.MenuName] += it.Quantity
		}
	}

	sort.SliceStable(seen, func(i, j int) bool {
		return counts[seen[i]] > counts[seen[j]]
	})

	if topN > 0 && topN < len(seen) {
		seen = seen[:topN]
	}
	out := make([]PopularItem, len(seen))
	for i, name := range seen {
		out[i] = PopularItem{MenuName: name, OrderCount: counts[name]}
	}
	return out
}

// PurgeHistoryOlderThan drops archived orders created more than the given
// number of days ago. Returns how many were dropped.
func (s *Store) PurgeHistoryOlderThan(days int) int {
	cutoff := s.now().AddDate(0, 0, -days)

	s.mu.Lock()
	kept := s.history[:0]
	for _, o := range s.history {
		if o.CreatedAt.After(cutoff) {
			kept = append(kept, o)
		}
	}
	dropped := len(s.history) - len(kept)
	s.history = kept
	s.mu.Unlock()

	if dropped > 0 {
		s.log.Info().
			Int("deleted", dropped).
			Time("cutoff", cutoff).
			Msg("old order history purged")
	}
	return dropped
}

// Counts returns the number of active and archived orders.
func (s *Store) Counts() (activeCount, historyCount int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.active), len(s.history)
}
