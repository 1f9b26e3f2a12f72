package order

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafekiosk/internal/menu"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(0.1, 100, zerolog.Nop())
}

func cakeLine(t *testing.T, quantity int) Item {
	t.Helper()
	mi := catalogItem(t, "케이크", menu.CategoryDessert)
	return NewItem(mi, quantity, "", "", nil)
}

func TestStoreCreateAndGet(t *testing.T) {
	s := newTestStore(t)
	o := s.Create([]Item{americanoLine(t, 1)}, "빨리 주세요")

	got, ok := s.Get(o.ID)
	require.True(t, ok)
	assert.Equal(t, o.ID, got.ID)
	assert.Equal(t, StatusPending, got.Status)
	assert.Equal(t, "빨리 주세요", got.CustomerNotes)

	_, ok = s.Get("ORD-00000000000000-deadbeef")
	assert.False(t, ok)
}

func TestStoreUpdateStatusMovesTerminalToHistory(t *testing.T) {
	s := newTestStore(t)
	o := s.Create([]Item{americanoLine(t, 1)}, "")

	assert.True(t, s.UpdateStatus(o.ID, StatusPreparing))
	active, history := s.Counts()
	assert.Equal(t, 1, active)
	assert.Equal(t, 0, history)

	assert.True(t, s.UpdateStatus(o.ID, StatusCompleted))
	active, history = s.Counts()
	assert.Equal(t, 0, active)
	assert.Equal(t, 1, history)

	// archived orders are still readable but no longer mutable
	got, ok := s.Get(o.ID)
	require.True(t, ok)
	assert.Equal(t, StatusCompleted, got.Status)
	assert.False(t, s.UpdateStatus(o.ID, StatusPending))
}

func TestStoreAccessorsReturnDetachedCopies(t *testing.T) {
	s := newTestStore(t)
	o := s.Create([]Item{americanoLine(t, 1)}, "")

	got, ok := s.Get(o.ID)
	require.True(t, ok)
	got.Items[0].Quantity = 99
	got.Status = StatusCancelled

	again, _ := s.Get(o.ID)
	assert.Equal(t, 1, again.Items[0].Quantity)
	assert.Equal(t, StatusPending, again.Status)

	active := s.ListActive()
	require.Len(t, active, 1)
	active[0].AddItem(cakeLine(t, 1))

	again, _ = s.Get(o.ID)
	assert.Len(t, again.Items, 1)
}

func TestStoreModify(t *testing.T) {
	s := newTestStore(t)
	o := s.Create([]Item{americanoLine(t, 1)}, "")

	modified, err := s.Modify(o.ID, func(mo *Order) error {
		mo.AddItem(cakeLine(t, 1))
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, modified.Items, 2)
	assert.Equal(t, 4500+6000, modified.TotalAmount)

	_, err = s.Modify("ORD-00000000000000-deadbeef", func(*Order) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)

	s.UpdateStatus(o.ID, StatusCompleted)
	_, err = s.Modify(o.ID, func(*Order) error { return nil })
	assert.ErrorIs(t, err, ErrNotModifiable)
}

func TestStoreConcurrentModifyAndReads(t *testing.T) {
	s := newTestStore(t)
	o := s.Create([]Item{americanoLine(t, 1)}, "")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			_, err := s.Modify(o.ID, func(mo *Order) error {
				mo.AddItem(cakeLine(t, 1))
				return nil
			})
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			if got, ok := s.Get(o.ID); ok {
				assert.Equal(t, got.FinalAmount, got.TotalAmount+got.TaxAmount)
			}
		}()
		go func() {
			defer wg.Done()
			for _, a := range s.ListActive() {
				assert.NotEmpty(t, a.Items)
			}
		}()
	}
	wg.Wait()

	got, ok := s.Get(o.ID)
	require.True(t, ok)
	assert.Len(t, got.Items, 51)
}

func TestStoreCancel(t *testing.T) {
	s := newTestStore(t)
	o := s.Create([]Item{americanoLine(t, 1)}, "")

	assert.True(t, s.Cancel(o.ID))
	assert.False(t, s.Cancel(o.ID))

	got, _ := s.Get(o.ID)
	assert.Equal(t, StatusCancelled, got.Status)
}

func TestStoreListActiveAndHistory(t *testing.T) {
	s := newTestStore(t)
	first := s.Create([]Item{americanoLine(t, 1)}, "")
	second := s.Create([]Item{americanoLine(t, 2)}, "")

	assert.Len(t, s.ListActive(), 2)

	s.UpdateStatus(first.ID, StatusCompleted)
	s.UpdateStatus(second.ID, StatusCompleted)

	history := s.History(0)
	require.Len(t, history, 2)
	assert.Equal(t, first.ID, history[0].ID)

	assert.Len(t, s.History(1), 1)
	assert.Equal(t, second.ID, s.History(1)[0].ID)
}

func TestStorePopularItems(t *testing.T) {
	s := newTestStore(t)

	for _, qty := range []int{2, 1, 3} {
		o := s.Create([]Item{americanoLine(t, qty)}, "")
		s.UpdateStatus(o.ID, StatusCompleted)
	}
	cake := s.Create([]Item{cakeLine(t, 1)}, "")
	s.UpdateStatus(cake.ID, StatusCompleted)

	// cancelled and active orders never count
	cancelled := s.Create([]Item{americanoLine(t, 10)}, "")
	s.Cancel(cancelled.ID)
	s.Create([]Item{cakeLine(t, 10)}, "")

	popular := s.PopularItems(2)
	require.Len(t, popular, 2)
	assert.Equal(t, PopularItem{MenuName: "아메리카노", OrderCount: 6}, popular[0])
	assert.Equal(t, PopularItem{MenuName: "케이크", OrderCount: 1}, popular[1])
}

func TestStoreDailyRevenue(t *testing.T) {
	s := newTestStore(t)

	o := s.Create([]Item{americanoLine(t, 2), cakeLine(t, 1)}, "")
	s.UpdateStatus(o.ID, StatusCompleted)

	cancelled := s.Create([]Item{americanoLine(t, 1)}, "")
	s.Cancel(cancelled.ID)

	report := s.DailyRevenueReport()
	assert.Equal(t, 1, report.TotalOrders)
	assert.Equal(t, o.FinalAmount, report.TotalRevenue)
	assert.Equal(t, o.FinalAmount, report.AverageOrderValue)
	assert.Equal(t, 9000, report.CategoryRevenue[menu.CategoryBeverage])
	assert.Equal(t, 6000, report.CategoryRevenue[menu.CategoryDessert])
}

func TestStorePurgeHistoryOlderThan(t *testing.T) {
	s := newTestStore(t)

	old := s.Create([]Item{americanoLine(t, 1)}, "")
	s.UpdateStatus(old.ID, StatusCompleted)
	s.history[0].CreatedAt = time.Now().AddDate(0, 0, -40)

	fresh := s.Create([]Item{americanoLine(t, 1)}, "")
	s.UpdateStatus(fresh.ID, StatusCompleted)

	assert.Equal(t, 1, s.PurgeHistoryOlderThan(30))
	history := s.History(0)
	require.Len(t, history, 1)
	assert.Equal(t, fresh.ID, history[0].ID)
}

func TestStoreHistoryCapacity(t *testing.T) {
	s := NewStore(0.1, 3, zerolog.Nop())

	var last *Order
	for i := 0; i < 5; i++ {
		last = s.Create([]Item{americanoLine(t, 1)}, "")
		s.UpdateStatus(last.ID, StatusCompleted)
	}

	history := s.History(0)
	require.Len(t, history, 3)
	assert.Equal(t, last.ID, history[2].ID)
}
