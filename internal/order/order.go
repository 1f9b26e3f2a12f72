// Package order holds the order entity, its pricing rules, and the in-memory
// store that tracks active orders and their history.
package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Order is one customer order. Amounts are derived from the item list and
// recomputed on every mutation.
type Order struct {
	ID            string    `json:"order_id"`
	Items         []Item    `json:"items"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	CustomerNotes string    `json:"customer_notes"`
	TotalAmount   int       `json:"total_amount"`
	TaxAmount     int       `json:"tax_amount"`
	FinalAmount   int       `json:"final_amount"`

	taxRate float64
}

// NewOrder builds a pending order from priced items.
func NewOrder(items []Item, notes string, taxRate float64) *Order {
	now := time.Now()
	o := &Order{
		ID:            generateOrderID(now),
		Items:         items,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
		CustomerNotes: notes,
		taxRate:       taxRate,
	}
	o.calculateAmounts()
	return o
}

func generateOrderID(now time.Time) string {
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102150405"), uuid.NewString()[:8])
}

// calculateAmounts derives total, tax, and final amounts from the item list.
// Tax is truncated toward zero, so final == total + int(total*rate).
func (o *Order) calculateAmounts() {
	total := 0
	for _, it := range o.Items {
		total += it.Subtotal
	}
	o.TotalAmount = total
	o.TaxAmount = 0
	if o.taxRate > 0 {
		o.TaxAmount = int(float64(total) * o.taxRate)
	}
	o.FinalAmount = o.TotalAmount + o.TaxAmount
}

// SetStatus moves the order to the given status, touching UpdatedAt.
func (o *Order) SetStatus(s Status) {
	o.Status = s
	o.UpdatedAt = time.Now()
}

// AddItem appends a priced item and recomputes amounts.
func (o *Order) AddItem(it Item) {
	o.Items = append(o.Items, it)
	o.calculateAmounts()
	o.UpdatedAt = time.Now()
}

// RemoveItem deletes every line matching the menu name. Returns false when
// nothing matched; in that case the order is untouched.
func (o *Order) RemoveItem(menuName string) bool {
	kept := o.Items[:0]
	for _, it := range o.Items {
		if it.MenuName != menuName {
			kept = append(kept, it)
		}
	}
	if len(kept) == len(o.Items) {
		return false
	}
	o.Items = kept
	o.calculateAmounts()
	o.UpdatedAt = time.Now()
	return true
}

// snapshot returns a copy detached from the stored instance. The item slice
// is copied so later store-side mutations do not show through.
func (o *Order) snapshot() *Order {
	cp := *o
	cp.Items = make([]Item, len(o.Items))
	copy(cp.Items, o.Items)
	return &cp
}

// Receipt renders a printable receipt for the order.
func (o *Order) Receipt() string {
	var b strings.Builder
	rule := strings.Repeat("=", 50)
	thin := strings.Repeat("-", 50)

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "            카페 키오스크")
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "주문번호: %s\n", o.ID)
	fmt.Fprintf(&b, "주문시간: %s\n", o.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "상태: %s\n", o.Status)
	fmt.Fprintln(&b, thin)
	fmt.Fprintln(&b, "주문 내역:")
	fmt.Fprintln(&b)

	for _, it := range o.Items {
		line := fmt.Sprintf("  %s x %d", it.MenuName, it.Quantity)
		if it.Size != "" {
			line += fmt.Sprintf(" (%s)", it.Size)
		}
		line += fmt.Sprintf(" ... %s원", formatWon(it.Subtotal))
		fmt.Fprintln(&b, line)
		if len(it.Options) > 0 {
			fmt.Fprintf(&b, "    옵션: %s\n", strings.Join(it.Options, ", "))
		}
	}

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, thin)
	fmt.Fprintf(&b, "소계:                    %s원\n", formatWon(o.TotalAmount))
	fmt.Fprintf(&b, "세금 (%d%%):              %s원\n", int(o.taxRate*100), formatWon(o.TaxAmount))
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "총 결제 금액:             %s원\n", formatWon(o.FinalAmount))
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "감사합니다!")
	fmt.Fprint(&b, rule)

	return b.String()
}

// formatWon renders an amount with thousands separators.
func formatWon(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	return s + "," + strings.Join(parts, ",")
}
