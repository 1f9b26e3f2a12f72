// Package archive persists terminal orders to SQLite so revenue data
// survives restarts. The in-memory store stays the source of truth for
// live orders; the archive only ever receives completed or cancelled ones.
package archive

import (
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite" // SQLite driver
	"github.com/rs/zerolog"

	"cafekiosk/internal/order"
)

// ArchivedOrder is the persisted form of a terminal order.
type ArchivedOrder struct {
	gorm.Model
	OrderID       string `gorm:"unique_index"`
	Status        string
	CustomerNotes string
	TotalAmount   int
	TaxAmount     int
	FinalAmount   int
	OrderedAt     time.Time
	Lines         []ArchivedLine `gorm:"foreignkey:ArchivedOrderID"`
}

// ArchivedLine is one persisted order line.
type ArchivedLine struct {
	gorm.Model
	ArchivedOrderID uint
	MenuName        string
	Category        string
	Quantity        int
	Size            string
	Temperature     string
	Options         string
	Subtotal        int
}

// Archive wraps the SQLite connection.
type Archive struct {
	db  *gorm.DB
	log zerolog.Logger
}

// Open opens (or creates) the archive database and migrates its schema.
func Open(path string, logger zerolog.Logger) (*Archive, error) {
	db, err := gorm.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}
	if err := db.AutoMigrate(&ArchivedOrder{}, &ArchivedLine{}).Error; err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate archive: %w", err)
	}
	return &Archive{
		db:  db,
		log: logger.With().Str("component", "archive").Logger(),
	}, nil
}

// Close closes the underlying connection.
func (a *Archive) Close() error {
	return a.db.Close()
}

// Save persists a terminal order. Non-terminal orders are rejected.
func (a *Archive) Save(o *order.Order) error {
	if !o.Status.Terminal() {
		return fmt.Errorf("order %s is not terminal (%s)", o.ID, o.Status)
	}

	record := ArchivedOrder{
		OrderID:       o.ID,
		Status:        string(o.Status),
		CustomerNotes: o.CustomerNotes,
		TotalAmount:   o.TotalAmount,
		TaxAmount:     o.TaxAmount,
		FinalAmount:   o.FinalAmount,
		OrderedAt:     o.CreatedAt,
	}
	for _, it := range o.Items {
		record.Lines = append(record.Lines, ArchivedLine{
			MenuName:    it.MenuName,
			Category:    string(it.Category),
			Quantity:    it.Quantity,
			Size:        string(it.Size),
			Temperature: string(it.Temperature),
			Options:     strings.Join(it.Options, ","),
			Subtotal:    it.Subtotal,
		})
	}

	if err := a.db.Create(&record).Error; err != nil {
		return fmt.Errorf("archive order %s: %w", o.ID, err)
	}
	a.log.Debug().Str("order_id", o.ID).Str("status", record.Status).Msg("order archived")
	return nil
}

// Recent returns the most recently archived orders, newest first, with
// their lines preloaded.
func (a *Archive) Recent(limit int) ([]ArchivedOrder, error) {
	if limit <= 0 {
		limit = 50
	}
	var records []ArchivedOrder
	err := a.db.Preload("Lines").Order("ordered_at desc").Limit(limit).Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("load archived orders: %w", err)
	}
	return records, nil
}

// CompletedRevenueSince sums final amounts of completed orders placed at or
// after the cutoff.
func (a *Archive) CompletedRevenueSince(cutoff time.Time) (int, error) {
	type row struct{ Total int }
	var r row
	err := a.db.Model(&ArchivedOrder{}).
		Select("coalesce(sum(final_amount), 0) as total").
		Where("status = ? AND ordered_at >= ?", string(order.StatusCompleted), cutoff).
		Scan(&r).Error
	if err != nil {
		return 0, fmt.Errorf("sum archived revenue: %w", err)
	}
	return r.Total, nil
}

// Count returns the number of archived orders.
func (a *Archive) Count() (int, error) {
	var n int
	if err := a.db.Model(&ArchivedOrder{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count archived orders: %w", err)
	}
	return n, nil
}
