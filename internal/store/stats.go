package store

import (
	"context"
	"database/sql"
	"fmt"

	"meewadmin/internal/models"
)

// StatsStore reads the raw rows behind the dashboard charts.
type StatsStore struct {
	db *sql.DB
}

// NewStatsStore returns a new StatsStore.
func NewStatsStore(db *sql.DB) *StatsStore {
	return &StatsStore{db: db}
}

// Shipments returns every shipment.
func (s *StatsStore) Shipments(ctx context.Context) ([]models.Shipment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, order_id, carrier, tracking_number, status, shipped_at, delivered_at, created_at
		FROM shipments
	`)
	if err != nil {
		return nil, fmt.Errorf("list shipments: %w", err)
	}
	defer rows.Close()

	var items []models.Shipment
	for rows.Next() {
		var sh models.Shipment
		if err := rows.Scan(
			&sh.ID, &sh.OrderID, &sh.Carrier, &sh.TrackingNumber, &sh.Status,
			&sh.ShippedAt, &sh.DeliveredAt, &sh.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan shipment: %w", err)
		}
		items = append(items, sh)
	}
	return items, rows.Err()
}

// SalesLines returns every order line with the id and name of its
// product's category. Lines whose product or category is gone have both nil.
func (s *StatsStore) SalesLines(ctx context.Context) ([]models.SalesLine, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, oi.quantity, oi.unit_price
		FROM order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		LEFT JOIN categories c ON c.id = p.category_id
	`)
	if err != nil {
		return nil, fmt.Errorf("list sales lines: %w", err)
	}
	defer rows.Close()

	var items []models.SalesLine
	for rows.Next() {
		var l models.SalesLine
		if err := rows.Scan(&l.CategoryID, &l.CategoryName, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan sales line: %w", err)
		}
		items = append(items, l)
	}
	return items, rows.Err()
}
