// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// ShipmentStatus tracks a parcel from the seller to the buyer.
type ShipmentStatus string

const (
	ShipmentPending   ShipmentStatus = "pending"
	ShipmentShipped   ShipmentStatus = "shipped"
	ShipmentInTransit ShipmentStatus = "in_transit"
	ShipmentDelivered ShipmentStatus = "delivered"
	ShipmentReturned  ShipmentStatus = "returned"
)

// ShipmentStatuses lists every status in pipeline order.
var ShipmentStatuses = []ShipmentStatus{
	ShipmentPending, ShipmentShipped, ShipmentInTransit, ShipmentDelivered, ShipmentReturned,
}

// Shipment is a parcel attached to an order.
type Shipment struct {
	ID             uuid.UUID      `json:"id"`
	OrderID        uuid.UUID      `json:"order_id"`
	Carrier        string         `json:"carrier"`
	TrackingNumber *string        `json:"tracking_number,omitempty"`
	Status         ShipmentStatus `json:"status"`
	ShippedAt      *time.Time     `json:"shipped_at,omitempty"`
	DeliveredAt    *time.Time     `json:"delivered_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// SalesLine is one order line joined with its product's category.
type SalesLine struct {
	CategoryID   *uuid.UUID `json:"category_id"`
	CategoryName *string    `json:"category_name"`
	Quantity     int        `json:"quantity"`
	UnitPrice    float64    `json:"unit_price"`
}
