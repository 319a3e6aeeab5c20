package models

import (
	"strings"
	"time"
)

// OrderStatus is the lifecycle state of a pickup order. The backend is the
// source of truth; unknown raw values pass through unchanged so a newer
// backend cannot break an older client.
type OrderStatus string

const (
	StatusProcessing OrderStatus = "Processing"
	StatusAccepted   OrderStatus = "Accepted"
	StatusInProgress OrderStatus = "InProgress"
	StatusCompleted  OrderStatus = "Completed"
	StatusCancelled  OrderStatus = "Cancelled"
)

// ParseOrderStatus maps a raw backend status value onto a known OrderStatus.
// "Available" is a legacy alias for Processing. Unrecognized values are
// returned as-is and report Known() == false.
func ParseOrderStatus(raw string) OrderStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "processing", "available":
		return StatusProcessing
	case "accepted":
		return StatusAccepted
	case "inprogress", "in-progress", "in_progress":
		return StatusInProgress
	case "completed":
		return StatusCompleted
	case "cancelled", "canceled":
		return StatusCancelled
	default:
		return OrderStatus(raw)
	}
}

// Known reports whether the status is one of the closed set of lifecycle states.
func (s OrderStatus) Known() bool {
	switch s {
	case StatusProcessing, StatusAccepted, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible from s.
func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// PaymentMethod selects the payment route at order submission time.
type PaymentMethod string

const (
	MethodCash    PaymentMethod = "cash"
	MethodGateway PaymentMethod = "gateway"
)

// ParsePaymentMethod normalizes a raw payment method value. Unrecognized
// values are returned as-is and report Known() == false.
func ParsePaymentMethod(raw string) PaymentMethod {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "cash", "cod":
		return MethodCash
	case "gateway", "online", "card":
		return MethodGateway
	default:
		return PaymentMethod(raw)
	}
}

func (m PaymentMethod) Known() bool {
	return m == MethodCash || m == MethodGateway
}

// Order is the client-originated intent to request a waste pickup. Immutable
// after submission except for Status and enrichment fields; the authoritative
// lifecycle state always lives on the PaymentRecord.
type Order struct {
	ID            string        `json:"orderId"`
	ReferenceCode string        `json:"referenceCode"`
	CustomerName  string        `json:"customerName"`
	CustomerPhone string        `json:"customerPhone"`
	CustomerEmail string        `json:"customerEmail,omitempty"`
	Latitude      float64       `json:"latitude"`
	Longitude     float64       `json:"longitude"`
	Address       string        `json:"address"`
	WasteCategory string        `json:"wasteCategory"`
	WeightKg      float64       `json:"weightKg"`
	Method        PaymentMethod `json:"paymentMethod"`
	Notes         string        `json:"notes,omitempty"`
	Status        OrderStatus   `json:"status"`
	// PaymentID is enriched once a durable PaymentRecord exists for the order.
	PaymentID string    `json:"paymentId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
