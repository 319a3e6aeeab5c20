package models

import "time"

// PaymentRecord is the server-authoritative, durable record of a finalized
// order. It is the single source of truth for lifecycle state; the client-held
// Order.Status is only a cached projection of JobOrderStatus.
type PaymentRecord struct {
	PaymentID          string    `json:"paymentId"`
	OrderID            string    `json:"orderId"`
	ReferenceCode      string    `json:"referenceCode"`
	Status             string    `json:"status"`
	JobOrderStatus     string    `json:"jobOrderStatus"`
	Amount             float64   `json:"amount"`
	Total              float64   `json:"total"`
	VehicleID          string    `json:"vehicleId,omitempty"`
	OperatorID         string    `json:"operatorId,omitempty"`
	ConfirmationURL    string    `json:"confirmationImageUrl,omitempty"`
	ConfirmationURLAlt string    `json:"imageUrl,omitempty"` // legacy field still set by older backends
	Rating             int       `json:"rating,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// LifecycleStatus parses the record's job-order status field.
func (p *PaymentRecord) LifecycleStatus() OrderStatus {
	return ParseOrderStatus(p.JobOrderStatus)
}

// CreatePaymentRequest is the payload for the backend's payment-creation
// endpoint. For the cash route it carries the bare order; for the gateway
// route the finalization callback folds the held quote's figures in.
type CreatePaymentRequest struct {
	OrderID       string  `json:"orderId"`
	ReferenceCode string  `json:"referenceCode"`
	CustomerName  string  `json:"customerName"`
	CustomerPhone string  `json:"customerPhone"`
	Address       string  `json:"address"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	WasteCategory string  `json:"wasteCategory"`
	WeightKg      float64 `json:"weightKg"`
	PaymentMethod string  `json:"paymentMethod"`
	Amount        float64 `json:"amount,omitempty"`
	Total         float64 `json:"total,omitempty"`
	VehicleID     string  `json:"vehicleId,omitempty"`
	OperatorID    string  `json:"operatorId,omitempty"`
	Notes         string  `json:"notes,omitempty"`
}

// PaymentView joins a PaymentRecord with the assigned vehicle for display.
type PaymentView struct {
	Record  PaymentRecord `json:"record"`
	Vehicle *Vehicle      `json:"vehicle,omitempty"`
}
