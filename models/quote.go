package models

import "time"

// Quote is an ephemeral price estimate for a gateway-route order. It lives in
// the session cache only, between "quote requested" and either invoice
// confirmation (folded into the PaymentRecord) or abandonment. A Quote is
// never written to the backend as-is.
type Quote struct {
	OrderID     string    `json:"orderId"`
	Amount      float64   `json:"amount"`
	Total       float64   `json:"total"`
	VehicleID   string    `json:"vehicleId,omitempty"`
	OperatorID  string    `json:"operatorId,omitempty"`
	RequestedAt time.Time `json:"requestedAt"`
}

// Chargeable reports whether the quote carries a usable charge amount.
func (q Quote) Chargeable() bool {
	return q.Amount > 0 || q.Total > 0
}

// QuoteRequest is the payload sent to the backend's quote calculator.
type QuoteRequest struct {
	OrderID       string  `json:"orderId"`
	WasteCategory string  `json:"wasteCategory"`
	WeightKg      float64 `json:"weightKg"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
}
