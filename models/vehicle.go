package models

// Vehicle is a reference entity fetched from the truck catalogue and joined
// into a payment view for display. Not owned by the order.
type Vehicle struct {
	ID         string `json:"truckId"`
	SizeClass  string `json:"sizeClass"`
	Type       string `json:"type"`
	OperatorID string `json:"operatorId"`
	Plate      string `json:"plateNumber"`
}

// RatingState tracks the post-completion rating for an order.
type RatingState int

const (
	RatingUnset RatingState = iota
	RatingSelected
	RatingSubmitted
)

func (s RatingState) String() string {
	switch s {
	case RatingSelected:
		return "selected"
	case RatingSubmitted:
		return "submitted"
	default:
		return "unset"
	}
}
