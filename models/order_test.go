package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOrderStatus(t *testing.T) {
	tests := []struct {
		raw   string
		want  OrderStatus
		known bool
	}{
		{"Processing", StatusProcessing, true},
		{"processing", StatusProcessing, true},
		{" Available ", StatusProcessing, true}, // legacy alias
		{"Accepted", StatusAccepted, true},
		{"InProgress", StatusInProgress, true},
		{"in-progress", StatusInProgress, true},
		{"in_progress", StatusInProgress, true},
		{"Completed", StatusCompleted, true},
		{"Cancelled", StatusCancelled, true},
		{"canceled", StatusCancelled, true},
		{"Archived", OrderStatus("Archived"), false},
		{"", OrderStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := ParseOrderStatus(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.known, got.Known())
		})
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusProcessing.Terminal())
	assert.False(t, StatusInProgress.Terminal())
}

func TestParsePaymentMethod(t *testing.T) {
	assert.Equal(t, MethodCash, ParsePaymentMethod("COD"))
	assert.Equal(t, MethodGateway, ParsePaymentMethod("online"))
	assert.Equal(t, MethodGateway, ParsePaymentMethod("card"))
	assert.False(t, ParsePaymentMethod("barter").Known())
}

func TestQuoteChargeable(t *testing.T) {
	assert.True(t, Quote{Amount: 10}.Chargeable())
	assert.True(t, Quote{Total: 10}.Chargeable())
	assert.False(t, Quote{}.Chargeable())
	assert.False(t, Quote{Amount: -5}.Chargeable())
}
