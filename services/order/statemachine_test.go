package order

import (
	"testing"

	"haulaway/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateMachine_AllowedEdges(t *testing.T) {
	tests := []struct {
		name    string
		seed    models.OrderStatus
		observe models.OrderStatus
		want    models.OrderStatus
		changed bool
	}{
		{"processing to accepted", models.StatusProcessing, models.StatusAccepted, models.StatusAccepted, true},
		{"processing to cancelled", models.StatusProcessing, models.StatusCancelled, models.StatusCancelled, true},
		{"accepted to in progress", models.StatusAccepted, models.StatusInProgress, models.StatusInProgress, true},
		{"in progress to completed", models.StatusInProgress, models.StatusCompleted, models.StatusCompleted, true},
		{"processing to completed is not an edge", models.StatusProcessing, models.StatusCompleted, models.StatusProcessing, false},
		{"accepted back to processing is not an edge", models.StatusAccepted, models.StatusProcessing, models.StatusAccepted, false},
		{"completed is terminal", models.StatusCompleted, models.StatusInProgress, models.StatusCompleted, false},
		{"cancelled is terminal", models.StatusCancelled, models.StatusAccepted, models.StatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewStateMachine()
			m.Apply(tt.seed)

			tr := m.Apply(tt.observe)
			assert.Equal(t, tt.want, tr.To)
			assert.Equal(t, tt.changed, tr.Changed)
			assert.Equal(t, tt.want, m.Current())
		})
	}
}

func TestStateMachine_FirstObservationSeeds(t *testing.T) {
	// A restarted client must land directly on the authoritative server state
	// without walking intermediate edges.
	m := NewStateMachine()
	tr := m.Apply(models.StatusInProgress)

	require.True(t, tr.Initial)
	assert.True(t, tr.Changed)
	assert.Equal(t, models.StatusInProgress, m.Current())

	// Seeding happens exactly once.
	tr = m.Apply(models.StatusCompleted)
	assert.False(t, tr.Initial)
	assert.True(t, tr.Changed)
}

func TestStateMachine_SeedOnSameStateIsNotChanged(t *testing.T) {
	m := NewStateMachine()
	tr := m.Apply(models.StatusProcessing)

	assert.True(t, tr.Initial)
	assert.False(t, tr.Changed)
}

func TestStateMachine_DuplicateObservationIsNoOp(t *testing.T) {
	m := NewStateMachine()
	m.Apply(models.StatusProcessing)

	first := m.Apply(models.StatusAccepted)
	require.True(t, first.Changed)

	dup := m.Apply(models.StatusAccepted)
	assert.False(t, dup.Changed)
	assert.False(t, dup.Initial)
	assert.Equal(t, models.StatusAccepted, m.Current())
}

func TestStateMachine_UnknownStatusIsIgnored(t *testing.T) {
	m := NewStateMachine()
	m.Apply(models.StatusProcessing)

	tr := m.Apply(models.OrderStatus("Archived"))
	assert.False(t, tr.Changed)
	assert.Equal(t, models.StatusProcessing, m.Current())

	// An unknown value must not consume the seed either.
	fresh := NewStateMachine()
	fresh.Apply(models.OrderStatus("Archived"))
	tr = fresh.Apply(models.StatusAccepted)
	assert.True(t, tr.Initial)
}

func TestStateMachine_CanCancelOnlyWhileProcessing(t *testing.T) {
	m := NewStateMachine()
	m.Apply(models.StatusProcessing)
	assert.True(t, m.CanCancel())

	m.Apply(models.StatusAccepted)
	assert.False(t, m.CanCancel())
}

func TestStateMachine_ForceCancel(t *testing.T) {
	m := NewStateMachine()
	m.Apply(models.StatusProcessing)

	tr, ok := m.ForceCancel()
	require.True(t, ok)
	assert.True(t, tr.Changed)
	assert.Equal(t, models.StatusCancelled, m.Current())

	// Lost the race: the order moved on before the cancel landed.
	m2 := NewStateMachine()
	m2.Apply(models.StatusAccepted)
	_, ok = m2.ForceCancel()
	assert.False(t, ok)
	assert.Equal(t, models.StatusAccepted, m2.Current())
}
