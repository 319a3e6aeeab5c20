package order

import (
	"sync"

	"haulaway/models"
)

// Transition is the result of applying an observed status to the state machine.
// Initial marks the very first observation after a cold start: internal state
// is adopted but callers must not surface a "changed" notification for it.
type Transition struct {
	From    models.OrderStatus
	To      models.OrderStatus
	Changed bool
	Initial bool
}

// allowedEdges are the only transitions the server may drive. Anything else,
// including same-state repeats, is a no-op that must not re-trigger side
// effects.
var allowedEdges = map[models.OrderStatus]map[models.OrderStatus]bool{
	models.StatusProcessing: {
		models.StatusAccepted:  true,
		models.StatusCancelled: true,
	},
	models.StatusAccepted: {
		models.StatusInProgress: true,
	},
	models.StatusInProgress: {
		models.StatusCompleted: true,
	},
}

// StateMachine interprets observed PaymentRecord statuses into the client's
// lifecycle state. Transitions are server-driven except Cancel, which the
// client may request while still in Processing.
type StateMachine struct {
	mu      sync.Mutex
	current models.OrderStatus
	seeded  bool
}

// NewStateMachine starts in Processing.
func NewStateMachine() *StateMachine {
	return &StateMachine{current: models.StatusProcessing}
}

// Current returns the last applied state.
func (m *StateMachine) Current() models.OrderStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Apply folds an observed status into the machine. The first observation
// seeds the state directly from the server snapshot, whatever it is, so a
// restarted client lands on the authoritative state without walking edges.
// After seeding, only the allowed edges produce Changed == true; duplicate
// and out-of-order observations are no-ops, making Apply idempotent under
// retries and duplicate delivery.
func (m *StateMachine) Apply(observed models.OrderStatus) Transition {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !observed.Known() {
		return Transition{From: m.current, To: m.current}
	}

	if !m.seeded {
		m.seeded = true
		from := m.current
		m.current = observed
		return Transition{From: from, To: observed, Changed: observed != from, Initial: true}
	}

	if observed == m.current || !allowedEdges[m.current][observed] {
		return Transition{From: m.current, To: m.current}
	}

	from := m.current
	m.current = observed
	return Transition{From: from, To: observed, Changed: true}
}

// CanCancel reports whether a client cancel request is currently permitted.
func (m *StateMachine) CanCancel() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current == models.StatusProcessing
}

// ForceCancel moves the machine to Cancelled after a successful cancel call,
// without waiting for the next poll. Returns false if the order has left
// Processing in the meantime.
func (m *StateMachine) ForceCancel() (Transition, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != models.StatusProcessing {
		return Transition{From: m.current, To: m.current}, false
	}
	from := m.current
	m.current = models.StatusCancelled
	m.seeded = true
	return Transition{From: from, To: m.current, Changed: true}, true
}
