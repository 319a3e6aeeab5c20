package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	TypePreloadTrucks = "preload:trucks"
	TypePrecacheProof = "preload:proof"
)

// PreloadTrucksPayload asks the worker to warm the vehicle catalogue cache
// using the session's credential.
type PreloadTrucksPayload struct {
	SessionID string `json:"sessionId"`
}

// PrecacheProofPayload asks the worker to pre-resolve the proof URL for an
// order so a cold start can display it before the first poll returns.
type PrecacheProofPayload struct {
	SessionID string `json:"sessionId"`
	OrderID   string `json:"orderId"`
}

func NewPreloadTrucksTask(payload PreloadTrucksPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypePreloadTrucks, b)
	opts := []asynq.Option{asynq.MaxRetry(2)}
	return task, opts, nil
}

func NewPrecacheProofTask(payload PrecacheProofPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypePrecacheProof, b)
	opts := []asynq.Option{asynq.MaxRetry(2)}
	return task, opts, nil
}
