package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStageStart    EventType = "stage_start"
	EventStageComplete EventType = "stage_complete"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// StageEvent describes one pipeline stage. Grammar sizes are those of the
// stage output on completion and of the stage input on start.
type StageEvent struct {
	EventBase
	Stage        string        `json:"stage"`
	Title        string        `json:"title"`
	Nonterminals int           `json:"nonterminals"`
	Productions  int           `json:"productions"`
	Duration     time.Duration `json:"duration,omitempty"`
}

// PipelineHooks defines callbacks for pipeline observability.
type PipelineHooks struct {
	OnStageStart    func(context.Context, *StageEvent)
	OnStageComplete func(context.Context, *StageEvent)
}
