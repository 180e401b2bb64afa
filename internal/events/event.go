// Package events defines the domain events exchanged between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"research_assistant_backend/platform/events"
	"research_assistant_backend/platform/logger"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// CatalogReloaded is published after a new catalog snapshot replaced the old one.
type CatalogReloaded struct {
	BaseEvent
	Source   string    `json:"source"`
	Products int       `json:"products"`
	LoadedAt time.Time `json:"loadedAt"`
}

func (e CatalogReloaded) EventName() string { return "catalog.reloaded" }

// QueryAnswered is published once an agent answer has been persisted.
type QueryAnswered struct {
	BaseEvent
	QueryID   int64    `json:"queryId"`
	ToolsUsed []string `json:"toolsUsed"`
}

func (e QueryAnswered) EventName() string { return "research.query.answered" }

// FeedbackReceived is published when a user rates an answer.
type FeedbackReceived struct {
	BaseEvent
	QueryID int64 `json:"queryId"`
	Rating  int   `json:"rating"`
}

func (e FeedbackReceived) EventName() string { return "research.feedback.received" }
