package release

import (
	"time"

	"github.com/zjrosen/releasetrain/internal/publish"
	"github.com/zjrosen/releasetrain/internal/pubsub"
)

// Event is the payload of release progress events.
type Event struct {
	RunID    string
	State    State
	Package  string
	Position int // plan index
	Total    int
	Outcome  publish.Outcome
	Reason   string
	Duration time.Duration
}

// Events is the broker type progress events are published on.
type Events = pubsub.Broker[Event]

// NewEvents creates an event broker sized for a full plan of events.
func NewEvents() *Events {
	return pubsub.NewBrokerWithBuffer[Event](256)
}
