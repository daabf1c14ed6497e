package supervisor

import (
	"context"
	"time"

	"github.com/draftbetter/assistant/internal/champselect"
	"github.com/draftbetter/assistant/internal/lcu"
)

// Status is the externally observable connection state. A connection attempt
// is a transition attempt, not a third state.
type Status string

const (
	StatusDisconnected Status = "disconnected"
	StatusConnected    Status = "connected"
)

// Feed is the transport to the local game client. Connect blocks until a
// subscription is established or fails.
type Feed interface {
	Connect(ctx context.Context) (Conn, error)
}

// Conn is one live subscription. Events closes when the transport dies.
// Close must tolerate an already-closed transport.
type Conn interface {
	Events() <-chan lcu.FeedEvent
	Close() error
}

// EventKind discriminates supervisor notifications.
type EventKind string

const (
	EventViewUpdated     EventKind = "ViewUpdated"
	EventSessionEnded    EventKind = "SessionEnded"
	EventStatusChanged   EventKind = "StatusChanged"
	EventGameflowChanged EventKind = "GameflowChanged"
)

// Event is one notification delivered to subscribers. View is set for
// ViewUpdated, Status for StatusChanged, GameflowPhase for GameflowChanged.
type Event struct {
	Kind          EventKind         `json:"kind"`
	View          *champselect.View `json:"view,omitempty"`
	Status        Status            `json:"status,omitempty"`
	GameflowPhase lcu.GameflowPhase `json:"gameflowPhase,omitempty"`
}

// Snapshot answers the synchronous state queries between events.
type Snapshot struct {
	Status        Status
	GameflowPhase lcu.GameflowPhase
	Phase         champselect.Phase
	View          *champselect.View
}

// Options configures a Supervisor. The zero value gives the default retry
// interval and no lifecycle callbacks.
type Options struct {
	// RetryEvery is the reconnect poll interval while disconnected.
	RetryEvery time.Duration

	// OnGameStart fires once when the gameflow phase crosses into the
	// in-game class; OnGameEnd once when it crosses out into the ended
	// class. Both run on the supervisor goroutine and must not block.
	OnGameStart func()
	OnGameEnd   func()
}

const defaultRetryEvery = 10 * time.Second
