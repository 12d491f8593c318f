package domain

// Status is the externally reported socket status.
type Status string

const (
	// StatusNoSocket means no socket handle is held.
	StatusNoSocket Status = "no socket"
	// StatusConnected means the socket handle is live.
	StatusConnected Status = "connected"
	// StatusDisconnected means a handle is held but the transport saw it close.
	StatusDisconnected Status = "disconnected"
)

// State is the connection manager state machine state.
type State string

const (
	StateIdle       State = "idle"
	StateConnecting State = "connecting"
	StateOpen       State = "open"
	StateStale      State = "stale"
)

// Snapshot is a point-in-time view of the connection manager.
type Snapshot struct {
	Status    Status    `json:"value"`
	State     State     `json:"state"`
	Endpoint  *Endpoint `json:"endpoint,omitempty"`
	AttemptID string    `json:"attempt_id,omitempty"`
}
