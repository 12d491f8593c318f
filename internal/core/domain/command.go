package domain

import (
	"strings"
	"time"
)

// SavedCommand is a named message that can be sent again later.
type SavedCommand struct {
	Name      string    `json:"name"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// NewSavedCommand validates and builds a saved command.
func NewSavedCommand(name, message string) (*SavedCommand, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrMissingArgument.WithDetails("command name is empty")
	}
	if message == "" {
		return nil, ErrMissingArgument.WithDetails("message is empty")
	}
	return &SavedCommand{
		Name:      name,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Profile holds the preferences remembered between sessions.
type Profile struct {
	LastEndpoint *Endpoint  `json:"last_endpoint,omitempty"`
	LineEnding   LineEnding `json:"line_ending"`
	Prepend      string     `json:"prepend,omitempty"`
}

// DefaultProfile returns the profile used before anything was stored.
func DefaultProfile() Profile {
	return Profile{LineEnding: DefaultLineEnding}
}

// Composition returns the message composition this profile implies.
func (p Profile) Composition() Composition {
	return Composition{Prepend: p.Prepend, LineEnding: p.LineEnding}
}
