package connection

import (
	"context"
	"net/http"
	"net/url"

	"github.com/yndnr/tcplink/internal/core/domain"
)

// Agent is a typed client for the tcplink-agent API.
type Agent struct {
	http *HTTPClient
}

// NewAgent creates an agent client.
func NewAgent(server, token string) *Agent {
	return &Agent{http: NewHTTPClient(server, token)}
}

// BaseURL returns the agent base URL.
func (a *Agent) BaseURL() string {
	return a.http.BaseURL()
}

func (a *Agent) call(ctx context.Context, method, path string, body, target any) error {
	resp, err := a.http.Do(ctx, method, path, body)
	if err != nil {
		return err
	}
	return ParseResponse(resp, target)
}

// Health checks that the agent is up.
func (a *Agent) Health(ctx context.Context) error {
	return a.call(ctx, http.MethodGet, "/health", nil, nil)
}

// Status returns the connection snapshot.
func (a *Agent) Status(ctx context.Context) (domain.Snapshot, error) {
	var s domain.Snapshot
	err := a.call(ctx, http.MethodGet, "/v1/status", nil, &s)
	return s, err
}

// Connect asks the agent to connect to address:port.
func (a *Agent) Connect(ctx context.Context, address string, port int) error {
	body := map[string]any{"address": address, "port": port}
	return a.call(ctx, http.MethodPost, "/v1/connect", body, nil)
}

// Disconnect asks the agent to drop its connection and returns the
// resulting status.
func (a *Agent) Disconnect(ctx context.Context) (domain.Status, error) {
	var out struct {
		Value domain.Status `json:"value"`
	}
	err := a.call(ctx, http.MethodPost, "/v1/disconnect", nil, &out)
	return out.Value, err
}

// Transmit sends message, decoded by the agent according to enc.
func (a *Agent) Transmit(ctx context.Context, message string, enc domain.Encoding) error {
	body := map[string]any{"message": message}
	if enc != "" {
		body["encoding"] = enc
	}
	return a.call(ctx, http.MethodPost, "/v1/transmit", body, nil)
}

// Profile returns the agent profile.
func (a *Agent) Profile(ctx context.Context) (domain.Profile, error) {
	var p domain.Profile
	err := a.call(ctx, http.MethodGet, "/v1/profile", nil, &p)
	return p, err
}

// UpdateProfile changes the given profile fields; nil fields are kept.
func (a *Agent) UpdateProfile(ctx context.Context, lineEnding, prepend *string) (domain.Profile, error) {
	body := map[string]any{}
	if lineEnding != nil {
		body["line_ending"] = *lineEnding
	}
	if prepend != nil {
		body["prepend"] = *prepend
	}
	var p domain.Profile
	err := a.call(ctx, http.MethodPut, "/v1/profile", body, &p)
	return p, err
}

// Commands lists saved commands.
func (a *Agent) Commands(ctx context.Context) ([]*domain.SavedCommand, error) {
	var out struct {
		Items []*domain.SavedCommand `json:"items"`
	}
	err := a.call(ctx, http.MethodGet, "/v1/commands", nil, &out)
	return out.Items, err
}

// SaveCommand stores a named message.
func (a *Agent) SaveCommand(ctx context.Context, name, message string) (*domain.SavedCommand, error) {
	var cmd domain.SavedCommand
	body := map[string]string{"name": name, "message": message}
	if err := a.call(ctx, http.MethodPost, "/v1/commands", body, &cmd); err != nil {
		return nil, err
	}
	return &cmd, nil
}

// DeleteCommand removes a saved command.
func (a *Agent) DeleteCommand(ctx context.Context, name string) error {
	return a.call(ctx, http.MethodDelete, "/v1/commands/"+url.PathEscape(name), nil, nil)
}

// SendCommand transmits a saved command and returns the bytes sent.
func (a *Agent) SendCommand(ctx context.Context, name string) (int, error) {
	var out struct {
		Bytes int `json:"bytes"`
	}
	err := a.call(ctx, http.MethodPost, "/v1/commands/"+url.PathEscape(name)+"/send", nil, &out)
	return out.Bytes, err
}
