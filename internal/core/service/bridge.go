package service

import (
	"context"

	"github.com/yndnr/tcplink/internal/core/domain"
)

// ConnectRequest is the connect input. Nil fields are missing arguments.
type ConnectRequest struct {
	Address *string `json:"address" validate:"required"`
	Port    *int    `json:"port" validate:"required,min=1,max=65535"`
}

// ConnectResponse carries either Success or Error.
type ConnectResponse struct {
	Success *bool   `json:"success,omitempty"`
	Error   *string `json:"error,omitempty"`
	Code    string  `json:"code,omitempty"`
}

// TransmitRequest is the transmit input. Encoding defaults to utf8.
type TransmitRequest struct {
	Message  *string         `json:"message" validate:"required"`
	Encoding domain.Encoding `json:"encoding,omitempty" validate:"omitempty,oneof=utf8 hex base64"`
}

// TransmitResponse is empty on success.
type TransmitResponse struct {
	Error *string `json:"error,omitempty"`
	Code  string  `json:"code,omitempty"`
}

// StatusResponse carries the socket status.
type StatusResponse struct {
	Value domain.Status `json:"value"`
}

// Bridge exposes the manager as result values. No method returns a Go
// error or panics; failures are rendered into the response.
type Bridge struct {
	manager *Manager
}

// NewBridge wraps m.
func NewBridge(m *Manager) *Bridge {
	return &Bridge{manager: m}
}

// Manager returns the wrapped manager.
func (b *Bridge) Manager() *Manager {
	return b.manager
}

// Connect validates req and connects.
func (b *Bridge) Connect(ctx context.Context, req ConnectRequest) ConnectResponse {
	if err := ValidateRequest(req); err != nil {
		msg, code := render(err)
		return ConnectResponse{Error: &msg, Code: code}
	}
	if err := b.manager.Connect(ctx, *req.Address, *req.Port); err != nil {
		msg, code := render(err)
		return ConnectResponse{Error: &msg, Code: code}
	}
	ok := true
	return ConnectResponse{Success: &ok}
}

// Disconnect never fails.
func (b *Bridge) Disconnect() {
	b.manager.Disconnect()
}

// Transmit validates req, decodes the message and transmits it.
func (b *Bridge) Transmit(ctx context.Context, req TransmitRequest) TransmitResponse {
	if err := ValidateRequest(req); err != nil {
		msg, code := render(err)
		return TransmitResponse{Error: &msg, Code: code}
	}
	payload, err := domain.DecodePayload(*req.Message, req.Encoding)
	if err == nil {
		err = b.manager.Transmit(ctx, payload)
	}
	if err != nil {
		msg, code := render(err)
		return TransmitResponse{Error: &msg, Code: code}
	}
	return TransmitResponse{}
}

// GetStatus reports the socket status.
func (b *Bridge) GetStatus() StatusResponse {
	return StatusResponse{Value: b.manager.Status()}
}

func render(err error) (string, string) {
	de := domain.AsDomainError(err)
	return de.Describe(), de.Code
}
