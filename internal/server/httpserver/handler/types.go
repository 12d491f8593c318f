package handler

import (
	"time"

	"github.com/yndnr/tcplink/internal/core/domain"
)

// Response is the standard API response envelope.
// All JSON responses use this format (except /metrics which uses Prometheus format).
type Response struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
}

// NewResponse creates a success response.
func NewResponse(requestID string, data any) *Response {
	return &Response{
		Code:      "OK",
		Message:   "Success",
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(requestID, code, message string) *Response {
	return &Response{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
	}
}

// SaveCommandRequest is the request body for POST /v1/commands.
type SaveCommandRequest struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// SendCommandResponse is the response body for POST /v1/commands/{name}/send.
type SendCommandResponse struct {
	Name  string `json:"name"`
	Bytes int    `json:"bytes"`
}

// ListCommandsResponse is the response body for GET /v1/commands.
type ListCommandsResponse struct {
	Items []*domain.SavedCommand `json:"items"`
	Total int                    `json:"total"`
}
