package connection

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
)

// Stream delivers bytes the agent receives from its peer.
type Stream struct {
	conn *websocket.Conn
}

// Stream opens the agent's received-data websocket.
func (a *Agent) Stream(ctx context.Context) (*Stream, error) {
	u := "ws" + strings.TrimPrefix(a.http.baseURL, "http") + "/v1/stream"

	header := http.Header{}
	if a.http.token != "" {
		header.Set("Authorization", "Bearer "+a.http.token)
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u, header)
	if err != nil {
		if resp != nil && resp.StatusCode >= 400 {
			return nil, ParseResponse(resp, nil)
		}
		return nil, fmt.Errorf("open stream: %w", err)
	}
	return &Stream{conn: conn}, nil
}

// Next blocks until the next chunk arrives.
func (s *Stream) Next() ([]byte, error) {
	_, data, err := s.conn.ReadMessage()
	return data, err
}

// Close closes the stream.
func (s *Stream) Close() error {
	s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return s.conn.Close()
}
