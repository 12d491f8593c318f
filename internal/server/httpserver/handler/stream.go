package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yndnr/tcplink/internal/core/domain"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The agent listens on loopback; browsers opening the stream from a
	// local page are allowed.
	CheckOrigin: func(*http.Request) bool { return true },
}

// handleStream handles GET /v1/stream. Every chunk received from the peer
// is forwarded as one binary websocket message until the client goes away.
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	if h.inbound == nil {
		h.writeError(w, r, domain.ErrInternal.Code, "stream not available")
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied.
		h.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	defer ws.Close()

	sub := h.inbound.Subscribe()
	defer sub.Close()

	// The client never sends data; the reader only notices the close.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(streamPingPeriod)
	defer ping.Stop()

	h.logger.Debug("stream opened", "remote", r.RemoteAddr)
	for {
		select {
		case msg, ok := <-sub.C():
			if !ok {
				return
			}
			ws.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := ws.WriteMessage(websocket.BinaryMessage, msg.Data); err != nil {
				return
			}
		case <-ping.C:
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteWait)); err != nil {
				return
			}
		case <-gone:
			h.logger.Debug("stream closed", "remote", r.RemoteAddr, "dropped", sub.Dropped())
			return
		case <-r.Context().Done():
			return
		}
	}
}
