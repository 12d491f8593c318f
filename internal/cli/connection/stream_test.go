package connection

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/websocket"
)

func TestAgent_Stream(t *testing.T) {
	upgrader := websocket.Upgrader{}
	auth := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/stream" {
			http.NotFound(w, r)
			return
		}
		auth <- r.Header.Get("Authorization")
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		ws.WriteMessage(websocket.BinaryMessage, []byte("one"))
		ws.WriteMessage(websocket.BinaryMessage, []byte{0x00, 0xff})
		ws.ReadMessage()
	}))
	defer srv.Close()

	s, err := NewAgent(srv.URL, "tok").Stream(context.Background())
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}
	defer s.Close()

	if got := <-auth; got != "Bearer tok" {
		t.Errorf("Authorization = %q", got)
	}
	for _, want := range []string{"one", "\x00\xff"} {
		data, err := s.Next()
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if string(data) != want {
			t.Errorf("Next() = %q, want %q", data, want)
		}
	}
}

func TestAgent_StreamRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":"TL-AUTH-4010","message":"missing or invalid API token"}`))
	}))
	defer srv.Close()

	_, err := NewAgent(srv.URL, "").Stream(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Stream() error = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusUnauthorized || apiErr.Code != "TL-AUTH-4010" {
		t.Errorf("APIError = %+v", apiErr)
	}
}
