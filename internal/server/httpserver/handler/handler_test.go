package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/tcplink/internal/core/domain"
	"github.com/yndnr/tcplink/internal/core/service"
	"github.com/yndnr/tcplink/internal/storage"
	"github.com/yndnr/tcplink/internal/telemetry/logger"
	"github.com/yndnr/tcplink/internal/transport"
)

type testEnv struct {
	handler *Handler
	manager *service.Manager
	inbound *service.Inbound
	kv      *storage.BadgerEngine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	kv, err := storage.NewBadgerEngine(storage.KVConfig{InMemory: true}, logger.Discard())
	if err != nil {
		t.Fatalf("NewBadgerEngine() error = %v", err)
	}
	t.Cleanup(func() { kv.Close() })

	log := logger.Discard()
	inbound := service.NewInbound(16)
	mgr := service.NewManager(transport.NewTCPDialer(inbound.Publish), service.ManagerOptions{
		ConnectTimeout: 2 * time.Second,
		Logger:         log,
	})
	t.Cleanup(func() { mgr.Close() })

	profiles := service.NewProfileService(storage.NewProfileStore(kv), log)
	commands := service.NewCommandService(storage.NewCommandStore(kv), profiles, mgr, log)

	return &testEnv{
		handler: New(service.NewBridge(mgr), profiles, commands, inbound, log),
		manager: mgr,
		inbound: inbound,
		kv:      kv,
	}
}

// peer is a loopback TCP server that collects received bytes.
type peer struct {
	ln   net.Listener
	data chan []byte
}

func newPeer(t *testing.T) *peer {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	p := &peer{ln: ln, data: make(chan []byte, 16)}
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			go func() {
				defer c.Close()
				buf := make([]byte, 4096)
				for {
					n, err := c.Read(buf)
					if n > 0 {
						p.data <- append([]byte(nil), buf[:n]...)
					}
					if err != nil {
						return
					}
				}
			}()
		}
	}()
	return p
}

func (p *peer) port() int {
	return p.ln.Addr().(*net.TCPAddr).Port
}

// expect reads from the peer until want has been received.
func (p *peer) expect(t *testing.T, want string) {
	t.Helper()
	var got []byte
	deadline := time.After(2 * time.Second)
	for len(got) < len(want) {
		select {
		case b := <-p.data:
			got = append(got, b...)
		case <-deadline:
			t.Fatalf("peer received %q, want %q", got, want)
		}
	}
	if string(got) != want {
		t.Errorf("peer received %q, want %q", got, want)
	}
}

func (e *testEnv) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)

	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("%s %s: decode response %q: %v", method, path, rec.Body.String(), err)
	}
	return rec, resp
}

func connectBody(port int) string {
	return `{"address":"127.0.0.1","port":` + strconv.Itoa(port) + `}`
}

func TestHandleHealth(t *testing.T) {
	env := newTestEnv(t)
	health := func() map[string]any {
		t.Helper()
		rec, resp := env.do(t, "GET", "/health", "")
		if rec.Code != http.StatusOK || resp.Code != "OK" {
			t.Fatalf("health = %d %+v", rec.Code, resp)
		}
		data, _ := resp.Data.(map[string]any)
		return data
	}

	data := health()
	if data["status"] != "healthy" || data["connection"] != string(domain.StateIdle) {
		t.Errorf("health before connect = %v", data)
	}
	if data["version"] == "" || data["subscribers"] != float64(0) {
		t.Errorf("health = %v", data)
	}

	if rec, _ := env.do(t, "POST", "/v1/connect", connectBody(echoPeer(t))); rec.Code != http.StatusOK {
		t.Fatalf("connect = %d", rec.Code)
	}
	if data := health(); data["connection"] != string(domain.StateOpen) {
		t.Errorf("health after connect = %v", data)
	}
}

func TestHandleHealth_NoServices(t *testing.T) {
	h := New(nil, nil, nil, nil, logger.Discard())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("health = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), `"connection"`) {
		t.Errorf("connection reported without a manager: %s", rec.Body.String())
	}
}

func TestHandleStatus_NoSocket(t *testing.T) {
	env := newTestEnv(t)
	rec, resp := env.do(t, "GET", "/v1/status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status code = %d", rec.Code)
	}
	data := resp.Data.(map[string]any)
	if data["value"] != string(domain.StatusNoSocket) || data["state"] != string(domain.StateIdle) {
		t.Errorf("status data = %v", data)
	}
}

func TestHandleConnect(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"missing address", `{"port":80}`, http.StatusBadRequest, domain.ErrMissingArgument.Code},
		{"missing port", `{"address":"127.0.0.1"}`, http.StatusBadRequest, domain.ErrMissingArgument.Code},
		{"empty body", "", http.StatusBadRequest, domain.ErrMissingArgument.Code},
		{"port out of range", `{"address":"127.0.0.1","port":70000}`, http.StatusBadRequest, domain.ErrInvalidArgument.Code},
		{"malformed json", `{"address":`, http.StatusBadRequest, domain.ErrInvalidArgument.Code},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			rec, resp := env.do(t, "POST", "/v1/connect", tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if resp.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", resp.Code, tt.wantCode)
			}
			if rec.Header().Get("X-Error-Code") != tt.wantCode {
				t.Errorf("X-Error-Code = %q", rec.Header().Get("X-Error-Code"))
			}
			if env.manager.Status() != domain.StatusNoSocket {
				t.Error("rejected connect must not change state")
			}
		})
	}
}

func TestHandleConnect_Refused(t *testing.T) {
	env := newTestEnv(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	rec, resp := env.do(t, "POST", "/v1/connect", connectBody(port))
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
	if resp.Code != domain.ErrConnectRefused.Code {
		t.Errorf("code = %q, want %q", resp.Code, domain.ErrConnectRefused.Code)
	}
	if !strings.HasPrefix(resp.Message, domain.ErrConnectRefused.Message) {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestConnectTransmitDisconnect(t *testing.T) {
	env := newTestEnv(t)
	p := newPeer(t)

	rec, resp := env.do(t, "POST", "/v1/connect", connectBody(p.port()))
	if rec.Code != http.StatusOK {
		t.Fatalf("connect = %d %+v", rec.Code, resp)
	}
	if data := resp.Data.(map[string]any); data["success"] != true {
		t.Errorf("connect data = %v", data)
	}

	// The endpoint is remembered in the profile.
	_, resp = env.do(t, "GET", "/v1/profile", "")
	last, _ := resp.Data.(map[string]any)["last_endpoint"].(map[string]any)
	if last["address"] != "127.0.0.1" || int(last["port"].(float64)) != p.port() {
		t.Errorf("last_endpoint = %v", last)
	}

	rec, _ = env.do(t, "POST", "/v1/transmit", `{"message":"hello"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("transmit = %d", rec.Code)
	}
	p.expect(t, "hello")

	rec, _ = env.do(t, "POST", "/v1/transmit", `{"message":"de ad","encoding":"hex"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("hex transmit = %d", rec.Code)
	}
	p.expect(t, "\xde\xad")

	rec, resp = env.do(t, "POST", "/v1/disconnect", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("disconnect = %d", rec.Code)
	}
	if data := resp.Data.(map[string]any); data["value"] != string(domain.StatusNoSocket) {
		t.Errorf("disconnect data = %v", data)
	}

	rec, resp = env.do(t, "POST", "/v1/transmit", `{"message":"late"}`)
	if rec.Code != http.StatusBadRequest || resp.Code != domain.ErrNotConnected.Code {
		t.Errorf("transmit after disconnect = %d %q", rec.Code, resp.Code)
	}
}

func TestHandleTransmit_Invalid(t *testing.T) {
	env := newTestEnv(t)
	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"missing message", `{}`, domain.ErrMissingArgument.Code},
		{"unknown encoding", `{"message":"x","encoding":"rot13"}`, domain.ErrInvalidArgument.Code},
		{"bad hex", `{"message":"zz","encoding":"hex"}`, domain.ErrInvalidArgument.Code},
		{"not connected", `{"message":"x"}`, domain.ErrNotConnected.Code},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, resp := env.do(t, "POST", "/v1/transmit", tt.body)
			if resp.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", resp.Code, tt.wantCode)
			}
		})
	}
}

func TestHandleProfile(t *testing.T) {
	env := newTestEnv(t)

	_, resp := env.do(t, "GET", "/v1/profile", "")
	if data := resp.Data.(map[string]any); data["line_ending"] != string(domain.DefaultLineEnding) {
		t.Errorf("default profile = %v", data)
	}

	rec, resp := env.do(t, "PUT", "/v1/profile", `{"line_ending":"lf","prepend":">> "}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update = %d %+v", rec.Code, resp)
	}
	data := resp.Data.(map[string]any)
	if data["line_ending"] != string(domain.LineEndingLF) || data["prepend"] != ">> " {
		t.Errorf("updated profile = %v", data)
	}

	rec, resp = env.do(t, "PUT", "/v1/profile", `{"line_ending":"crlf2"}`)
	if rec.Code != http.StatusBadRequest || resp.Code != domain.ErrInvalidArgument.Code {
		t.Errorf("bad line ending = %d %q", rec.Code, resp.Code)
	}
}

func TestHandleCommands(t *testing.T) {
	env := newTestEnv(t)
	p := newPeer(t)

	rec, _ := env.do(t, "POST", "/v1/commands", `{"name":"ping","message":"PING"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("save = %d", rec.Code)
	}

	rec, resp := env.do(t, "POST", "/v1/commands", `{"name":"ping","message":"again"}`)
	if rec.Code != http.StatusConflict || resp.Code != domain.ErrCommandConflict.Code {
		t.Errorf("duplicate save = %d %q", rec.Code, resp.Code)
	}

	rec, resp = env.do(t, "POST", "/v1/commands", `{"name":"","message":"x"}`)
	if rec.Code != http.StatusBadRequest || resp.Code != domain.ErrMissingArgument.Code {
		t.Errorf("empty name = %d %q", rec.Code, resp.Code)
	}

	_, resp = env.do(t, "GET", "/v1/commands", "")
	if data := resp.Data.(map[string]any); data["total"].(float64) != 1 {
		t.Errorf("list = %v", data)
	}

	rec, resp = env.do(t, "POST", "/v1/commands/ping/send", "")
	if resp.Code != domain.ErrNotConnected.Code {
		t.Errorf("send while disconnected = %d %q", rec.Code, resp.Code)
	}

	if rec, _ := env.do(t, "POST", "/v1/connect", connectBody(p.port())); rec.Code != http.StatusOK {
		t.Fatalf("connect = %d", rec.Code)
	}
	rec, resp = env.do(t, "POST", "/v1/commands/ping/send", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("send = %d %+v", rec.Code, resp)
	}
	if data := resp.Data.(map[string]any); data["bytes"].(float64) != 6 {
		t.Errorf("send data = %v", data)
	}
	p.expect(t, "PING\r\n")

	if rec, _ := env.do(t, "DELETE", "/v1/commands/ping", ""); rec.Code != http.StatusOK {
		t.Errorf("delete = %d", rec.Code)
	}
	rec, resp = env.do(t, "DELETE", "/v1/commands/ping", "")
	if rec.Code != http.StatusNotFound || resp.Code != domain.ErrCommandNotFound.Code {
		t.Errorf("second delete = %d %q", rec.Code, resp.Code)
	}
}

func TestErrorCodeToHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{domain.ErrBusy.Code, http.StatusConflict},
		{domain.ErrConnectAborted.Code, http.StatusConflict},
		{domain.ErrNotConnected.Code, http.StatusBadRequest},
		{domain.ErrMissingArgument.Code, http.StatusBadRequest},
		{domain.ErrInvalidArgument.Code, http.StatusBadRequest},
		{domain.ErrCommandNotFound.Code, http.StatusNotFound},
		{domain.ErrCommandConflict.Code, http.StatusConflict},
		{domain.ErrRateLimited.Code, http.StatusTooManyRequests},
		{domain.ErrConnectRefused.Code, http.StatusBadGateway},
		{domain.ErrTransportFailure.Code, http.StatusBadGateway},
		{domain.ErrConnectTimedOut.Code, http.StatusGatewayTimeout},
		{domain.ErrStorage.Code, http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := errorCodeToHTTPStatus(tt.code); got != tt.want {
			t.Errorf("errorCodeToHTTPStatus(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestResponseEnvelope(t *testing.T) {
	resp := NewErrorResponse("req-1", "TL-X", "boom")
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(resp); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), `"data"`) {
		t.Errorf("error envelope should omit data: %s", buf.String())
	}
	if resp.Timestamp == 0 {
		t.Error("timestamp not set")
	}
}
