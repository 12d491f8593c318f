package service

import (
	"context"
	"testing"

	"github.com/yndnr/tcplink/internal/core/domain"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestBridge_Connect(t *testing.T) {
	tests := []struct {
		name     string
		req      ConnectRequest
		wantCode string
	}{
		{"success", ConnectRequest{Address: strPtr("host"), Port: intPtr(80)}, ""},
		{"missing address", ConnectRequest{Port: intPtr(80)}, domain.ErrMissingArgument.Code},
		{"missing port", ConnectRequest{Address: strPtr("host")}, domain.ErrMissingArgument.Code},
		{"missing both", ConnectRequest{}, domain.ErrMissingArgument.Code},
		{"empty address", ConnectRequest{Address: strPtr(""), Port: intPtr(80)}, domain.ErrMissingArgument.Code},
		{"port out of range", ConnectRequest{Address: strPtr("host"), Port: intPtr(70000)}, domain.ErrInvalidArgument.Code},
		{"port zero", ConnectRequest{Address: strPtr("host"), Port: intPtr(0)}, domain.ErrInvalidArgument.Code},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &fakeDialer{}
			b := NewBridge(newTestManager(d, ManagerOptions{}))

			resp := b.Connect(context.Background(), tt.req)
			if tt.wantCode == "" {
				if resp.Success == nil || !*resp.Success || resp.Error != nil {
					t.Fatalf("Connect() = %+v, want success", resp)
				}
				return
			}
			if resp.Success != nil || resp.Error == nil {
				t.Fatalf("Connect() = %+v, want error", resp)
			}
			if resp.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q (%s)", resp.Code, tt.wantCode, *resp.Error)
			}
			if d.Calls() != 0 {
				t.Error("rejected request should not dial")
			}
		})
	}
}

func TestBridge_ConnectRuntimeErrorRendered(t *testing.T) {
	d := &fakeDialer{}
	d.SetErr(opErr(errBoom))
	b := NewBridge(newTestManager(d, ManagerOptions{}))

	resp := b.Connect(context.Background(), ConnectRequest{Address: strPtr("host"), Port: intPtr(1)})
	if resp.Error == nil || resp.Code != domain.ErrConnectFailed.Code {
		t.Fatalf("Connect() = %+v, want connect failed", resp)
	}
}

func TestBridge_Transmit(t *testing.T) {
	d := &fakeDialer{}
	b := NewBridge(newTestManager(d, ManagerOptions{}))
	ctx := context.Background()

	resp := b.Transmit(ctx, TransmitRequest{Message: strPtr("hi")})
	if resp.Code != domain.ErrNotConnected.Code {
		t.Errorf("Transmit() before connect code = %q, want not connected", resp.Code)
	}

	b.Connect(ctx, ConnectRequest{Address: strPtr("host"), Port: intPtr(1)})

	if resp := b.Transmit(ctx, TransmitRequest{}); resp.Code != domain.ErrMissingArgument.Code {
		t.Errorf("Transmit() without message code = %q, want missing", resp.Code)
	}
	if resp := b.Transmit(ctx, TransmitRequest{Message: strPtr("x"), Encoding: "rot13"}); resp.Code != domain.ErrInvalidArgument.Code {
		t.Errorf("Transmit() with bad encoding code = %q, want invalid", resp.Code)
	}
	if resp := b.Transmit(ctx, TransmitRequest{Message: strPtr("zz"), Encoding: domain.EncodingHex}); resp.Code != domain.ErrInvalidArgument.Code {
		t.Errorf("Transmit() with bad hex code = %q, want invalid", resp.Code)
	}
	if resp := b.Transmit(ctx, TransmitRequest{Message: strPtr("hi ")}); resp.Error != nil {
		t.Fatalf("Transmit() error = %s", *resp.Error)
	}
	if resp := b.Transmit(ctx, TransmitRequest{Message: strPtr("0a"), Encoding: domain.EncodingHex}); resp.Error != nil {
		t.Fatalf("Transmit() hex error = %s", *resp.Error)
	}
	if got := d.Last().Written(); got != "hi \n" {
		t.Errorf("written = %q, want %q", got, "hi \n")
	}
}

func TestBridge_TransmitFailureMessage(t *testing.T) {
	d := &fakeDialer{}
	b := NewBridge(newTestManager(d, ManagerOptions{}))
	ctx := context.Background()

	b.Connect(ctx, ConnectRequest{Address: strPtr("host"), Port: intPtr(1)})
	d.Last().writeErr = errBoom

	resp := b.Transmit(ctx, TransmitRequest{Message: strPtr("x")})
	if resp.Error == nil || *resp.Error != "disconnected from server; please reconnect" {
		t.Errorf("Transmit() = %+v", resp)
	}
	if b.GetStatus().Value != domain.StatusNoSocket {
		t.Errorf("GetStatus() = %q, want no socket", b.GetStatus().Value)
	}
}

func TestBridge_DisconnectAndStatus(t *testing.T) {
	b := NewBridge(newTestManager(&fakeDialer{}, ManagerOptions{}))
	ctx := context.Background()

	if got := b.GetStatus().Value; got != domain.StatusNoSocket {
		t.Errorf("GetStatus() = %q", got)
	}
	b.Connect(ctx, ConnectRequest{Address: strPtr("host"), Port: intPtr(1)})
	if got := b.GetStatus().Value; got != domain.StatusConnected {
		t.Errorf("GetStatus() = %q", got)
	}
	b.Disconnect()
	b.Disconnect()
	if got := b.GetStatus().Value; got != domain.StatusNoSocket {
		t.Errorf("GetStatus() = %q", got)
	}
}
