package transport

import (
	"context"
	"net"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/yndnr/tcplink/internal/core/domain"
)

func listen(t *testing.T) (net.Listener, domain.Endpoint) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })
	host, portStr, _ := net.SplitHostPort(ln.Addr().String())
	port, _ := strconv.Atoi(portStr)
	return ln, domain.Endpoint{Address: host, Port: port}
}

func TestTCPDialer_DialAndWrite(t *testing.T) {
	ln, ep := listen(t)

	got := make(chan []byte, 1)
	go func() {
		c, err := ln.Accept()
		if err != nil {
			return
		}
		defer c.Close()
		buf := make([]byte, 64)
		n, _ := c.Read(buf)
		got <- buf[:n]
	}()

	conn, err := NewTCPDialer(nil).Dial(context.Background(), ep)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	if !conn.Alive() {
		t.Error("new connection should be alive")
	}
	if _, err := conn.Write([]byte("ping")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	select {
	case b := <-got:
		if string(b) != "ping" {
			t.Errorf("server got %q, want %q", b, "ping")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not receive data")
	}
}

func TestTrackedConn_PeerCloseMarksNotAlive(t *testing.T) {
	ln, ep := listen(t)
	go func() {
		c, err := ln.Accept()
		if err == nil {
			c.Close()
		}
	}()

	conn, err := NewTCPDialer(nil).Dial(context.Background(), ep)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	tc := conn.(*trackedConn)
	select {
	case <-tc.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("reader did not observe peer close")
	}
	if conn.Alive() {
		t.Error("connection should not be alive after peer close")
	}
	if tc.ReadErr() == nil {
		t.Error("ReadErr() should report the terminating error")
	}
}

func TestTrackedConn_SinkReceivesData(t *testing.T) {
	ln, ep := listen(t)
	go func() {
		c, err := ln.Accept()
		if err != nil {
			return
		}
		c.Write([]byte("hello"))
		c.Close()
	}()

	var (
		mu  sync.Mutex
		buf []byte
	)
	sink := func(from domain.Endpoint, data []byte) {
		mu.Lock()
		defer mu.Unlock()
		if from != ep {
			t.Errorf("sink endpoint = %v, want %v", from, ep)
		}
		buf = append(buf, data...)
	}

	conn, err := NewTCPDialer(sink).Dial(context.Background(), ep)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	<-conn.(*trackedConn).Done()
	mu.Lock()
	defer mu.Unlock()
	if string(buf) != "hello" {
		t.Errorf("sink got %q, want %q", buf, "hello")
	}
}

func TestTrackedConn_CloseIdempotent(t *testing.T) {
	ln, ep := listen(t)
	go func() {
		c, err := ln.Accept()
		if err == nil {
			time.Sleep(100 * time.Millisecond)
			c.Close()
		}
	}()

	conn, err := NewTCPDialer(nil).Dial(context.Background(), ep)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	if err := conn.Close(); err != nil {
		t.Errorf("first Close() error = %v", err)
	}
	if err := conn.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if conn.Alive() {
		t.Error("closed connection should not be alive")
	}
}

func TestTCPDialer_Refused(t *testing.T) {
	ln, ep := listen(t)
	ln.Close()

	_, err := NewTCPDialer(nil).Dial(context.Background(), ep)
	if err == nil {
		t.Fatal("Dial() to closed port should fail")
	}
}
