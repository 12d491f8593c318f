package service

import "context"

// ConnectAsync runs Connect on its own goroutine. The returned channel
// receives exactly one value.
func (m *Manager) ConnectAsync(ctx context.Context, address string, port int) <-chan error {
	ch := make(chan error, 1)
	go func() {
		ch <- m.Connect(ctx, address, port)
	}()
	return ch
}

// TransmitAsync runs Transmit on its own goroutine. The returned channel
// receives exactly one value.
func (m *Manager) TransmitAsync(ctx context.Context, payload []byte) <-chan error {
	ch := make(chan error, 1)
	go func() {
		ch <- m.Transmit(ctx, payload)
	}()
	return ch
}
