// Package metric provides Prometheus metrics for tcplink.
//
//   - prometheus.go: registry, operation counters and the /metrics handler
//   - collector.go: session state collector read from the manager snapshot
//
// Registry satisfies the connection manager's observer interface.
package metric
