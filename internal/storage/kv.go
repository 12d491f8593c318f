package storage

import (
	"context"
	"io"
	"time"
)

// KVEngine is the embedded key-value store used by the typed stores.
//
// Implementations must be safe for concurrent use.
type KVEngine interface {
	// Get returns ErrKeyNotFound if key doesn't exist.
	Get(ctx context.Context, key []byte) ([]byte, error)

	Set(ctx context.Context, key, value []byte) error

	Delete(ctx context.Context, key []byte) error

	// Scan visits keys with the given prefix in key order.
	// The callback returns false to stop iteration.
	Scan(ctx context.Context, prefix []byte, fn func(key, value []byte) bool) error

	// Backup writes a full backup of the store to w.
	Backup(ctx context.Context, w io.Writer) error

	// GC reclaims value log space. Returns the number of rewrite cycles run.
	GC(ctx context.Context) (int, error)

	Stats(ctx context.Context) (*KVStats, error)

	Close() error
}

// KVStats contains storage engine statistics.
type KVStats struct {
	LSMSize      uint64 `json:"lsm_size"`
	ValueLogSize uint64 `json:"value_log_size"`
	TotalSize    uint64 `json:"total_size"`

	// LastGCTime is the last GC run timestamp (Unix milliseconds).
	LastGCTime int64 `json:"last_gc_time"`
	GCCycles   uint64 `json:"gc_cycles"`
}

// KVConfig configures the Badger engine.
type KVConfig struct {
	// Dir is the storage directory. Ignored when InMemory is set.
	Dir string

	// InMemory keeps all data in memory; nothing survives a restart.
	InMemory bool

	// GCInterval is the interval between automatic GC runs. Zero disables
	// automatic GC.
	GCInterval time.Duration

	// GCThreshold is the discard ratio that triggers a value log rewrite.
	GCThreshold float64

	// CacheSize is the block cache size in bytes.
	CacheSize int64

	// SyncWrites fsyncs every write.
	SyncWrites bool
}

// DefaultKVConfig returns the default configuration for dir.
func DefaultKVConfig(dir string) KVConfig {
	return KVConfig{
		Dir:         dir,
		GCInterval:  10 * time.Minute,
		GCThreshold: 0.5,
		CacheSize:   8 << 20, // 8MB
		SyncWrites:  true,
	}
}
