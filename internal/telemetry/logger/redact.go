package logger

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
)

// Keys whose values are always hidden.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"token",
	"credential",
	"authorization",
}

// Keys holding user data sent to or received from the peer.
var payloadKeys = map[string]bool{
	"payload": true,
	"message": true,
	"data":    true,
}

// redactedValue is the placeholder for redacted sensitive data.
const redactedValue = "***REDACTED***"

type redactor struct {
	keepPayloads bool
}

func (r redactor) redact(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			out[i] = r.redact(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}

	if a.Value.Kind() != slog.KindString {
		return a
	}
	s := a.Value.String()
	if s == "" {
		return a
	}
	if IsSensitiveKey(a.Key) {
		return slog.String(a.Key, redactedValue)
	}
	if !r.keepPayloads && payloadKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, SizeSummary(len(s)))
	}
	return a
}

// IsSensitiveKey reports whether a key name suggests secret content.
func IsSensitiveKey(key string) bool {
	k := strings.ToLower(key)
	for _, p := range sensitiveKeyPatterns {
		if strings.Contains(k, p) {
			return true
		}
	}
	return false
}

// SizeSummary renders a redacted payload of n bytes.
func SizeSummary(n int) string {
	return fmt.Sprintf("<%d bytes>", n)
}

// HexPreview renders up to limit bytes of b as hex, marking truncation.
func HexPreview(b []byte, limit int) string {
	if limit <= 0 || len(b) <= limit {
		return hex.EncodeToString(b)
	}
	return hex.EncodeToString(b[:limit]) + "..."
}
