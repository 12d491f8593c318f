package domain

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

// LineEnding is the terminator appended to composed messages.
type LineEnding string

const (
	LineEndingNone LineEnding = "none"
	LineEndingLF   LineEnding = "LF"
	LineEndingCR   LineEnding = "CR"
	LineEndingCRLF LineEnding = "CRLF"
)

// DefaultLineEnding is used when no preference has been stored.
const DefaultLineEnding = LineEndingCRLF

// ParseLineEnding parses a line ending name, case-insensitively.
// An empty string yields the default.
func ParseLineEnding(s string) (LineEnding, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return DefaultLineEnding, nil
	case "NONE":
		return LineEndingNone, nil
	case "LF":
		return LineEndingLF, nil
	case "CR":
		return LineEndingCR, nil
	case "CRLF":
		return LineEndingCRLF, nil
	default:
		return "", ErrInvalidArgument.WithDetails(fmt.Sprintf("unknown line ending %q (none, LF, CR, CRLF)", s))
	}
}

// Bytes returns the terminator bytes.
func (l LineEnding) Bytes() []byte {
	switch l {
	case LineEndingLF:
		return []byte("\n")
	case LineEndingCR:
		return []byte("\r")
	case LineEndingCRLF:
		return []byte("\r\n")
	default:
		return nil
	}
}

// Composition controls how a message is turned into payload bytes.
type Composition struct {
	Prepend    string     `json:"prepend,omitempty"`
	LineEnding LineEnding `json:"line_ending,omitempty"`
}

// Compose builds the payload: prepend + message + line ending.
func (c Composition) Compose(message string) []byte {
	end := c.LineEnding.Bytes()
	out := make([]byte, 0, len(c.Prepend)+len(message)+len(end))
	out = append(out, c.Prepend...)
	out = append(out, message...)
	return append(out, end...)
}

// Encoding names how a message string maps to payload bytes.
type Encoding string

const (
	EncodingUTF8   Encoding = "utf8"
	EncodingHex    Encoding = "hex"
	EncodingBase64 Encoding = "base64"
)

// DecodePayload converts a message in the given encoding into raw bytes.
func DecodePayload(message string, enc Encoding) ([]byte, error) {
	switch enc {
	case "", EncodingUTF8:
		return []byte(message), nil
	case EncodingHex:
		b, err := hex.DecodeString(strings.ReplaceAll(message, " ", ""))
		if err != nil {
			return nil, ErrInvalidArgument.Wrap(err).WithDetails("message is not valid hex")
		}
		return b, nil
	case EncodingBase64:
		b, err := base64.StdEncoding.DecodeString(message)
		if err != nil {
			return nil, ErrInvalidArgument.Wrap(err).WithDetails("message is not valid base64")
		}
		return b, nil
	default:
		return nil, ErrInvalidArgument.WithDetails(fmt.Sprintf("unknown encoding %q", enc))
	}
}
