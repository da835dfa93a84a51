package protocol

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/waku-org/waku-go-bindings/errors"
)

// HashLength is the byte length of a message hash.
const HashLength = 32

// MessageHash is the fixed-length identifier of a protocol message. Its
// textual form is a 0x-prefixed hex string; the two representations
// round-trip losslessly.
type MessageHash [HashLength]byte

// BytesToHash copies b into a MessageHash.
func BytesToHash(b []byte) (MessageHash, error) {
	var h MessageHash
	if len(b) != HashLength {
		return h, errors.InvalidHash(fmt.Sprintf("message hash must be %d bytes, got %d", HashLength, len(b)))
	}
	copy(h[:], b)
	return h, nil
}

// ParseMessageHash parses the 0x-prefixed hex form.
func ParseMessageHash(s string) (MessageHash, error) {
	var h MessageHash
	if !strings.HasPrefix(s, "0x") {
		return h, errors.InvalidHash(fmt.Sprintf("message hash %q missing 0x prefix", s))
	}
	raw, err := hex.DecodeString(s[2:])
	if err != nil {
		return h, errors.InvalidHash(fmt.Sprintf("message hash %q is not hex: %v", s, err))
	}
	return BytesToHash(raw)
}

// Bytes returns the raw 32 bytes.
func (h MessageHash) Bytes() []byte { return h[:] }

// String renders the 0x-prefixed hex form.
func (h MessageHash) String() string {
	return "0x" + hex.EncodeToString(h[:])
}

// IsZero reports whether the hash is all zeroes.
func (h MessageHash) IsZero() bool { return h == MessageHash{} }

// MarshalJSON encodes the hash as its hex string.
func (h MessageHash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

// UnmarshalJSON decodes the hash from its hex string.
func (h *MessageHash) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseMessageHash(s)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
