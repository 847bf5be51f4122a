package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Fingerprint computes the deduplication hash for a creation request. The
// parameters are canonicalized by decoding and re-encoding them, which sorts
// object keys, so logically identical payloads hash the same regardless of
// key order or whitespace. The operation name, idempotency key (empty when
// absent) and canonical parameters are separated by NUL bytes so field
// boundaries cannot be forged.
func Fingerprint(op string, params json.RawMessage, idempotencyKey string) (string, error) {
	canonical := []byte("null")
	if len(params) > 0 {
		var decoded any
		if err := json.Unmarshal(params, &decoded); err != nil {
			return "", fmt.Errorf("malformed params: %w", err)
		}
		encoded, err := json.Marshal(decoded)
		if err != nil {
			return "", fmt.Errorf("failed to canonicalize params: %w", err)
		}
		canonical = encoded
	}

	h := sha256.New()
	h.Write([]byte(op))
	h.Write([]byte{0})
	h.Write([]byte(idempotencyKey))
	h.Write([]byte{0})
	h.Write(canonical)

	return hex.EncodeToString(h.Sum(nil)), nil
}
