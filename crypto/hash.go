// Package crypto provides the hashing primitives the ledger's deterministic
// executor relies on. Instruction-list hashing reuses the same Keccak256
// helper the state manager uses elsewhere for deriving metadata keys, so the
// hash of a proposal's instruction list is computed with the same primitive
// as the rest of the codebase rather than a bespoke digest.
package crypto

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// Hash is the 32-byte digest of an encoded instruction list.
type Hash [32]byte

// Hex renders the lowercase hex form used for metadata key suffixes.
func (h Hash) Hex() string {
	return hex.EncodeToString(h[:])
}

// String implements fmt.Stringer.
func (h Hash) String() string { return h.Hex() }

// IsZero reports whether h is the zero hash.
func (h Hash) IsZero() bool { return h == Hash{} }

// MarshalJSON renders h as its lowercase hex string rather than a JSON array
// of 32 numbers, so instruction lists and proposal metadata stay compact and
// stable across languages.
func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.Hex())
}

// UnmarshalJSON implements json.Unmarshaler.
func (h *Hash) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("crypto: decode hash: %w", err)
	}
	parsed, err := HashFromHex(s)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// HashOf hashes the canonical JSON encoding of value with Keccak256. Callers
// are responsible for encoding value so that only semantically meaningful
// fields are present; HashOf itself applies no normalization beyond what
// encoding/json already guarantees for struct field order.
func HashOf(value interface{}) (Hash, error) {
	encoded, err := json.Marshal(value)
	if err != nil {
		return Hash{}, fmt.Errorf("crypto: encode value for hashing: %w", err)
	}
	var h Hash
	copy(h[:], ethcrypto.Keccak256(encoded))
	return h, nil
}

// HashFromHex parses the lowercase hex rendering produced by Hash.Hex.
func HashFromHex(s string) (Hash, error) {
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return Hash{}, fmt.Errorf("crypto: invalid hash hex %q: %w", s, err)
	}
	if len(decoded) != len(Hash{}) {
		return Hash{}, fmt.Errorf("crypto: hash hex %q has wrong length", s)
	}
	var h Hash
	copy(h[:], decoded)
	return h, nil
}
