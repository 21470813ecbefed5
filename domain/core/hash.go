package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// HashStrings builds a deterministic hash over a set of strings,
// independent of input order.
func HashStrings(parts ...string) Hash {
	sorted := make([]string, len(parts))
	copy(sorted, parts)
	sort.Strings(sorted)
	return NewHash([]byte(strings.Join(sorted, "|")))
}

// HashFields builds a deterministic hash over ordered key=value fields.
func HashFields(fields map[string]string) Hash {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s|", k, fields[k])
	}
	return NewHash([]byte(b.String()))
}
