package ast

import (
	"crypto/sha256"
	"encoding/binary"
)

// NewID derives a stable 128-bit declaration identifier from its kind, its
// declared name, and its ordinal position among siblings of that kind in
// the source file. Using a hash of stable inputs — rather than a random or
// monotonic counter — means pretty-printing a type-checked program and
// reparsing it assigns the exact same IDs to the exact same declarations,
// preserving identity across a print/reparse round trip.
func NewID(kind, name string, ordinal int) ID {
	h := sha256.New()
	h.Write([]byte(kind))
	h.Write([]byte{0})
	h.Write([]byte(name))
	h.Write([]byte{0})
	var ord [8]byte
	binary.LittleEndian.PutUint64(ord[:], uint64(ordinal))
	h.Write(ord[:])
	sum := h.Sum(nil)
	var id ID
	copy(id[:], sum[:16])
	return id
}
