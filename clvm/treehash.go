// SPDX-License-Identifier: Apache-2.0

package clvm

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
)

// Bytes32Len is the length of a tree hash in byte.
const Bytes32Len = 32

// Bytes32 is a sha256 digest: tree hashes, puzzle hashes and coin ids.
type Bytes32 [Bytes32Len]byte

const (
	atomPrefix = 1
	pairPrefix = 2
)

// HashAtom returns the tree hash of an atom.
func HashAtom(atom []byte) Bytes32 {
	h := sha256.New()
	h.Write([]byte{atomPrefix})
	h.Write(atom)
	var out Bytes32
	h.Sum(out[:0])
	return out
}

// HashPair returns the tree hash of a pair from the hashes of its halves.
func HashPair(first, rest Bytes32) Bytes32 {
	h := sha256.New()
	h.Write([]byte{pairPrefix})
	h.Write(first[:])
	h.Write(rest[:])
	var out Bytes32
	h.Sum(out[:0])
	return out
}

// TreeHash returns the canonical content hash of p: sha256(1 ‖ atom) for
// atoms and sha256(2 ‖ hash(first) ‖ hash(rest)) for pairs.
func (p *Program) TreeHash() Bytes32 {
	if p.IsAtom() {
		return HashAtom(p.atom)
	}
	// Lists nest to the right, so hash the spine without recursion.
	var firsts []Bytes32
	for ; p.IsPair(); p = p.rest {
		firsts = append(firsts, p.first.TreeHash())
	}
	h := HashAtom(p.atom)
	for i := len(firsts) - 1; i >= 0; i-- {
		h = HashPair(firsts[i], h)
	}
	return h
}

// Bytes32FromBytes copies a 32 byte slice.
func Bytes32FromBytes(b []byte) (Bytes32, error) {
	var out Bytes32
	if len(b) != Bytes32Len {
		return out, errors.Errorf("expected %d bytes, got %d", Bytes32Len, len(b))
	}
	copy(out[:], b)
	return out, nil
}

// Bytes32FromHex parses 64 hex digits with optional 0x prefix.
func Bytes32FromHex(s string) (Bytes32, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	b, err := hex.DecodeString(s)
	if err != nil {
		return Bytes32{}, errors.WithStack(err)
	}
	return Bytes32FromBytes(b)
}

// MustBytes32FromHex is Bytes32FromHex for constants.
func MustBytes32FromHex(s string) Bytes32 {
	b, err := Bytes32FromHex(s)
	if err != nil {
		panic(err)
	}
	return b
}

// Bytes returns a copy as slice.
func (b Bytes32) Bytes() []byte {
	return append([]byte(nil), b[:]...)
}

// Hex returns the plain hex digits.
func (b Bytes32) Hex() string {
	return hex.EncodeToString(b[:])
}

// String returns the 0x prefixed hex form used by the node RPC.
func (b Bytes32) String() string {
	return "0x" + b.Hex()
}

// MarshalText implements encoding.TextMarshaler.
func (b Bytes32) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Bytes32) UnmarshalText(text []byte) error {
	v, err := Bytes32FromHex(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}
