// SPDX-License-Identifier: Apache-2.0

package clvm

import (
	"bytes"
	"encoding/hex"
	"math/big"

	"github.com/pkg/errors"
)

// Program is an immutable CLVM value. It is either an atom, a byte string
// that may be read as a signed big endian integer, or a pair of programs.
type Program struct {
	atom  []byte
	first *Program
	rest  *Program
}

var (
	// Nil is the empty atom, which doubles as the empty list and false.
	Nil = &Program{atom: []byte{}}
	// One is the atom 0x01, used as true and as the quote operator.
	One = &Program{atom: []byte{1}}
)

// Atom returns an atom holding a copy of data.
func Atom(data []byte) *Program {
	return &Program{atom: append([]byte{}, data...)}
}

// Cons returns the pair (first . rest).
func Cons(first, rest *Program) *Program {
	return &Program{first: first, rest: rest}
}

// List returns the proper list of items terminated by Nil.
func List(items ...*Program) *Program {
	l := Nil
	for i := len(items) - 1; i >= 0; i-- {
		l = Cons(items[i], l)
	}
	return l
}

// Int returns the canonical atom of v.
func Int(v *big.Int) *Program {
	return &Program{atom: encodeInt(v)}
}

// Int64 returns the canonical atom of v.
func Int64(v int64) *Program {
	return Int(big.NewInt(v))
}

// Uint64 returns the canonical atom of v.
func Uint64(v uint64) *Program {
	return Int(new(big.Int).SetUint64(v))
}

// Bool returns One for true and Nil for false.
func Bool(b bool) *Program {
	if b {
		return One
	}
	return Nil
}

// IsPair reports whether p is a cons pair.
func (p *Program) IsPair() bool {
	return p.first != nil
}

// IsAtom reports whether p is an atom.
func (p *Program) IsAtom() bool {
	return p.first == nil
}

// IsNil reports whether p is the empty atom.
func (p *Program) IsNil() bool {
	return p.IsAtom() && len(p.atom) == 0
}

// Atom returns the bytes of an atom. The result must not be modified.
func (p *Program) Atom() ([]byte, error) {
	if p.IsPair() {
		return nil, errors.WithMessage(ErrNotAtom, p.String())
	}
	return p.atom, nil
}

// AsInt reads an atom as a signed big endian integer.
func (p *Program) AsInt() (*big.Int, error) {
	a, err := p.Atom()
	if err != nil {
		return nil, err
	}
	return decodeInt(a), nil
}

// First returns the left element of a pair.
func (p *Program) First() (*Program, error) {
	if p.IsAtom() {
		return nil, errors.WithMessage(ErrNotPair, p.String())
	}
	return p.first, nil
}

// Rest returns the right element of a pair.
func (p *Program) Rest() (*Program, error) {
	if p.IsAtom() {
		return nil, errors.WithMessage(ErrNotPair, p.String())
	}
	return p.rest, nil
}

// ToList returns the items of a proper list.
func (p *Program) ToList() ([]*Program, error) {
	var items []*Program
	for ; p.IsPair(); p = p.rest {
		items = append(items, p.first)
	}
	if !p.IsNil() {
		return nil, ErrNotList
	}
	return items, nil
}

// At returns the i-th item of a list.
func (p *Program) At(i int) (*Program, error) {
	for ; i > 0; i-- {
		if p.IsAtom() {
			return nil, ErrNotList
		}
		p = p.rest
	}
	return p.First()
}

// Equal reports structural equality.
func (p *Program) Equal(o *Program) bool {
	for {
		if p.IsAtom() || o.IsAtom() {
			return p.IsAtom() && o.IsAtom() && bytes.Equal(p.atom, o.atom)
		}
		if !p.first.Equal(o.first) {
			return false
		}
		p, o = p.rest, o.rest
	}
}

// String returns the hex encoded serialization.
func (p *Program) String() string {
	return hex.EncodeToString(p.Serialize())
}
