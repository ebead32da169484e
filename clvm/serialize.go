// SPDX-License-Identifier: Apache-2.0

package clvm

import (
	"bytes"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
)

const (
	consBox  = 0xff
	nilAtom  = 0x80
	backRef  = 0xfe
	maxAtomL = 1 << 34
)

// Serialize returns the canonical binary encoding of p.
func (p *Program) Serialize() []byte {
	var buf bytes.Buffer
	p.writeTo(&buf)
	return buf.Bytes()
}

func (p *Program) writeTo(w *bytes.Buffer) {
	for ; p.IsPair(); p = p.rest {
		w.WriteByte(consBox)
		p.first.writeTo(w)
	}
	writeAtom(w, p.atom)
}

func writeAtom(w *bytes.Buffer, atom []byte) {
	n := len(atom)
	switch {
	case n == 0:
		w.WriteByte(nilAtom)
		return
	case n == 1 && atom[0] <= 0x7f:
		w.WriteByte(atom[0])
		return
	case n < 0x40:
		w.WriteByte(0x80 | byte(n))
	case n < 0x2000:
		w.Write([]byte{0xc0 | byte(n>>8), byte(n)})
	case n < 0x100000:
		w.Write([]byte{0xe0 | byte(n>>16), byte(n >> 8), byte(n)})
	case n < 0x8000000:
		w.Write([]byte{0xf0 | byte(n>>24), byte(n >> 16), byte(n >> 8), byte(n)})
	default:
		w.Write([]byte{0xf8 | byte(uint64(n)>>32), byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)})
	}
	w.Write(atom)
}

// Deserialize parses exactly one program from data. Back references (0xfe)
// of the compressed encoding are resolved to shared subtrees, Serialize
// writes them out in full.
func Deserialize(data []byte) (*Program, error) {
	p, n, err := parse(data)
	if err != nil {
		return nil, err
	}
	if n != len(data) {
		return nil, errors.WithMessagef(ErrInvalidEncoding, "%d trailing bytes", len(data)-n)
	}
	return p, nil
}

// DeserializeHex parses a hex encoded program with optional 0x prefix.
func DeserializeHex(s string) (*Program, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidEncoding, err.Error())
	}
	return Deserialize(data)
}

// MustDeserializeHex is DeserializeHex for compile time constants.
func MustDeserializeHex(s string) *Program {
	p, err := DeserializeHex(s)
	if err != nil {
		panic(err)
	}
	return p
}

type parseOp uint8

const (
	parseValue parseOp = iota
	parseCons
)

// parse walks the encoding with explicit stacks so that deeply nested input
// cannot exhaust the goroutine stack. The value stack is kept as a list,
// since back references are paths into it.
func parse(data []byte) (*Program, int, error) {
	var (
		pos    int
		ops    = []parseOp{parseValue}
		values = Nil
	)
	for len(ops) > 0 {
		op := ops[len(ops)-1]
		ops = ops[:len(ops)-1]

		if op == parseCons {
			rest, first := values.first, values.rest.first
			values = Cons(Cons(first, rest), values.rest.rest)
			continue
		}

		if pos >= len(data) {
			return nil, 0, errors.WithMessage(ErrInvalidEncoding, "unexpected end of input")
		}
		switch data[pos] {
		case consBox:
			pos++
			ops = append(ops, parseCons, parseValue, parseValue)
		case backRef:
			pos++
			if pos >= len(data) {
				return nil, 0, errors.WithMessage(ErrInvalidEncoding, "unexpected end of input")
			}
			path, next, err := readAtom(data, pos)
			if err != nil {
				return nil, 0, err
			}
			pos = next
			node, _, _, ok := walkPath(path, values)
			if !ok {
				return nil, 0, errors.WithMessagef(ErrInvalidEncoding, "back reference 0x%x into atom", path)
			}
			values = Cons(node, values)
		default:
			atom, next, err := readAtom(data, pos)
			if err != nil {
				return nil, 0, err
			}
			pos = next
			values = Cons(&Program{atom: atom}, values)
		}
	}
	return values.first, pos, nil
}

func readAtom(data []byte, pos int) ([]byte, int, error) {
	b := data[pos]
	if b == nilAtom {
		return []byte{}, pos + 1, nil
	}
	if b <= 0x7f {
		return []byte{b}, pos + 1, nil
	}

	prefix := 0
	for mask := byte(0x80); b&mask != 0; mask >>= 1 {
		prefix++
	}
	if prefix > 5 {
		return nil, 0, errors.WithMessagef(ErrInvalidEncoding, "bad size prefix %#x", b)
	}
	if pos+prefix > len(data) {
		return nil, 0, errors.WithMessage(ErrInvalidEncoding, "truncated size prefix")
	}
	size := uint64(b & (0xff >> (prefix + 1)))
	for i := 1; i < prefix; i++ {
		size = size<<8 | uint64(data[pos+i])
	}
	pos += prefix
	if size >= maxAtomL || uint64(len(data)-pos) < size {
		return nil, 0, errors.WithMessagef(ErrInvalidEncoding, "atom of %d bytes exceeds input", size)
	}
	end := pos + int(size)
	return append([]byte{}, data[pos:end]...), end, nil
}
