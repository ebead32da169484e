// SPDX-License-Identifier: Apache-2.0

package clvm

import (
	"bytes"
)

const (
	opQuote = 1
	opApply = 2
	opCons  = 4
)

var (
	quoteAtom = &Program{atom: []byte{opQuote}}
	applyAtom = &Program{atom: []byte{opApply}}
	consAtom  = &Program{atom: []byte{opCons}}
)

// Curry binds args as the leading arguments of p. The result is
// (a (q . p) (c (q . arg0) (c (q . arg1) ... 1))), which runs p on the
// environment (arg0 arg1 ... . solution).
func (p *Program) Curry(args ...*Program) *Program {
	env := One
	for i := len(args) - 1; i >= 0; i-- {
		env = List(consAtom, Cons(quoteAtom, args[i]), env)
	}
	return List(applyAtom, Cons(quoteAtom, p), env)
}

// Uncurry reverses Curry. It reports false if p does not have the curried
// shape.
func (p *Program) Uncurry() (*Program, []*Program, bool) {
	items, err := p.ToList()
	if err != nil || len(items) != 3 || !isAtomValue(items[0], opApply) {
		return nil, nil, false
	}
	mod, ok := unquote(items[1])
	if !ok {
		return nil, nil, false
	}

	var args []*Program
	env := items[2]
	// The innermost environment is path 1, the remaining solution.
	for !isAtomValue(env, 1) {
		parts, err := env.ToList()
		if err != nil || len(parts) != 3 || !isAtomValue(parts[0], opCons) {
			return nil, nil, false
		}
		arg, ok := unquote(parts[1])
		if !ok {
			return nil, nil, false
		}
		args = append(args, arg)
		env = parts[2]
	}
	return mod, args, true
}

func unquote(p *Program) (*Program, bool) {
	if p.IsAtom() || !isAtomValue(p.first, opQuote) {
		return nil, false
	}
	return p.rest, true
}

func isAtomValue(p *Program, v byte) bool {
	return p.IsAtom() && bytes.Equal(p.atom, []byte{v})
}

var (
	quoteHash = HashAtom([]byte{opQuote})
	applyHash = HashAtom([]byte{opApply})
	consHash  = HashAtom([]byte{opCons})
	oneHash   = HashAtom([]byte{1})
	nilHash   = HashAtom(nil)
)

// CurriedTreeHash returns the tree hash of mod curried with arguments of the
// given tree hashes, without building the program.
func CurriedTreeHash(modHash Bytes32, argHashes ...Bytes32) Bytes32 {
	env := oneHash
	for i := len(argHashes) - 1; i >= 0; i-- {
		env = hashList(consHash, HashPair(quoteHash, argHashes[i]), env)
	}
	return hashList(applyHash, HashPair(quoteHash, modHash), env)
}

func hashList(items ...Bytes32) Bytes32 {
	h := nilHash
	for i := len(items) - 1; i >= 0; i-- {
		h = HashPair(items[i], h)
	}
	return h
}
