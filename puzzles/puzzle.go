// SPDX-License-Identifier: Apache-2.0

package puzzles

import (
	"github.com/pkg/errors"

	"perun.network/perun-chia-backend/clvm"
)

// Puzzle is a template with its parameters curried in.
type Puzzle interface {
	// Template returns the uncurried template.
	Template() *Template
	// Params returns the curried parameters in order.
	Params() []*clvm.Program
	// Program returns the curried program.
	Program() *clvm.Program
	// PuzzleHash returns the tree hash of Program.
	PuzzleHash() clvm.Bytes32
	// Serialize returns the serialized curried program.
	Serialize() []byte
}

type curried struct {
	template *Template
	params   []*clvm.Program
	program  *clvm.Program
	hash     clvm.Bytes32
}

var _ Puzzle = (*curried)(nil)

// Build curries params into template.
func Build(template *Template, params ...*clvm.Program) Puzzle {
	c := newCurried(template, params, nil)
	return &c
}

// newCurried builds the curried program. hashes may carry already known
// parameter tree hashes, nil entries are computed.
func newCurried(template *Template, params []*clvm.Program, hashes []clvm.Bytes32) curried {
	ps := append([]*clvm.Program(nil), params...)
	hs := make([]clvm.Bytes32, len(ps))
	for i, p := range ps {
		if i < len(hashes) && hashes[i] != (clvm.Bytes32{}) {
			hs[i] = hashes[i]
		} else {
			hs[i] = p.TreeHash()
		}
	}
	return curried{
		template: template,
		params:   ps,
		program:  template.Program().Curry(ps...),
		hash:     clvm.CurriedTreeHash(template.Hash(), hs...),
	}
}

func (c *curried) Template() *Template {
	return c.template
}

func (c *curried) Params() []*clvm.Program {
	return append([]*clvm.Program(nil), c.params...)
}

func (c *curried) Program() *clvm.Program {
	return c.program
}

func (c *curried) PuzzleHash() clvm.Bytes32 {
	return c.hash
}

func (c *curried) Serialize() []byte {
	return c.program.Serialize()
}

// Match uncurries program and checks that it is an instance of template.
// It returns the curried parameters.
func Match(template *Template, program *clvm.Program) ([]*clvm.Program, error) {
	mod, params, ok := program.Uncurry()
	if !ok {
		return nil, errors.Wrap(ErrTemplateMismatch, "not a curried program")
	}
	if mod.TreeHash() != template.Hash() {
		return nil, errors.Wrapf(ErrTemplateMismatch, "not an instance of %s", template.Name())
	}
	return params, nil
}
