// SPDX-License-Identifier: Apache-2.0

package clvm

import (
	"github.com/pkg/errors"
)

const (
	// DefaultMaxCost is the cost limit of a whole block.
	DefaultMaxCost = 11_000_000_000

	// maxDepth bounds the recursion of the evaluator.
	maxDepth = 1 << 18
)

const (
	quoteCost              = 20
	applyCost              = 90
	pathLookupBaseCost     = 40
	pathLookupCostPerLeg   = 4
	pathLookupCostPerZeroB = 4
)

type machine struct {
	cost    uint64
	maxCost uint64
}

// Run evaluates p with env as its solution under DefaultMaxCost.
func (p *Program) Run(env *Program) (*Program, error) {
	r, _, err := p.RunWithCost(env, DefaultMaxCost)
	return r, err
}

// RunWithCost evaluates p with env as its solution and returns the result
// together with the consumed cost. Evaluation fails with ErrCostExceeded
// once the cost passes maxCost.
func (p *Program) RunWithCost(env *Program, maxCost uint64) (*Program, uint64, error) {
	m := &machine{maxCost: maxCost}
	r, err := m.eval(p, env, 0)
	if err != nil {
		return nil, m.cost, err
	}
	return r, m.cost, nil
}

func (m *machine) charge(cost uint64) error {
	m.cost += cost
	if m.cost > m.maxCost {
		return errors.WithMessagef(ErrCostExceeded, "%d > %d", m.cost, m.maxCost)
	}
	return nil
}

func (m *machine) eval(prog, env *Program, depth int) (*Program, error) {
	if depth > maxDepth {
		return nil, newEvalError(prog, "maximum recursion depth exceeded")
	}
	if prog.IsAtom() {
		return m.traverse(prog.atom, env)
	}

	op, operands := prog.first, prog.rest
	if op.IsPair() {
		// ((X) . operands) applies X to the unevaluated operands.
		if op.first.IsPair() || !op.rest.IsNil() {
			return nil, newEvalError(prog, "in ((X)...) syntax X must be lone atom")
		}
		args, err := operands.ToList()
		if err != nil {
			return nil, newEvalError(operands, "bad operand list")
		}
		return m.apply(op.first.atom, args, depth)
	}

	if isAtomValue(op, opQuote) {
		if err := m.charge(quoteCost); err != nil {
			return nil, err
		}
		return operands, nil
	}

	var args []*Program
	for ; operands.IsPair(); operands = operands.rest {
		v, err := m.eval(operands.first, env, depth+1)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	if !operands.IsNil() {
		return nil, newEvalError(prog, "bad operand list")
	}
	return m.apply(op.atom, args, depth)
}

func (m *machine) apply(op []byte, args []*Program, depth int) (*Program, error) {
	if len(op) != 1 {
		return nil, newEvalError(Atom(op), "unimplemented operator")
	}
	if op[0] == opApply {
		if len(args) != 2 {
			return nil, newEvalError(List(args...), "apply takes exactly 2 arguments")
		}
		if err := m.charge(applyCost); err != nil {
			return nil, err
		}
		return m.eval(args[0], args[1], depth+1)
	}
	o, ok := operators[op[0]]
	if !ok {
		return nil, newEvalError(Atom(op), "unimplemented operator")
	}
	return o.fn(m, o.name, args)
}

// traverse resolves a path atom against env.
func (m *machine) traverse(path []byte, env *Program) (*Program, error) {
	node, zeros, legs, ok := walkPath(path, env)
	if !ok {
		return nil, newEvalError(Atom(path), "path into atom")
	}
	cost := uint64(pathLookupBaseCost + pathLookupCostPerZeroB*zeros + pathLookupCostPerLeg*legs)
	if err := m.charge(cost); err != nil {
		return nil, err
	}
	return node, nil
}

// walkPath follows path through env. Bits are consumed from the least
// significant end: 0 selects first, 1 selects rest, and the most
// significant set bit terminates the walk. An all zero path selects Nil.
// ok is false if the walk runs into an atom.
func walkPath(path []byte, env *Program) (node *Program, zeros, legs int, ok bool) {
	for zeros < len(path) && path[zeros] == 0 {
		zeros++
	}
	if zeros == len(path) {
		return Nil, zeros, 0, true
	}

	endMask := topBit(path[zeros])
	idx, mask := len(path)-1, byte(1)
	for idx > zeros || mask < endMask {
		if env.IsAtom() {
			return nil, zeros, legs, false
		}
		if path[idx]&mask != 0 {
			env = env.rest
		} else {
			env = env.first
		}
		legs++
		if mask == 0x80 {
			mask, idx = 1, idx-1
		} else {
			mask <<= 1
		}
	}
	return env, zeros, legs, true
}

func topBit(b byte) byte {
	mask := byte(0x80)
	for b&mask == 0 {
		mask >>= 1
	}
	return mask
}
