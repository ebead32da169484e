// SPDX-License-Identifier: Apache-2.0

package puzzles

import (
	"github.com/pkg/errors"

	"perun.network/perun-chia-backend/bls"
	"perun.network/perun-chia-backend/clvm"
)

// Standard is the standard ownership puzzle of a synthetic public key.
// Spending it requires an AGG_SIG_ME signature of the synthetic key over
// the tree hash of the delegated puzzle.
type Standard struct {
	curried
	syntheticPublicKey bls.PublicKey
}

// NewStandard curries the synthetic public key into StandardTemplate.
func NewStandard(syntheticPublicKey bls.PublicKey) *Standard {
	pk := syntheticPublicKey.Bytes()
	return &Standard{
		curried:            newCurried(StandardTemplate, []*clvm.Program{clvm.Atom(pk[:])}, nil),
		syntheticPublicKey: syntheticPublicKey,
	}
}

// ParseStandard recovers a standard puzzle from its curried program.
func ParseStandard(program *clvm.Program) (*Standard, error) {
	params, err := Match(StandardTemplate, program)
	if err != nil {
		return nil, err
	}
	if len(params) != 1 {
		return nil, errors.Wrapf(ErrTemplateMismatch, "standard puzzle with %d params", len(params))
	}
	raw, err := params[0].Atom()
	if err != nil {
		return nil, errors.Wrap(ErrTemplateMismatch, "synthetic key is not an atom")
	}
	pk, err := bls.PublicKeyFromBytes(raw)
	if err != nil {
		return nil, errors.Wrap(ErrTemplateMismatch, err.Error())
	}
	return NewStandard(pk), nil
}

// SyntheticPublicKey returns the curried key.
func (s *Standard) SyntheticPublicKey() bls.PublicKey {
	return s.syntheticPublicKey
}

// StandardSolution returns the solution spending a standard puzzle through
// delegatedPuzzle, which is run with delegatedSolution.
func StandardSolution(delegatedPuzzle, delegatedSolution *clvm.Program) *clvm.Program {
	return clvm.List(clvm.Nil, delegatedPuzzle, delegatedSolution)
}

// DelegatedPuzzleForConditions returns a delegated puzzle that outputs
// conditions when run.
func DelegatedPuzzleForConditions(conditions ...*clvm.Program) (*clvm.Program, error) {
	p, err := PayToConditionsTemplate.Program().Run(clvm.List(clvm.List(conditions...)))
	if err != nil {
		return nil, errors.WithMessage(err, "running p2_conditions")
	}
	return p, nil
}
