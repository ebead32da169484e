// SPDX-License-Identifier: Apache-2.0

package clvm

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidEncoding a serialized program was malformed.
	ErrInvalidEncoding = errors.New("invalid program encoding")
	// ErrNotAtom an atom was expected but a pair was found.
	ErrNotAtom = errors.New("expected atom")
	// ErrNotPair a pair was expected but an atom was found.
	ErrNotPair = errors.New("expected pair")
	// ErrNotList a proper list was expected.
	ErrNotList = errors.New("expected list")
	// ErrEval program evaluation failed.
	ErrEval = errors.New("evaluation failed")
	// ErrCostExceeded evaluation ran out of its cost budget.
	ErrCostExceeded = errors.New("cost exceeded")
)

// EvalError describes why evaluation stopped. It matches ErrEval.
type EvalError struct {
	Reason string
	Node   *Program
}

func newEvalError(node *Program, format string, args ...interface{}) *EvalError {
	return &EvalError{Reason: fmt.Sprintf(format, args...), Node: node}
}

func (e *EvalError) Error() string {
	if e.Node == nil {
		return ErrEval.Error() + ": " + e.Reason
	}
	return ErrEval.Error() + ": " + e.Reason + " at " + e.Node.String()
}

// Unwrap lets errors.Is match ErrEval.
func (e *EvalError) Unwrap() error {
	return ErrEval
}
