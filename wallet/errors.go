// SPDX-License-Identifier: Apache-2.0

package wallet

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrValidation a signature condition or spend was malformed.
	ErrValidation = errors.New("validation failed")
	// ErrAuthorization the supplied owner key does not belong to the wallet.
	ErrAuthorization = errors.New("owner key does not match wallet")
	// ErrKeyNotFound no private key is known for a required public key.
	ErrKeyNotFound = errors.New("private key not found")
	// ErrInterpreter a puzzle could not be decoded or evaluated.
	ErrInterpreter = errors.New("puzzle evaluation failed")
	// ErrPrivateKeyRequired hardened derivation was requested from a public key.
	ErrPrivateKeyRequired = errors.New("hardened derivation requires a private key")
	// ErrAccountNotFound the keychain does not hold the requested account.
	ErrAccountNotFound = errors.New("no such account")
)

// kindError attaches a kind to a cause. errors.Is matches the kind and
// everything the cause matches.
type kindError struct {
	kind  error
	msg   string
	cause error
}

func withKind(kind, cause error, format string, args ...interface{}) error {
	return &kindError{kind: kind, msg: fmt.Sprintf(format, args...), cause: cause}
}

func (e *kindError) Error() string {
	if e.cause == nil {
		return e.kind.Error() + ": " + e.msg
	}
	return e.kind.Error() + ": " + e.msg + ": " + e.cause.Error()
}

func (e *kindError) Is(target error) bool {
	return target == e.kind
}

func (e *kindError) Unwrap() error {
	return e.cause
}
