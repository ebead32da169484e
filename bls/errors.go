// SPDX-License-Identifier: Apache-2.0

package bls

import (
	"github.com/pkg/errors"
)

var (
	// ErrSeedTooShort a key generation seed had less than MinSeedLen bytes.
	ErrSeedTooShort = errors.New("seed shorter than 32 bytes")
	// ErrInvalidPrivateKey a private key encoding was malformed.
	ErrInvalidPrivateKey = errors.New("invalid private key")
	// ErrInvalidPublicKey a public key encoding was malformed or off the curve.
	ErrInvalidPublicKey = errors.New("invalid public key")
	// ErrInvalidSignature a signature encoding was malformed or off the curve.
	ErrInvalidSignature = errors.New("invalid signature")
)
