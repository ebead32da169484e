// SPDX-License-Identifier: Apache-2.0

package bls

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/pkg/errors"
)

const (
	// PrivateKeyLen is the length of a serialized private key in byte.
	PrivateKeyLen = 32
	// PublicKeyLen is the length of a compressed G1 point in byte.
	PublicKeyLen = bls12381.SizeOfG1AffineCompressed
	// SignatureLen is the length of a compressed G2 point in byte.
	SignatureLen = bls12381.SizeOfG2AffineCompressed
)

// compressed flag of the ZCash point serialization.
const compressedFlag = 0x80

var (
	order = fr.Modulus()
	g1Gen bls12381.G1Affine
)

func init() {
	_, _, g1Gen, _ = bls12381.Generators()
}

// GroupOrder returns the order of the G1 and G2 subgroups.
func GroupOrder() *big.Int {
	return new(big.Int).Set(order)
}

type (
	// PrivateKey is a scalar of the BLS12-381 scalar field, stored big endian.
	PrivateKey [PrivateKeyLen]byte

	// PublicKey is a point of G1.
	PublicKey struct {
		point bls12381.G1Affine
	}
)

// PrivateKeyFromBytes parses a 32 byte big endian scalar. Values not smaller
// than the group order are rejected.
func PrivateKeyFromBytes(data []byte) (PrivateKey, error) {
	var sk PrivateKey
	if len(data) != PrivateKeyLen {
		return sk, errors.WithMessagef(ErrInvalidPrivateKey, "length %d/%d", len(data), PrivateKeyLen)
	}
	if new(big.Int).SetBytes(data).Cmp(order) >= 0 {
		return sk, errors.WithMessage(ErrInvalidPrivateKey, "not reduced")
	}
	copy(sk[:], data)
	return sk, nil
}

// PrivateKeyFromInt reduces v modulo the group order.
func PrivateKeyFromInt(v *big.Int) PrivateKey {
	var sk PrivateKey
	m := new(big.Int).Mod(v, order)
	m.FillBytes(sk[:])
	return sk
}

// Int returns the scalar value of the key.
func (k PrivateKey) Int() *big.Int {
	return new(big.Int).SetBytes(k[:])
}

// Bytes returns a copy of the big endian key bytes.
func (k PrivateKey) Bytes() []byte {
	return append([]byte(nil), k[:]...)
}

// PublicKey returns k·G1.
func (k PrivateKey) PublicKey() PublicKey {
	return PublicKeyFromScalar(k.Int())
}

// Add returns (k + o) mod r.
func (k PrivateKey) Add(o PrivateKey) PrivateKey {
	return PrivateKeyFromInt(new(big.Int).Add(k.Int(), o.Int()))
}

// String hides the key material.
func (k PrivateKey) String() string {
	return "PrivateKey(" + k.PublicKey().String() + ")"
}

// PublicKeyFromBytes parses a 48 byte compressed G1 point and checks that it
// lies in the prime order subgroup.
func PublicKeyFromBytes(data []byte) (PublicKey, error) {
	var pk PublicKey
	if len(data) != PublicKeyLen {
		return pk, errors.WithMessagef(ErrInvalidPublicKey, "length %d/%d", len(data), PublicKeyLen)
	}
	if data[0]&compressedFlag == 0 {
		return pk, errors.WithMessage(ErrInvalidPublicKey, "not compressed")
	}
	if _, err := pk.point.SetBytes(data); err != nil {
		return pk, errors.Wrap(ErrInvalidPublicKey, err.Error())
	}
	return pk, nil
}

// PublicKeyFromHex parses a hex encoded public key with optional 0x prefix.
func PublicKeyFromHex(s string) (PublicKey, error) {
	data, err := decodeHex(s)
	if err != nil {
		return PublicKey{}, errors.Wrap(ErrInvalidPublicKey, err.Error())
	}
	return PublicKeyFromBytes(data)
}

// PublicKeyFromScalar returns G1·(s mod r).
func PublicKeyFromScalar(s *big.Int) PublicKey {
	var pk PublicKey
	pk.point.ScalarMultiplicationBase(new(big.Int).Mod(s, order))
	return pk
}

// Bytes returns the compressed encoding of the key.
func (p PublicKey) Bytes() [PublicKeyLen]byte {
	return p.point.Bytes()
}

// Add returns the group sum of p and o.
func (p PublicKey) Add(o PublicKey) PublicKey {
	var sum PublicKey
	sum.point.Add(&p.point, &o.point)
	return sum
}

// Equal reports whether both keys are the same point.
func (p PublicKey) Equal(o PublicKey) bool {
	return p.point.Equal(&o.point)
}

// IsIdentity reports whether p is the point at infinity.
func (p PublicKey) IsIdentity() bool {
	return p.point.IsInfinity()
}

// Fingerprint is the first four bytes of sha256 over the compressed key,
// read big endian.
func (p PublicKey) Fingerprint() uint32 {
	b := p.Bytes()
	h := sha256.Sum256(b[:])
	return binary.BigEndian.Uint32(h[:4])
}

func (p PublicKey) String() string {
	b := p.Bytes()
	return hex.EncodeToString(b[:])
}

func decodeHex(s string) ([]byte, error) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	return hex.DecodeString(s)
}
