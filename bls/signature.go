// SPDX-License-Identifier: Apache-2.0

package bls

import (
	"encoding/hex"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/pkg/errors"
)

// augSchemeDST is the ciphersuite tag of the augmented BLS scheme used by Chia.
var augSchemeDST = []byte("BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_AUG_")

// Signature is a point of G2. The zero value is the identity.
type Signature struct {
	point bls12381.G2Affine
}

// SignatureFromBytes parses a 96 byte compressed G2 point and checks that it
// lies in the prime order subgroup.
func SignatureFromBytes(data []byte) (Signature, error) {
	var sig Signature
	if len(data) != SignatureLen {
		return sig, errors.WithMessagef(ErrInvalidSignature, "length %d/%d", len(data), SignatureLen)
	}
	if data[0]&compressedFlag == 0 {
		return sig, errors.WithMessage(ErrInvalidSignature, "not compressed")
	}
	if _, err := sig.point.SetBytes(data); err != nil {
		return sig, errors.Wrap(ErrInvalidSignature, err.Error())
	}
	return sig, nil
}

// Bytes returns the compressed encoding of the signature.
func (s Signature) Bytes() [SignatureLen]byte {
	return s.point.Bytes()
}

// Equal reports whether both signatures are the same point.
func (s Signature) Equal(o Signature) bool {
	return s.point.Equal(&o.point)
}

// IsIdentity reports whether s is the point at infinity.
func (s Signature) IsIdentity() bool {
	return s.point.IsInfinity()
}

func (s Signature) String() string {
	b := s.Bytes()
	return hex.EncodeToString(b[:])
}

// Sign signs msg under the augmented scheme: the signed point is
// H(pk ‖ msg) so that aggregates over equal messages stay secure.
func Sign(sk PrivateKey, msg []byte) Signature {
	h := augmentedHash(sk.PublicKey(), msg)
	var sig Signature
	sig.point.ScalarMultiplication(&h, sk.Int())
	return sig
}

// Verify checks a single augmented scheme signature.
func Verify(pk PublicKey, msg []byte, sig Signature) bool {
	return AggregateVerify([]PublicKey{pk}, [][]byte{msg}, sig)
}

// Aggregate sums signatures. The empty aggregate is the identity.
func Aggregate(sigs ...Signature) Signature {
	var agg Signature
	for i := range sigs {
		agg.point.Add(&agg.point, &sigs[i].point)
	}
	return agg
}

// AggregateVerify checks an aggregate over pairwise distinct or equal
// messages, each signed by the key at the same position.
func AggregateVerify(pks []PublicKey, msgs [][]byte, sig Signature) bool {
	if len(pks) != len(msgs) {
		return false
	}
	if len(pks) == 0 {
		return sig.IsIdentity()
	}

	ps := make([]bls12381.G1Affine, 0, len(pks)+1)
	qs := make([]bls12381.G2Affine, 0, len(pks)+1)
	for i, pk := range pks {
		if pk.IsIdentity() {
			return false
		}
		ps = append(ps, pk.point)
		qs = append(qs, augmentedHash(pk, msgs[i]))
	}
	var negG1 bls12381.G1Affine
	negG1.Neg(&g1Gen)
	ps = append(ps, negG1)
	qs = append(qs, sig.point)

	ok, err := bls12381.PairingCheck(ps, qs)
	return err == nil && ok
}

func augmentedHash(pk PublicKey, msg []byte) bls12381.G2Affine {
	b := pk.Bytes()
	data := make([]byte, 0, len(b)+len(msg))
	data = append(data, b[:]...)
	data = append(data, msg...)
	h, err := bls12381.HashToG2(data, augSchemeDST)
	if err != nil {
		panic("logic error: hash to curve with a fixed tag failed: " + err.Error())
	}
	return h
}
