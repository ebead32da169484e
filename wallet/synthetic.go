// SPDX-License-Identifier: Apache-2.0

package wallet

import (
	"crypto/sha256"
	"math/big"

	"perun.network/perun-chia-backend/bls"
	"perun.network/perun-chia-backend/clvm"
	"perun.network/perun-chia-backend/puzzles"
)

// DefaultHiddenPuzzleHash is the tree hash of the always failing hidden
// puzzle committed to by standard wallets.
var DefaultHiddenPuzzleHash = puzzles.DefaultHiddenPuzzle.Hash()

var twoTo256 = new(big.Int).Lsh(big.NewInt(1), 256)

// SyntheticOffset returns sha256(pk ‖ hiddenPuzzleHash) mod the group
// order. The digest is read as a signed big endian integer, as
// pubkey_for_exp does.
func SyntheticOffset(pk bls.PublicKey, hiddenPuzzleHash clvm.Bytes32) *big.Int {
	raw := pk.Bytes()
	h := sha256.New()
	h.Write(raw[:])
	h.Write(hiddenPuzzleHash[:])
	digest := h.Sum(nil)

	v := new(big.Int).SetBytes(digest)
	if digest[0]&0x80 != 0 {
		v.Sub(v, twoTo256)
	}
	return v.Mod(v, bls.GroupOrder())
}

// SyntheticPublicKey runs the synthetic key puzzle on pk and
// hiddenPuzzleHash.
func SyntheticPublicKey(pk bls.PublicKey, hiddenPuzzleHash clvm.Bytes32) (bls.PublicKey, error) {
	raw := pk.Bytes()
	env := clvm.List(clvm.Atom(raw[:]), clvm.Atom(hiddenPuzzleHash[:]))
	out, err := puzzles.SyntheticPublicKeyTemplate.Program().Run(env)
	if err != nil {
		return bls.PublicKey{}, withKind(ErrInterpreter, err, "calculating synthetic key")
	}
	atom, err := out.Atom()
	if err != nil {
		return bls.PublicKey{}, withKind(ErrInterpreter, err, "synthetic key")
	}
	synthetic, err := bls.PublicKeyFromBytes(atom)
	if err != nil {
		return bls.PublicKey{}, withKind(ErrInterpreter, err, "synthetic key")
	}
	return synthetic, nil
}

// CalculateSyntheticPublicKey returns pk + G1·SyntheticOffset without the
// interpreter.
func CalculateSyntheticPublicKey(pk bls.PublicKey, hiddenPuzzleHash clvm.Bytes32) bls.PublicKey {
	return pk.Add(bls.PublicKeyFromScalar(SyntheticOffset(pk, hiddenPuzzleHash)))
}

// SyntheticPrivateKey returns the private key of the synthetic public key
// of sk.
func SyntheticPrivateKey(sk bls.PrivateKey, hiddenPuzzleHash clvm.Bytes32) bls.PrivateKey {
	offset := SyntheticOffset(sk.PublicKey(), hiddenPuzzleHash)
	return bls.PrivateKeyFromInt(new(big.Int).Add(sk.Int(), offset))
}
