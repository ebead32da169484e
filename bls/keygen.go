// SPDX-License-Identifier: Apache-2.0

package bls

import (
	"crypto/sha256"
	"encoding/binary"
	"io"
	"math/big"

	"golang.org/x/crypto/hkdf"
)

const (
	// MinSeedLen is the minimal seed length accepted by KeyGen.
	MinSeedLen = 32

	keyGenOkmLen = 48
	lamportLen   = 255
)

var keyGenSalt = []byte("BLS-SIG-KEYGEN-SALT-")

// KeyGen derives a master private key from seed material as specified by
// EIP-2333 and implemented by the Chia BLS library.
func KeyGen(seed []byte) (PrivateKey, error) {
	if len(seed) < MinSeedLen {
		return PrivateKey{}, ErrSeedTooShort
	}
	return keyGen(seed), nil
}

func keyGen(seed []byte) PrivateKey {
	ikm := make([]byte, len(seed)+1)
	copy(ikm, seed)
	info := []byte{0, keyGenOkmLen}

	salt := keyGenSalt
	for {
		okm := make([]byte, keyGenOkmLen)
		if _, err := io.ReadFull(hkdf.New(sha256.New, ikm, salt, info), okm); err != nil {
			panic("logic error: hkdf output length is in range: " + err.Error())
		}
		sk := new(big.Int).SetBytes(okm)
		sk.Mod(sk, order)
		if sk.Sign() != 0 {
			return PrivateKeyFromInt(sk)
		}
		h := sha256.Sum256(salt)
		salt = h[:]
	}
}

// DeriveChildSk performs hardened child derivation through the Lamport
// construction of EIP-2333. The child is not linkable to the parent public
// key.
func DeriveChildSk(parent PrivateKey, index uint32) PrivateKey {
	var salt [4]byte
	binary.BigEndian.PutUint32(salt[:], index)

	ikm := parent.Bytes()
	notIkm := make([]byte, len(ikm))
	for i, b := range ikm {
		notIkm[i] = ^b
	}

	lamportPk := sha256.New()
	for _, secret := range [][]byte{ikm, notIkm} {
		chunks := make([]byte, lamportLen*sha256.Size)
		if _, err := io.ReadFull(hkdf.New(sha256.New, secret, salt[:], nil), chunks); err != nil {
			panic("logic error: hkdf output length is in range: " + err.Error())
		}
		for i := 0; i < lamportLen; i++ {
			h := sha256.Sum256(chunks[i*sha256.Size : (i+1)*sha256.Size])
			lamportPk.Write(h[:])
		}
	}
	return keyGen(lamportPk.Sum(nil))
}

// DeriveChildSkUnhardened performs unhardened child derivation. The child
// public key equals DeriveChildPkUnhardened of the parent public key.
func DeriveChildSkUnhardened(parent PrivateKey, index uint32) PrivateKey {
	tweak := unhardenedTweak(parent.PublicKey(), index)
	return PrivateKeyFromInt(tweak.Add(tweak, parent.Int()))
}

// DeriveChildPkUnhardened derives the child public key without knowledge of
// the private key.
func DeriveChildPkUnhardened(parent PublicKey, index uint32) PublicKey {
	return parent.Add(PublicKeyFromScalar(unhardenedTweak(parent, index)))
}

func unhardenedTweak(parent PublicKey, index uint32) *big.Int {
	pk := parent.Bytes()
	var idx [4]byte
	binary.BigEndian.PutUint32(idx[:], index)
	h := sha256.New()
	h.Write(pk[:])
	h.Write(idx[:])
	return new(big.Int).SetBytes(h.Sum(nil))
}
