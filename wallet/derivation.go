// SPDX-License-Identifier: Apache-2.0

package wallet

import (
	"perun.network/perun-chia-backend/bls"
)

// Derivation path prefix of wallet keys, [12381, 8444, 2, index].
const (
	PathPurpose  uint32 = 12381
	PathCoinType uint32 = 8444
	PathUse      uint32 = 2
)

// Path returns the full derivation path of the key at index.
func Path(index uint32) []uint32 {
	return []uint32{PathPurpose, PathCoinType, PathUse, index}
}

// KeyPair is a public key with an optional private key. Pairs without a
// private key are observers, they can only derive unhardened children.
type KeyPair struct {
	PublicKey  bls.PublicKey
	PrivateKey *bls.PrivateKey
}

// NewKeyPair returns the pair of sk.
func NewKeyPair(sk bls.PrivateKey) KeyPair {
	return KeyPair{PublicKey: sk.PublicKey(), PrivateKey: &sk}
}

// ObserverKeyPair returns a pair holding only pk.
func ObserverKeyPair(pk bls.PublicKey) KeyPair {
	return KeyPair{PublicKey: pk}
}

// IsObserver reports whether the pair lacks a private key.
func (k KeyPair) IsObserver() bool {
	return k.PrivateKey == nil
}

// Derive walks Path(index) from master. Hardened derivation needs the
// private key, unhardened derivation keeps the child linkable to the
// master public key.
func Derive(master KeyPair, index uint32, hardened bool) (KeyPair, error) {
	if hardened && master.IsObserver() {
		return KeyPair{}, ErrPrivateKeyRequired
	}

	if master.IsObserver() {
		return ObserverKeyPair(DeriveParent(master.PublicKey, index)), nil
	}

	sk := *master.PrivateKey
	for _, i := range Path(index) {
		if hardened {
			sk = bls.DeriveChildSk(sk, i)
		} else {
			sk = bls.DeriveChildSkUnhardened(sk, i)
		}
	}
	return NewKeyPair(sk), nil
}

// DeriveParent derives the unhardened public key at index from the master
// public key alone.
func DeriveParent(master bls.PublicKey, index uint32) bls.PublicKey {
	pk := master
	for _, i := range Path(index) {
		pk = bls.DeriveChildPkUnhardened(pk, i)
	}
	return pk
}
