// SPDX-License-Identifier: Apache-2.0

package wallet

import (
	"perun.network/perun-chia-backend/bls"
)

// KeyTable maps compressed public keys to their private keys.
type KeyTable map[[bls.PublicKeyLen]byte]bls.PrivateKey

// NewKeyTable returns a table holding keys.
func NewKeyTable(keys ...bls.PrivateKey) KeyTable {
	t := make(KeyTable, len(keys))
	for _, sk := range keys {
		t.Add(sk)
	}
	return t
}

// Add stores sk under its public key.
func (t KeyTable) Add(sk bls.PrivateKey) {
	t[sk.PublicKey().Bytes()] = sk
}

// Lookup returns the private key of pk.
func (t KeyTable) Lookup(pk bls.PublicKey) (bls.PrivateKey, bool) {
	sk, ok := t[pk.Bytes()]
	return sk, ok
}

// Clone returns a copy of the table. Cloning nil gives an empty table.
func (t KeyTable) Clone() KeyTable {
	c := make(KeyTable, len(t)+1)
	for pk, sk := range t {
		c[pk] = sk
	}
	return c
}
