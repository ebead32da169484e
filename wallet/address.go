// SPDX-License-Identifier: Apache-2.0

package wallet

import (
	"bytes"

	"perun.network/go-perun/wallet"

	"perun.network/perun-chia-backend/bls"
)

// Address is a BLS public key identifying a participant.
type Address bls.PublicKey

var _ wallet.Address = (*Address)(nil)

// AsAddress wraps pk.
func AsAddress(pk bls.PublicKey) *Address {
	a := Address(pk)
	return &a
}

// PublicKey returns the key behind the address.
func (a Address) PublicKey() bls.PublicKey {
	return bls.PublicKey(a)
}

func (a Address) bytes() [bls.PublicKeyLen]byte {
	return bls.PublicKey(a).Bytes()
}

// MarshalBinary returns the 48 byte compressed public key.
func (a Address) MarshalBinary() ([]byte, error) {
	b := a.bytes()
	return b[:], nil
}

// UnmarshalBinary parses a compressed public key.
func (a *Address) UnmarshalBinary(data []byte) error {
	pk, err := bls.PublicKeyFromBytes(data)
	if err != nil {
		return err
	}
	*a = Address(pk)
	return nil
}

func (a Address) String() string {
	return "0x" + bls.PublicKey(a).String()
}

func (a Address) Equal(b wallet.Address) bool {
	return bls.PublicKey(a).Equal(bls.PublicKey(*b.(*Address)))
}

// Cmp orders addresses by their compressed encoding. The identity key sorts
// before every other key.
func (a Address) Cmp(b wallet.Address) int {
	bb := b.(*Address)
	ai, bi := a.PublicKey().IsIdentity(), bb.PublicKey().IsIdentity()
	switch {
	case ai && bi:
		return 0
	case ai:
		return -1
	case bi:
		return 1
	}
	x, y := a.bytes(), bb.bytes()
	return bytes.Compare(x[:], y[:])
}
