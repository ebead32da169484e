// SPDX-License-Identifier: Apache-2.0

package wallet

import (
	"perun.network/go-perun/wallet"

	"perun.network/perun-chia-backend/bls"
)

// Account is a derived BLS private key. It signs messages for a perun
// off-chain identity.
type Account struct {
	index uint32
	sk    bls.PrivateKey
}

var _ wallet.Account = (*Account)(nil)

// NewAccount wraps the key derived at index.
func NewAccount(index uint32, sk bls.PrivateKey) *Account {
	return &Account{index: index, sk: sk}
}

func (a *Account) Address() wallet.Address {
	return AsAddress(a.sk.PublicKey())
}

// L2Address returns the address as its concrete type.
func (a *Account) L2Address() Address {
	return Address(a.sk.PublicKey())
}

// Index returns the derivation index of the key.
func (a *Account) Index() uint32 {
	return a.index
}

// KeyPair returns the key pair of the account.
func (a *Account) KeyPair() KeyPair {
	return NewKeyPair(a.sk)
}

// SignData signs data with the augmented scheme. The signature is the 96
// byte compressed G2 point.
func (a *Account) SignData(data []byte) ([]byte, error) {
	sig := bls.Sign(a.sk, data).Bytes()
	return sig[:], nil
}

func (a *Account) clear() {
	for i := range a.sk {
		a.sk[i] = 0
	}
}
