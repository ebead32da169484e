// SPDX-License-Identifier: Apache-2.0

package test

import (
	cr "crypto/rand"
	"math/rand"

	pwallet "perun.network/go-perun/wallet"
	ptest "perun.network/go-perun/wallet/test"

	"perun.network/perun-chia-backend/bls"
	"perun.network/perun-chia-backend/wallet"
)

// Randomizer implements the wallet/test.Randomizer interface.
type Randomizer struct {
	wallet *wallet.Keychain
}

var _ ptest.Randomizer = (*Randomizer)(nil)

// NewRandomizer returns a new Randomizer.
func NewRandomizer() *Randomizer {
	return &Randomizer{NewWallet()}
}

// NewWallet creates a keychain from a fresh random master key.
func NewWallet() *wallet.Keychain {
	seed := make([]byte, bls.MinSeedLen)
	if _, err := cr.Read(seed); err != nil {
		panic("NewWallet: failed to read seed: " + err.Error())
	}
	master, err := bls.KeyGen(seed)
	if err != nil {
		panic("NewWallet: failed to create master key: " + err.Error())
	}
	return wallet.NewKeychain(master, false)
}

func (r *Randomizer) NewWallet() ptest.Wallet {
	return NewWallet()
}

func (r *Randomizer) RandomWallet() ptest.Wallet {
	return r.wallet
}

// NewRandomAccount opens an account at a random index of the randomizer's
// wallet.
func (r *Randomizer) NewRandomAccount(rng *rand.Rand) pwallet.Account {
	return r.wallet.NewRandomAccount(rng)
}

// NewRandomAddress returns the address of a new random account.
func (r *Randomizer) NewRandomAddress(rng *rand.Rand) pwallet.Address {
	return r.NewRandomAccount(rng).Address()
}
