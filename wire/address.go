// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"math/rand"

	"perun.network/go-perun/wire"

	"perun.network/perun-chia-backend/bls"
	"perun.network/perun-chia-backend/wallet"
	"perun.network/perun-chia-backend/wallet/test"
)

func init() {
	wire.SetNewAddressFunc(func() wire.Address { return NewAddress() })
}

// Address identifies a peer by the BLS public key of one of its accounts.
type Address struct {
	*wallet.Address
}

var _ wire.Address = (*Address)(nil)

// NewAddress returns the zero address, ready for unmarshalling.
func NewAddress() *Address {
	return &Address{new(wallet.Address)}
}

// AsAddress returns the peer address of pk.
func AsAddress(pk bls.PublicKey) *Address {
	return &Address{wallet.AsAddress(pk)}
}

// Equal returns whether the two addresses are equal. Addresses of other
// wire backends are never equal.
func (a Address) Equal(b wire.Address) bool {
	bTyped, ok := b.(*Address)
	if !ok {
		return false
	}
	return a.Address.Equal(bTyped.Address)
}

// Cmp compares the byte representation of two addresses. For `a.Cmp(b)`
// returns -1 if a < b, 0 if a == b, 1 if a > b.
func (a Address) Cmp(b wire.Address) int {
	bTyped, ok := b.(*Address)
	if !ok {
		panic("wrong type")
	}
	return a.Address.Cmp(bTyped.Address)
}

// NewRandomAddress returns a new random peer address.
func NewRandomAddress(rng *rand.Rand) *Address {
	addr, ok := test.NewRandomizer().NewRandomAddress(rng).(*wallet.Address)
	if !ok {
		return nil
	}
	return &Address{addr}
}
