// SPDX-License-Identifier: Apache-2.0

package wire_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pwire "perun.network/go-perun/wire"
	wiretest "perun.network/go-perun/wire/test"
	ptest "polycry.pt/poly-go/test"

	"perun.network/perun-chia-backend/wallet"
	"perun.network/perun-chia-backend/wire"
)

func TestAddress(t *testing.T) {
	wiretest.TestAddressImplementation(t,
		func() pwire.Address { return wire.NewAddress() },
		func(rng *rand.Rand) pwire.Address { return wire.NewRandomAddress(rng) })
}

func TestAsAddress(t *testing.T) {
	rng := ptest.Prng(t)
	addr := wire.NewRandomAddress(rng)
	require.NotNil(t, addr)

	same := wire.AsAddress(addr.PublicKey())
	assert.True(t, addr.Equal(same))
	assert.Zero(t, addr.Cmp(same))

	data, err := same.MarshalBinary()
	require.NoError(t, err)
	decoded := pwire.NewAddress()
	require.NoError(t, decoded.UnmarshalBinary(data))
	assert.True(t, decoded.Equal(addr))

	var other wallet.Address
	assert.False(t, addr.Equal(otherAddress{&other}))
}

// otherAddress is an address of a foreign wire backend.
type otherAddress struct {
	*wallet.Address
}

func (otherAddress) Equal(pwire.Address) bool { return false }
func (otherAddress) Cmp(pwire.Address) int    { return 0 }
