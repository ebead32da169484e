// SPDX-License-Identifier: Apache-2.0

package wallet

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"perun.network/go-perun/wallet/test"
	ptest "polycry.pt/poly-go/test"

	"perun.network/perun-chia-backend/bls"
)

func randomMaster(rng *rand.Rand) bls.PrivateKey {
	seed := make([]byte, bls.MinSeedLen)
	rng.Read(seed)
	sk, err := bls.KeyGen(seed)
	if err != nil {
		panic(err)
	}
	return sk
}

func setup(rng *rand.Rand) *test.Setup {
	w := NewKeychain(randomMaster(rng), false)
	marshalledAddr, err := NewKeychain(randomMaster(rng), false).NewAccount().Address().MarshalBinary()
	if err != nil {
		panic(err)
	}
	data := make([]byte, 128)
	rng.Read(data)
	var zero Address
	return &test.Setup{
		Backend:           Backend{},
		Wallet:            w,
		AddressInWallet:   w.NewAccount().Address(),
		ZeroAddress:       &zero,
		DataToSign:        data,
		AddressMarshalled: marshalledAddr,
	}
}

func TestAddress(t *testing.T) {
	test.TestAddress(t, setup(ptest.Prng(t)))
}

func TestGenericSignatureSize(t *testing.T) {
	test.GenericSignatureSizeTest(t, setup(ptest.Prng(t)))
}

func TestAccountWithWalletAndBackend(t *testing.T) {
	test.TestAccountWithWalletAndBackend(t, setup(ptest.Prng(t)))
}

func TestAddressEncoding(t *testing.T) {
	rng := ptest.Prng(t)
	acc := NewKeychain(randomMaster(rng), false).NewAccount()
	addr := acc.L2Address()

	data, err := addr.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, data, bls.PublicKeyLen)
	assert.Equal(t, "0x"+addr.PublicKey().String(), addr.String())

	var back Address
	require.NoError(t, back.UnmarshalBinary(data))
	assert.True(t, addr.Equal(&back))
	assert.Zero(t, addr.Cmp(&back))

	assert.Error(t, back.UnmarshalBinary(data[1:]))
	var zero Address
	assert.Positive(t, addr.Cmp(&zero))
	assert.Negative(t, zero.Cmp(&addr))
	assert.Zero(t, zero.Cmp(&zero))
}

func TestBackendRejectsMalformedSignatures(t *testing.T) {
	rng := ptest.Prng(t)
	acc := NewKeychain(randomMaster(rng), false).NewAccount()
	sig, err := acc.SignData([]byte("data"))
	require.NoError(t, err)
	require.Len(t, sig, bls.SignatureLen)

	ok, err := Backend{}.VerifySignature([]byte("data"), sig[:len(sig)-1], acc.Address())
	assert.False(t, ok)
	assert.Error(t, err)

	ok, err = Backend{}.VerifySignature([]byte("other"), sig, acc.Address())
	assert.False(t, ok)
	assert.NoError(t, err)
}

func TestKeychainUsage(t *testing.T) {
	rng := ptest.Prng(t)
	k := NewKeychain(randomMaster(rng), false)

	acc := k.NewAccount()
	assert.Equal(t, uint32(0), acc.Index())
	assert.Equal(t, uint32(1), k.NewAccount().Index())
	addr := acc.Address()

	k.LockAll()
	unlocked, err := k.Unlock(addr)
	require.NoError(t, err, "locked accounts are derived again")
	assert.True(t, addr.Equal(unlocked.Address()))

	k.IncrementUsage(addr)
	k.IncrementUsage(addr)
	k.DecrementUsage(addr)
	_, err = k.Unlock(addr)
	require.NoError(t, err)

	k.DecrementUsage(addr)
	_, err = k.Unlock(addr)
	assert.ErrorIs(t, err, ErrAccountNotFound)

	reopened := k.Open(0)
	assert.True(t, addr.Equal(reopened.Address()))
	assert.Equal(t, uint32(2), k.NewAccount().Index())
}

func TestKeychainKeyTable(t *testing.T) {
	rng := ptest.Prng(t)
	k := NewKeychain(randomMaster(rng), false)
	acc := k.Open(7)

	table := k.KeyTable()
	assert.Len(t, table, 2)

	pk := acc.L2Address().PublicKey()
	sk, ok := table.Lookup(pk)
	require.True(t, ok)
	assert.True(t, pk.Equal(sk.PublicKey()))

	w, err := k.Wallet(7)
	require.NoError(t, err)
	assert.True(t, pk.Equal(w.PublicKey()))
	synthetic, ok := table.Lookup(w.SyntheticPublicKey())
	require.True(t, ok)
	assert.True(t, w.SyntheticPublicKey().Equal(synthetic.PublicKey()))
}
