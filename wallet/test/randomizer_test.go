// SPDX-License-Identifier: Apache-2.0

package test_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	pkgtest "polycry.pt/poly-go/test"

	test "perun.network/perun-chia-backend/wallet/test"
)

func TestRandomizer_RandomAddress(t *testing.T) {
	rng := pkgtest.Prng(t)
	r := test.NewRandomizer()
	addr := r.NewRandomAddress(rng)

	for i := 0; i < 100; i++ {
		addr2 := r.NewRandomAddress(rng)
		require.False(t, addr.Equal(addr2))
	}
}

func TestRandomizer_AccountsAreUnlocked(t *testing.T) {
	rng := pkgtest.Prng(t)
	r := test.NewRandomizer()
	acc := r.NewRandomAccount(rng)

	unlocked, err := r.RandomWallet().Unlock(acc.Address())
	require.NoError(t, err)
	require.True(t, acc.Address().Equal(unlocked.Address()))

	_, err = r.NewWallet().Unlock(acc.Address())
	require.Error(t, err)
}
