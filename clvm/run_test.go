// SPDX-License-Identifier: Apache-2.0

package clvm_test

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perun.network/perun-chia-backend/clvm"
)

func q(p *clvm.Program) *clvm.Program {
	return clvm.Cons(clvm.One, p)
}

func op(code byte, args ...*clvm.Program) *clvm.Program {
	return clvm.List(append([]*clvm.Program{clvm.Atom([]byte{code})}, args...)...)
}

func qi(v int64) *clvm.Program {
	return q(clvm.Int64(v))
}

func runInt(t *testing.T, prog *clvm.Program) int64 {
	t.Helper()
	r, err := prog.Run(clvm.Nil)
	require.NoError(t, err)
	v, err := r.AsInt()
	require.NoError(t, err)
	return v.Int64()
}

func TestRunQuoteAndPath(t *testing.T) {
	env := clvm.List(clvm.Int64(10), clvm.Int64(20), clvm.Int64(30))

	cases := []struct {
		path []byte
		want *clvm.Program
	}{
		{[]byte{}, clvm.Nil},
		{[]byte{0}, clvm.Nil},
		{[]byte{1}, env},
		{[]byte{2}, clvm.Int64(10)},
		{[]byte{5}, clvm.Int64(20)},
		{[]byte{11}, clvm.Int64(30)},
		{[]byte{0, 5}, clvm.Int64(20)},
	}
	for _, c := range cases {
		r, err := clvm.Atom(c.path).Run(env)
		require.NoError(t, err, "path %x", c.path)
		assert.True(t, r.Equal(c.want), "path %x", c.path)
	}

	_, err := clvm.Atom([]byte{4}).Run(clvm.Int64(1))
	assert.ErrorIs(t, err, clvm.ErrEval)

	r, err := q(env).Run(clvm.Nil)
	require.NoError(t, err)
	assert.True(t, r.Equal(env))
}

func TestRunArithmetic(t *testing.T) {
	assert.Equal(t, int64(5), runInt(t, op(16, qi(2), qi(3))))
	assert.Equal(t, int64(0), runInt(t, op(16)))
	assert.Equal(t, int64(-1), runInt(t, op(17, qi(2), qi(3))))
	assert.Equal(t, int64(24), runInt(t, op(18, qi(2), qi(3), qi(4))))
	assert.Equal(t, int64(1), runInt(t, op(18)))
	assert.Equal(t, int64(-4), runInt(t, op(19, qi(-7), qi(2))))
	assert.Equal(t, int64(3), runInt(t, op(19, qi(7), qi(2))))
	assert.Equal(t, int64(1), runInt(t, op(61, qi(-7), qi(2))))
	assert.Equal(t, int64(-1), runInt(t, op(61, qi(7), qi(-2))))
	assert.Equal(t, int64(-8), runInt(t, op(22, qi(-1), qi(3))))
	assert.Equal(t, int64(-2), runInt(t, op(22, qi(-8), qi(-2))))
	assert.Equal(t, int64(0x1fe), runInt(t, op(23, q(clvm.Atom([]byte{0xff})), qi(1))))
	assert.Equal(t, int64(4), runInt(t, op(24, qi(12), qi(6))))
	assert.Equal(t, int64(14), runInt(t, op(25, qi(12), qi(6))))
	assert.Equal(t, int64(10), runInt(t, op(26, qi(12), qi(6))))
	assert.Equal(t, int64(-13), runInt(t, op(27, qi(12))))
	assert.Equal(t, int64(4), runInt(t, op(60, qi(2), qi(10), qi(1020))))
	assert.Equal(t, int64(3), runInt(t, op(13, q(clvm.Atom([]byte("abc"))))))

	r, err := op(20, qi(-7), qi(2)).Run(clvm.Nil)
	require.NoError(t, err)
	assert.True(t, r.Equal(clvm.Cons(clvm.Int64(-4), clvm.Int64(1))))

	_, err = op(19, qi(1), qi(0)).Run(clvm.Nil)
	assert.ErrorIs(t, err, clvm.ErrEval)
}

func TestRunLogic(t *testing.T) {
	assert.Equal(t, int64(10), runInt(t, op(3, qi(1), qi(10), qi(20))))
	assert.Equal(t, int64(20), runInt(t, op(3, q(clvm.Nil), qi(10), qi(20))))
	assert.Equal(t, int64(1), runInt(t, op(9, qi(7), qi(7))))
	assert.Equal(t, int64(0), runInt(t, op(9, qi(7), qi(8))))
	assert.Equal(t, int64(1), runInt(t, op(21, qi(3), qi(-3))))
	assert.Equal(t, int64(1), runInt(t, op(10, q(clvm.Atom([]byte{2})), q(clvm.Atom([]byte{1, 0})))))
	assert.Equal(t, int64(1), runInt(t, op(32, q(clvm.Nil))))
	assert.Equal(t, int64(1), runInt(t, op(33, q(clvm.Nil), qi(1))))
	assert.Equal(t, int64(0), runInt(t, op(34, q(clvm.Nil), qi(1))))
	assert.Equal(t, int64(1), runInt(t, op(7, q(clvm.List(clvm.One)))))
}

func TestRunLists(t *testing.T) {
	pair := op(4, qi(1), qi(2))
	r, err := pair.Run(clvm.Nil)
	require.NoError(t, err)
	assert.True(t, r.Equal(clvm.Cons(clvm.Int64(1), clvm.Int64(2))))

	assert.Equal(t, int64(1), runInt(t, op(5, pair)))
	assert.Equal(t, int64(2), runInt(t, op(6, pair)))

	_, err = op(5, qi(1)).Run(clvm.Nil)
	assert.ErrorIs(t, err, clvm.ErrEval)
}

func TestRunBytes(t *testing.T) {
	abc := q(clvm.Atom([]byte("abc")))

	r, err := op(11, abc).Run(clvm.Nil)
	require.NoError(t, err)
	digest, _ := r.Atom()
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", hex.EncodeToString(digest))

	r, err = op(14, abc, abc).Run(clvm.Nil)
	require.NoError(t, err)
	cat, _ := r.Atom()
	assert.Equal(t, "abcabc", string(cat))

	r, err = op(12, abc, qi(1)).Run(clvm.Nil)
	require.NoError(t, err)
	sub, _ := r.Atom()
	assert.Equal(t, "bc", string(sub))

	r, err = op(12, abc, qi(0), qi(2)).Run(clvm.Nil)
	require.NoError(t, err)
	sub, _ = r.Atom()
	assert.Equal(t, "ab", string(sub))

	_, err = op(12, abc, qi(2), qi(4)).Run(clvm.Nil)
	assert.ErrorIs(t, err, clvm.ErrEval)
}

func TestRunPoints(t *testing.T) {
	r, err := op(30, qi(1)).Run(clvm.Nil)
	require.NoError(t, err)
	g, _ := r.Atom()
	assert.Equal(t, "97f1d3a73197d7942695638c4fa9ac0fc3688c4f9774b905a14e3a3f171bac586c55e83ff97a1aeffb3af00adb22c6bb", hex.EncodeToString(g))

	twice, err := op(29, op(30, qi(1)), op(30, qi(1))).Run(clvm.Nil)
	require.NoError(t, err)
	two, err := op(30, qi(2)).Run(clvm.Nil)
	require.NoError(t, err)
	assert.True(t, twice.Equal(two))

	_, err = op(29, qi(1)).Run(clvm.Nil)
	assert.ErrorIs(t, err, clvm.ErrEval)
}

func TestRunCoinID(t *testing.T) {
	parent := make([]byte, 32)
	for i := range parent {
		parent[i] = 0x11
	}
	puzzleHash, _ := hex.DecodeString("792931431ba2976e36e3abc0b35c811948536bcf77f39a8d99ec2a15af0e84bc")

	r, err := op(48, q(clvm.Atom(parent)), q(clvm.Atom(puzzleHash)), q(clvm.Uint64(1750000000000))).Run(clvm.Nil)
	require.NoError(t, err)
	id, _ := r.Atom()
	assert.Equal(t, "afe6d6aec55d4cab0961920e46129e2aa07d451a62d78b7795ba6e493689a7e8", hex.EncodeToString(id))

	_, err = op(48, q(clvm.Atom(parent)), q(clvm.Atom(puzzleHash)), q(clvm.Atom([]byte{0, 1}))).Run(clvm.Nil)
	assert.ErrorIs(t, err, clvm.ErrEval)
}

func TestRunRaise(t *testing.T) {
	_, err := op(8, qi(7)).Run(clvm.Nil)
	require.ErrorIs(t, err, clvm.ErrEval)
	var evalErr *clvm.EvalError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, "clvm raise", evalErr.Reason)

	_, err = clvm.MustDeserializeHex("ff0980").Run(clvm.Nil)
	assert.ErrorIs(t, err, clvm.ErrEval)

	_, err = op(99, qi(1)).Run(clvm.Nil)
	assert.ErrorIs(t, err, clvm.ErrEval)
}

func TestRunCost(t *testing.T) {
	prog := op(16, qi(2), qi(3))
	_, cost, err := prog.RunWithCost(clvm.Nil, clvm.DefaultMaxCost)
	require.NoError(t, err)
	assert.Greater(t, cost, uint64(0))

	_, _, err = prog.RunWithCost(clvm.Nil, cost-1)
	assert.ErrorIs(t, err, clvm.ErrCostExceeded)

	// (a 1 1) applied to itself loops until the budget runs out.
	loop := op(2, clvm.One, clvm.One)
	_, _, err = loop.RunWithCost(loop, 100000)
	assert.ErrorIs(t, err, clvm.ErrCostExceeded)
}

func TestRunApply(t *testing.T) {
	// (a (q . (+ 2 5)) (q . (3 4)))
	body := op(16, clvm.Atom([]byte{2}), clvm.Atom([]byte{5}))
	prog := op(2, q(body), q(clvm.List(clvm.Int64(3), clvm.Int64(4))))
	assert.Equal(t, int64(7), runInt(t, prog))
}

func TestCurry(t *testing.T) {
	// (+ 2 5) sums the curried argument and the first solution item.
	mod := op(16, clvm.Atom([]byte{2}), clvm.Atom([]byte{5}))
	curried := mod.Curry(clvm.Int64(7))

	r, err := curried.Run(clvm.List(clvm.Int64(3)))
	require.NoError(t, err)
	v, _ := r.AsInt()
	assert.Zero(t, big.NewInt(10).Cmp(v))

	gotMod, args, ok := curried.Uncurry()
	require.True(t, ok)
	assert.True(t, gotMod.Equal(mod))
	require.Len(t, args, 1)
	assert.True(t, args[0].Equal(clvm.Int64(7)))

	_, _, ok = mod.Uncurry()
	assert.False(t, ok)
}

func TestCurriedTreeHash(t *testing.T) {
	mod := clvm.MustDeserializeHex(standardHex)
	args := []*clvm.Program{
		clvm.Atom(make([]byte, 48)),
		clvm.List(clvm.Int64(1), clvm.Int64(2)),
		clvm.Nil,
	}
	for n := 0; n <= len(args); n++ {
		curried := mod.Curry(args[:n]...)
		hashes := make([]clvm.Bytes32, n)
		for i, a := range args[:n] {
			hashes[i] = a.TreeHash()
		}
		assert.Equal(t, curried.TreeHash(), clvm.CurriedTreeHash(mod.TreeHash(), hashes...), "%d args", n)
	}
}

func TestRunPayToConditions(t *testing.T) {
	conditions := clvm.List(clvm.List(clvm.Int64(51), clvm.Atom(make([]byte, 32)), clvm.Int64(1000)))
	p2 := clvm.MustDeserializeHex(p2ConditionsH)

	r, err := p2.Run(clvm.List(conditions))
	require.NoError(t, err)
	assert.True(t, r.Equal(q(conditions)))

	out, err := r.Run(clvm.Nil)
	require.NoError(t, err)
	assert.True(t, out.Equal(conditions))
}
