// SPDX-License-Identifier: Apache-2.0

package clvm_test

import (
	"bytes"
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ptest "polycry.pt/poly-go/test"

	"perun.network/perun-chia-backend/clvm"
)

const (
	alwaysFailHex = "ff0980"
	syntheticHex  = "ff1dff02ffff1effff0bff02ff05808080"
	p2ConditionsH = "ff04ffff0101ff0280"
	standardHex   = "ff02ffff01ff02ffff03ff0bffff01ff02ffff03ffff09ff05ffff1dff0bffff1effff0bff0bffff02ff06ffff04ff02ffff04ff17ff8080808080808080ffff01ff02ff17ff2f80ffff01ff088080ff0180ffff01ff04ffff04ff04ffff04ff05ffff04ffff02ff06ffff04ff02ffff04ff17ff80808080ff80808080ffff02ff17ff2f808080ff0180ffff04ffff01ff32ff02ffff03ffff07ff0580ffff01ff0bffff0102ffff02ff06ffff04ff02ffff04ff09ff80808080ffff02ff06ffff04ff02ffff04ff0dff8080808080ffff01ff0bffff0101ff058080ff0180ff018080"
)

func TestIntEncoding(t *testing.T) {
	cases := []struct {
		v   int64
		hex string
	}{
		{0, ""},
		{1, "01"},
		{127, "7f"},
		{128, "0080"},
		{255, "00ff"},
		{256, "0100"},
		{65535, "00ffff"},
		{-1, "ff"},
		{-128, "80"},
		{-129, "ff7f"},
		{-256, "ff00"},
		{-65536, "ff0000"},
	}
	for _, c := range cases {
		p := clvm.Int64(c.v)
		a, err := p.Atom()
		require.NoError(t, err)
		assert.Equal(t, c.hex, hex.EncodeToString(a), "encode %d", c.v)

		v, err := p.AsInt()
		require.NoError(t, err)
		assert.Equal(t, c.v, v.Int64(), "decode %s", c.hex)
	}

	assert.Equal(t, "01977420dc00", hex.EncodeToString(clvm.EncodeUint64(1750000000000)))
	assert.Equal(t, "00ffffffffffffffff", hex.EncodeToString(clvm.EncodeUint64(^uint64(0))))
}

func TestIntRoundTrip(t *testing.T) {
	rng := ptest.Prng(t)
	for i := 0; i < 256; i++ {
		buf := make([]byte, rng.Intn(40))
		rng.Read(buf)
		v := new(big.Int).SetBytes(buf)
		if rng.Intn(2) == 0 {
			v.Neg(v)
		}
		got, err := clvm.Int(v).AsInt()
		require.NoError(t, err)
		require.Zero(t, v.Cmp(got), "value %s", v)
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	for _, h := range []string{alwaysFailHex, syntheticHex, p2ConditionsH, standardHex, "80", "01", "8180"} {
		p, err := clvm.DeserializeHex(h)
		require.NoError(t, err, h)
		assert.Equal(t, h, p.String())
	}
}

func TestSerializeAtomSizes(t *testing.T) {
	for _, n := range []int{0, 1, 2, 0x3f, 0x40, 0x1fff, 0x2000, 0x10000, 0x100000} {
		atom := bytes.Repeat([]byte{0xaa}, n)
		enc := clvm.Atom(atom).Serialize()
		p, err := clvm.Deserialize(enc)
		require.NoError(t, err, "size %d", n)
		got, err := p.Atom()
		require.NoError(t, err)
		require.Equal(t, atom, got, "size %d", n)
	}

	assert.Equal(t, []byte{0x80}, clvm.Nil.Serialize())
	assert.Equal(t, []byte{0x7f}, clvm.Atom([]byte{0x7f}).Serialize())
	assert.Equal(t, []byte{0x81, 0x80}, clvm.Atom([]byte{0x80}).Serialize())
	assert.Equal(t, []byte{0xc0, 0x40}, clvm.Atom(make([]byte, 0x40)).Serialize()[:2])
}

func TestDeserializeErrors(t *testing.T) {
	for _, h := range []string{"", "ff", "ff01", "8201", "fe", "fe02", "ff01fe04", "ff01fe8201", "0101", "zz"} {
		_, err := clvm.DeserializeHex(h)
		assert.ErrorIs(t, err, clvm.ErrInvalidEncoding, h)
	}
}

func TestDeserializeBackReferences(t *testing.T) {
	cases := map[string]string{
		"ff83616263fe02": "ff8361626383616263",
		"ff83616263fe01": "ff83616263ff8361626380",
		"ffff0102fe02":   "ffff0102ff0102",
		"ffff0102fe06":   "ffff010202",
		"ff01fe80":       "ff0180",
		"ff01fe820002":   "ff0101",
	}
	for in, want := range cases {
		p, err := clvm.DeserializeHex(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, p.String(), in)
		assert.Equal(t, clvm.MustDeserializeHex(want).TreeHash(), p.TreeHash(), in)
	}
}

func TestDeserializeDeepNesting(t *testing.T) {
	const depth = 100000
	data := append(bytes.Repeat([]byte{0xff}, depth), bytes.Repeat([]byte{0x80}, depth+1)...)
	p, err := clvm.Deserialize(data)
	require.NoError(t, err)
	assert.Equal(t, data, p.Serialize())
}

func TestTreeHash(t *testing.T) {
	cases := map[string]string{
		"80":          "4bf5122f344554c53bde2ebb8cd2b7e3d1600ad631c385a5d7cce23c7785459a",
		"01":          "9dcf97a184f32623d11a73124ceb99a5709b083721e878a16d78f596718ba7b2",
		alwaysFailHex: "711d6c4e32c92e53179b199484cf8c897542bc57f2b22582799f9d657eec4699",
		syntheticHex:  "624c5d5704d0decadfc0503e71bbffb6cdfe45025bce7cf3e6864d1eafe8f65e",
		p2ConditionsH: "1c77d7d5efde60a7a1d2d27db6d746bc8e568aea1ef8586ca967a0d60b83cc36",
		standardHex:   "e9aaa49f45bad5c889b86ee3341550c155cfdd10c3a6757de618d20612fffd52",
	}
	for program, hash := range cases {
		p := clvm.MustDeserializeHex(program)
		assert.Equal(t, hash, p.TreeHash().Hex(), program)
	}
}

func TestListAccessors(t *testing.T) {
	l := clvm.List(clvm.Int64(1), clvm.Int64(2), clvm.Int64(3))
	items, err := l.ToList()
	require.NoError(t, err)
	require.Len(t, items, 3)

	second, err := l.At(1)
	require.NoError(t, err)
	assert.True(t, second.Equal(clvm.Int64(2)))

	_, err = l.At(3)
	assert.Error(t, err)

	_, err = clvm.Cons(clvm.One, clvm.One).ToList()
	assert.ErrorIs(t, err, clvm.ErrNotList)

	_, err = clvm.One.First()
	assert.ErrorIs(t, err, clvm.ErrNotPair)

	_, err = l.Atom()
	assert.ErrorIs(t, err, clvm.ErrNotAtom)

	assert.False(t, l.Equal(clvm.List(clvm.Int64(1), clvm.Int64(2))))
	assert.True(t, l.Equal(clvm.MustDeserializeHex(l.String())))
}

func TestBytes32Text(t *testing.T) {
	h := clvm.MustBytes32FromHex("711d6c4e32c92e53179b199484cf8c897542bc57f2b22582799f9d657eec4699")
	text, err := h.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "0x711d6c4e32c92e53179b199484cf8c897542bc57f2b22582799f9d657eec4699", string(text))

	var back clvm.Bytes32
	require.NoError(t, back.UnmarshalText(text))
	assert.Equal(t, h, back)

	assert.Error(t, back.UnmarshalText([]byte("0x1234")))
}
