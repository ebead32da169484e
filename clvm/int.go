// SPDX-License-Identifier: Apache-2.0

package clvm

import (
	"math/big"
)

var bigOne = big.NewInt(1)

// decodeInt reads a two's complement big endian atom.
func decodeInt(b []byte) *big.Int {
	v := new(big.Int).SetBytes(b)
	if len(b) > 0 && b[0]&0x80 != 0 {
		v.Sub(v, new(big.Int).Lsh(bigOne, uint(8*len(b))))
	}
	return v
}

// encodeInt returns the minimal two's complement big endian encoding of v.
// Zero encodes to the empty atom.
func encodeInt(v *big.Int) []byte {
	switch v.Sign() {
	case 0:
		return []byte{}
	case 1:
		b := v.Bytes()
		if b[0]&0x80 != 0 {
			return append([]byte{0}, b...)
		}
		return b
	}

	// Negative: encode 2^(8n) + v in the smallest n that keeps the sign bit.
	n := (v.BitLen() + 8) / 8
	for {
		m := new(big.Int).Lsh(bigOne, uint(8*n))
		m.Add(m, v)
		b := m.FillBytes(make([]byte, n))
		if b[0]&0x80 != 0 {
			if n > 1 && b[0] == 0xff && b[1]&0x80 != 0 {
				n--
				continue
			}
			return b
		}
		n++
	}
}

// EncodeUint64 returns the canonical atom of v, as used for coin amounts.
func EncodeUint64(v uint64) []byte {
	return encodeInt(new(big.Int).SetUint64(v))
}
