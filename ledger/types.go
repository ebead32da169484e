// SPDX-License-Identifier: Apache-2.0

package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"perun.network/perun-chia-backend/clvm"
)

// Coin is an unspent or spent output, identified by its ID.
type Coin struct {
	ParentCoinInfo clvm.Bytes32 `json:"parent_coin_info"`
	PuzzleHash     clvm.Bytes32 `json:"puzzle_hash"`
	Amount         uint64       `json:"amount"`
}

// ID returns sha256(parent ‖ puzzle hash ‖ amount) where the amount is the
// canonical signed atom encoding.
func (c Coin) ID() clvm.Bytes32 {
	h := sha256.New()
	h.Write(c.ParentCoinInfo[:])
	h.Write(c.PuzzleHash[:])
	h.Write(clvm.EncodeUint64(c.Amount))
	var id clvm.Bytes32
	copy(id[:], h.Sum(nil))
	return id
}

// SerializedProgram is a serialized program. It encodes as 0x prefixed hex
// in JSON.
type SerializedProgram []byte

// NewSerializedProgram serializes p.
func NewSerializedProgram(p *clvm.Program) SerializedProgram {
	return p.Serialize()
}

// Program deserializes the program.
func (s SerializedProgram) Program() (*clvm.Program, error) {
	return clvm.Deserialize(s)
}

// MarshalJSON encodes the program as a hex string.
func (s SerializedProgram) MarshalJSON() ([]byte, error) {
	return json.Marshal("0x" + hex.EncodeToString(s))
}

// UnmarshalJSON decodes a hex string with optional 0x prefix.
func (s *SerializedProgram) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return errors.WithMessage(err, "serialized program")
	}
	raw, err := hex.DecodeString(strings.TrimPrefix(text, "0x"))
	if err != nil {
		return errors.WithMessage(err, "serialized program")
	}
	*s = raw
	return nil
}

// CoinSpend reveals the puzzle of a coin and the solution spending it.
type CoinSpend struct {
	Coin         Coin              `json:"coin"`
	PuzzleReveal SerializedProgram `json:"puzzle_reveal"`
	Solution     SerializedProgram `json:"solution"`
}

// NewCoinSpend serializes puzzle and solution into a spend of coin.
func NewCoinSpend(coin Coin, puzzle, solution *clvm.Program) CoinSpend {
	return CoinSpend{
		Coin:         coin,
		PuzzleReveal: NewSerializedProgram(puzzle),
		Solution:     NewSerializedProgram(solution),
	}
}

// CoinRecord is the state of a coin as reported by a full node.
type CoinRecord struct {
	Coin                Coin   `json:"coin"`
	ConfirmedBlockIndex uint32 `json:"confirmed_block_index"`
	SpentBlockIndex     uint32 `json:"spent_block_index"`
	Spent               bool   `json:"spent"`
	Coinbase            bool   `json:"coinbase"`
	Timestamp           uint64 `json:"timestamp"`
}

// CoinRecordQuery restricts a coin record lookup. Nil heights are unbounded.
type CoinRecordQuery struct {
	StartHeight  *uint32
	EndHeight    *uint32
	IncludeSpent bool
}
