// SPDX-License-Identifier: Apache-2.0

package wallet

import (
	"github.com/pkg/errors"

	"perun.network/perun-chia-backend/bls"
	"perun.network/perun-chia-backend/clvm"
	"perun.network/perun-chia-backend/ledger"
)

// Opcodes of the conditions that require a signature.
const (
	// AggSigUnsafe signs the raw message.
	AggSigUnsafe byte = 49
	// AggSigMe binds the message to the spent coin and the network.
	AggSigMe byte = 50
)

// MaxMessageLen is the longest message a signature condition may carry.
const MaxMessageLen = 1024

// Obligation is a message that must be signed by PublicKey.
type Obligation struct {
	PublicKey bls.PublicKey
	Message   []byte
}

// ExtractSignableConditions runs puzzleReveal with solution and returns the
// signature obligations of its output in evaluation order. AGG_SIG_ME
// messages are extended by the coin id and extraData.
func ExtractSignableConditions(puzzleReveal, solution *clvm.Program, coin ledger.Coin, extraData []byte) ([]Obligation, error) {
	out, _, err := puzzleReveal.RunWithCost(solution, clvm.DefaultMaxCost)
	if err != nil {
		return nil, withKind(ErrInterpreter, err, "running puzzle reveal")
	}

	var (
		obligations []Obligation
		coinID      clvm.Bytes32
		haveCoinID  bool
	)
	for i := 0; !out.IsNil(); i++ {
		if !out.IsPair() {
			return nil, withKind(ErrValidation, nil, "conditions are not a list")
		}
		condition, _ := out.First()
		out, _ = out.Rest()

		opcode, ok := signatureOpcode(condition)
		if !ok {
			if !condition.IsPair() {
				return nil, withKind(ErrValidation, nil, "condition %d is not a list", i)
			}
			continue
		}
		pk, msg, err := parseSignatureCondition(condition)
		if err != nil {
			return nil, withKind(ErrValidation, err, "condition %d", i)
		}

		if opcode == AggSigMe {
			if !haveCoinID {
				coinID, haveCoinID = coin.ID(), true
			}
			bound := make([]byte, 0, len(msg)+clvm.Bytes32Len+len(extraData))
			bound = append(bound, msg...)
			bound = append(bound, coinID[:]...)
			msg = append(bound, extraData...)
		}
		obligations = append(obligations, Obligation{PublicKey: pk, Message: msg})
	}
	return obligations, nil
}

// signatureOpcode returns the opcode of condition if it is a single byte
// AGG_SIG opcode.
func signatureOpcode(condition *clvm.Program) (byte, bool) {
	first, err := condition.First()
	if err != nil {
		return 0, false
	}
	atom, err := first.Atom()
	if err != nil || len(atom) != 1 {
		return 0, false
	}
	if atom[0] != AggSigUnsafe && atom[0] != AggSigMe {
		return 0, false
	}
	return atom[0], true
}

func parseSignatureCondition(condition *clvm.Program) (bls.PublicKey, []byte, error) {
	items, err := condition.ToList()
	if err != nil {
		return bls.PublicKey{}, nil, err
	}
	if len(items) != 3 {
		return bls.PublicKey{}, nil, errors.Errorf("%d elements, want 3", len(items))
	}
	rawPk, err := items[1].Atom()
	if err != nil {
		return bls.PublicKey{}, nil, err
	}
	pk, err := bls.PublicKeyFromBytes(rawPk)
	if err != nil {
		return bls.PublicKey{}, nil, err
	}
	msg, err := items[2].Atom()
	if err != nil {
		return bls.PublicKey{}, nil, err
	}
	if len(msg) > MaxMessageLen {
		return bls.PublicKey{}, nil, errors.Errorf("message of %d bytes", len(msg))
	}
	return pk, append([]byte(nil), msg...), nil
}
