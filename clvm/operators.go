// SPDX-License-Identifier: Apache-2.0

package clvm

import (
	"bytes"
	"crypto/sha256"
	"math/big"

	"perun.network/perun-chia-backend/bls"
)

type operatorFunc func(m *machine, name string, args []*Program) (*Program, error)

type operator struct {
	name string
	fn   operatorFunc
}

// Costs follow the chia consensus cost table.
const (
	ifCost                 = 33
	consCost               = 50
	firstCost              = 30
	restCost               = 30
	listpCost              = 19
	mallocCostPerByte      = 10
	eqBaseCost             = 117
	eqCostPerByte          = 1
	grsBaseCost            = 117
	grsCostPerByte         = 1
	sha256BaseCost         = 87
	sha256CostPerArg       = 134
	sha256CostPerByte      = 2
	substrCost             = 1
	strlenBaseCost         = 173
	strlenCostPerByte      = 1
	concatBaseCost         = 142
	concatCostPerArg       = 135
	concatCostPerByte      = 3
	arithBaseCost          = 99
	arithCostPerArg        = 320
	arithCostPerByte       = 3
	mulBaseCost            = 92
	mulCostPerOp           = 885
	mulLinearCostPerByte   = 6
	mulSquareCostPerByteDv = 128
	divBaseCost            = 988
	divCostPerByte         = 4
	divmodBaseCost         = 1116
	divmodCostPerByte      = 6
	grBaseCost             = 498
	grCostPerByte          = 2
	shiftBaseCost          = 596
	shiftCostPerByte       = 3
	logBaseCost            = 100
	logCostPerArg          = 264
	logCostPerByte         = 3
	lognotBaseCost         = 331
	lognotCostPerByte      = 3
	pointAddBaseCost       = 101094
	pointAddCostPerArg     = 1343980
	pubkeyBaseCost         = 1325730
	pubkeyCostPerByte      = 38
	boolBaseCost           = 200
	boolCostPerArg         = 300
	coinIDCost             = 800
	modpowBaseCost         = 17000
	modpowCostPerByteBase  = 38
	modpowCostPerByteExp   = 3
	modpowCostPerByteMod   = 21
	modBaseCost            = 988
	modCostPerByte         = 4

	maxShift = 65535
)

var operators map[byte]operator

func init() {
	operators = map[byte]operator{
		3:  {"i", opIf},
		4:  {"c", opConsPair},
		5:  {"f", opFirst},
		6:  {"r", opRest},
		7:  {"l", opListp},
		8:  {"x", opRaise},
		9:  {"=", opEq},
		10: {">s", opGrBytes},
		11: {"sha256", opSha256},
		12: {"substr", opSubstr},
		13: {"strlen", opStrlen},
		14: {"concat", opConcat},
		16: {"+", opAdd},
		17: {"-", opSub},
		18: {"*", opMul},
		19: {"/", opDiv},
		20: {"divmod", opDivmod},
		21: {">", opGr},
		22: {"ash", opAsh},
		23: {"lsh", opLsh},
		24: {"logand", opLogand},
		25: {"logior", opLogior},
		26: {"logxor", opLogxor},
		27: {"lognot", opLognot},
		29: {"point_add", opPointAdd},
		30: {"pubkey_for_exp", opPubkeyForExp},
		32: {"not", opNot},
		33: {"any", opAny},
		34: {"all", opAll},
		36: {"softfork", opSoftfork},
		48: {"coinid", opCoinID},
		60: {"modpow", opModpow},
		61: {"%", opMod},
	}
}

func checkArgs(name string, args []*Program, n int) error {
	if len(args) != n {
		return newEvalError(List(args...), "%s takes exactly %d argument(s)", name, n)
	}
	return nil
}

func atomArg(name string, arg *Program) ([]byte, error) {
	if arg.IsPair() {
		return nil, newEvalError(arg, "%s on list", name)
	}
	return arg.atom, nil
}

func intArg(name string, arg *Program) (*big.Int, int, error) {
	a, err := atomArg(name, arg)
	if err != nil {
		return nil, 0, err
	}
	return decodeInt(a), len(a), nil
}

// newAtom wraps a freshly computed atom and charges its allocation.
func (m *machine) newAtom(atom []byte, cost uint64) (*Program, error) {
	if err := m.charge(cost + uint64(len(atom))*mallocCostPerByte); err != nil {
		return nil, err
	}
	return &Program{atom: atom}, nil
}

func (m *machine) newInt(v *big.Int, cost uint64) (*Program, error) {
	return m.newAtom(encodeInt(v), cost)
}

func (m *machine) truth(b bool, cost uint64) (*Program, error) {
	if err := m.charge(cost); err != nil {
		return nil, err
	}
	return Bool(b), nil
}

func opIf(m *machine, name string, args []*Program) (*Program, error) {
	if err := checkArgs(name, args, 3); err != nil {
		return nil, err
	}
	if err := m.charge(ifCost); err != nil {
		return nil, err
	}
	if args[0].IsNil() {
		return args[2], nil
	}
	return args[1], nil
}

func opConsPair(m *machine, name string, args []*Program) (*Program, error) {
	if err := checkArgs(name, args, 2); err != nil {
		return nil, err
	}
	if err := m.charge(consCost); err != nil {
		return nil, err
	}
	return Cons(args[0], args[1]), nil
}

func opFirst(m *machine, name string, args []*Program) (*Program, error) {
	if err := checkArgs(name, args, 1); err != nil {
		return nil, err
	}
	if args[0].IsAtom() {
		return nil, newEvalError(args[0], "first of non-cons")
	}
	if err := m.charge(firstCost); err != nil {
		return nil, err
	}
	return args[0].first, nil
}

func opRest(m *machine, name string, args []*Program) (*Program, error) {
	if err := checkArgs(name, args, 1); err != nil {
		return nil, err
	}
	if args[0].IsAtom() {
		return nil, newEvalError(args[0], "rest of non-cons")
	}
	if err := m.charge(restCost); err != nil {
		return nil, err
	}
	return args[0].rest, nil
}

func opListp(m *machine, name string, args []*Program) (*Program, error) {
	if err := checkArgs(name, args, 1); err != nil {
		return nil, err
	}
	return m.truth(args[0].IsPair(), listpCost)
}

func opRaise(_ *machine, _ string, args []*Program) (*Program, error) {
	if len(args) == 1 && args[0].IsAtom() {
		return nil, newEvalError(args[0], "clvm raise")
	}
	return nil, newEvalError(List(args...), "clvm raise")
}

func opEq(m *machine, name string, args []*Program) (*Program, error) {
	if err := checkArgs(name, args, 2); err != nil {
		return nil, err
	}
	a, err := atomArg(name, args[0])
	if err != nil {
		return nil, err
	}
	b, err := atomArg(name, args[1])
	if err != nil {
		return nil, err
	}
	return m.truth(bytes.Equal(a, b), uint64(eqBaseCost+eqCostPerByte*(len(a)+len(b))))
}

func opGrBytes(m *machine, name string, args []*Program) (*Program, error) {
	if err := checkArgs(name, args, 2); err != nil {
		return nil, err
	}
	a, err := atomArg(name, args[0])
	if err != nil {
		return nil, err
	}
	b, err := atomArg(name, args[1])
	if err != nil {
		return nil, err
	}
	return m.truth(bytes.Compare(a, b) > 0, uint64(grsBaseCost+grsCostPerByte*(len(a)+len(b))))
}

func opSha256(m *machine, name string, args []*Program) (*Program, error) {
	h := sha256.New()
	cost := uint64(sha256BaseCost)
	for _, arg := range args {
		a, err := atomArg(name, arg)
		if err != nil {
			return nil, err
		}
		h.Write(a)
		cost += sha256CostPerArg + sha256CostPerByte*uint64(len(a))
	}
	return m.newAtom(h.Sum(nil), cost)
}

func opSubstr(m *machine, name string, args []*Program) (*Program, error) {
	if len(args) != 2 && len(args) != 3 {
		return nil, newEvalError(List(args...), "substr takes exactly 2 or 3 arguments")
	}
	s, err := atomArg(name, args[0])
	if err != nil {
		return nil, err
	}
	start, err := smallIntArg(name, args[1])
	if err != nil {
		return nil, err
	}
	end := int64(len(s))
	if len(args) == 3 {
		if end, err = smallIntArg(name, args[2]); err != nil {
			return nil, err
		}
	}
	if end > int64(len(s)) || end < start || start < 0 {
		return nil, newEvalError(List(args...), "invalid indices for substr")
	}
	if err := m.charge(substrCost); err != nil {
		return nil, err
	}
	return &Program{atom: s[start:end]}, nil
}

func smallIntArg(name string, arg *Program) (int64, error) {
	v, _, err := intArg(name, arg)
	if err != nil {
		return 0, err
	}
	if !v.IsInt64() || v.Int64() > 1<<31-1 || v.Int64() < -(1<<31) {
		return 0, newEvalError(arg, "%s requires int32 args", name)
	}
	return v.Int64(), nil
}

func opStrlen(m *machine, name string, args []*Program) (*Program, error) {
	if err := checkArgs(name, args, 1); err != nil {
		return nil, err
	}
	a, err := atomArg(name, args[0])
	if err != nil {
		return nil, err
	}
	return m.newInt(big.NewInt(int64(len(a))), uint64(strlenBaseCost+strlenCostPerByte*len(a)))
}

func opConcat(m *machine, name string, args []*Program) (*Program, error) {
	var buf bytes.Buffer
	cost := uint64(concatBaseCost)
	for _, arg := range args {
		a, err := atomArg(name, arg)
		if err != nil {
			return nil, err
		}
		buf.Write(a)
		cost += concatCostPerArg
	}
	cost += concatCostPerByte * uint64(buf.Len())
	return m.newAtom(buf.Bytes(), cost)
}

func opAdd(m *machine, name string, args []*Program) (*Program, error) {
	return arith(m, name, args, false)
}

func opSub(m *machine, name string, args []*Program) (*Program, error) {
	return arith(m, name, args, true)
}

func arith(m *machine, name string, args []*Program, subtract bool) (*Program, error) {
	sum := new(big.Int)
	cost := uint64(arithBaseCost)
	for i, arg := range args {
		v, l, err := intArg(name, arg)
		if err != nil {
			return nil, err
		}
		if subtract && i > 0 {
			sum.Sub(sum, v)
		} else {
			sum.Add(sum, v)
		}
		cost += arithCostPerArg + arithCostPerByte*uint64(l)
	}
	return m.newInt(sum, cost)
}

func opMul(m *machine, name string, args []*Program) (*Program, error) {
	cost := uint64(mulBaseCost)
	if len(args) == 0 {
		return m.newInt(big.NewInt(1), cost)
	}
	product, l0, err := intArg(name, args[0])
	if err != nil {
		return nil, err
	}
	size := uint64(l0)
	for _, arg := range args[1:] {
		v, l, err := intArg(name, arg)
		if err != nil {
			return nil, err
		}
		cost += mulCostPerOp
		cost += (size + uint64(l)) * mulLinearCostPerByte
		cost += (size * uint64(l)) / mulSquareCostPerByteDv
		product.Mul(product, v)
		size = uint64(len(encodeInt(product)))
	}
	return m.newInt(product, cost)
}

// floorDivMod rounds the quotient toward negative infinity.
func floorDivMod(a, b *big.Int) (*big.Int, *big.Int) {
	q, r := new(big.Int).QuoRem(a, b, new(big.Int))
	if r.Sign() != 0 && (r.Sign() < 0) != (b.Sign() < 0) {
		q.Sub(q, bigOne)
		r.Add(r, b)
	}
	return q, r
}

func twoInts(name string, args []*Program) (*big.Int, *big.Int, int, error) {
	if err := checkArgs(name, args, 2); err != nil {
		return nil, nil, 0, err
	}
	a, la, err := intArg(name, args[0])
	if err != nil {
		return nil, nil, 0, err
	}
	b, lb, err := intArg(name, args[1])
	if err != nil {
		return nil, nil, 0, err
	}
	return a, b, la + lb, nil
}

func opDiv(m *machine, name string, args []*Program) (*Program, error) {
	a, b, l, err := twoInts(name, args)
	if err != nil {
		return nil, err
	}
	if b.Sign() == 0 {
		return nil, newEvalError(args[0], "div with 0")
	}
	q, _ := floorDivMod(a, b)
	return m.newInt(q, uint64(divBaseCost+divCostPerByte*l))
}

func opDivmod(m *machine, name string, args []*Program) (*Program, error) {
	a, b, l, err := twoInts(name, args)
	if err != nil {
		return nil, err
	}
	if b.Sign() == 0 {
		return nil, newEvalError(args[0], "divmod with 0")
	}
	q, r := floorDivMod(a, b)
	qa, ra := encodeInt(q), encodeInt(r)
	cost := uint64(divmodBaseCost+divmodCostPerByte*l) + uint64(len(qa)+len(ra))*mallocCostPerByte
	if err := m.charge(cost); err != nil {
		return nil, err
	}
	return Cons(&Program{atom: qa}, &Program{atom: ra}), nil
}

func opMod(m *machine, name string, args []*Program) (*Program, error) {
	a, b, l, err := twoInts(name, args)
	if err != nil {
		return nil, err
	}
	if b.Sign() == 0 {
		return nil, newEvalError(args[0], "mod with 0")
	}
	_, r := floorDivMod(a, b)
	return m.newInt(r, uint64(modBaseCost+modCostPerByte*l))
}

func opGr(m *machine, name string, args []*Program) (*Program, error) {
	a, b, l, err := twoInts(name, args)
	if err != nil {
		return nil, err
	}
	return m.truth(a.Cmp(b) > 0, uint64(grBaseCost+grCostPerByte*l))
}

func shiftArgs(name string, args []*Program) (*Program, int64, error) {
	if err := checkArgs(name, args, 2); err != nil {
		return nil, 0, err
	}
	if args[0].IsPair() {
		return nil, 0, newEvalError(args[0], "%s on list", name)
	}
	n, _, err := intArg(name, args[1])
	if err != nil {
		return nil, 0, err
	}
	if !n.IsInt64() || n.Int64() > maxShift || n.Int64() < -maxShift {
		return nil, 0, newEvalError(args[1], "shift too large")
	}
	return args[0], n.Int64(), nil
}

func opAsh(m *machine, name string, args []*Program) (*Program, error) {
	a, n, err := shiftArgs(name, args)
	if err != nil {
		return nil, err
	}
	v := decodeInt(a.atom)
	if n >= 0 {
		v.Lsh(v, uint(n))
	} else {
		v.Rsh(v, uint(-n))
	}
	r := encodeInt(v)
	return m.newAtom(r, uint64(shiftBaseCost+shiftCostPerByte*(len(a.atom)+len(r))))
}

func opLsh(m *machine, name string, args []*Program) (*Program, error) {
	a, n, err := shiftArgs(name, args)
	if err != nil {
		return nil, err
	}
	v := new(big.Int).SetBytes(a.atom)
	if n >= 0 {
		v.Lsh(v, uint(n))
	} else {
		v.Rsh(v, uint(-n))
	}
	r := encodeInt(v)
	return m.newAtom(r, uint64(shiftBaseCost+shiftCostPerByte*(len(a.atom)+len(r))))
}

func logic(m *machine, name string, args []*Program, init int64, f func(z, x, y *big.Int) *big.Int) (*Program, error) {
	acc := big.NewInt(init)
	cost := uint64(logBaseCost)
	for _, arg := range args {
		v, l, err := intArg(name, arg)
		if err != nil {
			return nil, err
		}
		f(acc, acc, v)
		cost += logCostPerArg + logCostPerByte*uint64(l)
	}
	return m.newInt(acc, cost)
}

func opLogand(m *machine, name string, args []*Program) (*Program, error) {
	return logic(m, name, args, -1, (*big.Int).And)
}

func opLogior(m *machine, name string, args []*Program) (*Program, error) {
	return logic(m, name, args, 0, (*big.Int).Or)
}

func opLogxor(m *machine, name string, args []*Program) (*Program, error) {
	return logic(m, name, args, 0, (*big.Int).Xor)
}

func opLognot(m *machine, name string, args []*Program) (*Program, error) {
	if err := checkArgs(name, args, 1); err != nil {
		return nil, err
	}
	v, l, err := intArg(name, args[0])
	if err != nil {
		return nil, err
	}
	return m.newInt(v.Not(v), uint64(lognotBaseCost+lognotCostPerByte*l))
}

func opPointAdd(m *machine, name string, args []*Program) (*Program, error) {
	var sum bls.PublicKey
	cost := uint64(pointAddBaseCost)
	for _, arg := range args {
		a, err := atomArg(name, arg)
		if err != nil {
			return nil, err
		}
		p, err := bls.PublicKeyFromBytes(a)
		if err != nil {
			return nil, newEvalError(arg, "point_add expects blob, got %s", err)
		}
		sum = sum.Add(p)
		cost += pointAddCostPerArg
	}
	b := sum.Bytes()
	return m.newAtom(b[:], cost)
}

func opPubkeyForExp(m *machine, name string, args []*Program) (*Program, error) {
	if err := checkArgs(name, args, 1); err != nil {
		return nil, err
	}
	v, l, err := intArg(name, args[0])
	if err != nil {
		return nil, err
	}
	b := bls.PublicKeyFromScalar(v).Bytes()
	return m.newAtom(b[:], uint64(pubkeyBaseCost+pubkeyCostPerByte*l))
}

func opNot(m *machine, name string, args []*Program) (*Program, error) {
	if err := checkArgs(name, args, 1); err != nil {
		return nil, err
	}
	return m.truth(args[0].IsNil(), boolBaseCost)
}

func opAny(m *machine, _ string, args []*Program) (*Program, error) {
	r := false
	for _, arg := range args {
		r = r || !arg.IsNil()
	}
	return m.truth(r, uint64(boolBaseCost+boolCostPerArg*len(args)))
}

func opAll(m *machine, _ string, args []*Program) (*Program, error) {
	r := true
	for _, arg := range args {
		r = r && !arg.IsNil()
	}
	return m.truth(r, uint64(boolBaseCost+boolCostPerArg*len(args)))
}

func opSoftfork(m *machine, name string, args []*Program) (*Program, error) {
	if len(args) < 1 {
		return nil, newEvalError(Nil, "softfork takes at least 1 argument")
	}
	c, _, err := intArg(name, args[0])
	if err != nil {
		return nil, err
	}
	if c.Sign() <= 0 || !c.IsUint64() {
		return nil, newEvalError(args[0], "cost must be > 0")
	}
	if err := m.charge(c.Uint64()); err != nil {
		return nil, err
	}
	return Nil, nil
}

func opCoinID(m *machine, name string, args []*Program) (*Program, error) {
	if err := checkArgs(name, args, 3); err != nil {
		return nil, err
	}
	parent, err := atomArg(name, args[0])
	if err != nil {
		return nil, err
	}
	puzzleHash, err := atomArg(name, args[1])
	if err != nil {
		return nil, err
	}
	if len(parent) != Bytes32Len || len(puzzleHash) != Bytes32Len {
		return nil, newEvalError(List(args...), "coinid: invalid hash length")
	}
	amount, err := atomArg(name, args[2])
	if err != nil {
		return nil, err
	}
	if !isCanonicalAmount(amount) {
		return nil, newEvalError(args[2], "coinid: invalid amount")
	}
	h := sha256.New()
	h.Write(parent)
	h.Write(puzzleHash)
	h.Write(amount)
	return m.newAtom(h.Sum(nil), coinIDCost)
}

// isCanonicalAmount accepts minimal non-negative encodings below 2^64.
func isCanonicalAmount(a []byte) bool {
	if len(a) == 0 {
		return true
	}
	if a[0]&0x80 != 0 {
		return false
	}
	if a[0] == 0 && (len(a) == 1 || a[1]&0x80 == 0) {
		return false
	}
	return len(a) <= 8 || (len(a) == 9 && a[0] == 0)
}

func opModpow(m *machine, name string, args []*Program) (*Program, error) {
	if err := checkArgs(name, args, 3); err != nil {
		return nil, err
	}
	base, lb, err := intArg(name, args[0])
	if err != nil {
		return nil, err
	}
	exp, le, err := intArg(name, args[1])
	if err != nil {
		return nil, err
	}
	mod, lm, err := intArg(name, args[2])
	if err != nil {
		return nil, err
	}
	if exp.Sign() < 0 {
		return nil, newEvalError(args[1], "modpow with negative exponent")
	}
	if mod.Sign() == 0 {
		return nil, newEvalError(args[2], "modpow with 0 modulus")
	}
	cost := uint64(modpowBaseCost + modpowCostPerByteBase*lb + modpowCostPerByteExp*le*le + modpowCostPerByteMod*lm*lm)

	absMod := new(big.Int).Abs(mod)
	r := new(big.Int).Exp(base, exp, absMod)
	// Exp leaves r in [0, |mod|); align the sign with a floor modulus.
	if mod.Sign() < 0 && r.Sign() != 0 {
		r.Add(r, mod)
	}
	return m.newInt(r, cost)
}
