// SPDX-License-Identifier: Apache-2.0

package wallet

import (
	"math"
	"math/rand"
	"sync"

	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip39"
	"perun.network/go-perun/log"
	"perun.network/go-perun/wallet"

	"perun.network/perun-chia-backend/bls"
	"perun.network/perun-chia-backend/ledger"
)

// Keychain is a garbage-collected RAM key store deriving its accounts from
// a master key along the wallet path. Accounts are forgotten once they are
// no longer used, as indicated by DecrementUsage(). They can be reopened
// with Open since derivation is deterministic.
type Keychain struct {
	log.Embedding

	mutex    sync.Mutex
	master   bls.PrivateKey
	hardened bool

	next     uint32              // the next account's index.
	openAccs map[string]*openAcc // all currently open accounts.
}

type openAcc struct {
	index    uint32
	useCount uint32
	acc      *Account
}

var _ wallet.Wallet = (*Keychain)(nil)

// NewKeychain creates a keychain deriving from master.
func NewKeychain(master bls.PrivateKey, hardened bool) *Keychain {
	return &Keychain{
		Embedding: log.MakeEmbedding(log.Default().WithField("fingerprint", master.PublicKey().Fingerprint())),
		master:    master,
		hardened:  hardened,
		openAccs:  make(map[string]*openAcc),
	}
}

// MasterKeyFromMnemonic returns the master key of a BIP-39 mnemonic.
func MasterKeyFromMnemonic(mnemonic, passphrase string) (bls.PrivateKey, error) {
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, passphrase)
	if err != nil {
		return bls.PrivateKey{}, errors.WithMessage(err, "invalid mnemonic")
	}
	return bls.KeyGen(seed)
}

// NewKeychainFromMnemonic creates a keychain from a BIP-39 mnemonic.
func NewKeychainFromMnemonic(mnemonic, passphrase string, hardened bool) (*Keychain, error) {
	master, err := MasterKeyFromMnemonic(mnemonic, passphrase)
	if err != nil {
		return nil, err
	}
	return NewKeychain(master, hardened), nil
}

// MasterPublicKey returns the public key of the master key.
func (k *Keychain) MasterPublicKey() bls.PublicKey {
	return k.master.PublicKey()
}

func (k *Keychain) genAcc(index uint32) *Account {
	kp, err := Derive(NewKeyPair(k.master), index, k.hardened)
	if err != nil {
		panic("logic error: deriving from a private key should not have failed")
	}
	return NewAccount(index, *kp.PrivateKey)
}

// NewAccount opens the account at the next unused index.
func (k *Keychain) NewAccount() *Account {
	k.mutex.Lock()
	defer k.mutex.Unlock()

	acc := k.open(k.next)
	k.next++
	return acc
}

// Open opens the account at index.
func (k *Keychain) Open(index uint32) *Account {
	k.mutex.Lock()
	defer k.mutex.Unlock()

	if index >= k.next && index < math.MaxUint32 {
		k.next = index + 1
	}
	return k.open(index)
}

// NewRandomAccount opens the account at an index drawn from rng.
func (k *Keychain) NewRandomAccount(rng *rand.Rand) wallet.Account {
	return k.Open(rng.Uint32())
}

func (k *Keychain) open(index uint32) *Account {
	acc := k.genAcc(index)
	key := addrKey(acc.L2Address())
	if open, ok := k.openAccs[key]; ok {
		if open.acc == nil {
			open.acc = acc
		}
		return open.acc
	}
	k.openAccs[key] = &openAcc{index: index, acc: acc}
	return acc
}

// Unlock retrieves the account belonging to the requested address.
func (k *Keychain) Unlock(a wallet.Address) (wallet.Account, error) {
	k.mutex.Lock()
	defer k.mutex.Unlock()

	acc, ok := k.openAccs[addrKey(*a.(*Address))]
	if !ok {
		return nil, errors.Wrap(ErrAccountNotFound, a.String())
	}

	if acc.acc == nil {
		acc.acc = k.genAcc(acc.index)
	}
	return acc.acc, nil
}

// LockAll disables all currently unlocked accounts.
func (k *Keychain) LockAll() {
	k.mutex.Lock()
	defer k.mutex.Unlock()

	for _, acc := range k.openAccs {
		if acc.acc != nil {
			acc.acc.clear()
			acc.acc = nil
		}
	}
}

// IncrementUsage tracks how many times an account is in use. Use
// DecrementUsage() when an account is no longer used. Once the counter
// reaches 0, the account is forgotten.
func (k *Keychain) IncrementUsage(a wallet.Address) {
	k.mutex.Lock()
	defer k.mutex.Unlock()

	acc, ok := k.openAccs[addrKey(*a.(*Address))]
	if !ok {
		k.Log().WithField("address", a).Warn("IncrementUsage: account not found")
		return
	}
	acc.useCount++
}

// DecrementUsage complements IncrementUsage().
func (k *Keychain) DecrementUsage(a wallet.Address) {
	k.mutex.Lock()
	defer k.mutex.Unlock()

	key := addrKey(*a.(*Address))
	acc, ok := k.openAccs[key]
	if !ok {
		k.Log().WithField("address", a).Warn("DecrementUsage: account not found")
		return
	}
	if acc.useCount == 0 {
		k.Log().WithField("address", a).Warn("DecrementUsage: unused account")
		return
	}
	acc.useCount--
	if acc.useCount == 0 {
		if acc.acc != nil {
			acc.acc.clear()
		}
		delete(k.openAccs, key)
	}
}

// KeyTable returns the plain and synthetic private keys of all open
// accounts.
func (k *Keychain) KeyTable() KeyTable {
	k.mutex.Lock()
	defer k.mutex.Unlock()

	t := make(KeyTable, 2*len(k.openAccs))
	for _, acc := range k.openAccs {
		sk := k.genAcc(acc.index).sk
		t.Add(sk)
		t.Add(SyntheticPrivateKey(sk, DefaultHiddenPuzzleHash))
	}
	return t
}

// Wallet builds the standard wallet of the key at index.
func (k *Keychain) Wallet(index uint32) (*Wallet, error) {
	return DeriveWallet(NewKeyPair(k.master), index, k.hardened)
}

// SignCoinSpend signs spend with the owner key at index and the keys of
// all open accounts.
func (k *Keychain) SignCoinSpend(index uint32, spend ledger.CoinSpend, extraData []byte) (bls.Signature, error) {
	w, err := k.Wallet(index)
	if err != nil {
		return bls.Signature{}, err
	}
	owner := k.genAcc(index)
	defer owner.clear()
	return w.SignCoinSpend(spend, extraData, owner.sk, k.KeyTable())
}

func addrKey(a Address) string {
	b := a.bytes()
	return string(b[:])
}
