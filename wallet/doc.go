// SPDX-License-Identifier: Apache-2.0

// Package wallet derives the keys of a chia wallet, blinds them into
// synthetic keys and signs coin spends locked by the standard puzzle.
//
// It also provides the off-chain identity of go-perun: addresses are BLS
// public keys and signatures follow the augmented BLS scheme. Anonymously
// import the package from your application to inject the backend into
// go-perun.
package wallet // import "perun.network/perun-chia-backend/wallet"
