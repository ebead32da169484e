// SPDX-License-Identifier: Apache-2.0

// Package bls implements the BLS12-381 key handling and the augmented
// signature scheme (AugSchemeMPL) used by the Chia network: EIP-2333 key
// generation, hardened and unhardened child key derivation, signing,
// aggregation and pairing based verification.
package bls // import "perun.network/perun-chia-backend/bls"
