// SPDX-License-Identifier: Apache-2.0

// Package clvm implements the Chialisp virtual machine value model: programs
// built from atoms and pairs, their canonical serialization and tree hash,
// currying, and an evaluator with the consensus operator set and cost
// accounting.
package clvm // import "perun.network/perun-chia-backend/clvm"
