// SPDX-License-Identifier: Apache-2.0

// Package puzzles holds the puzzle templates of standard wallets and
// CATs and curries them into concrete puzzles. The standard puzzle, its
// helpers and the TAILs are embedded. CAT puzzle hashes are derived from
// the pinned CAT v2 hash, the CAT program is loaded from a directory with
// LoadTemplates.
package puzzles // import "perun.network/perun-chia-backend/puzzles"
