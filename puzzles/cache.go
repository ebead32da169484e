// SPDX-License-Identifier: Apache-2.0

package puzzles

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"

	"perun.network/perun-chia-backend/clvm"
)

// DefaultCacheSize is the number of puzzle hashes kept by a HashCache
// created with a non-positive size.
const DefaultCacheSize = 4096

// HashCache memoizes curried puzzle hashes keyed by template and
// parameters. It is safe for concurrent use.
type HashCache struct {
	cache *lru.Cache[string, clvm.Bytes32]
}

// NewHashCache creates a cache holding up to size entries.
func NewHashCache(size int) (*HashCache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, err := lru.New[string, clvm.Bytes32](size)
	if err != nil {
		return nil, errors.WithMessage(err, "creating puzzle hash cache")
	}
	return &HashCache{cache: c}, nil
}

// PuzzleHash returns the hash of template with params curried in.
func (c *HashCache) PuzzleHash(template *Template, params ...*clvm.Program) clvm.Bytes32 {
	key := cacheKey(template, params)
	if h, ok := c.cache.Get(key); ok {
		return h
	}
	hashes := make([]clvm.Bytes32, len(params))
	for i, p := range params {
		hashes[i] = p.TreeHash()
	}
	h := clvm.CurriedTreeHash(template.Hash(), hashes...)
	c.cache.Add(key, h)
	return h
}

// Len returns the number of cached hashes.
func (c *HashCache) Len() int {
	return c.cache.Len()
}

// cacheKey concatenates the template hash and the serialized params.
// Serialization is self delimiting, so the key is unambiguous.
func cacheKey(template *Template, params []*clvm.Program) string {
	var sb strings.Builder
	h := template.Hash()
	sb.Write(h[:])
	for _, p := range params {
		sb.Write(p.Serialize())
	}
	return sb.String()
}
