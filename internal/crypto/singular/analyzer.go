package singular

import (
	"math/big"

	lru "github.com/hashicorp/golang-lru"
)

// DefaultCacheSize is the number of analyses an Analyzer keeps by default.
const DefaultCacheSize = 128

// Analyzer memoises Analyze results per (a mod p, b mod p, p).
// Cached nodes are shared and must be treated as read-only.
type Analyzer struct {
	cache *lru.Cache
}

type cacheKey struct {
	a, b, p string
}

type cacheEntry struct {
	node *Node
	err  error
}

// NewAnalyzer creates an Analyzer holding up to size entries.
func NewAnalyzer(size int) (*Analyzer, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Analyzer{cache: c}, nil
}

// Analyze is the cached form of the package-level Analyze.
func (an *Analyzer) Analyze(a, b, p *big.Int) (*Node, error) {
	if a == nil || b == nil || p == nil || p.Sign() <= 0 {
		return Analyze(a, b, p)
	}

	key := cacheKey{
		a: new(big.Int).Mod(a, p).String(),
		b: new(big.Int).Mod(b, p).String(),
		p: p.String(),
	}
	if v, ok := an.cache.Get(key); ok {
		e := v.(cacheEntry)
		return e.node, e.err
	}

	node, err := Analyze(a, b, p)
	an.cache.Add(key, cacheEntry{node: node, err: err})
	return node, err
}

// Len returns the number of cached analyses.
func (an *Analyzer) Len() int {
	return an.cache.Len()
}
