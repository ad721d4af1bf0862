package embedding

import (
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Stats is a point-in-time view of provider activity. Misses count Space queries
type Stats struct {
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	CacheSize int    `json:"cache_size"`
}

// Provider memoizes Space lookups by exact token string
type Provider struct {
	space Space
	cache Cache
	sf    singleflight.Group

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewProvider wraps space with cache. A nil cache selects an unbounded MapCache
func NewProvider(space Space, cache Cache) *Provider {
	if cache == nil {
		cache = NewMapCache()
	}
	return &Provider{space: space, cache: cache}
}

// Dim is the dimension of every vector the provider returns
func (p *Provider) Dim() int { return p.space.Dim() }

// Embed returns the vector for token, querying the space only on a cache miss.
// Concurrent misses for the same token share one query
func (p *Provider) Embed(token string) Vector {
	if v, ok := p.cache.Get(token); ok {
		p.hits.Add(1)
		return v
	}
	v, _, _ := p.sf.Do(token, func() (any, error) {
		// another caller may have filled it between our Get and Do
		if v, ok := p.cache.Get(token); ok {
			p.hits.Add(1)
			return v, nil
		}
		p.misses.Add(1)
		v := p.space.Lookup(token)
		p.cache.Add(token, v)
		return v, nil
	})
	return v.(Vector)
}

// EmbedSequence embeds every token in order; the result has one row per token
func (p *Provider) EmbedSequence(seq []string) Matrix {
	m := make(Matrix, len(seq))
	for i, tok := range seq {
		m[i] = p.Embed(tok)
	}
	return m
}

// Stats returns current counters
func (p *Provider) Stats() Stats {
	return Stats{
		Hits:      p.hits.Load(),
		Misses:    p.misses.Load(),
		CacheSize: p.cache.Len(),
	}
}
