package strfmt

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// defaultCacheSize bounds the number of distinct compiled patterns kept
// around; a CLI run applies the same handful of patterns to many tiles,
// so this rarely evicts in practice.
const defaultCacheSize = 64

var (
	cacheOnce sync.Once
	cache     *lru.Cache[string, *Formatter]
)

func getCache() *lru.Cache[string, *Formatter] {
	cacheOnce.Do(func() {
		c, err := lru.New[string, *Formatter](defaultCacheSize)
		if err != nil {
			panic("strfmt: failed to construct pattern cache: " + err.Error())
		}
		cache = c
	})
	return cache
}

// Compile returns a compiled Formatter for pattern, reusing a previously
// compiled one from the package-level LRU cache when available.
func Compile(pattern string) *Formatter {
	c := getCache()
	if f, ok := c.Get(pattern); ok {
		return f
	}
	f := New(pattern)
	c.Add(pattern, f)
	return f
}
