package fmtcache

import (
	"context"
	"sync/atomic"
)

// Formatter is the formatter being cached.
type Formatter interface {
	Format(ctx context.Context, content string, raw bool) (string, error)
}

// CachingFormatter serves formatter results from a Cache and stores new
// successful results. Failures are never cached.
type CachingFormatter struct {
	next  Formatter
	cache *Cache

	hits   atomic.Int64
	misses atomic.Int64
}

// Wrap returns a Formatter that consults c before calling next.
func (c *Cache) Wrap(next Formatter) *CachingFormatter {
	return &CachingFormatter{next: next, cache: c}
}

// Format returns the cached result for content or formats and stores it.
// Cache read and write errors fall through to the wrapped formatter.
func (f *CachingFormatter) Format(ctx context.Context, content string, raw bool) (string, error) {
	if out, ok, err := f.cache.Get(content, raw); err == nil && ok {
		f.hits.Add(1)
		return out, nil
	}
	f.misses.Add(1)

	out, err := f.next.Format(ctx, content, raw)
	if err != nil {
		return "", err
	}

	//nolint:errcheck // a failed cache write only costs a future miss
	f.cache.Put(content, raw, out)

	return out, nil
}

// Hits returns the number of results served from the cache.
func (f *CachingFormatter) Hits() int64 {
	return f.hits.Load()
}

// Misses returns the number of results computed by the wrapped formatter.
func (f *CachingFormatter) Misses() int64 {
	return f.misses.Load()
}
