package meta

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/cpu"

	"github.com/coregx/incregex/pattern"
)

// CacheStats is a snapshot of cache activity.
type CacheStats struct {
	// Hits counts lookups answered by a stored Matcher.
	Hits uint64

	// Misses counts lookups that had to build a Matcher.
	Misses uint64

	// Fallbacks counts stored Matchers that are Permissive.
	Fallbacks uint64
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithLogger sets the logger used to report builds and fallbacks.
func WithLogger(logger *slog.Logger) CacheOption {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Cache memoizes one Matcher per (source, flags) pair.
//
// Entries are never evicted: keys come from the patterns an application
// defines, not from user input. Get is safe for concurrent use. Two
// goroutines missing on the same key may both build a Matcher; only one is
// stored and both callers receive it.
type Cache struct {
	config  Config
	logger  *slog.Logger
	entries sync.Map // pattern.Pattern -> *Matcher
	size    atomic.Int64

	// Counters are bumped on every keystroke from many goroutines; keep
	// them on separate cache lines.
	hits      atomic.Uint64
	_         cpu.CacheLinePad
	misses    atomic.Uint64
	_         cpu.CacheLinePad
	fallbacks atomic.Uint64
}

// NewCache creates an empty cache building Matchers with cfg.
func NewCache(cfg Config, opts ...CacheOption) (*Cache, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Cache{
		config: cfg,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get returns the Matcher for p, building and storing it on first use.
//
// Flags are canonicalized, so /x/gi and /x/ig share an entry. With
// PermissiveFallback a bad pattern yields a stored Permissive Matcher;
// without it the build error is returned and nothing is stored.
func (c *Cache) Get(p pattern.Pattern) (*Matcher, error) {
	key := p.Canonical()
	if v, ok := c.entries.Load(key); ok {
		c.hits.Add(1)
		return v.(*Matcher), nil
	}
	c.misses.Add(1)

	m, err := c.build(key)
	if err != nil {
		return nil, err
	}
	actual, loaded := c.entries.LoadOrStore(key, m)
	if !loaded {
		c.size.Add(1)
		if m.IsPermissive() {
			c.fallbacks.Add(1)
		}
	}
	return actual.(*Matcher), nil
}

// MustGet is like Get but panics if the Matcher cannot be built.
func (c *Cache) MustGet(p pattern.Pattern) *Matcher {
	m, err := c.Get(p)
	if err != nil {
		panic("meta: Cache.MustGet(" + p.String() + "): " + err.Error())
	}
	return m
}

func (c *Cache) build(p pattern.Pattern) (*Matcher, error) {
	var (
		m   *Matcher
		err error
	)
	if c.config.PermissiveFallback {
		m, err = CompilePermissive(p, c.config)
	} else {
		m, err = Compile(p, c.config)
	}
	if err != nil {
		return nil, err
	}

	if m.IsPermissive() {
		c.logger.Warn("pattern failed to build, accepting all input",
			slog.String("pattern", p.String()),
			slog.Any("error", m.Err()),
			slog.Bool("oracle", m.HasOracle()),
		)
		return m, nil
	}

	attrs := []any{
		slog.String("pattern", p.String()),
		slog.Int("states", m.NFA().States()),
		slog.Bool("oracle", m.HasOracle()),
		slog.Bool("prefilter", m.prefilter != nil),
	}
	if err := m.OracleErr(); err != nil {
		attrs = append(attrs, slog.Any("oracle_error", err))
	}
	c.logger.Debug("matcher built", attrs...)
	return m, nil
}

// Len returns the number of stored Matchers.
func (c *Cache) Len() int {
	return int(c.size.Load())
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() CacheStats {
	return CacheStats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Fallbacks: c.fallbacks.Load(),
	}
}

// Config returns the configuration Matchers are built with.
func (c *Cache) Config() Config {
	return c.config
}
