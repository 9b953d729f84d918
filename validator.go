package incregex

import (
	"github.com/coregx/incregex/meta"
	"github.com/coregx/incregex/pattern"
)

// Validator validates field input against many patterns, building each
// pattern's Matcher once.
//
// Methods return an error only when a Matcher cannot be built, which with
// the default PermissiveFallback never happens: a bad pattern then accepts
// every input as PotentiallyValid. A Validator is safe for concurrent use.
type Validator struct {
	cache *meta.Cache
}

// NewValidator creates a Validator with an empty Matcher cache.
func NewValidator(cfg meta.Config, opts ...meta.CacheOption) (*Validator, error) {
	cache, err := meta.NewCache(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Validator{cache: cache}, nil
}

// Matcher returns the cached Matcher for p.
func (v *Validator) Matcher(p pattern.Pattern) (*meta.Matcher, error) {
	return v.cache.Get(p)
}

// Classify is Classify with p's cached Matcher.
func (v *Validator) Classify(p pattern.Pattern, input string) (Status, error) {
	m, err := v.cache.Get(p)
	if err != nil {
		return Invalid, err
	}
	return Classify(m, input), nil
}

// TruncateToValidPrefix is TruncateToValidPrefix with p's cached Matcher.
func (v *Validator) TruncateToValidPrefix(p pattern.Pattern, input string) (string, error) {
	m, err := v.cache.Get(p)
	if err != nil {
		return "", err
	}
	return TruncateToValidPrefix(m, input), nil
}

// Matches is Matches with p's cached Matcher.
func (v *Validator) Matches(p pattern.Pattern, input string) (bool, error) {
	m, err := v.cache.Get(p)
	if err != nil {
		return false, err
	}
	return m.Matches(input), nil
}

// Apply is Apply with p's cached Matcher.
func (v *Validator) Apply(p pattern.Pattern, mode Mode, input string) (Result, error) {
	m, err := v.cache.Get(p)
	if err != nil {
		return Result{}, err
	}
	return Apply(m, mode, input), nil
}

// Stats returns the Matcher cache counters.
func (v *Validator) Stats() meta.CacheStats {
	return v.cache.Stats()
}

// Len returns the number of cached Matchers.
func (v *Validator) Len() int {
	return v.cache.Len()
}
