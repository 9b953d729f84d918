// Package meta builds and caches Matchers: one compiled automaton per
// pattern, paired with the engines that answer full-match questions.
//
// A Matcher coordinates three pieces:
//   - Prefilter: Aho-Corasick scan for literals every match must contain
//   - Oracle: an ECMAScript regex engine confirming full matches with
//     JavaScript semantics for input the NFA keeps alive
//   - NFA: the Thompson automaton answering "can this prefix still match",
//     and full matches when no oracle is available
//
// Patterns with backreferences or lookaround get no oracle. The NFA treats
// those constructs as empty, and its answers stay authoritative for them.
//
// Patterns that fail to parse fall back to a permissive Matcher, so a bad
// pattern never locks a user out of a field.
package meta

import (
	"time"
)

// Config controls how Matchers are built.
//
// Example:
//
//	config := meta.DefaultConfig()
//	config.PermissiveFallback = false // Surface bad patterns as errors
//	cache, err := meta.NewCache(config)
type Config struct {
	// PermissiveFallback makes a pattern that fails to parse or compile
	// yield a Matcher that accepts every prefix instead of an error.
	// Default: true
	PermissiveFallback bool

	// EnableOracle confirms full matches with an ECMAScript regex engine
	// in addition to the NFA.
	// Default: true
	EnableOracle bool

	// OracleTimeout bounds a single oracle evaluation. On timeout the NFA
	// answers instead.
	// Default: 100ms
	OracleTimeout time.Duration

	// EnablePrefilter enables the required-literal prefilter.
	// Default: true
	EnablePrefilter bool

	// MaxLiterals limits the number of literals extracted for prefiltering.
	// Default: 64
	MaxLiterals int

	// MaxClassExpansion is the largest character class compiled into one
	// edge per member.
	// Default: 256
	MaxClassExpansion int

	// MaxStates bounds the NFA size.
	// Default: 100000
	MaxStates int

	// MaxRecursionDepth limits recursion during NFA compilation.
	// Default: 100
	MaxRecursionDepth int
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		PermissiveFallback: true,
		EnableOracle:       true,
		OracleTimeout:      100 * time.Millisecond,
		EnablePrefilter:    true,
		MaxLiterals:        64,
		MaxClassExpansion:  256,
		MaxStates:          100_000,
		MaxRecursionDepth:  100,
	}
}

// Validate checks if the configuration is valid.
// Returns an error if any parameter is out of range.
//
// Valid ranges:
//   - OracleTimeout: 1ms to 10s (when EnableOracle)
//   - MaxLiterals: 1 to 1,000 (when EnablePrefilter)
//   - MaxClassExpansion: 1 to 65,536
//   - MaxStates: 16 to 10,000,000
//   - MaxRecursionDepth: 10 to 1,000
func (c Config) Validate() error {
	if c.EnableOracle {
		if c.OracleTimeout < time.Millisecond || c.OracleTimeout > 10*time.Second {
			return &ConfigError{
				Field:   "OracleTimeout",
				Message: "must be between 1ms and 10s",
			}
		}
	}

	if c.EnablePrefilter {
		if c.MaxLiterals < 1 || c.MaxLiterals > 1_000 {
			return &ConfigError{
				Field:   "MaxLiterals",
				Message: "must be between 1 and 1,000",
			}
		}
	}

	if c.MaxClassExpansion < 1 || c.MaxClassExpansion > 65_536 {
		return &ConfigError{
			Field:   "MaxClassExpansion",
			Message: "must be between 1 and 65,536",
		}
	}

	if c.MaxStates < 16 || c.MaxStates > 10_000_000 {
		return &ConfigError{
			Field:   "MaxStates",
			Message: "must be between 16 and 10,000,000",
		}
	}

	if c.MaxRecursionDepth < 10 || c.MaxRecursionDepth > 1_000 {
		return &ConfigError{
			Field:   "MaxRecursionDepth",
			Message: "must be between 10 and 1,000",
		}
	}

	return nil
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "meta: invalid config: " + e.Field + ": " + e.Message
}
