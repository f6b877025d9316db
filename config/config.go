// Package config reads the codec's environment-variable tunables once
// and caches the result, matching the reference implementation's
// static-init-on-first-use pattern for its thread count.
package config

import (
	"os"
	"runtime"
	"strconv"
	"sync"
)

// Config holds every HKN_*/HAKONYANS_* tunable the codec reads.
// HAKONYANS_* names are honored for compatibility with the reference
// implementation's own environment variables; HKN_* is the shorter
// form this codec introduces and takes precedence when both are set.
type Config struct {
	// Threads caps the thread-budget token count (see package
	// threadpool). 0 or unset falls back to GOMAXPROCS.
	Threads int

	// MaxPaletteColors is read from HKN_MAX_PALETTE_COLORS; no encoder
	// stage consults it, so screenroute.MaxPaletteColors stays the cap.
	MaxPaletteColors int

	// DisableOptimalParse is read from HKN_DISABLE_OPTIMAL_PARSE; no
	// encoder stage consults it, so natural-row mode 2 probes the
	// optimal-parse (DP) lane whether or not it is set.
	DisableOptimalParse bool
}

var (
	once   sync.Once
	loaded Config
)

// Load returns the process-wide Config, parsing environment variables
// on the first call and caching the result for every call after.
func Load() Config {
	once.Do(func() {
		loaded = Config{
			Threads:             lookupInt("HKN_THREADS", "HAKONYANS_THREADS", 0),
			MaxPaletteColors:    lookupInt("HKN_MAX_PALETTE_COLORS", "HAKONYANS_MAX_PALETTE_COLORS", 0),
			DisableOptimalParse: lookupBool("HKN_DISABLE_OPTIMAL_PARSE", "HAKONYANS_DISABLE_OPTIMAL_PARSE"),
		}
	})
	return loaded
}

// ThreadsOrDefault returns c.Threads if set, else runtime.GOMAXPROCS(0).
func (c Config) ThreadsOrDefault() int {
	if c.Threads > 0 {
		return c.Threads
	}
	return runtime.GOMAXPROCS(0)
}

func lookupInt(primary, fallback string, def int) int {
	for _, name := range []string{primary, fallback} {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			continue
		}
		if n > 256 {
			n = 256
		}
		return n
	}
	return def
}

func lookupBool(primary, fallback string) bool {
	for _, name := range []string{primary, fallback} {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return false
}
