// Package parallel splits row-oriented image work across goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum rows per goroutine to avoid overhead.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 16, // A 400px-wide image row is ~6KB; 16 rows keeps chunks cache sized.
	}
}

// WithWorkers returns a copy of cfg using n workers. n <= 0 keeps the
// current value; n == 1 disables parallelism.
func (cfg Config) WithWorkers(n int) Config {
	if n <= 0 {
		return cfg
	}
	cfg.NumWorkers = n
	cfg.Enabled = n > 1
	return cfg
}

// chunks returns the [start, end) ranges ForRange dispatches.
func (cfg Config) chunks(n int) [][2]int {
	if n <= 0 {
		return nil
	}
	if !cfg.Enabled || cfg.NumWorkers <= 1 || n < cfg.MinChunkSize {
		return [][2]int{{0, n}}
	}

	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize, 1)
	out := make([][2]int, 0, (n+chunkSize-1)/chunkSize)
	for start := 0; start < n; start += chunkSize {
		out = append(out, [2]int{start, min(start+chunkSize, n)})
	}
	return out
}

// ForRange executes f(chunk, start, end) over disjoint ranges covering
// [0, n). chunk is the index of the range, stable for a given n and cfg,
// so callers can keep per-chunk partial results without locking.
// It returns the number of chunks used.
func ForRange(n int, f func(chunk, start, end int), cfg Config) int {
	ranges := cfg.chunks(n)
	if len(ranges) == 1 {
		f(0, ranges[0][0], ranges[0][1])
		return 1
	}

	var wg sync.WaitGroup
	for i, r := range ranges {
		wg.Add(1)
		go func(chunk, s, e int) {
			defer wg.Done()
			f(chunk, s, e)
		}(i, r[0], r[1])
	}
	wg.Wait()
	return len(ranges)
}

// NumChunks reports how many ranges ForRange will use for n items.
func NumChunks(n int, cfg Config) int {
	return len(cfg.chunks(n))
}
