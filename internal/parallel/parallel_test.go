package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForRange(t *testing.T) {
	cfg := DefaultConfig()

	var counter int64
	n := 1000

	ForRange(n, func(_, start, end int) {
		atomic.AddInt64(&counter, int64(end-start))
	}, cfg)

	assert.Equal(t, int64(n), counter)
}

func TestForRange_Sequential(t *testing.T) {
	cfg := Config{Enabled: false}

	calls := 0
	chunks := ForRange(100, func(chunk, start, end int) {
		calls++
		assert.Equal(t, 0, chunk)
		assert.Equal(t, 0, start)
		assert.Equal(t, 100, end)
	}, cfg)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, chunks)
}

func TestForRange_Empty(t *testing.T) {
	called := false
	chunks := ForRange(0, func(_, _, _ int) { called = true }, DefaultConfig())
	assert.False(t, called)
	assert.Equal(t, 0, chunks)
	assert.Equal(t, 0, NumChunks(0, DefaultConfig()))
}

func TestForRange_CoversEveryIndexOnce(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 3}
	n := 50

	hits := make([]int32, n)
	chunks := ForRange(n, func(_, start, end int) {
		for i := start; i < end; i++ {
			atomic.AddInt32(&hits[i], 1)
		}
	}, cfg)

	assert.Equal(t, NumChunks(n, cfg), chunks)
	assert.Equal(t, 4, chunks)
	for i, h := range hits {
		assert.Equal(t, int32(1), h, "index %d", i)
	}
}

func TestForRange_SmallChunk(t *testing.T) {
	// Small work units fall back to a single sequential chunk.
	cfg := DefaultConfig()
	n := cfg.MinChunkSize - 1

	chunks := ForRange(n, func(chunk, start, end int) {
		assert.Equal(t, 0, chunk)
		assert.Equal(t, 0, start)
		assert.Equal(t, n, end)
	}, cfg)
	assert.Equal(t, 1, chunks)
}

func TestWithWorkers(t *testing.T) {
	cfg := DefaultConfig().WithWorkers(1)
	assert.False(t, cfg.Enabled)

	cfg = cfg.WithWorkers(8)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 8, cfg.NumWorkers)

	assert.Equal(t, cfg, cfg.WithWorkers(0))
}

func BenchmarkForRange(b *testing.B) {
	cfg := DefaultConfig()
	n := 10000

	sum := func(_, start, end int) {
		var total int64
		for i := start; i < end; i++ {
			total += int64(i)
		}
		_ = total
	}

	b.Run("parallel", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			ForRange(n, sum, cfg)
		}
	})

	b.Run("sequential", func(b *testing.B) {
		cfgSeq := cfg
		cfgSeq.Enabled = false
		for i := 0; i < b.N; i++ {
			ForRange(n, sum, cfgSeq)
		}
	})
}
