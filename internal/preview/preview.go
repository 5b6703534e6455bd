// Package preview runs full-image convolutions off the caller's goroutine.
//
// Rapid successive requests (for example one per keystroke while a kernel
// is edited) are debounced, and every request is stamped with an
// increasing sequence number. A result is published only if its request is
// still the most recent one; stale results are dropped, never merged.
package preview

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/born-ml/convscope/internal/vision"
)

// DefaultDebounce is the quiet period before a request is computed.
const DefaultDebounce = 150 * time.Millisecond

// Convolver is the engine the scheduler drives.
type Convolver interface {
	Convolve(img vision.ImageBuffer, kernel vision.Kernel, opts vision.ProcessingOptions) vision.ImageBuffer
}

// Request is one preview computation.
type Request struct {
	Image   vision.ImageBuffer
	Kernel  vision.Kernel
	Options vision.ProcessingOptions
}

// Result is a finished preview.
type Result struct {
	Seq     uint64
	Image   vision.ImageBuffer
	Elapsed time.Duration
}

// Scheduler debounces and sequences preview requests.
type Scheduler struct {
	engine   Convolver
	debounce time.Duration
	logger   *slog.Logger

	latest atomic.Uint64

	mu      sync.Mutex
	timer   *time.Timer
	closed  bool
	results chan Result
	wg      sync.WaitGroup
}

// NewScheduler creates a scheduler. debounce <= 0 computes each request
// immediately. A nil logger uses slog.Default().
func NewScheduler(engine Convolver, debounce time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		engine:   engine,
		debounce: debounce,
		logger:   logger,
		results:  make(chan Result, 1),
	}
}

// Results delivers published previews. Only the newest unread result is
// buffered; an unread older result is replaced. The channel is closed by
// Close.
func (s *Scheduler) Results() <-chan Result {
	return s.results
}

// Latest returns the sequence number of the most recent request.
func (s *Scheduler) Latest() uint64 {
	return s.latest.Load()
}

// Submit schedules req and returns its sequence number, or 0 if the
// scheduler is closed.
func (s *Scheduler) Submit(req Request) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0
	}
	seq := s.latest.Add(1)

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.debounce <= 0 {
		s.startLocked(seq, req)
		return seq
	}

	s.timer = time.AfterFunc(s.debounce, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed || seq != s.latest.Load() {
			return
		}
		s.startLocked(seq, req)
	})
	return seq
}

// startLocked launches the computation. s.mu must be held.
func (s *Scheduler) startLocked(seq uint64, req Request) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		log := s.logger.With(slog.Uint64("seq", seq), slog.String("job", uuid.NewString()))
		start := time.Now()
		out := s.engine.Convolve(req.Image, req.Kernel, req.Options)
		elapsed := time.Since(start)

		s.mu.Lock()
		defer s.mu.Unlock()
		if seq != s.latest.Load() {
			log.Debug("dropping stale preview", slog.Uint64("latest", s.latest.Load()))
			return
		}

		// Replace any unread result so the channel never blocks.
		select {
		case <-s.results:
		default:
		}
		s.results <- Result{Seq: seq, Image: out, Elapsed: elapsed}
		log.Debug("preview ready",
			slog.Duration("elapsed", elapsed),
			slog.Int("width", out.Width),
			slog.Int("height", out.Height))
	}()
}

// Close cancels any pending debounce, waits for running computations and
// closes the Results channel. It is safe to call more than once.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	// Invalidate in-flight work so nothing publishes after close.
	s.latest.Add(1)
	s.closed = true
	s.mu.Unlock()

	s.wg.Wait()
	close(s.results)
}
