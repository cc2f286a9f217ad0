package engine

import (
	"context"
	"maps"
	"sync"
	"time"
)

// tick is posted to the controller mailbox by scheduler goroutines.
type tick struct {
	gen  uint64
	kind TickKind
}

// scheduler owns the ticker goroutines of one running stretch of a session.
// It is created on start or resume and stopped exactly once on pause, end,
// reset or shutdown. On stop each goroutine records how far it had got
// toward its next tick, so a resumed stretch continues the cadence instead
// of restarting every interval from zero.
type scheduler struct {
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once

	mu   sync.Mutex
	left map[TickKind]time.Duration
}

// startScheduler starts one goroutine per positive interval. carry holds the
// progress toward the next tick left over from the previous stretch.
func startScheduler(parent context.Context, gen uint64, intervals, carry map[TickKind]time.Duration, inbox chan<- any) *scheduler {
	ctx, cancel := context.WithCancel(parent)
	s := &scheduler{cancel: cancel, left: make(map[TickKind]time.Duration, len(intervals))}
	for kind, d := range intervals {
		if d <= 0 {
			continue
		}
		s.wg.Add(1)
		go s.run(ctx, gen, kind, d, min(max(carry[kind], 0), d), inbox)
	}
	return s
}

func (s *scheduler) run(ctx context.Context, gen uint64, kind TickKind, d, done time.Duration, inbox chan<- any) {
	defer s.wg.Done()
	since := time.Now().Add(-done)
	t := time.NewTimer(d - done)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			s.record(kind, min(time.Since(since), d))
			return
		case <-t.C:
			select {
			case inbox <- tick{gen: gen, kind: kind}:
			case <-ctx.Done():
				// due but undelivered; fire first thing on resume
				s.record(kind, d)
				return
			}
			since = since.Add(d)
			wait := time.Until(since.Add(d))
			if wait <= 0 {
				since, wait = time.Now(), d
			}
			t.Reset(wait)
		}
	}
}

func (s *scheduler) record(kind TickKind, progress time.Duration) {
	s.mu.Lock()
	s.left[kind] = progress
	s.mu.Unlock()
}

// stop cancels every ticker, waits for the goroutines to exit and returns
// the progress each one had made toward its next tick. Repeated calls are
// no-ops returning the same progress.
func (s *scheduler) stop() map[TickKind]time.Duration {
	s.once.Do(func() {
		s.cancel()
		s.wg.Wait()
	})
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.left)
}
