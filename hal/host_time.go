//go:build !tinygo

package hal

import (
	"context"
	"time"
)

// DefaultTickPeriod is the host executive tick. Hardware ticks every
// millisecond; the host scheduler cannot hold that cadence reliably.
const DefaultTickPeriod = 10 * time.Millisecond

type hostTime struct {
	ch     chan uint64
	seq    uint64
	period time.Duration
}

func newHostTime(period time.Duration) *hostTime {
	if period <= 0 {
		period = DefaultTickPeriod
	}
	return &hostTime{ch: make(chan uint64, 1024), period: period}
}

func (t *hostTime) Ticks() <-chan uint64 { return t.ch }

// run emits ticks until ctx is done or limit ticks have been sent
// (0 = no limit).
func (t *hostTime) run(ctx context.Context, limit uint64) {
	tk := time.NewTicker(t.period)
	defer tk.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tk.C:
			t.stepN(1)
			if limit > 0 && t.seq >= limit {
				return
			}
		}
	}
}

func (t *hostTime) stepN(n uint64) {
	for i := uint64(0); i < n; i++ {
		t.seq++
		select {
		case t.ch <- t.seq:
		default:
		}
	}
}
