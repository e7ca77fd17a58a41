package dashboard

import (
	"math"
	"sync"
	"time"
)

// progressTicker advances a cosmetic percentage on a fixed interval. It stops
// by itself at 100 or when Stop is called; Stop is idempotent and returns only
// after the ticking goroutine has exited.
type progressTicker struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func startTicker(interval time.Duration, maxStep float64, step func() float64, report func(float64)) *progressTicker {
	t := &progressTicker{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go t.run(interval, maxStep, step, report)
	return t
}

func (t *progressTicker) run(interval time.Duration, maxStep float64, step func() float64, report func(float64)) {
	defer close(t.done)

	tk := time.NewTicker(interval)
	defer tk.Stop()

	progress := 0.0
	for {
		select {
		case <-t.stop:
			return
		case <-tk.C:
			// step() is in [0,1); 1-step keeps every increment positive.
			progress += (1 - step()) * maxStep
			if progress > 100 {
				progress = 100
			}
			report(progress)
			if progress >= 100 {
				return
			}
		}
	}
}

// Stop cancels the ticker and waits for it to exit.
func (t *progressTicker) Stop() {
	t.once.Do(func() { close(t.stop) })
	<-t.done
}

// progressReporter serializes progress from the ticker and the real upload
// into one callback. Values not above the last one sent are dropped, so the
// callback sees a strictly increasing sequence. Once sealed, further reports
// are dropped.
type progressReporter struct {
	mu     sync.Mutex
	fn     func(int)
	last   int
	sealed bool
}

func newProgressReporter(fn func(int)) *progressReporter {
	return &progressReporter{fn: fn, last: -1}
}

func (r *progressReporter) report(pct int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed || r.fn == nil {
		return
	}
	pct = min(max(pct, 0), 100)
	if pct <= r.last {
		return
	}
	r.last = pct
	r.fn(pct)
}

func (r *progressReporter) tick(progress float64) {
	r.report(int(math.Floor(progress)))
}

// finish seals the reporter, emitting a final 100 unless that was already
// the last value sent.
func (r *progressReporter) finish() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return
	}
	r.sealed = true
	if r.fn != nil && r.last != 100 {
		r.last = 100
		r.fn(100)
	}
}
