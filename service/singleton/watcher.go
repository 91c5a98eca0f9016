package singleton

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/armyhq/restockbot/model"
	"github.com/armyhq/restockbot/service/probe"
)

var WatcherShared *Watcher

// Watcher runs availability check cycles. A cycle is fetch → classify →
// record → reconcile against status memory → maybe confirm and alert. The
// mutex guarantees at most one cycle in flight: scheduled ticks and manual
// checks both read-then-write the single memory row, and interleaving them
// would corrupt transition detection.
type Watcher struct {
	FetchPage   func(ctx context.Context) (string, error)
	ConfirmWait time.Duration

	// mu serializes check cycles; modeMu only guards lastMode so the info
	// report never waits behind an in-flight fetch
	mu       sync.Mutex
	modeMu   sync.Mutex
	lastMode string
}

// NewWatcher wires a watcher against the configured product page.
func NewWatcher() *Watcher {
	f := &probe.Fetcher{
		URL:     Conf.Product.URL,
		Timeout: time.Duration(Conf.FetchTimeoutSeconds) * time.Second,
	}
	return &Watcher{
		FetchPage:   f.Fetch,
		ConfirmWait: time.Duration(Conf.ConfirmWaitSeconds) * time.Second,
	}
}

// LastMode returns the mode of the most recent cycle, for the info report.
func (w *Watcher) LastMode() string {
	w.modeMu.Lock()
	defer w.modeMu.Unlock()
	if w.lastMode == "" {
		return "N/A"
	}
	return w.lastMode
}

func (w *Watcher) setLastMode(mode string) {
	w.modeMu.Lock()
	w.lastMode = mode
	w.modeMu.Unlock()
}

// RunCheck executes one full check cycle. It never returns an error: every
// failure is contained in the cycle, logged, and left for the next tick.
func (w *Watcher) RunCheck(mode string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			log.Println("RESTOCK>> check cycle panicked:", r)
		}
	}()
	w.setLastMode(mode)

	mem, err := GetMemory()
	if err != nil {
		log.Println("RESTOCK>> cannot read status memory:", err)
		return
	}

	current, latency, err := w.fetchAndClassify()
	if err != nil {
		// availability forced false in the log row; memory stays untouched
		// because a transient failure is not a stock-out
		if err := RecordCheck(mode, false, latency, err); err != nil {
			log.Println("RESTOCK>> failed to record check:", err)
		}
		return
	}
	if err := RecordCheck(mode, current, latency, nil); err != nil {
		log.Println("RESTOCK>> failed to record check:", err)
	}
	now := time.Now().In(Loc)

	switch {
	case !mem.Known():
		// first observation ever: remember it, never alert, even if the
		// product happens to be available at process start
		w.updateMemory(current, now)
	case !*mem.LastStatus && current:
		w.confirmRestock(mode, latency)
	default:
		// no-op repeats and available→unavailable are both accepted as-is;
		// only the upward edge needs confirmation
		w.updateMemory(current, now)
	}
}

// confirmRestock re-reads the page after a short delay before accepting a
// candidate unavailable→available edge. Single-sample scrapes produce
// transient false positives from CDN caches.
func (w *Watcher) confirmRestock(mode string, candidateLatency time.Duration) {
	time.Sleep(w.ConfirmWait)

	confirmed, latency, err := w.fetchAndClassify()
	if err != nil {
		// candidate discarded; memory untouched so the next tick can try
		// the same edge again
		if err := RecordCheck(mode, false, latency, err); err != nil {
			log.Println("RESTOCK>> failed to record check:", err)
		}
		return
	}
	if err := RecordCheck(mode, confirmed, latency, nil); err != nil {
		log.Println("RESTOCK>> failed to record check:", err)
	}

	// the confirmation read is authoritative either way: on rejection the
	// memory takes its value, not the pre-candidate one
	now := time.Now().In(Loc)
	w.updateMemory(confirmed, now)

	if confirmed {
		AlerterShared.ConfirmedRestock(mode, candidateLatency, now)
	}
}

func (w *Watcher) fetchAndClassify() (available bool, latency time.Duration, err error) {
	start := time.Now()
	page, err := w.FetchPage(context.Background())
	latency = time.Since(start)
	if err != nil {
		return false, latency, err
	}
	return model.Available(page), latency, nil
}

func (w *Watcher) updateMemory(status bool, at time.Time) {
	if err := UpdateMemory(status, at); err != nil {
		log.Println("RESTOCK>> failed to update status memory:", err)
	}
}
