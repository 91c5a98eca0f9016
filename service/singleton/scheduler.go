package singleton

import (
	"log"
	"time"
)

// StartPoller drives scheduled checks with a single timer. Each tick it
// recomputes the applicable cadence from the clock and the peak-mode toggle,
// so the priority rule is explicit: PEAK cadence only when peak mode is on
// and the clock is inside a peak window, NORMAL cadence otherwise. The check
// itself runs on another goroutine so timer delivery never waits on network
// I/O.
func StartPoller(stop <-chan struct{}) {
	go pollLoop(stop)
}

func pollLoop(stop <-chan struct{}) {
	_, first := pollPlan()
	timer := time.NewTimer(first)
	defer timer.Stop()
	for {
		select {
		case <-stop:
			return
		case <-timer.C:
			mode, next := pollPlan()
			go WatcherShared.RunCheck(mode)
			if Conf.Debug {
				log.Printf("RESTOCK>> %s check dispatched, next tick in %s", mode, next)
			}
			timer.Reset(next)
		}
	}
}

// pollPlan combines the wall clock with the runtime peak-mode toggle.
func pollPlan() (string, time.Duration) {
	return Conf.PollPlan(time.Now().In(Loc), IsPeakEnabled())
}
