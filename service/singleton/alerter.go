package singleton

import (
	"fmt"
	"log"
	"time"
)

var AlerterShared *Alerter

// Sender delivers one message to the alert channel. The chat transport
// implements it; tests substitute their own.
type Sender interface {
	SendAlert(text string) error
}

// Repeated confirmed-restock bursts inside this window are suppressed, the
// same way repeat incident notifications are muted upstream.
const alertMuteWindow = 15 * time.Minute

const alertMuteLabel = "mute::restock"

// Alerter turns a confirmed restock into a bounded notification burst.
type Alerter struct {
	Sender Sender
	Repeat int           // total messages including the primary
	Gap    time.Duration // spacing between repeated sends
}

// NewAlerter ..
func NewAlerter(sender Sender) *Alerter {
	return &Alerter{
		Sender: sender,
		Repeat: Conf.AlertRepeat,
		Gap:    time.Duration(Conf.AlertGapSeconds) * time.Second,
	}
}

// ConfirmedRestock fires the alert burst for a confirmed restock. The burst
// runs on its own goroutine: it only talks to the chat channel, so the check
// cycle does not need to wait out the send gaps.
func (a *Alerter) ConfirmedRestock(mode string, latency time.Duration, at time.Time) {
	if _, muted := Cache.Get(alertMuteLabel); muted {
		log.Println("RESTOCK>> duplicate restock alert muted")
		return
	}
	Cache.Set(alertMuteLabel, struct{}{}, alertMuteWindow)

	silent := InSilentWindow(at)
	go a.burst(mode, latency, at, silent)
}

func (a *Alerter) burst(mode string, latency time.Duration, at time.Time, silent bool) {
	header := "RESTOCK CONFIRMED"
	if silent {
		header = "RESTOCK CONFIRMED (silent mode)"
	}
	primary := fmt.Sprintf(
		"%s\n\n%s\n%s\ntime: %s\nmode: %s\nresponse: %dms\n\n%s",
		header,
		Conf.Product.Name,
		"The product just came back in stock.",
		at.Format("15:04"),
		mode,
		latency.Milliseconds(),
		Conf.Product.URL,
	)
	a.send(primary)

	// inside the silent window only the primary goes out, no repeats
	if silent {
		return
	}
	for i := 2; i <= a.Repeat; i++ {
		time.Sleep(a.Gap)
		a.send(fmt.Sprintf("(%d/%d) still showing in stock — %s", i, a.Repeat, Conf.Product.URL))
	}
}

// send logs delivery failures and moves on: one dropped message must not
// abort the rest of the burst.
func (a *Alerter) send(text string) {
	if err := a.Sender.SendAlert(text); err != nil {
		log.Println("RESTOCK>> alert send failed:", err)
	}
}

const manualCooldown = 30 * time.Second

// AllowManualCheck throttles user-initiated checks so a tap-happy user
// cannot hammer the shop through the bot. Scheduled checks bypass it.
func AllowManualCheck(userID int64) bool {
	label := fmt.Sprintf("manual::%d", userID)
	if _, held := Cache.Get(label); held {
		return false
	}
	Cache.Set(label, struct{}{}, manualCooldown)
	return true
}
