package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/armyhq/restockbot/model"
	"github.com/armyhq/restockbot/service/singleton"
)

// Button labels. The plain-text router matches on these, so the keyboard and
// the router must agree.
const (
	btnCheck    = "Check now"
	btnInfo     = "Info"
	btnSchedule = "Schedule"
	btnProducts = "Products"
	btnPing     = "Ping"

	btnPeakLocked   = "Peak (premium)"
	btnSilentLocked = "Silent (premium)"
)

func peakButton(enabled bool, conf *model.Config) string {
	if enabled {
		return fmt.Sprintf("Peak: ON (%ds)", conf.PeakSeconds)
	}
	return fmt.Sprintf("Peak: OFF (%ds)", conf.BaseSeconds)
}

func silentButton(enabled bool) string {
	if enabled {
		return "Silent: ON"
	}
	return "Silent: OFF"
}

// keyboardLabels lays out the reply keyboard for one user. Premium gates
// show locked placeholders instead of the live toggles.
func keyboardLabels(premium, peakEnabled, silentEnabled bool, conf *model.Config) [][]string {
	peakBtn := btnPeakLocked
	silentBtn := btnSilentLocked
	if premium {
		peakBtn = peakButton(peakEnabled, conf)
		silentBtn = silentButton(silentEnabled)
	}
	return [][]string{
		{btnCheck, btnInfo},
		{btnSchedule, peakBtn},
		{btnProducts, silentBtn},
		{btnPing},
	}
}

func startText() string {
	return "Restock watcher online.\nUse the buttons below."
}

func pingText() string {
	return "Pong. Alive and watching."
}

func premiumLockedText(feature string) string {
	return fmt.Sprintf(
		"PREMIUM FEATURE\n\n%s is available to premium users only.\n"+
			"Already premium? Send /myid to an admin to get activated.",
		feature)
}

func scheduleText(silentStart, silentEnd string) string {
	var b strings.Builder
	b.WriteString("Recommended watch windows (local time)\n")
	for _, w := range model.PeakWindows {
		fmt.Fprintf(&b, "  %02d:%02d – %02d:%02d\n",
			w.Start/60, w.Start%60, w.End/60, w.End%60)
	}
	b.WriteString("\nTip: enable peak mode only inside those windows.\n")
	fmt.Fprintf(&b, "Silent window (when enabled): %s – %s", silentStart, silentEnd)
	return b.String()
}

func productsText(conf *model.Config) string {
	// single product for now; a per-product toggle list is the planned
	// follow-up once multi-product polling lands
	return fmt.Sprintf("Watched products\n  1) %s\n\nMulti-product support is not available yet.", conf.Product.Name)
}

func peakToggleText(enabled bool, conf *model.Config) string {
	if enabled {
		return fmt.Sprintf("Peak mode ON (%ds cadence inside peak windows).", conf.PeakSeconds)
	}
	return fmt.Sprintf("Peak mode OFF (steady %ds cadence).", conf.BaseSeconds)
}

func silentToggleText(enabled bool) string {
	if enabled {
		return "Silent mode ON. Repeat alerts are suppressed during the silent window; the first alert still fires."
	}
	return "Silent mode OFF. Full alert bursts restored."
}

// infoData is everything the status report needs, gathered up front so the
// builder itself stays pure and testable.
type infoData struct {
	Conf     *model.Config
	Premium  bool
	Memory   *model.StatusMemory
	Peak     bool // peak mode toggle
	Silent   bool
	PeakNow  bool // clock currently inside a peak window
	LastMode string
	Stats    *singleton.DayStats
	TopLat   []singleton.HourLatency
	TopRes   []singleton.HourRestocks
}

func hhmm(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format("15:04")
}

func buildInfoText(d infoData) string {
	var b strings.Builder

	fmt.Fprintf(&b, "RESTOCK STATUS\n\nProduct\n  %s\n  %s\n\n", d.Conf.Product.Name, d.Conf.Product.URL)

	switch {
	case d.Memory == nil || !d.Memory.Known():
		b.WriteString("Current state\n  no data yet\n")
	case *d.Memory.LastStatus:
		b.WriteString("Current state\n  AVAILABLE\n")
	default:
		b.WriteString("Current state\n  sold out\n")
	}
	if d.Memory != nil {
		fmt.Fprintf(&b, "Last state change\n  %s\n", hhmm(d.Memory.LastChangeAt))
		fmt.Fprintf(&b, "Last check\n  %s\n", hhmm(d.Memory.LastCheckAt))
	}

	b.WriteString("\nConfiguration\n")
	if d.Premium {
		fmt.Fprintf(&b, "  peak mode: %s\n", onOff(d.Peak))
		fmt.Fprintf(&b, "  silent mode: %s\n", onOff(d.Silent))
	} else {
		b.WriteString("  peak mode: premium\n  silent mode: premium\n")
	}
	window := "NORMAL"
	if d.PeakNow {
		window = "PEAK"
	}
	fmt.Fprintf(&b, "  current window: %s\n", window)
	fmt.Fprintf(&b, "  last check mode: %s\n", d.LastMode)

	if d.Stats != nil {
		b.WriteString("\nActivity, last 24h\n")
		fmt.Fprintf(&b, "  checks: %d\n", d.Stats.Total)
		fmt.Fprintf(&b, "  network errors: %d\n", d.Stats.Errors)
		fmt.Fprintf(&b, "  avg latency: %dms\n", d.Stats.AvgMS)
		fmt.Fprintf(&b, "  max latency: %dms\n", d.Stats.MaxMS)
	}

	b.WriteString("\nBusiest hours (avg latency, 7d)\n")
	if len(d.TopLat) == 0 {
		b.WriteString("  not enough data yet\n")
	}
	for _, h := range d.TopLat {
		fmt.Fprintf(&b, "  %02dh — n:%d avg:%dms\n", h.Hour, h.Count, h.AvgMS)
	}

	b.WriteString("\nHours with most restocks (30d)\n")
	if len(d.TopRes) == 0 {
		b.WriteString("  not enough data yet\n")
	}
	for _, h := range d.TopRes {
		fmt.Fprintf(&b, "  %02dh — hits:%d\n", h.Hour, h.Hits)
	}

	return strings.TrimRight(b.String(), "\n")
}

func onOff(v bool) string {
	if v {
		return "ON"
	}
	return "OFF"
}

func manualResultText(c *model.Check, conf *model.Config, at time.Time) string {
	if c == nil {
		return "Check finished but no record was written. Try again."
	}
	if c.Failed() {
		return fmt.Sprintf(
			"Network hiccup while checking (happens sometimes).\nWill retry on the next cycle.\n\ntime: %s\nresponse: %.1fs",
			at.Format("15:04"), float64(c.LatencyMS)/1000)
	}
	if c.Available {
		return fmt.Sprintf(
			"Looks AVAILABLE right now!\n\n%s\ntime: %s\nresponse: %dms\n\n%s",
			conf.Product.Name, at.Format("15:04"), c.LatencyMS, conf.Product.URL)
	}
	return fmt.Sprintf(
		"Still no stock.\n\n%s\ntime: %s\nresponse: %dms\n\nThe watcher keeps polling.",
		conf.Product.Name, at.Format("15:04"), c.LatencyMS)
}
