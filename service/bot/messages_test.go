package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/armyhq/restockbot/model"
	"github.com/armyhq/restockbot/service/singleton"
)

func testConf() *model.Config {
	conf := &model.Config{BaseSeconds: 180, PeakSeconds: 60}
	conf.Product.Name = "ARMY BOMB VER.4"
	conf.Product.URL = "https://shop.example.com/sales/54189"
	return conf
}

func TestKeyboardLabels(t *testing.T) {
	conf := testConf()

	locked := keyboardLabels(false, true, true, conf)
	assert.Contains(t, locked[1], btnPeakLocked)
	assert.Contains(t, locked[2], btnSilentLocked)

	open := keyboardLabels(true, true, false, conf)
	assert.Contains(t, open[1], "Peak: ON (60s)")
	assert.Contains(t, open[2], "Silent: OFF")

	off := keyboardLabels(true, false, false, conf)
	assert.Contains(t, off[1], "Peak: OFF (180s)")
}

func TestScheduleTextListsPeakWindows(t *testing.T) {
	txt := scheduleText("23:00", "07:00")
	assert.Contains(t, txt, "20:30 – 02:30")
	assert.Contains(t, txt, "05:30 – 06:30")
	assert.Contains(t, txt, "23:00 – 07:00")
}

func TestBuildInfoTextStates(t *testing.T) {
	conf := testConf()

	// no memory yet
	txt := buildInfoText(infoData{Conf: conf, LastMode: "N/A"})
	assert.Contains(t, txt, "no data yet")
	assert.Contains(t, txt, "peak mode: premium")

	avail := true
	at := time.Date(2026, 3, 1, 21, 15, 0, 0, time.UTC)
	mem := &model.StatusMemory{ID: 1, LastStatus: &avail, LastChangeAt: at, LastCheckAt: at}
	txt = buildInfoText(infoData{
		Conf:     conf,
		Premium:  true,
		Memory:   mem,
		Peak:     true,
		PeakNow:  true,
		LastMode: model.CheckModePeak,
		Stats:    &singleton.DayStats{Total: 40, Errors: 2, AvgMS: 180, MaxMS: 900},
		TopLat:   []singleton.HourLatency{{Hour: 21, Count: 12, AvgMS: 300}},
		TopRes:   []singleton.HourRestocks{{Hour: 21, Hits: 2}},
	})
	assert.Contains(t, txt, "AVAILABLE")
	assert.Contains(t, txt, "21:15")
	assert.Contains(t, txt, "peak mode: ON")
	assert.Contains(t, txt, "current window: PEAK")
	assert.Contains(t, txt, "checks: 40")
	assert.Contains(t, txt, "21h — n:12 avg:300ms")
	assert.Contains(t, txt, "21h — hits:2")
}

func TestManualResultText(t *testing.T) {
	conf := testConf()
	at := time.Date(2026, 3, 1, 14, 5, 0, 0, time.UTC)

	ok := &model.Check{Mode: model.CheckModeManual, Available: true, LatencyMS: 240}
	assert.Contains(t, manualResultText(ok, conf, at), "AVAILABLE")

	none := &model.Check{Mode: model.CheckModeManual, Available: false, LatencyMS: 240}
	assert.Contains(t, manualResultText(none, conf, at), "no stock")

	failed := &model.Check{Mode: model.CheckModeManual, Error: "timeout", LatencyMS: 25000}
	txt := manualResultText(failed, conf, at)
	assert.Contains(t, txt, "hiccup")
	assert.Contains(t, txt, "25.0s")
}
