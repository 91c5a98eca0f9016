package singleton

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/armyhq/restockbot/model"
	"github.com/armyhq/restockbot/pkg/utils"
)

func writeSettingsDoc(t *testing.T, s model.Settings) {
	t.Helper()
	data, err := utils.Json.Marshal(s)
	assert.Nil(t, err)
	assert.Nil(t, utils.WriteFileAtomic(settingsPath, data, 0o644))
}

func TestBurstOutsideSilentWindow(t *testing.T) {
	testSetup(t)
	sender := &fakeSender{}
	a := NewAlerter(sender)

	a.ConfirmedRestock(model.CheckModePeak, 150*time.Millisecond, time.Now().In(Loc))
	waitForAlerts(t, sender, 3)

	sender.mu.Lock()
	defer sender.mu.Unlock()
	assert.Contains(t, sender.texts[0], "RESTOCK CONFIRMED")
	assert.Contains(t, sender.texts[0], Conf.Product.URL)
	assert.Contains(t, sender.texts[1], "(2/3)")
	assert.Contains(t, sender.texts[2], "(3/3)")
}

func TestBurstRepeatsAreSpaced(t *testing.T) {
	testSetup(t)
	sender := &fakeSender{}
	a := &Alerter{Sender: sender, Repeat: 3, Gap: 120 * time.Millisecond}

	a.ConfirmedRestock(model.CheckModeNormal, 100*time.Millisecond, time.Now().In(Loc))
	waitForAlerts(t, sender, 3)

	sender.mu.Lock()
	defer sender.mu.Unlock()
	assert.GreaterOrEqual(t, sender.times[1].Sub(sender.times[0]), a.Gap)
	assert.GreaterOrEqual(t, sender.times[2].Sub(sender.times[1]), a.Gap)
}

func TestSilentWindowSendsOnlyPrimary(t *testing.T) {
	testSetup(t)

	// silent window covering the current hour
	now := time.Now().In(Loc)
	s := model.DefaultSettings()
	s.SilentEnabled = true
	s.SilentStart = fmt.Sprintf("%02d:00", now.Hour())
	s.SilentEnd = fmt.Sprintf("%02d:00", (now.Hour()+1)%24)
	writeSettingsDoc(t, s)

	sender := &fakeSender{}
	a := NewAlerter(sender)
	a.ConfirmedRestock(model.CheckModeNormal, 100*time.Millisecond, now)

	waitForAlerts(t, sender, 1)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, sender.count())

	sender.mu.Lock()
	defer sender.mu.Unlock()
	assert.Contains(t, sender.texts[0], "silent mode")
}

func TestAllowManualCheckCooldown(t *testing.T) {
	testSetup(t)
	assert.True(t, AllowManualCheck(42))
	assert.False(t, AllowManualCheck(42)) // inside the cooldown
	assert.True(t, AllowManualCheck(7))   // other users unaffected
}

func TestDuplicateBurstIsMuted(t *testing.T) {
	testSetup(t)
	sender := &fakeSender{}
	a := NewAlerter(sender)

	a.ConfirmedRestock(model.CheckModeNormal, 100*time.Millisecond, time.Now().In(Loc))
	waitForAlerts(t, sender, 3)

	a.ConfirmedRestock(model.CheckModeNormal, 100*time.Millisecond, time.Now().In(Loc))
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 3, sender.count())
}
