package singleton

import (
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/armyhq/restockbot/model"
	"github.com/armyhq/restockbot/pkg/utils"
)

// Settings document: low write frequency, so the discipline is simply one
// writer at a time, read the whole document, rewrite the whole document.
var (
	settingsLock sync.Mutex
	settingsPath string
)

// LoadSettings resolves the document path and seeds it with defaults on
// first run, so operators find an editable file instead of an absent one.
func LoadSettings() {
	settingsPath = filepath.Join(Conf.DataDir, "settings.json")
	if !utils.IsFileExists(settingsPath) {
		writeSettings(model.DefaultSettings())
	}
}

func readSettings() model.Settings {
	s := model.DefaultSettings()
	data, err := os.ReadFile(settingsPath)
	if err != nil {
		return s
	}
	if err := utils.Json.Unmarshal(data, &s); err != nil {
		// corrupt document degrades to defaults rather than taking the
		// process down
		log.Println("RESTOCK>> settings document unreadable, using defaults:", err)
		return model.DefaultSettings()
	}
	return s
}

func writeSettings(s model.Settings) {
	data, err := utils.Json.MarshalIndent(s, "", "  ")
	if err == nil {
		err = utils.WriteFileAtomic(settingsPath, data, 0o644)
	}
	if err != nil {
		log.Println("RESTOCK>> failed to persist settings:", err)
	}
}

// GetSettings returns a copy of the current settings document.
func GetSettings() model.Settings {
	settingsLock.Lock()
	defer settingsLock.Unlock()
	return readSettings()
}

func IsPeakEnabled() bool {
	return GetSettings().PeakEnabled
}

func IsSilentEnabled() bool {
	return GetSettings().SilentEnabled
}

// TogglePeak flips peak mode and returns the new state.
func TogglePeak() bool {
	settingsLock.Lock()
	defer settingsLock.Unlock()
	s := readSettings()
	s.PeakEnabled = !s.PeakEnabled
	writeSettings(s)
	return s.PeakEnabled
}

// ToggleSilent flips silent mode and returns the new state.
func ToggleSilent() bool {
	settingsLock.Lock()
	defer settingsLock.Unlock()
	s := readSettings()
	s.SilentEnabled = !s.SilentEnabled
	writeSettings(s)
	return s.SilentEnabled
}

// SilentWindow returns the configured silent bounds as "HH:MM" strings.
func SilentWindow() (string, string) {
	s := GetSettings()
	return s.SilentStart, s.SilentEnd
}

// InSilentWindow reports whether repeat alerts are suppressed at t. The
// primary alert always fires regardless.
func InSilentWindow(t time.Time) bool {
	s := GetSettings()
	if !s.SilentEnabled {
		return false
	}
	return s.SilentWindow().ContainsHalfOpen(t)
}
