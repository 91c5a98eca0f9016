package model

// Settings is the persisted runtime toggle document. It is read on every
// check and every alert decision, and rewritten whole on every toggle.
type Settings struct {
	PeakEnabled   bool   `json:"peak_enabled"`
	SilentEnabled bool   `json:"silent_enabled"`
	SilentStart   string `json:"silent_start"`
	SilentEnd     string `json:"silent_end"`
}

// DefaultSettings ..
func DefaultSettings() Settings {
	return Settings{
		PeakEnabled:   false,
		SilentEnabled: false,
		SilentStart:   "23:00",
		SilentEnd:     "07:00",
	}
}

// SilentWindow parses the configured silent bounds, falling back to the
// defaults if either edge is malformed.
func (s *Settings) SilentWindow() Window {
	start, err := ParseHM(s.SilentStart)
	if err != nil {
		start, _ = ParseHM(DefaultSettings().SilentStart)
	}
	end, err := ParseHM(s.SilentEnd)
	if err != nil {
		end, _ = ParseHM(DefaultSettings().SilentEnd)
	}
	return Window{Start: start, End: end}
}

// PremiumList is the persisted premium allow-list document.
type PremiumList struct {
	PremiumUserIDs []int64 `json:"premium_user_ids"`
}
