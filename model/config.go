package model

import (
	"errors"

	"github.com/spf13/viper"
)

// Config is the static process configuration, loaded once at startup.
// Runtime toggles (peak/silent mode) live in the settings document instead.
type Config struct {
	Debug bool

	Bot struct {
		Token    string  // chat transport token
		ChatID   int64   // channel that receives restock alerts
		AdminIDs []int64 // operators allowed to manage the premium list
	}

	Product struct {
		Name string
		URL  string
	}

	Location string // IANA timezone, polling windows are evaluated in it

	DBPath  string // sqlite file holding checks + status memory
	DataDir string // settings/premium json documents

	// polling cadence, seconds
	BaseSeconds int // outside peak windows
	PeakSeconds int // inside peak windows, when peak mode is on

	FetchTimeoutSeconds int // product page GET deadline
	ConfirmWaitSeconds  int // delay between candidate and confirmation read

	AlertRepeat     int // total alert messages per confirmed restock
	AlertGapSeconds int // delay between repeated alert sends

	RetentionDays int // check history kept for analytics
}

// ReadInConfig ..
func ReadInConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("location", "America/Sao_Paulo")
	v.SetDefault("dbpath", "data/restock.db")
	v.SetDefault("datadir", "data")
	v.SetDefault("baseseconds", 180)
	v.SetDefault("peakseconds", 60)
	v.SetDefault("fetchtimeoutseconds", 25)
	v.SetDefault("confirmwaitseconds", 6)
	v.SetDefault("alertrepeat", 3)
	v.SetDefault("alertgapseconds", 10)
	v.SetDefault("retentiondays", 30)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}

	if c.Bot.Token == "" {
		return nil, errors.New("bot.token is required")
	}
	if c.Product.URL == "" {
		return nil, errors.New("product.url is required")
	}

	return &c, nil
}

// IsAdmin reports whether the given chat user may run admin commands.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.Bot.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}
