package model

import "time"

// Check modes. MANUAL marks user-initiated checks from the chat surface.
const (
	CheckModePeak   = "PEAK"
	CheckModeNormal = "NORMAL"
	CheckModeManual = "MANUAL"
)

// Check is one executed availability check. Rows are append-only; nothing
// updates or deletes them except the retention pruner.
type Check struct {
	ID        uint64    `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"index;<-:create"`
	Mode      string    `gorm:"size:16"`
	Available bool
	LatencyMS int64
	Error     string // empty when the check succeeded
}

// TableName ..
func (Check) TableName() string {
	return "checks"
}

// Failed ..
func (c *Check) Failed() bool {
	return c.Error != ""
}
