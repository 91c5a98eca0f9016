package model

import "time"

// StatusMemoryID is the only row the status_memory table ever holds.
const StatusMemoryID = 1

// StatusMemory is the single cross-restart record of the last observed
// availability. The in-process copy held by the watcher is only a cache of
// this row; transition decisions always reconcile through it.
//
// LastChangeAt moves only when the incoming value differs from LastStatus
// (or on the very first recorded value). LastCheckAt advances on every
// successful check.
type StatusMemory struct {
	ID           uint64 `gorm:"primaryKey"`
	LastStatus   *bool  // nil until the first successful check
	LastChangeAt time.Time
	LastCheckAt  time.Time
}

// TableName ..
func (StatusMemory) TableName() string {
	return "status_memory"
}

// Known reports whether any availability has ever been observed.
func (m *StatusMemory) Known() bool {
	return m.LastStatus != nil
}
