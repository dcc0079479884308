package models

// Setting is a key/value row for process-wide configuration that users can
// change at runtime, such as the current timezone. Values are read at call
// time, never cached, so edits apply immediately.
type Setting struct {
	Base
	Key   string `gorm:"uniqueIndex;not null" json:"key"`
	Value string `gorm:"not null" json:"value"`
}

// Setting keys.
const (
	SettingTimezone = "timezone"
)
