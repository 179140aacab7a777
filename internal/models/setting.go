package models

import "time"

// Well-known settings keys consumed by the scheduler and notifier.
const (
	SettingFacilityName     = "facility_name"
	SettingFacilityAddress  = "facility_address"
	SettingFacilityPhone    = "facility_phone"
	SettingNotificationDays = "notification_days"
	SettingRetentionDays    = "notification_retention_days"
	SettingAutoBackup       = "auto_backup"
)

// Setting is one key/value pair of process-wide configuration stored in
// the database (as opposed to environment config read at boot).
type Setting struct {
	ID          int64     `json:"id" db:"id"`
	Key         string    `json:"key" db:"key"`
	Value       string    `json:"value" db:"value"`
	Description *string   `json:"description,omitempty" db:"description"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
