package models

import "time"

// Biometric event types pushed by the device helper.
const (
	BiometricEnrollment   = "ENROLLMENT"
	BiometricVerification = "VERIFICATION"
)

// BiometricEvent is the normalized scan event received from the external
// device-helper process. Device polling, template matching and retries
// all happen on the helper side; this is the only shape the engine sees.
type BiometricEvent struct {
	EventType           string    `json:"eventType" binding:"required"`
	MemberID            *int64    `json:"memberId"`
	FingerprintTemplate string    `json:"fingerprintTemplate"`
	Success             bool      `json:"success"`
	Message             string    `json:"message"`
	Timestamp           time.Time `json:"timestamp"`
	DeviceID            string    `json:"deviceId"`
}
