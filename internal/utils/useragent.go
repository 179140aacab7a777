package utils

import (
	ua "github.com/mssola/user_agent"
)

// DeviceInfo holds parsed information from a User-Agent string
type DeviceInfo struct {
	DeviceType string `json:"device_type"` // mobile or desktop
	OS         string `json:"os"`
	Browser    string `json:"browser"`
	BrowserVer string `json:"browser_ver"`
	Raw        string `json:"raw"`
}

// ParseUserAgent parses a User-Agent string for the login audit log
func ParseUserAgent(userAgent string) DeviceInfo {
	if userAgent == "" {
		return DeviceInfo{
			DeviceType: "unknown",
			OS:         "Unknown",
			Browser:    "Unknown",
			Raw:        userAgent,
		}
	}

	parser := ua.New(userAgent)
	browser, version := parser.Browser()

	deviceType := "desktop"
	if parser.Mobile() {
		deviceType = "mobile"
	}

	return DeviceInfo{
		DeviceType: deviceType,
		OS:         parser.OS(),
		Browser:    browser,
		BrowserVer: version,
		Raw:        userAgent,
	}
}
