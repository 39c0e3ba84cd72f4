package service

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultPhoneRegion is used to parse numbers submitted without a country code
const DefaultPhoneRegion = "BR"

// PhoneKey returns the phone stored alongside the raw value for reporting: the
// E.164 form when the number parses and is valid for region, otherwise the
// trimmed input.
func PhoneKey(raw, region string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if region == "" {
		region = DefaultPhoneRegion
	}
	number, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return raw
	}
	if !phonenumbers.IsValidNumber(number) {
		return raw
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}
