// Package timezones holds the curated list of zones offered in profile settings.
package timezones

import "fmt"

type Option struct {
	Value  string `json:"value"`
	Label  string `json:"label"`
	Offset string `json:"offset"`
}

var options = []Option{
	// Americas
	{"America/New_York", "Eastern Time (ET)", "UTC-5"},
	{"America/Chicago", "Central Time (CT)", "UTC-6"},
	{"America/Denver", "Mountain Time (MT)", "UTC-7"},
	{"America/Los_Angeles", "Pacific Time (PT)", "UTC-8"},
	{"America/Anchorage", "Alaska Time (AKT)", "UTC-9"},
	{"Pacific/Honolulu", "Hawaii Time (HT)", "UTC-10"},

	// Europe
	{"Europe/London", "London (GMT)", "UTC+0"},
	{"Europe/Paris", "Paris (CET)", "UTC+1"},
	{"Europe/Berlin", "Berlin (CET)", "UTC+1"},
	{"Europe/Rome", "Rome (CET)", "UTC+1"},
	{"Europe/Athens", "Athens (EET)", "UTC+2"},
	{"Europe/Moscow", "Moscow (MSK)", "UTC+3"},

	// Asia
	{"Asia/Dubai", "Dubai (GST)", "UTC+4"},
	{"Asia/Karachi", "Karachi (PKT)", "UTC+5"},
	{"Asia/Kolkata", "India (IST)", "UTC+5:30"},
	{"Asia/Dhaka", "Dhaka (BST)", "UTC+6"},
	{"Asia/Bangkok", "Bangkok (ICT)", "UTC+7"},
	{"Asia/Singapore", "Singapore (SGT)", "UTC+8"},
	{"Asia/Hong_Kong", "Hong Kong (HKT)", "UTC+8"},
	{"Asia/Tokyo", "Tokyo (JST)", "UTC+9"},
	{"Asia/Seoul", "Seoul (KST)", "UTC+9"},

	// Australia
	{"Australia/Sydney", "Sydney (AEDT)", "UTC+11"},
	{"Australia/Melbourne", "Melbourne (AEDT)", "UTC+11"},
	{"Australia/Brisbane", "Brisbane (AEST)", "UTC+10"},
	{"Australia/Perth", "Perth (AWST)", "UTC+8"},

	// Pacific
	{"Pacific/Auckland", "Auckland (NZDT)", "UTC+13"},
	{"Pacific/Fiji", "Fiji (FJT)", "UTC+12"},
}

// All returns a copy of the curated list.
func All() []Option {
	out := make([]Option, len(options))
	copy(out, options)
	return out
}

// Label renders value as "Eastern Time (ET) (UTC-5)". Zones outside the list are returned unchanged.
func Label(value string) string {
	for _, o := range options {
		if o.Value == value {
			return fmt.Sprintf("%s (%s)", o.Label, o.Offset)
		}
	}
	return value
}
