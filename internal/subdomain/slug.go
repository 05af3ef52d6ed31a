package subdomain

import (
	"regexp"
	"strconv"
	"strings"
)

// MaxLabelLength is the DNS label limit.
const MaxLabelLength = 63

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	labelPattern    = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)
)

// Slugify converts a business name into a URL-safe subdomain label.
//
//	Slugify("Joe's Fitness!!") // "joe-s-fitness"
//	Slugify("  Acme Gym ")     // "acme-gym"
//
// The result contains only [a-z0-9-], never starts or ends with a hyphen and is
// at most MaxLabelLength characters. Slugify(Slugify(x)) == Slugify(x).
func Slugify(businessName string) string {
	label := strings.TrimSpace(strings.ToLower(businessName))
	label = nonAlphanumeric.ReplaceAllString(label, "-")
	label = strings.Trim(label, "-")
	return truncate(label, MaxLabelLength)
}

// IsValidLabel reports whether label is a well-formed subdomain label.
func IsValidLabel(label string) bool {
	return len(label) <= MaxLabelLength && labelPattern.MatchString(label)
}

// withSuffix appends "-n" to base, shortening base so the result still fits in
// a DNS label.
func withSuffix(base string, n int) string {
	suffix := "-" + strconv.Itoa(n)
	return truncate(base, MaxLabelLength-len(suffix)) + suffix
}

func truncate(label string, limit int) string {
	if len(label) > limit {
		label = label[:limit]
	}
	return strings.TrimRight(label, "-")
}
