package models

import "strings"

// SanitizeKeySegment escapes delimiter characters in rate limit key segments
// so an identifier containing ':' cannot address a neighbouring bucket.
func SanitizeKeySegment(s string) string {
	return strings.ReplaceAll(s, ":", "_")
}

// NewIPRateLimitKey builds the bucket key for one client IP and class.
func NewIPRateLimitKey(ip string, class EndpointClass) string {
	return "ratelimit:ip:" + SanitizeKeySegment(ip) + ":" + SanitizeKeySegment(string(class))
}
