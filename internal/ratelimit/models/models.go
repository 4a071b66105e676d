package models

import (
	"time"
)

// EndpointClass groups endpoints that share a limit.
type EndpointClass string

const (
	// ClassAccountCreate covers public sign-up.
	ClassAccountCreate EndpointClass = "account_create"
)

// Policy is a request budget per window.
type Policy struct {
	Limit  int
	Window time.Duration
}

// RateLimitResult represents the outcome of a rate limit check.
type RateLimitResult struct {
	Allowed    bool      `json:"allowed"`
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
	RetryAfter int       `json:"retry_after,omitempty"` // seconds, only set when not allowed
}

// RateLimitExceededResponse is returned with 429 Too Many Requests.
type RateLimitExceededResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after"`
}
