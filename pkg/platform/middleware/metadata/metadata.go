package metadata

import (
	"net"
	"net/http"
	"strings"

	"github.com/mssola/useragent"

	"studytrail/pkg/requestcontext"
)

// ClientMetadata extracts client IP address and User-Agent from the request
// and adds them to the context for use by handlers and services.
// This middleware should be applied early in the chain.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithClientMetadata(r.Context(), ClientIPFromRequest(r), r.Header.Get("User-Agent"))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClientIPFromRequest extracts the real client IP from the request, handling proxies and load balancers.
func ClientIPFromRequest(r *http.Request) string {
	// X-Forwarded-For can contain multiple IPs (client, proxy1, proxy2, ...)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if r.RemoteAddr == "" {
		return "unknown"
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// Device is a coarse description of a User-Agent for logs.
type Device struct {
	Browser string
	OS      string
	Mobile  bool
	Bot     bool
}

// ParseDevice reads the browser and OS from a User-Agent header. Empty
// fields mean the agent did not say.
func ParseDevice(userAgent string) Device {
	if userAgent == "" {
		return Device{}
	}
	ua := useragent.New(userAgent)
	browser, _ := ua.Browser()
	return Device{
		Browser: browser,
		OS:      ua.OSInfo().Name,
		Mobile:  ua.Mobile(),
		Bot:     ua.Bot(),
	}
}
