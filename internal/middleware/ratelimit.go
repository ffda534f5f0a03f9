package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/socialapi-dev/socialapi/internal/api"
	"github.com/socialapi-dev/socialapi/internal/errors"
	"github.com/socialapi-dev/socialapi/internal/middleware/ratelimiter"
)

// RateLimit rejects requests over the limit with 429. Identity extraction
// failures are answered as bad requests rather than silently skipping the
// limiter.
func RateLimit(rl *ratelimiter.Limiter, getIdentity func(r *http.Request) (string, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := getIdentity(r)
			if err != nil {
				api.WriteError(w, err)
				return
			}
			if !rl.Allow(identity) {
				api.WriteError(w, &errors.ErrorWithStatusCode{
					Message:    "Rate limit exceeded, try again later",
					StatusCode: http.StatusTooManyRequests,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetIP extracts the client IP from RemoteAddr. Proxy headers are not
// trusted; there is no reverse proxy in front of this service.
func GetIP(r *http.Request) (string, error) {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	if net.ParseIP(ip) == nil {
		return "", fmt.Errorf("invalid IP address: %s", ip)
	}
	return ip, nil
}

// GetEmailFromBody reads the email from a JSON body for rate limiting and
// restores the body so the handler can decode it again.
func GetEmailFromBody(r *http.Request) (string, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return "", errors.BadRequest("Failed to read request body")
	}
	r.Body = io.NopCloser(bytes.NewBuffer(body))

	var data struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &data); err != nil || data.Email == "" {
		return "", errors.BadRequest("Email field is required")
	}
	return data.Email, nil
}

// GetUsernameFromForm extracts the username from a form-encoded login
// request for rate limiting.
func GetUsernameFromForm(r *http.Request) (string, error) {
	if err := r.ParseForm(); err != nil {
		return "", errors.BadRequest("Failed to parse form")
	}
	username := r.FormValue("username")
	if username == "" {
		return "", errors.BadRequest("Username field is required")
	}
	return username, nil
}
