package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/midshelf/midshelf-server/internal/http/response"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const contextKeyAccountID contextKey = "account_id"

// requireAuth is middleware that resolves the bearer token to a session
// and attaches the account to the request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			response.Unauthorized(w, "Missing authorization header", s.logger)
			return
		}

		session, err := s.authService.Authenticate(r.Context(), token)
		if err != nil {
			response.Unauthorized(w, "Invalid or expired session", s.logger)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyAccountID, session.AccountID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// throttleLogin rate limits login attempts per client IP.
func (s *Server) throttleLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientIP(r)
		if !s.loginLimiter.Allow(key) {
			s.logger.Warn("login rate limit exceeded", "ip", key)
			response.TooManyRequests(w, "Too many login attempts. Please try again later.", s.logger)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// bearerToken extracts the token from the Authorization header, or ""
// if the header is absent or malformed.
func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// clientIP extracts the client address for rate limit keying. RealIP
// middleware has already folded proxy headers into RemoteAddr.
func clientIP(r *http.Request) string {
	ip := r.RemoteAddr
	for i := len(ip) - 1; i >= 0; i-- {
		if ip[i] == ':' {
			return ip[:i]
		}
	}
	return ip
}

// accountID extracts the authenticated account ID from request context.
// Returns 0 if not authenticated.
func accountID(ctx context.Context) int64 {
	if id, ok := ctx.Value(contextKeyAccountID).(int64); ok {
		return id
	}
	return 0
}
