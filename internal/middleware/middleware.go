package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/coltonsr77/uzi-doorman-bot/internal/logger"
)

// RequestIDHeader carries the request correlation id
const RequestIDHeader = "X-Request-ID"

type contextKey int

const requestIDKey contextKey = iota

// Middleware represents the middleware dependencies
type Middleware struct {
	log         *logger.Logger
	rateLimiter *RateLimiter
	apiKeys     map[string]bool // Valid API keys
}

// RateLimiter implements a simple rate limiter using token bucket algorithm
type RateLimiter struct {
	clients map[string]*ClientBucket
	mutex   sync.RWMutex

	// Rate limiting configuration
	requestsPerMinute int
	windowSize        time.Duration
}

// ClientBucket represents a rate limit bucket for a specific client
type ClientBucket struct {
	tokens     int
	lastRefill time.Time
	mutex      sync.Mutex
}

// New creates a new middleware instance
func New(log *logger.Logger) *Middleware {
	return &Middleware{
		log:         log.Component("http"),
		rateLimiter: NewRateLimiter(60, time.Minute), // Default: 60 requests per minute
		apiKeys:     make(map[string]bool),
	}
}

// NewRateLimiter creates a limiter allowing requests per window for each client
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		clients:           make(map[string]*ClientBucket),
		requestsPerMinute: requests,
		windowSize:        window,
	}
}

// SetRateLimiter replaces the default limiter
func (m *Middleware) SetRateLimiter(rl *RateLimiter) {
	m.rateLimiter = rl
}

// RequestID tags each request with an id, reusing a well-formed incoming
// X-Request-ID header
func (m *Middleware) RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// RequestIDFromContext returns the id assigned by the RequestID middleware, or ""
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// SetAPIKeys sets the valid API keys for authentication
func (m *Middleware) SetAPIKeys(keys []string) {
	m.apiKeys = make(map[string]bool)
	for _, key := range keys {
		m.apiKeys[key] = true
	}
}

// Logging logs HTTP requests with detailed information
func (m *Middleware) Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Create a custom response writer to capture the status code
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start)

		m.log.With("method", r.Method).
			With("path", r.URL.Path).
			With("request_id", RequestIDFromContext(r.Context())).
			With("status", rw.statusCode).
			With("duration", duration.String()).
			With("remote_addr", r.RemoteAddr).
			With("user_agent", r.UserAgent()).
			Infof("HTTP request completed")
	})
}

// CORS adds CORS headers for cross-origin requests
func (m *Middleware) CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With, X-API-Key, X-Request-ID")
		w.Header().Set("Access-Control-Max-Age", "86400") // 24 hours

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Recovery handles panics and returns a 500 error
func (m *Middleware) Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				m.log.With("request_id", RequestIDFromContext(r.Context())).Errorf("Panic in HTTP handler: %v", err)
				w.Header().Set("Content-Type", "application/json")
				http.Error(w, `{"error":"Internal Server Error","code":"INTERNAL_ERROR"}`, http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// RateLimit applies rate limiting based on client IP address
func (m *Middleware) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := getClientIP(r)

		if !m.rateLimiter.Allow(clientIP) {
			m.log.Warnf("Rate limit exceeded for client: %s", clientIP)
			w.Header().Set("Retry-After", "60")
			w.Header().Set("Content-Type", "application/json")
			http.Error(w, `{"error":"Rate limit exceeded. Please try again later.","code":"TOO_MANY_REQUESTS"}`, http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Allow checks if a request is allowed based on rate limiting
func (rl *RateLimiter) Allow(clientIP string) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	bucket, exists := rl.clients[clientIP]
	if !exists {
		bucket = &ClientBucket{
			tokens:     rl.requestsPerMinute,
			lastRefill: time.Now(),
		}
		rl.clients[clientIP] = bucket
	}

	bucket.mutex.Lock()
	defer bucket.mutex.Unlock()

	// Refill tokens based on time elapsed
	now := time.Now()
	elapsed := now.Sub(bucket.lastRefill)

	if elapsed >= rl.windowSize {
		bucket.tokens = rl.requestsPerMinute
		bucket.lastRefill = now
	}

	// Check if tokens are available
	if bucket.tokens > 0 {
		bucket.tokens--
		return true
	}

	return false
}

// getClientIP extracts the client IP address from the request
func getClientIP(r *http.Request) string {
	// Check X-Forwarded-For header (for proxies)
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		// Take the first IP in the comma-separated list
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	// Check X-Real-IP header
	xri := r.Header.Get("X-Real-IP")
	if xri != "" {
		return xri
	}

	// Fall back to RemoteAddr
	return r.RemoteAddr
}

// APIKeyAuth validates API key authentication
func (m *Middleware) APIKeyAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip auth for the health endpoint
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		// Get API key from header or query parameter
		apiKey := r.Header.Get("X-API-Key")
		if apiKey == "" {
			apiKey = r.URL.Query().Get("api_key")
		}

		if apiKey == "" {
			m.log.Warnf("Missing API key from %s", getClientIP(r))
			w.Header().Set("Content-Type", "application/json")
			http.Error(w, `{"error":"Missing API key","code":"UNAUTHORIZED"}`, http.StatusUnauthorized)
			return
		}

		// Validate API key using constant-time comparison
		if !m.isValidAPIKey(apiKey) {
			m.log.Warnf("Invalid API key from %s", getClientIP(r))
			w.Header().Set("Content-Type", "application/json")
			http.Error(w, `{"error":"Invalid API key","code":"UNAUTHORIZED"}`, http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// isValidAPIKey validates API key using constant-time comparison
func (m *Middleware) isValidAPIKey(providedKey string) bool {
	for validKey := range m.apiKeys {
		if subtle.ConstantTimeCompare([]byte(providedKey), []byte(validKey)) == 1 {
			return true
		}
	}
	return false
}

// Security adds basic security headers
func (m *Middleware) Security(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Prevent MIME type sniffing
		w.Header().Set("X-Content-Type-Options", "nosniff")

		// Prevent clickjacking
		w.Header().Set("X-Frame-Options", "DENY")

		// XSS protection
		w.Header().Set("X-XSS-Protection", "1; mode=block")

		// Disable caching for sensitive endpoints
		if r.URL.Path != "/health" {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
			w.Header().Set("Pragma", "no-cache")
			w.Header().Set("Expires", "0")
		}

		next.ServeHTTP(w, r)
	})
}

// responseWriter is a wrapper for http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}
