package security

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/civicsignal/petition-meter/internal/types"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// SecurityConfig holds security configuration
type SecurityConfig struct {
	MaxTitleLength       int           `json:"max_title_length"`
	MaxDescriptionLength int           `json:"max_description_length"`
	MaxLetterLength      int           `json:"max_letter_length"`
	MaxTargetingLength   int           `json:"max_targeting_length"`
	MaxRequestsPerMin    int           `json:"max_requests_per_min"`
	AllowedOrigins       []string      `json:"allowed_origins"`
	TrustedProxies       []string      `json:"trusted_proxies"`
	RequestTimeout       time.Duration `json:"request_timeout"`
}

// DefaultSecurityConfig returns defaults sized for petition text. The
// description limit is generous: well-formatted petitions legitimately
// carry thousands of characters of HTML.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		MaxTitleLength:       500,
		MaxDescriptionLength: 50000,
		MaxLetterLength:      20000,
		MaxTargetingLength:   2000,
		MaxRequestsPerMin:    60,
		AllowedOrigins:       []string{"http://localhost:3000", "http://localhost:5173"},
		TrustedProxies:       []string{"127.0.0.1", "::1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"},
		RequestTimeout:       30 * time.Second,
	}
}

// SecurityMiddleware provides request validation and per-IP rate limiting
type SecurityMiddleware struct {
	config     SecurityConfig
	ipLimiters map[string]*rate.Limiter
	mu         sync.Mutex
}

// NewSecurityMiddleware creates a new security middleware instance
func NewSecurityMiddleware(config SecurityConfig) *SecurityMiddleware {
	sm := &SecurityMiddleware{
		config:     config,
		ipLimiters: make(map[string]*rate.Limiter),
	}
	go sm.cleanupLimiters()
	return sm
}

// Config returns the active security configuration
func (sm *SecurityMiddleware) Config() SecurityConfig {
	return sm.config
}

// ValidateDocument checks a petition document against the configured
// limits. Petition descriptions legitimately contain HTML markup, so
// validation is limited to size and encoding; content is never rejected
// for looking like markup.
func (sm *SecurityMiddleware) ValidateDocument(doc types.PetitionDocument) error {
	checks := []struct {
		name  string
		value string
		limit int
	}{
		{"title", doc.Title, sm.config.MaxTitleLength},
		{"description", doc.Description, sm.config.MaxDescriptionLength},
		{"letter_body", doc.LetterBody, sm.config.MaxLetterLength},
		{"targeting_description", doc.TargetingDescription, sm.config.MaxTargetingLength},
	}

	for _, c := range checks {
		if len(c.value) > c.limit {
			return fmt.Errorf("%s exceeds maximum length of %d characters", c.name, c.limit)
		}
		if strings.Contains(c.value, "\x00") {
			return fmt.Errorf("%s contains invalid characters", c.name)
		}
		if !utf8.ValidString(c.value) {
			return fmt.Errorf("%s contains invalid UTF-8 encoding", c.name)
		}
	}
	return nil
}

// limiterFor returns the rate limiter for an IP, creating it on first use
func (sm *SecurityMiddleware) limiterFor(ip string) *rate.Limiter {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	limiter, ok := sm.ipLimiters[ip]
	if !ok {
		perSecond := rate.Limit(float64(sm.config.MaxRequestsPerMin) / 60.0)
		burst := sm.config.MaxRequestsPerMin / 6
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(perSecond, burst)
		sm.ipLimiters[ip] = limiter
	}
	return limiter
}

// cleanupLimiters periodically drops idle per-IP limiters
func (sm *SecurityMiddleware) cleanupLimiters() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		sm.mu.Lock()
		if len(sm.ipLimiters) > 10000 {
			sm.ipLimiters = make(map[string]*rate.Limiter)
		}
		sm.mu.Unlock()
	}
}

// RateLimitByIP enforces the per-IP request rate
func (sm *SecurityMiddleware) RateLimitByIP(c *gin.Context) {
	limiter := sm.limiterFor(c.ClientIP())
	if !limiter.Allow() {
		c.Header("Retry-After", "60")
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error": "rate limit exceeded",
		})
		return
	}
	c.Next()
}

// SecurityHeaders adds standard security headers to every response
func (sm *SecurityMiddleware) SecurityHeaders(c *gin.Context) {
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("X-Frame-Options", "DENY")
	c.Header("X-XSS-Protection", "1; mode=block")
	c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
	c.Next()
}

// RequestTimeout enforces a deadline on request handling
func (sm *SecurityMiddleware) RequestTimeout(c *gin.Context) {
	if sm.config.RequestTimeout > 0 {
		ctx, cancel := context.WithTimeout(c.Request.Context(), sm.config.RequestTimeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
	}
	c.Next()
}

// ValidateContentType rejects non-JSON bodies on mutating endpoints
func (sm *SecurityMiddleware) ValidateContentType(c *gin.Context) {
	if c.Request.Method == http.MethodPost || c.Request.Method == http.MethodPut {
		contentType := c.GetHeader("Content-Type")
		if !strings.HasPrefix(contentType, "application/json") {
			c.AbortWithStatusJSON(http.StatusUnsupportedMediaType, gin.H{
				"error": "Content-Type must be application/json",
			})
			return
		}
	}
	c.Next()
}
