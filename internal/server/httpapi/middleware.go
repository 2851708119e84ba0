package httpapi

import (
	"fmt"
	"math"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/seniko/internal/common"
	"github.com/dmitrijs2005/seniko/internal/server/metrics"
	"github.com/dmitrijs2005/seniko/internal/shared"
	"github.com/gin-gonic/gin"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "requestID"
	userIDKey       = "userID"
)

// requestID propagates an incoming X-Request-ID or generates one.
func (s *HTTPServer) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			var err error
			if id, err = shared.MakeRandHexString(8); err != nil {
				id = "unknown"
			}
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// accessLog logs one line per request and records its duration.
func (s *HTTPServer) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		s.metrics.ObserveHTTP(c.Request.Method, route, status, elapsed)

		s.logger.Info(c.Request.Context(),
			fmt.Sprintf("HTTP %s %s responded %d in %d ms", c.Request.Method, c.Request.URL.Path, status, elapsed.Milliseconds()),
			"request_id", c.GetString(requestIDKey),
			"client_ip", c.ClientIP(),
		)
	}
}

// rateLimit rejects requests over the per-IP window budget with 429. A
// failing limiter backend lets requests through.
func (s *HTTPServer) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := s.limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			s.logger.Warn(c.Request.Context(), "Rate limiter unavailable", "error", err)
			c.Next()
			return
		}
		if !d.Allowed {
			s.metrics.RecordAuthAttempt(path.Base(c.FullPath()), metrics.OutcomeRateLimited)
			retry := int64(math.Ceil(d.RetryAfter.Seconds()))
			if retry < 1 {
				retry = 1
			}
			c.Header("Retry-After", strconv.FormatInt(retry, 10))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errorResponse{
				Code:    "RATE_LIMITED",
				Message: "too many requests, retry later",
			})
			return
		}
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		c.Next()
	}
}

// bearerAuth resolves the Authorization bearer token to a user ID.
func (s *HTTPServer) bearerAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthorizationHeaderName)
		if !strings.HasPrefix(header, common.BearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{
				Code:    "MISSING_TOKEN",
				Message: "missing bearer token",
			})
			return
		}

		userID, err := s.users.Authenticate(c.Request.Context(), strings.TrimSpace(strings.TrimPrefix(header, common.BearerPrefix)))
		if err != nil {
			s.writeError(c, "authenticate", err)
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}
