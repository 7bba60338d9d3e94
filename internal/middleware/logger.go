package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderRequestID is the correlation header accepted from and returned to
// clients.
const HeaderRequestID = "X-Request-ID"

// ContextRequestID is the gin context key the request ID is stored under.
const ContextRequestID = "request_id"

// RequestID propagates the caller's correlation ID, minting one when the
// request arrives without it.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(ContextRequestID, requestID)
		c.Header(HeaderRequestID, requestID)
		c.Next()
	}
}

// GetRequestID returns the request's correlation ID, or "" when called
// outside the RequestID middleware.
func GetRequestID(c *gin.Context) string {
	v, _ := c.Get(ContextRequestID)
	id, _ := v.(string)
	return id
}

// Logger writes one line per request with the correlation ID, method, path,
// status, and latency. Probe endpoints are kept out of the log.
func Logger() gin.HandlerFunc {
	quiet := map[string]struct{}{
		"/healthz": {},
		"/readyz":  {},
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if _, ok := quiet[c.Request.URL.Path]; ok {
			return
		}
		log.Printf("[%s] %s %s %d %s",
			GetRequestID(c),
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			time.Since(start),
		)
	}
}

// Recovery recovers from panics and returns a 500 error.
func Recovery() gin.HandlerFunc {
	return gin.Recovery()
}
