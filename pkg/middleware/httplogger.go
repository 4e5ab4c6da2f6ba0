package middleware

import (
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Meesho/BharatMLStack/price-inferflow/pkg/metrics"
)

const (
	httpRequestLatency = "price_inferflow.http.request.latency"
	httpRequestTotal   = "price_inferflow.http.request.total"

	HeaderRequestID  = "X-Request-Id"
	ContextRequestID = "request_id"
)

// RequestID propagates the caller's X-Request-Id, or a new UUID when absent, to the
// gin context and the response headers.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(ContextRequestID, requestID)
		c.Header(HeaderRequestID, requestID)
		c.Next()
	}
}

// HTTPLogger logs the request
func HTTPLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		c.Next()
		latency := time.Since(startTime)

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		statusCode := c.Writer.Status()

		tags := []string{
			metrics.Tag(metrics.TagPath, path),
			metrics.Tag(metrics.TagMethod, method),
			metrics.Tag(metrics.TagStatus, strconv.Itoa(statusCode)),
		}
		metrics.Incr(httpRequestTotal, tags)
		metrics.Timing(httpRequestLatency, latency, tags)

		headers := make(map[string]string)
		for name := range c.Request.Header {
			if reqHeadersToLog.Contains(name) {
				headers[name] = c.Request.Header.Get(name)
			}
		}
		log.Info().Str(ContextRequestID, c.GetString(ContextRequestID)).Fields(map[string]interface{}{"headers": headers}).
			Msgf("[access] [%s] %s %s %d %v", c.ClientIP(), method, c.Request.URL.Path, statusCode, latency)
	}
}

// HTTPRecovery turns a handler panic into a 500 with the service's error body.
func HTTPRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Str("path", c.Request.URL.Path).
					Msgf("Recovered in http recovery with err: %v, stack: %s", r, string(debug.Stack()))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			}
		}()
		c.Next()
	}
}
