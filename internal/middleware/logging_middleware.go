package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ikkim/survei-backend/pkg/logger"
)

const (
	RequestIDHeader = "X-Request-ID"

	contextKeyLogger    = "logger"
	contextKeyRequestID = "request_id"

	publicPathPrefix = "/api/v1/public/"
)

// LoggingMiddleware attaches a request-scoped logger and logs each request
// once it completes. Health probes are logged at debug level only.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		// 프록시가 넘겨준 ID가 있으면 그대로 사용
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(contextKeyRequestID, requestID)
		c.Header(RequestIDHeader, requestID)

		path := c.Request.URL.Path
		log := logger.WithContext(logger.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       path,
			"ip":         c.ClientIP(),
		})
		c.Set(contextKeyLogger, log)

		c.Next()

		status := c.Writer.Status()
		fields := logger.Fields{
			"status_code": status,
			"latency_ms":  time.Since(startTime).Milliseconds(),
			"body_size":   c.Writer.Size(),
		}
		if route := c.FullPath(); route != "" {
			fields["route"] = route
		}
		if storeID := c.Param("id"); storeID != "" && strings.Contains(c.FullPath(), "/stores/:id") {
			fields["store_id"] = storeID
		}
		if userID, ok := GetUserID(c); ok {
			fields["user_id"] = userID
		} else if strings.HasPrefix(path, publicPathPrefix) {
			// 고객 설문 제출은 익명
			fields["user_agent"] = c.Request.UserAgent()
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		const msg = "Request completed"
		switch {
		case status >= 500:
			log.Error(msg, nil, fields)
		case status >= 400:
			log.Warn(msg, fields)
		case path == "/health":
			log.Debug(msg, fields)
		default:
			log.Info(msg, fields)
		}
	}
}

// GetRequestID returns the ID assigned by LoggingMiddleware.
func GetRequestID(c *gin.Context) string {
	return c.GetString(contextKeyRequestID)
}

// GetLoggerFromContext returns the request logger, or the global logger
// outside LoggingMiddleware.
func GetLoggerFromContext(c *gin.Context) *logger.Logger {
	if l, ok := c.Get(contextKeyLogger); ok {
		if log, ok := l.(*logger.Logger); ok {
			return log
		}
	}
	return logger.Get()
}
