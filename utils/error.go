package utils

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// requestLogger returns the logger stored under "logger" by the request logging middleware.
func requestLogger(c *gin.Context) *zap.Logger {
	if l, ok := c.Get("logger"); ok {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return GetLogger()
}

// ErrorHandler recovers panics raised by later handlers and replies with a 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			requestLogger(c).Error("Unhandled panic",
				zap.String("panic", fmt.Sprint(rec)),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Stack("stack"))

			if c.Writer.Written() {
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
				Error:   "internal server error",
				Message: "An unexpected error occurred. Please try again later.",
			})
		}()
		c.Next()
	}
}

// JSONError aborts the request with a standardized error body.
func JSONError(c *gin.Context, status int, label string, message string) {
	requestLogger(c).Warn(label, zap.Int("status", status), zap.String("message", message))
	c.AbortWithStatusJSON(status, ErrorResponse{Error: label, Message: message})
}
