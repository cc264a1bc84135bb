package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aliskhannn/nqesh-reviewer/internal/domain/entities"
)

const identityKey = "identity"

// authenticate resolves the caller. A missing token leaves the caller
// anonymous; a token that fails verification is rejected outright.
func authenticate(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Set(identityKey, entities.Anonymous())
			c.Next()
			return
		}

		id, err := verifier.Verify(header)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{
				Error:   msgSignIn,
				Actions: []string{actionSignIn, actionHome},
			})
			return
		}

		c.Set(identityKey, id)
		c.Next()
	}
}

func identity(c *gin.Context) entities.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return entities.Anonymous()
	}
	id, _ := v.(entities.Identity)
	return id
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			logger.Error("request", fields...)
		default:
			logger.Debug("request", fields...)
		}
	}
}
