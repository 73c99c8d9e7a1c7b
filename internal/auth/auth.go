package auth

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HeaderName carries the shared secret on upload requests.
const HeaderName = "x-admin"

type Config struct {
	Secret string
}

// Matches reports whether the supplied value equals the configured secret.
func (c Config) Matches(value string) bool {
	return subtle.ConstantTimeCompare([]byte(value), []byte(c.Secret)) == 1
}

// SharedSecretMiddleware aborts with 401 unless the request carries the
// configured secret. There is no session: every request must resend it.
func SharedSecretMiddleware(config Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !config.Matches(c.GetHeader(HeaderName)) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Unauthorized",
			})
			return
		}

		c.Next()
	}
}
