package middleware

import (
	"github.com/gin-gonic/gin"
)

func RegisterGlobalMiddleware(router *gin.Engine) {
	router.Use(gin.Recovery(), CORS())
}

// Authenticate picks the identity middleware. The header variant is for local runs only.
func Authenticate(authDisabled bool) gin.HandlerFunc {
	if authDisabled {
		return VerifyPlayerHeader
	}
	return VerifyAuthToken
}
