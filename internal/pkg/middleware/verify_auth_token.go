package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/kollektive-hackathon/stakefour-backend/internal/pkg/reject"
	"github.com/kollektive-hackathon/stakefour-backend/internal/pkg/utils"
	"github.com/kollektive-hackathon/stakefour-backend/pkg/firebase"
)

const (
	accessTokenRequired string = "error.token.required"
	accessTokenInvalid  string = "error.token.invalid"
	playerIdRequired    string = "error.player.required"

	playerIdHeader = "X-Player-Id"
)

var verifyIdToken = firebase.VerifyIdToken

func VerifyAuthToken(context *gin.Context) {
	authHeader := context.Request.Header.Get("Authorization")
	idTokenValue := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
	if idTokenValue == "" {
		log.Warn().Msg("Token missing: 401")
		context.AbortWithStatusJSON(
			http.StatusUnauthorized,
			reject.NewProblem().
				WithTitle("Missing access token").
				WithStatus(http.StatusUnauthorized).
				WithCode(accessTokenRequired).
				Build())
		return
	}
	token, err := verifyIdToken(context.Request.Context(), idTokenValue)
	if err != nil {
		log.Warn().Msg(fmt.Sprintf("Error verifying token: %s", err.Error()))
		context.AbortWithStatusJSON(
			http.StatusUnauthorized,
			reject.NewProblem().
				WithTitle("Cannot verify access token").
				WithStatus(http.StatusUnauthorized).
				WithCode(accessTokenInvalid).
				WithDetail(err.Error()).
				Build())
		return
	}
	accessTokenDetails := utils.AccessToken{
		Token:    *token,
		RawToken: idTokenValue,
	}
	utils.SetAccessTokenCtx(&accessTokenDetails, context)
}

// VerifyPlayerHeader trusts the X-Player-Id header as the caller identity.
func VerifyPlayerHeader(context *gin.Context) {
	playerId := strings.TrimSpace(context.GetHeader(playerIdHeader))
	if playerId == "" {
		context.AbortWithStatusJSON(
			http.StatusUnauthorized,
			reject.NewProblem().
				WithTitle("Missing player id").
				WithStatus(http.StatusUnauthorized).
				WithCode(playerIdRequired).
				Build())
		return
	}
	utils.SetPlayerIdCtx(playerId, context)
}
