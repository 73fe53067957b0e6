package utils

import (
	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
)

const (
	walletClaimKey string = "wallet_address"
	tokenCtxKey    string = "accessToken"
	playerIdCtxKey string = "playerId"
)

type AccessToken struct {
	Token    auth.Token
	RawToken string
}

// PlayerId is the wallet address claim when present, the token subject otherwise.
func (at AccessToken) PlayerId() string {
	if wallet, ok := at.Token.Claims[walletClaimKey].(string); ok && wallet != "" {
		return wallet
	}
	return at.Token.Subject
}

func GetAccessToken(ctx *gin.Context) (AccessToken, bool) {
	value, exists := ctx.Get(tokenCtxKey)
	if !exists {
		return AccessToken{}, false
	}
	at, ok := value.(AccessToken)
	return at, ok
}

// GetPlayerId returns the caller set by the auth middleware. ok is false when no
// middleware ran or it stored an empty id.
func GetPlayerId(ctx *gin.Context) (string, bool) {
	playerId := ctx.GetString(playerIdCtxKey)
	return playerId, playerId != ""
}

func SetAccessTokenCtx(token *AccessToken, ctx *gin.Context) {
	ctx.Set(tokenCtxKey, *token)
	SetPlayerIdCtx(token.PlayerId(), ctx)
}

func SetPlayerIdCtx(playerId string, ctx *gin.Context) {
	ctx.Set(playerIdCtxKey, playerId)
}
