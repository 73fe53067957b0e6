package game

import (
	"github.com/kollektive-hackathon/stakefour-backend/internal/pkg/connectfour"
)

type CreateGameRequest struct {
	Reference  string `json:"reference"`
	Commitment uint64 `json:"commitment"`
}

type JoinGameRequest struct {
	Commitment uint64 `json:"commitment"`
}

type PlayMoveRequest struct {
	Column   *int                 `json:"column" binding:"required"`
	Opponent connectfour.PlayerID `json:"opponent"`
}

type PlayMoveResponse struct {
	Outcome connectfour.Outcome     `json:"outcome"`
	Payouts connectfour.PayoutPlan  `json:"payouts,omitempty"`
	Game    *connectfour.GameRecord `json:"game"`
}

type CancelGameResponse struct {
	Reference string                 `json:"reference"`
	Refund    connectfour.PayoutPlan `json:"refund"`
}
