package game

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kollektive-hackathon/stakefour-backend/internal/pkg/blockchain"
	"github.com/kollektive-hackathon/stakefour-backend/internal/pkg/connectfour"
	"github.com/kollektive-hackathon/stakefour-backend/internal/pkg/pubsub"
	"github.com/kollektive-hackathon/stakefour-backend/internal/pkg/ws"
)

const publishTimeout = 10 * time.Second

type GameCreated struct {
	Type      string               `json:"type"`
	Reference string               `json:"reference"`
	Creator   connectfour.PlayerID `json:"creator"`
	Stake     uint64               `json:"stake"`
}

type GameJoined struct {
	Type      string               `json:"type"`
	Reference string               `json:"reference"`
	Player0   connectfour.PlayerID `json:"player0"`
	Player1   connectfour.PlayerID `json:"player1"`
	Stake     uint64               `json:"stake"`
}

type Moved struct {
	Type      string               `json:"type"`
	Reference string               `json:"reference"`
	Player    connectfour.PlayerID `json:"player"`
	Move      connectfour.Move     `json:"move"`
	Result    connectfour.Result   `json:"result"`
	Board     connectfour.Board    `json:"board"`
}

type GameOver struct {
	Type        string                 `json:"type"`
	Reference   string                 `json:"reference"`
	Phase       connectfour.Phase      `json:"phase"`
	Winner      connectfour.PlayerID   `json:"winner,omitempty"`
	Payouts     connectfour.PayoutPlan `json:"payouts"`
	MoveCount   int                    `json:"moveCount"`
	MoveLogRoot string                 `json:"moveLogRoot"`
}

type GameCancelled struct {
	Type      string                 `json:"type"`
	Reference string                 `json:"reference"`
	Refund    connectfour.PayoutPlan `json:"refund"`
}

type eventEnvelope struct {
	topic string
	event any
}

func (e eventEnvelope) GetEventTopicName() string {
	return e.topic
}

func (e eventEnvelope) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.event)
}

func HubTopic(reference string) string {
	return "game/" + reference
}

// eventBridge fans committed game events out to pub/sub and websocket listeners.
// Delivery is best effort: failures are logged and never undo the change.
type eventBridge struct {
	publisher pubsub.Publisher
	topic     string
	hub       *ws.WebSocketNotificationHub
}

func (b *eventBridge) gameCreated(ctx context.Context, rec *connectfour.GameRecord) {
	b.publish(ctx, rec.Reference, GameCreated{
		Type:      "GAME_CREATED",
		Reference: rec.Reference,
		Creator:   rec.Player0,
		Stake:     rec.Stake,
	})
}

func (b *eventBridge) gameJoined(ctx context.Context, rec *connectfour.GameRecord) {
	b.publish(ctx, rec.Reference, GameJoined{
		Type:      "GAME_JOINED",
		Reference: rec.Reference,
		Player0:   rec.Player0,
		Player1:   rec.Player1,
		Stake:     rec.Stake,
	})
}

func (b *eventBridge) moved(ctx context.Context, rec *connectfour.GameRecord, outcome connectfour.Outcome) {
	b.publish(ctx, rec.Reference, Moved{
		Type:      "MOVED",
		Reference: rec.Reference,
		Player:    rec.Players()[outcome.Player],
		Move:      rec.Moves[len(rec.Moves)-1],
		Result:    outcome.Result,
		Board:     rec.Board,
	})
}

func (b *eventBridge) gameOver(ctx context.Context, rec *connectfour.GameRecord, payouts connectfour.PayoutPlan) {
	root, err := blockchain.MoveLogRoot(rec.Moves)
	if err != nil {
		log.Warn().Err(err).Str("reference", rec.Reference).Msg("Cannot compute move log root")
	}
	b.publish(ctx, rec.Reference, GameOver{
		Type:        "GAME_OVER",
		Reference:   rec.Reference,
		Phase:       rec.Phase,
		Winner:      rec.Winner,
		Payouts:     payouts,
		MoveCount:   len(rec.Moves),
		MoveLogRoot: root,
	})
}

func (b *eventBridge) gameCancelled(ctx context.Context, rec *connectfour.GameRecord, refund connectfour.PayoutPlan) {
	b.publish(ctx, rec.Reference, GameCancelled{
		Type:      "GAME_CANCELLED",
		Reference: rec.Reference,
		Refund:    refund,
	})
}

func (b *eventBridge) publish(ctx context.Context, reference string, event any) {
	if b == nil {
		return
	}
	if b.hub != nil {
		b.hub.Publish(HubTopic(reference), event)
	}
	if b.publisher == nil {
		return
	}

	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := b.publisher.Publish(publishCtx, eventEnvelope{topic: b.topic, event: event}); err != nil {
		log.Warn().Err(err).Str("reference", reference).Msg("Failed to publish game event")
	}
}
