package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	gcppubsub "cloud.google.com/go/pubsub"
	"github.com/rs/zerolog/log"

	"github.com/kollektive-hackathon/stakefour-backend/internal/pkg/blockchain"
	"github.com/kollektive-hackathon/stakefour-backend/internal/pkg/pubsub"
	"github.com/kollektive-hackathon/stakefour-backend/internal/pkg/utils"
)

// TransferConfirmed is emitted by the chain relay once an ESCROW_TRANSFER command settles.
type TransferConfirmed struct {
	Key   string `json:"key"`
	Error string `json:"error,omitempty"`
}

// ChainBridge moves funds by publishing escrow transfer commands for the on-chain relay.
//
// Without confirmations a transfer counts as done once the command is accepted by pub/sub.
// With confirmations it waits for the matching TransferConfirmed message.
type ChainBridge struct {
	publisher     pubsub.Publisher
	topic         string
	authorizer    blockchain.Authorizer
	confirmations bool
	timeout       time.Duration

	pendingMutex sync.Mutex
	pending      map[string]chan error
}

func NewChainBridge(publisher pubsub.Publisher, topic string, authorizer blockchain.Authorizer, confirmations bool) *ChainBridge {
	return &ChainBridge{
		publisher:     publisher,
		topic:         topic,
		authorizer:    authorizer,
		confirmations: confirmations,
		timeout:       2 * time.Minute,
		pending:       make(map[string]chan error),
	}
}

func (b *ChainBridge) Transfer(ctx context.Context, t Transfer) error {
	if err := t.validate(); err != nil {
		return err
	}

	cmd := blockchain.NewEscrowTransferCommand(t.Key, t.From, t.To, FormatAmount(t.Amount), b.authorizer)
	cmd.Topic = b.topic

	if !b.confirmations {
		return b.publisher.Publish(ctx, cmd)
	}

	done := b.await(t.Key)
	defer b.forget(t.Key, done)

	if err := b.publisher.Publish(ctx, cmd); err != nil {
		return err
	}

	timer := time.NewTimer(b.timeout)
	defer timer.Stop()
	select {
	case err := <-done:
		return err
	case <-timer.C:
		return fmt.Errorf("transfer %s not confirmed after %s", t.Key, b.timeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *ChainBridge) HandleTransferConfirmed(_ context.Context, message *gcppubsub.Message) {
	if err := b.confirm(message.Data); err != nil {
		log.Warn().Err(err).Msg("Error while parsing TransferConfirmed message")
	}
	message.Ack()
}

func (b *ChainBridge) confirm(data []byte) error {
	payload, err := utils.JsonDecodeByteStream[TransferConfirmed](data)
	if err != nil {
		return err
	}

	b.pendingMutex.Lock()
	done, ok := b.pending[payload.Key]
	b.pendingMutex.Unlock()
	if !ok {
		log.Debug().Str("key", payload.Key).Msg("Confirmation for transfer nobody is waiting on")
		return nil
	}

	var result error
	if payload.Error != "" {
		result = fmt.Errorf("%w: %s", ErrTransferRejected, payload.Error)
	}
	select {
	case done <- result:
	default:
	}
	return nil
}

func (b *ChainBridge) await(key string) chan error {
	done := make(chan error, 1)
	b.pendingMutex.Lock()
	b.pending[key] = done
	b.pendingMutex.Unlock()
	return done
}

func (b *ChainBridge) forget(key string, done chan error) {
	b.pendingMutex.Lock()
	defer b.pendingMutex.Unlock()
	if b.pending[key] == done {
		delete(b.pending, key)
	}
}

// Pending reports how many transfers are waiting for confirmation.
func (b *ChainBridge) Pending() int {
	b.pendingMutex.Lock()
	defer b.pendingMutex.Unlock()
	return len(b.pending)
}
