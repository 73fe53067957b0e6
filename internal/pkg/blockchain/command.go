package blockchain

import "github.com/google/uuid"

const (
	DefaultCommandsTopic = "blockchain.flow.commands"

	// EscrowTransferCommand moves tokens between a player vault and the escrow vault.
	// Payload: [key, from, to, amount].
	EscrowTransferCommand = "ESCROW_TRANSFER"
)

// Authorizer names the KMS key the relay signs with on behalf of ResourceOwnerAddress.
type Authorizer struct {
	KmsResourceId        string `json:"kmsResourceId"`
	ResourceOwnerAddress string `json:"resourceOwnerAddress"`
}

// Command is a transaction request consumed by the chain relay.
type Command struct {
	Id          string       `json:"id"`
	Type        string       `json:"type"`
	Payload     []any        `json:"payload"`
	Authorizers []Authorizer `json:"authorizers"`

	Topic string `json:"-"`
}

func (bc Command) GetEventTopicName() string {
	if bc.Topic == "" {
		return DefaultCommandsTopic
	}
	return bc.Topic
}

func NewBlockchainCommand(commandType string, payload []any, authorizers []Authorizer) Command {
	return Command{
		Id:          uuid.New().String(),
		Type:        commandType,
		Payload:     payload,
		Authorizers: authorizers,
	}
}

// NewEscrowTransferCommand builds the command for one ledger transfer. The amount is
// already rendered as a UFix64 literal. Escrow vault withdrawals need the admin signature,
// so the admin always authorizes.
func NewEscrowTransferCommand(key, from, to, amount string, admin Authorizer) Command {
	return NewBlockchainCommand(EscrowTransferCommand, []any{key, from, to, amount}, []Authorizer{admin})
}

func NewAdminAuthorizer(kmsResourceName, ownerAddress string) Authorizer {
	return Authorizer{
		KmsResourceId:        kmsResourceName,
		ResourceOwnerAddress: ownerAddress,
	}
}
