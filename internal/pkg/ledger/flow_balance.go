package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/onflow/cadence"
	"github.com/onflow/flow-go-sdk"
	"github.com/onflow/flow-go-sdk/access/grpc"
)

const balanceScript = `
	import FungibleToken from 0xFUNGIBLE_TOKEN_ADDRESS
	import FlowToken from 0xFLOW_TOKEN_ADDRESS

	pub fun main(account: Address): UFix64 {

	let vaultRef = getAccount(account)
	.getCapability(/public/flowTokenBalance)
	.borrow<&FlowToken.Vault{FungibleToken.Balance}>()
	?? panic("Could not borrow Balance reference to the Vault")

	return vaultRef.balance
	}
	`

type scriptExecutor interface {
	ExecuteScriptAtLatestBlock(ctx context.Context, script []byte, arguments []cadence.Value) (cadence.Value, error)
}

// FlowBalanceChecker reads FlowToken vault balances with a read-only script.
type FlowBalanceChecker struct {
	executor scriptExecutor
	script   []byte
}

func NewFlowBalanceChecker(accessHost, flowTokenAddress, fungibleTokenAddress string) (*FlowBalanceChecker, error) {
	c, err := grpc.NewClient(accessHost)
	if err != nil {
		return nil, err
	}
	return newFlowBalanceChecker(c, flowTokenAddress, fungibleTokenAddress), nil
}

func newFlowBalanceChecker(executor scriptExecutor, flowTokenAddress, fungibleTokenAddress string) *FlowBalanceChecker {
	addressTemplates := map[string]string{
		"0xFLOW_TOKEN_ADDRESS":     "0x" + strings.TrimPrefix(flowTokenAddress, "0x"),
		"0xFUNGIBLE_TOKEN_ADDRESS": "0x" + strings.TrimPrefix(fungibleTokenAddress, "0x"),
	}

	script := balanceScript
	for k, v := range addressTemplates {
		script = strings.ReplaceAll(script, k, v)
	}
	return &FlowBalanceChecker{executor: executor, script: []byte(script)}
}

// Balance returns the vault balance of address in base units.
func (c *FlowBalanceChecker) Balance(ctx context.Context, address string) (uint64, error) {
	flowAddress := flow.HexToAddress(address)
	cadenceAddress := cadence.BytesToAddress(flowAddress.Bytes())

	args := []cadence.Value{cadenceAddress}
	value, err := c.executor.ExecuteScriptAtLatestBlock(ctx, c.script, args)
	if err != nil {
		return 0, fmt.Errorf("balance script for %s: %w", address, err)
	}

	balance, ok := value.(cadence.UFix64)
	if !ok {
		return 0, fmt.Errorf("balance script for %s returned %T", address, value)
	}
	return uint64(balance), nil
}
