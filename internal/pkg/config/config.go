package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverChain    = "chain"
)

type Config struct {
	Port     string
	DbUrl    string
	LogLevel string

	StoreDriver   string
	LedgerDriver  string
	EscrowAccount string

	MemoryOpeningBalance uint64

	GoogleProjectId                   string
	EventsTopic                       string
	CommandsTopic                     string
	TransferConfirmationsSubscription string

	BalanceCheck         bool
	FlowAccessHost       string
	FlowTokenAddress     string
	FungibleTokenAddress string

	AdminKmsResourceName string
	AdminAuthorizerAddr  string

	AuthDisabled bool

	EscrowAuditInterval time.Duration
	PayoutMaxAttempts   int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", ":8080")
	v.SetDefault("DB_URL", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORE_DRIVER", DriverMemory)
	v.SetDefault("LEDGER_DRIVER", DriverMemory)
	v.SetDefault("ESCROW_ACCOUNT", "escrow")
	v.SetDefault("MEMORY_OPENING_BALANCE", 0)
	v.SetDefault("GOOGLE_PROJECT_ID", "")
	v.SetDefault("EVENTS_TOPIC", "connectfour.game.events")
	v.SetDefault("COMMANDS_TOPIC", "blockchain.flow.commands")
	v.SetDefault("TRANSFER_CONFIRMATIONS_SUBSCRIPTION", "")
	v.SetDefault("BALANCE_CHECK", false)
	v.SetDefault("FLOW_ACCESS_HOST", "access.devnet.nodes.onflow.org:9000")
	v.SetDefault("FLOW_TOKEN_ADDRESS", "")
	v.SetDefault("FUNGIBLE_TOKEN_ADDRESS", "")
	v.SetDefault("ADMIN_GCP_KMS_RESOURCE_NAME", "")
	v.SetDefault("ADMIN_AUTHORIZER_ADDR", "")
	v.SetDefault("AUTH_DISABLED", false)
	v.SetDefault("ESCROW_AUDIT_INTERVAL", "1m")
	v.SetDefault("PAYOUT_MAX_ATTEMPTS", 5)
}

// Load reads the environment and, when present, the .env file at envFile.
func Load(v *viper.Viper, envFile string) (Config, error) {
	setDefaults(v)
	v.AutomaticEnv()
	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			log.Info().Str("file", envFile).Msg("No env file loaded, using environment only")
		}
	}

	cfg := Config{
		Port:                              v.GetString("PORT"),
		DbUrl:                             v.GetString("DB_URL"),
		LogLevel:                          v.GetString("LOG_LEVEL"),
		StoreDriver:                       v.GetString("STORE_DRIVER"),
		LedgerDriver:                      v.GetString("LEDGER_DRIVER"),
		EscrowAccount:                     v.GetString("ESCROW_ACCOUNT"),
		MemoryOpeningBalance:              v.GetUint64("MEMORY_OPENING_BALANCE"),
		GoogleProjectId:                   v.GetString("GOOGLE_PROJECT_ID"),
		EventsTopic:                       v.GetString("EVENTS_TOPIC"),
		CommandsTopic:                     v.GetString("COMMANDS_TOPIC"),
		TransferConfirmationsSubscription: v.GetString("TRANSFER_CONFIRMATIONS_SUBSCRIPTION"),
		BalanceCheck:                      v.GetBool("BALANCE_CHECK"),
		FlowAccessHost:                    v.GetString("FLOW_ACCESS_HOST"),
		FlowTokenAddress:                  v.GetString("FLOW_TOKEN_ADDRESS"),
		FungibleTokenAddress:              v.GetString("FUNGIBLE_TOKEN_ADDRESS"),
		AdminKmsResourceName:              v.GetString("ADMIN_GCP_KMS_RESOURCE_NAME"),
		AdminAuthorizerAddr:               v.GetString("ADMIN_AUTHORIZER_ADDR"),
		AuthDisabled:                      v.GetBool("AUTH_DISABLED"),
		EscrowAuditInterval:               v.GetDuration("ESCROW_AUDIT_INTERVAL"),
		PayoutMaxAttempts:                 v.GetInt("PAYOUT_MAX_ATTEMPTS"),
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.StoreDriver {
	case DriverMemory:
	case DriverPostgres:
		if c.DbUrl == "" {
			return errors.New("DB_URL is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.LedgerDriver {
	case DriverMemory:
	case DriverPostgres:
		if c.DbUrl == "" {
			return errors.New("DB_URL is required for the postgres ledger")
		}
	case DriverChain:
		if c.GoogleProjectId == "" {
			return errors.New("GOOGLE_PROJECT_ID is required for the chain ledger")
		}
	default:
		return fmt.Errorf("unknown LEDGER_DRIVER %q", c.LedgerDriver)
	}

	if c.EscrowAccount == "" {
		return errors.New("ESCROW_ACCOUNT must not be empty")
	}
	if c.PayoutMaxAttempts < 1 {
		return fmt.Errorf("PAYOUT_MAX_ATTEMPTS must be positive, got %d", c.PayoutMaxAttempts)
	}
	if c.EscrowAuditInterval <= 0 {
		return fmt.Errorf("ESCROW_AUDIT_INTERVAL must be positive, got %s", c.EscrowAuditInterval)
	}
	return nil
}

func (c Config) NeedsDatabase() bool {
	return c.StoreDriver == DriverPostgres || c.LedgerDriver == DriverPostgres
}

func (c Config) NeedsPubSub() bool {
	return c.GoogleProjectId != ""
}
