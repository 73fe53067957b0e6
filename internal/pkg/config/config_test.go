package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, DriverMemory, cfg.LedgerDriver)
	assert.Equal(t, "escrow", cfg.EscrowAccount)
	assert.Equal(t, "connectfour.game.events", cfg.EventsTopic)
	assert.Equal(t, time.Minute, cfg.EscrowAuditInterval)
	assert.Equal(t, 5, cfg.PayoutMaxAttempts)
	assert.False(t, cfg.NeedsDatabase())
	assert.False(t, cfg.NeedsPubSub())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DB_URL", "postgres://localhost/stakefour")
	t.Setenv("PAYOUT_MAX_ATTEMPTS", "3")
	t.Setenv("AUTH_DISABLED", "true")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
	assert.Equal(t, 3, cfg.PayoutMaxAttempts)
	assert.True(t, cfg.AuthDisabled)
	assert.True(t, cfg.NeedsDatabase())
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown store", map[string]string{"STORE_DRIVER": "redis"}},
		{"postgres without url", map[string]string{"LEDGER_DRIVER": "postgres"}},
		{"chain without project", map[string]string{"LEDGER_DRIVER": "chain"}},
		{"no attempts", map[string]string{"PAYOUT_MAX_ATTEMPTS": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(viper.New(), "")
			assert.Error(t, err)
		})
	}
}
