package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("NEXUS_SWAP_JWT_TOKEN", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://1click.chaindefuser.com", cfg.BaseURL)
	assert.Equal(t, "/", cfg.RedirectTo)
	assert.Equal(t, 5*time.Second, cfg.RedirectDelay)
	assert.True(t, cfg.AutoApprove)
	assert.Error(t, cfg.RequireJWT())
	assert.Empty(t, cfg.SwapAddress)
}

func TestLoadFromEnv(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("NEXUS_SWAP_JWT_TOKEN", "token")
	t.Setenv("NEXUS_SWAP_MODE", "development")
	t.Setenv("NEXUS_SWAP_CHAIN_ID", "11155111")
	t.Setenv("NEXUS_SWAP_AUTO_APPROVE", "false")
	t.Setenv("NEXUS_SWAP_POLL_INTERVAL", "10s")
	t.Setenv("NEXUS_SWAP_SWAP_ADDRESS", "0x00000000000000000000000000000000000000aa")

	cfg, err := Load()
	require.NoError(t, err)

	assert.NoError(t, cfg.RequireJWT())
	assert.Equal(t, "development", cfg.Mode)
	assert.Equal(t, int64(11155111), cfg.ChainID)
	assert.False(t, cfg.AutoApprove)
	assert.Equal(t, 10*time.Second, cfg.PollInterval)
	assert.Equal(t, "0x00000000000000000000000000000000000000aa", cfg.SwapAddress)
}

func TestValidate(t *testing.T) {
	cfg := &Config{RedirectDelay: time.Second, PollInterval: time.Second}
	assert.NoError(t, cfg.Validate())

	cfg.SwapAddress = "not-an-address"
	assert.Error(t, cfg.Validate())

	cfg.SwapAddress = ""
	cfg.RedirectDelay = 0
	assert.Error(t, cfg.Validate())
}
