package config

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	JWTToken string
	BaseURL  string

	// Mode is "development" or "production" and selects the log format
	Mode     string
	LogLevel string

	RPCURL     string
	PrivateKey string
	// ChainID rejects wallets on other networks when non-zero
	ChainID int64
	// Spender overrides the allowance spender for bridge deposits
	Spender string
	// SwapAddress points swap, liquidity and balances at another pool
	// deployment than the registered SWAP contract
	SwapAddress string

	RedirectTo    string
	RedirectDelay time.Duration
	PollInterval  time.Duration
	ListenAddr    string

	AutoApprove bool
}

// Load reads configuration from environment variables and config file
func Load() (*Config, error) {
	viper.SetConfigName(".nexus-swap")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME")
	viper.AddConfigPath(".")

	viper.SetDefault("base_url", "https://1click.chaindefuser.com")
	viper.SetDefault("mode", "production")
	viper.SetDefault("rpc_url", "http://localhost:8545")
	viper.SetDefault("redirect_to", "/")
	viper.SetDefault("redirect_delay", 5*time.Second)
	viper.SetDefault("poll_interval", 3*time.Second)
	viper.SetDefault("listen_addr", ":8080")
	viper.SetDefault("auto_approve", true)

	viper.SetEnvPrefix("NEXUS_SWAP")
	viper.AutomaticEnv()

	// Read config file (optional)
	_ = viper.ReadInConfig()

	cfg := &Config{
		JWTToken:      viper.GetString("jwt_token"),
		BaseURL:       viper.GetString("base_url"),
		Mode:          viper.GetString("mode"),
		LogLevel:      viper.GetString("log_level"),
		RPCURL:        viper.GetString("rpc_url"),
		PrivateKey:    viper.GetString("private_key"),
		ChainID:       viper.GetInt64("chain_id"),
		Spender:       viper.GetString("spender"),
		SwapAddress:   viper.GetString("swap_address"),
		RedirectTo:    viper.GetString("redirect_to"),
		RedirectDelay: viper.GetDuration("redirect_delay"),
		PollInterval:  viper.GetDuration("poll_interval"),
		ListenAddr:    viper.GetString("listen_addr"),
		AutoApprove:   viper.GetBool("auto_approve"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that have no usable fallback
func (c *Config) Validate() error {
	if c.RedirectDelay <= 0 {
		return fmt.Errorf("redirect_delay must be positive, got %s", c.RedirectDelay)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %s", c.PollInterval)
	}
	if c.ChainID < 0 {
		return fmt.Errorf("chain_id must not be negative")
	}
	if c.SwapAddress != "" && !common.IsHexAddress(c.SwapAddress) {
		return fmt.Errorf("swap_address %q is not a hex address", c.SwapAddress)
	}
	return nil
}

// RequireJWT fails when no 1Click API token is configured
func (c *Config) RequireJWT() error {
	if c.JWTToken == "" {
		return fmt.Errorf("JWT token not found. Please set NEXUS_SWAP_JWT_TOKEN environment variable or create a .nexus-swap.yaml config file")
	}
	return nil
}
