package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/swapdesk/config"
)

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
chain:
  rpc_url: "http://localhost:8545"
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, int64(1), cfg.Chain.ChainID)
	assert.Equal(t, "https://hidingbook.keeperdao.com/api/v1", cfg.Relay.Base)
	assert.Equal(t, "swapdesk.db", cfg.Storage.DSN)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
chain:
  rpc_url: "http://localhost:8545"
log:
  level: info
`)

	t.Setenv("RPC_URL", "http://example.test:8545")
	t.Setenv("WALLET_PRIVATE_KEY", "deadbeef")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://example.test:8545", cfg.Chain.RPCURL)
	assert.Equal(t, "deadbeef", cfg.Wallet.PrivateKey)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_FullFile(t *testing.T) {
	path := writeConfig(t, `
chain:
  rpc_url: "http://localhost:8545"
  chain_id: 5
  contracts:
    multicall: "0xcA11bde05977b3631167028862bE2a173976CA11"
    rewards: "0x1000000000000000000000000000000000000001"
    info: "0x2000000000000000000000000000000000000002"
    exchange: "0xDef1C0ded9bec7F1a1670819833240f027b25EfF"
    weth: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"
tokens:
  - address: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"
    symbol: WETH
    decimals: 18
storage:
  dsn: ":memory:"
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, int64(5), cfg.Chain.ChainID)
	assert.Equal(t, "0xDef1C0ded9bec7F1a1670819833240f027b25EfF", cfg.Chain.Contracts.Exchange)
	require.Len(t, cfg.Tokens, 1)
	assert.Equal(t, "WETH", cfg.Tokens[0].Symbol)
	assert.Equal(t, 18, cfg.Tokens[0].Decimals)
	assert.Equal(t, ":memory:", cfg.Storage.DSN)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
