package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del cliente.
type Config struct {
	Chain   ChainConfig   `yaml:"chain"`
	Relay   RelayConfig   `yaml:"relay"`
	Wallet  WalletConfig  `yaml:"wallet"`
	Tokens  []TokenConfig `yaml:"tokens"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// ChainConfig contiene el RPC y las direcciones de los contratos.
type ChainConfig struct {
	RPCURL    string         `yaml:"rpc_url"`
	ChainID   int64          `yaml:"chain_id"`
	Contracts ContractConfig `yaml:"contracts"`
}

// ContractConfig agrupa las direcciones de los contratos del sistema.
type ContractConfig struct {
	Multicall string `yaml:"multicall"` // agregador de batch calls
	Rewards   string `yaml:"rewards"`   // contrato de reward programs
	Info      string `yaml:"info"`      // helper de conversión pool-token → underlying
	Exchange  string `yaml:"exchange"`  // settlement de órdenes RFQ
	WETH      string `yaml:"weth"`      // wrapped native token
}

// RelayConfig contiene el base URL del relay de órdenes.
type RelayConfig struct {
	Base string `yaml:"base"`
}

// WalletConfig contiene la clave del maker. La clave nunca va en el YAML:
// solo se lee de la variable de entorno.
type WalletConfig struct {
	PrivateKey string `yaml:"-"`
}

// TokenConfig es una entrada de la lista de tokens conocidos.
type TokenConfig struct {
	Address  string `yaml:"address"`
	Symbol   string `yaml:"symbol"`
	Decimals int    `yaml:"decimals"`
}

// StorageConfig controla dónde se persiste el log de actividad.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Los valores del entorno sobreescriben los del YAML para las keys que correspondan.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("RPC_URL"); v != "" {
		cfg.Chain.RPCURL = v
	}
	if v := os.Getenv("WALLET_PRIVATE_KEY"); v != "" {
		cfg.Wallet.PrivateKey = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Chain.ChainID == 0 {
		cfg.Chain.ChainID = 1
	}
	if cfg.Relay.Base == "" {
		cfg.Relay.Base = "https://hidingbook.keeperdao.com/api/v1"
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "swapdesk.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
