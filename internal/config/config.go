package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/veridoc/doc-custody/internal/domain"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// ChainConfig holds blockchain gateway configuration
type ChainConfig struct {
	RPCURL       string `mapstructure:"rpc_url"`
	WebSocketURL string `mapstructure:"websocket_url"`
	ChainID      int64  `mapstructure:"chain_id"`
	// ContractAddress is the custody NFT contract the event loop monitors
	ContractAddress string `mapstructure:"contract_address"`
	// OperatorAddress is this system's privileged address
	OperatorAddress string `mapstructure:"operator_address"`
	// OperatorPrivateKey is the hex-encoded key used to sign pull and mint
	// transactions
	OperatorPrivateKey string `mapstructure:"operator_private_key"`
	// Confirmations to wait for before treating a write as final
	Confirmations uint64 `mapstructure:"confirmations"`
	// ConfirmationTimeout bounds every confirmation wait; the gateway never
	// blocks longer than this
	ConfirmationTimeout time.Duration `mapstructure:"confirmation_timeout"`
}

// AuthConfig holds wallet authentication configuration
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	// SessionTTL is the lifetime of issued session tokens
	SessionTTL time.Duration `mapstructure:"session_ttl"`
	// NonceTTL is the max age of an issued login nonce
	NonceTTL time.Duration `mapstructure:"nonce_ttl"`
	// SIWEDomain is the expected domain field of SIWE messages
	SIWEDomain string `mapstructure:"siwe_domain"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // in seconds
}

// StorageConfig holds document content storage configuration
type StorageConfig struct {
	// PinURL is the content-addressed storage endpoint documents are
	// uploaded to after record creation
	PinURL      string        `mapstructure:"pin_url"`
	GatewayURL  string        `mapstructure:"gateway_url"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	// MaxDocumentSize limits PDF uploads (bytes)
	MaxDocumentSize int64 `mapstructure:"max_document_size"`
}

// DashboardConfig holds connected-recipients view builder configuration
type DashboardConfig struct {
	// WorkerPoolSize bounds the parallel live-read fan-out per request
	WorkerPoolSize int `mapstructure:"worker_pool_size"`
}

// ReconcileConfig holds reconciliation sweep configuration
type ReconcileConfig struct {
	Interval       time.Duration `mapstructure:"interval"`
	WorkerPoolSize int           `mapstructure:"worker_pool_size"`
	BatchSize      int           `mapstructure:"batch_size"`
}

// APIConfig holds configuration for the API server binary
type APIConfig struct {
	BaseConfig `mapstructure:",squash"`
	Server     ServerConfig            `mapstructure:"server"`
	Database   DatabaseConfig          `mapstructure:"database"`
	Chain      ChainConfig             `mapstructure:"chain"`
	Auth       AuthConfig              `mapstructure:"auth"`
	Storage    StorageConfig           `mapstructure:"storage"`
	Dashboard  DashboardConfig         `mapstructure:"dashboard"`
	Reconcile  ReconcileConfig         `mapstructure:"reconcile"`
	Tokens     []domain.SupportedToken `mapstructure:"tokens"`
}

// SweeperConfig holds configuration for the reconciliation sweeper binary
type SweeperConfig struct {
	BaseConfig `mapstructure:",squash"`
	Database   DatabaseConfig  `mapstructure:"database"`
	Chain      ChainConfig     `mapstructure:"chain"`
	Reconcile  ReconcileConfig `mapstructure:"reconcile"`
}

// LoadAPIConfig loads configuration for the API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	v.SetDefault("debug", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("chain.chain_id", 1)
	v.SetDefault("chain.confirmations", 1)
	v.SetDefault("chain.confirmation_timeout", "5m")
	v.SetDefault("auth.session_ttl", "24h")
	v.SetDefault("auth.nonce_ttl", "5m")
	v.SetDefault("storage.http_timeout", "30s")
	v.SetDefault("storage.max_document_size", 25*1024*1024)
	v.SetDefault("dashboard.worker_pool_size", 10)
	v.SetDefault("reconcile.interval", "1h")
	v.SetDefault("reconcile.worker_pool_size", 10)
	v.SetDefault("reconcile.batch_size", 200)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use environment variables
	}

	var cfg APIConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Chain.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadSweeperConfig loads configuration for the reconciliation sweeper
func LoadSweeperConfig(configFile string, envPath string) (*SweeperConfig, error) {
	v := configureViper("sweeper", configFile, envPath)

	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 5)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.conn_max_idle_time", "10m")
	v.SetDefault("chain.chain_id", 1)
	v.SetDefault("chain.confirmations", 1)
	v.SetDefault("chain.confirmation_timeout", "5m")
	v.SetDefault("reconcile.interval", "1h")
	v.SetDefault("reconcile.worker_pool_size", 10)
	v.SetDefault("reconcile.batch_size", 200)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg SweeperConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Database.Host == "" {
		return nil, errors.New("database.host is required")
	}
	if cfg.Database.DBName == "" {
		return nil, errors.New("database.dbname is required")
	}
	if err := cfg.Chain.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the required chain gateway fields
func (c *ChainConfig) Validate() error {
	if c.RPCURL == "" {
		return errors.New("chain.rpc_url is required")
	}
	if c.ContractAddress == "" {
		return errors.New("chain.contract_address is required")
	}
	if c.OperatorAddress == "" {
		return errors.New("chain.operator_address is required")
	}
	return nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	loadEnv(envPath, service)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		v.AddConfigPath("config/")
	}

	v.SetEnvPrefix("DOC_CUSTODY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables.
// Required for viper to map env vars to config struct fields when no config
// file exists.
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		// Database
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// Chain
		"chain.rpc_url",
		"chain.websocket_url",
		"chain.chain_id",
		"chain.contract_address",
		"chain.operator_address",
		"chain.operator_private_key",
		"chain.confirmations",
		"chain.confirmation_timeout",
		// Auth
		"auth.jwt_secret",
		"auth.session_ttl",
		"auth.nonce_ttl",
		"auth.siwe_domain",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		// Storage
		"storage.pin_url",
		"storage.gateway_url",
		"storage.http_timeout",
		"storage.max_document_size",
		// Dashboard
		"dashboard.worker_pool_size",
		// Reconcile
		"reconcile.interval",
		"reconcile.worker_pool_size",
		"reconcile.batch_size",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // Overload lets later files override earlier ones
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
