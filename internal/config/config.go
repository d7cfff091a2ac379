package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Rate limited provider names
const (
	ProviderCDP         = "cdp"
	ProviderZora        = "zora"
	ProviderNeynar      = "neynar"
	ProviderBaseRPC     = "base_rpc"
	ProviderEthereumRPC = "ethereum_rpc"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // postgres or sqlite
	Path            string        `mapstructure:"path"`   // sqlite file, or ":memory:"
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

// CDPConfig holds the analytics SQL API configuration
type CDPConfig struct {
	APIURL         string        `mapstructure:"api_url"`
	KeyID          string        `mapstructure:"key_id"`
	KeySecret      string        `mapstructure:"key_secret"` // base64 ed25519 key
	Timeout        time.Duration `mapstructure:"timeout"`
	FactoryAddress string        `mapstructure:"factory_address"`
	CoinLookback   time.Duration `mapstructure:"coin_lookback"`
	MaxRetries     int           `mapstructure:"max_retries"`
	BaseDelay      time.Duration `mapstructure:"base_delay"`
	MaxDelay       time.Duration `mapstructure:"max_delay"`
	JitterFactor   float64       `mapstructure:"jitter_factor"`
}

// ZoraConfig holds the Zora activity feed and profile API configuration
type ZoraConfig struct {
	APIKey     string        `mapstructure:"api_key"`
	GraphQLURL string        `mapstructure:"graphql_url"`
	ProfileURL string        `mapstructure:"profile_url"`
	FeedLimit  int           `mapstructure:"feed_limit"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// NeynarConfig holds the Farcaster lookup configuration
type NeynarConfig struct {
	APIKey string `mapstructure:"api_key"`
	APIURL string `mapstructure:"api_url"`
}

// RPCConfig holds JSON-RPC endpoints for name resolution
type RPCConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	EthereumURL string `mapstructure:"ethereum_url"`
}

// IngestConfig holds ingestion run configuration
type IngestConfig struct {
	Interval        time.Duration `mapstructure:"interval"`
	Lookback        time.Duration `mapstructure:"lookback"`
	RowCap          int           `mapstructure:"row_cap"`
	RunTimeout      time.Duration `mapstructure:"run_timeout"`
	InsertChunkSize int           `mapstructure:"insert_chunk_size"`
	FeedEnabled     bool          `mapstructure:"feed_enabled"`
}

// IdentityConfig holds identity resolution configuration
type IdentityConfig struct {
	OverridesPath string        `mapstructure:"overrides_path"`
	NameTimeout   time.Duration `mapstructure:"name_timeout"`
	NamedTTL      time.Duration `mapstructure:"named_ttl"`
	UnnamedTTL    time.Duration `mapstructure:"unnamed_ttl"`
	Concurrency   int           `mapstructure:"concurrency"`
	BatchDelay    time.Duration `mapstructure:"batch_delay"`
	MemoryEntries int           `mapstructure:"memory_entries"` // 0 disables the in-process cache
	MemoryTTL     time.Duration `mapstructure:"memory_ttl"`
}

// RateLimitConfig holds the token bucket of one provider
type RateLimitConfig struct {
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	MaxQueueTime      time.Duration `mapstructure:"max_queue_time"`
}

// RateLimiterConfig holds per-provider limits
type RateLimiterConfig struct {
	Enabled   bool                       `mapstructure:"enabled"`
	Providers map[string]RateLimitConfig `mapstructure:"providers"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	ReadTimeout    int      `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout   int      `mapstructure:"write_timeout"` // in seconds
	IdleTimeout    int      `mapstructure:"idle_timeout"`  // in seconds
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// PipelineConfig is shared by every process that touches the ingestion or identity pipeline
type PipelineConfig struct {
	Database  DatabaseConfig    `mapstructure:"database"`
	CDP       CDPConfig         `mapstructure:"cdp"`
	Zora      ZoraConfig        `mapstructure:"zora"`
	Neynar    NeynarConfig      `mapstructure:"neynar"`
	RPC       RPCConfig         `mapstructure:"rpc"`
	Ingest    IngestConfig      `mapstructure:"ingest"`
	Identity  IdentityConfig    `mapstructure:"identity"`
	RateLimit RateLimiterConfig `mapstructure:"rate_limit"`
}

// IngestorConfig holds configuration for the ingestor
type IngestorConfig struct {
	BaseConfig     `mapstructure:",squash"`
	PipelineConfig `mapstructure:",squash"`
}

// APIConfig holds configuration for the API server
type APIConfig struct {
	BaseConfig     `mapstructure:",squash"`
	PipelineConfig `mapstructure:",squash"`
	Server         ServerConfig `mapstructure:"server"`
}

// BackfillConfig holds configuration for the identity backfill
type BackfillConfig struct {
	BaseConfig     `mapstructure:",squash"`
	PipelineConfig `mapstructure:",squash"`
	Backfill       struct {
		Limit    int           `mapstructure:"limit"`
		Lookback time.Duration `mapstructure:"lookback"`
	} `mapstructure:"backfill"`
}

// LoadIngestorConfig loads configuration for the ingestor
func LoadIngestorConfig(configFile string, envPath string) (*IngestorConfig, error) {
	v := configureViper("ingestor", configFile, envPath)
	setPipelineDefaults(v)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg IngestorConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadAPIConfig loads configuration for the API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)
	setPipelineDefaults(v)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 60)
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("server.allowed_origins", []string{"*"})

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg APIConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Database.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadBackfillConfig loads configuration for the identity backfill
func LoadBackfillConfig(configFile string, envPath string) (*BackfillConfig, error) {
	v := configureViper("identity-backfill", configFile, envPath)
	setPipelineDefaults(v)
	v.SetDefault("backfill.limit", 500)
	v.SetDefault("backfill.lookback", "168h")

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg BackfillConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Database.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the fields the ingestor cannot run without
func (c *IngestorConfig) Validate() error {
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if c.CDP.KeyID == "" || c.CDP.KeySecret == "" {
		return errors.New("cdp.key_id and cdp.key_secret are required")
	}
	if c.Ingest.RowCap <= 0 {
		return errors.New("ingest.row_cap must be positive")
	}
	return nil
}

// Validate checks the database section
func (c *DatabaseConfig) Validate() error {
	switch c.Driver {
	case DriverPostgres:
		if c.Host == "" || c.DBName == "" {
			return errors.New("database.host and database.dbname are required for postgres")
		}
	case DriverSQLite:
		if c.Path == "" {
			return errors.New("database.path is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database.driver %q", c.Driver)
	}
	return nil
}

// setPipelineDefaults sets the defaults shared by every process
func setPipelineDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)

	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.path", "data/buyers.db")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.conn_max_idle_time", "10m")

	v.SetDefault("cdp.api_url", "https://api.cdp.coinbase.com/platform/v2/data/query/run")
	v.SetDefault("cdp.timeout", "30s")
	v.SetDefault("cdp.factory_address", "0x777777751622c0d3258f214f9df38e35bf45baf3")
	v.SetDefault("cdp.coin_lookback", "168h")
	v.SetDefault("cdp.max_retries", 3)
	v.SetDefault("cdp.base_delay", "1s")
	v.SetDefault("cdp.max_delay", "30s")
	v.SetDefault("cdp.jitter_factor", 0.2)

	v.SetDefault("zora.graphql_url", "https://api.zora.co/graphql")
	v.SetDefault("zora.profile_url", "https://api-sdk.zora.engineering/api/profile")
	v.SetDefault("zora.feed_limit", 100)
	v.SetDefault("zora.timeout", "10s")

	v.SetDefault("neynar.api_url", "https://api.neynar.com")

	v.SetDefault("rpc.base_url", "https://mainnet.base.org")
	v.SetDefault("rpc.ethereum_url", "https://eth.llamarpc.com")

	v.SetDefault("ingest.interval", "1m")
	v.SetDefault("ingest.lookback", "24h")
	v.SetDefault("ingest.row_cap", 1000)
	v.SetDefault("ingest.run_timeout", "5m")
	v.SetDefault("ingest.insert_chunk_size", 200)
	v.SetDefault("ingest.feed_enabled", true)

	v.SetDefault("identity.overrides_path", "config/identity_overrides.json")
	v.SetDefault("identity.name_timeout", "5s")
	v.SetDefault("identity.named_ttl", "24h")
	v.SetDefault("identity.unnamed_ttl", "30m")
	v.SetDefault("identity.concurrency", 5)
	v.SetDefault("identity.batch_delay", "200ms")
	v.SetDefault("identity.memory_entries", 10000)
	v.SetDefault("identity.memory_ttl", "5m")

	v.SetDefault("rate_limit.enabled", true)
	for name, rps := range map[string]float64{
		ProviderCDP:         2,
		ProviderZora:        5,
		ProviderNeynar:      5,
		ProviderBaseRPC:     20,
		ProviderEthereumRPC: 10,
	} {
		v.SetDefault("rate_limit.providers."+name+".requests_per_second", rps)
		v.SetDefault("rate_limit.providers."+name+".burst", int(rps))
		v.SetDefault("rate_limit.providers."+name+".max_queue_time", "30s")
	}
}

// readConfig reads the config file. A missing file is not an error: env vars and defaults apply.
func readConfig(v *viper.Viper) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to read config: %w", err)
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

	v.SetEnvPrefix("BUYER_INDEXER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds every key so env-only deployments unmarshal fully
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		// Database
		"database.driver",
		"database.path",
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
		// CDP
		"cdp.api_url",
		"cdp.key_id",
		"cdp.key_secret",
		"cdp.timeout",
		"cdp.factory_address",
		"cdp.coin_lookback",
		"cdp.max_retries",
		"cdp.base_delay",
		"cdp.max_delay",
		"cdp.jitter_factor",
		// Zora
		"zora.api_key",
		"zora.graphql_url",
		"zora.profile_url",
		"zora.feed_limit",
		"zora.timeout",
		// Neynar
		"neynar.api_key",
		"neynar.api_url",
		// RPC
		"rpc.base_url",
		"rpc.ethereum_url",
		// Ingest
		"ingest.interval",
		"ingest.lookback",
		"ingest.row_cap",
		"ingest.run_timeout",
		"ingest.insert_chunk_size",
		"ingest.feed_enabled",
		// Identity
		"identity.overrides_path",
		"identity.name_timeout",
		"identity.named_ttl",
		"identity.unnamed_ttl",
		"identity.concurrency",
		"identity.batch_delay",
		"identity.memory_entries",
		"identity.memory_ttl",
		// Rate limit
		"rate_limit.enabled",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		"server.allowed_origins",
		// Backfill
		"backfill.limit",
		"backfill.lookback",
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
		_ = godotenv.Overload(filepath.Join(envPath, envFile))
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

// DSN returns the postgres connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
