package types

import (
	"time"
)

// AppConfig is the root configuration for the mailsift gateway
type AppConfig struct {
	DebugMode  bool `key:"debugMode" json:"debug_mode"`
	PrettyLogs bool `key:"prettyLogs" json:"pretty_logs"`

	Server     ServerConfig     `key:"server" json:"server"`
	Database   DatabaseConfig   `key:"database" json:"database"`
	Gmail      GmailConfig      `key:"gmail" json:"gmail"`
	Classifier ClassifierConfig `key:"classifier" json:"classifier"`
	Summarizer SummarizerConfig `key:"summarizer" json:"summarizer"`
	Sync       SyncConfig       `key:"sync" json:"sync"`
}

// ServerConfig configures the HTTP API surface
type ServerConfig struct {
	Host      string `key:"host" json:"host"`
	Port      int    `key:"port" json:"port"`
	AuthToken string `key:"authToken" json:"auth_token"` // static bearer token, empty disables auth
}

// ----------------------------------------------------------------------------
// Database Configuration
// ----------------------------------------------------------------------------

type DatabaseConfig struct {
	Redis    RedisConfig    `key:"redis" json:"redis"`
	Postgres PostgresConfig `key:"postgres" json:"postgres"`
}

type RedisMode string

const (
	RedisModeSingle  RedisMode = "single"
	RedisModeCluster RedisMode = "cluster"
)

type RedisConfig struct {
	Mode               RedisMode     `key:"mode" json:"mode"`
	Addrs              []string      `key:"addrs" json:"addrs"`
	Username           string        `key:"username" json:"username"`
	Password           string        `key:"password" json:"password"`
	ClientName         string        `key:"clientName" json:"client_name"`
	EnableTLS          bool          `key:"enableTLS" json:"enable_tls"`
	InsecureSkipVerify bool          `key:"insecureSkipVerify" json:"insecure_skip_verify"`
	PoolSize           int           `key:"poolSize" json:"pool_size"`
	DialTimeout        time.Duration `key:"dialTimeout" json:"dial_timeout"`
	ReadTimeout        time.Duration `key:"readTimeout" json:"read_timeout"`
	WriteTimeout       time.Duration `key:"writeTimeout" json:"write_timeout"`
	MaxRetries         int           `key:"maxRetries" json:"max_retries"`
}

type PostgresConfig struct {
	Host            string        `key:"host" json:"host"`
	Port            int           `key:"port" json:"port"`
	User            string        `key:"username" json:"username"`
	Password        string        `key:"password" json:"password"`
	Database        string        `key:"name" json:"name"`
	SSLMode         string        `key:"sslMode" json:"ssl_mode"`
	MaxOpenConns    int           `key:"maxOpenConns" json:"max_open_conns"`
	MaxIdleConns    int           `key:"maxIdleConns" json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `key:"connMaxLifetime" json:"conn_max_lifetime"`
}

// ----------------------------------------------------------------------------
// Mail Source Configuration
// ----------------------------------------------------------------------------

type GmailConfig struct {
	APIBase        string            `key:"apiBase" json:"api_base"`
	RecencyDays    int               `key:"recencyDays" json:"recency_days"`
	RequestTimeout time.Duration     `key:"requestTimeout" json:"request_timeout"`
	OAuth          GoogleOAuthConfig `key:"oauth" json:"oauth"`
}

type GoogleOAuthConfig struct {
	ClientID     string `key:"clientId" json:"client_id"`
	ClientSecret string `key:"clientSecret" json:"client_secret"`
	RedirectURL  string `key:"redirectUrl" json:"redirect_url"`
}

// ----------------------------------------------------------------------------
// Classification Backend Configuration
// ----------------------------------------------------------------------------

// ClassifierConfig points at the category/priority classification backend
type ClassifierConfig struct {
	URL     string        `key:"url" json:"url"`
	Timeout time.Duration `key:"timeout" json:"timeout"`
}

// SummarizerConfig points at the generative summarization backend
type SummarizerConfig struct {
	APIBase string        `key:"apiBase" json:"api_base"`
	APIKey  string        `key:"apiKey" json:"api_key"`
	Model   string        `key:"model" json:"model"`
	Timeout time.Duration `key:"timeout" json:"timeout"`
}

// ----------------------------------------------------------------------------
// Sync Configuration
// ----------------------------------------------------------------------------

type SyncConfig struct {
	DefaultLimit int           `key:"defaultLimit" json:"default_limit"`
	MaxLimit     int           `key:"maxLimit" json:"max_limit"`
	PacingDelay  time.Duration `key:"pacingDelay" json:"pacing_delay"`
	LockTTL      time.Duration `key:"lockTTL" json:"lock_ttl"`
}
