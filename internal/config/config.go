package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

const (
	DefaultConfigPath     = "config.toml"
	DefaultHTTPAddr       = ":8080"
	DefaultPGHost         = "127.0.0.1"
	DefaultPGPort         = 5432
	DefaultPGUser         = "postgres"
	DefaultPGDatabase     = "hookbridge"
	DefaultPGSSLMode      = "disable"
	DefaultGraphBaseURL   = "https://graph.facebook.com"
	DefaultGraphVersion   = "v21.0"
	DefaultStorageBackend = "fs"
	DefaultDataRoot       = "data"
)

type Config struct {
	Log      LogConfig      `toml:"log"`
	Server   ServerConfig   `toml:"server"`
	Postgres PostgresConfig `toml:"postgres"`
	WhatsApp WhatsAppConfig `toml:"whatsapp"`
	Storage  StorageConfig  `toml:"storage"`
	Ingest   IngestConfig   `toml:"ingest"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type PostgresConfig struct {
	Host     string `toml:"host" validate:"required"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database" validate:"required"`
	SSLMode  string `toml:"sslmode"`
}

// WhatsAppConfig holds the Cloud API credentials and endpoints.
type WhatsAppConfig struct {
	// VerifyToken is the shared secret echoed during the webhook
	// subscription handshake.
	VerifyToken string `toml:"verify_token" validate:"required"`
	// AccessToken authenticates Graph API media calls.
	AccessToken string `toml:"access_token" validate:"required"`
	GraphBaseURL string `toml:"graph_base_url"`
	GraphVersion string `toml:"graph_version"`
	// ResolveTimeoutSeconds bounds the media-id -> URL exchange.
	ResolveTimeoutSeconds int `toml:"resolve_timeout_seconds"`
	// DownloadTimeoutSeconds bounds the media download + storage write.
	DownloadTimeoutSeconds int `toml:"download_timeout_seconds"`
}

type StorageConfig struct {
	// Backend selects the object storage provider: "s3" or "fs".
	Backend  string   `toml:"backend" validate:"oneof=s3 fs"`
	DataRoot string   `toml:"data_root"`
	S3       S3Config `toml:"s3"`
}

type S3Config struct {
	Endpoint  string `toml:"endpoint"`
	Region    string `toml:"region"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	Bucket    string `toml:"bucket"`
	UseSSL    bool   `toml:"use_ssl"`
}

type IngestConfig struct {
	// StoreAttempts caps the persistence retries per message.
	StoreAttempts int `toml:"store_attempts"`
}

func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: DefaultHTTPAddr,
		},
		Postgres: PostgresConfig{
			Host:     DefaultPGHost,
			Port:     DefaultPGPort,
			User:     DefaultPGUser,
			Database: DefaultPGDatabase,
			SSLMode:  DefaultPGSSLMode,
		},
		WhatsApp: WhatsAppConfig{
			GraphBaseURL:           DefaultGraphBaseURL,
			GraphVersion:           DefaultGraphVersion,
			ResolveTimeoutSeconds:  10,
			DownloadTimeoutSeconds: 60,
		},
		Storage: StorageConfig{
			Backend:  DefaultStorageBackend,
			DataRoot: DefaultDataRoot,
		},
		Ingest: IngestConfig{
			StoreAttempts: 3,
		},
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate checks that required fields are set before the process starts.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
