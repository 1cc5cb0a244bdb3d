package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Store backend names accepted by POSTHOLE_STORE.
const (
	BackendFile     = "file"
	BackendS3       = "s3"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	Store    string `toml:"store"`     // POSTHOLE_STORE (default "file")
	HTTPAddr string `toml:"http_addr"` // POSTHOLE_HTTP_ADDR (default ":8080")
	NATSURL  string `toml:"nats_url"`  // POSTHOLE_NATS_URL (optional, empty = no events)

	// file backend
	DBPath string `toml:"db_path"` // POSTHOLE_DB_PATH (default "posthole.json")

	// postgres backend
	DatabaseURL string `toml:"database_url"` // POSTHOLE_DATABASE_URL (required for postgres)

	// s3 backend
	S3Bucket   string `toml:"s3_bucket"`   // POSTHOLE_S3_BUCKET (required for s3)
	S3Key      string `toml:"s3_key"`      // POSTHOLE_S3_KEY (default "posthole/items.json")
	S3Region   string `toml:"s3_region"`   // POSTHOLE_S3_REGION (default "us-east-1")
	S3Endpoint string `toml:"s3_endpoint"` // POSTHOLE_S3_ENDPOINT (custom endpoint for MinIO)

	Endpoints Endpoints `toml:"endpoints"`
	Defaults  Defaults  `toml:"defaults"`
}

// Endpoints toggles individual API surfaces on and off. A disabled endpoint
// answers 404 so its existence is not advertised.
type Endpoints struct {
	Create  bool `toml:"create"`  // POSTHOLE_ENABLE_CREATE
	Read    bool `toml:"read"`    // POSTHOLE_ENABLE_READ
	List    bool `toml:"list"`    // POSTHOLE_ENABLE_LIST
	Replace bool `toml:"replace"` // POSTHOLE_ENABLE_REPLACE
	Patch   bool `toml:"patch"`   // POSTHOLE_ENABLE_PATCH
	Delete  bool `toml:"delete"`  // POSTHOLE_ENABLE_DELETE
	Models  bool `toml:"models"`  // POSTHOLE_ENABLE_MODELS
	Forms   bool `toml:"forms"`   // POSTHOLE_ENABLE_FORMS
}

// Defaults are the server-side fallbacks for request parameters the client
// leaves unset.
type Defaults struct {
	ShowDeleted   bool    `toml:"show_deleted"`   // POSTHOLE_DEFAULT_SHOW_DELETED
	Permanent     bool    `toml:"permanent"`      // POSTHOLE_DEFAULT_PERMANENT
	UpdateDeleted bool    `toml:"update_deleted"` // POSTHOLE_DEFAULT_UPDATE_DELETED
	Version       float64 `toml:"version"`        // POSTHOLE_DEFAULT_VERSION
	ListLimit     int     `toml:"list_limit"`     // POSTHOLE_DEFAULT_LIST_LIMIT
}

// Load builds the configuration from an optional TOML file (POSTHOLE_CONFIG)
// with environment variables taking precedence over file values.
func Load() (*Config, error) {
	c := &Config{
		Store:    BackendFile,
		HTTPAddr: ":8080",
		DBPath:   "posthole.json",
		S3Key:    "posthole/items.json",
		S3Region: "us-east-1",
		Endpoints: Endpoints{
			Create: true, Read: true, List: true, Replace: true,
			Patch: true, Delete: true, Models: true, Forms: true,
		},
		Defaults: Defaults{ListLimit: 100},
	}

	if path := os.Getenv("POSTHOLE_CONFIG"); path != "" {
		if _, err := toml.DecodeFile(path, c); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	c.Store = envOrDefault("POSTHOLE_STORE", c.Store)
	c.HTTPAddr = envOrDefault("POSTHOLE_HTTP_ADDR", c.HTTPAddr)
	c.NATSURL = envOrDefault("POSTHOLE_NATS_URL", c.NATSURL)
	c.DBPath = envOrDefault("POSTHOLE_DB_PATH", c.DBPath)
	c.DatabaseURL = envOrDefault("POSTHOLE_DATABASE_URL", c.DatabaseURL)
	c.S3Bucket = envOrDefault("POSTHOLE_S3_BUCKET", c.S3Bucket)
	c.S3Key = envOrDefault("POSTHOLE_S3_KEY", c.S3Key)
	c.S3Region = envOrDefault("POSTHOLE_S3_REGION", c.S3Region)
	c.S3Endpoint = envOrDefault("POSTHOLE_S3_ENDPOINT", c.S3Endpoint)

	var err error
	if c.Endpoints.Create, err = envBool("POSTHOLE_ENABLE_CREATE", c.Endpoints.Create); err != nil {
		return nil, err
	}
	if c.Endpoints.Read, err = envBool("POSTHOLE_ENABLE_READ", c.Endpoints.Read); err != nil {
		return nil, err
	}
	if c.Endpoints.List, err = envBool("POSTHOLE_ENABLE_LIST", c.Endpoints.List); err != nil {
		return nil, err
	}
	if c.Endpoints.Replace, err = envBool("POSTHOLE_ENABLE_REPLACE", c.Endpoints.Replace); err != nil {
		return nil, err
	}
	if c.Endpoints.Patch, err = envBool("POSTHOLE_ENABLE_PATCH", c.Endpoints.Patch); err != nil {
		return nil, err
	}
	if c.Endpoints.Delete, err = envBool("POSTHOLE_ENABLE_DELETE", c.Endpoints.Delete); err != nil {
		return nil, err
	}
	if c.Endpoints.Models, err = envBool("POSTHOLE_ENABLE_MODELS", c.Endpoints.Models); err != nil {
		return nil, err
	}
	if c.Endpoints.Forms, err = envBool("POSTHOLE_ENABLE_FORMS", c.Endpoints.Forms); err != nil {
		return nil, err
	}

	if c.Defaults.ShowDeleted, err = envBool("POSTHOLE_DEFAULT_SHOW_DELETED", c.Defaults.ShowDeleted); err != nil {
		return nil, err
	}
	if c.Defaults.Permanent, err = envBool("POSTHOLE_DEFAULT_PERMANENT", c.Defaults.Permanent); err != nil {
		return nil, err
	}
	if c.Defaults.UpdateDeleted, err = envBool("POSTHOLE_DEFAULT_UPDATE_DELETED", c.Defaults.UpdateDeleted); err != nil {
		return nil, err
	}
	if c.Defaults.Version, err = envFloat("POSTHOLE_DEFAULT_VERSION", c.Defaults.Version); err != nil {
		return nil, err
	}
	if c.Defaults.ListLimit, err = envInt("POSTHOLE_DEFAULT_LIST_LIMIT", c.Defaults.ListLimit); err != nil {
		return nil, err
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) validate() error {
	switch c.Store {
	case BackendFile, BackendMemory:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("POSTHOLE_DATABASE_URL is required for the postgres backend")
		}
	case BackendS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("POSTHOLE_S3_BUCKET is required for the s3 backend")
		}
	default:
		return fmt.Errorf("POSTHOLE_STORE: unknown backend %q", c.Store)
	}
	if c.Defaults.ListLimit <= 0 {
		return fmt.Errorf("POSTHOLE_DEFAULT_LIST_LIMIT must be positive, got %d", c.Defaults.ListLimit)
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
