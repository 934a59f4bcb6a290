package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	pkgconfig "medgenie/pkg/config"
)

// Store backends.
const (
	StoreFirestore = "firestore"
	StorePostgres  = "postgres"
)

// Summarizer providers.
const (
	SummarizerHuggingFace = "huggingface"
	SummarizerClaude      = "claude"
	SummarizerOpenAI      = "openai"
	SummarizerNoop        = "noop"
)

// ServiceConfig holds the runtime configuration for the API service.
// Values are resolved in three layers: built-in defaults, an optional YAML
// file named by CONFIG_PATH, and environment variable overrides.
type ServiceConfig struct {
	Server     ServerConfig     `yaml:"-"`
	Store      StoreConfig      `yaml:"store"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
	History    HistoryConfig    `yaml:"history"`
}

// ServerConfig holds HTTP server settings. Environment-only.
type ServerConfig struct {
	// Addr is the listen address. Default ":8080".
	Addr string `yaml:"-"`

	// ShutdownTimeout bounds the graceful drain on SIGTERM. Default 5s.
	ShutdownTimeout time.Duration `yaml:"-"`

	// ReadHeaderTimeout guards against slow-header clients. Default 10s.
	ReadHeaderTimeout time.Duration `yaml:"-"`
}

// StoreConfig selects and parameterizes the persistence backend.
type StoreConfig struct {
	// Type is "firestore" or "postgres". Default "firestore".
	Type string `yaml:"type"`

	// Collection is the Firestore collection (and relational table name)
	// holding visit records. Default "summaries".
	Collection string `yaml:"collection"`

	// CredentialsFile is the Firestore service account key path. The file
	// is opened once at startup; a missing or unreadable key is fatal.
	CredentialsFile string `yaml:"credentials_file"`

	// ProjectID is the GCP project that owns the Firestore database.
	// Empty lets the client library detect it from the credentials.
	ProjectID string `yaml:"project_id"`
}

// SummarizerConfig selects the summarization provider.
// Provider-specific settings (API keys, length window) are loaded by the
// provider itself from its own environment variables.
type SummarizerConfig struct {
	// Type is one of huggingface, claude, openai, noop. Default "huggingface".
	Type string `yaml:"type"`
}

// HistoryConfig bounds the patient history listing.
type HistoryConfig struct {
	// Limit caps the records returned per patient. 0 returns everything.
	Limit int `yaml:"limit"`
}

// LoadServiceConfig loads the service configuration.
// Returns an error when CONFIG_PATH names an unreadable file or when the
// resolved configuration fails validation.
func LoadServiceConfig() (*ServiceConfig, error) {
	cfg := defaultServiceConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid service configuration: %w", err)
	}

	return cfg, nil
}

func defaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		Server: ServerConfig{
			Addr:              ":8080",
			ShutdownTimeout:   5 * time.Second,
			ReadHeaderTimeout: 10 * time.Second,
		},
		Store: StoreConfig{
			Type:            StoreFirestore,
			Collection:      "summaries",
			CredentialsFile: "firebase_credentials.json",
		},
		Summarizer: SummarizerConfig{
			Type: SummarizerHuggingFace,
		},
		History: HistoryConfig{
			Limit: 0,
		},
	}
}

// mergeFile overlays values from a YAML file onto the config.
// Keys absent from the file keep their current values.
func (c *ServiceConfig) mergeFile(path string) error {
	// #nosec G304 -- path comes from CONFIG_PATH, set by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	return nil
}

// applyEnv applies environment variable overrides on top of file values.
func (c *ServiceConfig) applyEnv() {
	c.Server.Addr = pkgconfig.GetEnvString("HTTP_ADDR", c.Server.Addr)
	c.Server.ShutdownTimeout = pkgconfig.GetEnvDuration("SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)
	c.Server.ReadHeaderTimeout = pkgconfig.GetEnvDuration("READ_HEADER_TIMEOUT", c.Server.ReadHeaderTimeout)

	c.Store.Type = pkgconfig.GetEnvString("STORE_TYPE", c.Store.Type)
	c.Store.Collection = pkgconfig.GetEnvString("STORE_COLLECTION", c.Store.Collection)
	c.Store.CredentialsFile = pkgconfig.GetEnvString("FIRESTORE_CREDENTIALS_FILE", c.Store.CredentialsFile)
	c.Store.ProjectID = pkgconfig.GetEnvString("FIRESTORE_PROJECT_ID", c.Store.ProjectID)

	c.Summarizer.Type = pkgconfig.GetEnvString("SUMMARIZER_TYPE", c.Summarizer.Type)

	c.History.Limit = pkgconfig.GetEnvInt("HISTORY_LIMIT", c.History.Limit)
}

// Validate checks configuration correctness.
func (c *ServiceConfig) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server address cannot be empty")
	}

	if err := pkgconfig.ValidatePositiveDuration(c.Server.ReadHeaderTimeout); err != nil {
		return fmt.Errorf("invalid read header timeout: %w", err)
	}

	if err := pkgconfig.ValidateDurationRange(c.Server.ShutdownTimeout, time.Second, 5*time.Minute); err != nil {
		return fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	switch c.Store.Type {
	case StoreFirestore, StorePostgres:
	default:
		return fmt.Errorf("unknown store type %q", c.Store.Type)
	}

	if c.Store.Collection == "" {
		return fmt.Errorf("store collection cannot be empty")
	}

	if c.Store.Type == StoreFirestore && c.Store.CredentialsFile == "" {
		return fmt.Errorf("firestore credentials file cannot be empty")
	}

	switch c.Summarizer.Type {
	case SummarizerHuggingFace, SummarizerClaude, SummarizerOpenAI, SummarizerNoop:
	default:
		return fmt.Errorf("unknown summarizer type %q", c.Summarizer.Type)
	}

	if c.History.Limit < 0 {
		return fmt.Errorf("history limit cannot be negative, got %d", c.History.Limit)
	}

	return nil
}
