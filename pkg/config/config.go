package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	LLM      LLMConfig
	Workflow WorkflowConfig
	NLP      NLPConfig
	Cache    CacheConfig
	Redis    RedisConfig
	Zoom     ZoomConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            string   `envconfig:"PORT" default:"8080"`
	Host            string   `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string   `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout int      `envconfig:"SHUTDOWN_TIMEOUT" default:"10"`
}

// LLMConfig holds LLM API configuration
type LLMConfig struct {
	APIKey              string        `envconfig:"API_KEY"`
	BaseURL             string        `envconfig:"BASE_URL"`
	Model               string        `envconfig:"MODEL" default:"gpt-4o-mini"`
	Temperature         float32       `envconfig:"TEMPERATURE" default:"0.3"`
	MaxTokensPerSection int           `envconfig:"MAX_TOKENS_PER_SECTION" default:"1500"`
	MaxTokensAnalysis   int           `envconfig:"MAX_TOKENS_ANALYSIS" default:"2000"`
	Timeout             time.Duration `envconfig:"TIMEOUT" default:"60s"`
	MaxRetries          int           `envconfig:"MAX_RETRIES" default:"3"`
}

// WorkflowConfig holds snapshot generation workflow configuration
type WorkflowConfig struct {
	ParallelSectionGeneration bool    `envconfig:"PARALLEL_SECTION_GENERATION" default:"false"`
	MinConfidenceThreshold    float64 `envconfig:"MIN_CONFIDENCE_THRESHOLD" default:"0.5"`
	EnableValidation          bool    `envconfig:"ENABLE_VALIDATION" default:"true"`
	EnableImprovements        bool    `envconfig:"ENABLE_IMPROVEMENTS" default:"true"`
	DefaultOutputFormat       string  `envconfig:"DEFAULT_OUTPUT_FORMAT" default:"json"`
}

// NLPConfig holds transcript analysis configuration
type NLPConfig struct {
	ExtractEntities bool `envconfig:"EXTRACT_ENTITIES" default:"true"`
	ExtractTopics   bool `envconfig:"EXTRACT_TOPICS" default:"true"`
	TopTopics       int  `envconfig:"TOP_TOPICS" default:"15"`
	TopKeyPhrases   int  `envconfig:"TOP_KEY_PHRASES" default:"15"`
}

// CacheConfig holds snapshot store configuration
type CacheConfig struct {
	Backend     string        `envconfig:"BACKEND" default:"memory"`
	SnapshotTTL time.Duration `envconfig:"SNAPSHOT_TTL" default:"24h"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string `envconfig:"HOST" default:"localhost"`
	Port     string `envconfig:"PORT" default:"6379"`
	Password string `envconfig:"PASSWORD"`
	DB       int    `envconfig:"DB" default:"0"`
}

// ZoomConfig holds Zoom server-to-server OAuth configuration
type ZoomConfig struct {
	AccountID    string        `envconfig:"ACCOUNT_ID"`
	ClientID     string        `envconfig:"CLIENT_ID"`
	ClientSecret string        `envconfig:"CLIENT_SECRET"`
	APITimeout   time.Duration `envconfig:"API_TIMEOUT" default:"30s"`
	CacheTTL     time.Duration `envconfig:"CACHE_TTL" default:"5m"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{}

	groups := []struct {
		prefix string
		target interface{}
	}{
		{"SERVER", &config.Server},
		{"LLM", &config.LLM},
		{"WORKFLOW", &config.Workflow},
		{"NLP", &config.NLP},
		{"CACHE", &config.Cache},
		{"REDIS", &config.Redis},
		{"ZOOM", &config.Zoom},
	}

	for _, g := range groups {
		if err := envconfig.Process(g.prefix, g.target); err != nil {
			return nil, fmt.Errorf("failed to process %s config: %w", g.prefix, err)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("LLM_API_KEY is required")
	}
	if c.Workflow.MinConfidenceThreshold < 0 || c.Workflow.MinConfidenceThreshold > 1 {
		return fmt.Errorf("WORKFLOW_MIN_CONFIDENCE_THRESHOLD must be in [0,1]")
	}
	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("CACHE_BACKEND must be \"memory\" or \"redis\", got %q", c.Cache.Backend)
	}
	return nil
}

// ZoomConfigured reports whether Zoom server-to-server credentials are set.
func (c *Config) ZoomConfigured() bool {
	return c.Zoom.AccountID != "" && c.Zoom.ClientID != "" && c.Zoom.ClientSecret != ""
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}
