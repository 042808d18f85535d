package config

// #region imports
import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// #endregion

// #region config-struct

// Config holds all deployment-tunable settings for the suggestion engine.
// Guard thresholds are policy decisions and vary per deployment, so they
// live here rather than as literals in the pipeline.
type Config struct {
	KnowledgeDB string `yaml:"knowledge_db" env:"KNOWLEDGE_DB" env-default:"knowledge.db"`
	AuditDB     string `yaml:"audit_db" env:"AUDIT_DB" env-default:"audit.db"`
	Debug       bool   `yaml:"debug" env:"DEBUG" env-default:"false"`

	Guard     GuardConfig     `yaml:"guard"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
}

// GuardConfig holds the guardrail thresholds applied by the pipeline.
type GuardConfig struct {
	MinSources          int     `yaml:"min_sources" env:"GUARD_MIN_SOURCES" env-default:"2"`
	MinConfidence       float64 `yaml:"min_confidence" env:"GUARD_MIN_CONFIDENCE" env-default:"0.75"`
	MinSafetyConfidence float64 `yaml:"min_safety_confidence" env:"GUARD_MIN_SAFETY_CONFIDENCE" env-default:"0.7"`
	ReviewConfidence    float64 `yaml:"review_confidence" env:"GUARD_REVIEW_CONFIDENCE" env-default:"0.9"`
}

// RetrievalConfig holds defaults for knowledge-base retrieval.
type RetrievalConfig struct {
	MinRelevance      float64       `yaml:"min_relevance" env:"RETRIEVAL_MIN_RELEVANCE" env-default:"0.3"`
	MaxResults        int           `yaml:"max_results" env:"RETRIEVAL_MAX_RESULTS" env-default:"10"`
	Timeout           time.Duration `yaml:"timeout" env:"RETRIEVAL_TIMEOUT" env-default:"10s"`
	IncludeDeprecated bool          `yaml:"include_deprecated" env:"RETRIEVAL_INCLUDE_DEPRECATED" env-default:"false"`
}

// #endregion

// #region load

// Load reads configuration from a YAML file and environment variables.
// Priority: ENV > YAML > defaults. The file path comes from CONFIG_PATH
// (fallback "./config.yaml"); a missing default file is not an error.
func Load() (*Config, error) {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	explicitPath := path != ""
	if !explicitPath {
		path = "./config.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}

// #endregion

// #region validate

// Validate rejects threshold values outside their meaningful ranges.
func (c *Config) Validate() error {
	if c.Guard.MinSources < 1 {
		return fmt.Errorf("guard.min_sources must be >= 1, got %d", c.Guard.MinSources)
	}
	for name, v := range map[string]float64{
		"guard.min_confidence":        c.Guard.MinConfidence,
		"guard.min_safety_confidence": c.Guard.MinSafetyConfidence,
		"guard.review_confidence":     c.Guard.ReviewConfidence,
		"retrieval.min_relevance":     c.Retrieval.MinRelevance,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be in [0,1], got %.4f", name, v)
		}
	}
	if c.Retrieval.MaxResults < 1 {
		return fmt.Errorf("retrieval.max_results must be >= 1, got %d", c.Retrieval.MaxResults)
	}
	if c.Retrieval.Timeout <= 0 {
		return fmt.Errorf("retrieval.timeout must be positive, got %s", c.Retrieval.Timeout)
	}
	return nil
}

// #endregion

// #region defaults

// Default returns the built-in configuration used when no overrides apply.
func Default() *Config {
	return &Config{
		KnowledgeDB: "knowledge.db",
		AuditDB:     "audit.db",
		Guard: GuardConfig{
			MinSources:          2,
			MinConfidence:       0.75,
			MinSafetyConfidence: 0.7,
			ReviewConfidence:    0.9,
		},
		Retrieval: RetrievalConfig{
			MinRelevance: 0.3,
			MaxResults:   10,
			Timeout:      10 * time.Second,
		},
	}
}

// #endregion
