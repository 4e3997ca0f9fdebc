package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// ErrInvalid wraps every validation failure returned by Validate.
var ErrInvalid = errors.New("invalid configuration")

// Supported database backends.
const (
	BackendAGE      = "age"
	BackendMemgraph = "memgraph"
)

type DatabaseConfig struct {
	Backend             string `toml:"backend" validate:"oneof=age memgraph"`
	DSN                 string `toml:"dsn"`
	URI                 string `toml:"uri"`
	User                string `toml:"user"`
	Password            string `toml:"password"`
	QueryTimeoutSeconds int    `toml:"query_timeout_seconds" validate:"min=0"`
}

type LLMConfig struct {
	Provider string `toml:"provider" validate:"omitempty,oneof=openai gemini claude ollama"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

type GenerationPrompts struct {
	Prompt string `toml:"prompt"`
	Schema string `toml:"schema"`
}

type ServerConfig struct {
	Port string `toml:"port" validate:"required,numeric"`
}

type ConcurrencyConfig struct {
	Workers int `toml:"workers" validate:"min=1,max=256"`
}

type LogConfig struct {
	Level string `toml:"level" validate:"oneof=debug info warn error"`
}

type Config struct {
	Database    DatabaseConfig    `toml:"database"`
	LLM         LLMConfig         `toml:"llm"`
	Generation  GenerationPrompts `toml:"generation"`
	Server      ServerConfig      `toml:"server"`
	Concurrency ConcurrencyConfig `toml:"concurrency"`
	Log         LogConfig         `toml:"log"`
	Refine      RefineConfig      `toml:"refine"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a TOML file and applies defaults. It does not read the
// environment; call ApplyEnv for that.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadOrDefault loads path when it exists and falls back to Default otherwise.
// The environment is applied and the result validated in both cases.
func LoadOrDefault(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			loaded, err := Load(path)
			if err != nil {
				return nil, err
			}
			cfg = loaded
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file '%s': %w", path, err)
		}
	}
	cfg.ApplyEnv(os.Getenv)
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Database.Backend == "" {
		c.Database.Backend = BackendAGE
	}
	c.Database.Backend = strings.ToLower(c.Database.Backend)
	if c.Database.QueryTimeoutSeconds == 0 {
		c.Database.QueryTimeoutSeconds = 60
	}
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Concurrency.Workers == 0 {
		c.Concurrency.Workers = 4
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	c.Log.Level = strings.ToLower(c.Log.Level)
	if c.LLM.Provider == "" {
		c.LLM.Provider = "ollama"
		if c.LLM.Model == "" {
			c.LLM.Model = "gpt-oss:latest"
		}
		if c.LLM.BaseURL == "" {
			c.LLM.BaseURL = "http://localhost:11434"
		}
	}
	c.LLM.Provider = strings.ToLower(c.LLM.Provider)
	if c.Generation.Prompt == "" {
		c.Generation.Prompt = DefaultGenerationPrompt
	}
}

// ApplyEnv overrides fields from environment variables looked up with getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	set(&c.Database.Backend, "GRAPHDIFF_DB_BACKEND")
	set(&c.Database.DSN, "GRAPHDIFF_DB_DSN")
	set(&c.Database.URI, "MEMGRAPH_URI")
	set(&c.Database.User, "MEMGRAPH_USER")
	set(&c.Database.Password, "MEMGRAPH_PASSWORD")
	set(&c.LLM.Provider, "LLM_PROVIDER")
	set(&c.LLM.Model, "LLM_MODEL")
	set(&c.LLM.APIKey, "LLM_API_KEY")
	set(&c.LLM.BaseURL, "LLM_BASE_URL")
	set(&c.Server.Port, "PORT")
	set(&c.Log.Level, "GRAPHDIFF_LOG_LEVEL")

	if v := getenv("GRAPHDIFF_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Concurrency.Workers = n
		}
	}
}

var validate = validator.New()

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed '%s'", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}
