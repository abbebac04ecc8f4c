package config

import (
	"fmt"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/at-ishikawa/langtutor/internal/exercise"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Inference InferenceConfig `mapstructure:"inference"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Ollama    OllamaConfig    `mapstructure:"ollama"`
	Exercises []string        `mapstructure:"exercises" validate:"min=1,dive,nonblank"`
	Templates TemplatesConfig `mapstructure:"templates"`
	Journal   JournalConfig   `mapstructure:"journal"`
	Database  DatabaseConfig  `mapstructure:"database"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port" validate:"min=1,max=65535"`
	SessionTTL   time.Duration `mapstructure:"session_ttl" validate:"gt=0"`
	SecureCookie bool          `mapstructure:"secure_cookie"`
}

type InferenceConfig struct {
	Provider string `mapstructure:"provider" validate:"oneof=openai anthropic gemini ollama"`
	// Model overrides the model of the selected provider
	Model            string        `mapstructure:"model"`
	Temperature      float64       `mapstructure:"temperature" validate:"gte=0,lte=2"`
	MaxTokens        int           `mapstructure:"max_tokens" validate:"gte=0"`
	MaxRetryAttempts uint          `mapstructure:"max_retry_attempts"`
	Timeout          time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
}

type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type GeminiConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
}

type OllamaConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
	Model   string `mapstructure:"model"`
}

type TemplatesConfig struct {
	PageTemplate   string `mapstructure:"page_template" validate:"omitempty,file"`
	ReviewTemplate string `mapstructure:"review_template" validate:"omitempty,file"`
}

type JournalConfig struct {
	Driver     string `mapstructure:"driver" validate:"omitempty,oneof=yaml sqlite mysql"`
	YAMLFile   string `mapstructure:"yaml_file" validate:"required_if=Driver yaml"`
	SQLiteFile string `mapstructure:"sqlite_file" validate:"required_if=Driver sqlite"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

// Model returns the model name of the selected provider
func (cfg *Config) Model() string {
	if cfg.Inference.Model != "" {
		return cfg.Inference.Model
	}
	switch cfg.Inference.Provider {
	case "anthropic":
		return cfg.Anthropic.Model
	case "gemini":
		return cfg.Gemini.Model
	case "ollama":
		return cfg.Ollama.Model
	default:
		return cfg.OpenAI.Model
	}
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/langtutor")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

// Set overrides a key after defaults and the config file, e.g. from a command line flag
func (loader *ConfigLoader) Set(key string, value any) {
	loader.viper.Set(key, value)
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.session_ttl", 60*time.Minute)
	v.SetDefault("server.secure_cookie", false)
	v.SetDefault("inference.provider", "openai")
	v.SetDefault("inference.temperature", 0)
	v.SetDefault("inference.max_tokens", 1024)
	v.SetDefault("inference.max_retry_attempts", 3)
	v.SetDefault("inference.timeout", 60*time.Second)
	v.SetDefault("openai.model", "gpt-4o")
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("anthropic.model", "claude-sonnet-4-20250514")
	v.SetDefault("gemini.model", "gemini-2.0-flash")
	v.SetDefault("ollama.base_url", "http://localhost:11434")
	v.SetDefault("ollama.model", "llama3.1")
	v.SetDefault("exercises", exercise.DefaultPrompts)
	// Template is optional - if not specified, will use embedded fallback template
	v.SetDefault("templates.page_template", "")
	v.SetDefault("templates.review_template", "")
	v.SetDefault("journal.driver", "")
	v.SetDefault("journal.yaml_file", "attempts.yml")
	v.SetDefault("journal.sqlite_file", "langtutor.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "langtutor")
	v.SetDefault("database.username", "user")

	// Secrets are bound to environment variables only (not from config file)
	envBindings := [][2]string{
		{"openai.api_key", "OPENAI_API_KEY"},
		{"openai.model", "OPENAI_MODEL"},
		{"anthropic.api_key", "ANTHROPIC_API_KEY"},
		{"gemini.api_key", "GEMINI_API_KEY"},
		{"ollama.base_url", "OLLAMA_HOST"},
		{"inference.provider", "LANGTUTOR_PROVIDER"},
		{"inference.model", "LANGTUTOR_MODEL"},
		{"database.password", "DB_PASSWORD"},
	}
	for _, binding := range envBindings {
		if err := v.BindEnv(binding[0], binding[1]); err != nil {
			return nil, fmt.Errorf("failed to bind %s environment variable: %w", binding[1], err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}
	cfg.applyModelOverride()

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}

func (cfg *Config) applyModelOverride() {
	model := cfg.Inference.Model
	if model == "" {
		return
	}
	switch cfg.Inference.Provider {
	case "anthropic":
		cfg.Anthropic.Model = model
	case "gemini":
		cfg.Gemini.Model = model
	case "ollama":
		cfg.Ollama.Model = model
	default:
		cfg.OpenAI.Model = model
	}
}
