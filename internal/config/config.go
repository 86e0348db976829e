// Package config declares the formtran configuration tree and loads it from
// viper (config file, FORMTRAN_* environment variables and bound flags).
package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/valpere/formtran/internal/fetcher"
	"github.com/valpere/formtran/internal/model"
	"github.com/valpere/formtran/internal/translator"
)

const EnvPrefix = "FORMTRAN"

var Services = []string{"nllb", "google", "mymemory", "ollama", "openrouter"}

type Config struct {
	Server     ServerConfig            `mapstructure:"server"`
	Fetcher    fetcher.Config          `mapstructure:"fetcher"`
	Translator TranslatorConfig        `mapstructure:"translator"`
	Model      model.Config            `mapstructure:"model"`
	Google     translator.GoogleConfig `mapstructure:"google"`
	MyMemory   MyMemoryConfig          `mapstructure:"mymemory"`
	Ollama     OllamaConfig            `mapstructure:"ollama"`
	OpenRouter OpenRouterConfig        `mapstructure:"openrouter"`
	Store      StoreConfig             `mapstructure:"store"`
	Log        LogConfig               `mapstructure:"log"`
}

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type TranslatorConfig struct {
	Service        string        `mapstructure:"service"`
	MaxTokens      int           `mapstructure:"max_tokens"`
	ValidateOutput bool          `mapstructure:"validate_output"`
	Model          string        `mapstructure:"model"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

type MyMemoryConfig struct {
	Email string `mapstructure:"email"`
}

type OllamaConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

type OpenRouterConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// StoreConfig enables the request history when Path is set.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SetDefaults registers every key so environment variables are honoured by
// Unmarshal even when no config file mentions them.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000", "http://localhost:5173"})

	v.SetDefault("fetcher.timeout", fetcher.DefaultTimeout)
	v.SetDefault("fetcher.user_agent", fetcher.DefaultUserAgent)

	v.SetDefault("translator.service", "nllb")
	v.SetDefault("translator.max_tokens", translator.DefaultMaxTokens)
	v.SetDefault("translator.validate_output", false)
	v.SetDefault("translator.model", "")
	v.SetDefault("translator.timeout", time.Duration(0))

	v.SetDefault("model.base_url", "http://localhost:8080")
	v.SetDefault("model.name", model.DefaultName)
	v.SetDefault("model.max_length", model.DefaultMaxLength)
	v.SetDefault("model.num_beams", model.DefaultNumBeams)
	v.SetDefault("model.timeout", model.DefaultTimeout)

	v.SetDefault("google.credentials", "")
	v.SetDefault("google.project_id", "")
	v.SetDefault("mymemory.email", "")
	v.SetDefault("ollama.base_url", translator.DefaultOllamaURL)
	v.SetDefault("ollama.model", translator.DefaultOllamaModel)
	v.SetDefault("openrouter.api_key", "")
	v.SetDefault("openrouter.base_url", translator.DefaultOpenRouterURL)
	v.SetDefault("openrouter.model", translator.DefaultOpenRouterModel)

	v.SetDefault("store.path", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// BindEnv makes FORMTRAN_SERVER_PORT override server.port and so on.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load decodes v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if !isService(c.Translator.Service) {
		return fmt.Errorf("unknown translator.service %q (want one of %s)", c.Translator.Service, strings.Join(Services, ", "))
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log.format %q (want text or json)", c.Log.Format)
	}
	return nil
}

func isService(name string) bool {
	for _, s := range Services {
		if s == name {
			return true
		}
	}
	return false
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log.level %q: %w", s, err)
	}
	return level, nil
}

// NewLogger builds the process logger. Level and format were checked by
// Validate, so errors here only come from a hand-built LogConfig.
func (l LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(l.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
