package translator

import (
	"context"
	"time"
)

// ServiceConfig carries per-call overrides for a backend.
type ServiceConfig struct {
	APIKey  string        `mapstructure:"api_key" json:"api_key"`
	Model   string        `mapstructure:"model" json:"model"`
	Timeout time.Duration `mapstructure:"timeout" json:"timeout"`
}

// withTimeout bounds ctx by cfg.Timeout when one is set.
func withTimeout(ctx context.Context, cfg ServiceConfig) (context.Context, context.CancelFunc) {
	if cfg.Timeout > 0 {
		return context.WithTimeout(ctx, cfg.Timeout)
	}
	return context.WithCancel(ctx)
}

// TranslateRequest language fields hold model codes such as "spa_Latn".
type TranslateRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

type ServiceResult struct {
	ServiceName    string            `json:"service_name"`
	TranslatedText string            `json:"translated_text"`
	Metadata       map[string]string `json:"metadata"`
	Latency        time.Duration     `json:"latency"`
	Error          string            `json:"error,omitempty"`
}

type TranslationService interface {
	Name() string
	Translate(ctx context.Context, cfg ServiceConfig, req TranslateRequest) (*ServiceResult, error)
	IsAvailable(ctx context.Context) error
	SupportedLanguages(ctx context.Context) ([]string, error)
}
