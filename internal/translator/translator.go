package translator

import (
	"context"
	"log/slog"
	"strings"

	"github.com/valpere/formtran/internal/languages"
	"github.com/valpere/formtran/internal/truncate"
)

const DefaultMaxTokens = 512

// OutputValidator decides whether a translation is in the requested language.
type OutputValidator interface {
	IsValid(translatedText, targetCode string) (bool, error)
}

type Options struct {
	// MaxTokens caps the input length; 0 uses DefaultMaxTokens.
	MaxTokens int
	Service   ServiceConfig
	Validator OutputValidator
	Logger    *slog.Logger
}

// Translator translates single form strings. It never fails: whenever the
// backend cannot produce a usable translation the input is returned as is.
type Translator struct {
	service   TranslationService
	cfg       ServiceConfig
	maxTokens int
	validator OutputValidator
	logger    *slog.Logger
}

func New(service TranslationService, opts Options) *Translator {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Translator{
		service:   service,
		cfg:       opts.Service,
		maxTokens: opts.MaxTokens,
		validator: opts.Validator,
		logger:    opts.Logger.With("service", service.Name()),
	}
}

func (t *Translator) ServiceName() string {
	return t.service.Name()
}

// Translate returns text rendered in targetCode, or text itself when it is
// blank or translation fails.
func (t *Translator) Translate(ctx context.Context, text, targetCode string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	req := TranslateRequest{
		Text:       truncate.ToBudget(text, t.maxTokens),
		SourceLang: languages.SourceCode,
		TargetLang: targetCode,
	}

	res, err := t.service.Translate(ctx, t.cfg, req)
	if err != nil {
		t.logger.WarnContext(ctx, "translation failed, keeping original", "target", targetCode, "error", err)
		return text
	}
	if res == nil || res.Error != "" || strings.TrimSpace(res.TranslatedText) == "" {
		t.logger.WarnContext(ctx, "translation returned no text, keeping original", "target", targetCode)
		return text
	}

	if t.validator != nil {
		if ok, verr := t.validator.IsValid(res.TranslatedText, targetCode); !ok {
			t.logger.WarnContext(ctx, "translation rejected by language check", "target", targetCode, "error", verr)
			return text
		}
	}

	t.logger.DebugContext(ctx, "translated", "target", targetCode, "latency", res.Latency)
	return res.TranslatedText
}
