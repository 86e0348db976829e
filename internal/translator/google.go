package translator

import (
	"context"
	"fmt"
	"time"

	translate "cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/option"

	"github.com/valpere/formtran/internal/languages"
	"github.com/valpere/formtran/internal/postprocess"
)

type GoogleConfig struct {
	Credentials string `mapstructure:"credentials"`
	ProjectID   string `mapstructure:"project_id"`
}

// GoogleService keeps one Cloud Translation client for the process lifetime.
type GoogleService struct {
	client *translate.Client
}

func NewGoogleService(ctx context.Context, cfg GoogleConfig) (*GoogleService, error) {
	opts := []option.ClientOption{}
	if cfg.Credentials != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Credentials))
	}
	if cfg.ProjectID != "" {
		opts = append(opts, option.WithQuotaProject(cfg.ProjectID))
	}

	client, err := translate.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return &GoogleService{client: client}, nil
}

func (s *GoogleService) Name() string {
	return "google"
}

func (s *GoogleService) Close() error {
	return s.client.Close()
}

func (s *GoogleService) Translate(ctx context.Context, cfg ServiceConfig, req TranslateRequest) (*ServiceResult, error) {
	result := &ServiceResult{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	ctx, cancel := withTimeout(ctx, cfg)
	defer cancel()

	target, ok := languages.ByCode(req.TargetLang)
	if !ok {
		result.Error = fmt.Sprintf("unsupported target language %q", req.TargetLang)
		return result, fmt.Errorf("unsupported target language %q", req.TargetLang)
	}

	opts := &translate.Options{Format: translate.Text}
	if source, ok := languages.ByCode(req.SourceLang); ok {
		opts.Source = source.Tag
	}

	translations, err := s.client.Translate(ctx, []string{req.Text}, target.Tag, opts)
	if err != nil {
		result.Error = fmt.Sprintf("translation failed: %v", err)
		return result, fmt.Errorf("translation failed: %w", err)
	}

	if len(translations) == 0 {
		result.Error = "no translation returned"
		return result, fmt.Errorf("no translation returned")
	}

	result.TranslatedText = postprocess.Normalize(translations[0].Text)
	return result, nil
}

func (s *GoogleService) IsAvailable(ctx context.Context) error {
	if _, err := s.client.SupportedLanguages(ctx, language.English); err != nil {
		return fmt.Errorf("Google Translate not available: %w", err)
	}
	return nil
}

func (s *GoogleService) SupportedLanguages(ctx context.Context) ([]string, error) {
	remote, err := s.client.SupportedLanguages(ctx, language.English)
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(remote))
	for _, l := range remote {
		base, _ := l.Tag.Base()
		known[base.String()] = true
	}

	var codes []string
	for _, code := range languages.Codes() {
		l, _ := languages.ByCode(code)
		if known[l.Base()] {
			codes = append(codes, code)
		}
	}
	return codes, nil
}
