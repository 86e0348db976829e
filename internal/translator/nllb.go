package translator

import (
	"context"
	"fmt"
	"time"

	"github.com/valpere/formtran/internal/languages"
	"github.com/valpere/formtran/internal/postprocess"
)

// Generator is the part of *model.Model the NLLB service depends on.
type Generator interface {
	Name() string
	Generate(ctx context.Context, text, srcLang, tgtLang string) (string, error)
	SupportsLanguage(code string) bool
}

type NLLBService struct {
	model Generator
}

// NewNLLBService wraps a model that has already been loaded.
func NewNLLBService(m Generator) *NLLBService {
	return &NLLBService{model: m}
}

func (s *NLLBService) Name() string {
	return "nllb"
}

func (s *NLLBService) Translate(ctx context.Context, cfg ServiceConfig, req TranslateRequest) (*ServiceResult, error) {
	result := &ServiceResult{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	ctx, cancel := withTimeout(ctx, cfg)
	defer cancel()

	raw, err := s.model.Generate(ctx, req.Text, req.SourceLang, req.TargetLang)
	if err != nil {
		result.Error = fmt.Sprintf("generation failed: %v", err)
		return result, fmt.Errorf("generation failed: %w", err)
	}

	text := postprocess.StripSpecialTokens(raw)
	if text == "" {
		result.Error = "model returned empty output"
		return result, fmt.Errorf("model returned empty output")
	}

	result.TranslatedText = text
	result.Metadata = map[string]string{"model": s.model.Name()}
	return result, nil
}

func (s *NLLBService) IsAvailable(ctx context.Context) error {
	if s.model == nil {
		return fmt.Errorf("NLLB model is not loaded")
	}
	if !s.model.SupportsLanguage(languages.SourceCode) {
		return fmt.Errorf("model %s does not support source language %s", s.model.Name(), languages.SourceCode)
	}
	return nil
}

// SupportedLanguages returns the table codes the loaded tokenizer knows.
func (s *NLLBService) SupportedLanguages(ctx context.Context) ([]string, error) {
	var codes []string
	for _, code := range languages.Codes() {
		if s.model.SupportsLanguage(code) {
			codes = append(codes, code)
		}
	}
	return codes, nil
}
