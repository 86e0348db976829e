// Package model is the client side of a pretrained seq2seq translation model
// (NLLB by default) hosted by an inference server.
//
// Load contacts the server once, confirms the expected checkpoint is loaded,
// and caches the tokenizer's language-code table. The returned *Model is
// read-only afterwards and safe for concurrent Generate calls.
package model

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultName      = "facebook/nllb-200-distilled-600M"
	DefaultMaxLength = 512
	DefaultNumBeams  = 5
	DefaultTimeout   = 60 * time.Second
)

type Config struct {
	BaseURL   string        `mapstructure:"base_url"`
	Name      string        `mapstructure:"name"`
	MaxLength int           `mapstructure:"max_length"`
	NumBeams  int           `mapstructure:"num_beams"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type Model struct {
	name      string
	maxLength int
	numBeams  int
	// langTokens maps a language code to its forced BOS token id.
	langTokens map[string]int
	client     *resty.Client
}

type infoResponse struct {
	ModelID      string         `json:"model_id"`
	LangCodeToID map[string]int `json:"lang_code_to_id"`
}

type generateParameters struct {
	SrcLang           string `json:"src_lang"`
	ForcedBOSTokenID  int    `json:"forced_bos_token_id"`
	MaxLength         int    `json:"max_length"`
	NumBeams          int    `json:"num_beams"`
	EarlyStopping     bool   `json:"early_stopping"`
	Truncation        bool   `json:"truncation"`
	SkipSpecialTokens bool   `json:"skip_special_tokens"`
}

type generateRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters generateParameters `json:"parameters"`
}

type generateResponse struct {
	GeneratedText string `json:"generated_text"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Load connects to the inference server and verifies the model is ready.
// Callers treat an error as fatal.
func Load(ctx context.Context, cfg Config) (*Model, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("model base URL is not configured")
	}
	if cfg.Name == "" {
		cfg.Name = DefaultName
	}
	if cfg.MaxLength <= 0 {
		cfg.MaxLength = DefaultMaxLength
	}
	if cfg.NumBeams <= 0 {
		cfg.NumBeams = DefaultNumBeams
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")

	var info infoResponse
	var apiErr errorResponse
	resp, err := client.R().SetContext(ctx).SetResult(&info).SetError(&apiErr).Get("/info")
	if err != nil {
		return nil, fmt.Errorf("failed to reach model server: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("model server returned %s: %s", resp.Status(), apiErr.Error)
	}
	if info.ModelID != cfg.Name {
		return nil, fmt.Errorf("model server has %q loaded, expected %q", info.ModelID, cfg.Name)
	}
	if len(info.LangCodeToID) == 0 {
		return nil, fmt.Errorf("model server did not report any language codes")
	}

	return &Model{
		name:       cfg.Name,
		maxLength:  cfg.MaxLength,
		numBeams:   cfg.NumBeams,
		langTokens: info.LangCodeToID,
		client:     client,
	}, nil
}

func (m *Model) Name() string {
	return m.name
}

func (m *Model) MaxLength() int {
	return m.maxLength
}

// SupportsLanguage reports whether the tokenizer knows code.
func (m *Model) SupportsLanguage(code string) bool {
	_, ok := m.langTokens[code]
	return ok
}

// Languages returns the language codes known to the tokenizer.
func (m *Model) Languages() []string {
	codes := make([]string, 0, len(m.langTokens))
	for code := range m.langTokens {
		codes = append(codes, code)
	}
	return codes
}

// Generate encodes text as srcLang, runs beam search with the target
// language forced as the first generated token, and returns the decoded
// output. Input beyond MaxLength tokens is truncated by the tokenizer.
func (m *Model) Generate(ctx context.Context, text, srcLang, tgtLang string) (string, error) {
	bos, ok := m.langTokens[tgtLang]
	if !ok {
		return "", fmt.Errorf("unknown target language code %q", tgtLang)
	}
	if !m.SupportsLanguage(srcLang) {
		return "", fmt.Errorf("unknown source language code %q", srcLang)
	}

	body := generateRequest{
		Inputs: text,
		Parameters: generateParameters{
			SrcLang:           srcLang,
			ForcedBOSTokenID:  bos,
			MaxLength:         m.maxLength,
			NumBeams:          m.numBeams,
			EarlyStopping:     true,
			Truncation:        true,
			SkipSpecialTokens: true,
		},
	}

	var out generateResponse
	var apiErr errorResponse
	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		SetError(&apiErr).
		Post("/generate")
	if err != nil {
		return "", fmt.Errorf("generate request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("model server returned %s: %s", resp.Status(), apiErr.Error)
	}

	return out.GeneratedText, nil
}
