package translator

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/valpere/formtran/internal/languages"
	"github.com/valpere/formtran/internal/placeholder"
	"github.com/valpere/formtran/internal/postprocess"
)

const (
	DefaultOpenRouterURL   = "https://openrouter.ai/api/v1"
	DefaultOpenRouterModel = "meta-llama/llama-3.1-8b-instruct:free"
)

// OpenRouterService talks to OpenRouter through its OpenAI-compatible API.
type OpenRouterService struct {
	apiKey string
	model  string
	client *openai.Client
}

func NewOpenRouterService(apiKey, baseURL, model string) *OpenRouterService {
	if baseURL == "" {
		baseURL = DefaultOpenRouterURL
	}
	if model == "" {
		model = DefaultOpenRouterModel
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &OpenRouterService{
		apiKey: apiKey,
		model:  model,
		client: openai.NewClientWithConfig(cfg),
	}
}

func (s *OpenRouterService) Name() string {
	return "openrouter"
}

func (s *OpenRouterService) Translate(ctx context.Context, cfg ServiceConfig, req TranslateRequest) (*ServiceResult, error) {
	result := &ServiceResult{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	ctx, cancel := withTimeout(ctx, cfg)
	defer cancel()

	if s.apiKey == "" {
		result.Error = "OpenRouter API key required"
		return result, fmt.Errorf("OpenRouter API key required")
	}

	model := cfg.Model
	if model == "" {
		model = s.model
	}

	system, err := formFieldPrompt(req.SourceLang, req.TargetLang)
	if err != nil {
		result.Error = err.Error()
		return result, err
	}

	protected := placeholder.Protect(req.Text)
	if !protected.Empty() {
		system += " " + placeholder.Hint
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: protected.Text},
		},
		MaxTokens:   1024,
		Temperature: 0.2,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			result.Error = fmt.Sprintf("API returned status %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
		} else {
			result.Error = fmt.Sprintf("request failed: %v", err)
		}
		return result, fmt.Errorf("OpenRouter request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		result.Error = "empty response from API"
		return result, fmt.Errorf("empty response from API")
	}

	text, err := restore(protected, postprocess.Clean(resp.Choices[0].Message.Content))
	if err != nil {
		result.Error = err.Error()
		return result, err
	}

	result.TranslatedText = text
	result.Metadata = map[string]string{
		"model":             model,
		"prompt_tokens":     strconv.Itoa(resp.Usage.PromptTokens),
		"completion_tokens": strconv.Itoa(resp.Usage.CompletionTokens),
	}

	return result, nil
}

func (s *OpenRouterService) IsAvailable(ctx context.Context) error {
	if s.apiKey == "" {
		return fmt.Errorf("OpenRouter API key not configured")
	}
	return nil
}

func (s *OpenRouterService) SupportedLanguages(ctx context.Context) ([]string, error) {
	return languages.Codes(), nil
}
