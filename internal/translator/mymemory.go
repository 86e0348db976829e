package translator

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"time"

	"github.com/valpere/formtran/internal/languages"
	"github.com/valpere/formtran/internal/postprocess"
)

const myMemoryURL = "https://api.mymemory.translated.net/get"

type MyMemoryService struct {
	email   string
	baseURL string
	client  *http.Client
}

func NewMyMemoryService(email string) *MyMemoryService {
	return &MyMemoryService{
		email:   email,
		baseURL: myMemoryURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *MyMemoryService) Name() string {
	return "mymemory"
}

// myMemoryCode maps a model code to the locale MyMemory expects.
func myMemoryCode(code string) (string, bool) {
	l, ok := languages.ByCode(code)
	if !ok {
		return "", false
	}
	if l.Base() == "zh" {
		return "zh-CN", true
	}
	return l.Base(), true
}

func (s *MyMemoryService) Translate(ctx context.Context, cfg ServiceConfig, req TranslateRequest) (*ServiceResult, error) {
	result := &ServiceResult{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	ctx, cancel := withTimeout(ctx, cfg)
	defer cancel()

	source, ok := myMemoryCode(req.SourceLang)
	if !ok {
		source = "en"
	}
	target, ok := myMemoryCode(req.TargetLang)
	if !ok {
		result.Error = fmt.Sprintf("unsupported target language %q", req.TargetLang)
		return result, fmt.Errorf("unsupported target language %q", req.TargetLang)
	}

	q := url.Values{}
	q.Set("q", req.Text)
	q.Set("langpair", source+"|"+target)
	if s.email != "" {
		q.Set("de", s.email)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		result.Error = fmt.Sprintf("failed to create request: %v", err)
		return result, err
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		result.Error = fmt.Sprintf("request failed: %v", err)
		return result, err
	}
	defer resp.Body.Close()

	var mymemResp struct {
		ResponseData struct {
			TranslatedText string  `json:"translatedText"`
			Match          float64 `json:"match"`
		} `json:"responseData"`
		ResponseStatus  int    `json:"responseStatus"`
		ResponseDetails string `json:"responseDetails"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&mymemResp); err != nil {
		result.Error = fmt.Sprintf("failed to decode response: %v", err)
		return result, err
	}

	if mymemResp.ResponseStatus != http.StatusOK {
		result.Error = fmt.Sprintf("API error: %s (%d)", mymemResp.ResponseDetails, mymemResp.ResponseStatus)
		return result, fmt.Errorf("API error: %s", mymemResp.ResponseDetails)
	}

	result.TranslatedText = postprocess.Normalize(html.UnescapeString(mymemResp.ResponseData.TranslatedText))
	result.Metadata = map[string]string{"match": fmt.Sprintf("%.2f", mymemResp.ResponseData.Match)}

	return result, nil
}

func (s *MyMemoryService) IsAvailable(ctx context.Context) error {
	return nil
}

func (s *MyMemoryService) SupportedLanguages(ctx context.Context) ([]string, error) {
	return languages.Codes(), nil
}
