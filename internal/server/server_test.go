package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"

	"github.com/valpere/formtran/internal"
	"github.com/valpere/formtran/internal/fetcher"
	"github.com/valpere/formtran/internal/orchestrator"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockExecutor struct {
	execute func(req internal.TranslationRequest) (*internal.TranslationResponse, error)
	calls   int
}

func (m *mockExecutor) Execute(ctx context.Context, req internal.TranslationRequest) (*internal.TranslationResponse, error) {
	m.calls++
	return m.execute(req)
}

func newTestServer(exec Executor) http.Handler {
	return New(exec, Config{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}).Handler()
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON body %q: %v", w.Body.String(), err)
	}
	return out
}

func TestRoot(t *testing.T) {
	w := do(newTestServer(&mockExecutor{}), http.MethodGet, "/", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	want := map[string]any{"message": "Google Form Translator API", "status": "running"}
	if diff := cmp.Diff(want, decode(t, w)); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}
}

func TestLanguages(t *testing.T) {
	w := do(newTestServer(&mockExecutor{}), http.MethodGet, "/languages", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	want := map[string]any{"languages": []any{
		"spanish", "french", "german", "italian", "portuguese", "russian",
		"chinese", "japanese", "korean", "arabic", "hindi", "english",
	}}
	if diff := cmp.Diff(want, decode(t, w)); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}
}

func TestTranslate_Success(t *testing.T) {
	exec := &mockExecutor{execute: func(req internal.TranslationRequest) (*internal.TranslationResponse, error) {
		return &internal.TranslationResponse{
			Success:        true,
			TranslatedForm: &internal.Form{Title: "Encuesta", Questions: []internal.Question{}},
			OriginalURL:    req.FormURL,
			TargetLanguage: req.TargetLanguage,
		}, nil
	}}

	w := do(newTestServer(exec), http.MethodPost, "/translate",
		`{"form_url":"https://docs.google.com/forms/d/abc","target_language":"spanish"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	want := map[string]any{
		"success":         true,
		"translated_form": map[string]any{"title": "Encuesta", "description": "", "questions": []any{}},
		"original_url":    "https://docs.google.com/forms/d/abc",
		"target_language": "spanish",
		"error":           nil,
	}
	if diff := cmp.Diff(want, decode(t, w)); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}
}

func TestTranslate_UnsupportedLanguage(t *testing.T) {
	exec := &mockExecutor{execute: func(req internal.TranslationRequest) (*internal.TranslationResponse, error) {
		return nil, &orchestrator.ValidationError{Language: req.TargetLanguage}
	}}

	w := do(newTestServer(exec), http.MethodPost, "/translate",
		`{"form_url":"https://docs.google.com/forms/d/abc","target_language":"klingon"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if got := decode(t, w)["detail"]; got != "Unsupported language: klingon" {
		t.Errorf("unexpected detail %v", got)
	}
}

func TestTranslate_FetchError(t *testing.T) {
	exec := &mockExecutor{execute: func(req internal.TranslationRequest) (*internal.TranslationResponse, error) {
		return nil, &fetcher.FetchError{URL: req.FormURL, Err: errors.New("404 Not Found")}
	}}

	w := do(newTestServer(exec), http.MethodPost, "/translate",
		`{"form_url":"https://docs.google.com/forms/d/missing","target_language":"french"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	detail, _ := decode(t, w)["detail"].(string)
	if !strings.HasPrefix(detail, "Failed to fetch Google Form: ") {
		t.Errorf("unexpected detail %q", detail)
	}
}

func TestTranslate_FailureResponse(t *testing.T) {
	exec := &mockExecutor{execute: func(req internal.TranslationRequest) (*internal.TranslationResponse, error) {
		msg := "boom"
		return &internal.TranslationResponse{OriginalURL: req.FormURL, TargetLanguage: req.TargetLanguage, Error: &msg}, nil
	}}

	w := do(newTestServer(exec), http.MethodPost, "/translate",
		`{"form_url":"https://docs.google.com/forms/d/abc","target_language":"german"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decode(t, w)
	if body["success"] != false || body["error"] != "boom" {
		t.Errorf("unexpected body %v", body)
	}
	if diff := cmp.Diff(map[string]any{}, body["translated_form"]); diff != "" {
		t.Errorf("expected empty translated_form (-want +got):\n%s", diff)
	}
}

func TestTranslate_UnexpectedError(t *testing.T) {
	exec := &mockExecutor{execute: func(req internal.TranslationRequest) (*internal.TranslationResponse, error) {
		return nil, errors.New("disk on fire")
	}}

	w := do(newTestServer(exec), http.MethodPost, "/translate",
		`{"form_url":"https://docs.google.com/forms/d/abc","target_language":"german"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decode(t, w)
	if body["success"] != false || body["error"] != "disk on fire" {
		t.Errorf("unexpected body %v", body)
	}
}

func TestTranslate_MalformedBody(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantLoc string
	}{
		{name: "missing target", body: `{"form_url":"https://docs.google.com/forms/d/abc"}`, wantLoc: "target_language"},
		{name: "missing url", body: `{"target_language":"spanish"}`, wantLoc: "form_url"},
		{name: "not json", body: `form_url=abc`, wantLoc: ""},
		{name: "wrong type", body: `{"form_url":42,"target_language":"spanish"}`, wantLoc: "form_url"},
		{name: "null target", body: `{"form_url":"https://docs.google.com/forms/d/abc","target_language":null}`, wantLoc: "target_language"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &mockExecutor{}
			w := do(newTestServer(exec), http.MethodPost, "/translate", tt.body)

			if w.Code != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422, got %d", w.Code)
			}
			if exec.calls != 0 {
				t.Error("executor must not run for an invalid body")
			}

			detail, ok := decode(t, w)["detail"].([]any)
			if !ok || len(detail) == 0 {
				t.Fatalf("expected detail list, got %s", w.Body.String())
			}
			if tt.wantLoc == "" {
				return
			}
			loc, _ := detail[0].(map[string]any)["loc"].([]any)
			if len(loc) != 2 || loc[1] != tt.wantLoc {
				t.Errorf("expected loc [body %s], got %v", tt.wantLoc, loc)
			}
		})
	}
}

type countingFetcher struct {
	calls int
}

func (f *countingFetcher) Fetch(ctx context.Context, formURL string) (string, error) {
	f.calls++
	return "<html></html>", nil
}

type echoTranslator struct{}

func (echoTranslator) Translate(ctx context.Context, text, targetCode string) string {
	return text
}

func pipelineServer(f orchestrator.Fetcher) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return newTestServer(orchestrator.New(f, echoTranslator{}, orchestrator.OrchestratorConfig{Logger: logger}))
}

func TestTranslate_EmptyTargetLanguage(t *testing.T) {
	f := &countingFetcher{}

	w := do(pipelineServer(f), http.MethodPost, "/translate",
		`{"form_url":"https://docs.google.com/forms/d/abc/edit","target_language":""}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if got := decode(t, w)["detail"]; got != "Unsupported language: " {
		t.Errorf("unexpected detail %v", got)
	}
	if f.calls != 0 {
		t.Error("form must not be fetched for an unsupported language")
	}
}

func TestTranslate_EmptyFormURL(t *testing.T) {
	w := do(pipelineServer(fetcher.New(fetcher.Config{})), http.MethodPost, "/translate",
		`{"form_url":"","target_language":"spanish"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	detail, _ := decode(t, w)["detail"].(string)
	if !strings.HasPrefix(detail, "Failed to fetch Google Form: ") {
		t.Errorf("unexpected detail %q", detail)
	}
}

func TestCORS_AllowedOrigin(t *testing.T) {
	h := newTestServer(&mockExecutor{})

	req := httptest.NewRequest(http.MethodOptions, "/translate", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("expected origin echoed, got %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("expected credentials allowed, got %q", got)
	}
}

func TestCORS_DisallowedOrigin(t *testing.T) {
	h := newTestServer(&mockExecutor{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no allow-origin header, got %q", got)
	}
}

func TestRequestID(t *testing.T) {
	h := newTestServer(&mockExecutor{})

	w := do(h, http.MethodGet, "/", "")
	if id := w.Header().Get("X-Request-ID"); len(id) != 36 {
		t.Errorf("expected generated uuid, got %q", id)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "0b7d3c1e-52f4-4f8e-9a61-2c1f3f7d9e10")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != "0b7d3c1e-52f4-4f8e-9a61-2c1f3f7d9e10" {
		t.Errorf("expected caller id to be kept, got %q", got)
	}
}
