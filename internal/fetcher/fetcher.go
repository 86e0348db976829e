// Package fetcher downloads the public view of a Google Form.
package fetcher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// FetchError reports that the form page could not be retrieved. Its message
// is safe to return to API clients.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("Failed to fetch Google Form: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type Config struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

type Fetcher struct {
	client *resty.Client
}

func New(cfg Config) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", cfg.UserAgent)
	return &Fetcher{client: client}
}

// NormalizeURL points an edit-mode form URL at its view-mode page and adds
// the view-mode suffix when neither suffix is present.
func NormalizeURL(formURL string) string {
	switch {
	case strings.Contains(formURL, "/edit"):
		return strings.ReplaceAll(formURL, "/edit", "/viewform")
	case !strings.Contains(formURL, "/viewform"):
		return formURL + "/viewform"
	default:
		return formURL
	}
}

// Fetch returns the HTML body of the normalized form URL.
func (f *Fetcher) Fetch(ctx context.Context, formURL string) (string, error) {
	target := NormalizeURL(formURL)

	resp, err := f.client.R().SetContext(ctx).Get(target)
	if err != nil {
		return "", &FetchError{URL: target, Err: err}
	}
	if resp.IsError() || resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return "", &FetchError{URL: target, Err: fmt.Errorf("%s for url: %s", resp.Status(), target)}
	}

	return resp.String(), nil
}
