package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/valpere/formtran/internal"
	"github.com/valpere/formtran/internal/extractor"
	"github.com/valpere/formtran/internal/languages"
)

// ValidationError reports a request the pipeline refuses to run.
type ValidationError struct {
	Language string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Unsupported language: %s", e.Language)
}

type Fetcher interface {
	Fetch(ctx context.Context, formURL string) (string, error)
}

// FieldTranslator translates one form string. Implementations return the
// input unchanged when they cannot translate it.
type FieldTranslator interface {
	Translate(ctx context.Context, text, targetCode string) string
}

// History records the outcome of every Execute call.
type History interface {
	Record(ctx context.Context, req internal.TranslationRequest, resp *internal.TranslationResponse, err error, elapsed time.Duration) error
}

type OrchestratorConfig struct {
	// Extract defaults to extractor.Extract.
	Extract func(html string) internal.Form
	// History is optional.
	History History
	Logger  *slog.Logger
}

type Orchestrator struct {
	fetcher    Fetcher
	translator FieldTranslator
	extract    func(html string) internal.Form
	history    History
	logger     *slog.Logger
}

func New(fetcher Fetcher, translator FieldTranslator, config OrchestratorConfig) *Orchestrator {
	if config.Extract == nil {
		config.Extract = extractor.Extract
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Orchestrator{
		fetcher:    fetcher,
		translator: translator,
		extract:    config.Extract,
		history:    config.History,
		logger:     config.Logger,
	}
}

// Execute runs fetch, extract and translate for one request.
//
// A *ValidationError or *fetcher.FetchError is returned as the error. Any
// other failure, including a panic further down the pipeline, produces a
// response with Success false and a nil error.
func (o *Orchestrator) Execute(ctx context.Context, req internal.TranslationRequest) (*internal.TranslationResponse, error) {
	start := time.Now()
	resp, err := o.execute(ctx, req)

	if o.history != nil {
		if herr := o.history.Record(context.WithoutCancel(ctx), req, resp, err, time.Since(start)); herr != nil {
			o.logger.WarnContext(ctx, "failed to record request", "error", herr)
		}
	}
	return resp, err
}

func (o *Orchestrator) execute(ctx context.Context, req internal.TranslationRequest) (resp *internal.TranslationResponse, err error) {
	lang, ok := languages.Lookup(req.TargetLanguage)
	if !ok {
		return nil, &ValidationError{Language: req.TargetLanguage}
	}

	defer func() {
		if r := recover(); r != nil {
			o.logger.ErrorContext(ctx, "translation error", "url", req.FormURL, "panic", r)
			resp = failure(req, fmt.Errorf("%v", r))
			err = nil
		}
	}()

	start := time.Now()
	o.logger.InfoContext(ctx, "fetching form", "url", req.FormURL)
	html, err := o.fetcher.Fetch(ctx, req.FormURL)
	if err != nil {
		return nil, err
	}

	o.logger.DebugContext(ctx, "extracting form data", "bytes", len(html))
	form := o.extract(html)

	o.logger.InfoContext(ctx, "translating form", "language", lang.Name, "questions", len(form.Questions))
	translated := o.translateForm(ctx, form, lang.Code)

	if err := ctx.Err(); err != nil {
		o.logger.ErrorContext(ctx, "translation error", "url", req.FormURL, "error", err)
		return failure(req, err), nil
	}

	o.logger.InfoContext(ctx, "form translated", "language", lang.Name, "duration", time.Since(start))
	return &internal.TranslationResponse{
		Success:        true,
		TranslatedForm: &translated,
		OriginalURL:    req.FormURL,
		TargetLanguage: req.TargetLanguage,
	}, nil
}

func (o *Orchestrator) translateForm(ctx context.Context, form internal.Form, code string) internal.Form {
	out := internal.Form{
		Title:       o.translator.Translate(ctx, form.Title, code),
		Description: o.translator.Translate(ctx, form.Description, code),
		Questions:   make([]internal.Question, 0, len(form.Questions)),
	}

	for _, q := range form.Questions {
		tq := internal.Question{
			ID:          q.ID,
			Title:       o.translator.Translate(ctx, q.Title, code),
			Description: o.translator.Translate(ctx, q.Description, code),
			Type:        q.Type,
			Options:     make([]string, 0, len(q.Options)),
			Required:    q.Required,
		}
		for _, opt := range q.Options {
			tq.Options = append(tq.Options, o.translator.Translate(ctx, opt, code))
		}
		out.Questions = append(out.Questions, tq)
	}

	return out
}

func failure(req internal.TranslationRequest, err error) *internal.TranslationResponse {
	msg := err.Error()
	return &internal.TranslationResponse{
		Success:        false,
		OriginalURL:    req.FormURL,
		TargetLanguage: req.TargetLanguage,
		Error:          &msg,
	}
}
