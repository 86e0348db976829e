package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/valpere/formtran/internal"
	"github.com/valpere/formtran/internal/fetcher"
	"github.com/valpere/formtran/internal/languages"
	"github.com/valpere/formtran/internal/orchestrator"
)

// translateBody is the POST /translate payload. Pointer fields let a missing
// key fail binding (422) while an empty string reaches the pipeline (400).
type translateBody struct {
	FormURL        *string `json:"form_url" binding:"required"`
	TargetLanguage *string `json:"target_language" binding:"required"`
}

func (b translateBody) request() internal.TranslationRequest {
	return internal.TranslationRequest{FormURL: *b.FormURL, TargetLanguage: *b.TargetLanguage}
}

type TranslateController struct {
	Executor Executor
	Logger   *slog.Logger
}

func (c *TranslateController) Root(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "Google Form Translator API", "status": "running"})
}

func (c *TranslateController) Languages(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"languages": languages.Names()})
}

func (c *TranslateController) Translate(ctx *gin.Context) {
	var body translateBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"detail": bindingDetail(err)})
		return
	}
	req := body.request()

	resp, err := c.Executor.Execute(ctx.Request.Context(), req)

	var verr *orchestrator.ValidationError
	var ferr *fetcher.FetchError
	switch {
	case errors.As(err, &verr), errors.As(err, &ferr):
		ctx.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	case err != nil:
		c.Logger.ErrorContext(ctx.Request.Context(), "translation error", "error", err)
		msg := err.Error()
		resp = &internal.TranslationResponse{
			OriginalURL:    req.FormURL,
			TargetLanguage: req.TargetLanguage,
			Error:          &msg,
		}
	}

	ctx.JSON(http.StatusOK, resp)
}
