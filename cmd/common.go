/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/valpere/formtran/internal/config"
	"github.com/valpere/formtran/internal/fetcher"
	"github.com/valpere/formtran/internal/model"
	"github.com/valpere/formtran/internal/orchestrator"
	"github.com/valpere/formtran/internal/store"
	"github.com/valpere/formtran/internal/translator"
	"github.com/valpere/formtran/internal/validator"
)

func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, nil, err
	}
	logger, err := cfg.Log.NewLogger(os.Stderr)
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// buildService constructs the configured backend and checks it can serve
// requests. The returned cleanup must be called once the service is done.
func buildService(ctx context.Context, cfg *config.Config, logger *slog.Logger) (translator.TranslationService, func(), error) {
	noop := func() {}

	var svc translator.TranslationService
	cleanup := noop

	switch cfg.Translator.Service {
	case "nllb":
		logger.Info("loading translation model", "model", cfg.Model.Name, "server", cfg.Model.BaseURL)
		m, err := model.Load(ctx, cfg.Model)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to load model: %w", err)
		}
		logger.Info("model loaded", "model", m.Name(), "languages", len(m.Languages()))
		svc = translator.NewNLLBService(m)
	case "google":
		g, err := translator.NewGoogleService(ctx, cfg.Google)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to create Google Translate client: %w", err)
		}
		svc = g
		cleanup = func() {
			if err := g.Close(); err != nil {
				logger.Warn("closing Google Translate client", "error", err)
			}
		}
	case "mymemory":
		svc = translator.NewMyMemoryService(cfg.MyMemory.Email)
	case "ollama":
		svc = translator.NewOllamaTranslator(cfg.Ollama.BaseURL, cfg.Ollama.Model)
	case "openrouter":
		svc = translator.NewOpenRouterService(cfg.OpenRouter.APIKey, cfg.OpenRouter.BaseURL, cfg.OpenRouter.Model)
	default:
		return nil, noop, fmt.Errorf("unknown service: %s", cfg.Translator.Service)
	}

	if err := svc.IsAvailable(ctx); err != nil {
		cleanup()
		return nil, noop, fmt.Errorf("%s service is not available: %w", svc.Name(), err)
	}

	if langs, err := svc.SupportedLanguages(ctx); err == nil {
		logger.Debug("service ready", "service", svc.Name(), "languages", len(langs))
	}

	return svc, cleanup, nil
}

// openStore opens the database named by store.path, creating its directory.
func openStore(cfg *config.Config) (*store.Store, error) {
	if cfg.Store.Path == "" {
		return nil, fmt.Errorf("store.path is not configured (use --db or FORMTRAN_STORE_PATH)")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	return store.New(cfg.Store.Path)
}

// buildOrchestrator wires fetcher, backend, the optional language check and
// the optional request history into the pipeline.
func buildOrchestrator(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*orchestrator.Orchestrator, func(), error) {
	svc, cleanup, err := buildService(ctx, cfg, logger)
	if err != nil {
		return nil, cleanup, err
	}

	orchCfg := orchestrator.OrchestratorConfig{Logger: logger}

	opts := translator.Options{
		MaxTokens: cfg.Translator.MaxTokens,
		Service: translator.ServiceConfig{
			Model:   cfg.Translator.Model,
			Timeout: cfg.Translator.Timeout,
		},
		Logger: logger,
	}
	if cfg.Translator.ValidateOutput {
		opts.Validator = validator.New()
	}

	if cfg.Store.Path != "" {
		db, err := openStore(cfg)
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
		logger.Info("recording request history", "path", cfg.Store.Path)
		orchCfg.History = db

		closeService := cleanup
		cleanup = func() {
			if err := db.Close(); err != nil {
				logger.Warn("closing database", "error", err)
			}
			closeService()
		}
	}

	orch := orchestrator.New(fetcher.New(cfg.Fetcher), translator.New(svc, opts), orchCfg)
	return orch, cleanup, nil
}
