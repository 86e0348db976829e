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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/valpere/formtran/internal"
	"github.com/valpere/formtran/internal/languages"
	"github.com/valpere/formtran/internal/markdown"
	"github.com/valpere/formtran/internal/orchestrator"
)

var (
	formURL    string
	targetLang string
	outputFile string
	format     string
)

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Translate one Google Form",
	Long: `Fetches a single form, translates it and prints the result as JSON.

Examples:
  formtran translate --url https://docs.google.com/forms/d/<id>/viewform --target spanish
  formtran translate --url https://docs.google.com/forms/d/<id>/edit -t german -o form.de.json
  formtran translate -u <url> -t french --format html -o preview.html`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}

		if err := checkTranslateArgs(targetLang, format); err != nil {
			return err
		}

		ctx := context.Background()

		orch, cleanup, err := buildOrchestrator(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		resp, err := orch.Execute(ctx, internal.TranslationRequest{
			FormURL:        formURL,
			TargetLanguage: targetLang,
		})
		if err != nil {
			return err
		}

		data, err := render(resp, format)
		if err != nil {
			return err
		}

		if outputFile == "" {
			if _, err := os.Stdout.Write(data); err != nil {
				return err
			}
		} else {
			if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			if err := os.WriteFile(outputFile, data, 0644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Wrote translated form to %s\n", outputFile)
		}

		if !resp.Success {
			return fmt.Errorf("translation failed: %s", *resp.Error)
		}
		return nil
	},
}

// checkTranslateArgs rejects bad input before any backend is contacted.
func checkTranslateArgs(target, format string) error {
	if format != "json" && format != "markdown" && format != "html" {
		return fmt.Errorf("unknown format %q (want json, markdown or html)", format)
	}
	if _, ok := languages.Lookup(target); !ok {
		return &orchestrator.ValidationError{Language: target}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringVarP(&formURL, "url", "u", "", "Google Form URL (required)")
	translateCmd.Flags().StringVarP(&targetLang, "target", "t", "", "Target language name, e.g. spanish (required)")
	translateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write the JSON result to this file instead of stdout")

	translateCmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json, markdown or html")

	translateCmd.MarkFlagRequired("url")
	translateCmd.MarkFlagRequired("target")
}

// render encodes resp in the requested format. Markdown and HTML need a
// translated form, so a failed response is always written as JSON.
func render(resp *internal.TranslationResponse, format string) ([]byte, error) {
	if format == "json" || resp.TranslatedForm == nil {
		data, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode result: %w", err)
		}
		return append(data, '\n'), nil
	}

	if format == "markdown" {
		return markdown.FromForm(*resp.TranslatedForm), nil
	}

	lang := "und"
	if l, ok := languages.Lookup(resp.TargetLanguage); ok {
		lang = l.ISO()
	}
	return []byte(markdown.Page(*resp.TranslatedForm, lang)), nil
}
