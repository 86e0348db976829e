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
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/valpere/formtran/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Starts the translation API.

Endpoints:
  GET  /           health check
  GET  /languages  supported target languages
  POST /translate  {"form_url": "...", "target_language": "spanish"}

The translation backend is loaded before the listener starts; if it cannot
be loaded the command exits with an error.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		orch, cleanup, err := buildOrchestrator(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		if logger.Enabled(ctx, slog.LevelDebug) {
			gin.SetMode(gin.DebugMode)
		} else {
			gin.SetMode(gin.ReleaseMode)
		}

		srv := server.New(orch, server.Config{
			Addr:           cfg.Server.Addr(),
			AllowedOrigins: cfg.Server.AllowedOrigins,
			Logger:         logger,
		})
		return srv.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "0.0.0.0", "Address to listen on")
	serveCmd.Flags().Int("port", 8000, "Port to listen on")
	serveCmd.Flags().StringSlice("allowed-origins", nil, "CORS origins (comma-separated)")

	bindFlag(serveCmd, "server.host", "host")
	bindFlag(serveCmd, "server.port", "port")
	bindFlag(serveCmd, "server.allowed_origins", "allowed-origins")
}
