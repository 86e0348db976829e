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
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/valpere/formtran/internal/config"
)

var version = "0.1.0"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "formtran",
	Short: "Google Form translator",
	Long: `Fetches a public Google Form, extracts its title, description and questions,
and translates every string from English into a target language.

The default backend is an NLLB-200 model served by a local inference server.
Google Cloud Translation, MyMemory, Ollama and OpenRouter can be selected
with --service.

Use "formtran serve" to run the HTTP API or "formtran translate" for a
single form.`,
	Version: version,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults(viper.GetViper())

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default is $HOME/.formtran.yaml)")
	rootCmd.PersistentFlags().String("service", "nllb", "Translation backend: nllb, google, mymemory, ollama, openrouter")
	rootCmd.PersistentFlags().String("model-url", "", "Base URL of the NLLB inference server")
	rootCmd.PersistentFlags().Bool("validate-output", false, "Discard translations detected in the wrong language")
	rootCmd.PersistentFlags().String("db", "", "SQLite database for request history (disabled if empty)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format: text or json")

	bindFlag(rootCmd, "translator.service", "service")
	bindFlag(rootCmd, "model.base_url", "model-url")
	bindFlag(rootCmd, "translator.validate_output", "validate-output")
	bindFlag(rootCmd, "store.path", "db")
	bindFlag(rootCmd, "log.level", "log-level")
	bindFlag(rootCmd, "log.format", "log-format")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".formtran")
	}

	config.BindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// bindFlag ties a persistent or local flag to a config key. Only a flag the
// user actually set overrides the file and environment.
func bindFlag(c *cobra.Command, key, flag string) {
	f := c.PersistentFlags().Lookup(flag)
	if f == nil {
		f = c.Flags().Lookup(flag)
	}
	if err := viper.BindPFlag(key, f); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", flag, err))
	}
}
