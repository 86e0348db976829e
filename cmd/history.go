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
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var (
	historyLimit int
	clearBefore  time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the request history",
	Long: `List, summarize and prune the SQLite request history.

The database is selected with --db, store.path in the config file or
FORMTRAN_STORE_PATH. Only the outcome of each request is kept, never the
translated text.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent form translations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		records, err := db.Recent(context.Background(), historyLimit)
		if err != nil {
			return fmt.Errorf("failed to read history: %w", err)
		}
		if len(records) == 0 {
			fmt.Println("No translations recorded.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "WHEN\tLANGUAGE\tOK\tQUESTIONS\tDURATION\tURL\tERROR")
		for _, r := range records {
			fmt.Fprintf(w, "%s\t%s\t%v\t%d\t%s\t%s\t%s\n",
				r.CreatedAt.Format("2006-01-02 15:04"), r.TargetLanguage, r.Success,
				r.Questions, r.Duration.Round(time.Millisecond), r.FormURL, r.Error)
		}
		return w.Flush()
	},
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show request statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.Stats(context.Background())
		if err != nil {
			return fmt.Errorf("failed to read stats: %w", err)
		}

		fmt.Printf("Requests:         %d\n", stats.Requests)
		fmt.Printf("Failed requests:  %d\n", stats.FailedRequests)
		fmt.Printf("Average duration: %s\n", stats.AvgDuration.Round(time.Millisecond))

		if len(stats.ByLanguage) == 0 {
			return nil
		}
		fmt.Println()
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "LANGUAGE\tREQUESTS\tFAILED")
		for _, l := range stats.ByLanguage {
			fmt.Fprintf(w, "%s\t%d\t%d\n", l.Language, l.Requests, l.Failed)
		}
		return w.Flush()
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete history records",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		var before time.Time
		if clearBefore > 0 {
			before = time.Now().Add(-clearBefore)
		}

		n, err := db.Clear(context.Background(), before)
		if err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		fmt.Printf("Deleted %d records.\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyStatsCmd)
	historyCmd.AddCommand(historyClearCmd)

	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of records to show")
	historyClearCmd.Flags().DurationVar(&clearBefore, "older-than", 0, "Only delete records older than this (e.g. 720h); 0 deletes all")
}
