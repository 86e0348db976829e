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

	"github.com/spf13/cobra"

	"github.com/valpere/formtran/internal/languages"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List supported target languages",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		for _, name := range languages.Names() {
			l, _ := languages.Lookup(name)
			fmt.Fprintf(out, "%-12s %-9s %s\n", l.Name, l.Code, l.DisplayName())
		}
	},
}

func init() {
	rootCmd.AddCommand(languagesCmd)
}
