// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petar-djukic/cdecl/internal/report"
	"github.com/petar-djukic/cdecl/pkg/cdecl"
)

// newExplainCmd creates the "explain" command.
func newExplainCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explain <declaration>",
		Short: "Describe a single declaration in English",
		Long:  "Explain analyzes one declaration, optionally after the declarations in a prelude file, and prints its canonical spelling and an English description.",
		Example: `  cdecl explain 'int (*fp)(int)'
  cdecl explain --prelude types.h 'intFunc handlers[4]'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			preludePath, _ := cmd.Flags().GetString("prelude")
			var prelude []string
			if preludePath != "" {
				data, err := os.ReadFile(preludePath)
				if err != nil {
					return fmt.Errorf("reading prelude: %w", err)
				}
				prelude = strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
			}

			ex, err := cdecl.Explain(prelude, strings.Join(args, " "))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if v.GetString("format") == cdecl.FormatJSON {
				return report.WriteJSON(out, ex)
			}
			fmt.Fprintf(out, "%s: %s\n", ex.Declarator, ex.English)
			for _, d := range ex.Diagnostics {
				fmt.Fprintf(out, "  %s\n", d.Error())
			}
			return nil
		},
	}

	cmd.Flags().String("prelude", "", "File of declarations analyzed before the explained one")
	return cmd
}
