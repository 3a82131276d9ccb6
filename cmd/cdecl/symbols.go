// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petar-djukic/cdecl/internal/report"
	"github.com/petar-djukic/cdecl/pkg/cdecl"
	"github.com/petar-djukic/cdecl/pkg/types"
)

var symbolKinds = map[string]types.SymbolKind{
	"variable":  types.Variable,
	"parameter": types.Parameter,
	"function":  types.Function,
	"typedef":   types.Typedef,
	"field":     types.Member,
}

// newSymbolsCmd creates the "symbols" command.
func newSymbolsCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "symbols [file|dir]...",
		Short: "List every declaration the analyzer recorded",
		Long:  "Symbols analyzes the given files and lists their declaration records across all scopes, optionally filtered by name, kind or scope depth.",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			kindName, _ := cmd.Flags().GetString("kind")
			depth, _ := cmd.Flags().GetInt("depth")

			kind, filterKind := symbolKinds[kindName]
			if kindName != "" && !filterKind {
				return fmt.Errorf("unknown kind %q", kindName)
			}

			c, err := cdecl.New(configFrom(v))
			if err != nil {
				return fmt.Errorf("initialization failed: %w", err)
			}
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			rep, err := c.Check(ctx, args...)
			if err != nil {
				return err
			}

			type entry struct {
				Path string `json:"path"`
				types.Declaration
				Declarator string `json:"declarator"`
			}
			var entries []entry
			for _, f := range rep.Files {
				decls := f.Table.All()
				switch {
				case name != "":
					decls = f.Table.ByName(name)
				case filterKind:
					decls = f.Table.ByKind(kind)
				case depth >= 0:
					decls = f.Table.ByDepth(depth)
				}
				for _, d := range decls {
					if (filterKind && d.Kind != kind) || (depth >= 0 && d.Depth != depth) {
						continue
					}
					entries = append(entries, entry{Path: f.Path, Declaration: d, Declarator: types.Declarator(d.Type, d.Name)})
				}
			}

			out := cmd.OutOrStdout()
			if v.GetString("format") == cdecl.FormatJSON {
				return report.WriteJSON(out, entries)
			}
			for _, e := range entries {
				fmt.Fprintf(out, "%s:%s  %-9s %d  %s\n", e.Path, e.Pos, e.Kind, e.Depth, e.Declarator)
			}
			return nil
		},
	}

	cmd.Flags().String("name", "", "Only declarations of this name")
	cmd.Flags().String("kind", "", "Only declarations of this kind: variable, parameter, function, typedef or field")
	cmd.Flags().Int("depth", -1, "Only declarations at this scope depth (0 is file scope)")
	return cmd
}
