// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petar-djukic/cdecl/pkg/cdecl"
)

// newCheckCmd creates the "check" command.
func newCheckCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "check [file|dir|-]...",
		Short: "Analyze C files and report diagnostics",
		Long:  "Check analyzes each named file, every .c and .h file under each named directory, or standard input for \"-\". With no arguments the work directory is scanned.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, v, args)
		},
	}
}

// configFrom builds the library config from bound flags, env and file.
func configFrom(v *viper.Viper) cdecl.Config {
	return cdecl.Config{
		WorkDir:      v.GetString("workdir"),
		Format:       v.GetString("format"),
		ContextLines: v.GetInt("context-lines"),
		Concurrency:  v.GetInt("concurrency"),
		Werror:       v.GetBool("werror"),
		Changed:      v.GetBool("changed"),
		CrossCheck:   v.GetBool("crosscheck"),
		NoSuggest:    v.GetBool("no-suggest"),
		NoHints:      v.GetBool("no-hints"),
	}
}

// runCheck executes the check and prints the report.
func runCheck(cmd *cobra.Command, v *viper.Viper, args []string) error {
	c, err := cdecl.New(configFrom(v))
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var rep *cdecl.Report
	if len(args) == 1 && args[0] == "-" {
		src, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading standard input: %w", err)
		}
		rep, err = c.CheckSource(ctx, "<stdin>", src)
		if err != nil {
			return err
		}
	} else {
		rep, err = c.Check(ctx, args...)
		if err != nil {
			return err
		}
	}

	if err := c.Render(cmd.OutOrStdout(), rep); err != nil {
		return err
	}
	if c.Failed(rep) {
		return errCheckFailed
	}
	return nil
}
