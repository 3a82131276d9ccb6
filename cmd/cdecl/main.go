// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Command cdecl checks C declarations and expressions without compiling
// or running them.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const version = "0.1.0"

// errCheckFailed signals that a check reported errors. The diagnostics have
// already been printed.
var errCheckFailed = errors.New("check failed")

func main() {
	v := viper.New()
	rootCmd := newRootCmd(v, os.Stdin, os.Stdout)

	// Config file.
	v.SetConfigName(".cdecl")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.ReadInConfig() // Ignore error; config file is optional.

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errCheckFailed) {
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
}

// newRootCmd builds the command tree with flags bound to v.
func newRootCmd(v *viper.Viper, stdin io.Reader, stdout io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "cdecl",
		Short:         "C declaration and expression analyzer",
		Long:          "cdecl resolves every declaration and identifier of a restricted C subset and reports what does not type-check, without compiling or running anything.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)

	// Global flags.
	rootCmd.PersistentFlags().String("workdir", ".", "Directory that relative paths resolve against")
	rootCmd.PersistentFlags().String("format", "text", "Output format: text or json")
	rootCmd.PersistentFlags().Int("context-lines", 2, "Source lines shown around each diagnostic (negative for none)")
	rootCmd.PersistentFlags().Int("concurrency", 0, "Files analyzed in parallel (0 = number of CPUs)")
	rootCmd.PersistentFlags().Bool("werror", false, "Treat warnings as errors")
	rootCmd.PersistentFlags().Bool("changed", false, "Only check C files git reports as changed")
	rootCmd.PersistentFlags().Bool("crosscheck", false, "Cross-check each file against its tree-sitter outline")
	rootCmd.PersistentFlags().Bool("no-suggest", false, "Omit did-you-mean hints")
	rootCmd.PersistentFlags().Bool("no-hints", false, "Omit all hint lines from text output")

	// Bind flags to viper.
	for _, name := range []string{
		"workdir", "format", "context-lines", "concurrency", "werror",
		"changed", "crosscheck", "no-suggest", "no-hints",
	} {
		v.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}

	// Env vars: CDECL_FORMAT, CDECL_CONTEXT_LINES, etc.
	v.SetEnvPrefix("CDECL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	rootCmd.AddCommand(newCheckCmd(v))
	rootCmd.AddCommand(newExplainCmd(v))
	rootCmd.AddCommand(newOutlineCmd(v))
	rootCmd.AddCommand(newSymbolsCmd(v))
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// newVersionCmd creates the "version" command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print cdecl version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cdecl %s\n", version)
		},
	}
}
