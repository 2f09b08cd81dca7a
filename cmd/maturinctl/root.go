package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gridctl/maturinctl/pkg/actions"
	"github.com/gridctl/maturinctl/pkg/output"
)

var rootCmd = &cobra.Command{
	Use:   "maturinctl",
	Short: "Build and publish Rust Python extensions with maturin",
	Long: `Maturinctl installs maturin and the requested Rust target, then runs a
maturin command either on the host or inside a manylinux build container.

Inputs come from flags, GitHub Actions INPUT_* variables or a config file,
in that order of precedence.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	debugFlag  bool
	logFormat  string
	logFile    string
	configPath string
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Diagnostic log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write a rotated JSON log to this file")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Inputs file (.yaml, .json or .jsonc)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(targetsCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printer := output.NewWithWriter(os.Stderr)
		printer.SetWorkflow(actions.IsRunning())
		printer.Error(err.Error())
		os.Exit(1)
	}
}
