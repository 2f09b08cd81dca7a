package main

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/gridctl/maturinctl/pkg/actions"
	"github.com/gridctl/maturinctl/pkg/config"
	"github.com/gridctl/maturinctl/pkg/dispatch"
	"github.com/gridctl/maturinctl/pkg/logging"
)

var inputUsage = map[string]string{
	config.Command:           "maturin subcommand (build, publish, develop, sdist, ...)",
	config.Args:              "Arguments passed to the maturin subcommand",
	config.Target:            "Rust target triple or alias (x64, aarch64, ...)",
	config.Manylinux:         "Manylinux tier (auto, off, 2014, 2_24, musllinux_1_2, ...)",
	config.Container:         "Build container image, or off to build on the host",
	config.RustToolchain:     "Rust toolchain to install and use",
	config.MaturinVersion:    "maturin version, or latest",
	config.ExtraBuildCommand: "Shell command run in the container before maturin",
}

// inputFlags binds one string flag per input name.
type inputFlags struct {
	values map[string]*string
}

func addInputFlags(cmd *cobra.Command) *inputFlags {
	f := &inputFlags{values: make(map[string]*string, len(config.Names))}
	for _, name := range config.Names {
		f.values[name] = cmd.Flags().String(name, "", inputUsage[name])
	}
	return f
}

// source returns only the flags the user set, so unset flags fall through
// to the environment and the config file.
func (f *inputFlags) source(cmd *cobra.Command) config.MapSource {
	src := config.MapSource{}
	for name, v := range f.values {
		if cmd.Flags().Changed(name) {
			src[name] = *v
		}
	}
	return src
}

func loadInputs(cmd *cobra.Command, flags *inputFlags) (*config.Inputs, error) {
	var file *config.Inputs
	if configPath != "" {
		var err error
		file, err = config.LoadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}
	in, err := config.Resolve(flags.source(cmd), actions.NewInputs(), file)
	if err != nil {
		return nil, fmt.Errorf("invalid inputs: %w", err)
	}
	return in, nil
}

func currentHost() dispatch.Host {
	return dispatch.Host{GOOS: runtime.GOOS, GOARCH: runtime.GOARCH}
}

func newLogger() (*slog.Logger, func() error, error) {
	return logging.Open(logging.Options{Debug: debugFlag, Format: logFormat, File: logFile})
}
