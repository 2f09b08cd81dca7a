package installer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gridctl/maturinctl/pkg/environ"
	"github.com/gridctl/maturinctl/pkg/logging"
	"github.com/gridctl/maturinctl/pkg/runner"
	"github.com/gridctl/maturinctl/pkg/target"
)

// TargetInstaller adds Rust compilation targets through rustup.
type TargetInstaller struct {
	runner runner.Runner
	env    *environ.Env
	logger *slog.Logger
}

// NewTargetInstaller creates a TargetInstaller running commands with env.
func NewTargetInstaller(r runner.Runner, env *environ.Env) *TargetInstaller {
	return &TargetInstaller{
		runner: r,
		env:    env,
		logger: logging.NewDiscardLogger(),
	}
}

// SetLogger sets the logger for diagnostic output.
func (ti *TargetInstaller) SetLogger(logger *slog.Logger) {
	if logger != nil {
		ti.logger = logger
	}
}

// Ensure installs t for toolchain (the default toolchain when empty). It
// does nothing when t is empty or its library directory already exists.
func (ti *TargetInstaller) Ensure(ctx context.Context, t target.Triple, toolchain string) error {
	if t.Empty() {
		return nil
	}

	var libdirArgs []string
	if toolchain != "" {
		libdirArgs = append(libdirArgs, "+"+toolchain)
	}
	libdirArgs = append(libdirArgs, "--print", "target-libdir", "--target", t.String())

	res, err := ti.runner.Run(ctx, runner.Command{
		Name:    "rustc",
		Args:    libdirArgs,
		Env:     ti.env.List(),
		Capture: true,
	})
	if err != nil {
		return fmt.Errorf("checking target %s: %w", t, err)
	}
	if !res.Success() && res.Stderr != "" {
		return fmt.Errorf("checking target %s: %s", t, strings.TrimSpace(res.Stderr))
	}
	if libdir := strings.TrimSpace(res.Stdout); libdir != "" {
		if info, err := os.Stat(libdir); err == nil && info.IsDir() {
			ti.logger.Debug("target already installed", "target", t, "libdir", libdir)
			return nil
		}
	}

	args := []string{"target", "add"}
	if toolchain != "" {
		args = append(args, "--toolchain", toolchain)
	}
	args = append(args, t.String())

	res, err = ti.runner.Run(ctx, runner.Command{Name: "rustup", Args: args, Env: ti.env.List()})
	if err != nil {
		return fmt.Errorf("installing target %s: %w", t, err)
	}
	if !res.Success() {
		return fmt.Errorf("installing target %s: rustup returned %d", t, res.ExitCode)
	}
	return nil
}
