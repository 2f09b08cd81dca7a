package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gridctl/maturinctl/pkg/actions"
	"github.com/gridctl/maturinctl/pkg/dispatch"
	"github.com/gridctl/maturinctl/pkg/environ"
	"github.com/gridctl/maturinctl/pkg/fetch"
	"github.com/gridctl/maturinctl/pkg/installer"
	"github.com/gridctl/maturinctl/pkg/logging"
	"github.com/gridctl/maturinctl/pkg/output"
	"github.com/gridctl/maturinctl/pkg/runner"
	"github.com/gridctl/maturinctl/pkg/runtime/docker"
	"github.com/gridctl/maturinctl/pkg/telemetry"
	release "github.com/gridctl/maturinctl/pkg/version"
)

var runInputs *inputFlags

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Install maturin and run it on the host or in a build container",
	Long: `Resolves the inputs, installs maturin and the Rust target, then runs the
maturin command. Linux build and publish commands with a manylinux tier run
inside a manylinux container unless --container=off is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDispatch(cmd)
	},
}

func init() {
	runInputs = addInputFlags(runCmd)
}

func runDispatch(cmd *cobra.Command) error {
	printer := output.New()
	printer.SetDebug(debugFlag)

	logger, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	in, err := loadInputs(cmd, runInputs)
	if err != nil {
		return err
	}
	plan, err := dispatch.NewPlan(in, currentHost())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.Setup(ctx, version)
	if err != nil {
		logger.Warn("tracing disabled", "error", err)
	} else {
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Warn("flushing traces", "error", err)
			}
		}()
	}

	workspace, err := actions.Workspace()
	if err != nil {
		return fmt.Errorf("resolving workspace: %w", err)
	}
	env := environ.FromOS()

	r := runner.New()
	r.SetLogger(logging.WithComponent(logger, "runner"))

	versions := release.New(printer)
	versions.Token = env.Get("GITHUB_TOKEN")
	versions.SetLogger(logging.WithComponent(logger, "version"))

	fetcher := fetch.New()
	if printer.IsTTY() {
		fetcher.SetProgress(os.Stderr)
	}
	fetcher.SetLogger(logging.WithComponent(logger, "fetch"))

	tools := installer.NewToolInstaller(env, fetcher, runtime.GOOS, runtime.GOARCH)
	tools.SetReporter(printer)
	tools.SetLogger(logging.WithComponent(logger, "installer"))

	targets := installer.NewTargetInstaller(r, env)
	targets.SetLogger(logging.WithComponent(logger, "installer"))

	var puller docker.Puller = docker.NewCLIPuller(r, env)
	if plan.Mode == dispatch.ModeContainer {
		p, closePuller := docker.NewPuller(ctx, r, env, printer.Writer(), logging.WithComponent(logger, "docker"))
		defer func() { _ = closePuller() }()
		puller = p
	}

	d := dispatch.New(dispatch.Options{
		Runner:    r,
		Env:       env,
		Versions:  versions,
		Tools:     tools,
		Targets:   targets,
		Puller:    puller,
		Output:    printer,
		Workspace: workspace,
	})
	d.SetLogger(logging.WithComponent(logger, "dispatch"))

	start := time.Now()
	if err := d.Run(ctx, plan); err != nil {
		return err
	}
	printer.Result("success", fmt.Sprintf("maturin %s in %s", plan.BuildCommand.Subcommand(), time.Since(start).Round(time.Second)))
	return nil
}
