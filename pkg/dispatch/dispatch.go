package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/gridctl/maturinctl/pkg/container"
	"github.com/gridctl/maturinctl/pkg/environ"
	"github.com/gridctl/maturinctl/pkg/installer"
	"github.com/gridctl/maturinctl/pkg/logging"
	"github.com/gridctl/maturinctl/pkg/runner"
	"github.com/gridctl/maturinctl/pkg/runtime/docker"
	"github.com/gridctl/maturinctl/pkg/target"
	"github.com/gridctl/maturinctl/pkg/version"
)

// ToolName is the wrapped tool reported in exit errors.
const ToolName = "maturin"

// ErrNoContainer is returned when no image is known for a target and tier.
var ErrNoContainer = errors.New("no container image for target")

// ExitError reports a non-zero exit of the wrapped tool.
type ExitError struct {
	Tool string
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s: returned %d", e.Tool, e.Code)
}

// VersionResolver turns a requested maturin version into a release tag.
type VersionResolver interface {
	Resolve(ctx context.Context, requested string) string
}

// ToolInstaller provides the maturin executable.
type ToolInstaller interface {
	Ensure(ctx context.Context, tag string) (string, error)
}

// TargetInstaller provides Rust targets.
type TargetInstaller interface {
	Ensure(ctx context.Context, t target.Triple, toolchain string) error
}

// Output receives user-facing progress.
type Output interface {
	StartGroup(title string)
	EndGroup()
	Info(msg string, keyvals ...any)
	Println(args ...any)
}

// Options wires a Dispatcher.
type Options struct {
	Runner    runner.Runner
	Env       *environ.Env
	Versions  VersionResolver
	Tools     ToolInstaller
	Targets   TargetInstaller
	Puller    docker.Puller
	Output    Output
	Workspace string
}

// Dispatcher runs a Plan.
type Dispatcher struct {
	runner    runner.Runner
	env       *environ.Env
	versions  VersionResolver
	tools     ToolInstaller
	targets   TargetInstaller
	puller    docker.Puller
	out       Output
	workspace string
	tracer    trace.Tracer
	logger    *slog.Logger
}

// New creates a Dispatcher.
func New(opts Options) *Dispatcher {
	return &Dispatcher{
		runner:    opts.Runner,
		env:       opts.Env,
		versions:  opts.Versions,
		tools:     opts.Tools,
		targets:   opts.Targets,
		puller:    opts.Puller,
		out:       opts.Output,
		workspace: opts.Workspace,
		tracer:    otel.Tracer("github.com/gridctl/maturinctl/pkg/dispatch"),
		logger:    logging.NewDiscardLogger(),
	}
}

// SetLogger sets the logger for diagnostic output.
func (d *Dispatcher) SetLogger(logger *slog.Logger) {
	if logger != nil {
		d.logger = logger
	}
}

// Run executes p and returns nil when the build succeeded.
func (d *Dispatcher) Run(ctx context.Context, p *Plan) (err error) {
	ctx, span := d.tracer.Start(ctx, "dispatch.run", trace.WithAttributes(
		attribute.String("maturin.command", p.BuildCommand.Subcommand()),
		attribute.String("maturin.mode", string(p.Mode)),
		attribute.String("maturin.target", p.Target.String()),
		attribute.String("maturin.tier", string(p.Tier)),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	d.logger.Info("dispatching", "mode", p.Mode, "command", []string(p.BuildCommand))

	if p.Mode == ModeContainer {
		return d.runContainer(ctx, p)
	}
	return d.runHost(ctx, p)
}

func (d *Dispatcher) runHost(ctx context.Context, p *Plan) error {
	if wantsCompat(p.BuildCommand.Subcommand()) {
		if err := d.prepareTarget(ctx, p); err != nil {
			return err
		}
	}

	tag := d.versions.Resolve(ctx, p.MaturinVersion)

	if p.Host.GOOS == "darwin" && d.env.Get("pythonLocation") == "" {
		d.addToolCachePythons(p.Host)
	}

	d.out.StartGroup("Install maturin")
	d.out.Info(fmt.Sprintf("Installing '%s' from tag '%s'", ToolName, tag))
	exe, err := d.tools.Ensure(ctx, tag)
	if err != nil {
		d.out.EndGroup()
		return err
	}
	d.printToolVersion(ctx, exe, tag)
	d.out.EndGroup()

	buildEnv := d.env
	if p.Host.GOOS == "darwin" && p.BuildCommand.Contains("--universal2") {
		d.out.StartGroup("Prepare macOS universal2 build environment")
		for _, t := range []target.Triple{target.X86_64Darwin, target.Aarch64Darwin} {
			if err := d.targets.Ensure(ctx, t, p.Toolchain); err != nil {
				d.out.EndGroup()
				return err
			}
		}
		buildEnv = d.env.With(Universal2Env)
		d.out.EndGroup()
	}

	return d.build(ctx, runner.Command{
		Name: exe,
		Args: p.BuildCommand,
		Env:  buildEnv.List(),
	})
}

// Universal2Env is layered over the environment for universal2 builds.
var Universal2Env = map[string]string{
	"DEVELOPER_DIR":            "/Applications/Xcode.app/Contents/Developer",
	"SDKROOT":                  "/Applications/Xcode.app/Contents/Developer/Platforms/MacOSX.platform/Developer/SDKs/MacOSX.sdk",
	"MACOSX_DEPLOYMENT_TARGET": "10.9",
}

func (d *Dispatcher) prepareTarget(ctx context.Context, p *Plan) error {
	ctx, span := d.tracer.Start(ctx, "dispatch.target")
	defer span.End()

	d.out.StartGroup("Install Rust target")
	defer d.out.EndGroup()

	if p.Toolchain != "" {
		res, err := d.runner.Run(ctx, runner.Command{
			Name: "rustup",
			Args: []string{"override", "set", p.Toolchain},
			Env:  d.env.List(),
		})
		if err != nil {
			return fmt.Errorf("setting toolchain %s: %w", p.Toolchain, err)
		}
		if !res.Success() {
			return fmt.Errorf("setting toolchain %s: rustup returned %d", p.Toolchain, res.ExitCode)
		}
	}
	return d.targets.Ensure(ctx, p.Target, p.Toolchain)
}

func (d *Dispatcher) addToolCachePythons(host Host) {
	root := d.env.Get("RUNNER_TOOL_CACHE")
	if root == "" {
		return
	}
	for _, dir := range installer.PythonInstalls(root, installer.ToolCacheArch(host.GOARCH)) {
		d.out.Info(fmt.Sprintf("Python version %s was found in the local cache", filepath.Base(filepath.Dir(dir))))
		d.env.AddPath(dir)
		d.env.AddPath(filepath.Join(dir, "bin"))
	}
}

func (d *Dispatcher) printToolVersion(ctx context.Context, exe, tag string) {
	res, err := d.runner.Run(ctx, runner.Command{
		Name:    exe,
		Args:    []string{"--version"},
		Env:     d.env.List(),
		Capture: true,
	})
	if err != nil || !res.Success() {
		d.logger.Warn("maturin --version failed", "exit", res.ExitCode, "error", err)
		return
	}
	reported := strings.TrimSpace(res.Stdout)
	d.out.Println(reported)
	if !version.Matches(tag, reported) {
		d.logger.Debug("maturin on PATH differs from requested tag", "tag", tag, "version", reported)
	}
}

// SelectImage picks the build image for p and the maturin release tag.
func SelectImage(p *Plan, tag string) (container.Image, error) {
	ref, ok := container.Select(p.Target, string(p.Tier), p.Container, p.Host.GOARCH)
	if !ok {
		return container.Image{}, fmt.Errorf("%w: target %q tier %q", ErrNoContainer, p.Target, p.Tier)
	}
	return container.ResolveImage(ref, tag), nil
}

func (d *Dispatcher) runContainer(ctx context.Context, p *Plan) error {
	tag := d.versions.Resolve(ctx, p.MaturinVersion)

	img, err := SelectImage(p, tag)
	if err != nil {
		return err
	}

	if err := d.pull(ctx, img.Ref); err != nil {
		return err
	}

	script := BuildScript(ScriptParams{
		Tag:          tag,
		HostArch:     p.Host.GOARCH,
		Toolchain:    p.Toolchain,
		Target:       p.Target,
		ExtraCommand: p.ExtraBuildCommand,
		BuildCommand: p.BuildCommand,
	})
	body := script.Render()
	d.out.Println(logging.RedactString(body))

	scriptPath := filepath.Join(d.workspace, ScriptName)
	if err := os.WriteFile(scriptPath, []byte(body), 0o755); err != nil {
		return fmt.Errorf("writing build script: %w", err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(scriptPath, 0o755); err != nil {
		return fmt.Errorf("writing build script: %w", err)
	}

	return d.build(ctx, runner.Command{
		Name: "docker",
		Args: DockerRunArgs(d.workspace, img.OverrideEntrypoint, img.Ref, scriptPath),
		Env:  d.env.List(),
	})
}

func (d *Dispatcher) pull(ctx context.Context, ref string) error {
	ctx, span := d.tracer.Start(ctx, "dispatch.pull", trace.WithAttributes(attribute.String("image", ref)))
	defer span.End()

	d.out.StartGroup("Pull Docker image")
	defer d.out.EndGroup()

	d.out.Info(fmt.Sprintf("Using %s Docker image", ref))
	if err := d.puller.Pull(ctx, ref); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

func (d *Dispatcher) build(ctx context.Context, cmd runner.Command) error {
	ctx, span := d.tracer.Start(ctx, "dispatch.build")
	defer span.End()

	res, err := d.runner.Run(ctx, cmd)
	if err != nil {
		return fmt.Errorf("running %s: %w", ToolName, err)
	}
	span.SetAttributes(attribute.Int("exit_code", res.ExitCode))
	if !res.Success() {
		return &ExitError{Tool: ToolName, Code: res.ExitCode}
	}
	return nil
}
