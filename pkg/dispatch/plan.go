// Package dispatch decides whether a maturin command runs on the host or in
// a build container, and runs it.
package dispatch

import (
	"fmt"
	"slices"

	"github.com/gridctl/maturinctl/pkg/config"
	"github.com/gridctl/maturinctl/pkg/container"
	"github.com/gridctl/maturinctl/pkg/shellargs"
	"github.com/gridctl/maturinctl/pkg/target"
)

// Host identifies the machine maturinctl runs on, as Go GOOS/GOARCH values.
type Host struct {
	GOOS   string
	GOARCH string
}

// Mode is where the build command runs.
type Mode string

const (
	ModeHost      Mode = "host"
	ModeContainer Mode = "container"
)

// BuildCommand is the maturin argument vector: subcommand first, then user
// arguments, then flags appended by the dispatcher.
type BuildCommand []string

// Append returns bc with args added at the end.
func (bc BuildCommand) Append(args ...string) BuildCommand {
	return append(bc, args...)
}

// Contains reports whether arg appears in bc.
func (bc BuildCommand) Contains(arg string) bool {
	return slices.Contains(bc, arg)
}

// Subcommand returns the maturin subcommand.
func (bc BuildCommand) Subcommand() string {
	if len(bc) == 0 {
		return ""
	}
	return bc[0]
}

// String renders the command line with shell quoting.
func (bc BuildCommand) String() string {
	return shellargs.Join(bc)
}

// Plan is the resolved decision for one invocation.
type Plan struct {
	Host              Host
	Mode              Mode
	Target            target.Triple
	Tier              container.Tier
	Container         string
	Toolchain         string
	MaturinVersion    string
	ExtraBuildCommand string
	BuildCommand      BuildCommand
}

// wantsCompat reports whether the subcommand accepts --manylinux and --target.
func wantsCompat(command string) bool {
	return command == "build" || command == "publish"
}

// UseContainer reports whether command runs in a build container: only
// build and publish on Linux, with a tier set and neither the tier nor the
// container override set to "off".
func UseContainer(command, goos, tierRaw, containerOverride string) bool {
	tier := container.NormalizeTier(tierRaw)
	return wantsCompat(command) &&
		goos == "linux" &&
		tier != "" &&
		tier != container.TierOff &&
		containerOverride != container.Off
}

// NewPlan tokenizes the user arguments, resolves the target and decides the
// execution mode.
func NewPlan(in *config.Inputs, host Host) (*Plan, error) {
	tokens, err := shellargs.Tokenize(in.Args)
	if err != nil {
		return nil, fmt.Errorf("parsing args: %w", err)
	}

	p := &Plan{
		Host:              host,
		Mode:              ModeHost,
		Tier:              container.NormalizeTier(in.Manylinux),
		Container:         in.Container,
		Toolchain:         in.RustToolchain,
		MaturinVersion:    in.MaturinVersion,
		ExtraBuildCommand: in.ExtraBuildCommand,
		BuildCommand:      BuildCommand{in.Command}.Append(tokens...),
	}

	if !wantsCompat(in.Command) {
		return p, nil
	}

	if p.Tier != "" && host.GOOS == "linux" {
		if p.Tier != container.TierAuto {
			p.BuildCommand = p.BuildCommand.Append("--manylinux", string(p.Tier))
		}
		if UseContainer(in.Command, host.GOOS, in.Manylinux, in.Container) {
			p.Mode = ModeContainer
		}
	}

	p.Target = target.Resolve(in.Target, host.GOOS)
	if !p.Target.Empty() {
		p.BuildCommand = p.BuildCommand.Append("--target", p.Target.String())
	}
	return p, nil
}
