package dispatch

import (
	"fmt"
	"strings"

	"github.com/alessio/shellescape"

	"github.com/gridctl/maturinctl/pkg/installer"
	"github.com/gridctl/maturinctl/pkg/target"
)

// ScriptName is the file the container bootstrap script is written to,
// relative to the workspace.
const ScriptName = "run-maturin-action.sh"

// DefaultContainerToolchain is installed in the container when no toolchain
// was requested.
const DefaultContainerToolchain = "stable"

// containerPythonPath lists the interpreters shipped in the manylinux images.
const containerPythonPath = `export PATH="$PATH:/opt/python/cp36-cp36m/bin:/opt/python/cp37-cp37m/bin:/opt/python/cp38-cp38/bin:/opt/python/cp39-cp39/bin"`

// ForwardedEnv is passed to docker run by name, so the container inherits
// the values from the caller's environment.
var ForwardedEnv = []string{
	"DEBIAN_FRONTEND=noninteractive",
	"RUSTFLAGS",
	"RUST_BACKTRACE",
	"MATURIN_PASSWORD",
	"MATURIN_PYPI_TOKEN",
	"ARCHFLAGS",
	"PYO3_CROSS",
	"PYO3_CROSS_LIB_DIR",
	"PYO3_CROSS_PYTHON_VERSION",
	"_PYTHON_SYSCONFIGDATA_NAME",
}

// Script is an ordered list of bash lines.
type Script struct {
	lines []string
}

// Add appends lines.
func (s *Script) Add(lines ...string) {
	s.lines = append(s.lines, lines...)
}

// Group appends lines wrapped in workflow group markers.
func (s *Script) Group(title string, lines ...string) {
	s.Add(fmt.Sprintf(`echo "::group::%s"`, title))
	s.Add(lines...)
	s.Add(`echo "::endgroup::"`)
}

// Lines returns a copy of the script lines.
func (s *Script) Lines() []string {
	return append([]string(nil), s.lines...)
}

// Render joins the lines with newlines.
func (s *Script) Render() string {
	return strings.Join(s.lines, "\n")
}

// ScriptParams configures BuildScript.
type ScriptParams struct {
	Tag          string
	HostArch     string
	Toolchain    string
	Target       target.Triple
	ExtraCommand string
	BuildCommand BuildCommand
}

// BuildScript assembles the container bootstrap: install Rust, put the
// image's Pythons on PATH, install maturin from the release tarball, add
// the target, run the extra command, then run maturin.
func BuildScript(p ScriptParams) *Script {
	tc := p.Toolchain
	if tc == "" {
		tc = DefaultContainerToolchain
	}
	tc = shellescape.Quote(tc)
	url := installer.DownloadURL(installer.ReleaseDownloadURL, p.Tag, "linux", p.HostArch)

	s := &Script{}
	s.Add("#!/bin/bash", "set -e")
	s.Group("Install Rust",
		"which rustup > /dev/null || curl --tlsv1.2 -sSf https://sh.rustup.rs | sh -s -- -y --profile minimal --default-toolchain "+tc,
		`export PATH="$HOME/.cargo/bin:$PATH"`,
		"rustup override set "+tc,
	)
	s.Add(containerPythonPath)
	s.Group("Install maturin",
		"curl -L "+url+" | tar -xz -C /usr/local/bin",
		"maturin --version",
	)
	if !p.Target.Empty() {
		t := shellescape.Quote(p.Target.String())
		s.Group("Install Rust target",
			fmt.Sprintf("if [[ ! -d $(rustc --print target-libdir --target %s) ]]; then rustup target add %s; fi", t, t),
		)
	}
	s.Add(p.ExtraCommand)
	s.Add("maturin " + p.BuildCommand.String())
	return s
}

// DockerRunArgs returns the docker arguments that run scriptPath in image
// with workspace mounted at the same path.
func DockerRunArgs(workspace string, overrideEntrypoint bool, image, scriptPath string) []string {
	args := []string{"run", "--rm", "--workdir", workspace}
	for _, e := range ForwardedEnv {
		args = append(args, "-e", e)
	}
	args = append(args, "-v", workspace+":"+workspace)
	if overrideEntrypoint {
		args = append(args, "--entrypoint", "/bin/bash")
	}
	return append(args, image, scriptPath)
}
