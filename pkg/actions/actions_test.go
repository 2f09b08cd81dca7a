package actions

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputEnvName(t *testing.T) {
	assert.Equal(t, "INPUT_MATURIN-VERSION", InputEnvName("maturin-version"))
	assert.Equal(t, "INPUT_COMMAND", InputEnvName("command"))
	assert.Equal(t, "INPUT_EXTRA_ARGS", InputEnvName("extra args"))
}

func TestInputs_FromEnv(t *testing.T) {
	t.Setenv("INPUT_RUST-TOOLCHAIN", "  nightly \n")

	in := NewInputs()
	v, ok := in.Lookup("rust-toolchain")
	assert.True(t, ok)
	assert.Equal(t, "nightly", v)

	_, ok = in.Lookup("definitely-unset-input")
	assert.False(t, ok)
}

func TestInputs_FromMap(t *testing.T) {
	in := NewInputsFromMap(map[string]string{"manylinux": "2014", "maturin-version": " v0.12.6 "})
	assert.Equal(t, "2014", in.Get("manylinux"))
	assert.Equal(t, "v0.12.6", in.Get("maturin-version"))
	assert.Equal(t, "", in.Get("target"))
}

func TestWorkspace(t *testing.T) {
	t.Setenv("GITHUB_WORKSPACE", "/home/runner/work/proj")
	ws, err := Workspace()
	require.NoError(t, err)
	assert.Equal(t, "/home/runner/work/proj", ws)

	t.Setenv("GITHUB_WORKSPACE", "")
	ws, err = Workspace()
	require.NoError(t, err)
	cwd, _ := os.Getwd()
	assert.Equal(t, cwd, ws)
}

func TestAddPath(t *testing.T) {
	file := filepath.Join(t.TempDir(), "path.txt")
	t.Setenv("GITHUB_PATH", file)

	AddPath("/opt/maturin")
	AddPath("/opt/python/bin")

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "/opt/maturin\n/opt/python/bin\n", string(data))
}

func TestAddPath_NoFile(t *testing.T) {
	t.Setenv("GITHUB_PATH", "")
	AddPath("/opt/maturin")
}

func TestWorkflow(t *testing.T) {
	var buf bytes.Buffer
	wf := NewWorkflow(&buf)

	wf.Group("Install Rust")
	wf.Warning("100% done\nnext")
	wf.Error("maturin: returned 2")
	wf.EndGroup()

	want := "::group::Install Rust\n" +
		"::warning::100%25 done%0Anext\n" +
		"::error::maturin: returned 2\n" +
		"::endgroup::\n"
	assert.Equal(t, want, buf.String())
}

func TestIsRunning(t *testing.T) {
	t.Setenv("GITHUB_ACTIONS", "true")
	assert.True(t, IsRunning())
	t.Setenv("GITHUB_ACTIONS", "")
	assert.False(t, IsRunning())
}
