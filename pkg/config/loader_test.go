package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridctl/maturinctl/pkg/actions"
)

func TestLoadFile_YAML(t *testing.T) {
	content := `
command: publish
args: --release --skip-existing
target: aarch64
manylinux: "2014"
rust-toolchain: nightly
`
	path := writeTempFile(t, "maturinctl.yaml", content)

	in, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "publish", in.Command)
	assert.Equal(t, "--release --skip-existing", in.Args)
	assert.Equal(t, "aarch64", in.Target)
	assert.Equal(t, "2014", in.Manylinux)
	assert.Equal(t, "nightly", in.RustToolchain)
	assert.Empty(t, in.MaturinVersion)
}

func TestLoadFile_EmptyYAML(t *testing.T) {
	path := writeTempFile(t, "empty.yaml", "")

	in, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Inputs{}, *in)
}

func TestLoadFile_JSONWithComments(t *testing.T) {
	content := `{
  // pinned for reproducible wheels
  "maturin-version": "v0.12.6",
  "container": "ghcr.io/example/builder:1",
}`
	path := writeTempFile(t, "maturinctl.jsonc", content)

	in, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "v0.12.6", in.MaturinVersion)
	assert.Equal(t, "ghcr.io/example/builder:1", in.Container)
}

func TestLoadFile_UnknownField(t *testing.T) {
	_, err := LoadFile(writeTempFile(t, "bad.yaml", "comand: build\n"))
	assert.Error(t, err)

	_, err = LoadFile(writeTempFile(t, "bad.json", `{"comand": "build"}`))
	assert.Error(t, err)
}

func TestLoadFile_InvalidYAML(t *testing.T) {
	_, err := LoadFile(writeTempFile(t, "bad.yaml", "command: [unclosed\n"))
	assert.Error(t, err)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadFile_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_TOOLCHAIN", "1.70.0")
	t.Setenv("TEST_OUT", "dist")

	content := `
rust-toolchain: ${TEST_TOOLCHAIN}
args: --out $TEST_OUT
extra-build-command: echo $TEST_OUT
`
	in, err := LoadFile(writeTempFile(t, "maturinctl.yaml", content))
	require.NoError(t, err)

	assert.Equal(t, "1.70.0", in.RustToolchain)
	assert.Equal(t, "--out dist", in.Args)
	assert.Equal(t, "echo $TEST_OUT", in.ExtraBuildCommand, "extra build command is passed to the shell untouched")
}

func TestResolve_Defaults(t *testing.T) {
	in, err := Resolve()
	require.NoError(t, err)
	assert.Equal(t, DefaultCommand, in.Command)
	assert.Equal(t, DefaultMaturinVersion, in.MaturinVersion)
}

func TestResolve_Precedence(t *testing.T) {
	flags := MapSource{Target: "x86_64"}
	env := actions.NewInputsFromMap(map[string]string{
		"target":    "aarch64",
		"manylinux": "2_24",
		"command":   "",
	})
	file := &Inputs{Command: "publish", Manylinux: "2010", Args: "--release"}

	in, err := Resolve(flags, env, file)
	require.NoError(t, err)

	assert.Equal(t, "x86_64", in.Target, "flags win over env")
	assert.Equal(t, "2_24", in.Manylinux, "env wins over file")
	assert.Equal(t, "publish", in.Command, "empty env input falls through to file")
	assert.Equal(t, "--release", in.Args)
	assert.Equal(t, "latest", in.MaturinVersion)
}

func TestResolve_NilSources(t *testing.T) {
	var file *Inputs
	in, err := Resolve(nil, file)
	require.NoError(t, err)
	assert.Equal(t, "build", in.Command)
}

func TestResolve_Invalid(t *testing.T) {
	_, err := Resolve(MapSource{Manylinux: "manylinux_bogus"})
	require.Error(t, err)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, Manylinux, verrs[0].Field)
}

func TestInputs_SetUnknown(t *testing.T) {
	var in Inputs
	assert.Error(t, in.Set("python", "3.9"))
	assert.NoError(t, in.Set(Container, "off"))
	assert.Equal(t, "off", in.Get(Container))
}

func TestMapSource_Keys(t *testing.T) {
	m := MapSource{Target: "x64", Command: "build"}
	assert.Equal(t, []string{Command, Target}, m.Keys())
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}
