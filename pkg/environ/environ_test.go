package environ

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromList(t *testing.T) {
	e := FromList([]string{"A=1", "B=two=2", "bogus", "=x", "A=3"})

	assert.Equal(t, "3", e.Get("A"))
	assert.Equal(t, "two=2", e.Get("B"))
	assert.Equal(t, []string{"A=3", "B=two=2"}, e.List())
}

func TestWith_DoesNotMutateOriginal(t *testing.T) {
	base := FromList([]string{"A=1"})
	derived := base.With(map[string]string{"A": "2", "SDKROOT": "/sdk"})

	assert.Equal(t, "1", base.Get("A"))
	_, ok := base.Lookup("SDKROOT")
	assert.False(t, ok)

	assert.Equal(t, "2", derived.Get("A"))
	assert.Equal(t, "/sdk", derived.Get("SDKROOT"))
	assert.Equal(t, []string{"A=2", "SDKROOT=/sdk"}, derived.List())
}

func TestFromOS_DoesNotWriteBack(t *testing.T) {
	t.Setenv("MATURINCTL_ENV_TEST", "before")
	e := FromOS()
	e.Set("MATURINCTL_ENV_TEST", "after")

	assert.Equal(t, "before", os.Getenv("MATURINCTL_ENV_TEST"))
	assert.Equal(t, "after", e.Get("MATURINCTL_ENV_TEST"))
}

func TestAddPath(t *testing.T) {
	sep := string(os.PathListSeparator)
	e := FromList([]string{"PATH=/usr/bin"})

	e.AddPath("/opt/tool")
	e.AddPath("/opt/tool")

	assert.Equal(t, "/opt/tool"+sep+"/usr/bin", e.Get("PATH"))
	assert.Equal(t, []string{"/opt/tool", "/usr/bin"}, e.PathList())
}

func TestAddPath_Empty(t *testing.T) {
	e := FromList(nil)
	e.AddPath("/opt/tool")
	assert.Equal(t, "/opt/tool", e.Get("PATH"))
}

func TestLookPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("executable bit semantics differ on windows")
	}
	dir := t.TempDir()
	exe := filepath.Join(dir, "maturin")
	require.NoError(t, os.WriteFile(exe, []byte("#!/bin/sh\n"), 0o755))
	plain := filepath.Join(dir, "notexec")
	require.NoError(t, os.WriteFile(plain, []byte("x"), 0o644))

	e := FromList([]string{"PATH=/nonexistent"})
	_, ok := e.LookPath("maturin")
	assert.False(t, ok)

	e.AddPath(dir)
	got, ok := e.LookPath("maturin")
	require.True(t, ok)
	assert.Equal(t, exe, got)

	_, ok = e.LookPath("notexec")
	assert.False(t, ok)
}
