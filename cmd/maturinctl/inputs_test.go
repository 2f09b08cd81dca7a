package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridctl/maturinctl/pkg/config"
	"github.com/gridctl/maturinctl/pkg/container"
)

func TestInputFlags_OnlyChanged(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	flags := addInputFlags(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--target", "aarch64", "--manylinux=2014"}))

	src := flags.source(cmd)
	assert.Equal(t, []string{config.Manylinux, config.Target}, src.Keys())
	assert.Equal(t, "aarch64", src[config.Target])
}

func TestInputFlags_FlagsBeatEnvironment(t *testing.T) {
	t.Setenv("INPUT_TARGET", "x64")
	t.Setenv("INPUT_COMMAND", "publish")

	cmd := &cobra.Command{Use: "test"}
	flags := addInputFlags(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--target", "aarch64"}))

	in, err := loadInputs(cmd, flags)
	require.NoError(t, err)
	assert.Equal(t, "aarch64", in.Target)
	assert.Equal(t, "publish", in.Command)
	assert.Equal(t, config.DefaultMaturinVersion, in.MaturinVersion)
}

func TestImageRows(t *testing.T) {
	rows := imageRows([]container.Entry{
		{Target: "x86_64-unknown-linux-gnu", Tier: container.TierAuto, Image: "quay.io/pypa/manylinux2014_x86_64:latest"},
	})
	require.Len(t, rows, 1)
	assert.Equal(t, "x86_64-unknown-linux-gnu", rows[0].Target)
	assert.Equal(t, "auto", rows[0].Tier)
}
