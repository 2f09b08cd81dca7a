// Package config resolves the maturinctl inputs from flags, action inputs,
// an optional config file, and defaults.
package config

import (
	"fmt"
	"sort"
)

// Input names, as used by the action inputs and the config file.
const (
	Command           = "command"
	Args              = "args"
	Target            = "target"
	Manylinux         = "manylinux"
	Container         = "container"
	RustToolchain     = "rust-toolchain"
	MaturinVersion    = "maturin-version"
	ExtraBuildCommand = "extra-build-command"
)

// Default values applied when no source sets an input.
const (
	DefaultCommand        = "build"
	DefaultMaturinVersion = "latest"
)

// Names lists every recognized input name.
var Names = []string{
	Command,
	Args,
	Target,
	Manylinux,
	Container,
	RustToolchain,
	MaturinVersion,
	ExtraBuildCommand,
}

// Source provides named string lookups.
type Source interface {
	Lookup(name string) (string, bool)
}

// Inputs holds the resolved configuration of one invocation.
type Inputs struct {
	Command           string `yaml:"command" json:"command"`
	Args              string `yaml:"args" json:"args"`
	Target            string `yaml:"target" json:"target"`
	Manylinux         string `yaml:"manylinux" json:"manylinux"`
	Container         string `yaml:"container" json:"container"`
	RustToolchain     string `yaml:"rust-toolchain" json:"rust-toolchain"`
	MaturinVersion    string `yaml:"maturin-version" json:"maturin-version"`
	ExtraBuildCommand string `yaml:"extra-build-command" json:"extra-build-command"`
}

func (in *Inputs) fields() map[string]*string {
	return map[string]*string{
		Command:           &in.Command,
		Args:              &in.Args,
		Target:            &in.Target,
		Manylinux:         &in.Manylinux,
		Container:         &in.Container,
		RustToolchain:     &in.RustToolchain,
		MaturinVersion:    &in.MaturinVersion,
		ExtraBuildCommand: &in.ExtraBuildCommand,
	}
}

// Lookup implements Source. Empty values count as unset.
func (in *Inputs) Lookup(name string) (string, bool) {
	if in == nil {
		return "", false
	}
	f, ok := in.fields()[name]
	if !ok || *f == "" {
		return "", false
	}
	return *f, true
}

// Get returns the named input, or "" when unset.
func (in *Inputs) Get(name string) string {
	v, _ := in.Lookup(name)
	return v
}

// Set assigns the named input.
func (in *Inputs) Set(name, value string) error {
	f, ok := in.fields()[name]
	if !ok {
		return fmt.Errorf("unknown input %q", name)
	}
	*f = value
	return nil
}

// SetDefaults fills unset inputs with their defaults.
func (in *Inputs) SetDefaults() {
	if in.Command == "" {
		in.Command = DefaultCommand
	}
	if in.MaturinVersion == "" {
		in.MaturinVersion = DefaultMaturinVersion
	}
}

// MapSource is a Source backed by a map keyed by input name, e.g. the
// flags given on the command line.
type MapSource map[string]string

// Lookup implements Source. Empty values count as unset.
func (m MapSource) Lookup(name string) (string, bool) {
	v, ok := m[name]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Keys returns the set input names in sorted order.
func (m MapSource) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
