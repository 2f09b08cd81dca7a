package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"
)

// LoadFile reads a config file. Files ending in .json or .jsonc are parsed
// as JSON with comments and trailing commas; everything else as YAML.
func LoadFile(path string) (*Inputs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var in Inputs
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		std, err := hujson.Standardize(data)
		if err != nil {
			return nil, fmt.Errorf("parsing config JSON: %w", err)
		}
		dec := json.NewDecoder(bytes.NewReader(std))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&in); err != nil {
			return nil, fmt.Errorf("parsing config JSON: %w", err)
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&in); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing config YAML: %w", err)
		}
	}

	expandEnvVars(&in)
	return &in, nil
}

// expandEnvVars expands environment variables in file values. The extra
// build command is left alone since it runs through a shell later.
func expandEnvVars(in *Inputs) {
	for name, f := range in.fields() {
		if name == ExtraBuildCommand {
			continue
		}
		*f = os.ExpandEnv(*f)
	}
}

// Resolve merges sources in priority order (first wins), applies defaults
// and validates the result. Nil sources are skipped.
func Resolve(sources ...Source) (*Inputs, error) {
	var in Inputs
	for _, name := range Names {
		for _, src := range sources {
			if src == nil {
				continue
			}
			if v, ok := src.Lookup(name); ok && v != "" {
				_ = in.Set(name, v)
				break
			}
		}
	}

	in.SetDefaults()

	if err := Validate(&in); err != nil {
		return nil, err
	}
	return &in, nil
}
