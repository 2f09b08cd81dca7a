package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gridctl/maturinctl/pkg/container"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return "validation errors:\n  - " + strings.Join(msgs, "\n  - ")
}

var (
	// Aliases ("x64") and triples ("aarch64-unknown-linux-gnu") share this shape.
	targetPattern = regexp.MustCompile(`^[A-Za-z0-9_.]+(-[A-Za-z0-9_.]+)*$`)
	tierPattern   = regexp.MustCompile(`^(auto|off|[0-9]+(_[0-9]+)?|musllinux_[0-9]+_[0-9]+)$`)
)

// Validate checks resolved inputs for errors.
func Validate(in *Inputs) error {
	var errs ValidationErrors

	if in.Command == "" {
		errs = append(errs, ValidationError{Command, "is required"})
	} else if strings.ContainsAny(in.Command, " \t\n") {
		errs = append(errs, ValidationError{Command, fmt.Sprintf("must be a single word, got '%s'", in.Command)})
	}

	if in.Target != "" && !targetPattern.MatchString(in.Target) {
		errs = append(errs, ValidationError{Target, fmt.Sprintf("invalid target '%s'", in.Target)})
	}

	if in.Manylinux != "" {
		tier := string(container.NormalizeTier(in.Manylinux))
		if !tierPattern.MatchString(tier) {
			errs = append(errs, ValidationError{Manylinux, fmt.Sprintf("unknown compatibility tier '%s'", in.Manylinux)})
		}
	}

	if strings.ContainsAny(in.Container, " \t\n") {
		errs = append(errs, ValidationError{Container, "must not contain whitespace"})
	}
	if strings.ContainsAny(in.RustToolchain, " \t\n") {
		errs = append(errs, ValidationError{RustToolchain, "must not contain whitespace"})
	}
	if strings.ContainsAny(in.MaturinVersion, " \t\n") {
		errs = append(errs, ValidationError{MaturinVersion, "must not contain whitespace"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
