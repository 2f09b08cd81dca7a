// Package actions integrates with the GitHub Actions runner: action inputs,
// workflow commands, and the GITHUB_PATH file.
package actions

import (
	"io"
	"os"
	"strings"

	"github.com/sethvargo/go-githubactions"
)

// IsRunning reports whether the process runs inside a GitHub Actions job.
func IsRunning() bool {
	return os.Getenv("GITHUB_ACTIONS") == "true"
}

// InputEnvName returns the environment variable the runner uses for an input:
// "maturin-version" becomes "INPUT_MATURIN-VERSION".
func InputEnvName(name string) string {
	return "INPUT_" + strings.ToUpper(strings.ReplaceAll(name, " ", "_"))
}

// Inputs reads action inputs through the runner toolkit.
type Inputs struct {
	action *githubactions.Action
}

// NewInputs reads inputs from the process environment.
func NewInputs() *Inputs {
	return &Inputs{action: githubactions.New()}
}

// NewInputsFromMap reads inputs from a fixed map keyed by input name.
func NewInputsFromMap(m map[string]string) *Inputs {
	env := make(map[string]string, len(m))
	for name, v := range m {
		env[InputEnvName(name)] = v
	}
	getenv := func(key string) string { return env[key] }
	return &Inputs{action: githubactions.New(githubactions.WithGetenv(getenv))}
}

// Lookup returns the trimmed input value. The runner sets every declared
// input, so an empty value counts as unset.
func (in *Inputs) Lookup(name string) (string, bool) {
	v := in.action.GetInput(name)
	return v, v != ""
}

// Get returns the trimmed input value, or "" when unset.
func (in *Inputs) Get(name string) string {
	return in.action.GetInput(name)
}

// Workspace returns GITHUB_WORKSPACE, or the current directory outside Actions.
func Workspace() (string, error) {
	if ws := githubactions.New().Getenv("GITHUB_WORKSPACE"); ws != "" {
		return ws, nil
	}
	return os.Getwd()
}

// AddPath appends dir to the GITHUB_PATH file so later steps see it.
// It is a no-op when GITHUB_PATH is not set.
func AddPath(dir string) {
	a := githubactions.New(githubactions.WithWriter(io.Discard))
	if a.Getenv("GITHUB_PATH") == "" {
		return
	}
	a.AddPath(dir)
}

// Workflow emits workflow commands such as "::group::" to w.
type Workflow struct {
	action *githubactions.Action
}

// NewWorkflow creates a Workflow writing commands to w.
func NewWorkflow(w io.Writer) *Workflow {
	return &Workflow{action: githubactions.New(githubactions.WithWriter(w))}
}

// Group opens a collapsible log group.
func (wf *Workflow) Group(title string) { wf.action.Group(title) }

// EndGroup closes the current log group.
func (wf *Workflow) EndGroup() { wf.action.EndGroup() }

// Warning annotates the job with a warning.
func (wf *Workflow) Warning(msg string) { wf.action.Warningf("%s", msg) }

// Error annotates the job with an error.
func (wf *Workflow) Error(msg string) { wf.action.Errorf("%s", msg) }
