// Package environ provides a copy-on-write view of the process environment.
//
// An Env is seeded once from os.Environ and never writes back to the process.
// Installers append to its PATH; the dispatcher layers build-specific
// variables on top before handing the list to a child process.
package environ

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// Env is an ordered set of environment variables.
type Env struct {
	keys   []string
	values map[string]string
}

// FromOS copies the current process environment.
func FromOS() *Env {
	return FromList(os.Environ())
}

// FromList builds an Env from KEY=VALUE entries. Later duplicates win.
func FromList(list []string) *Env {
	e := &Env{values: make(map[string]string, len(list))}
	for _, kv := range list {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		e.Set(k, v)
	}
	return e
}

// Get returns the value of key.
func (e *Env) Get(key string) string {
	return e.values[e.canonical(key)]
}

// Lookup returns the value of key and whether it is set.
func (e *Env) Lookup(key string) (string, bool) {
	v, ok := e.values[e.canonical(key)]
	return v, ok
}

// Set assigns key, keeping the original insertion position for existing keys.
func (e *Env) Set(key, value string) {
	k := e.canonical(key)
	if _, ok := e.values[k]; !ok {
		e.keys = append(e.keys, k)
	}
	e.values[k] = value
}

// Clone returns an independent copy.
func (e *Env) Clone() *Env {
	c := &Env{
		keys:   append([]string(nil), e.keys...),
		values: make(map[string]string, len(e.values)),
	}
	for k, v := range e.values {
		c.values[k] = v
	}
	return c
}

// With returns a copy of e with overrides applied. e is unchanged.
func (e *Env) With(overrides map[string]string) *Env {
	c := e.Clone()
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		c.Set(k, overrides[k])
	}
	return c
}

// AddPath prepends dir to PATH unless it is already present.
func (e *Env) AddPath(dir string) {
	for _, p := range e.PathList() {
		if p == dir {
			return
		}
	}
	cur := e.Get("PATH")
	if cur == "" {
		e.Set("PATH", dir)
		return
	}
	e.Set("PATH", dir+string(os.PathListSeparator)+cur)
}

// PathList returns the PATH entries in order.
func (e *Env) PathList() []string {
	return filepath.SplitList(e.Get("PATH"))
}

// LookPath searches PATH for an executable named file and returns its path.
func (e *Env) LookPath(file string) (string, bool) {
	names := []string{file}
	if runtime.GOOS == "windows" && filepath.Ext(file) == "" {
		names = []string{file + ".exe", file + ".cmd", file + ".bat"}
	}
	for _, dir := range e.PathList() {
		if dir == "" {
			dir = "."
		}
		for _, name := range names {
			path := filepath.Join(dir, name)
			if isExecutable(path) {
				return path, true
			}
		}
	}
	return "", false
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode()&0o111 != 0
}

// List renders the environment as KEY=VALUE entries in insertion order.
func (e *Env) List() []string {
	out := make([]string, 0, len(e.keys))
	for _, k := range e.keys {
		out = append(out, k+"="+e.values[k])
	}
	return out
}

// canonical maps key onto an existing entry. Windows variable names are
// case-insensitive, so "Path" and "PATH" must resolve to the same entry.
func (e *Env) canonical(key string) string {
	if runtime.GOOS != "windows" {
		return key
	}
	for _, k := range e.keys {
		if strings.EqualFold(k, key) {
			return k
		}
	}
	return key
}
