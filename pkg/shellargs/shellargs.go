// Package shellargs splits and joins shell-style argument strings.
package shellargs

import (
	"fmt"
	"strings"

	"github.com/alessio/shellescape"
	"github.com/mattn/go-shellwords"
)

// Tokenize splits raw into words using POSIX shell quoting rules.
//
// Environment variables and backticks are left untouched. Shell operators
// (; & | < > and parentheses) have no meaning in an argument string and are
// kept as literal characters of the word they appear in. An empty or
// all-blank input yields an empty slice.
//
// Examples:
//
//	Tokenize(`--release --out dist`)      => ["--release", "--out", "dist"]
//	Tokenize(`-i "python 3.9" 'a b'`)     => ["-i", "python 3.9", "a b"]
//	Tokenize(`--features a\ b`)           => ["--features", "a b"]
//	Tokenize(`-m a&b`)                    => ["-m", "a&b"]
func Tokenize(raw string) ([]string, error) {
	p := shellwords.NewParser()
	p.ParseEnv = false
	p.ParseBacktick = false

	words, err := p.Parse(escapeOperators(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing arguments %q: %w", raw, err)
	}
	if words == nil {
		words = []string{}
	}
	return words, nil
}

// escapeOperators backslash-escapes every operator character outside quotes,
// so the parser treats it as part of the current word instead of stopping.
func escapeOperators(raw string) string {
	var b strings.Builder
	var escaped, single, double bool
	for _, r := range raw {
		switch {
		case escaped:
			escaped = false
		case r == '\\' && !single:
			escaped = true
		case r == '\'' && !double:
			single = !single
		case r == '"' && !single:
			double = !double
		case !single && !double && strings.ContainsRune(";&|<>()", r):
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Join renders args as a single shell command line, quoting words that need it.
func Join(args []string) string {
	return shellescape.QuoteCommand(args)
}
