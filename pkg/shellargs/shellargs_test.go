package shellargs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", []string{}},
		{"blank", "   ", []string{}},
		{"simple", "--release --out dist", []string{"--release", "--out", "dist"}},
		{"double quotes", `-i "python 3.9"`, []string{"-i", "python 3.9"}},
		{"single quotes", `--features 'a b'`, []string{"--features", "a b"}},
		{"escaped space", `--features a\ b`, []string{"--features", "a b"}},
		{"extra whitespace", "  -m   Cargo.toml ", []string{"-m", "Cargo.toml"}},
		{"ampersand in path", "-m a&b", []string{"-m", "a&b"}},
		{"pipe in value", "--cargo-extra-args=--features=a|b", []string{"--cargo-extra-args=--features=a|b"}},
		{"semicolon", "--out dist;x", []string{"--out", "dist;x"}},
		{"redirects", "-i py>3 <in", []string{"-i", "py>3", "<in"}},
		{"parentheses", "--features (a)", []string{"--features", "(a)"}},
		{"quoted operator", `--out "a;b" 'c|d'`, []string{"--out", "a;b", "c|d"}},
		{"escaped operator", `-m a\&b`, []string{"-m", "a&b"}},
		{"escaped quote then operator", `-m a\'&b`, []string{"-m", "a'&b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tokenize(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenize_UnclosedQuote(t *testing.T) {
	_, err := Tokenize(`--features "a b`)
	assert.Error(t, err)
}

func TestTokenize_JoinRoundTrip(t *testing.T) {
	words, err := Tokenize("-m a&b --cargo-extra-args=--features=a|b")
	require.NoError(t, err)

	again, err := Tokenize(Join(words))
	require.NoError(t, err)
	assert.Equal(t, words, again)
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "build --release", Join([]string{"build", "--release"}))
	assert.Equal(t, "build -m 'a&b'", Join([]string{"build", "-m", "a&b"}))
	assert.Equal(t, "build -i 'python 3.9'", Join([]string{"build", "-i", "python 3.9"}))
	assert.Equal(t, "", Join(nil))
}
