// Package installer provisions the maturin executable and Rust targets.
package installer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/gridctl/maturinctl/pkg/actions"
	"github.com/gridctl/maturinctl/pkg/environ"
	"github.com/gridctl/maturinctl/pkg/fetch"
	"github.com/gridctl/maturinctl/pkg/logging"
	"github.com/gridctl/maturinctl/pkg/target"
)

// ToolName is the executable the installer provides.
const ToolName = "maturin"

// ReleaseDownloadURL is the base URL of the release assets.
const ReleaseDownloadURL = "https://github.com/PyO3/maturin/releases/download"

// Reporter receives user-facing progress lines.
type Reporter interface {
	Info(msg string, keyvals ...any)
}

type nopReporter struct{}

func (nopReporter) Info(string, ...any) {}

// AssetName returns the release asset for a host OS and architecture.
func AssetName(goos, goarch string) string {
	arch := target.AssetArch(goarch)
	switch goos {
	case "windows":
		return "maturin-" + arch + "-pc-windows-msvc.zip"
	case "darwin":
		return "maturin-" + arch + "-apple-darwin.tar.gz"
	default:
		return "maturin-" + arch + "-unknown-linux-musl.tar.gz"
	}
}

// DownloadURL returns the asset URL for tag under base.
func DownloadURL(base, tag, goos, goarch string) string {
	return base + "/" + tag + "/" + AssetName(goos, goarch)
}

// DefaultCacheDir is where downloaded tools are kept between runs.
func DefaultCacheDir() string {
	return filepath.Join(xdg.CacheHome, "maturinctl", "tools")
}

// ToolInstaller discovers or downloads maturin.
type ToolInstaller struct {
	env      *environ.Env
	fetcher  fetch.Fetcher
	goos     string
	goarch   string
	baseURL  string
	cacheDir string
	addPath  func(string)
	reporter Reporter
	logger   *slog.Logger
}

// NewToolInstaller creates a ToolInstaller for the given host. Directories
// it installs are added to env and to the runner's GITHUB_PATH file.
func NewToolInstaller(env *environ.Env, f fetch.Fetcher, goos, goarch string) *ToolInstaller {
	return &ToolInstaller{
		env:      env,
		fetcher:  f,
		goos:     goos,
		goarch:   goarch,
		baseURL:  ReleaseDownloadURL,
		cacheDir: DefaultCacheDir(),
		addPath:  actions.AddPath,
		reporter: nopReporter{},
		logger:   logging.NewDiscardLogger(),
	}
}

// SetBaseURL overrides the release download base URL.
func (t *ToolInstaller) SetBaseURL(u string) { t.baseURL = u }

// SetCacheDir overrides the tool cache root.
func (t *ToolInstaller) SetCacheDir(dir string) { t.cacheDir = dir }

// SetReporter sets the sink for user-facing messages.
func (t *ToolInstaller) SetReporter(r Reporter) {
	if r != nil {
		t.reporter = r
	}
}

// SetLogger sets the logger for diagnostic output.
func (t *ToolInstaller) SetLogger(logger *slog.Logger) {
	if logger != nil {
		t.logger = logger
	}
}

func (t *ToolInstaller) exeName() string {
	if t.goos == "windows" {
		return ToolName + ".exe"
	}
	return ToolName
}

// Ensure returns the path of a usable maturin, downloading tag when none is
// on the search path.
func (t *ToolInstaller) Ensure(ctx context.Context, tag string) (string, error) {
	if exe, ok := t.env.LookPath(ToolName); ok {
		t.reporter.Info(fmt.Sprintf("Found '%s' at %s", ToolName, exe))
		return exe, nil
	}

	dir := filepath.Join(t.cacheDir, tag, target.AssetArch(t.goarch))
	exe := filepath.Join(dir, t.exeName())

	if info, err := os.Stat(exe); err == nil && !info.IsDir() {
		t.logger.Debug("using cached tool", "path", exe)
	} else {
		url := DownloadURL(t.baseURL, tag, t.goos, t.goarch)
		t.logger.Debug("downloading tool", "url", url, "dest", dir)
		if _, err := t.fetcher.Fetch(ctx, url, dir); err != nil {
			return "", fmt.Errorf("installing %s %s: %w", ToolName, tag, err)
		}
		if _, err := os.Stat(exe); err != nil {
			return "", fmt.Errorf("installing %s %s: archive has no %s", ToolName, tag, t.exeName())
		}
	}

	if t.goos != "windows" {
		if err := os.Chmod(exe, 0o755); err != nil {
			return "", fmt.Errorf("making %s executable: %w", exe, err)
		}
	}

	t.env.AddPath(dir)
	t.addPath(dir)

	t.reporter.Info(fmt.Sprintf("Installed '%s' to %s", ToolName, exe))
	return exe, nil
}
