// Package version resolves the maturin release tag to install.
package version

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/cenkalti/backoff/v5"

	"github.com/gridctl/maturinctl/pkg/logging"
)

const (
	// Latest requests the most recent release.
	Latest = "latest"

	// FallbackTag is used when the latest release cannot be determined.
	FallbackTag = "v0.11.5"

	// LatestReleaseURL is the releases API endpoint for the latest release.
	LatestReleaseURL = "https://api.github.com/repos/PyO3/maturin/releases/latest"

	// DefaultMaxTries bounds the release lookup attempts.
	DefaultMaxTries = 10
)

// Warner receives user-facing warnings.
type Warner interface {
	Warn(msg string, keyvals ...any)
}

// Resolver turns a requested version into a concrete release tag.
type Resolver struct {
	Client   *http.Client
	Endpoint string
	Token    string
	MaxTries uint
	// BackOff overrides the retry schedule. Nil means exponential.
	BackOff backoff.BackOff

	warner Warner
	logger *slog.Logger
}

// New creates a Resolver for the public releases API.
func New(w Warner) *Resolver {
	return &Resolver{
		Client:   &http.Client{Timeout: 30 * time.Second},
		Endpoint: LatestReleaseURL,
		MaxTries: DefaultMaxTries,
		warner:   w,
		logger:   logging.NewDiscardLogger(),
	}
}

// SetLogger sets the logger for diagnostic output.
func (r *Resolver) SetLogger(logger *slog.Logger) {
	if logger != nil {
		r.logger = logger
	}
}

// Resolve returns the tag for requested. It never fails: an unreachable
// releases API yields FallbackTag.
func (r *Resolver) Resolve(ctx context.Context, requested string) string {
	if requested == Latest {
		tag, err := r.latest(ctx)
		if err != nil {
			r.warn(fmt.Sprintf("Failed to get latest maturin release, falling back to %s: %v", FallbackTag, err))
			return FallbackTag
		}
		r.logger.Debug("resolved latest release", "tag", tag)
		return tag
	}

	tag := requested
	if !strings.HasPrefix(tag, "v") {
		tag = "v" + requested
		r.warn(fmt.Sprintf("Corrected 'maturin-version' from '%s' to '%s'", requested, tag))
	}
	if _, err := semver.NewVersion(tag); err != nil {
		r.logger.Debug("maturin-version is not a semantic version", "tag", tag, "error", err)
	}
	return tag
}

type release struct {
	TagName string `json:"tag_name"`
}

func (r *Resolver) latest(ctx context.Context) (string, error) {
	var bo backoff.BackOff = backoff.NewExponentialBackOff()
	if r.BackOff != nil {
		bo = r.BackOff
	}
	tries := r.MaxTries
	if tries == 0 {
		tries = DefaultMaxTries
	}

	attempt := 0
	rel, err := backoff.Retry(ctx, func() (release, error) {
		attempt++
		return r.fetch(ctx)
	},
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(tries),
		backoff.WithNotify(func(err error, next time.Duration) {
			r.logger.Debug("release lookup failed, retrying", "attempt", attempt, "next", next, "error", err)
		}),
	)
	if err != nil {
		return "", err
	}

	if rel.TagName == "" {
		return "", fmt.Errorf("release has no tag_name")
	}
	if _, err := semver.NewVersion(rel.TagName); err != nil {
		return "", fmt.Errorf("release tag %q: %w", rel.TagName, err)
	}
	return rel.TagName, nil
}

// fetch performs one GET. Transport errors, 5xx and 429 are retried;
// everything else is permanent.
func (r *Resolver) fetch(ctx context.Context) (release, error) {
	var rel release

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.Endpoint, nil)
	if err != nil {
		return rel, backoff.Permanent(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "maturinctl")
	if r.Token != "" {
		req.Header.Set("Authorization", "Bearer "+r.Token)
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return rel, backoff.Permanent(ctx.Err())
		}
		return rel, fmt.Errorf("requesting %s: %w", r.Endpoint, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests:
		if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
			return rel, backoff.RetryAfter(secs)
		}
		return rel, fmt.Errorf("releases API: %s", resp.Status)
	case resp.StatusCode >= 500:
		return rel, fmt.Errorf("releases API: %s", resp.Status)
	default:
		return rel, backoff.Permanent(fmt.Errorf("releases API: %s", resp.Status))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return rel, fmt.Errorf("reading response: %w", err)
	}
	if err := json.Unmarshal(body, &rel); err != nil {
		return rel, backoff.Permanent(fmt.Errorf("decoding release: %w", err))
	}
	return rel, nil
}

func (r *Resolver) warn(msg string) {
	if r.warner != nil {
		r.warner.Warn(msg)
		return
	}
	r.logger.Warn(msg)
}

// Matches reports whether the output of `maturin --version` (for example
// "maturin 0.12.6") names the same version as tag.
func Matches(tag, versionOutput string) bool {
	want, err := semver.NewVersion(tag)
	if err != nil {
		return false
	}
	fields := strings.Fields(versionOutput)
	if len(fields) == 0 {
		return false
	}
	got, err := semver.NewVersion(fields[len(fields)-1])
	if err != nil {
		return false
	}
	return want.Equal(got)
}
