// Package docker pulls build images through the Docker Engine API, falling
// back to the docker CLI when the daemon API is unreachable.
package docker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/docker/docker/api/types/image"

	"github.com/gridctl/maturinctl/pkg/dockerclient"
	"github.com/gridctl/maturinctl/pkg/environ"
	"github.com/gridctl/maturinctl/pkg/logging"
	"github.com/gridctl/maturinctl/pkg/runner"
)

// Puller fetches an image so it can be run.
type Puller interface {
	Pull(ctx context.Context, ref string) error
}

// APIPuller pulls through the Engine API. Images are always pulled so that
// moving tags such as ":latest" are refreshed. The API pull sends no
// registry credentials, so a failed pull is retried with the fallback puller,
// which goes through the docker CLI and its login state.
type APIPuller struct {
	cli      dockerclient.DockerClient
	out      io.Writer
	logger   *slog.Logger
	fallback Puller
}

// NewAPIPuller creates an APIPuller reporting layer progress to out.
func NewAPIPuller(cli dockerclient.DockerClient, out io.Writer) *APIPuller {
	if out == nil {
		out = io.Discard
	}
	return &APIPuller{cli: cli, out: out, logger: logging.NewDiscardLogger()}
}

// SetLogger sets the logger for diagnostic output.
func (p *APIPuller) SetLogger(logger *slog.Logger) {
	if logger != nil {
		p.logger = logger
	}
}

// SetFallback sets the puller used when the API pull fails.
func (p *APIPuller) SetFallback(fallback Puller) {
	p.fallback = fallback
}

// Pull implements Puller.
func (p *APIPuller) Pull(ctx context.Context, ref string) error {
	p.logger.Debug("pulling image", "image", ref)

	err := p.pull(ctx, ref)
	if err == nil || p.fallback == nil || ctx.Err() != nil {
		return err
	}
	p.logger.Debug("API pull failed, retrying with docker CLI", "image", ref, "error", err)
	return p.fallback.Pull(ctx, ref)
}

func (p *APIPuller) pull(ctx context.Context, ref string) error {
	reader, err := p.cli.ImagePull(ctx, ref, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("pulling image %s: %w", ref, err)
	}
	defer reader.Close()

	if err := streamPullProgress(reader, p.out); err != nil {
		return fmt.Errorf("pulling image %s: %w", ref, err)
	}
	return nil
}

// pullProgress represents a Docker pull progress message.
type pullProgress struct {
	Status         string `json:"status"`
	Progress       string `json:"progress"`
	ProgressDetail struct {
		Current int64 `json:"current"`
		Total   int64 `json:"total"`
	} `json:"progressDetail"`
	ID          string `json:"id"`
	Error       string `json:"error"`
	ErrorDetail struct {
		Message string `json:"message"`
	} `json:"errorDetail"`
}

// streamPullProgress reads the pull message stream, printing completed
// layers and the final status. An error message in the stream fails the pull.
func streamPullProgress(reader io.Reader, out io.Writer) error {
	decoder := json.NewDecoder(reader)

	for {
		var p pullProgress
		if err := decoder.Decode(&p); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("reading pull progress: %w", err)
		}

		if p.Error != "" {
			msg := p.ErrorDetail.Message
			if msg == "" {
				msg = p.Error
			}
			return errors.New(msg)
		}

		switch {
		case p.Status == "Pull complete" || p.Status == "Already exists":
			fmt.Fprintf(out, "%s: %s\n", p.ID, p.Status)
		case p.ID == "" && p.Status != "":
			// Digest and "Status: Downloaded newer image for ..." lines.
			fmt.Fprintln(out, p.Status)
		}
	}

	return nil
}

// CLIPuller pulls with `docker pull`.
type CLIPuller struct {
	runner runner.Runner
	env    *environ.Env
}

// NewCLIPuller creates a CLIPuller running docker with env.
func NewCLIPuller(r runner.Runner, env *environ.Env) *CLIPuller {
	return &CLIPuller{runner: r, env: env}
}

// Pull implements Puller.
func (p *CLIPuller) Pull(ctx context.Context, ref string) error {
	res, err := p.runner.Run(ctx, runner.Command{
		Name: "docker",
		Args: []string{"pull", ref},
		Env:  p.env.List(),
	})
	if err != nil {
		return fmt.Errorf("pulling image %s: %w", ref, err)
	}
	if !res.Success() {
		return fmt.Errorf("maturin: 'docker pull' returned %d", res.ExitCode)
	}
	return nil
}

// NewPuller returns an APIPuller backed by a CLIPuller when the daemon answers
// a ping and a bare CLIPuller otherwise. The returned close function releases
// the API client.
func NewPuller(ctx context.Context, r runner.Runner, env *environ.Env, out io.Writer, logger *slog.Logger) (Puller, func() error) {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	noop := func() error { return nil }

	cli, err := Connect(ctx)
	if err != nil {
		logger.Debug("docker API unavailable, using CLI", "error", err)
		return NewCLIPuller(r, env), noop
	}

	p := NewAPIPuller(cli, out)
	p.SetLogger(logger)
	p.SetFallback(NewCLIPuller(r, env))
	return p, cli.Close
}
