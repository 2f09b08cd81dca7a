// Package dockerclient defines the subset of the Docker Engine API client
// that maturinctl uses, so it can be replaced in tests.
package dockerclient

import (
	"context"
	"io"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
)

// DockerClient is implemented by *client.Client.
type DockerClient interface {
	Ping(ctx context.Context) (types.Ping, error)
	ImagePull(ctx context.Context, ref string, options image.PullOptions) (io.ReadCloser, error)
	Close() error
}

var _ DockerClient = (*client.Client)(nil)
