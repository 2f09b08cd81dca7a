package docker

import (
	"context"
	"fmt"

	"github.com/docker/docker/client"

	"github.com/gridctl/maturinctl/pkg/dockerclient"
)

// Connect opens a client configured from DOCKER_HOST and friends and checks
// that the daemon answers and runs Linux containers.
func Connect(ctx context.Context) (dockerclient.DockerClient, error) {
	cli, err := client.NewClientWithOpts(
		client.FromEnv,
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, fmt.Errorf("creating docker client: %w", err)
	}
	if err := Ping(ctx, cli); err != nil {
		_ = cli.Close()
		return nil, err
	}
	return cli, nil
}

// Ping checks that the daemon is reachable. Build images are Linux-only, so
// a daemon reporting another OS type is rejected.
func Ping(ctx context.Context, cli dockerclient.DockerClient) error {
	ping, err := cli.Ping(ctx)
	if err != nil {
		return fmt.Errorf("docker daemon not accessible: %w", err)
	}
	if ping.OSType != "" && ping.OSType != "linux" {
		return fmt.Errorf("docker daemon runs %s containers", ping.OSType)
	}
	return nil
}
