package docker

import (
	"context"
	"io"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/image"

	"github.com/gridctl/maturinctl/pkg/dockerclient"
)

// MockDockerClient is a mock implementation of DockerClient for testing.
type MockDockerClient struct {
	// PullStream is returned by ImagePull. Defaults to a single "Pull complete" message.
	PullStream string

	// OSType is reported by Ping.
	OSType string

	// Error injection per method
	PingError      error
	ImagePullError error

	// Call tracking
	Calls []string

	// Pulled images
	PulledImages []string
}

func (m *MockDockerClient) recordCall(name string) {
	m.Calls = append(m.Calls, name)
}

func (m *MockDockerClient) ImagePull(ctx context.Context, ref string, options image.PullOptions) (io.ReadCloser, error) {
	m.recordCall("ImagePull")
	if m.ImagePullError != nil {
		return nil, m.ImagePullError
	}
	m.PulledImages = append(m.PulledImages, ref)
	stream := m.PullStream
	if stream == "" {
		stream = `{"status":"Pull complete","id":"a1b2c3"}`
	}
	return io.NopCloser(strings.NewReader(stream)), nil
}

func (m *MockDockerClient) Ping(ctx context.Context) (types.Ping, error) {
	m.recordCall("Ping")
	return types.Ping{OSType: m.OSType}, m.PingError
}

func (m *MockDockerClient) Close() error {
	m.recordCall("Close")
	return nil
}

// Ensure MockDockerClient implements DockerClient
var _ dockerclient.DockerClient = &MockDockerClient{}
