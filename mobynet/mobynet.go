// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

/*
Package mobynet locates the network namespaces of Docker containers, so that
subdomains can be enumerated from the perspective of a container, using the
container's DNS configuration and network attachments.
*/
package mobynet

import (
	"context"
	"fmt"

	"github.com/docker/docker/client"
)

// DefaultHost is the default Docker engine API endpoint.
const DefaultHost = "unix:///var/run/docker.sock"

// NewClient returns a new Docker client for the Docker engine API at the
// specified host address, negotiating the API version.
func NewClient(host string) (*client.Client, error) {
	if host == "" {
		host = DefaultHost
	}
	cln, err := client.NewClientWithOpts(
		client.WithHost(host),
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to the Docker daemon: %w", err)
	}
	return cln, nil
}

// NetworkNamespace returns the filesystem path referencing the network
// namespace of the container identified by name or ID. The container must be
// running.
func NetworkNamespace(ctx context.Context, moby client.ContainerAPIClient, nameOrID string) (string, error) {
	details, err := moby.ContainerInspect(ctx, nameOrID)
	if err != nil {
		return "", fmt.Errorf("cannot inspect container %q: %w", nameOrID, err)
	}
	if details.ContainerJSONBase == nil || details.State == nil || details.State.Pid == 0 {
		return "", fmt.Errorf("container %q is not running", nameOrID)
	}
	return fmt.Sprintf("/proc/%d/ns/net", details.State.Pid), nil
}
