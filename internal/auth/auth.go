// Package auth resolves whether a user may operate in a virtual cluster.
package auth

import (
	"context"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Authorizer decides whether userName may submit to virtualCluster.
type Authorizer interface {
	Authorize(ctx context.Context, userName, virtualCluster string) (bool, error)
}

// StaticAuthorizer authorizes against a fixed membership table. A virtual
// cluster with an empty member list is open to every user; an unknown
// virtual cluster is closed.
type StaticAuthorizer struct {
	members map[string][]string
}

var _ Authorizer = &StaticAuthorizer{}

// NewStatic builds a StaticAuthorizer from a YAML membership file mapping
// virtual cluster name to member user names.
func NewStatic(path string) (*StaticAuthorizer, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read virtual cluster file %s: %w", path, err)
	}
	var members map[string][]string
	if err := yaml.Unmarshal(content, &members); err != nil {
		return nil, fmt.Errorf("failed to parse virtual cluster file %s: %w", path, err)
	}
	return &StaticAuthorizer{members: members}, nil
}

// Authorize implements the Authorizer interface.
func (a *StaticAuthorizer) Authorize(_ context.Context, userName, virtualCluster string) (bool, error) {
	users, ok := a.members[virtualCluster]
	if !ok {
		return false, nil
	}
	return len(users) == 0 || slices.Contains(users, userName), nil
}

// AllowAll authorizes every user for every virtual cluster. Used when no
// membership file is configured.
type AllowAll struct{}

var _ Authorizer = AllowAll{}

// Authorize implements the Authorizer interface.
func (AllowAll) Authorize(context.Context, string, string) (bool, error) {
	return true, nil
}
