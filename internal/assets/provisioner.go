package assets

import (
	"context"
	"strings"

	"github.com/vk/stackpipe/internal/plan"
)

// InMemoryProvisioner fabricates role handles without touching any external
// system. It is the default provisioner for local planning runs; real
// deployments inject their own. It also counts calls per kind so tests can
// verify the coordinator's memoization.
type InMemoryProvisioner struct {
	calls map[plan.AssetKind]int
}

// NewInMemoryProvisioner creates an empty in-memory provisioner.
func NewInMemoryProvisioner() *InMemoryProvisioner {
	return &InMemoryProvisioner{calls: make(map[plan.AssetKind]int)}
}

// EnsureRole implements RoleProvisioner.
func (p *InMemoryProvisioner) EnsureRole(_ context.Context, kind plan.AssetKind) (*Role, error) {
	p.calls[kind]++
	return &Role{
		Kind: kind,
		Name: "publish-" + strings.ReplaceAll(string(kind), "_", "-"),
	}, nil
}

// Calls returns how often EnsureRole was invoked for the given kind.
func (p *InMemoryProvisioner) Calls(kind plan.AssetKind) int {
	return p.calls[kind]
}
