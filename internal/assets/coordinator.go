package assets

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vk/stackpipe/internal/ctxlog"
	"github.com/vk/stackpipe/internal/plan"
)

// PublishRequest is one concrete "publish this destination of this asset"
// instruction emitted during unit expansion.
type PublishRequest struct {
	// AssetID is the stable identity of the artifact, derived from its
	// content manifest, not from the unit requesting it.
	AssetID string
	// Kind classifies the artifact.
	Kind plan.AssetKind
	// SourcePath is where the artifact bytes live, relative to the plan root.
	SourcePath string
	// DestinationID selects the publish target.
	DestinationID string
	// Params carries destination-specific publish parameters.
	Params map[string]string
}

// Role is the shared permission resource used by all publishing actions of
// one asset kind.
type Role struct {
	Kind plan.AssetKind
	Name string
}

// RoleProvisioner creates the shared per-kind publishing role. The
// coordinator memoizes the result and never calls it more than once per kind
// on the success path, keeping role count proportional to kinds, not assets.
type RoleProvisioner interface {
	EnsureRole(ctx context.Context, kind plan.AssetKind) (*Role, error)
}

// namePrefixes maps an asset kind to its action-name prefix. Action names
// are sequence-scoped per kind ("FileAsset1", "ImageAsset2", ...) and must
// never incorporate the asset's content identity; see plan.PublishAction.
var namePrefixes = map[plan.AssetKind]string{
	plan.AssetFile:           "FileAsset",
	plan.AssetContainerImage: "ImageAsset",
}

// Coordinator owns the publishers-by-asset and roles-by-kind registries for
// one planning session. It is not safe for concurrent use; planning is
// single-threaded.
type Coordinator struct {
	root        string
	stage       *plan.Stage
	provisioner RoleProvisioner

	publishers map[string]*plan.PublishAction
	roles      map[plan.AssetKind]*Role
	sequence   map[plan.AssetKind]int
}

// NewCoordinator creates a coordinator that appends publishing actions to
// the given (speculatively created) assets stage. root is the directory all
// publish sources must live under.
func NewCoordinator(root string, stage *plan.Stage, provisioner RoleProvisioner) *Coordinator {
	return &Coordinator{
		root:        root,
		stage:       stage,
		provisioner: provisioner,
		publishers:  make(map[string]*plan.PublishAction),
		roles:       make(map[plan.AssetKind]*Role),
		sequence:    make(map[plan.AssetKind]int),
	}
}

// RequestPublish routes one publish request to the single publishing action
// for its asset, creating that action on first sight. Requests for the same
// asset accumulate destinations in call order; a repeated destination is
// idempotent.
func (c *Coordinator) RequestPublish(ctx context.Context, req PublishRequest) error {
	logger := ctxlog.FromContext(ctx)

	if err := c.checkContained(req.SourcePath); err != nil {
		return err
	}

	if _, err := c.ensureRole(ctx, req.Kind); err != nil {
		return fmt.Errorf("provisioning publishing role for kind %q: %w", req.Kind, err)
	}

	action, ok := c.publishers[req.AssetID]
	if !ok {
		prefix, known := namePrefixes[req.Kind]
		if !known {
			return plan.NewConfigError("asset '%s' has unsupported kind %q", req.AssetID, req.Kind)
		}
		c.sequence[req.Kind]++
		action = plan.NewPublishAction(fmt.Sprintf("%s%d", prefix, c.sequence[req.Kind]), req.AssetID, req.Kind)
		// Stage position is significant, so the action joins the stage the
		// moment it exists rather than at finalization. Deferred insertion
		// would reorder unrelated actions.
		c.stage.AddAction(action)
		c.publishers[req.AssetID] = action
		logger.Debug("Created publishing action.", "action", action.Name, "asset", req.AssetID, "kind", req.Kind)
	}

	action.AddDestination(plan.Destination{
		ID:         req.DestinationID,
		SourcePath: req.SourcePath,
		Params:     req.Params,
	})
	logger.Debug("Accumulated publish destination.", "action", action.Name, "destination", req.DestinationID)
	return nil
}

// PublisherCount returns how many distinct assets have a publishing action.
// When it is still zero at freeze time, the assets stage is empty and the
// plan's freeze pass elides it.
func (c *Coordinator) PublisherCount() int { return len(c.publishers) }

// ensureRole memoizes the per-kind role.
func (c *Coordinator) ensureRole(ctx context.Context, kind plan.AssetKind) (*Role, error) {
	if role, ok := c.roles[kind]; ok {
		return role, nil
	}
	role, err := c.provisioner.EnsureRole(ctx, kind)
	if err != nil {
		return nil, err
	}
	c.roles[kind] = role
	return role, nil
}

// checkContained rejects a source path that escapes the plan root. An
// escaping path means the upstream expansion constructed the request from
// the wrong base directory, and silently publishing whatever happens to be
// at that location would misroute an artifact.
func (c *Coordinator) checkContained(source string) error {
	absRoot, err := filepath.Abs(c.root)
	if err != nil {
		return fmt.Errorf("resolving plan root %q: %w", c.root, err)
	}
	abs := source
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(absRoot, source)
	}
	rel, err := filepath.Rel(absRoot, filepath.Clean(abs))
	if err != nil {
		return plan.NewConfigError("asset source %q cannot be resolved against plan root %q", source, c.root)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return plan.NewConfigError("asset source %q escapes the plan root %q", source, c.root)
	}
	return nil
}
