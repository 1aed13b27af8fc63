package plan

import "fmt"

// ActionKind discriminates the variants of Action.
type ActionKind string

const (
	// KindDeploy marks an action that deploys one unit.
	KindDeploy ActionKind = "deploy"
	// KindPublish marks an action that publishes one asset.
	KindPublish ActionKind = "publish"
	// KindOther marks structural actions (source checkout, build) that the
	// planner schedules but does not reason about.
	KindOther ActionKind = "other"
)

// Action is one scheduled entry in a pipeline stage.
type Action interface {
	// Kind returns the variant tag used for filtering.
	Kind() ActionKind
	// DisplayName returns the human-readable action name used in rendering
	// and diagnostics.
	DisplayName() string
}

// GenericAction is a structural action with no planning semantics.
type GenericAction struct {
	Name string
}

// Kind implements Action.
func (a *GenericAction) Kind() ActionKind { return KindOther }

// DisplayName implements Action.
func (a *GenericAction) DisplayName() string { return a.Name }

// DeployAction is one scheduled deployment of a unit. It is created once when
// the unit is scheduled into a stage and never mutated afterwards.
type DeployAction struct {
	// UnitID identifies the unit this action deploys.
	UnitID string
	// DependencyIDs are the unit identities this action depends on, copied
	// from the unit at creation time.
	DependencyIDs []string
	// PrepareOrder and ExecuteOrder are the relative positions of this
	// action's prepare and execute phases within the whole pipeline. Lower
	// runs earlier; equal orders may run concurrently.
	PrepareOrder int
	ExecuteOrder int
}

// NewDeployAction builds a DeployAction. The prepare phase can never be
// scheduled after the execute phase, so a caller violating that is a
// programmer error.
func NewDeployAction(unitID string, dependencyIDs []string, prepareOrder, executeOrder int) *DeployAction {
	if prepareOrder > executeOrder {
		panic(fmt.Sprintf("plan: unit %q scheduled with prepare order %d after execute order %d", unitID, prepareOrder, executeOrder))
	}
	deps := make([]string, len(dependencyIDs))
	copy(deps, dependencyIDs)
	return &DeployAction{
		UnitID:        unitID,
		DependencyIDs: deps,
		PrepareOrder:  prepareOrder,
		ExecuteOrder:  executeOrder,
	}
}

// Kind implements Action.
func (a *DeployAction) Kind() ActionKind { return KindDeploy }

// DisplayName implements Action.
func (a *DeployAction) DisplayName() string { return a.UnitID }

// AssetKind classifies a publishable asset.
type AssetKind string

const (
	// AssetFile is a file or archive published to object storage.
	AssetFile AssetKind = "file"
	// AssetContainerImage is an image pushed to a registry.
	AssetContainerImage AssetKind = "container_image"
)

// ParseAssetKind converts a configuration string into an AssetKind.
func ParseAssetKind(s string) (AssetKind, error) {
	switch AssetKind(s) {
	case AssetFile, AssetContainerImage:
		return AssetKind(s), nil
	}
	return "", fmt.Errorf("unknown asset kind %q (expected %q or %q)", s, AssetFile, AssetContainerImage)
}

// Destination is one concrete publish target of an asset.
type Destination struct {
	// ID selects the destination, e.g. an environment or region name.
	ID string
	// SourcePath is where the asset bytes are read from, relative to the
	// plan root.
	SourcePath string
	// Params carries destination-specific publish parameters.
	Params map[string]string
}

// PublishAction is the single long-lived action that publishes every
// destination of one asset. Its AssetID is fixed at creation and never
// reused for an unrelated asset. Its Name is a per-kind sequence token and
// deliberately carries no trace of the asset's content identity: a
// content-derived name would change whenever the asset bytes change and
// force the downstream execution resource to be recreated, which in turn
// re-triggers the pipeline that owns it.
type PublishAction struct {
	Name      string
	AssetID   string
	AssetKind AssetKind

	destinations []Destination
	byID         map[string]int
}

// NewPublishAction builds an empty PublishAction for one asset.
func NewPublishAction(name, assetID string, kind AssetKind) *PublishAction {
	return &PublishAction{
		Name:      name,
		AssetID:   assetID,
		AssetKind: kind,
		byID:      make(map[string]int),
	}
}

// AddDestination appends a destination in call order. A repeated destination
// ID updates the existing entry in place instead of appending, so requesting
// the same destination twice stays idempotent.
func (a *PublishAction) AddDestination(d Destination) {
	if i, ok := a.byID[d.ID]; ok {
		a.destinations[i] = d
		return
	}
	a.byID[d.ID] = len(a.destinations)
	a.destinations = append(a.destinations, d)
}

// Destinations returns the accumulated destinations in insertion order. The
// execution layer runs them sequentially within this one action, so shared
// setup cost is paid once per asset; distinct assets run in parallel.
func (a *PublishAction) Destinations() []Destination {
	out := make([]Destination, len(a.destinations))
	copy(out, a.destinations)
	return out
}

// Kind implements Action.
func (a *PublishAction) Kind() ActionKind { return KindPublish }

// DisplayName implements Action.
func (a *PublishAction) DisplayName() string { return a.Name }
