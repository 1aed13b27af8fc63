package config

// Model is the unified representation of one pipeline definition, as loaded
// from the user's configuration files. It is immutable once loaded.
type Model struct {
	Pipeline *Pipeline
}

// Pipeline is the top-level definition: where the source comes from, how it
// is built, which stages deploy which units, and which assets exist.
type Pipeline struct {
	Name   string
	Source *Source
	Build  *Build
	Stages []*StageDef
	Assets []*AssetDef
}

// Source declares where the pipeline checks its input out from.
type Source struct {
	Repository string
	Branch     string
}

// Build declares how the checked-out source is turned into deployable
// artifacts.
type Build struct {
	Commands []string
}

// StageDef is one deployment stage containing an ordered list of units.
type StageDef struct {
	Name  string
	Units []*Unit
}

// Unit is one deployable item. It is produced by the definition loader and
// immutable once observed.
type Unit struct {
	// ID is the opaque deployable identity.
	ID string
	// DependsOn lists unit identities this unit depends on. Targets may
	// live in any stage, or outside the pipeline entirely.
	DependsOn []string
	// Assets lists the asset IDs this unit needs published before it
	// deploys.
	Assets []string
	// Consumes lists producing units whose runtime outputs this unit reads.
	Consumes []string
	// Env carries literal environment values attached to the deployment.
	Env map[string]string
}

// AssetDef declares one publishable artifact and its destinations.
type AssetDef struct {
	// ID is the stable asset identity, derived from the artifact's content
	// manifest. Several units may reference the same ID.
	ID string
	// Kind is "file" or "container_image".
	Kind string
	// Source is the artifact location relative to the plan root.
	Source string
	// Destinations are the publish targets, in declaration order.
	Destinations []*DestinationDef
}

// DestinationDef is one publish target of an asset.
type DestinationDef struct {
	ID     string
	Params map[string]string
}
