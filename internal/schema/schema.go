// Package schema declares the HCL shapes of a pipeline definition file.
// These structs exist only for decoding; the hcl loader translates them into
// the format-agnostic config model.
package schema

import "github.com/hashicorp/hcl/v2"

// Pipeline represents a `pipeline` block: the pipeline's name plus its
// source and build declarations.
type Pipeline struct {
	Name   string  `hcl:"name,label"`
	Source *Source `hcl:"source,block"`
	Build  *Build  `hcl:"build,block"`
}

// Source represents the `source` block within a pipeline.
type Source struct {
	Repository string `hcl:"repository"`
	Branch     string `hcl:"branch,optional"`
}

// Build represents the `build` block within a pipeline.
type Build struct {
	Commands []string `hcl:"commands,optional"`
}

// Stage represents a `stage` block containing deployable units.
type Stage struct {
	Name  string  `hcl:"name,label"`
	Units []*Unit `hcl:"unit,block"`
}

// Unit represents a `unit` block inside a stage.
type Unit struct {
	ID        string         `hcl:"id,label"`
	DependsOn []string       `hcl:"depends_on,optional"`
	Assets    []string       `hcl:"assets,optional"`
	Consumes  []string       `hcl:"consumes,optional"`
	Env       hcl.Expression `hcl:"env,optional"`
}

// Asset represents an `asset` block declaring one publishable artifact.
type Asset struct {
	ID           string         `hcl:"id,label"`
	Kind         string         `hcl:"kind"`
	Source       string         `hcl:"source"`
	Destinations []*Destination `hcl:"destination,block"`
}

// Destination represents a `destination` block within an asset. Its
// parameters are free-form attributes interpreted by the publisher.
type Destination struct {
	ID     string   `hcl:"id,label"`
	Params hcl.Body `hcl:",remain"`
}

// File represents the top-level structure of one definition file.
type File struct {
	Pipelines []*Pipeline `hcl:"pipeline,block"`
	Stages    []*Stage    `hcl:"stage,block"`
	Assets    []*Asset    `hcl:"asset,block"`
}
