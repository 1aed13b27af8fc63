// Package config defines the format-agnostic pipeline definition model and
// the Loader interface a concrete format (HCL today) implements. The rest of
// the planner consumes only this model and never sees parser types.
package config
