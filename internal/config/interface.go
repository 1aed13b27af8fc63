package config

import "context"

// Loader is the interface for a format-specific definition loader. Load
// reads every definition file reachable from the given paths, merges them,
// and translates the result into the format-agnostic Model.
type Loader interface {
	Load(ctx context.Context, paths ...string) (*Model, error)
}
