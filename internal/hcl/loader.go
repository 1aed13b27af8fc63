package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/stackpipe/internal/config"
	"github.com/vk/stackpipe/internal/ctxlog"
	"github.com/vk/stackpipe/internal/fsutil"
	"github.com/vk/stackpipe/internal/schema"
)

// Loader loads pipeline definitions written in HCL.
type Loader struct{}

// NewLoader creates a new HCL loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load implements config.Loader. Each path may be a single .hcl file or a
// directory searched recursively; blocks from all files are merged before
// translation.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	var files []string
	for _, path := range paths {
		found, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("discovering definition files under %q: %w", path, err)
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl definition files found under %v", paths)
	}
	logger.Debug("Definition files discovered.", "count", len(files))

	parser := hclparse.NewParser()
	merged := &schema.File{}
	for _, path := range files {
		f, diags := parser.ParseHCLFile(path)
		if diags.HasErrors() {
			return nil, fmt.Errorf("parsing %s: %w", path, diags)
		}
		var decoded schema.File
		if diags := gohcl.DecodeBody(f.Body, nil, &decoded); diags.HasErrors() {
			return nil, fmt.Errorf("decoding %s: %w", path, diags)
		}
		merged.Pipelines = append(merged.Pipelines, decoded.Pipelines...)
		merged.Stages = append(merged.Stages, decoded.Stages...)
		merged.Assets = append(merged.Assets, decoded.Assets...)
	}

	if len(merged.Pipelines) > 1 {
		return nil, fmt.Errorf("definition declares %d pipeline blocks, expected at most one", len(merged.Pipelines))
	}

	model, err := l.translate(merged)
	if err != nil {
		return nil, err
	}
	logger.Debug("Definition translated into unified model.")
	return model, nil
}
