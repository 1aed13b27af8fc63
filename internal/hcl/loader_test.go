package hcl

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/stackpipe/internal/ctxlog"
)

func testContext() context.Context {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return ctxlog.WithLogger(context.Background(), logger)
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

const fullDefinition = `
pipeline "webapp" {
  source {
    repository = "git@example.com:team/webapp.git"
    branch     = "main"
  }
  build {
    commands = ["make build"]
  }
}

asset "sha256:aaa" {
  kind   = "file"
  source = "build/app.zip"

  destination "dev" {
    bucket     = "dev-artifacts"
    object_key = "app.zip"
  }
  destination "prod" {
    bucket = "prod-artifacts"
  }
}

stage "Dev" {
  unit "network" {}

  unit "api" {
    depends_on = ["network"]
    assets     = ["sha256:aaa"]
    env = {
      LOG_LEVEL = "debug"
      REPLICAS  = 2
    }
  }

  unit "worker" {
    depends_on = ["api"]
    consumes   = ["api"]
  }
}
`

func TestLoadFullDefinition(t *testing.T) {
	dir := writeFiles(t, map[string]string{"pipeline.hcl": fullDefinition})

	model, err := NewLoader().Load(testContext(), dir)
	require.NoError(t, err)
	require.NotNil(t, model.Pipeline)

	p := model.Pipeline
	assert.Equal(t, "webapp", p.Name)
	require.NotNil(t, p.Source)
	assert.Equal(t, "git@example.com:team/webapp.git", p.Source.Repository)
	assert.Equal(t, "main", p.Source.Branch)
	require.NotNil(t, p.Build)
	assert.Equal(t, []string{"make build"}, p.Build.Commands)

	require.Len(t, p.Stages, 1)
	units := p.Stages[0].Units
	require.Len(t, units, 3)
	assert.Equal(t, "network", units[0].ID)
	assert.Equal(t, []string{"network"}, units[1].DependsOn)
	assert.Equal(t, []string{"sha256:aaa"}, units[1].Assets)
	assert.Equal(t, map[string]string{"LOG_LEVEL": "debug", "REPLICAS": "2"}, units[1].Env)
	assert.Equal(t, []string{"api"}, units[2].Consumes)

	require.Len(t, p.Assets, 1)
	asset := p.Assets[0]
	assert.Equal(t, "sha256:aaa", asset.ID)
	assert.Equal(t, "file", asset.Kind)
	require.Len(t, asset.Destinations, 2)
	assert.Equal(t, "dev", asset.Destinations[0].ID)
	assert.Equal(t, map[string]string{"bucket": "dev-artifacts", "object_key": "app.zip"}, asset.Destinations[0].Params)
	assert.Equal(t, "prod", asset.Destinations[1].ID)
}

func TestLoadMergesMultipleFiles(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a_pipeline.hcl": `
pipeline "webapp" {
  source { repository = "r" }
  build {}
}
`,
		"b_stages.hcl": `
stage "Dev" {
  unit "network" {}
}
stage "Prod" {
  unit "network-prod" {}
}
`,
	})

	model, err := NewLoader().Load(testContext(), dir)
	require.NoError(t, err)
	require.NotNil(t, model.Pipeline)
	require.Len(t, model.Pipeline.Stages, 2)
	assert.Equal(t, "Dev", model.Pipeline.Stages[0].Name)
	assert.Equal(t, "Prod", model.Pipeline.Stages[1].Name)
}

func TestLoadRejectsTwoPipelineBlocks(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.hcl": `pipeline "one" {}`,
		"b.hcl": `pipeline "two" {}`,
	})

	_, err := NewLoader().Load(testContext(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most one")
}

func TestLoadRejectsInvalidSyntax(t *testing.T) {
	dir := writeFiles(t, map[string]string{"broken.hcl": `stage "Dev" {`})

	_, err := NewLoader().Load(testContext(), dir)
	assert.Error(t, err)
}

func TestLoadRejectsNonMapEnv(t *testing.T) {
	dir := writeFiles(t, map[string]string{"p.hcl": `
pipeline "p" {}
stage "Dev" {
  unit "api" {
    env = "not-a-map"
  }
}
`})

	_, err := NewLoader().Load(testContext(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "env must be a map")
}

func TestLoadNoFiles(t *testing.T) {
	_, err := NewLoader().Load(testContext(), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no .hcl definition files")
}
