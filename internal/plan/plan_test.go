package plan

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDraft(t *testing.T) {
	d := NewDraft("webapp")
	require.NotNil(t, d)
	assert.Equal(t, "webapp", d.Name())
	assert.NotEqual(t, NewDraft("webapp").ID(), d.ID(), "each session gets its own ID")
	assert.Zero(t, d.StageCount())
}

func TestAddStagePreservesOrder(t *testing.T) {
	d := NewDraft("p")
	d.AddStage("Source")
	d.AddStage("Build")
	d.AddStage("Prod")

	p := d.Freeze()
	assert.Empty(t, p.Stages(), "all stages were empty, so all were pruned")

	d = NewDraft("p")
	for _, name := range []string{"Source", "Build", "Prod"} {
		s := d.AddStage(name)
		s.AddAction(&GenericAction{Name: name})
	}
	stages := d.Freeze().Stages()
	require.Len(t, stages, 3)
	assert.Equal(t, "Source", stages[0].Name())
	assert.Equal(t, "Build", stages[1].Name())
	assert.Equal(t, "Prod", stages[2].Name())
}

func TestFreezePrunesOnlyEmptyStages(t *testing.T) {
	d := NewDraft("p")
	d.AddStage("Assets") // speculative, never filled
	dev := d.AddStage("Dev")
	dev.AddAction(NewDeployAction("network", nil, 1, 2))

	p := d.Freeze()
	stages := p.Stages()
	require.Len(t, stages, 1)
	assert.Equal(t, "Dev", stages[0].Name())
}

func TestNewDeployAction(t *testing.T) {
	t.Run("copies dependency ids", func(t *testing.T) {
		deps := []string{"a", "b"}
		a := NewDeployAction("c", deps, 3, 4)
		deps[0] = "mutated"
		assert.Equal(t, []string{"a", "b"}, a.DependencyIDs)
	})

	t.Run("rejects prepare after execute", func(t *testing.T) {
		assert.Panics(t, func() {
			NewDeployAction("c", nil, 5, 4)
		})
	})
}

func TestDeployActionsFiltersByKind(t *testing.T) {
	d := NewDraft("p")
	src := d.AddStage("Source")
	src.AddAction(&GenericAction{Name: "Source"})

	assetsStage := d.AddStage("Assets")
	pub := NewPublishAction("FileAsset1", "asset-1", AssetFile)
	assetsStage.AddAction(pub)

	dev := d.AddStage("Dev")
	dev.AddAction(NewDeployAction("network", nil, 1, 2))
	dev.AddAction(NewDeployAction("database", []string{"network"}, 3, 4))

	actions := d.DeployActions()
	require.Len(t, actions, 2)
	assert.Equal(t, "network", actions[0].UnitID)
	assert.Equal(t, "database", actions[1].UnitID)

	// The frozen plan reports the same flattened view.
	frozen := d.Freeze().DeployActions()
	require.Len(t, frozen, 2)
	assert.Equal(t, "network", frozen[0].UnitID)
}

func TestPublishActionDestinations(t *testing.T) {
	t.Run("preserves insertion order", func(t *testing.T) {
		a := NewPublishAction("FileAsset1", "asset-1", AssetFile)
		a.AddDestination(Destination{ID: "d1", SourcePath: "build/x.zip"})
		a.AddDestination(Destination{ID: "d2", SourcePath: "build/x.zip"})

		dests := a.Destinations()
		require.Len(t, dests, 2)
		assert.Equal(t, "d1", dests[0].ID)
		assert.Equal(t, "d2", dests[1].ID)
	})

	t.Run("repeated destination updates in place", func(t *testing.T) {
		a := NewPublishAction("FileAsset1", "asset-1", AssetFile)
		a.AddDestination(Destination{ID: "d1", SourcePath: "old.zip"})
		a.AddDestination(Destination{ID: "d2", SourcePath: "x.zip"})
		a.AddDestination(Destination{ID: "d1", SourcePath: "new.zip"})

		dests := a.Destinations()
		require.Len(t, dests, 2)
		assert.Equal(t, "d1", dests[0].ID)
		assert.Equal(t, "new.zip", dests[0].SourcePath)
	})
}

func TestParseAssetKind(t *testing.T) {
	k, err := ParseAssetKind("file")
	require.NoError(t, err)
	assert.Equal(t, AssetFile, k)

	k, err = ParseAssetKind("container_image")
	require.NoError(t, err)
	assert.Equal(t, AssetContainerImage, k)

	_, err = ParseAssetKind("tarball")
	assert.Error(t, err)
}

func TestRenderIsDeterministic(t *testing.T) {
	build := func() *Plan {
		d := NewDraft("webapp")
		src := d.AddStage("Source")
		src.AddAction(&GenericAction{Name: "Checkout"})
		dev := d.AddStage("Dev")
		dev.AddAction(NewDeployAction("network", nil, 1, 2))
		d.AddWarning("unit 'api' depends on 'dns', which is not deployed by this pipeline")
		return d.Freeze()
	}

	var first, second bytes.Buffer
	require.NoError(t, build().Render(&first))
	require.NoError(t, build().Render(&second))
	assert.Equal(t, first.String(), second.String())
	assert.Contains(t, first.String(), `stage "Dev"`)
	assert.Contains(t, first.String(), "prepare=1 execute=2")
	assert.Contains(t, first.String(), "warning:")
}
