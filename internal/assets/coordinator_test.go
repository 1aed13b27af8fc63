package assets

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/stackpipe/internal/ctxlog"
	"github.com/vk/stackpipe/internal/plan"
)

func testContext() context.Context {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return ctxlog.WithLogger(context.Background(), logger)
}

func newTestCoordinator(t *testing.T) (*Coordinator, *plan.Stage, *InMemoryProvisioner) {
	t.Helper()
	draft := plan.NewDraft("p")
	stage := draft.AddStage("Assets")
	provisioner := NewInMemoryProvisioner()
	return NewCoordinator(t.TempDir(), stage, provisioner), stage, provisioner
}

func TestRequestPublishDeduplicatesPerAsset(t *testing.T) {
	ctx := testContext()
	c, stage, _ := newTestCoordinator(t)

	for _, dest := range []string{"d1", "d2", "d3"} {
		err := c.RequestPublish(ctx, PublishRequest{
			AssetID:       "asset-1",
			Kind:          plan.AssetFile,
			SourcePath:    "build/app.zip",
			DestinationID: dest,
		})
		require.NoError(t, err)
	}

	actions := stage.Actions()
	require.Len(t, actions, 1, "one asset identity yields one publishing action")
	pub := actions[0].(*plan.PublishAction)
	dests := pub.Destinations()
	require.Len(t, dests, 3)
	assert.Equal(t, "d1", dests[0].ID)
	assert.Equal(t, "d2", dests[1].ID)
	assert.Equal(t, "d3", dests[2].ID)
	assert.Equal(t, 1, c.PublisherCount())
}

func TestPublishingActionNamesAreSequencePerKind(t *testing.T) {
	ctx := testContext()
	c, stage, _ := newTestCoordinator(t)

	reqs := []PublishRequest{
		{AssetID: "asset-1", Kind: plan.AssetFile, SourcePath: "a.zip", DestinationID: "d1"},
		{AssetID: "asset-2", Kind: plan.AssetFile, SourcePath: "b.zip", DestinationID: "d1"},
		{AssetID: "asset-3", Kind: plan.AssetContainerImage, SourcePath: "img", DestinationID: "d1"},
	}
	for _, req := range reqs {
		require.NoError(t, c.RequestPublish(ctx, req))
	}

	actions := stage.Actions()
	require.Len(t, actions, 3)
	assert.Equal(t, "FileAsset1", actions[0].DisplayName())
	assert.Equal(t, "FileAsset2", actions[1].DisplayName())
	assert.Equal(t, "ImageAsset1", actions[2].DisplayName())
}

func TestActionNameIgnoresSourceContent(t *testing.T) {
	ctx := testContext()
	c, stage, _ := newTestCoordinator(t)

	// Same asset identity, different source bytes between requests: the
	// action identity must not move.
	require.NoError(t, c.RequestPublish(ctx, PublishRequest{
		AssetID: "asset-1", Kind: plan.AssetFile, SourcePath: "build/v1.zip", DestinationID: "d1",
	}))
	require.NoError(t, c.RequestPublish(ctx, PublishRequest{
		AssetID: "asset-1", Kind: plan.AssetFile, SourcePath: "build/v2.zip", DestinationID: "d2",
	}))

	actions := stage.Actions()
	require.Len(t, actions, 1)
	assert.Equal(t, "FileAsset1", actions[0].DisplayName())
	assert.NotContains(t, actions[0].DisplayName(), "asset-1")
}

func TestRoleProvisionedOncePerKind(t *testing.T) {
	ctx := testContext()
	c, _, provisioner := newTestCoordinator(t)

	for i, assetID := range []string{"asset-1", "asset-2", "asset-3"} {
		kind := plan.AssetFile
		if i == 2 {
			kind = plan.AssetContainerImage
		}
		require.NoError(t, c.RequestPublish(ctx, PublishRequest{
			AssetID: assetID, Kind: kind, SourcePath: "x", DestinationID: "d1",
		}))
	}

	assert.Equal(t, 1, provisioner.Calls(plan.AssetFile))
	assert.Equal(t, 1, provisioner.Calls(plan.AssetContainerImage))
}

func TestRequestPublishRejectsEscapingSource(t *testing.T) {
	ctx := testContext()
	c, stage, _ := newTestCoordinator(t)

	err := c.RequestPublish(ctx, PublishRequest{
		AssetID:       "asset-1",
		Kind:          plan.AssetFile,
		SourcePath:    "../outside/app.zip",
		DestinationID: "d1",
	})
	require.Error(t, err)
	assert.True(t, plan.IsConfigError(err))
	assert.Empty(t, stage.Actions(), "no action may exist for a rejected request")
}

func TestRequestPublishUnknownKind(t *testing.T) {
	ctx := testContext()
	c, _, _ := newTestCoordinator(t)

	err := c.RequestPublish(ctx, PublishRequest{
		AssetID: "asset-1", Kind: plan.AssetKind("tarball"), SourcePath: "x", DestinationID: "d1",
	})
	require.Error(t, err)
	assert.True(t, plan.IsConfigError(err))
}
