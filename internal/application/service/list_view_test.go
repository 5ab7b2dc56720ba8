package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListView_StoresResult(t *testing.T) {
	var v ListView[[]string]

	got, err := v.Load(context.Background(), func(context.Context) ([]string, error) {
		return []string{"a"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got)

	snap := v.Snapshot()
	assert.True(t, snap.HasData)
	assert.False(t, snap.Loading)
	assert.Equal(t, []string{"a"}, snap.Data)
	assert.Equal(t, uint64(1), snap.Seq)
}

func TestListView_FailureKeepsPriorData(t *testing.T) {
	var v ListView[[]string]
	_, err := v.Load(context.Background(), func(context.Context) ([]string, error) {
		return []string{"kept"}, nil
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = v.Load(context.Background(), func(context.Context) ([]string, error) {
		return []string{"partial"}, boom
	})
	assert.ErrorIs(t, err, boom)

	snap := v.Snapshot()
	assert.Equal(t, []string{"kept"}, snap.Data)
	assert.ErrorIs(t, snap.Err, boom)
}

func TestListView_StaleResponseIsDiscarded(t *testing.T) {
	var v ListView[string]

	started := make(chan struct{})
	release := make(chan struct{})
	staleErr := make(chan error, 1)
	var staleCtx context.Context

	go func() {
		_, err := v.Load(context.Background(), func(ctx context.Context) (string, error) {
			staleCtx = ctx
			close(started)
			<-release
			return "old filter", nil
		})
		staleErr <- err
	}()
	<-started

	// A loading view never shows previous data
	snap := v.Snapshot()
	assert.True(t, snap.Loading)
	assert.False(t, snap.HasData)

	got, err := v.Load(context.Background(), func(context.Context) (string, error) {
		return "new filter", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "new filter", got)
	assert.ErrorIs(t, staleCtx.Err(), context.Canceled)

	close(release)
	assert.ErrorIs(t, <-staleErr, ErrSuperseded)

	snap = v.Snapshot()
	assert.Equal(t, "new filter", snap.Data)
	assert.False(t, snap.Loading)
	assert.Equal(t, uint64(2), snap.Seq)
}

func TestListView_ParentCancellation(t *testing.T) {
	var v ListView[int]
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := v.Load(ctx, func(ctx context.Context) (int, error) {
		return 0, ctx.Err()
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, v.Snapshot().Loading)
}

// blockingLoad starts a load on vs under ctx that waits for release
func blockingLoad(ctx context.Context, vs *Views[string], result string) (release chan struct{}, done chan error) {
	started := make(chan struct{})
	release, done = make(chan struct{}), make(chan error, 1)
	go func() {
		_, err := vs.Load(ctx, func(context.Context) (string, error) {
			close(started)
			<-release
			return result, nil
		})
		done <- err
	}()
	<-started
	return release, done
}

func TestViews_SeparateViewsDoNotSupersede(t *testing.T) {
	var vs Views[string]

	release, done := blockingLoad(WithViewID(context.Background(), "tab-1"), &vs, "tab 1")

	got, err := vs.Load(WithViewID(context.Background(), "tab-2"), func(context.Context) (string, error) {
		return "tab 2", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "tab 2", got)

	close(release)
	assert.NoError(t, <-done)
	assert.Equal(t, "tab 1", vs.Get("tab-1").Snapshot().Data)
}

func TestViews_SameViewSupersedes(t *testing.T) {
	var vs Views[string]
	ctx := WithViewID(context.Background(), "tab-1")

	release, done := blockingLoad(ctx, &vs, "old")

	_, err := vs.Load(ctx, func(context.Context) (string, error) { return "new", nil })
	require.NoError(t, err)

	close(release)
	assert.ErrorIs(t, <-done, ErrSuperseded)
	assert.Equal(t, "new", vs.Get("tab-1").Snapshot().Data)
}

func TestViews_NoViewIDRunsUnsequenced(t *testing.T) {
	var vs Views[string]

	release, done := blockingLoad(context.Background(), &vs, "first")
	_, err := vs.Load(context.Background(), func(context.Context) (string, error) { return "second", nil })
	require.NoError(t, err)

	close(release)
	assert.NoError(t, <-done)
	assert.Nil(t, vs.Get(""))
}

func TestViews_EvictsLeastRecentlyUsed(t *testing.T) {
	var vs Views[int]
	load := func(id string) {
		_, err := vs.Load(WithViewID(context.Background(), id), func(context.Context) (int, error) { return 1, nil })
		require.NoError(t, err)
	}

	load("first")
	for i := 0; i < MaxViews-1; i++ {
		load(fmt.Sprintf("view-%d", i))
	}
	load("first")
	load("overflow")

	assert.NotNil(t, vs.Get("first"))
	assert.Nil(t, vs.Get("view-0"))
	assert.NotNil(t, vs.Get("overflow"))
}
