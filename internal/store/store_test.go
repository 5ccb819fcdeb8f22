package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceFX/pkg/timeline"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "snapshots.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleEditor() *timeline.Editor {
	ed := timeline.New(nil, nil)
	tr := ed.AddTrack("fx", timeline.TrackEffects)
	r := ed.AddRegion(tr.ID, 10, 60)
	ed.AddEffect(r.ID, "blur")
	ed.AddAutomationLane(r.ID, 0, "radius")
	return ed
}

func TestSaveAndLoadLatest(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	ed := sampleEditor()
	id1, err := s.Save(ctx, "demo", "first", ed)
	require.NoError(t, err)

	ed.AddTrack("second", timeline.TrackVideo)
	id2, err := s.Save(ctx, "demo", "second", ed)
	require.NoError(t, err)
	assert.Greater(t, id2, id1)

	loaded := timeline.New(nil, nil)
	snap, err := s.Load(ctx, "demo", 0, loaded)
	require.NoError(t, err)
	assert.Equal(t, id2, snap.ID)
	assert.Len(t, loaded.Tracks, 2)

	snap, err = s.Load(ctx, "", id1, loaded)
	require.NoError(t, err)
	assert.Equal(t, "first", snap.Label)
	assert.Len(t, loaded.Tracks, 1)
	assert.Len(t, loaded.Lanes, 1)
}

func TestNotFound(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	_, err := s.Get(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Latest(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Load(ctx, "missing", 0, timeline.New(nil, nil))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveRequiresProject(t *testing.T) {
	s := setupTestStore(t)
	_, err := s.SaveDocument(context.Background(), "", "", []byte("{}"))
	assert.Error(t, err)
}

func TestHistoryProjectsPrune(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	for i := 0; i < 4; i++ {
		_, err := s.SaveDocument(ctx, "a", "", []byte(`{"tracks":[]}`))
		require.NoError(t, err)
	}
	_, err := s.SaveDocument(ctx, "b", "only", []byte(`{}`))
	require.NoError(t, err)

	hist, err := s.History(ctx, "a", 2)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Greater(t, hist[0].ID, hist[1].ID)
	assert.Nil(t, hist[0].Data)
	assert.Equal(t, len(`{"tracks":[]}`), hist[0].Size)

	all, err := s.History(ctx, "a", 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	projects, err := s.Projects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "b", projects[0].Name)
	assert.Equal(t, 4, projects[1].Snapshots)

	n, err := s.Prune(ctx, "a", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	all, err = s.History(ctx, "a", 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, hist[0].ID, all[0].ID)
}
