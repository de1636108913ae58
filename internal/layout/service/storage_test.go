package service

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotStorage_SaveLoadList(t *testing.T) {
	root := t.TempDir()
	s := NewSnapshotStorage(root)
	ws := "0d1c6e0a-5b8e-4c5a-9f57-3c1f1a2b3c4d"

	require.NoError(t, s.Save(ws, "lunch", []byte(`{"shapes":[]}`)))
	require.NoError(t, s.Save(ws, "dinner", []byte(`{"shapes":[{"kind":"Square"}]}`)))
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(s.SnapshotPath(ws, "lunch"), old, old))

	data, err := s.Load(ws, "dinner")
	require.NoError(t, err)
	assert.JSONEq(t, `{"shapes":[{"kind":"Square"}]}`, string(data))
	assert.FileExists(t, filepath.Join(root, ws, "snapshots", "dinner.json"))

	list, err := s.List(ws)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "dinner", list[0].Name)
	assert.Equal(t, "lunch", list[1].Name)
}

func TestSnapshotStorage_Missing(t *testing.T) {
	s := NewSnapshotStorage(t.TempDir())

	_, err := s.Load("ws1", "nope")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	list, err := s.List("ws1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSnapshotStorage_RejectsTraversal(t *testing.T) {
	s := NewSnapshotStorage(t.TempDir())

	assert.ErrorIs(t, s.Save("ws1", "../escape", []byte(`{}`)), ErrInvalidName)
	assert.ErrorIs(t, s.Save("../ws", "ok", []byte(`{}`)), ErrInvalidName)
	_, err := s.Load("ws1", "a/b")
	assert.ErrorIs(t, err, ErrInvalidName)
	_, err = s.List("..")
	assert.ErrorIs(t, err, ErrInvalidName)
}
