package service

import (
	"errors"
	"testing"

	"restaurant-layout/internal/layout/codec"
	"restaurant-layout/internal/layout/models"
	"restaurant-layout/internal/layout/selection"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestWorkspace_AddUsesTemplates(t *testing.T) {
	ws := NewWorkspace("ws", nil)

	sq, err := ws.Add(models.KindSquare, nil)
	require.NoError(t, err)
	dm, err := ws.Add(models.KindDiamond, &models.Point{X: 300, Y: 120})
	require.NoError(t, err)

	assert.Equal(t, 0, sq.Index)
	assert.Equal(t, 50.0, sq.X)
	assert.Equal(t, models.DefaultLabel, sq.Label)
	assert.Equal(t, "white", sq.Fill)
	assert.Equal(t, 1, dm.Index)
	assert.Equal(t, 45.0, dm.Rotation)
	assert.Equal(t, 300.0, dm.X)

	_, err = ws.Add(models.ShapeKind("Hexagon"), nil)
	assert.ErrorIs(t, err, models.ErrUnknownKind)
	assert.Len(t, ws.View().Shapes, 2)
}

func TestWorkspace_PointerSelectEditDelete(t *testing.T) {
	ws := NewWorkspace("ws", nil)
	_, err := ws.Add(models.KindSquare, nil)
	require.NoError(t, err)
	circle, err := ws.Add(models.KindCircle, &models.Point{X: 200, Y: 50})
	require.NoError(t, err)

	id, hit := ws.PointerDown(240, 90)
	require.True(t, hit)
	assert.Equal(t, circle.ID, id)
	assert.True(t, ws.Form().Active)
	assert.Equal(t, models.DefaultLabel, ws.Form().Label)

	updated, err := ws.SubmitForm(selection.Submission{Label: "T2", Section: "B", Occupied: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Index)
	assert.Equal(t, "green", updated.Fill)
	assert.Equal(t, "B-T2", updated.Caption)
	assert.Contains(t, ws.Render(), "B-T2")

	view := ws.View()
	require.Len(t, view.Shapes, 2)
	assert.Equal(t, updated.ID, view.Shapes[1].ID)
	assert.Equal(t, updated.ID, view.Selected)
	assert.NotEqual(t, circle.ID, view.Shapes[1].ID)

	assert.True(t, ws.DeleteSelected())
	assert.False(t, ws.DeleteSelected())
	view = ws.View()
	assert.Len(t, view.Shapes, 1)
	assert.Empty(t, view.Selected)
	assert.False(t, view.Form.Active)
}

func TestWorkspace_PointerMissDeselects(t *testing.T) {
	ws := NewWorkspace("ws", nil)
	s, err := ws.Add(models.KindSquare, nil)
	require.NoError(t, err)
	require.True(t, ws.Select(s.ID))

	_, hit := ws.PointerDown(900, 450)

	assert.False(t, hit)
	assert.Empty(t, ws.View().Selected)
	_, err = ws.SubmitForm(selection.Submission{Label: "x"})
	assert.ErrorIs(t, err, selection.ErrNothingSelected)
}

func TestWorkspace_SnapshotClearRestore(t *testing.T) {
	ws := NewWorkspace("ws", nil)
	_, err := ws.Add(models.KindSquare, &models.Point{X: 50, Y: 50})
	require.NoError(t, err)
	_, err = ws.Add(models.KindCircle, &models.Point{X: 200, Y: 50})
	require.NoError(t, err)

	_, err = ws.LastSnapshot()
	assert.ErrorIs(t, err, ErrNoSnapshot)

	blob, err := ws.TakeSnapshot()
	require.NoError(t, err)
	ws.ClearAll()
	require.Empty(t, ws.View().Shapes)

	n, err := ws.LoadFile(blob)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	view := ws.View()
	require.Len(t, view.Shapes, 2)
	assert.Equal(t, models.KindSquare, view.Shapes[0].Kind)
	assert.Equal(t, 50.0, view.Shapes[0].X)
	assert.Equal(t, 50.0, view.Shapes[0].Y)
	assert.Equal(t, models.KindCircle, view.Shapes[1].Kind)
	assert.Equal(t, 200.0, view.Shapes[1].X)
	assert.Equal(t, 50.0, view.Shapes[1].Y)

	last, err := ws.LastSnapshot()
	require.NoError(t, err)
	assert.Equal(t, blob, last)
}

func TestWorkspace_FailedRestoreLeavesPlan(t *testing.T) {
	ws := NewWorkspace("ws", nil)
	s, err := ws.Add(models.KindSquare, nil)
	require.NoError(t, err)
	require.True(t, ws.Select(s.ID))
	before := ws.View()
	frame := ws.Render()

	_, err = ws.LoadFile([]byte(`{"shapes":[{"kind":"Circle"},{"kind":"Hexagon"}]}`))
	var uk *codec.UnknownKindError
	require.True(t, errors.As(err, &uk))

	_, err = ws.LoadFile([]byte(`{"shapes":[`))
	assert.ErrorIs(t, err, codec.ErrParse)

	assert.Equal(t, before, ws.View())
	assert.Equal(t, frame, ws.Render())
}

func TestWorkspace_UploadReplacesPending(t *testing.T) {
	ws := NewWorkspace("ws", nil)
	_, err := ws.Add(models.KindDiamond, nil)
	require.NoError(t, err)

	_, err = ws.RestorePending()
	assert.ErrorIs(t, err, ErrNothingPending)
	assert.False(t, ws.HasPending())

	require.NoError(t, ws.UploadFile([]byte(`{"shapes":[{"kind":"Square"}]}`)))
	require.NoError(t, ws.UploadFile([]byte(`{"shapes":[{"kind":"Circle"},{"kind":"Circle"}]}`)))

	err = ws.UploadFile([]byte(`{"shapes":[`))
	assert.ErrorIs(t, err, codec.ErrParse)
	assert.True(t, ws.HasPending())

	// Staging alone leaves the plan as it was.
	view := ws.View()
	require.Len(t, view.Shapes, 1)
	assert.Equal(t, models.KindDiamond, view.Shapes[0].Kind)
	assert.True(t, view.Pending)

	n, err := ws.RestorePending()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	view = ws.View()
	require.Len(t, view.Shapes, 2)
	assert.Equal(t, models.KindCircle, view.Shapes[0].Kind)
	assert.Equal(t, models.KindCircle, view.Shapes[1].Kind)

	n, err = ws.RestorePending()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestWorkspace_PendingUnknownKindLeavesPlan(t *testing.T) {
	ws := NewWorkspace("ws", nil)
	_, err := ws.Add(models.KindSquare, nil)
	require.NoError(t, err)
	before := ws.View()

	require.NoError(t, ws.UploadFile([]byte(`{"shapes":[{"kind":"Hexagon"}]}`)))
	_, err = ws.RestorePending()
	var uk *codec.UnknownKindError
	require.True(t, errors.As(err, &uk))
	assert.Equal(t, before.Shapes, ws.View().Shapes)
}

func TestWorkspace_SnapshotKeptOnlyWhenAsked(t *testing.T) {
	ws := NewWorkspace("ws", nil)
	_, err := ws.Add(models.KindSquare, nil)
	require.NoError(t, err)

	blob, err := ws.Snapshot()
	require.NoError(t, err)
	_, err = ws.LastSnapshot()
	assert.ErrorIs(t, err, ErrNoSnapshot)

	ws.KeepSnapshot(blob)
	last, err := ws.LastSnapshot()
	require.NoError(t, err)
	assert.Equal(t, blob, last)
}

func TestWorkspace_ClearResetsForm(t *testing.T) {
	ws := NewWorkspace("ws", nil)
	s, err := ws.Add(models.KindSquare, nil)
	require.NoError(t, err)
	ws.Select(s.ID)
	require.True(t, ws.Form().Active)

	ws.ClearAll()

	assert.Equal(t, FormState{}, ws.Form())
}

func TestManager_Lifecycle(t *testing.T) {
	m := NewManager(nil)

	ws := m.Create()
	got, err := m.Get(ws.ID)
	require.NoError(t, err)
	assert.Same(t, ws, got)
	assert.Equal(t, 1, m.Len())

	require.NoError(t, m.Delete(ws.ID))
	_, err = m.Get(ws.ID)
	assert.ErrorIs(t, err, ErrWorkspaceNotFound)
	assert.ErrorIs(t, m.Delete(ws.ID), ErrWorkspaceNotFound)
}
