package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/colmena-layout/internal/model"
)

// persisted strips the transient selection so states can be compared.
func persisted(s *State) Snapshot {
	snap := s.Snapshot()
	snap.Selected = nil
	return snap
}

func TestUndoRedoEmpty(t *testing.T) {
	s := NewState(Overrides{})
	_, ok := s.Undo()
	assert.False(t, ok)
	_, ok = s.Redo()
	assert.False(t, ok)
}

func TestUndoRestoresPreActionState(t *testing.T) {
	s := NewState(Overrides{Rows: intp(5), Cols: intp(5)})
	before := persisted(s)

	s.Paint("paint seats", []int{0, 1})
	require.Equal(t, model.CellSeat, s.Cells[0].Type)

	reason, ok := s.Undo()
	require.True(t, ok)
	assert.Equal(t, "paint seats", reason)
	assert.Equal(t, before, persisted(s))
	assert.True(t, s.CanRedo())
	assert.False(t, s.CanUndo())
}

func TestUndoThenRedoIsIdentity(t *testing.T) {
	s := NewState(Overrides{Rows: intp(5), Cols: intp(5)})
	s.Paint("a", []int{0})
	s.Tool = model.ToolTable
	s.Paint("b", []int{1, 2})

	pre := persisted(s)
	_, ok := s.Undo()
	require.True(t, ok)
	reason, ok := s.Redo()
	require.True(t, ok)
	assert.Equal(t, "b", reason)
	assert.Equal(t, pre, persisted(s))
	assert.Len(t, s.UndoStack, 2)
	assert.Empty(t, s.RedoStack)
}

func TestPushUndoClearsRedo(t *testing.T) {
	s := NewState(Overrides{})
	s.Paint("a", []int{0})
	s.Undo()
	require.True(t, s.CanRedo())

	s.PushUndo("")
	assert.False(t, s.CanRedo())
	assert.Equal(t, DefaultReason, s.UndoStack[0].Reason)
}

func TestHistoryEvictionBound(t *testing.T) {
	s := NewState(Overrides{HistoryLimit: intp(10)})
	const k = 4
	for i := 0; i < s.HistoryLimit+k; i++ {
		s.EventName = string(rune('a' + i))
		s.PushUndo(s.EventName)
	}
	require.Len(t, s.UndoStack, 10)
	assert.Equal(t, string(rune('a'+k)), s.UndoStack[0].Reason)
	assert.Equal(t, string(rune('a'+13)), s.UndoStack[9].Reason)
}

func TestSetHistoryLimitTrims(t *testing.T) {
	s := NewState(Overrides{HistoryLimit: intp(20)})
	for i := 0; i < 15; i++ {
		s.PushUndo("x")
	}
	s.SetHistoryLimit(10)
	assert.Len(t, s.UndoStack, 10)
}

func TestUndoRestoresAcrossResize(t *testing.T) {
	s := NewState(Overrides{Rows: intp(5), Cols: intp(5)})
	s.Paint("seat", []int{3})
	s.PushUndo("resize")
	s.ResetGrid(10, 12)
	require.Len(t, s.Cells, 120)

	_, ok := s.Undo()
	require.True(t, ok)
	assert.Equal(t, 5, s.Rows)
	assert.Len(t, s.Cells, 25)
	assert.Equal(t, 1, s.Cells[3].SeatNumber)
	assert.Equal(t, 2, s.NextSeatNumber)
}
