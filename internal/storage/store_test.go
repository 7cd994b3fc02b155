package storage

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/colmena-layout/internal/apperr"
	"github.com/iliyamo/colmena-layout/internal/layout"
	"github.com/iliyamo/colmena-layout/internal/model"
	"github.com/iliyamo/colmena-layout/internal/repository"
)

var fixedNow = time.Date(2026, 3, 14, 9, 26, 53, 589_000_000, time.UTC)

func newStore(slot Slot) *Store {
	st := NewStore(slot, "")
	st.now = func() time.Time { return fixedNow }
	return st
}

func paintedState() *layout.State {
	rows, cols := 5, 5
	name := "Gala"
	s := layout.NewState(layout.Overrides{Rows: &rows, Cols: &cols, EventName: &name})
	s.Paint("paint", []int{0, 1})
	s.Tool = model.ToolTable
	s.Paint("paint", []int{6})
	s.Cells[0].Zone = model.ZoneVIP
	s.Cells[0].Price = model.PriceOf(45000)
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	slot := repository.NewMemorySlot()
	st := newStore(slot)
	src := paintedState()

	meta, err := st.Save(ctx, src)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-14T09:26:53.589Z", meta.SavedAt)

	raw, err := slot.Get(ctx, DefaultKey)
	require.NoError(t, err)
	var env map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &env))
	assert.Equal(t, AppID, env["app"])
	assert.Equal(t, 1.0, env["schemaVersion"])

	dst := layout.NewState(layout.Overrides{})
	meta, err = st.LoadAndApply(ctx, dst)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-14T09:26:53.589Z", meta.SavedAt)
	assert.Equal(t, src.Cells, dst.Cells)
	assert.Equal(t, src.Rows, dst.Rows)
	assert.Equal(t, src.EventName, dst.EventName)
	assert.Equal(t, src.NextSeatNumber, dst.NextSeatNumber)
}

func TestLoadNoData(t *testing.T) {
	st := newStore(repository.NewMemorySlot())
	_, _, err := st.Load(context.Background())
	assert.ErrorIs(t, err, apperr.ErrNoData)

	ok, err := st.HasSaved(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoadFailures(t *testing.T) {
	snap := `{"rows":5,"cols":5,"cells":[]}`
	cases := []struct {
		name string
		text string
		want *apperr.Error
	}{
		{"not json", `{nope`, apperr.ErrInvalidJSON},
		{"wrong app", `{"app":"other","schemaVersion":1,"payload":{"snapshot":` + snap + `}}`, apperr.ErrUnsupportedVersion},
		{"future version", `{"app":"colmena-unidos","schemaVersion":2,"payload":{"snapshot":` + snap + `}}`, apperr.ErrUnsupportedVersion},
		{"string version", `{"app":"colmena-unidos","schemaVersion":"1","payload":{}}`, apperr.ErrUnsupportedVersion},
		{"null payload", `{"app":"colmena-unidos","schemaVersion":1,"payload":null}`, apperr.ErrUnsupportedVersion},
		{"no snapshot", `{"app":"colmena-unidos","schemaVersion":1,"payload":{"version":1}}`, apperr.ErrMissingSnapshot},
		{"null snapshot", `{"app":"colmena-unidos","schemaVersion":1,"payload":{"snapshot":null}}`, apperr.ErrMissingSnapshot},
		{"zero snapshot", `{"app":"colmena-unidos","schemaVersion":1,"payload":{"snapshot":0}}`, apperr.ErrMissingSnapshot},
		{"empty string snapshot", `{"app":"colmena-unidos","schemaVersion":1,"payload":{"snapshot":""}}`, apperr.ErrMissingSnapshot},
		{"false snapshot", `{"app":"colmena-unidos","schemaVersion":1,"payload":{"snapshot":false}}`, apperr.ErrMissingSnapshot},
		{"null envelope", `null`, apperr.ErrInvalidJSON},
		{"false envelope", `false`, apperr.ErrInvalidJSON},
		{"array envelope", `[1,2]`, apperr.ErrUnsupportedVersion},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			slot := repository.NewMemorySlot()
			require.NoError(t, slot.Set(ctx, DefaultKey, tc.text))

			_, _, err := newStore(slot).Load(ctx)
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, tc.want.Code, apperr.CodeOf(err))
		})
	}
}

func TestLoadAndApplyCoercesMistypedFields(t *testing.T) {
	ctx := context.Background()
	slot := repository.NewMemorySlot()
	cells := strings.Repeat(`{"type":5,"zone":3,"seatNumber":"7","price":"1500","sellState":true},`, 24) +
		`{"type":"seat","seatNumber":"7","zone":"vip"}`
	text := `{"app":"colmena-unidos","schemaVersion":1,"payload":{"version":1,"snapshot":` +
		`{"rows":5.0,"cols":"5","nextSeatNumber":3.7,"cells":[` + cells + `]}}}`
	require.NoError(t, slot.Set(ctx, DefaultKey, text))

	dst := layout.NewState(layout.Overrides{})
	_, err := newStore(slot).LoadAndApply(ctx, dst)
	require.NoError(t, err)
	assert.Equal(t, 5, dst.Rows)
	assert.Equal(t, 5, dst.Cols)
	assert.Equal(t, 3, dst.NextSeatNumber)
	assert.True(t, dst.Cells[0].IsEmpty())
	assert.Equal(t, model.ZoneNone, dst.Cells[0].Zone)
	assert.Equal(t, model.SellAvailable, dst.Cells[0].SellState)
	assert.Equal(t, model.CellSeat, dst.Cells[24].Type)
	assert.Equal(t, 7, dst.Cells[24].SeatNumber)
	assert.Equal(t, model.ZoneVIP, dst.Cells[24].Zone)
}

func TestLoadAndApplyRejectsNonObjectSnapshot(t *testing.T) {
	ctx := context.Background()
	slot := repository.NewMemorySlot()
	require.NoError(t, slot.Set(ctx, DefaultKey, `{"app":"colmena-unidos","schemaVersion":1,"payload":{"snapshot":5}}`))

	dst := paintedState()
	before := dst.Snapshot()
	_, err := newStore(slot).LoadAndApply(ctx, dst)
	assert.ErrorIs(t, err, apperr.ErrApplyFailed)
	assert.Equal(t, before, dst.Snapshot())
}

func TestLoadAndApplyRejectsTamperedCells(t *testing.T) {
	ctx := context.Background()
	slot := repository.NewMemorySlot()
	st := newStore(slot)

	env := Wrap(paintedState().Snapshot(), fixedNow)
	env.Payload.Snapshot.Cells = env.Payload.Snapshot.Cells[:24]
	b, err := json.Marshal(env)
	require.NoError(t, err)
	require.NoError(t, slot.Set(ctx, DefaultKey, string(b)))

	dst := paintedState()
	before := dst.Snapshot()
	_, err = st.LoadAndApply(ctx, dst)
	assert.ErrorIs(t, err, apperr.ErrApplyFailed)
	assert.ErrorIs(t, err, layout.ErrCellCountMismatch)
	assert.Equal(t, before, dst.Snapshot())
}

func TestHasSavedAndClear(t *testing.T) {
	ctx := context.Background()
	st := newStore(repository.NewMemorySlot())
	_, err := st.Save(ctx, paintedState())
	require.NoError(t, err)

	ok, err := st.HasSaved(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, st.Clear(ctx))
	ok, err = st.HasSaved(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

type brokenSlot struct{ err error }

func (b brokenSlot) Get(context.Context, string) (string, error) { return "", b.err }
func (b brokenSlot) Set(context.Context, string, string) error   { return b.err }
func (b brokenSlot) Remove(context.Context, string) error        { return b.err }

func TestStorageErrors(t *testing.T) {
	ctx := context.Background()
	st := newStore(brokenSlot{err: errors.New("quota exceeded")})

	_, err := st.Save(ctx, paintedState())
	assert.ErrorIs(t, err, apperr.ErrStorage)
	assert.ErrorContains(t, err, "quota exceeded")

	_, _, err = st.Load(ctx)
	assert.ErrorIs(t, err, apperr.ErrStorage)

	_, err = st.HasSaved(ctx)
	assert.ErrorIs(t, err, apperr.ErrStorage)

	assert.ErrorIs(t, st.Clear(ctx), apperr.ErrStorage)
}

func TestCustomKey(t *testing.T) {
	ctx := context.Background()
	slot := repository.NewMemorySlot()
	st := NewStore(slot, "venue-7")
	assert.Equal(t, "venue-7", st.Key())

	_, err := st.Save(ctx, paintedState())
	require.NoError(t, err)
	_, err = slot.Get(ctx, DefaultKey)
	assert.ErrorIs(t, err, repository.ErrSlotEmpty)
}
