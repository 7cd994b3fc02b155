// Package service hosts one editing session behind a mutex so concurrent
// HTTP requests reach the layout engine one at a time.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/colmena-layout/internal/apperr"
	"github.com/iliyamo/colmena-layout/internal/capacity"
	"github.com/iliyamo/colmena-layout/internal/config"
	"github.com/iliyamo/colmena-layout/internal/layout"
	"github.com/iliyamo/colmena-layout/internal/metrics"
	"github.com/iliyamo/colmena-layout/internal/model"
	"github.com/iliyamo/colmena-layout/internal/queue"
	"github.com/iliyamo/colmena-layout/internal/storage"
)

// ErrUnknownPreset is returned by ApplyPreset for names not in the preset list.
var ErrUnknownPreset = errors.New("unknown preset")

// Options wires an Editor.  Store is required; everything else is optional.
type Options struct {
	Store     *storage.Store
	Backend   string
	Publisher queue.Publisher
	Metrics   *metrics.Metrics
	Capacity  capacity.Config
	Presets   []config.Preset
	Initial   layout.Overrides
	Now       func() time.Time
}

// Editor owns the State of one session and everything derived from it.
// Every method holds the lock for its whole duration.
type Editor struct {
	mu       sync.Mutex
	state    *layout.State
	revision uint64
	orders   *orderBook

	store     *storage.Store
	backend   string
	publisher queue.Publisher
	metrics   *metrics.Metrics
	capacity  capacity.Config
	presets   []config.Preset
	now       func() time.Time
}

// NewEditor builds an Editor around a fresh State.
func NewEditor(opts Options) *Editor {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Presets == nil {
		opts.Presets = config.DefaultPresets()
	}
	e := &Editor{
		state:     layout.NewState(opts.Initial),
		orders:    newOrderBook(),
		store:     opts.Store,
		backend:   opts.Backend,
		publisher: opts.Publisher,
		metrics:   opts.Metrics,
		capacity:  opts.Capacity,
		presets:   opts.Presets,
		now:       opts.Now,
	}
	e.observe()
	return e
}

// LayoutView is the editor state as served to the view layer.
type LayoutView struct {
	Revision     uint64          `json:"revision"`
	Snapshot     layout.Snapshot `json:"snapshot"`
	HistoryLimit int             `json:"historyLimit"`
	UndoDepth    int             `json:"undoDepth"`
	RedoDepth    int             `json:"redoDepth"`
	CanUndo      bool            `json:"canUndo"`
	CanRedo      bool            `json:"canRedo"`
}

// Mutation reports the outcome of one editing action.
type Mutation struct {
	Revision uint64 `json:"revision"`
	Changed  int    `json:"changed"`
	Reason   string `json:"reason,omitempty"`
}

// View returns the current snapshot and history status.
func (e *Editor) View() LayoutView {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view()
}

func (e *Editor) view() LayoutView {
	s := e.state
	return LayoutView{
		Revision:     e.revision,
		Snapshot:     s.Snapshot(),
		HistoryLimit: s.HistoryLimit,
		UndoDepth:    len(s.UndoStack),
		RedoDepth:    len(s.RedoStack),
		CanUndo:      s.CanUndo(),
		CanRedo:      s.CanRedo(),
	}
}

// Revision changes whenever the State may have changed.  It keys cached
// derived data.
func (e *Editor) Revision() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.revision
}

// Read runs fn against the State under the lock.  fn must not retain or
// mutate s.
func (e *Editor) Read(fn func(s *layout.State)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.state)
}

// CapacityConfig returns the persons-per-unit configuration in use.
func (e *Editor) CapacityConfig() capacity.Config { return e.capacity }

// Presets returns the grid presets offered by ApplyPreset.
func (e *Editor) Presets() []config.Preset { return e.presets }

// commit bumps the revision and refreshes gauges.  Callers hold the lock.
func (e *Editor) commit(action string, changed int) Mutation {
	e.revision++
	e.metrics.Mutation(action)
	e.observe()
	return Mutation{Revision: e.revision, Changed: changed}
}

func (e *Editor) observe() {
	if e.metrics == nil {
		return
	}
	e.metrics.ObserveHistory(len(e.state.UndoStack), len(e.state.RedoStack))
	q := capacity.Quick(e.state.Cells, e.capacity)
	e.metrics.ObserveLayout(q.Seats, q.Tables, q.Capacity)
}

// Paint applies tool (or the active tool when empty) to every index as one
// gesture with a single checkpoint.
func (e *Editor) Paint(tool string, indices []int) Mutation {
	e.mu.Lock()
	defer e.mu.Unlock()
	if tool != "" {
		e.state.Tool = model.SanitizeTool(tool)
	}
	if len(indices) == 0 {
		return e.commit("paint", 0)
	}
	return e.commit("paint", e.state.Paint("paint", indices))
}

// SetTool changes the active tool.  Tool and mode are not checkpointed.
func (e *Editor) SetTool(tool string) Mutation {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Tool = model.SanitizeTool(tool)
	return e.commit("tool", 0)
}

// SetMode switches between paint and select.
func (e *Editor) SetMode(mode string) Mutation {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Mode = model.SanitizeMode(mode)
	return e.commit("mode", 0)
}

// SelectionOp names a selection change.
type SelectionOp string

const (
	SelectReplace SelectionOp = "replace"
	SelectAdd     SelectionOp = "add"
	SelectToggle  SelectionOp = "toggle"
	SelectType    SelectionOp = "type"
	SelectClear   SelectionOp = "clear"
)

// Select changes the selection.  Selection is transient and never
// checkpointed.  Changed reports the resulting selection size.
func (e *Editor) Select(op SelectionOp, indices []int, cellType string) (Mutation, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.state
	switch op {
	case SelectReplace, "":
		s.Select(indices, false)
	case SelectAdd:
		s.Select(indices, true)
	case SelectToggle:
		for _, i := range indices {
			s.ToggleSelection(i)
		}
	case SelectType:
		s.SelectType(model.ParseCellType(cellType))
	case SelectClear:
		s.ClearSelection()
	default:
		return Mutation{}, apperr.ErrInvalid
	}
	return e.commit("select", s.Selected.Len()), nil
}

// bulk checkpoints and runs fn over the selection.  Nothing happens, not
// even a checkpoint, when the selection is empty.
func (e *Editor) bulk(reason string, fn func(s *layout.State) bool) Mutation {
	s := e.state
	if s.Selected.Len() == 0 {
		return Mutation{Revision: e.revision}
	}
	s.PushUndo(reason)
	changed := 0
	if fn(s) {
		changed = s.Selected.Len()
	}
	m := e.commit(reason, changed)
	m.Reason = reason
	return m
}

// ApplyZone tags the selection with zone.
func (e *Editor) ApplyZone(zone string) Mutation {
	e.mu.Lock()
	defer e.mu.Unlock()
	z := model.SanitizeZone(zone)
	return e.bulk("zone", func(s *layout.State) bool { return s.ApplyZone(z) })
}

// ClearZone resets the zone of the selection.
func (e *Editor) ClearZone() Mutation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bulk("clear-zone", (*layout.State).ClearZone)
}

// ApplyPrice sets a price override on the selection.  Negative or
// non-finite prices fail with INVALID before anything is checkpointed.
func (e *Editor) ApplyPrice(price float64) (Mutation, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if model.SanitizePrice(&price) == nil {
		return Mutation{}, apperr.ErrInvalid
	}
	return e.bulk("price", func(s *layout.State) bool { return s.ApplyPrice(price) }), nil
}

// ClearPrice drops the price override of the selection.
func (e *Editor) ClearPrice() Mutation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bulk("clear-price", (*layout.State).ClearPrice)
}

// ApplySellState sets the sell-state of the selection.
func (e *Editor) ApplySellState(state string) Mutation {
	e.mu.Lock()
	defer e.mu.Unlock()
	ss := model.SanitizeSellState(state)
	return e.bulk("sell-state", func(s *layout.State) bool { return s.ApplySellState(ss) })
}

// ResetSellState marks the selection available.
func (e *Editor) ResetSellState() Mutation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bulk("reset-sell-state", (*layout.State).ResetSellState)
}

// Settings holds optional setting changes; nil fields are left alone.
type Settings struct {
	EventName        *string  `json:"eventName"`
	Zoom             *float64 `json:"zoom"`
	PriceSeat        *float64 `json:"priceSeat"`
	PriceTable       *float64 `json:"priceTable"`
	ShowNumbers      *bool    `json:"showNumbers"`
	AutoNumber       *bool    `json:"autoNumber"`
	ContinuousPaint  *bool    `json:"continuousPaint"`
	LegendVisible    *bool    `json:"legendVisible"`
	GridLinesVisible *bool    `json:"gridLinesVisible"`
	HistoryLimit     *int     `json:"historyLimit"`
}

// UpdateSettings applies the non-nil fields of in.  Settings are not
// checkpointed.
func (e *Editor) UpdateSettings(in Settings) Mutation {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.state
	if in.EventName != nil {
		s.EventName = *in.EventName
	}
	if in.Zoom != nil {
		s.SetZoom(*in.Zoom)
	}
	seat, table := s.PriceSeat, s.PriceTable
	if in.PriceSeat != nil {
		seat = *in.PriceSeat
	}
	if in.PriceTable != nil {
		table = *in.PriceTable
	}
	s.SetPrices(seat, table)
	setBool(&s.ShowNumbers, in.ShowNumbers)
	setBool(&s.AutoNumber, in.AutoNumber)
	setBool(&s.ContinuousPaint, in.ContinuousPaint)
	setBool(&s.LegendVisible, in.LegendVisible)
	setBool(&s.GridLinesVisible, in.GridLinesVisible)
	if in.HistoryLimit != nil {
		s.SetHistoryLimit(*in.HistoryLimit)
	}
	return e.commit("settings", 0)
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

// Resize checkpoints and replaces the grid with a blank one of the given
// size.
func (e *Editor) Resize(rows, cols int) Mutation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.resize(rows, cols)
}

func (e *Editor) resize(rows, cols int) Mutation {
	e.state.PushUndo("resize")
	e.state.ResetGrid(rows, cols)
	m := e.commit("resize", len(e.state.Cells))
	m.Reason = "resize"
	return m
}

// ApplyPreset resizes to a named preset.
func (e *Editor) ApplyPreset(name string) (Mutation, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := config.FindPreset(e.presets, name)
	if !ok {
		return Mutation{}, fmt.Errorf("%w %q (known: %s)", ErrUnknownPreset, name, strings.Join(config.PresetNames(e.presets), ", "))
	}
	return e.resize(p.Rows, p.Cols), nil
}

// Clear checkpoints and blanks every cell, keeping the dimensions.
func (e *Editor) Clear() Mutation {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.PushUndo("clear")
	e.state.ClearCells()
	m := e.commit("clear", len(e.state.Cells))
	m.Reason = "clear"
	return m
}

// Undo restores the latest checkpoint.  ok is false when there is nothing
// to undo.
func (e *Editor) Undo() (Mutation, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	reason, ok := e.state.Undo()
	if !ok {
		return Mutation{Revision: e.revision}, false
	}
	m := e.commit("undo", 0)
	m.Reason = reason
	return m, true
}

// Redo re-applies the latest undone checkpoint.
func (e *Editor) Redo() (Mutation, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	reason, ok := e.state.Redo()
	if !ok {
		return Mutation{Revision: e.revision}, false
	}
	m := e.commit("redo", 0)
	m.Reason = reason
	return m, true
}

// apply checkpoints and applies snap.  snap is validated first so a
// rejected snapshot leaves both the State and the history untouched.
func (e *Editor) apply(reason string, snap layout.Snapshot) error {
	if err := e.state.Check(snap); err != nil {
		return apperr.New(apperr.CodeApplyFailed, err)
	}
	e.state.PushUndo(reason)
	if err := e.state.Apply(snap); err != nil {
		return apperr.New(apperr.CodeApplyFailed, err)
	}
	e.commit(reason, len(e.state.Cells))
	return nil
}

// Save writes the State to the storage slot and publishes layout.saved.
// The event is built under the lock and published after it is released, so
// a slow broker delays only this call.
func (e *Editor) Save(ctx context.Context) (storage.Meta, error) {
	meta, ev, err := e.save(ctx)
	if err != nil {
		return storage.Meta{}, err
	}
	if ev != nil {
		e.publishSaved(ctx, *ev)
	}
	return meta, nil
}

func (e *Editor) save(ctx context.Context) (storage.Meta, *queue.LayoutSavedEvent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	meta, err := e.store.Save(ctx, e.state)
	e.metrics.Storage("save", resultOf(err))
	if err != nil {
		log.Printf("editor: save failed: %v", err)
		return storage.Meta{}, nil, err
	}
	if e.publisher == nil {
		return meta, nil, nil
	}
	ev := e.savedEvent(meta)
	return meta, &ev, nil
}

// Load reads the stored envelope and applies it as one undoable action.
func (e *Editor) Load(ctx context.Context) (storage.Meta, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	snap, meta, err := e.store.Load(ctx)
	if err == nil {
		err = e.apply("load", snap)
	}
	e.metrics.Storage("load", resultOf(err))
	if err != nil {
		return storage.Meta{}, err
	}
	return meta, nil
}

// HasSaved reports whether the slot holds a layout.
func (e *Editor) HasSaved(ctx context.Context) (bool, error) {
	return e.store.HasSaved(ctx)
}

// ClearSaved empties the storage slot.  The in-memory State is kept.
func (e *Editor) ClearSaved(ctx context.Context) error {
	err := e.store.Clear(ctx)
	e.metrics.Storage("clear", resultOf(err))
	return err
}

// Import applies an envelope given as text as one undoable action.
func (e *Editor) Import(text string) (storage.Meta, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	snap, meta, err := storage.ParseText(text)
	if err == nil {
		err = e.apply("import", snap)
	}
	e.metrics.Storage("import", resultOf(err))
	if err != nil {
		return storage.Meta{}, err
	}
	return meta, nil
}

// ExportText renders the State as an indented envelope.
func (e *Editor) ExportText() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return storage.ExportText(e.state, e.now())
}

func resultOf(err error) string {
	if err == nil {
		return "ok"
	}
	if code := apperr.CodeOf(err); code != "" {
		return string(code)
	}
	return "error"
}

// savedEvent summarises the State for layout.saved.  Callers hold e.mu.
func (e *Editor) savedEvent(meta storage.Meta) queue.LayoutSavedEvent {
	r := capacity.Compute(e.state.Cells, e.capacity)
	occ := capacity.ComputeOccupancy(e.state.Cells)
	return queue.LayoutSavedEvent{
		StorageKey: e.store.Key(),
		Backend:    e.backend,
		SavedAt:    meta.SavedAt,
		Revision:   e.revision,
		EventName:  e.state.EventName,
		Rows:       e.state.Rows,
		Cols:       e.state.Cols,
		Seats:      r.Totals.Seats,
		Tables:     r.Totals.Tables,
		Capacity:   r.Totals.Capacity,
		SoldPct:    occ.SoldPct,
		BySell: map[string]int{
			string(model.SellAvailable): r.BySellState.Available,
			string(model.SellReserved):  r.BySellState.Reserved,
			string(model.SellSold):      r.BySellState.Sold,
			string(model.SellBlocked):   r.BySellState.Blocked,
		},
		PublishedAt: e.now().UTC(),
	}
}

// publishSaved publishes a layout.saved event.  Failures are logged and
// counted, never returned.  It runs without e.mu held.
func (e *Editor) publishSaved(ctx context.Context, ev queue.LayoutSavedEvent) {
	err := e.publisher.PublishLayoutSaved(ctx, ev)
	e.metrics.Publish(err == nil)
	if err != nil {
		log.Printf("editor: publish layout.saved failed: %v", err)
	}
}
