package layout

// DefaultReason labels checkpoints pushed without a reason.
const DefaultReason = "change"

// HistoryEntry is one checkpoint: how to get back to the State as it was
// before the action named by Reason.
type HistoryEntry struct {
	Reason   string
	Snapshot Snapshot
}

// PushUndo checkpoints the current State.  It must run before the mutation
// it protects.  The oldest entry is evicted once HistoryLimit is exceeded
// and the redo branch is discarded.
func (s *State) PushUndo(reason string) {
	if reason == "" {
		reason = DefaultReason
	}
	s.UndoStack = pushBounded(s.UndoStack, HistoryEntry{Reason: reason, Snapshot: s.Snapshot()}, s.historyLimit())
	s.RedoStack = nil
}

// Undo restores the most recent checkpoint and moves the current State onto
// the redo stack.  It returns the restored entry's reason, or false when
// there is nothing to undo.
func (s *State) Undo() (string, bool) {
	if len(s.UndoStack) == 0 {
		return "", false
	}
	entry := s.UndoStack[len(s.UndoStack)-1]
	current := s.Snapshot()
	if err := s.Apply(entry.Snapshot); err != nil {
		return "", false
	}
	s.UndoStack = s.UndoStack[:len(s.UndoStack)-1]
	s.RedoStack = pushBounded(s.RedoStack, HistoryEntry{Reason: entry.Reason, Snapshot: current}, s.historyLimit())
	return entry.Reason, true
}

// Redo is the mirror of Undo.
func (s *State) Redo() (string, bool) {
	if len(s.RedoStack) == 0 {
		return "", false
	}
	entry := s.RedoStack[len(s.RedoStack)-1]
	current := s.Snapshot()
	if err := s.Apply(entry.Snapshot); err != nil {
		return "", false
	}
	s.RedoStack = s.RedoStack[:len(s.RedoStack)-1]
	s.UndoStack = pushBounded(s.UndoStack, HistoryEntry{Reason: entry.Reason, Snapshot: current}, s.historyLimit())
	return entry.Reason, true
}

// CanUndo reports whether Undo would do anything.
func (s *State) CanUndo() bool { return len(s.UndoStack) > 0 }

// CanRedo reports whether Redo would do anything.
func (s *State) CanRedo() bool { return len(s.RedoStack) > 0 }

func (s *State) historyLimit() int { return sanitizeHistoryLimit(s.HistoryLimit) }

func pushBounded(stack []HistoryEntry, e HistoryEntry, limit int) []HistoryEntry {
	return trimOldest(append(stack, e), limit)
}

// trimOldest keeps the newest limit entries.
func trimOldest(stack []HistoryEntry, limit int) []HistoryEntry {
	if len(stack) <= limit {
		return stack
	}
	out := make([]HistoryEntry, limit)
	copy(out, stack[len(stack)-limit:])
	return out
}
