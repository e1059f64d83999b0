// Package history provides the undo/redo core of the annotation editor.
//
// A History owns an ordered list of annotation items together with a linear
// operation log and a cursor into it. The items always equal the log replayed
// from empty up to the cursor:
//
//	h := history.New()
//	h.Add(models.NewRectAnnotation("cat", 0, a, b))
//	h.Remove(0)
//	h.Undo() // the cat is back at index 0
//	h.Redo() // and gone again
//
// Any mutation made while the cursor is behind the end of the log discards the
// entries after the cursor, so there is never more than one redo branch.
//
// History is not safe for concurrent use. All methods run to completion and
// deliver their notifications synchronously before returning.
package history

import (
	"io"
	"log/slog"
	"time"

	"github.com/kilupskalvis/annotate/internal/models"
)

// History manages the annotation items of one image and their undo log.
type History struct {
	items    []models.Item
	log      []models.Operation
	cursor   int // index of the last applied log entry, -1 before the first
	selected int // -1 when nothing is selected

	notifier notifier
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a History.
type Option func(*History)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(h *History) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithClock overrides the time source used to stamp operations.
func WithClock(now func() time.Time) Option {
	return func(h *History) {
		if now != nil {
			h.now = now
		}
	}
}

// New creates an empty History.
func New(opts ...Option) *History {
	h := &History{
		cursor:   -1,
		selected: -1,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Subscribe registers an observer for change notifications.
func (h *History) Subscribe(o Observer) *Subscription {
	return h.notifier.subscribe(o)
}

// ==================== Mutations ====================

// Add appends an item and records it in the log.
func (h *History) Add(item models.Item) {
	h.record(models.Operation{Type: models.OperationPush, Item: item})
	h.items = append(h.items, item)

	h.notifier.emit(Event{Type: EventItemAdded, Item: item})
	h.changed()
}

// Remove deletes the item at idx, shifting later items down by one.
func (h *History) Remove(idx int) error {
	if err := h.checkIndex("remove", idx); err != nil {
		return err
	}
	h.record(models.Operation{Type: models.OperationRemove, Index: idx, Item: h.items[idx]})
	h.removeAt(idx)

	h.notifier.emit(Event{Type: EventItemRemoved, Index: idx})
	h.changed()
	return nil
}

// Modify replaces the item at idx.
func (h *History) Modify(idx int, item models.Item) error {
	if err := h.checkIndex("modify", idx); err != nil {
		return err
	}
	h.record(models.Operation{Type: models.OperationModify, Index: idx, Item: h.items[idx], Item2: item})
	h.items[idx] = item

	h.notifier.emit(Event{Type: EventItemModified, Item: item, Index: idx})
	h.changed()
	return nil
}

// record drops any redo branch and appends op as the new current entry.
func (h *History) record(op models.Operation) {
	op.Timestamp = h.now()
	h.log = append(h.log[:h.cursor+1:h.cursor+1], op)
	h.cursor = len(h.log) - 1
}

// ==================== Undo / Redo ====================

// Undo reverts the operation at the cursor. It returns false when already at
// the initial state.
func (h *History) Undo() bool {
	if h.cursor == -1 {
		h.logger.Debug("nothing to undo")
		return false
	}
	op := h.log[h.cursor]
	h.cursor--

	switch op.Type {
	case models.OperationPush:
		// Every entry after this push has been undone already, so the pushed
		// item is the tail.
		tail := len(h.items) - 1
		h.removeAt(tail)
		h.notifier.emit(Event{Type: EventItemRemoved, Index: tail})
	case models.OperationRemove:
		h.insertAt(op.Index, op.Item)
		h.notifier.emit(Event{Type: EventItemInserted, Item: op.Item, Index: op.Index})
		h.notifier.emit(Event{Type: EventLabelIDReturned, Label: op.Item.Identity().Label})
	case models.OperationModify:
		h.items[op.Index] = op.Item
		h.notifier.emit(Event{Type: EventItemModified, Item: op.Item, Index: op.Index})
	}

	h.logger.Debug("undo", "op", op.Description(), "cursor", h.cursor)
	h.changed()
	return true
}

// Redo reapplies the operation after the cursor. It returns false when already
// at the newest state.
func (h *History) Redo() bool {
	if h.cursor == len(h.log)-1 {
		h.logger.Debug("nothing to redo")
		return false
	}
	h.cursor++
	op := h.log[h.cursor]

	switch op.Type {
	case models.OperationPush:
		h.items = append(h.items, op.Item)
		h.notifier.emit(Event{Type: EventItemAdded, Item: op.Item})
	case models.OperationRemove:
		h.removeAt(op.Index)
		h.notifier.emit(Event{Type: EventItemRemoved, Index: op.Index})
	case models.OperationModify:
		h.items[op.Index] = op.Item2
		h.notifier.emit(Event{Type: EventItemModified, Item: op.Item2, Index: op.Index})
	}

	h.logger.Debug("redo", "op", op.Description(), "cursor", h.cursor)
	h.changed()
	return true
}

// CanUndo returns true if there is an operation to undo.
func (h *History) CanUndo() bool {
	return h.cursor != -1
}

// CanRedo returns true if there is an undone operation to reapply.
func (h *History) CanRedo() bool {
	return h.cursor != len(h.log)-1
}

// Cursor returns the index of the last applied log entry, or -1.
func (h *History) Cursor() int {
	return h.cursor
}

// Operations returns a copy of the full log, including undone entries.
func (h *History) Operations() []models.Operation {
	return append([]models.Operation(nil), h.log...)
}

// ==================== Selection ====================

// Select highlights the item at idx. Pass -1 to clear the selection.
// Selection is never recorded in the log.
func (h *History) Select(idx int) error {
	if idx != -1 {
		if err := h.checkIndex("select", idx); err != nil {
			return err
		}
	}
	h.selected = idx
	h.logger.Debug("select", "index", idx)
	h.notifier.emit(Event{Type: EventDataChanged})
	return nil
}

// Selected returns the selected index, or -1.
func (h *History) Selected() int {
	return h.selected
}

// SelectedItem returns the selected item. It fails with an index error when
// nothing is selected.
func (h *History) SelectedItem() (models.Item, error) {
	if h.selected == -1 {
		return nil, indexError("selected item", -1, len(h.items))
	}
	return h.items[h.selected], nil
}

// ==================== Queries ====================

// Len returns the number of current items.
func (h *History) Len() int {
	return len(h.items)
}

// At returns the item at idx.
func (h *History) At(idx int) (models.Item, error) {
	if err := h.checkIndex("at", idx); err != nil {
		return nil, err
	}
	return h.items[idx], nil
}

// Items returns a copy of the current items in order.
func (h *History) Items() []models.Item {
	return append([]models.Item(nil), h.items...)
}

// ContainsLabel returns true if any current item carries label.
func (h *History) ContainsLabel(label string) bool {
	for _, item := range h.items {
		if item.Identity().Label == label {
			return true
		}
	}
	return false
}

// NextInstanceID returns the id a new item with label should take: one more
// than the largest id ever used for label, counting current items and every
// item referenced by the log, undone entries included. Ids are therefore never
// reused within a session.
func (h *History) NextInstanceID(label string) (int, error) {
	maxID := -1
	consider := func(item models.Item) {
		if m := item.Identity(); m.Label == label && m.ID > maxID {
			maxID = m.ID
		}
	}
	for _, item := range h.items {
		consider(item)
	}
	for _, op := range h.log {
		for _, item := range op.Items() {
			consider(item)
		}
	}
	if maxID+1 > models.MaxInstanceID {
		return 0, &Error{Kind: KindRange, Op: "next instance id", Label: label}
	}
	return maxID + 1, nil
}

// ==================== Reset ====================

// Clear discards all items, the whole log, and the selection.
func (h *History) Clear() {
	h.items = nil
	h.log = nil
	h.cursor = -1
	h.selected = -1

	h.emitAvailability()
	h.notifier.emit(Event{Type: EventAllCleared})
}

// ==================== Helpers ====================

func (h *History) checkIndex(op string, idx int) error {
	if idx < 0 || idx >= len(h.items) {
		return indexError(op, idx, len(h.items))
	}
	return nil
}

func (h *History) removeAt(idx int) {
	h.items = append(h.items[:idx:idx], h.items[idx+1:]...)
	if h.selected >= len(h.items) {
		h.selected = -1
	}
}

func (h *History) insertAt(idx int, item models.Item) {
	items := make([]models.Item, 0, len(h.items)+1)
	items = append(items, h.items[:idx]...)
	items = append(items, item)
	h.items = append(items, h.items[idx:]...)
}

// changed emits the trailing notifications shared by every state change.
func (h *History) changed() {
	h.notifier.emit(Event{Type: EventDataChanged})
	h.emitAvailability()
}

func (h *History) emitAvailability() {
	h.notifier.emit(Event{Type: EventUndoAvailable, Enabled: h.CanUndo()})
	h.notifier.emit(Event{Type: EventRedoAvailable, Enabled: h.CanRedo()})
}
