package inbox

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/frontdeskhq/console/internal/core/autosave"
)

// NotesEditor autosaves the notes field of one open call with the same
// cycle the profile groups use: coalesce, skip clean, abort superseded.
type NotesEditor struct {
	backend Backend
	callID  string
	saver   *autosave.GroupSaver

	mu       sync.Mutex
	draft    string
	baseline string
}

func NewNotesEditor(backend Backend, callID, current string, quiet time.Duration, onStatus func(autosave.Snapshot)) *NotesEditor {
	n := &NotesEditor{
		backend:  backend,
		callID:   callID,
		draft:    current,
		baseline: current,
	}
	n.saver = autosave.NewGroupSaver(autosave.GroupConfig{
		Name:     "notes",
		Quiet:    quiet,
		Dirty:    n.dirty,
		Save:     n.save,
		OnChange: onStatus,
	})
	return n
}

func (n *NotesEditor) Set(text string) {
	n.mu.Lock()
	n.draft = text
	n.mu.Unlock()
	n.saver.Touch()
}

func (n *NotesEditor) Draft() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.draft
}

func (n *NotesEditor) Status() autosave.Snapshot {
	return n.saver.Status()
}

// Flush commits pending notes, for leaving the call.
func (n *NotesEditor) Flush() {
	n.saver.Flush()
}

func (n *NotesEditor) Close() {
	n.saver.Close()
}

func (n *NotesEditor) dirty() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return strings.TrimSpace(n.draft) != strings.TrimSpace(n.baseline)
}

func (n *NotesEditor) save(ctx context.Context) error {
	n.mu.Lock()
	payload := strings.TrimSpace(n.draft)
	n.mu.Unlock()

	if err := n.backend.SaveCallNotes(ctx, n.callID, payload); err != nil {
		return err
	}
	n.mu.Lock()
	n.baseline = payload
	n.mu.Unlock()
	return nil
}
