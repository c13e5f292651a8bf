package autosave

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrClosed is returned by SaveNow after the saver has been shut down.
var ErrClosed = errors.New("autosave: saver closed")

// errClean signals internally that there was nothing to send.
var errClean = errors.New("autosave: no changes")

// GroupConfig wires one field group to its save behavior.
type GroupConfig struct {
	// Name labels the group in logs and status snapshots.
	Name string
	// Quiet is how long the keyboard must be silent before a save fires.
	Quiet time.Duration
	// Display is how long the "saved" chip stays up before dropping to idle.
	Display time.Duration
	// Dirty reports whether the group currently differs from its last
	// confirmed server state. Checked at fire time, not at edit time.
	Dirty func() bool
	// Save pushes the group's current draft to the server. It must honor
	// ctx cancellation; a superseded attempt gets its context cancelled.
	Save func(ctx context.Context) error
	// OnChange, if set, receives every status transition. It must not call
	// back into the saver.
	OnChange func(Snapshot)
}

// GroupSaver runs the save cycle for a single field group: coalesce edits,
// skip clean saves, abort superseded requests, and only ever apply the
// outcome of the newest attempt. Groups are independent; one per field
// group.
type GroupSaver struct {
	cfg GroupConfig
	co  *Coalescer

	mu        sync.Mutex
	seq       uint64
	cancel    context.CancelFunc
	status    Status
	err       error
	lastSaved time.Time
	reset     *time.Timer
	closed    bool
	wg        sync.WaitGroup
}

func NewGroupSaver(cfg GroupConfig) *GroupSaver {
	if cfg.Display <= 0 {
		cfg.Display = 3 * time.Second
	}
	return &GroupSaver{
		cfg: cfg,
		co:  NewCoalescer(cfg.Quiet),
	}
}

// Touch records an edit: any saved/error chip is cleared and the quiet
// timer restarts. The actual save fires only after the group goes quiet.
func (g *GroupSaver) Touch() {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	var snap *Snapshot
	if g.status == StatusSaved || g.status == StatusError {
		g.stopResetLocked()
		s := g.transitionLocked(StatusIdle, nil)
		snap = &s
	}
	g.mu.Unlock()
	if snap != nil {
		g.emit(*snap)
	}
	g.co.Schedule(g.fire)
}

// Flush commits any pending or unsaved work now instead of waiting out the
// quiet period. The attempt still runs in the background.
func (g *GroupSaver) Flush() {
	g.co.Cancel()
	g.fire()
}

// SaveNow runs one save attempt synchronously and returns its outcome.
// A clean group returns nil without touching the network. If a newer
// attempt supersedes this one while it is in flight, the error comes back
// to the caller but the shared status is left to the newer attempt.
func (g *GroupSaver) SaveNow(ctx context.Context) error {
	g.co.Cancel()
	cctx, seq, snap, err := g.begin(ctx)
	if err != nil {
		if errors.Is(err, errClean) {
			return nil
		}
		return err
	}
	g.emit(snap)

	saveErr := g.cfg.Save(cctx)

	if snap, applied := g.finish(seq, saveErr); applied {
		g.emit(snap)
	}
	g.wg.Done()
	return saveErr
}

// Status returns the group's current save-cycle snapshot.
func (g *GroupSaver) Status() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

// Close cancels pending work, aborts any in-flight attempt, and waits for
// background attempts to drain. The saver is unusable afterwards.
func (g *GroupSaver) Close() {
	g.co.Cancel()
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.closed = true
	g.stopResetLocked()
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
	g.mu.Unlock()
	g.wg.Wait()
}

// fire is the coalescer callback: start a background save attempt for the
// current draft, superseding whatever is already in flight.
func (g *GroupSaver) fire() {
	ctx, seq, snap, err := g.begin(context.Background())
	if err != nil {
		return
	}
	g.emit(snap)

	go func() {
		defer g.wg.Done()
		saveErr := g.cfg.Save(ctx)
		if snap, applied := g.finish(seq, saveErr); applied {
			g.emit(snap)
		}
	}()
}

// begin opens a save attempt: abort the in-flight one, draw the next
// sequence number, and move to saving. Returns errClean when the group has
// nothing to send.
func (g *GroupSaver) begin(parent context.Context) (context.Context, uint64, Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return nil, 0, Snapshot{}, ErrClosed
	}
	if g.cfg.Dirty != nil && !g.cfg.Dirty() {
		return nil, 0, Snapshot{}, errClean
	}
	if g.cancel != nil {
		g.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	g.cancel = cancel
	g.seq++
	g.stopResetLocked()
	snap := g.transitionLocked(StatusSaving, nil)
	g.wg.Add(1)
	return ctx, g.seq, snap, nil
}

// finish applies an attempt's outcome if it is still the newest attempt.
// Superseded and aborted attempts change nothing.
func (g *GroupSaver) finish(seq uint64, saveErr error) (Snapshot, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed || seq != g.seq {
		return Snapshot{}, false
	}
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
	if saveErr != nil {
		if errors.Is(saveErr, context.Canceled) {
			// Aborted on purpose, not a failure. A newer attempt or Close
			// owns the status now.
			return Snapshot{}, false
		}
		log.Warn().Err(saveErr).Str("group", g.cfg.Name).Msg("autosave attempt failed")
		return g.transitionLocked(StatusError, saveErr), true
	}
	g.lastSaved = time.Now()
	snap := g.transitionLocked(StatusSaved, nil)
	g.armResetLocked()
	return snap, true
}

func (g *GroupSaver) transitionLocked(st Status, err error) Snapshot {
	g.status = st
	g.err = err
	return g.snapshotLocked()
}

func (g *GroupSaver) snapshotLocked() Snapshot {
	return Snapshot{
		Group:     g.cfg.Name,
		Status:    g.status,
		Err:       g.err,
		LastSaved: g.lastSaved,
	}
}

// armResetLocked schedules the saved→idle drop after the display window.
func (g *GroupSaver) armResetLocked() {
	g.stopResetLocked()
	g.reset = time.AfterFunc(g.cfg.Display, func() {
		g.mu.Lock()
		if g.closed || g.status != StatusSaved {
			g.mu.Unlock()
			return
		}
		snap := g.transitionLocked(StatusIdle, nil)
		g.mu.Unlock()
		g.emit(snap)
	})
}

func (g *GroupSaver) stopResetLocked() {
	if g.reset != nil {
		g.reset.Stop()
		g.reset = nil
	}
}

func (g *GroupSaver) emit(snap Snapshot) {
	if g.cfg.OnChange != nil {
		g.cfg.OnChange(snap)
	}
}
