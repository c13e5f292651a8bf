package autosave

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestCoalescerCollapsesBurst(t *testing.T) {
	var calls int32
	c := NewCoalescer(30 * time.Millisecond)

	for i := 0; i < 5; i++ {
		c.Schedule(func() { atomic.AddInt32(&calls, 1) })
		time.Sleep(5 * time.Millisecond)
	}

	assert.Equal(t, int32(0), atomic.LoadInt32(&calls), "must wait out the quiet period")
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "burst collapses to one call")
}

func TestCoalescerLastCallWins(t *testing.T) {
	var got int32
	c := NewCoalescer(20 * time.Millisecond)

	c.Schedule(func() { atomic.StoreInt32(&got, 1) })
	c.Schedule(func() { atomic.StoreInt32(&got, 2) })

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(2), atomic.LoadInt32(&got))
}

func TestCoalescerCancel(t *testing.T) {
	var calls int32
	c := NewCoalescer(20 * time.Millisecond)

	c.Schedule(func() { atomic.AddInt32(&calls, 1) })
	c.Cancel()
	assert.False(t, c.Pending())

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestCoalescerFlush(t *testing.T) {
	var calls int32
	c := NewCoalescer(time.Hour)

	c.Flush() // nothing pending, nothing happens
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))

	c.Schedule(func() { atomic.AddInt32(&calls, 1) })
	c.Flush()
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.False(t, c.Pending())

	c.Flush() // already flushed, must not run twice
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGroupSaverBurstMakesOneAttempt(t *testing.T) {
	var attempts int32
	g := NewGroupSaver(GroupConfig{
		Name:  "profile",
		Quiet: 25 * time.Millisecond,
		Dirty: func() bool { return true },
		Save: func(ctx context.Context) error {
			atomic.AddInt32(&attempts, 1)
			return nil
		},
	})
	defer g.Close()

	g.Touch()
	g.Touch()
	g.Touch()

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
	assert.Equal(t, StatusSaved, g.Status().Status)
}

func TestGroupSaverSkipsCleanGroup(t *testing.T) {
	var attempts int32
	g := NewGroupSaver(GroupConfig{
		Name:  "services",
		Quiet: 10 * time.Millisecond,
		Dirty: func() bool { return false },
		Save: func(ctx context.Context) error {
			atomic.AddInt32(&attempts, 1)
			return nil
		},
	})
	defer g.Close()

	g.Touch()
	time.Sleep(40 * time.Millisecond)

	assert.Equal(t, int32(0), atomic.LoadInt32(&attempts), "clean group never touches the network")
	assert.Equal(t, StatusIdle, g.Status().Status)
}

func TestGroupSaverAbortsSupersededAttempt(t *testing.T) {
	var attempts int32
	firstStarted := make(chan struct{})
	g := NewGroupSaver(GroupConfig{
		Name:  "faqs",
		Quiet: 10 * time.Millisecond,
		Dirty: func() bool { return true },
		Save: func(ctx context.Context) error {
			n := atomic.AddInt32(&attempts, 1)
			if n == 1 {
				close(firstStarted)
				<-ctx.Done() // aborted by the second attempt
				return ctx.Err()
			}
			return nil
		},
	})
	defer g.Close()

	g.Touch()
	select {
	case <-firstStarted:
	case <-time.After(time.Second):
		t.Fatal("first attempt never started")
	}

	g.Touch()
	time.Sleep(60 * time.Millisecond)

	assert.Equal(t, int32(2), atomic.LoadInt32(&attempts))
	snap := g.Status()
	assert.Equal(t, StatusSaved, snap.Status, "abort of the old attempt is not an error")
	assert.NoError(t, snap.Err)
}

func TestGroupSaverDiscardsStaleOutcome(t *testing.T) {
	// The first attempt ignores its abort and limps home with an error after
	// the second already succeeded. Its outcome must be dropped.
	var attempts int32
	g := NewGroupSaver(GroupConfig{
		Name:  "greeting",
		Quiet: 10 * time.Millisecond,
		Dirty: func() bool { return true },
		Save: func(ctx context.Context) error {
			if atomic.AddInt32(&attempts, 1) == 1 {
				time.Sleep(90 * time.Millisecond)
				return errors.New("stale failure")
			}
			return nil
		},
	})
	defer g.Close()

	g.Touch()
	time.Sleep(25 * time.Millisecond) // first attempt is in flight now
	g.Touch()
	time.Sleep(120 * time.Millisecond) // both attempts have returned

	snap := g.Status()
	assert.Equal(t, StatusSaved, snap.Status, "stale failure must not overwrite the newer success")
	assert.NoError(t, snap.Err)
}

func TestGroupSaverErrorThenEditClearsChip(t *testing.T) {
	var fail int32 = 1
	g := NewGroupSaver(GroupConfig{
		Name:  "profile",
		Quiet: 10 * time.Millisecond,
		Dirty: func() bool { return true },
		Save: func(ctx context.Context) error {
			if atomic.LoadInt32(&fail) == 1 {
				return errors.New("boom")
			}
			return nil
		},
	})
	defer g.Close()

	g.Touch()
	time.Sleep(40 * time.Millisecond)
	snap := g.Status()
	require.Equal(t, StatusError, snap.Status)
	require.EqualError(t, snap.Err, "boom")

	atomic.StoreInt32(&fail, 0)
	g.Touch() // typing again clears the error chip right away
	assert.Equal(t, StatusIdle, g.Status().Status)

	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, StatusSaved, g.Status().Status)
}

func TestGroupSaverSavedChipDropsToIdle(t *testing.T) {
	g := NewGroupSaver(GroupConfig{
		Name:    "profile",
		Quiet:   10 * time.Millisecond,
		Display: 40 * time.Millisecond,
		Dirty:   func() bool { return true },
		Save:    func(ctx context.Context) error { return nil },
	})
	defer g.Close()

	g.Touch()
	time.Sleep(30 * time.Millisecond)
	require.Equal(t, StatusSaved, g.Status().Status)

	time.Sleep(60 * time.Millisecond)
	snap := g.Status()
	assert.Equal(t, StatusIdle, snap.Status)
	assert.False(t, snap.LastSaved.IsZero(), "last-saved time survives the chip")
}

func TestGroupSaverSaveNow(t *testing.T) {
	var attempts int32
	dirty := int32(1)
	g := NewGroupSaver(GroupConfig{
		Name:  "profile",
		Quiet: time.Hour, // only explicit saves in this test
		Dirty: func() bool { return atomic.LoadInt32(&dirty) == 1 },
		Save: func(ctx context.Context) error {
			atomic.AddInt32(&attempts, 1)
			return nil
		},
	})
	defer g.Close()

	require.NoError(t, g.SaveNow(context.Background()))
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
	assert.Equal(t, StatusSaved, g.Status().Status)

	atomic.StoreInt32(&dirty, 0)
	require.NoError(t, g.SaveNow(context.Background()))
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts), "clean group short-circuits")
}

func TestGroupSaverSaveNowReportsFailure(t *testing.T) {
	g := NewGroupSaver(GroupConfig{
		Name:  "profile",
		Quiet: time.Hour,
		Dirty: func() bool { return true },
		Save:  func(ctx context.Context) error { return errors.New("offline") },
	})
	defer g.Close()

	err := g.SaveNow(context.Background())
	require.EqualError(t, err, "offline")
	assert.Equal(t, StatusError, g.Status().Status)
}

func TestGroupSaverFlushSkipsQuietPeriod(t *testing.T) {
	var attempts int32
	g := NewGroupSaver(GroupConfig{
		Name:  "profile",
		Quiet: time.Hour,
		Dirty: func() bool { return true },
		Save: func(ctx context.Context) error {
			atomic.AddInt32(&attempts, 1)
			return nil
		},
	})
	defer g.Close()

	g.Touch()
	assert.Equal(t, int32(0), atomic.LoadInt32(&attempts))

	g.Flush()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestGroupSaverCloseAbortsInFlight(t *testing.T) {
	started := make(chan struct{})
	g := NewGroupSaver(GroupConfig{
		Name:  "profile",
		Quiet: 5 * time.Millisecond,
		Dirty: func() bool { return true },
		Save: func(ctx context.Context) error {
			close(started)
			<-ctx.Done()
			return ctx.Err()
		},
	})

	g.Touch()
	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("attempt never started")
	}

	g.Close() // must cancel the in-flight attempt and drain

	assert.ErrorIs(t, g.SaveNow(context.Background()), ErrClosed)
	g.Touch() // no-op after close, must not panic
}

func TestGroupSaverStatusCallbacks(t *testing.T) {
	var seen []Status
	done := make(chan struct{})
	g := NewGroupSaver(GroupConfig{
		Name:  "profile",
		Quiet: 10 * time.Millisecond,
		Dirty: func() bool { return true },
		Save:  func(ctx context.Context) error { return nil },
		OnChange: func(s Snapshot) {
			seen = append(seen, s.Status)
			if s.Status == StatusSaved {
				close(done)
			}
		},
	})

	g.Touch()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("never reached saved")
	}
	g.Close()

	assert.Equal(t, []Status{StatusSaving, StatusSaved}, seen)
}
