package refresh

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddReplaceRemove(t *testing.T) {
	s := NewScheduler()

	require.NoError(t, s.Add("inbox-poll", "@every 1h", func() {}))
	require.NoError(t, s.Add("token-refresh", "@every 1h", func() {}))
	assert.ElementsMatch(t, []string{"inbox-poll", "token-refresh"}, s.Scheduled())

	// Replacing keeps one entry per id.
	require.NoError(t, s.Add("inbox-poll", "@every 2h", func() {}))
	assert.Len(t, s.Scheduled(), 2)

	s.Remove("inbox-poll")
	assert.Equal(t, []string{"token-refresh"}, s.Scheduled())

	s.Remove("never-added") // must not panic
}

func TestAddRejectsBadSpec(t *testing.T) {
	s := NewScheduler()
	err := s.Add("broken", "every now and then", func() {})
	assert.Error(t, err)
	assert.Empty(t, s.Scheduled())
}

func TestScheduledJobRuns(t *testing.T) {
	s := NewScheduler()
	var runs int32
	require.NoError(t, s.Add("tick", "@every 1s", func() { atomic.AddInt32(&runs, 1) }))

	s.Start()
	defer s.Stop()

	deadline := time.After(3 * time.Second)
	for atomic.LoadInt32(&runs) == 0 {
		select {
		case <-deadline:
			t.Fatal("job never ran")
		case <-time.After(50 * time.Millisecond):
		}
	}
}
