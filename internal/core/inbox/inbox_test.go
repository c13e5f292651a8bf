package inbox

import (
	"bytes"
	"context"
	"encoding/binary"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/frontdeskhq/console/internal/api"
	"github.com/frontdeskhq/console/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeBackend struct {
	mu        sync.Mutex
	calls     map[string]models.CallDetail
	listOpts  []api.CallListOptions
	readIDs   []string
	noteSaves []string
	recording []byte
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{calls: map[string]models.CallDetail{}}
}

func (f *fakeBackend) ListCalls(ctx context.Context, opts api.CallListOptions) (models.CallListResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listOpts = append(f.listOpts, opts)
	return models.CallListResult{TotalCount: len(f.calls)}, nil
}

func (f *fakeBackend) GetCall(ctx context.Context, id string) (models.CallDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[id], nil
}

func (f *fakeBackend) MarkCallRead(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readIDs = append(f.readIDs, id)
	return nil
}

func (f *fakeBackend) SaveCallNotes(ctx context.Context, id, notes string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.noteSaves = append(f.noteSaves, notes)
	return nil
}

func (f *fakeBackend) FetchRecording(ctx context.Context, id string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.recording, nil
}

func (f *fakeBackend) reads() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.readIDs...)
}

func (f *fakeBackend) notes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.noteSaves...)
}

// buildWAV writes a minimal PCM RIFF file: 16-bit little-endian samples,
// duplicated across channels.
func buildWAV(samples []int16, rate, channels int) []byte {
	var data bytes.Buffer
	for _, s := range samples {
		for ch := 0; ch < channels; ch++ {
			binary.Write(&data, binary.LittleEndian, s)
		}
	}

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+data.Len()))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(rate))
	binary.Write(&buf, binary.LittleEndian, uint32(rate*channels*2))
	binary.Write(&buf, binary.LittleEndian, uint16(channels*2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(data.Len()))
	buf.Write(data.Bytes())
	return buf.Bytes()
}

func TestPeaksFromWAV(t *testing.T) {
	wav := buildWAV([]int16{0, 16384, -32768, 8192}, 8000, 1)

	wf, err := PeaksFromWAV(wav, 2)
	require.NoError(t, err)

	require.Len(t, wf.Peaks, 2)
	assert.InDelta(t, 0.5, wf.Peaks[0], 1e-6)
	assert.InDelta(t, 1.0, wf.Peaks[1], 1e-6)
	assert.Equal(t, 8000, wf.SampleRate)
	assert.Equal(t, time.Duration(4)*time.Second/8000, wf.Duration)
}

func TestPeaksFromWAVStereo(t *testing.T) {
	wav := buildWAV([]int16{16384, -16384}, 8000, 2)

	wf, err := PeaksFromWAV(wav, 1)
	require.NoError(t, err)
	require.Len(t, wf.Peaks, 1)
	assert.InDelta(t, 0.5, wf.Peaks[0], 1e-6)
}

func TestPeaksBucketCountClampsToFrames(t *testing.T) {
	wav := buildWAV([]int16{1, 2, 3}, 8000, 1)

	wf, err := PeaksFromWAV(wav, 64)
	require.NoError(t, err)
	assert.Len(t, wf.Peaks, 3, "cannot have more buckets than frames")
}

func TestPeaksRejectsGarbage(t *testing.T) {
	_, err := PeaksFromWAV([]byte("this is not audio"), 8)
	assert.Error(t, err)

	_, err = PeaksFromWAV(nil, 8)
	assert.Error(t, err)

	// Valid RIFF framing but a non-PCM format code.
	wav := buildWAV([]int16{1}, 8000, 1)
	wav[20] = 3 // format field
	_, err = PeaksFromWAV(wav, 8)
	assert.Error(t, err)
}

func TestPageComputesOffset(t *testing.T) {
	be := newFakeBackend()
	svc := NewService(be)

	_, err := svc.Page(context.Background(), 2, true)
	require.NoError(t, err)

	require.Len(t, be.listOpts, 1)
	assert.Equal(t, DefaultPageSize, be.listOpts[0].Limit)
	assert.Equal(t, 2*DefaultPageSize, be.listOpts[0].Offset)
	assert.True(t, be.listOpts[0].UnreadOnly)
}

func TestOpenMarksUnreadCallRead(t *testing.T) {
	be := newFakeBackend()
	be.calls["c-1"] = models.CallDetail{
		Call: models.Call{ID: "c-1", CallerName: "Dana", Unread: true},
	}
	svc := NewService(be)

	d, err := svc.Open(context.Background(), "c-1")
	require.NoError(t, err)
	assert.False(t, d.Unread, "the open view never shows the badge")

	svc.Wait()
	assert.Equal(t, []string{"c-1"}, be.reads())
}

func TestOpenLeavesReadCallAlone(t *testing.T) {
	be := newFakeBackend()
	be.calls["c-2"] = models.CallDetail{Call: models.Call{ID: "c-2"}}
	svc := NewService(be)

	_, err := svc.Open(context.Background(), "c-2")
	require.NoError(t, err)
	svc.Wait()
	assert.Empty(t, be.reads())
}

func TestAvailableSections(t *testing.T) {
	bare := models.CallDetail{Call: models.Call{ID: "c"}}
	assert.Equal(t, []models.SectionID{models.SectionSummary}, AvailableSections(bare))

	full := models.CallDetail{
		Call:       models.Call{ID: "c"},
		Transcript: []models.TranscriptTurn{{Role: "caller", Text: "Hi"}},
	}
	assert.Equal(t, models.DefaultSectionOrder(), AvailableSections(full))
}

func TestNotesEditorCoalescesWrites(t *testing.T) {
	be := newFakeBackend()
	n := NewNotesEditor(be, "c-1", "", 20*time.Millisecond, nil)
	defer n.Close()

	n.Set("Call back")
	n.Set("Call back Tuesday")
	n.Set("Call back Tuesday morning ")
	time.Sleep(70 * time.Millisecond)

	require.Equal(t, []string{"Call back Tuesday morning"}, be.notes(), "one trimmed write per burst")
}

func TestNotesEditorSkipsCleanDraft(t *testing.T) {
	be := newFakeBackend()
	n := NewNotesEditor(be, "c-1", "Existing note", 15*time.Millisecond, nil)
	defer n.Close()

	n.Set("Existing note  ")
	time.Sleep(60 * time.Millisecond)

	assert.Empty(t, be.notes())
}
