// Package inbox drives the call list and call detail: paging, unread
// state, notes, and the recording waveform.
package inbox

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/frontdeskhq/console/internal/api"
	"github.com/frontdeskhq/console/internal/models"
)

// Backend is the slice of the API the inbox needs.
type Backend interface {
	ListCalls(ctx context.Context, opts api.CallListOptions) (models.CallListResult, error)
	GetCall(ctx context.Context, id string) (models.CallDetail, error)
	MarkCallRead(ctx context.Context, id string) error
	SaveCallNotes(ctx context.Context, id, notes string) error
	FetchRecording(ctx context.Context, id string) ([]byte, error)
}

const DefaultPageSize = 25

type Service struct {
	backend Backend
	wg      sync.WaitGroup
}

func NewService(backend Backend) *Service {
	return &Service{backend: backend}
}

// Wait blocks until background mark-read calls have finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

// Page fetches one page of the call list.
func (s *Service) Page(ctx context.Context, page int, unreadOnly bool) (models.CallListResult, error) {
	if page < 0 {
		page = 0
	}
	res, err := s.backend.ListCalls(ctx, api.CallListOptions{
		Limit:      DefaultPageSize,
		Offset:     page * DefaultPageSize,
		UnreadOnly: unreadOnly,
	})
	if err != nil {
		return models.CallListResult{}, fmt.Errorf("failed to list calls: %w", err)
	}
	return res, nil
}

// Open fetches one call and, when it was unread, marks it read in the
// background. The returned detail already has Unread cleared; a failed
// mark-read only logs and the badge reappears on the next list fetch.
func (s *Service) Open(ctx context.Context, id string) (models.CallDetail, error) {
	d, err := s.backend.GetCall(ctx, id)
	if err != nil {
		return models.CallDetail{}, fmt.Errorf("failed to open call: %w", err)
	}
	if d.Unread {
		d.Unread = false
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := s.backend.MarkCallRead(context.Background(), id); err != nil {
				log.Warn().Err(err).Str("call_id", id).Msg("could not mark call read")
			}
		}()
	}
	return d, nil
}

// Recording fetches the call's WAV and reduces it to peak buckets for the
// waveform strip.
func (s *Service) Recording(ctx context.Context, id string, buckets int) (Waveform, error) {
	data, err := s.backend.FetchRecording(ctx, id)
	if err != nil {
		return Waveform{}, fmt.Errorf("failed to fetch recording: %w", err)
	}
	return PeaksFromWAV(data, buckets)
}

// AvailableSections reports which detail sections a call can show: the
// summary always, transcript and notes only when a transcript exists.
func AvailableSections(d models.CallDetail) []models.SectionID {
	if len(d.Transcript) == 0 {
		return []models.SectionID{models.SectionSummary}
	}
	return models.DefaultSectionOrder()
}
