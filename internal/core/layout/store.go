package layout

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/frontdeskhq/console/internal/core/autosave"
	"github.com/frontdeskhq/console/internal/models"
)

// Remote is the slice of the API the store needs.
type Remote interface {
	FetchCallLayout(ctx context.Context) (models.CallLayoutPreferences, error)
	SaveCallLayout(ctx context.Context, prefs models.CallLayoutPreferences) error
}

const persistQuiet = 300 * time.Millisecond

// Store holds the user's section layout. Mutations apply locally first and
// are pushed to the server in the background; a failed push keeps the local
// state and only leaves a log line. The remote copy is fetched once per
// session.
type Store struct {
	remote Remote
	co     *autosave.Coalescer

	mu     sync.Mutex
	prefs  models.CallLayoutPreferences
	loaded bool
	wg     sync.WaitGroup
}

func NewStore(remote Remote) *Store {
	return &Store{
		remote: remote,
		co:     autosave.NewCoalescer(persistQuiet),
		prefs: models.CallLayoutPreferences{
			SectionOrder:      models.DefaultSectionOrder(),
			CollapsedSections: map[models.SectionID]bool{},
		},
	}
}

// Load returns the preferences merged against the sections available on the
// current call. The remote copy is fetched on the first call only; a fetch
// error falls back to defaults and is not retried.
func (s *Store) Load(ctx context.Context, available []models.SectionID) models.CallLayoutPreferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		s.loaded = true
		prefs, err := s.remote.FetchCallLayout(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("could not fetch call layout, using defaults")
		} else {
			s.prefs = prefs
		}
	}
	s.prefs = Merge(s.prefs, available)
	return s.prefs
}

// Reorder moves source into target's slot, applies it locally, and
// schedules a background push.
func (s *Store) Reorder(source, target models.SectionID) models.CallLayoutPreferences {
	s.mu.Lock()
	s.prefs.SectionOrder = Reorder(s.prefs.SectionOrder, source, target)
	prefs := s.prefs
	s.mu.Unlock()
	s.schedulePersist()
	return prefs
}

// ToggleCollapse flips one section, applies it locally, and schedules a
// background push. Sections not present in the current order are ignored.
func (s *Store) ToggleCollapse(id models.SectionID) models.CallLayoutPreferences {
	s.mu.Lock()
	if index(s.prefs.SectionOrder, id) < 0 {
		prefs := s.prefs
		s.mu.Unlock()
		return prefs
	}
	s.prefs.CollapsedSections = ToggleCollapse(s.prefs.CollapsedSections, id)
	prefs := s.prefs
	s.mu.Unlock()
	s.schedulePersist()
	return prefs
}

// Current returns the preferences as they stand locally.
func (s *Store) Current() models.CallLayoutPreferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs
}

// Close pushes any pending layout change and waits for it to finish.
func (s *Store) Close() {
	s.co.Flush()
	s.wg.Wait()
}

// schedulePersist coalesces rapid toggles and drags into one push. The push
// always sends the state as of push time, so last write wins.
func (s *Store) schedulePersist() {
	s.co.Schedule(func() {
		s.mu.Lock()
		prefs := s.prefs
		s.mu.Unlock()

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.remote.SaveCallLayout(ctx, prefs); err != nil {
				log.Warn().Err(err).Msg("could not persist call layout")
			}
		}()
	})
}
