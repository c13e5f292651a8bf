// Package refresh runs the console's background cadence: polling the inbox
// for new calls and keeping the access token fresh.
package refresh

import (
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler is a small registry over cron: every background task has an id
// and can be replaced or removed while running.
type Scheduler struct {
	cron    *cron.Cron
	jobs    map[string]cron.EntryID
	jobsMux sync.RWMutex
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithSeconds()),
		jobs: make(map[string]cron.EntryID),
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info().Msg("background refresh started")
}

// Stop halts scheduling and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info().Msg("background refresh stopped")
}

// Add registers (or replaces) a named task. The spec takes the usual cron
// forms plus @every durations.
func (s *Scheduler) Add(id, spec string, job func()) error {
	s.jobsMux.Lock()
	defer s.jobsMux.Unlock()

	if entryID, exists := s.jobs[id]; exists {
		s.cron.Remove(entryID)
		delete(s.jobs, id)
	}

	entryID, err := s.cron.AddFunc(spec, job)
	if err != nil {
		return fmt.Errorf("failed to schedule %s: %w", id, err)
	}
	s.jobs[id] = entryID
	log.Info().Str("task", id).Str("spec", spec).Msg("scheduled background task")
	return nil
}

func (s *Scheduler) Remove(id string) {
	s.jobsMux.Lock()
	defer s.jobsMux.Unlock()

	if entryID, exists := s.jobs[id]; exists {
		s.cron.Remove(entryID)
		delete(s.jobs, id)
	}
}

// Scheduled returns the ids of every registered task.
func (s *Scheduler) Scheduled() []string {
	s.jobsMux.RLock()
	defer s.jobsMux.RUnlock()

	ids := make([]string, 0, len(s.jobs))
	for id := range s.jobs {
		ids = append(ids, id)
	}
	return ids
}
