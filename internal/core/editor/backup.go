package editor

import (
	"github.com/rs/zerolog/log"

	"github.com/frontdeskhq/console/internal/models"
)

// scheduleBackup writes the draft to disk shortly after the typing stops.
// Backups are best effort; a failed write only logs.
func (e *Editor) scheduleBackup() {
	if e.backup == nil {
		return
	}
	e.backupCo.Schedule(func() {
		draft := e.Draft()
		if err := e.backup.SaveDraft(backupKey, draft); err != nil {
			log.Warn().Err(err).Msg("could not back up profile draft")
		}
	})
}

// RestoreBackup installs a crash copy of the draft, if one exists. Call it
// after Load so the baseline still reflects the server.
func (e *Editor) RestoreBackup() (models.AgentProfile, bool) {
	if e.backup == nil {
		return models.AgentProfile{}, false
	}
	var p models.AgentProfile
	ok, err := e.backup.LoadDraft(backupKey, &p)
	if err != nil {
		log.Warn().Err(err).Msg("could not read profile draft backup")
		return models.AgentProfile{}, false
	}
	if !ok {
		return models.AgentProfile{}, false
	}
	e.mu.Lock()
	e.draft = p.Clone()
	e.mu.Unlock()
	return p, true
}
