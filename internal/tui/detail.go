package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/frontdeskhq/console/internal/api"
	"github.com/frontdeskhq/console/internal/core/autosave"
	"github.com/frontdeskhq/console/internal/core/inbox"
	"github.com/frontdeskhq/console/internal/core/layout"
	"github.com/frontdeskhq/console/internal/models"
)

var sectionTitles = map[models.SectionID]string{
	models.SectionSummary:    "Summary",
	models.SectionTranscript: "Transcript",
	models.SectionNotes:      "Notes",
}

// detailModel is one open call: its sections in the user's saved order,
// the recording waveform, and the autosaving notes editor.
type detailModel struct {
	styles *Styles
	width  int
	height int

	call  models.CallDetail
	prefs models.CallLayoutPreferences
	store *layout.Store
	notes *inbox.NotesEditor

	cursor       int
	editingNotes bool
	notesArea    textarea.Model
	notesChip    autosave.Snapshot

	wave        inbox.Waveform
	waveErr     string
	waveLoading bool
}

func newDetailModel(styles *Styles) detailModel {
	area := textarea.New()
	area.Placeholder = "Notes about this call…"
	area.SetHeight(4)
	area.ShowLineNumbers = false
	return detailModel{styles: styles, notesArea: area}
}

func (d *detailModel) setSize(w, h int) {
	d.width = w
	d.height = h
	inner := w - 6
	if inner < 20 {
		inner = 20
	}
	d.notesArea.SetWidth(inner)
}

// open takes over a freshly fetched call. The notes editor is owned from
// here until close.
func (d *detailModel) open(call models.CallDetail, prefs models.CallLayoutPreferences, store *layout.Store, notes *inbox.NotesEditor) {
	d.close()
	d.call = call
	d.prefs = prefs
	d.store = store
	d.notes = notes
	d.cursor = 0
	d.notesChip = autosave.Snapshot{}
	d.notesArea.SetValue(call.Notes)
	d.notesArea.Blur()
	d.wave = inbox.Waveform{}
	d.waveErr = ""
	d.waveLoading = call.HasRecording
}

// close commits pending notes and releases the editor. Safe to call twice.
func (d *detailModel) close() {
	if d.notes != nil {
		d.notes.Flush()
		d.notes.Close()
		d.notes = nil
	}
	d.editingNotes = false
	d.notesArea.Blur()
}

func (d *detailModel) setStatus(snap autosave.Snapshot) {
	d.notesChip = snap
}

func (d *detailModel) setWaveform(msg waveformMsg) {
	if msg.id != d.call.ID {
		return
	}
	d.waveLoading = false
	if msg.err != nil {
		d.waveErr = api.Humanize(msg.err)
		return
	}
	d.wave = msg.wave
	d.waveErr = ""
}

func (d detailModel) typing() bool {
	return d.editingNotes
}

func (d detailModel) sectionAt(i int) (models.SectionID, bool) {
	if i < 0 || i >= len(d.prefs.SectionOrder) {
		return "", false
	}
	return d.prefs.SectionOrder[i], true
}

func (d detailModel) hasNotesSection() bool {
	for _, id := range d.prefs.SectionOrder {
		if id == models.SectionNotes {
			return true
		}
	}
	return false
}

func (d detailModel) Update(msg tea.Msg) (detailModel, tea.Cmd) {
	if d.editingNotes {
		return d.updateNotes(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return d, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if d.cursor > 0 {
			d.cursor--
		}
	case "down", "j":
		if d.cursor < len(d.prefs.SectionOrder)-1 {
			d.cursor++
		}
	case "enter", " ":
		if id, ok := d.sectionAt(d.cursor); ok {
			d.prefs = d.store.ToggleCollapse(id)
		}
	case "K":
		if d.cursor > 0 {
			source, _ := d.sectionAt(d.cursor)
			target, _ := d.sectionAt(d.cursor - 1)
			d.prefs = d.store.Reorder(source, target)
			d.cursor--
		}
	case "J":
		if d.cursor < len(d.prefs.SectionOrder)-1 {
			source, _ := d.sectionAt(d.cursor)
			target, _ := d.sectionAt(d.cursor + 1)
			d.prefs = d.store.Reorder(source, target)
			d.cursor++
		}
	case "e":
		if d.hasNotesSection() {
			// Editing uncollapses the notes so the textarea is visible.
			if d.prefs.CollapsedSections[models.SectionNotes] {
				d.prefs = d.store.ToggleCollapse(models.SectionNotes)
			}
			d.editingNotes = true
			d.notesArea.Focus()
			return d, textarea.Blink
		}
	}
	return d, nil
}

func (d detailModel) updateNotes(msg tea.Msg) (detailModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		d.editingNotes = false
		d.notesArea.Blur()
		return d, nil
	}

	var cmd tea.Cmd
	before := d.notesArea.Value()
	d.notesArea, cmd = d.notesArea.Update(msg)
	if v := d.notesArea.Value(); v != before && d.notes != nil {
		d.notes.Set(v)
	}
	return d, cmd
}

func (d detailModel) View() string {
	var b strings.Builder

	b.WriteString(" " + d.styles.Title.Render(d.callerLine()))
	b.WriteString("\n")
	b.WriteString(" " + d.metaLine())
	b.WriteString("\n\n")

	for i, id := range d.prefs.SectionOrder {
		b.WriteString(d.sectionHeader(id, i == d.cursor))
		b.WriteString("\n")
		if !d.prefs.CollapsedSections[id] {
			b.WriteString(d.sectionBody(id))
		}
	}
	return b.String()
}

func (d detailModel) callerLine() string {
	name := d.call.CallerName
	if name == "" {
		name = d.call.CallerNumber
	}
	return name
}

func (d detailModel) metaLine() string {
	parts := []string{
		d.styles.Muted.Render(d.call.CallerNumber),
		d.styles.Muted.Render(d.call.StartedAt.Format("Mon Jan 2, 15:04")),
		d.styles.Outcome(d.call.Outcome),
		d.styles.Muted.Render(fmtCallDuration(d.call.DurationSeconds)),
	}
	return strings.Join(parts, d.styles.Muted.Render(" · "))
}

func (d detailModel) sectionHeader(id models.SectionID, selected bool) string {
	marker := "▾"
	if d.prefs.CollapsedSections[id] {
		marker = "▸"
	}
	title := sectionTitles[id]
	if id == models.SectionNotes {
		if chip := d.styles.Chip(d.notesChip); chip != "" {
			title += " " + chip
		}
	}
	if selected {
		return " " + d.styles.Selected.Render(marker+" "+title)
	}
	return " " + d.styles.Label.Render(marker+" "+title)
}

func (d detailModel) sectionBody(id models.SectionID) string {
	switch id {
	case models.SectionSummary:
		return d.summaryBody()
	case models.SectionTranscript:
		return d.transcriptBody()
	case models.SectionNotes:
		return d.notesBody()
	}
	return ""
}

func (d detailModel) summaryBody() string {
	var b strings.Builder
	if d.call.Summary != "" {
		b.WriteString("   " + wrap(d.call.Summary, d.width-6, "   ") + "\n")
	} else {
		b.WriteString("   " + d.styles.Muted.Render("No summary for this call.") + "\n")
	}

	if d.call.HasRecording {
		switch {
		case d.waveLoading:
			b.WriteString("   " + d.styles.Muted.Render("Loading recording…") + "\n")
		case d.waveErr != "":
			b.WriteString("   " + d.styles.Error.Render(d.waveErr) + "\n")
		case len(d.wave.Peaks) > 0:
			b.WriteString("   " + d.styles.Wave.Render(renderWave(d.wave.Peaks)))
			b.WriteString(" " + d.styles.Muted.Render(d.wave.Duration.Round(time.Second).String()) + "\n")
		}
	}
	b.WriteString("\n")
	return b.String()
}

func (d detailModel) transcriptBody() string {
	if len(d.call.Transcript) == 0 {
		return "   " + d.styles.Muted.Render("No transcript.") + "\n\n"
	}
	var b strings.Builder
	for _, turn := range d.call.Transcript {
		role := d.styles.Info.Render("Agent ")
		if turn.Role == "caller" {
			role = d.styles.Bold.Render("Caller")
		}
		b.WriteString(fmt.Sprintf("   %s  %s\n", role, wrap(turn.Text, d.width-12, "           ")))
	}
	b.WriteString("\n")
	return b.String()
}

func (d detailModel) notesBody() string {
	var b strings.Builder
	if d.editingNotes {
		b.WriteString(indent(d.notesArea.View(), "   "))
		b.WriteString("\n   " + d.styles.Muted.Render("esc stops editing; saves happen as you type.") + "\n")
	} else if v := d.notesArea.Value(); strings.TrimSpace(v) != "" {
		b.WriteString("   " + wrap(v, d.width-6, "   ") + "\n")
	} else {
		b.WriteString("   " + d.styles.Muted.Render("No notes yet. Press e to add some.") + "\n")
	}
	b.WriteString("\n")
	return b.String()
}

var waveRunes = []rune("▁▂▃▄▅▆▇█")

// renderWave maps [0,1] peaks onto block glyphs, one column per bucket.
func renderWave(peaks []float64) string {
	var b strings.Builder
	for _, p := range peaks {
		if p < 0 {
			p = 0
		}
		if p > 1 {
			p = 1
		}
		b.WriteRune(waveRunes[int(p*float64(len(waveRunes)-1)+0.5)])
	}
	return b.String()
}

// wrap folds text to the width, indenting continuation lines.
func wrap(text string, width int, cont string) string {
	if width < 16 {
		width = 16
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var b strings.Builder
	line := 0
	for i, w := range words {
		if i > 0 {
			if line+1+len(w) > width {
				b.WriteString("\n" + cont)
				line = 0
			} else {
				b.WriteString(" ")
				line++
			}
		}
		b.WriteString(w)
		line += len(w)
	}
	return b.String()
}

func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = prefix + lines[i]
	}
	return strings.Join(lines, "\n")
}
