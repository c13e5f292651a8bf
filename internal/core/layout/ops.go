// Package layout keeps the per-user arrangement of the call detail sections:
// their order and which ones are collapsed.
package layout

import "github.com/frontdeskhq/console/internal/models"

// Reorder moves source into target's slot and returns the new order.
// Moving down shifts the passed-over sections up; moving up shifts them
// down. Unknown sections and source==target leave the order untouched.
func Reorder(order []models.SectionID, source, target models.SectionID) []models.SectionID {
	out := append([]models.SectionID(nil), order...)
	if source == target {
		return out
	}
	si, ti := index(out, source), index(out, target)
	if si < 0 || ti < 0 {
		return out
	}
	out = append(out[:si], out[si+1:]...)
	// After removal the target sits one slot earlier when the source came
	// from above it. Re-find it so the source lands exactly on its slot.
	ti = index(out, target)
	if si < ti+1 {
		ti++ // moving down: land after the target
	}
	insert := append([]models.SectionID(nil), out[:ti]...)
	insert = append(insert, source)
	insert = append(insert, out[ti:]...)
	return insert
}

// ToggleCollapse flips one section's collapsed flag and returns the new map.
func ToggleCollapse(collapsed map[models.SectionID]bool, id models.SectionID) map[models.SectionID]bool {
	out := make(map[models.SectionID]bool, len(collapsed)+1)
	for k, v := range collapsed {
		out[k] = v
	}
	out[id] = !out[id]
	return out
}

// Merge reconciles stored preferences with the sections a call actually
// has: sections the call lacks are dropped, sections the stored order never
// saw are appended in their default position order.
func Merge(stored models.CallLayoutPreferences, available []models.SectionID) models.CallLayoutPreferences {
	avail := make(map[models.SectionID]bool, len(available))
	for _, id := range available {
		avail[id] = true
	}

	order := make([]models.SectionID, 0, len(available))
	seen := make(map[models.SectionID]bool, len(available))
	for _, id := range stored.SectionOrder {
		if avail[id] && !seen[id] {
			order = append(order, id)
			seen[id] = true
		}
	}
	for _, id := range available {
		if !seen[id] {
			order = append(order, id)
		}
	}

	collapsed := make(map[models.SectionID]bool)
	for id, v := range stored.CollapsedSections {
		if avail[id] && v {
			collapsed[id] = true
		}
	}

	return models.CallLayoutPreferences{SectionOrder: order, CollapsedSections: collapsed}
}

func index(order []models.SectionID, id models.SectionID) int {
	for i, v := range order {
		if v == id {
			return i
		}
	}
	return -1
}
