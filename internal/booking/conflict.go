package booking

// Assignment commits one painting to one exhibition for a period.
type Assignment struct {
	ID           string
	PaintingID   string
	ExhibitionID string
	Period       Period
}

// Conflict names an existing assignment that collides with a candidate.
type Conflict struct {
	PaintingID       string
	WithExhibitionID string
	WithAssignmentID string
	Period           Period
}

// DetectConflicts returns every existing assignment that holds the candidate's
// painting over an overlapping period in a different exhibition. Assignments of
// the candidate's own exhibition are the set being rebuilt and never conflict.
func DetectConflicts(existing []Assignment, candidate Assignment) []Conflict {
	var conflicts []Conflict
	for _, a := range existing {
		if a.PaintingID != candidate.PaintingID {
			continue
		}
		if candidate.ExhibitionID != "" && a.ExhibitionID == candidate.ExhibitionID {
			continue
		}
		if !a.Period.Overlaps(candidate.Period) {
			continue
		}
		conflicts = append(conflicts, Conflict{
			PaintingID:       a.PaintingID,
			WithExhibitionID: a.ExhibitionID,
			WithAssignmentID: a.ID,
			Period:           a.Period,
		})
	}
	return conflicts
}

// BusyPaintings returns the IDs of paintings held by any assignment overlapping
// period, ignoring assignments that belong to excludeExhibitionID.
func BusyPaintings(existing []Assignment, period Period, excludeExhibitionID string) map[string]struct{} {
	busy := make(map[string]struct{})
	for _, a := range existing {
		if excludeExhibitionID != "" && a.ExhibitionID == excludeExhibitionID {
			continue
		}
		if a.Period.Overlaps(period) {
			busy[a.PaintingID] = struct{}{}
		}
	}
	return busy
}
