package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectConflicts(t *testing.T) {
	existing := []Assignment{
		{ID: "b1", PaintingID: "p1", ExhibitionID: "e1", Period: period(t, "2025-01-01", "2025-01-10")},
		{ID: "b2", PaintingID: "p2", ExhibitionID: "e1", Period: period(t, "2025-01-01", "2025-01-10")},
		{ID: "b3", PaintingID: "p1", ExhibitionID: "e3", Period: period(t, "2025-03-01", "2025-03-10")},
	}

	t.Run("same painting overlapping range in another exhibition conflicts", func(t *testing.T) {
		conflicts := DetectConflicts(existing, Assignment{PaintingID: "p1", ExhibitionID: "e2", Period: period(t, "2025-01-05", "2025-01-15")})
		require.Len(t, conflicts, 1)
		assert.Equal(t, "e1", conflicts[0].WithExhibitionID)
		assert.Equal(t, "b1", conflicts[0].WithAssignmentID)
	})

	t.Run("own exhibition never conflicts", func(t *testing.T) {
		conflicts := DetectConflicts(existing, Assignment{PaintingID: "p1", ExhibitionID: "e1", Period: period(t, "2025-01-01", "2025-01-10")})
		assert.Empty(t, conflicts)
	})

	t.Run("new exhibition without id is checked against everything", func(t *testing.T) {
		conflicts := DetectConflicts(existing, Assignment{PaintingID: "p1", Period: period(t, "2025-01-10", "2025-03-01")})
		assert.Len(t, conflicts, 2)
	})

	t.Run("non-overlapping ranges yield no conflicts", func(t *testing.T) {
		conflicts := DetectConflicts(existing, Assignment{PaintingID: "p1", ExhibitionID: "e2", Period: period(t, "2025-02-01", "2025-02-20")})
		assert.Empty(t, conflicts)
	})
}

func TestBusyPaintings(t *testing.T) {
	existing := []Assignment{
		{PaintingID: "p1", ExhibitionID: "e1", Period: period(t, "2025-01-01", "2025-01-10")},
		{PaintingID: "p2", ExhibitionID: "e2", Period: period(t, "2025-01-10", "2025-01-12")},
		{PaintingID: "p3", ExhibitionID: "e2", Period: period(t, "2025-02-01", "2025-02-02")},
	}

	busy := BusyPaintings(existing, period(t, "2025-01-10", "2025-01-20"), "")
	assert.Contains(t, busy, "p1")
	assert.Contains(t, busy, "p2")
	assert.NotContains(t, busy, "p3")

	busy = BusyPaintings(existing, period(t, "2025-01-10", "2025-01-20"), "e1")
	assert.NotContains(t, busy, "p1")
	assert.Contains(t, busy, "p2")
}
