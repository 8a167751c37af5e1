package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/gallery-booking/internal/application"
	"github.com/example/gallery-booking/internal/testfixtures"
)

func TestAvailabilityCalculatorCompute(t *testing.T) {
	scene := newGalleryScene(t)
	calc := scene.factory.NewAvailabilityCalculator(testfixtures.PortsFromMemory(scene.store))
	ctx := context.Background()

	t.Run("dates required", func(t *testing.T) {
		result, err := calc.Compute(ctx, application.AvailabilityRequest{Start: testfixtures.DatePtr("2025-05-01")})
		require.NoError(t, err)
		assert.True(t, result.DatesRequired)
		assert.Empty(t, result.Available)
	})

	t.Run("inverted range", func(t *testing.T) {
		_, err := calc.Compute(ctx, application.AvailabilityRequest{
			Start: testfixtures.DatePtr("2025-05-02"),
			End:   testfixtures.DatePtr("2025-05-01"),
		})
		var vErr *application.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Contains(t, vErr.FieldErrors, "end_date")
	})

	t.Run("busy paintings are marked and selected ones removed", func(t *testing.T) {
		result, err := calc.Compute(ctx, application.AvailabilityRequest{
			Start:    testfixtures.DatePtr("2025-05-10"),
			End:      testfixtures.DatePtr("2025-05-10"),
			Selected: []string{"pnt-vermeer"},
		})
		require.NoError(t, err)
		assert.False(t, result.DatesRequired)
		assert.Equal(t, testfixtures.Period("2025-05-10", "2025-05-10"), result.Period)
		assert.Equal(t, []string{"pnt-cezanne", "pnt-monet"}, paintingIDs(result.Available))
		assert.True(t, result.IsBusy("pnt-monet"))
		assert.False(t, result.IsBusy("pnt-cezanne"))
	})

	t.Run("own exhibition excluded", func(t *testing.T) {
		result, err := calc.Compute(ctx, application.AvailabilityRequest{
			Start:               testfixtures.DatePtr("2025-05-01"),
			End:                 testfixtures.DatePtr("2025-05-31"),
			ExcludeExhibitionID: "exh-spring",
		})
		require.NoError(t, err)
		assert.Empty(t, result.BusyIDs)
	})

	t.Run("unknown exclusion counts every booking", func(t *testing.T) {
		result, err := calc.Compute(ctx, application.AvailabilityRequest{
			Start:               testfixtures.DatePtr("2025-05-01"),
			End:                 testfixtures.DatePtr("2025-05-31"),
			ExcludeExhibitionID: "exh-unsaved",
		})
		require.NoError(t, err)
		assert.True(t, result.IsBusy("pnt-monet"))
	})
}

func TestAvailabilityCalculatorStorageFailure(t *testing.T) {
	scene := newGalleryScene(t)
	calc := scene.factory.NewAvailabilityCalculator(testfixtures.PortsFromMemory(scene.store))
	scene.store.FailOn(testfixtures.OpBusyPaintingIDs, errors.New("database is locked"))

	_, err := calc.Compute(context.Background(), application.AvailabilityRequest{
		Start: testfixtures.DatePtr("2025-05-01"),
		End:   testfixtures.DatePtr("2025-05-02"),
	})
	assert.ErrorIs(t, err, application.ErrStorage)
}
