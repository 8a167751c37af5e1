package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/gallery-booking/internal/application"
	"github.com/example/gallery-booking/internal/testfixtures"
)

func TestCatalogServiceCreatePainting(t *testing.T) {
	store := testfixtures.NewMemoryStore()
	factory := testfixtures.NewServiceFactory()
	service := factory.NewCatalogService(testfixtures.PortsFromMemory(store))
	ctx := context.Background()

	year := 1665
	painting, err := service.CreatePainting(ctx, application.PaintingInput{
		Title:      "  Girl with a Pearl Earring ",
		ArtistName: "Johannes Vermeer",
		Year:       &year,
	})
	require.NoError(t, err)
	assert.Equal(t, "pnt-1", painting.ID)
	assert.Equal(t, "Girl with a Pearl Earring", painting.Title)
	assert.Equal(t, testfixtures.ReferenceTime(), painting.CreatedAt)

	list, err := service.ListPaintings(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"pnt-1"}, paintingIDs(list))
}

func TestCatalogServiceCreatePaintingValidation(t *testing.T) {
	store := testfixtures.NewMemoryStore()
	service := testfixtures.NewServiceFactory().NewCatalogService(testfixtures.PortsFromMemory(store))

	_, err := service.CreatePainting(context.Background(), application.PaintingInput{Title: " ", ArtistName: "Anon"})
	var vErr *application.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "is required", vErr.FieldErrors["title"])
	assert.Zero(t, store.Writes())
}

func TestCatalogServiceCreatePaintingDuplicate(t *testing.T) {
	store := testfixtures.NewMemoryStore().SeedPaintings(testfixtures.NewPaintingFixture(testfixtures.WithPaintingID("pnt-1")))
	service := testfixtures.NewServiceFactory().NewCatalogService(testfixtures.PortsFromMemory(store))

	_, err := service.CreatePainting(context.Background(), application.PaintingInput{Title: "Copy", ArtistName: "Anon"})
	assert.ErrorIs(t, err, application.ErrAlreadyExists)
}
