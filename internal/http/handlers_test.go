package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/gallery-booking/internal/testfixtures"
)

type apiFixture struct {
	store  *testfixtures.MemoryStore
	router http.Handler
}

// newAPIFixture serves a catalog of two paintings and "exh-spring"
// (2025-05-01..2025-05-10) holding "pnt-monet".
func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	store := testfixtures.NewMemoryStore().
		SeedPaintings(
			testfixtures.NewPaintingFixture(testfixtures.WithPaintingID("pnt-cezanne"), testfixtures.WithPaintingTitle("Card Players")),
			testfixtures.NewPaintingFixture(testfixtures.WithPaintingID("pnt-monet"), testfixtures.WithPaintingTitle("Water Lilies")),
		).
		SeedExhibitions(testfixtures.NewExhibitionFixture(
			testfixtures.WithExhibitionID("exh-spring"),
			testfixtures.WithExhibitionName("Spring Salon"),
			testfixtures.WithDates("2025-05-01", "2025-05-10"),
			testfixtures.WithPaintings("pnt-monet"),
		))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	factory := testfixtures.NewServiceFactory(testfixtures.WithLogger(logger))
	ports := testfixtures.PortsFromMemory(store)

	router := NewRouter(RouterConfig{
		Paintings:    NewPaintingHandler(factory.NewCatalogService(ports), logger),
		Availability: NewAvailabilityHandler(factory.NewAvailabilityCalculator(ports), logger),
		Exhibitions:  NewExhibitionHandler(factory.NewExhibitionService(ports), factory.NewBookingCoordinator(ports), logger),
		Logger:       logger,
	})
	return &apiFixture{store: store, router: router}
}

func (f *apiFixture) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestPaintingHandlers(t *testing.T) {
	t.Parallel()
	api := newAPIFixture(t)

	rec := api.do(t, http.MethodPost, "/paintings", map[string]any{"title": "Olympia", "artist_name": "Édouard Manet", "year": 1863})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[paintingResponse](t, rec)
	assert.Equal(t, "Olympia", created.Painting.Title)
	assert.NotEmpty(t, created.Painting.ID)

	rec = api.do(t, http.MethodGet, "/paintings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[listPaintingsResponse](t, rec)
	require.Len(t, list.Paintings, 3)
	assert.Equal(t, "Card Players", list.Paintings[0].Title)

	rec = api.do(t, http.MethodPost, "/paintings", map[string]any{"title": ""})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	failure := decode[errorResponse](t, rec)
	assert.Equal(t, "is required", failure.Errors["title"])

	req := httptest.NewRequest(http.MethodPost, "/paintings", bytes.NewBufferString("{"))
	bad := httptest.NewRecorder()
	api.router.ServeHTTP(bad, req)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestAvailabilityHandler(t *testing.T) {
	t.Parallel()
	api := newAPIFixture(t)

	rec := api.do(t, http.MethodGet, "/availability", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[availabilityResponse](t, rec).DatesRequired)

	rec = api.do(t, http.MethodGet, "/availability?start=2025-05-10&end=2025-05-12&selected=pnt-cezanne", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	result := decode[availabilityResponse](t, rec)
	assert.False(t, result.DatesRequired)
	assert.Equal(t, "2025-05-10", result.StartDate)
	require.Len(t, result.Paintings, 1)
	assert.Equal(t, "pnt-monet", result.Paintings[0].ID)
	assert.True(t, result.Paintings[0].Busy)

	rec = api.do(t, http.MethodGet, "/availability?start=2025-05-10&end=2025-05-12&exclude=exh-spring", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	for _, p := range decode[availabilityResponse](t, rec).Paintings {
		assert.False(t, p.Busy, p.ID)
	}

	rec = api.do(t, http.MethodGet, "/availability?start=2025-05-12&end=2025-05-10", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = api.do(t, http.MethodGet, "/availability?start=12/05/2025&end=2025-05-10", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode[errorResponse](t, rec).Errors, "start_date")
}

func TestExhibitionHandlersCreate(t *testing.T) {
	t.Parallel()
	api := newAPIFixture(t)

	rec := api.do(t, http.MethodPost, "/exhibitions", exhibitionRequest{
		Name:      "Summer Show",
		Location:  "North Hall",
		StartDate: "2025-05-11",
		EndDate:   "2025-05-20",
		Paintings: []string{"pnt-monet", "pnt-cezanne", "pnt-monet"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[exhibitionResponse](t, rec).Exhibition
	assert.Equal(t, "2025-05-11", created.StartDate)
	assert.Equal(t, "2025-05-20", created.EndDate)
	require.Len(t, created.Paintings, 2)
	assert.Equal(t, "pnt-monet", created.Paintings[0].ID)

	rec = api.do(t, http.MethodGet, "/exhibitions/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Summer Show", decode[exhibitionResponse](t, rec).Exhibition.Name)

	rec = api.do(t, http.MethodGet, "/exhibitions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[listExhibitionsResponse](t, rec).Exhibitions, 2)
}

func TestExhibitionHandlersConflict(t *testing.T) {
	t.Parallel()
	api := newAPIFixture(t)

	rec := api.do(t, http.MethodPost, "/exhibitions", exhibitionRequest{
		Name:      "Overlap",
		Location:  "North Hall",
		StartDate: "2025-05-10",
		EndDate:   "2025-05-20",
		Paintings: []string{"pnt-cezanne", "pnt-monet"},
	})
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
	failure := decode[errorResponse](t, rec)
	assert.Equal(t, "BOOKING_CONFLICT", failure.ErrorCode)
	assert.Equal(t, "pnt-monet", failure.PaintingID)
	assert.Contains(t, failure.Message, "Water Lilies")
	assert.Zero(t, api.store.Calls(testfixtures.OpSaveExhibitionWithBookings))
}

func TestExhibitionHandlersValidation(t *testing.T) {
	t.Parallel()
	api := newAPIFixture(t)

	cases := []struct {
		name  string
		req   exhibitionRequest
		field string
	}{
		{
			name:  "empty selection",
			req:   exhibitionRequest{Name: "Empty", Location: "Hall", StartDate: "2025-08-01", EndDate: "2025-08-02"},
			field: "paintings",
		},
		{
			name:  "unknown painting",
			req:   exhibitionRequest{Name: "Ghost", Location: "Hall", StartDate: "2025-08-01", EndDate: "2025-08-02", Paintings: []string{"pnt-ghost"}},
			field: "paintings",
		},
		{
			name:  "inverted dates",
			req:   exhibitionRequest{Name: "Backwards", Location: "Hall", StartDate: "2025-08-02", EndDate: "2025-08-01", Paintings: []string{"pnt-cezanne"}},
			field: "end_date",
		},
		{
			name:  "bad name",
			req:   exhibitionRequest{Name: "Show #1", Location: "Hall", StartDate: "2025-08-01", EndDate: "2025-08-02", Paintings: []string{"pnt-cezanne"}},
			field: "name",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := api.do(t, http.MethodPost, "/exhibitions", tc.req)
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
			assert.Contains(t, decode[errorResponse](t, rec).Errors, tc.field)
		})
	}
	assert.Zero(t, api.store.Writes())
}

func TestExhibitionHandlersUpdate(t *testing.T) {
	t.Parallel()
	api := newAPIFixture(t)

	rec := api.do(t, http.MethodPut, "/exhibitions/exh-spring", exhibitionRequest{
		Name:      "Spring Salon",
		Location:  "East Wing",
		StartDate: "2025-04-28",
		EndDate:   "2025-05-12",
		Paintings: []string{"pnt-cezanne"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[exhibitionResponse](t, rec).Exhibition
	assert.Equal(t, "East Wing", updated.Location)
	require.Len(t, updated.Paintings, 1)
	assert.Equal(t, "pnt-cezanne", updated.Paintings[0].ID)

	rec = api.do(t, http.MethodPut, "/exhibitions/exh-missing", exhibitionRequest{Name: "X", Location: "Y"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExhibitionHandlersStorageFailure(t *testing.T) {
	t.Parallel()
	api := newAPIFixture(t)
	api.store.FailOn(testfixtures.OpSaveExhibitionWithBookings, errors.New("disk I/O error"))

	rec := api.do(t, http.MethodPost, "/exhibitions", exhibitionRequest{
		Name:      "Doomed",
		Location:  "Hall",
		StartDate: "2025-09-01",
		EndDate:   "2025-09-02",
		Paintings: []string{"pnt-cezanne"},
	})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	failure := decode[errorResponse](t, rec)
	assert.Equal(t, "STORAGE_FAILURE", failure.ErrorCode)
	assert.Contains(t, failure.Message, "disk I/O error")
}

func TestExhibitionHandlersDelete(t *testing.T) {
	t.Parallel()
	api := newAPIFixture(t)

	rec := api.do(t, http.MethodDelete, "/exhibitions/exh-spring", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(t, http.MethodDelete, "/exhibitions/exh-spring", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	healthy := NewRouter(RouterConfig{})
	rec := httptest.NewRecorder()
	healthy.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	failing := NewRouter(RouterConfig{Health: func(ctx context.Context) error { return errors.New("database is closed") }})
	rec = httptest.NewRecorder()
	failing.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
