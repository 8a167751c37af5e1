package testfixtures

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/gallery-booking/internal/application"
	"github.com/example/gallery-booking/internal/persistence"
)

func TestClockDefaultsToReferenceTime(t *testing.T) {
	clock := NewClock(time.Time{})
	if !clock.Now().Equal(ReferenceTime()) {
		t.Fatalf("expected ReferenceTime, got %v", clock.Now())
	}
}

func TestClockAdvance(t *testing.T) {
	start := time.Date(2025, time.June, 30, 23, 0, 0, 0, time.UTC)
	clock := NewClock(start)
	nowFn := clock.NowFunc()

	if got := clock.Advance(90 * time.Minute); !got.Equal(start.Add(90 * time.Minute)) {
		t.Fatalf("advance returned %v", got)
	}
	if got := nowFn(); !got.Equal(clock.Now()) {
		t.Fatalf("NowFunc did not follow the clock: %v", got)
	}
	if got := clock.Today(); !got.Equal(Date("2025-07-01")) {
		t.Fatalf("expected 2025-07-01, got %v", got)
	}

	clock.AdvanceDays(2)
	if got := clock.Today(); !got.Equal(Date("2025-07-03")) {
		t.Fatalf("expected 2025-07-03, got %v", got)
	}
}

func TestIDGeneratorSequence(t *testing.T) {
	gen := NewIDGenerator("exh")
	next := gen.NextFunc()

	if got := next(); got != "exh-1" {
		t.Fatalf("expected exh-1, got %s", got)
	}
	if got := gen.Next(); got != "exh-2" {
		t.Fatalf("expected exh-2, got %s", got)
	}
	if gen.Issued() != 2 {
		t.Fatalf("expected 2 issued, got %d", gen.Issued())
	}
	if got := NewIDGenerator("").Next(); got != "id-1" {
		t.Fatalf("expected default prefix, got %s", got)
	}
}

func TestExhibitionFixtureBookings(t *testing.T) {
	fixture := NewExhibitionFixture(
		WithExhibitionID("exh-spring"),
		WithDates("2025-04-01", "2025-04-30"),
		WithPaintings("pnt-a", "pnt-b"),
	)

	bookings := fixture.Bookings()
	if len(bookings) != 2 {
		t.Fatalf("expected 2 bookings, got %d", len(bookings))
	}
	for _, b := range bookings {
		if b.ExhibitionID != "exh-spring" || !b.Period.Equal(fixture.Period) {
			t.Fatalf("unexpected booking %+v", b)
		}
	}

	exhibition, rows := fixture.Persistence()
	if !exhibition.Start.Equal(Date("2025-04-01")) || !exhibition.End.Equal(Date("2025-04-30")) {
		t.Fatalf("unexpected persistence period %v..%v", exhibition.Start, exhibition.End)
	}
	if len(rows) != 2 || rows[1].PaintingID != "pnt-b" {
		t.Fatalf("unexpected persistence bookings %+v", rows)
	}
}

func TestMemoryStoreSaveRejectsOverlapAtomically(t *testing.T) {
	ctx := context.Background()
	a := NewPaintingFixture(WithPaintingID("pnt-a"))
	b := NewPaintingFixture(WithPaintingID("pnt-b"))
	held := NewExhibitionFixture(WithExhibitionID("exh-held"), WithDates("2025-05-01", "2025-05-10"), WithPaintings("pnt-b"))

	store := NewMemoryStore().SeedPaintings(a, b).SeedExhibitions(held)

	candidate := NewExhibitionFixture(WithExhibitionID("exh-new"), WithDates("2025-05-10", "2025-05-20"), WithPaintings("pnt-a", "pnt-b"))
	_, _, err := store.SaveExhibitionWithBookings(ctx, candidate.Application(), candidate.Bookings())

	var overlap *persistence.OverlapError
	if !errors.As(err, &overlap) {
		t.Fatalf("expected OverlapError, got %v", err)
	}
	if overlap.PaintingID != "pnt-b" || overlap.ExhibitionID != "exh-held" {
		t.Fatalf("unexpected overlap %+v", overlap)
	}
	if got := len(store.AllBookings()); got != 1 {
		t.Fatalf("expected the failed save to leave 1 booking, got %d", got)
	}
	if _, err := store.GetExhibition(ctx, "exh-new"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected exh-new to be absent, got %v", err)
	}
}

func TestMemoryStoreFailOnAndCounters(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	boom := errors.New("disk full")

	store.FailOn(OpCreatePainting, boom)
	if _, err := store.CreatePainting(ctx, application.Painting{ID: "pnt-x"}); !errors.Is(err, boom) {
		t.Fatalf("expected injected failure, got %v", err)
	}
	store.FailOn(OpCreatePainting, nil)
	if _, err := store.CreatePainting(ctx, application.Painting{ID: "pnt-x"}); err != nil {
		t.Fatalf("expected success after clearing failure, got %v", err)
	}

	if store.Calls(OpCreatePainting) != 2 || store.Writes() != 2 {
		t.Fatalf("unexpected counters: calls=%d writes=%d", store.Calls(OpCreatePainting), store.Writes())
	}
}

func TestSQLiteHarnessSeedsThroughAdapters(t *testing.T) {
	harness := NewSQLiteHarness(t)
	a := NewPaintingFixture(WithPaintingID("pnt-a"), WithPaintingTitle("Autumn"))
	harness.SeedPaintings(t, a)
	harness.SeedExhibitions(t, NewExhibitionFixture(WithExhibitionID("exh-1"), WithPaintings("pnt-a")))

	ctx := context.Background()
	busy, err := harness.Bookings.BookingsOverlapping(ctx, "pnt-a", Period("2025-05-10", "2025-05-12"), "")
	if err != nil {
		t.Fatalf("overlap query failed: %v", err)
	}
	if !busy {
		t.Fatal("expected pnt-a to be busy on the last exhibition day")
	}

	paintings, err := harness.Catalog.ListPaintings(ctx)
	if err != nil || len(paintings) != 1 || paintings[0].Title != "Autumn" {
		t.Fatalf("unexpected catalog %+v (err=%v)", paintings, err)
	}
}
