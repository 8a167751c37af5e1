package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// CatalogService manages the painting catalog.
type CatalogService struct {
	paintings   PaintingCatalog
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewCatalogService constructs a catalog service with the provided dependencies.
func NewCatalogService(paintings PaintingCatalog, idGenerator func() string, now func() time.Time, logger *slog.Logger) *CatalogService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &CatalogService{paintings: paintings, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

func (s *CatalogService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "CatalogService", operation, attrs...)
}

// ListPaintings returns the catalog ordered by title.
func (s *CatalogService) ListPaintings(ctx context.Context) (paintings []Painting, err error) {
	if s == nil {
		err = fmt.Errorf("CatalogService is nil")
		return
	}

	logger := s.loggerWith(ctx, "ListPaintings")
	defer func() {
		if err != nil {
			logOutcome(ctx, logger, "failed to list paintings", err)
			return
		}
		logger.With("result_count", len(paintings)).DebugContext(ctx, "paintings listed")
	}()

	paintings, err = s.paintings.ListPaintings(ctx)
	if err != nil {
		err = storageError("list paintings", err)
		return nil, err
	}
	return paintings, nil
}

// CreatePainting validates input and adds a painting to the catalog.
func (s *CatalogService) CreatePainting(ctx context.Context, input PaintingInput) (painting Painting, err error) {
	if s == nil {
		err = fmt.Errorf("CatalogService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreatePainting")
	defer func() {
		if err != nil {
			logOutcome(ctx, logger, "failed to create painting", err)
			return
		}
		logger.With("painting_id", painting.ID).InfoContext(ctx, "painting created")
	}()

	input.Title = strings.TrimSpace(input.Title)
	input.ArtistName = strings.TrimSpace(input.ArtistName)
	if vErr := validatePaintingInput(input); vErr.HasErrors() {
		err = vErr
		return
	}

	painting = Painting{
		ID:         s.idGenerator(),
		Title:      input.Title,
		ArtistName: input.ArtistName,
		Year:       input.Year,
		CreatedAt:  s.now(),
	}
	painting.UpdatedAt = painting.CreatedAt

	painting, err = s.paintings.CreatePainting(ctx, painting)
	if err != nil {
		err = mapStoreError("create painting", err)
		return Painting{}, err
	}
	return painting, nil
}
