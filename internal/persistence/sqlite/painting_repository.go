package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/example/gallery-booking/internal/persistence"
)

// PaintingRepository implements persistence.PaintingRepository using SQLite
type PaintingRepository struct {
	pool   *ConnectionPool
	mapper *ErrorMapper
}

// NewPaintingRepository creates a new SQLite painting repository
func NewPaintingRepository(pool *ConnectionPool) *PaintingRepository {
	return &PaintingRepository{pool: pool, mapper: NewErrorMapper()}
}

// CreatePainting inserts a painting into the catalog.
func (r *PaintingRepository) CreatePainting(ctx context.Context, painting persistence.Painting) error {
	if painting.ID == "" || painting.Title == "" {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	if painting.CreatedAt.IsZero() {
		painting.CreatedAt = now
	}
	if painting.UpdatedAt.IsZero() {
		painting.UpdatedAt = painting.CreatedAt
	}

	var year sql.NullInt64
	if painting.Year != nil {
		year = sql.NullInt64{Int64: int64(*painting.Year), Valid: true}
	}

	_, err := r.pool.DB().ExecContext(ctx, `
		INSERT INTO paintings (id, title, artist_name, year, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		painting.ID,
		painting.Title,
		painting.ArtistName,
		year,
		formatTimestamp(painting.CreatedAt),
		formatTimestamp(painting.UpdatedAt),
	)
	return r.mapper.MapError(err)
}

// GetPainting retrieves a painting by ID.
func (r *PaintingRepository) GetPainting(ctx context.Context, id string) (persistence.Painting, error) {
	if id == "" {
		return persistence.Painting{}, persistence.ErrNotFound
	}

	row := r.pool.DB().QueryRowContext(ctx, `
		SELECT id, title, artist_name, year, created_at, updated_at
		FROM paintings
		WHERE id = ?
	`, id)

	painting, err := scanPainting(row)
	if err != nil {
		return persistence.Painting{}, r.mapper.MapError(err)
	}
	return painting, nil
}

// ListPaintings returns the catalog ordered by title.
func (r *PaintingRepository) ListPaintings(ctx context.Context) ([]persistence.Painting, error) {
	rows, err := r.pool.DB().QueryContext(ctx, `
		SELECT id, title, artist_name, year, created_at, updated_at
		FROM paintings
		ORDER BY title COLLATE NOCASE, id
	`)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var paintings []persistence.Painting
	for rows.Next() {
		painting, err := scanPainting(rows)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		paintings = append(paintings, painting)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return paintings, nil
}

func scanPainting(s scanner) (persistence.Painting, error) {
	var (
		painting             persistence.Painting
		year                 sql.NullInt64
		createdAt, updatedAt string
	)
	if err := s.Scan(&painting.ID, &painting.Title, &painting.ArtistName, &year, &createdAt, &updatedAt); err != nil {
		return persistence.Painting{}, err
	}
	if year.Valid {
		y := int(year.Int64)
		painting.Year = &y
	}
	var err error
	if painting.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return persistence.Painting{}, err
	}
	if painting.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return persistence.Painting{}, err
	}
	return painting, nil
}
