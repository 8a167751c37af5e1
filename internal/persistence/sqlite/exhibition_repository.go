package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/gallery-booking/internal/persistence"
)

// ExhibitionRepository implements persistence.ExhibitionRepository using SQLite
type ExhibitionRepository struct {
	pool   *ConnectionPool
	mapper *ErrorMapper
}

// NewExhibitionRepository creates a new SQLite exhibition repository
func NewExhibitionRepository(pool *ConnectionPool) *ExhibitionRepository {
	return &ExhibitionRepository{pool: pool, mapper: NewErrorMapper()}
}

// SaveExhibition inserts the exhibition or updates the row with the same ID.
// CreatedAt of an existing row is preserved.
func (r *ExhibitionRepository) SaveExhibition(ctx context.Context, exhibition persistence.Exhibition) (persistence.Exhibition, error) {
	var saved persistence.Exhibition
	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		var err error
		saved, err = upsertExhibition(ctx, tx, exhibition)
		return err
	})
	if err != nil {
		return persistence.Exhibition{}, r.mapper.MapError(err)
	}
	return saved, nil
}

// GetExhibition retrieves an exhibition by ID.
func (r *ExhibitionRepository) GetExhibition(ctx context.Context, id string) (persistence.Exhibition, error) {
	if id == "" {
		return persistence.Exhibition{}, persistence.ErrNotFound
	}
	exhibition, err := getExhibition(ctx, r.pool.DB(), id)
	if err != nil {
		return persistence.Exhibition{}, r.mapper.MapError(err)
	}
	return exhibition, nil
}

// ListExhibitions returns every exhibition ordered by start date.
func (r *ExhibitionRepository) ListExhibitions(ctx context.Context) ([]persistence.Exhibition, error) {
	rows, err := r.pool.DB().QueryContext(ctx, `
		SELECT id, name, location, description, start_date, end_date, created_at, updated_at
		FROM exhibitions
		ORDER BY start_date, name, id
	`)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var exhibitions []persistence.Exhibition
	for rows.Next() {
		exhibition, err := scanExhibition(rows)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		exhibitions = append(exhibitions, exhibition)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return exhibitions, nil
}

// DeleteExhibition removes an exhibition. Its bookings go with it through the
// foreign key cascade.
func (r *ExhibitionRepository) DeleteExhibition(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM exhibitions WHERE id = ?`, id)
		if err != nil {
			return r.mapper.MapError(err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("sqlite: rows affected: %w", err)
		}
		if affected == 0 {
			return persistence.ErrNotFound
		}
		return nil
	})
}

func upsertExhibition(ctx context.Context, q querier, exhibition persistence.Exhibition) (persistence.Exhibition, error) {
	if exhibition.ID == "" {
		return persistence.Exhibition{}, persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	if exhibition.CreatedAt.IsZero() {
		exhibition.CreatedAt = now
	}
	if exhibition.UpdatedAt.IsZero() {
		exhibition.UpdatedAt = now
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO exhibitions (id, name, location, description, start_date, end_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			location = excluded.location,
			description = excluded.description,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			updated_at = excluded.updated_at
	`,
		exhibition.ID,
		exhibition.Name,
		exhibition.Location,
		exhibition.Description,
		formatDate(exhibition.Start),
		formatDate(exhibition.End),
		formatTimestamp(exhibition.CreatedAt),
		formatTimestamp(exhibition.UpdatedAt),
	)
	if err != nil {
		return persistence.Exhibition{}, err
	}

	return getExhibition(ctx, q, exhibition.ID)
}

func getExhibition(ctx context.Context, q querier, id string) (persistence.Exhibition, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, name, location, description, start_date, end_date, created_at, updated_at
		FROM exhibitions
		WHERE id = ?
	`, id)
	return scanExhibition(row)
}

func scanExhibition(s scanner) (persistence.Exhibition, error) {
	var (
		exhibition           persistence.Exhibition
		start, end           string
		createdAt, updatedAt string
	)
	if err := s.Scan(
		&exhibition.ID,
		&exhibition.Name,
		&exhibition.Location,
		&exhibition.Description,
		&start,
		&end,
		&createdAt,
		&updatedAt,
	); err != nil {
		return persistence.Exhibition{}, err
	}

	var err error
	if exhibition.Start, err = parseDate(start); err != nil {
		return persistence.Exhibition{}, err
	}
	if exhibition.End, err = parseDate(end); err != nil {
		return persistence.Exhibition{}, err
	}
	if exhibition.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return persistence.Exhibition{}, err
	}
	if exhibition.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return persistence.Exhibition{}, err
	}
	return exhibition, nil
}
