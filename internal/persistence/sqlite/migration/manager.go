package migration

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"
)

// Manager brings a database up to the newest migration found by its scanner.
type Manager struct {
	scanner  *Scanner
	executor *Executor
	logger   *slog.Logger
}

// NewManager wires a scanner and an executor. A nil logger discards output.
func NewManager(scanner *Scanner, executor *Executor, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{
		scanner:  scanner,
		executor: executor,
		logger:   logger.With("component", "migration"),
	}
}

// Run applies every pending migration in version order. It stops at the first
// failure; migrations applied before it stay applied.
func (m *Manager) Run(ctx context.Context) error {
	started := time.Now()

	status, err := m.Status(ctx)
	if err != nil {
		return err
	}

	if len(status.Pending) == 0 {
		m.logger.InfoContext(ctx, "schema up to date", "version", status.CurrentVersion)
		return nil
	}

	m.logger.InfoContext(ctx, "applying migrations",
		"current_version", status.CurrentVersion,
		"pending", len(status.Pending),
	)

	for _, mig := range status.Pending {
		elapsed, err := m.executor.Apply(ctx, mig)
		if err != nil {
			m.logger.ErrorContext(ctx, "migration failed",
				"version", mig.Version,
				"path", mig.Path,
				"error", err,
			)
			return newError(mig.Version, mig.Path, "apply", fmt.Errorf("%w: %w", ErrMigrationFailed, err))
		}
		m.logger.InfoContext(ctx, "migration applied",
			"version", mig.Version,
			"description", mig.Description,
			"duration_ms", elapsed.Milliseconds(),
		)
	}

	m.logger.InfoContext(ctx, "migrations complete",
		"applied", len(status.Pending),
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return nil
}

// Status compares the migration files with the version table without changing
// the schema beyond creating the version table.
func (m *Manager) Status(ctx context.Context) (Status, error) {
	if err := m.executor.InitializeVersionTable(ctx); err != nil {
		return Status{}, err
	}

	available, err := m.scanner.Scan()
	if err != nil {
		return Status{}, err
	}

	applied, err := m.executor.Applied(ctx)
	if err != nil {
		return Status{}, err
	}

	if err := validateSequence(available, applied); err != nil {
		return Status{}, err
	}

	appliedSet := make(map[string]struct{}, len(applied))
	for _, am := range applied {
		appliedSet[am.Version] = struct{}{}
	}

	status := Status{Applied: applied}
	for _, mig := range available {
		if _, ok := appliedSet[mig.Version]; !ok {
			status.Pending = append(status.Pending, mig)
		}
	}
	if len(applied) > 0 {
		status.CurrentVersion = applied[len(applied)-1].Version
	}
	return status, nil
}

// validateSequence rejects version gaps, applied versions without a file and
// applied files whose content changed.
func validateSequence(available []Migration, applied []AppliedMigration) error {
	byVersion := make(map[int]Migration, len(available))
	for _, mig := range available {
		n, err := strconv.Atoi(mig.Version)
		if err != nil {
			return newError(mig.Version, mig.Path, "validate sequence",
				fmt.Errorf("%w: version %q is not numeric", ErrInvalidMigrationFile, mig.Version))
		}
		byVersion[n] = mig
	}

	if len(available) > 0 {
		first := versionNumber(available[0].Version)
		last := versionNumber(available[len(available)-1].Version)
		for v := first; v <= last; v++ {
			if _, ok := byVersion[v]; !ok {
				return fmt.Errorf("%w: missing migration version %03d", ErrVersionConflict, v)
			}
		}
	}

	for _, am := range applied {
		mig, ok := byVersion[versionNumber(am.Version)]
		if !ok {
			return fmt.Errorf("%w: applied migration %s has no file", ErrVersionConflict, am.Version)
		}
		if am.Checksum != "" && am.Checksum != mig.Checksum {
			return newError(mig.Version, mig.Path, "verify checksum", ErrChecksumMismatch)
		}
	}
	return nil
}
