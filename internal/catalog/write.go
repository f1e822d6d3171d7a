package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ImportObservations inserts observation rows in a single transaction and
// returns the import batch ID recorded on each row.
//
// A duplicate obs_id aborts the whole import with a CONFLICT error; no rows
// from the batch are kept.
func (s *Store) ImportObservations(ctx context.Context, obs []Observation) (string, error) {
	if len(obs) == 0 {
		return "", &StoreError{Code: ErrCodeIO, Message: "nothing to import"}
	}

	batch := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	for _, o := range obs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO observations
			(obs_id, ra_deg, dec_deg, livetime_s, low_threshold_tev, high_threshold_tev, import_batch)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, o.ObsID, o.RA, o.Dec, o.Livetime, o.LowThreshold, o.HighThreshold, batch)
		if err != nil {
			if isUniqueViolation(err) {
				return "", &StoreError{Code: ErrCodeConflict, Message: "observation already in catalog", ObsID: o.ObsID}
			}
			return "", fmt.Errorf("insert observation %d: %w", o.ObsID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit import: %w", err)
	}
	return batch, nil
}

// ImportEvents inserts event rows in a single transaction. Every event must
// reference an observation already in the catalog; an unknown obs_id aborts
// the import with a NOT_FOUND error.
func (s *Store) ImportEvents(ctx context.Context, events []Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	for _, e := range events {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO events (obs_id, energy_tev, offset_deg)
			VALUES (?, ?, ?)
		`, e.ObsID, e.Energy, e.Offset)
		if err != nil {
			if isForeignKeyViolation(err) {
				return &StoreError{Code: ErrCodeNotFound, Message: "event references unknown observation", ObsID: e.ObsID}
			}
			return fmt.Errorf("insert event for observation %d: %w", e.ObsID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}

// isUniqueViolation detects SQLite UNIQUE/PRIMARY KEY constraint failures.
// The driver error string is the stable way to detect these without
// importing driver-specific error codes at every call site.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isForeignKeyViolation detects SQLite foreign key constraint failures.
func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
