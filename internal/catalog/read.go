package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ListObservations returns all observations ordered by obs_id.
// Returns an empty slice (not nil) for an empty catalog.
func (s *Store) ListObservations(ctx context.Context) ([]Observation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT obs_id, ra_deg, dec_deg, livetime_s, low_threshold_tev, high_threshold_tev
		FROM observations
		ORDER BY obs_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query observations: %w", err)
	}
	defer rows.Close()

	obs := []Observation{}
	for rows.Next() {
		var o Observation
		if err := rows.Scan(&o.ObsID, &o.RA, &o.Dec, &o.Livetime, &o.LowThreshold, &o.HighThreshold); err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}
		obs = append(obs, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate observations: %w", err)
	}
	return obs, nil
}

// GetObservation returns a single observation by ID.
// Returns a NOT_FOUND error when the observation is not in the catalog.
func (s *Store) GetObservation(ctx context.Context, obsID int64) (Observation, error) {
	var o Observation
	err := s.db.QueryRowContext(ctx, `
		SELECT obs_id, ra_deg, dec_deg, livetime_s, low_threshold_tev, high_threshold_tev
		FROM observations
		WHERE obs_id = ?
	`, obsID).Scan(&o.ObsID, &o.RA, &o.Dec, &o.Livetime, &o.LowThreshold, &o.HighThreshold)
	if errors.Is(err, sql.ErrNoRows) {
		return Observation{}, &StoreError{Code: ErrCodeNotFound, Message: "observation not in catalog", ObsID: obsID}
	}
	if err != nil {
		return Observation{}, fmt.Errorf("query observation %d: %w", obsID, err)
	}
	return o, nil
}

// Events returns the event list of an observation ordered by insertion.
// Returns a NOT_FOUND error when the observation is not in the catalog and
// an empty slice when it exists but has no events.
func (s *Store) Events(ctx context.Context, obsID int64) ([]Event, error) {
	if _, err := s.GetObservation(ctx, obsID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT obs_id, energy_tev, offset_deg
		FROM events
		WHERE obs_id = ?
		ORDER BY id ASC
	`, obsID)
	if err != nil {
		return nil, fmt.Errorf("query events for observation %d: %w", obsID, err)
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ObsID, &e.Energy, &e.Offset); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}
