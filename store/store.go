package store

import (
	"context"
	"errors"

	"url-triage-poc/model"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store: closed")

// Store owns the persisted AppState blob. Implementations can use any
// backend as long as State returns an independent snapshot.
type Store interface {
	// State returns a snapshot of the current state.
	State(ctx context.Context) (model.AppState, error)

	// AddDataset records an uploaded dataset and appends its records.
	AddDataset(ctx context.Context, meta model.DatasetMetadata, records []model.DatasetEntry) error

	// UpdateLists replaces the allowlist and blocklist.
	UpdateLists(ctx context.Context, allowlist, blocklist []string) error

	// SetSession updates the role and login flag.
	SetSession(ctx context.Context, role model.UserRole, loggedIn bool) error

	// Clear resets to the initial state.
	Clear(ctx context.Context) error

	Close() error
}

// mutate applies fn to a copy of state. Shared by both implementations so
// the update rules stay in one place.
func mutate(state model.AppState, fn func(*model.AppState)) model.AppState {
	next := state.Clone()
	fn(&next)
	return next
}

func addDataset(meta model.DatasetMetadata, records []model.DatasetEntry) func(*model.AppState) {
	return func(s *model.AppState) {
		s.Datasets = append(s.Datasets, meta)
		s.ThreatRecords = append(s.ThreatRecords, records...)
	}
}

func updateLists(allowlist, blocklist []string) func(*model.AppState) {
	return func(s *model.AppState) {
		s.Allowlist = append([]string{}, allowlist...)
		s.Blocklist = append([]string{}, blocklist...)
	}
}

func setSession(role model.UserRole, loggedIn bool) func(*model.AppState) {
	return func(s *model.AppState) {
		s.Role = role
		s.IsLoggedIn = loggedIn
	}
}
