package vetting

import (
	"context"
	"fmt"
	"io"
	"time"

	"url-triage-poc/store"
)

// ImportDataset parses a CSV upload, optionally enriches it, and appends it
// to the store. It returns the number of records stored.
func ImportDataset(ctx context.Context, s store.Store, enricher *WhoisEnricher, filename string, r io.Reader, now time.Time) (int, error) {
	records, err := ParseDatasetCSV(r)
	if err != nil {
		return 0, err
	}
	if enricher != nil {
		records = enricher.Enrich(ctx, records)
	}
	meta := NewDatasetMetadata(filename, len(records), now)
	if err := s.AddDataset(ctx, meta, records); err != nil {
		return 0, fmt.Errorf("store dataset: %w", err)
	}
	return len(records), nil
}
