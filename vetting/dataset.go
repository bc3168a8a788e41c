package vetting

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"url-triage-poc/model"
)

// DatasetColumns is the CSV layout ParseDatasetCSV reads, in column order.
var DatasetColumns = []string{"url", "ip", "label", "attackType", "description"}

// ParseDatasetCSV reads administrator-uploaded threat records. The first
// line is a header and is skipped. Lines with fewer than three columns are
// ignored; attackType defaults to "Generic".
func ParseDatasetCSV(r io.Reader) ([]model.DatasetEntry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	lines := strings.Split(string(data), "\n")
	records := []model.DatasetEntry{}
	for i := 1; i < len(lines); i++ {
		parts := strings.Split(lines[i], ",")
		for j := range parts {
			parts[j] = strings.TrimSpace(parts[j])
		}
		if len(parts) < 3 {
			continue
		}
		rec := model.DatasetEntry{
			URL:        parts[0],
			IP:         parts[1],
			Label:      model.ThreatLabel(parts[2]),
			AttackType: "Generic",
		}
		if len(parts) > 3 && parts[3] != "" {
			rec.AttackType = parts[3]
		}
		if len(parts) > 4 {
			rec.Description = parts[4]
		}
		records = append(records, rec)
	}
	return records, nil
}

// NewDatasetMetadata describes an upload of n records.
func NewDatasetMetadata(filename string, n int, now time.Time) model.DatasetMetadata {
	return model.DatasetMetadata{
		ID:          uuid.NewString(),
		Filename:    filename,
		RecordCount: n,
		UploadTime:  now.Format(time.RFC3339),
	}
}

// ParseList splits a comma-separated override list, dropping blanks.
func ParseList(s string) []string {
	out := []string{}
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// CleanList trims entries and drops blanks.
func CleanList(items []string) []string {
	out := []string{}
	for _, item := range items {
		out = append(out, ParseList(item)...)
	}
	return out
}
