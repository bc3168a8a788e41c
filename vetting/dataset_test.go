package vetting

import (
	"context"
	"strings"
	"testing"
	"time"

	"url-triage-poc/model"
	"url-triage-poc/store"
)

const sampleCSV = `url,ip,label,attackType,description
https://phish.test, 1.2.3.4 ,Suspicious,Phishing,Credential harvest
https://malware.test,5.6.7.8,Malicious
too,short

https://c2.test,9.9.9.9,Malicious,,Beacon endpoint
`

func TestParseDatasetCSV(t *testing.T) {
	records, err := ParseDatasetCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}
	want := []model.DatasetEntry{
		{URL: "https://phish.test", IP: "1.2.3.4", Label: model.LabelSuspicious, AttackType: "Phishing", Description: "Credential harvest"},
		{URL: "https://malware.test", IP: "5.6.7.8", Label: model.LabelMalicious, AttackType: "Generic"},
		{URL: "https://c2.test", IP: "9.9.9.9", Label: model.LabelMalicious, AttackType: "Generic", Description: "Beacon endpoint"},
	}
	if len(records) != len(want) {
		t.Fatalf("got %d records: %+v", len(records), records)
	}
	for i := range want {
		if records[i] != want[i] {
			t.Errorf("record %d = %+v, want %+v", i, records[i], want[i])
		}
	}
}

func TestParseDatasetCSVHeaderOnly(t *testing.T) {
	records, err := ParseDatasetCSV(strings.NewReader("url,ip,label"))
	if err != nil {
		t.Fatal(err)
	}
	if records == nil || len(records) != 0 {
		t.Errorf("want empty non-nil slice, got %#v", records)
	}
}

func TestParseList(t *testing.T) {
	got := ParseList(" a.com, ,b.com,, 10.0.0.1 ")
	want := []string{"a.com", "b.com", "10.0.0.1"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("ParseList = %v, want %v", got, want)
	}
	if got := CleanList([]string{" x ", "", "y,z"}); strings.Join(got, "|") != "x|y|z" {
		t.Errorf("CleanList = %v", got)
	}
}

func TestImportDataset(t *testing.T) {
	s := store.NewMemoryStore()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	n, err := ImportDataset(context.Background(), s, nil, "feed.csv", strings.NewReader(sampleCSV), now)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("n = %d, want 3", n)
	}

	st, _ := s.State(context.Background())
	if len(st.Datasets) != 1 || len(st.ThreatRecords) != 3 {
		t.Fatalf("state = %+v", st)
	}
	meta := st.Datasets[0]
	if meta.Filename != "feed.csv" || meta.RecordCount != 3 || meta.UploadTime != "2024-05-01T12:00:00Z" || meta.ID == "" {
		t.Errorf("metadata = %+v", meta)
	}
}

func TestDatasetColumnsOrder(t *testing.T) {
	csv := strings.Join(DatasetColumns, ",") + "\nhttps://a.test,1.1.1.1,Malicious,C2,Beacon\n"
	records, err := ParseDatasetCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}
	want := model.DatasetEntry{URL: "https://a.test", IP: "1.1.1.1", Label: model.LabelMalicious, AttackType: "C2", Description: "Beacon"}
	if len(records) != 1 || records[0] != want {
		t.Errorf("records = %+v", records)
	}
}
