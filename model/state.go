package model

// UserRole is the session role stored alongside the intel data.
type UserRole string

const (
	RoleAdmin UserRole = "ADMIN"
	RoleUser  UserRole = "USER"
	RoleGuest UserRole = "GUEST"
)

// DatasetEntry is one administrator-supplied threat record.
type DatasetEntry struct {
	URL         string      `json:"url"`
	IP          string      `json:"ip"`
	Label       ThreatLabel `json:"label"`
	AttackType  string      `json:"attackType"`
	Description string      `json:"description,omitempty"`
}

// DatasetMetadata describes one uploaded dataset file.
type DatasetMetadata struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	RecordCount int    `json:"recordCount"`
	UploadTime  string `json:"uploadTime"`
}

// AppState is the whole persisted blob. The scan pipeline only reads the
// lists and ThreatRecords.
type AppState struct {
	Role          UserRole          `json:"role"`
	IsLoggedIn    bool              `json:"isLoggedIn"`
	Datasets      []DatasetMetadata `json:"datasets"`
	ThreatRecords []DatasetEntry    `json:"threatRecords"`
	Allowlist     []string          `json:"allowlist"`
	Blocklist     []string          `json:"blocklist"`
}

// InitialState is the state of a fresh install.
func InitialState() AppState {
	return AppState{
		Role:          RoleGuest,
		Datasets:      []DatasetMetadata{},
		ThreatRecords: []DatasetEntry{},
		Allowlist:     []string{},
		Blocklist:     []string{},
	}
}

// Clone returns a deep copy so callers can hold a snapshot while the
// store keeps changing.
func (s AppState) Clone() AppState {
	out := s
	out.Datasets = append([]DatasetMetadata{}, s.Datasets...)
	out.ThreatRecords = append([]DatasetEntry{}, s.ThreatRecords...)
	out.Allowlist = append([]string{}, s.Allowlist...)
	out.Blocklist = append([]string{}, s.Blocklist...)
	return out
}
