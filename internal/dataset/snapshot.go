package dataset

import (
	"time"

	"credit-risk-workers/internal/models"
)

// Snapshot is an immutable, loaded-once view of the applicant table. It is safe for concurrent
// readers and is handed explicitly to whatever needs applicant data.
type Snapshot struct {
	records  []models.ApplicantRecord
	source   string
	loadedAt time.Time
}

func NewSnapshot(records []models.ApplicantRecord, source string) *Snapshot {
	cp := make([]models.ApplicantRecord, len(records))
	copy(cp, records)
	return &Snapshot{
		records:  cp,
		source:   source,
		loadedAt: time.Now().UTC(),
	}
}

func (s *Snapshot) Len() int { return len(s.records) }

func (s *Snapshot) Source() string { return s.source }

func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

// Names lists applicant names in table order, duplicates included.
func (s *Snapshot) Names() []string {
	names := make([]string, len(s.records))
	for i, r := range s.records {
		names[i] = r.Name
	}
	return names
}

// Records returns a copy of every row.
func (s *Snapshot) Records() []models.ApplicantRecord {
	cp := make([]models.ApplicantRecord, len(s.records))
	copy(cp, s.records)
	return cp
}

// Lookup returns the first row with the given name.
func (s *Snapshot) Lookup(name string) (models.ApplicantRecord, bool) {
	for _, r := range s.records {
		if r.Name == name {
			return r, true
		}
	}
	return models.ApplicantRecord{}, false
}

func (s *Snapshot) At(i int) (models.ApplicantRecord, bool) {
	if i < 0 || i >= len(s.records) {
		return models.ApplicantRecord{}, false
	}
	return s.records[i], true
}
