package models

import "time"

// Commit is the commit a pipeline ran against
type Commit struct {
	ID               string
	ShortID          string
	CreatedAt        *time.Time
	ParentIDs        []string
	Title            string
	Message          string
	AuthorName       string
	AuthorEmail      string
	AuthoredDate     *time.Time
	CommitterName    string
	CommitterEmail   string
	CommittedDate    *time.Time
	Trailers         map[string]string
	ExtendedTrailers map[string][]string
	WebURL           string
	Stats            CommitStats
	Status           string
	ProjectID        int
	LastPipeline     *Pipeline
}

// CommitStats contains addition/deletion statistics
type CommitStats struct {
	Additions int
	Deletions int
	Total     int
}

// Consistent reports whether Total equals Additions + Deletions.
// A zero value is considered consistent.
func (s CommitStats) Consistent() bool {
	return s.Total == s.Additions+s.Deletions
}
