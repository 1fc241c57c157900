package models

import "time"

// ShortSHALength is the number of SHA characters shown in list views.
const ShortSHALength = 8

// Pipeline is one CI run of a project
type Pipeline struct {
	ID        int
	IID       int
	ProjectID int
	SHA       string
	Ref       string
	Status    string // created, pending, running, success, failed, skipped, manual, ...
	Source    string // push, web, trigger, schedule, api, merge_request_event
	CreatedAt *time.Time
	UpdatedAt *time.Time
	WebURL    string
	Name      string

	// IsLatest marks the first pipeline of a fetched batch. It is derived from
	// the position in the API response, never from a response field.
	IsLatest bool
}

// ShortSHA returns the abbreviated commit hash
func (p Pipeline) ShortSHA() string {
	if len(p.SHA) <= ShortSHALength {
		return p.SHA
	}
	return p.SHA[:ShortSHALength]
}

// Elapsed returns the wall time between creation and the last update.
// Zero when either timestamp is missing.
func (p Pipeline) Elapsed() time.Duration {
	if p.CreatedAt == nil || p.UpdatedAt == nil {
		return 0
	}
	d := p.UpdatedAt.Sub(*p.CreatedAt)
	if d < 0 {
		return 0
	}
	return d
}
