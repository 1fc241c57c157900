package gitlab

import "time"

// Raw records mirror the JSON returned by the API. They are decoded directly
// (instead of through the SDK's typed services) so that null list entries,
// null coverage and absent stats survive to the Normalizer.

// RawPipeline is a pipeline as listed by GET /projects/:id/pipelines
type RawPipeline struct {
	ID        int        `json:"id"`
	IID       int        `json:"iid"`
	ProjectID int        `json:"project_id"`
	SHA       string     `json:"sha"`
	Ref       string     `json:"ref"`
	Status    string     `json:"status"`
	Source    string     `json:"source"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
	WebURL    string     `json:"web_url"`
	Name      *string    `json:"name"`
}

// RawCommit is a commit as returned by GET /projects/:id/repository/commits/:sha
type RawCommit struct {
	ID               string              `json:"id"`
	ShortID          string              `json:"short_id"`
	CreatedAt        *time.Time          `json:"created_at"`
	ParentIDs        []string            `json:"parent_ids"`
	Title            string              `json:"title"`
	Message          string              `json:"message"`
	AuthorName       string              `json:"author_name"`
	AuthorEmail      string              `json:"author_email"`
	AuthoredDate     *time.Time          `json:"authored_date"`
	CommitterName    string              `json:"committer_name"`
	CommitterEmail   string              `json:"committer_email"`
	CommittedDate    *time.Time          `json:"committed_date"`
	Trailers         map[string]string   `json:"trailers"`
	ExtendedTrailers map[string][]string `json:"extended_trailers"`
	WebURL           string              `json:"web_url"`
	Stats            *RawCommitStats     `json:"stats"`
	Status           *string             `json:"status"`
	ProjectID        int                 `json:"project_id"`
	LastPipeline     *RawPipeline        `json:"last_pipeline"`
}

// RawCommitStats is the optional stats object of a commit
type RawCommitStats struct {
	Additions *int `json:"additions"`
	Deletions *int `json:"deletions"`
	Total     *int `json:"total"`
}

// RawJob is a job as listed by GET /projects/:id/pipelines/:pipeline_id/jobs
type RawJob struct {
	ID             int        `json:"id"`
	Status         string     `json:"status"`
	Stage          string     `json:"stage"`
	Name           string     `json:"name"`
	Ref            string     `json:"ref"`
	Tag            bool       `json:"tag"`
	Coverage       *float64   `json:"coverage"`
	AllowFailure   bool       `json:"allow_failure"`
	CreatedAt      *time.Time `json:"created_at"`
	StartedAt      *time.Time `json:"started_at"`
	FinishedAt     *time.Time `json:"finished_at"`
	ErasedAt       *time.Time `json:"erased_at"`
	Duration       *float64   `json:"duration"`
	QueuedDuration *float64   `json:"queued_duration"`
	WebURL         string     `json:"web_url"`
}
