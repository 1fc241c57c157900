package dashboard

import (
	"context"
	"time"

	"github.com/codewandler/pipeman/internal/gitlab"
	"github.com/codewandler/pipeman/internal/models"
	"github.com/codewandler/pipeman/internal/status"
)

// Gateway is the read-only view of the CI/CD service the loop needs
type Gateway interface {
	ListPipelines(ctx context.Context, projectID int) ([]*gitlab.RawPipeline, error)
	GetCommit(ctx context.Context, projectID int, sha string) (*gitlab.RawCommit, error)
	ListJobs(ctx context.Context, projectID, pipelineID int) ([]*gitlab.RawJob, error)
}

// AuthorFinder resolves commit authors to users for avatar enrichment
type AuthorFinder interface {
	FindCommitAuthor(ctx context.Context, email, name string) (*models.User, error)
}

// Publisher receives every successfully built snapshot. Snapshots must be
// treated as read-only once published.
type Publisher interface {
	Publish(Snapshot)
}

// PublisherFunc adapts a function to Publisher
type PublisherFunc func(Snapshot)

func (f PublisherFunc) Publish(s Snapshot) { f(s) }

// Snapshot is one complete, immutable view of the project's pipelines
type Snapshot struct {
	Project     models.Project
	Rows        []Row
	Cycle       int
	PublishedAt time.Time
}

// Row is one pipeline with its commit, jobs and condensed stages
type Row struct {
	Pipeline models.Pipeline
	Commit   models.Commit
	Jobs     []models.Job
	Stages   []status.StageSummary
	Author   *models.User
}

// Latest returns the row marked latest, if any
func (s Snapshot) Latest() (Row, bool) {
	for _, r := range s.Rows {
		if r.Pipeline.IsLatest {
			return r, true
		}
	}
	return Row{}, false
}
