package gitlab

import (
	"context"
	"fmt"

	"github.com/codewandler/pipeman/internal/apperr"

	"github.com/xanzy/go-gitlab"
)

// ListJobs fetches the jobs of a pipeline. The API leaves retried attempts
// out by default, so each job name appears once.
func (c *Client) ListJobs(ctx context.Context, projectID, pipelineID int) ([]*RawJob, error) {
	opts := &gitlab.ListJobsOptions{
		ListOptions: gitlab.ListOptions{
			PerPage: 100,
			Page:    1,
		},
	}

	var jobs []*RawJob
	if err := c.getRaw(ctx, fmt.Sprintf("projects/%d/pipelines/%d/jobs", projectID, pipelineID), opts, &jobs); err != nil {
		return nil, apperr.Transport(fmt.Sprintf("list jobs of pipeline %d", pipelineID), err)
	}
	return jobs, nil
}
