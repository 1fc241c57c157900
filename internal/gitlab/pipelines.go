package gitlab

import (
	"context"
	"fmt"

	"github.com/codewandler/pipeman/internal/apperr"

	"github.com/xanzy/go-gitlab"
)

// ListPipelines fetches the newest pipelines of a project in API order (newest first)
func (c *Client) ListPipelines(ctx context.Context, projectID int) ([]*RawPipeline, error) {
	limit := c.PipelineLimit
	if limit <= 0 {
		limit = 20
	}

	opts := &gitlab.ListProjectPipelinesOptions{
		ListOptions: gitlab.ListOptions{
			PerPage: min(limit, 100),
			Page:    1,
		},
		OrderBy: gitlab.Ptr("id"),
		Sort:    gitlab.Ptr("desc"),
	}

	var pipelines []*RawPipeline
	if err := c.getRaw(ctx, fmt.Sprintf("projects/%d/pipelines", projectID), opts, &pipelines); err != nil {
		return nil, apperr.Transport("list pipelines", err)
	}

	if len(pipelines) > limit {
		pipelines = pipelines[:limit]
	}
	return pipelines, nil
}

// GetPipeline fetches a single pipeline
func (c *Client) GetPipeline(ctx context.Context, projectID, pipelineID int) (*RawPipeline, error) {
	var p RawPipeline
	if err := c.getRaw(ctx, fmt.Sprintf("projects/%d/pipelines/%d", projectID, pipelineID), nil, &p); err != nil {
		return nil, apperr.Transport(fmt.Sprintf("get pipeline %d", pipelineID), err)
	}
	return &p, nil
}
