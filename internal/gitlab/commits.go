package gitlab

import (
	"context"
	"fmt"
	"net/url"

	"github.com/codewandler/pipeman/internal/apperr"
)

// GetCommit fetches detailed information about a single commit, stats included
func (c *Client) GetCommit(ctx context.Context, projectID int, sha string) (*RawCommit, error) {
	var commit RawCommit
	path := fmt.Sprintf("projects/%d/repository/commits/%s", projectID, url.PathEscape(sha))
	if err := c.getRaw(ctx, path, nil, &commit); err != nil {
		return nil, apperr.Transport("get commit "+sha, err)
	}
	return &commit, nil
}
