package gitlab

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/codewandler/pipeman/internal/apperr"
	"github.com/codewandler/pipeman/internal/gitremote"
	"github.com/codewandler/pipeman/internal/models"

	"github.com/xanzy/go-gitlab"
)

// Client is the API gateway to a single GitLab host. It only reads.
type Client struct {
	gl *gitlab.Client

	// PipelineLimit caps how many pipelines ListPipelines returns
	PipelineLimit int
}

func NewClient(url, token string) (*Client, error) {
	gl, err := gitlab.NewClient(token, gitlab.WithBaseURL(strings.TrimSuffix(url, "/")+"/api/v4"))
	if err != nil {
		return nil, fmt.Errorf("failed to create GitLab client: %w", err)
	}

	return &Client{gl: gl, PipelineLimit: 20}, nil
}

// TestAuth verifies the token works and returns current user info
func (c *Client) TestAuth(ctx context.Context) (*models.User, error) {
	user, _, err := c.gl.Users.CurrentUser(gitlab.WithContext(ctx))
	if err != nil {
		return nil, apperr.Transport("auth test", err)
	}
	return mapUser(user), nil
}

// ResolveCurrentProject looks up the project named by the origin remote of
// the git repository in dir.
func (c *Client) ResolveCurrentProject(ctx context.Context, dir string) (models.Project, error) {
	path, err := gitremote.CurrentProjectPath(ctx, dir)
	if err != nil {
		return models.Project{}, err
	}
	return c.GetProject(ctx, path)
}

// getRaw issues a GET against path and decodes the JSON body into v.
// opt is encoded as query parameters.
func (c *Client) getRaw(ctx context.Context, path string, opt any, v any) error {
	req, err := c.gl.NewRequest(http.MethodGet, path, opt, []gitlab.RequestOptionFunc{gitlab.WithContext(ctx)})
	if err != nil {
		return err
	}
	_, err = c.gl.Do(req, v)
	return err
}
