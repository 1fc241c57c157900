package gitlab

import (
	"context"

	"github.com/codewandler/pipeman/internal/apperr"
	"github.com/codewandler/pipeman/internal/models"
)

// GetProject fetches a project by its path with namespace (or numeric ID)
func (c *Client) GetProject(ctx context.Context, idOrPath string) (models.Project, error) {
	p, _, err := c.gl.Projects.GetProject(idOrPath, nil, withContext(ctx))
	if err != nil {
		return models.Project{}, apperr.Transport("get project "+idOrPath, err)
	}

	return models.Project{
		ID:                p.ID,
		Name:              p.Name,
		PathWithNamespace: p.PathWithNamespace,
		WebURL:            p.WebURL,
		DefaultBranch:     p.DefaultBranch,
	}, nil
}
