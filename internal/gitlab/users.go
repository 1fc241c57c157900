package gitlab

import (
	"context"

	"github.com/codewandler/pipeman/internal/apperr"
	"github.com/codewandler/pipeman/internal/models"

	"github.com/xanzy/go-gitlab"
)

// FindUser returns the first user matching query (name, username or public
// email), or nil when nobody matches.
func (c *Client) FindUser(ctx context.Context, query string) (*models.User, error) {
	if query == "" {
		return nil, nil
	}

	users, _, err := c.gl.Users.ListUsers(&gitlab.ListUsersOptions{
		ListOptions: gitlab.ListOptions{PerPage: 1},
		Search:      gitlab.Ptr(query),
	}, withContext(ctx))
	if err != nil {
		return nil, apperr.Transport("find user", err)
	}
	if len(users) == 0 {
		return nil, nil
	}
	return mapUser(users[0]), nil
}

// FindCommitAuthor looks the author up by email first, then by name
func (c *Client) FindCommitAuthor(ctx context.Context, email, name string) (*models.User, error) {
	for _, q := range []string{email, name} {
		user, err := c.FindUser(ctx, q)
		if err != nil || user != nil {
			return user, err
		}
	}
	return nil, nil
}

func mapUser(u *gitlab.User) *models.User {
	if u == nil {
		return nil
	}
	return &models.User{
		ID:        u.ID,
		Username:  u.Username,
		Name:      u.Name,
		State:     u.State,
		AvatarURL: u.AvatarURL,
		WebURL:    u.WebURL,
	}
}

func withContext(ctx context.Context) gitlab.RequestOptionFunc {
	return gitlab.WithContext(ctx)
}
