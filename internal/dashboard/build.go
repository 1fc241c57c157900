package dashboard

import (
	"context"
	"fmt"
	"sync"

	"github.com/codewandler/pipeman/internal/apperr"
	"github.com/codewandler/pipeman/internal/gitlab"
	"github.com/codewandler/pipeman/internal/models"
	"github.com/codewandler/pipeman/internal/status"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Builder fetches and normalizes one snapshot
type Builder struct {
	Gateway Gateway
	Order   *status.Order
	Authors *AuthorCache // optional

	// MaxConcurrentFetches bounds the per-pipeline commit/job fetches
	MaxConcurrentFetches int

	Log zerolog.Logger
}

// Build lists the project's pipelines and fetches commit and jobs of each.
// Transport errors fail the whole build. A row that cannot be mapped is
// dropped, unless it is the latest pipeline: then the build fails so the
// snapshot never loses its latest marker.
func (b *Builder) Build(ctx context.Context, project models.Project) ([]Row, error) {
	raw, err := b.Gateway.ListPipelines(ctx, project.ID)
	if err != nil {
		return nil, err
	}

	pipelines := gitlab.NormalizePipelines(raw)
	rows := make([]*Row, len(pipelines))

	g, gctx := errgroup.WithContext(ctx)
	if b.MaxConcurrentFetches > 0 {
		g.SetLimit(b.MaxConcurrentFetches)
	}

	for i, p := range pipelines {
		g.Go(func() error {
			row, err := b.buildRow(gctx, project, p)
			if err == nil {
				rows[i] = row
				return nil
			}
			if apperr.IsMapping(err) && !p.IsLatest {
				b.Log.Error().Err(err).Int("pipeline", p.ID).Str("class", apperr.Class(err)).Msg("skipping pipeline row")
				return nil
			}
			return fmt.Errorf("pipeline %d: %w", p.ID, err)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out, nil
}

// Row fetches the commit and jobs of a single pipeline
func (b *Builder) Row(ctx context.Context, project models.Project, p models.Pipeline) (Row, error) {
	row, err := b.buildRow(ctx, project, p)
	if err != nil {
		return Row{}, err
	}
	return *row, nil
}

func (b *Builder) buildRow(ctx context.Context, project models.Project, p models.Pipeline) (*Row, error) {
	rawCommit, err := b.Gateway.GetCommit(ctx, project.ID, p.SHA)
	if err != nil {
		return nil, err
	}
	commit, err := gitlab.NormalizeCommit(rawCommit)
	if err != nil {
		return nil, err
	}

	rawJobs, err := b.Gateway.ListJobs(ctx, project.ID, p.ID)
	if err != nil {
		return nil, err
	}
	jobs := gitlab.NormalizeJobs(rawJobs)

	stages, err := status.StageSummaries(jobs, b.Order)
	if err != nil {
		return nil, err
	}

	row := &Row{Pipeline: p, Commit: commit, Jobs: jobs, Stages: stages}
	if b.Authors != nil {
		row.Author = b.Authors.Lookup(ctx, commit.AuthorEmail, commit.AuthorName)
	}
	return row, nil
}

// AuthorCache memoizes author lookups for the session. Authors are
// enrichment only: lookup failures are logged and yield nil.
type AuthorCache struct {
	finder AuthorFinder
	log    zerolog.Logger

	mu    sync.Mutex
	users map[string]*models.User
}

func NewAuthorCache(finder AuthorFinder, log zerolog.Logger) *AuthorCache {
	return &AuthorCache{finder: finder, log: log, users: make(map[string]*models.User)}
}

// Lookup returns the user for an author, querying the finder at most once
// per author
func (c *AuthorCache) Lookup(ctx context.Context, email, name string) *models.User {
	key := email + "\x00" + name

	c.mu.Lock()
	user, ok := c.users[key]
	c.mu.Unlock()
	if ok {
		return user
	}

	user, err := c.finder.FindCommitAuthor(ctx, email, name)
	if err != nil {
		c.log.Warn().Err(err).Str("author", name).Msg("author lookup failed")
		return nil
	}

	c.mu.Lock()
	c.users[key] = user
	c.mu.Unlock()
	return user
}
