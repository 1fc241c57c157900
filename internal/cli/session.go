package cli

import (
	"context"
	"io"

	"github.com/codewandler/pipeman/internal/config"
	"github.com/codewandler/pipeman/internal/dashboard"
	"github.com/codewandler/pipeman/internal/gitlab"
	"github.com/codewandler/pipeman/internal/logging"
	"github.com/codewandler/pipeman/internal/models"
	"github.com/codewandler/pipeman/internal/status"

	"github.com/rs/zerolog"
)

// session bundles what every command needs after startup validation
type session struct {
	cfg     *config.Config
	log     zerolog.Logger
	closer  io.Closer
	client  *gitlab.Client
	builder *dashboard.Builder
}

// newSession loads configuration and builds the API client. Nothing touches
// the network before the configuration has been validated.
func newSession() (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.RequireGitLab(); err != nil {
		return nil, err
	}

	order := status.Default()
	if len(cfg.Dashboard.StatusOrder) > 0 {
		if order, err = status.NewOrder(cfg.Dashboard.StatusOrder); err != nil {
			return nil, err
		}
	}

	log, closer, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	client, err := gitlab.NewClient(cfg.GitLab.Host, cfg.GitLab.Token)
	if err != nil {
		closer.Close()
		return nil, err
	}
	client.PipelineLimit = cfg.Dashboard.PipelineLimit

	s := &session{
		cfg:    cfg,
		log:    log,
		closer: closer,
		client: client,
		builder: &dashboard.Builder{
			Gateway:              client,
			Order:                order,
			MaxConcurrentFetches: cfg.Dashboard.MaxConcurrentFetches,
			Log:                  log.With().Str("component", "builder").Logger(),
		},
	}
	if cfg.Dashboard.AvatarsEnabled() {
		s.builder.Authors = dashboard.NewAuthorCache(client, log)
	}
	return s, nil
}

func (s *session) resolveProject(ctx context.Context) (models.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Dashboard.FetchTimeout)
	defer cancel()

	project, err := s.client.ResolveCurrentProject(ctx, projectDir)
	if err != nil {
		return models.Project{}, err
	}
	s.log.Info().Int("project_id", project.ID).Str("project", project.PathWithNamespace).Msg("project resolved")
	return project, nil
}

func (s *session) Close() {
	s.closer.Close()
}
