package cli

import (
	"context"
	"fmt"

	"github.com/codewandler/pipeman/internal/gitlab"
	"github.com/codewandler/pipeman/internal/gitremote"
	"github.com/codewandler/pipeman/internal/output"
	"github.com/codewandler/pipeman/internal/statusline"

	"github.com/spf13/cobra"
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print the latest pipeline as a shell prompt segment",
	Long: `Print the status of the latest pipeline on one line, for shell prompts.

The latest pipeline is fetched on every call, bounded by
PIPEMAN_FETCH_TIMEOUT. Nothing is written to disk, and nothing is printed
outside a GitLab repository or when the fetch fails.

The format is a Go template over .Icon, .Status, .ID, .Ref and .SHA,
set with PIPEMAN_PROMPT_FORMAT.

Examples:
  pipeman prompt
  PIPEMAN_PROMPT_FORMAT='{{.Icon}} {{.Status}}' pipeman prompt`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		s, err := newSession()
		if err != nil {
			exitOnError(err)
		}
		defer s.Close()

		// outside a repository the prompt stays empty
		path, err := gitremote.CurrentProjectPath(ctx, projectDir)
		if err != nil {
			s.log.Debug().Err(err).Msg("no project for prompt")
			return
		}

		s.client.PipelineLimit = 1
		out, err := statusline.Run(ctx, latestSegment(s.client, path), statusline.Options{
			Format:  s.cfg.Prompt.Format,
			Timeout: s.cfg.Dashboard.FetchTimeout,
		})
		if err != nil {
			s.log.Warn().Err(err).Msg("prompt unavailable")
			return
		}
		fmt.Println(out)
	},
}

func latestSegment(client *gitlab.Client, path string) statusline.FetchFunc {
	return func(ctx context.Context) (statusline.Segment, error) {
		project, err := client.GetProject(ctx, path)
		if err != nil {
			return statusline.Segment{}, err
		}
		raw, err := client.ListPipelines(ctx, project.ID)
		if err != nil {
			return statusline.Segment{}, err
		}
		pipelines := gitlab.NormalizePipelines(raw)
		if len(pipelines) == 0 {
			return statusline.Segment{Status: "none", Icon: "○"}, nil
		}
		p := pipelines[0]
		return statusline.Segment{
			ID:     p.ID,
			Status: p.Status,
			Ref:    p.Ref,
			SHA:    p.ShortSHA(),
			Icon:   output.StatusIcon(p.Status),
		}, nil
	}
}
