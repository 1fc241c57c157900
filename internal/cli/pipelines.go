package cli

import (
	"context"
	"os"
	"strconv"

	"github.com/codewandler/pipeman/internal/dashboard"
	"github.com/codewandler/pipeman/internal/gitlab"
	"github.com/codewandler/pipeman/internal/output"

	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List recent pipelines once and exit",
	Long: `List the most recent pipelines of the current repository and exit.

Examples:
  pipeman ls
  PIPEMAN_PIPELINE_LIMIT=5 pipeman ls`,
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

		project, err := s.resolveProject(ctx)
		if err != nil {
			exitOnError(err)
		}

		ctx, cancel := context.WithTimeout(ctx, s.cfg.Dashboard.FetchTimeout)
		defer cancel()

		snap, err := dashboard.Once(ctx, s.builder, project)
		if err != nil {
			exitOnError(err)
		}

		output.PrintPipelineList(os.Stdout, snap)
	},
}

var showCmd = &cobra.Command{
	Use:   "show <pipeline-id>",
	Short: "Show a pipeline with its commit, stages and jobs",
	Long: `Show details of one pipeline of the current repository.

Examples:
  pipeman show 123456`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		id, err := strconv.Atoi(args[0])
		if err != nil {
			exitOnError(err)
		}

		s, err := newSession()
		if err != nil {
			exitOnError(err)
		}
		defer s.Close()

		project, err := s.resolveProject(ctx)
		if err != nil {
			exitOnError(err)
		}

		ctx, cancel := context.WithTimeout(ctx, s.cfg.Dashboard.FetchTimeout)
		defer cancel()

		raw, err := s.client.GetPipeline(ctx, project.ID, id)
		if err != nil {
			exitOnError(err)
		}
		p, err := gitlab.NormalizePipeline(raw)
		if err != nil {
			exitOnError(err)
		}

		row, err := s.builder.Row(ctx, project, p)
		if err != nil {
			exitOnError(err)
		}

		output.PrintPipelineDetails(os.Stdout, row)
	},
}
