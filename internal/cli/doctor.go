package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/codewandler/pipeman/internal/config"
	"github.com/codewandler/pipeman/internal/gitlab"
	"github.com/codewandler/pipeman/internal/gitremote"
	"github.com/codewandler/pipeman/internal/status"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	doctorHeader  = color.New(color.FgCyan, color.Bold)
	doctorSuccess = color.New(color.FgGreen)
	doctorError   = color.New(color.FgRed)
	doctorDim     = color.New(color.FgHiBlack)
	doctorLabel   = color.New(color.FgWhite)
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration and connectivity",
	Long: `Check that pipeman can run in the current directory.

Verifies the configuration, the GitLab token, the git origin remote and the
project lookup.

Examples:
  pipeman doctor`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			doctorError.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}

		doctorHeader.Println("pipeman doctor")
		fmt.Println()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		errors := 0
		check := func(label string, fn func() (string, error)) {
			doctorLabel.Printf("  %-12s", label)
			msg, err := fn()
			if err != nil {
				doctorError.Printf("✗ %v\n", err)
				errors++
				return
			}
			fmt.Println(doctorSuccess.Sprint("✓ ") + msg)
		}

		var client *gitlab.Client
		check("Config", func() (string, error) {
			if err := cfg.RequireGitLab(); err != nil {
				return "", err
			}
			c, err := gitlab.NewClient(cfg.GitLab.Host, cfg.GitLab.Token)
			if err != nil {
				return "", err
			}
			client = c
			return doctorDim.Sprint(cfg.GitLab.Host), nil
		})

		check("Statuses", func() (string, error) {
			if len(cfg.Dashboard.StatusOrder) == 0 {
				return doctorDim.Sprint("default order"), nil
			}
			o, err := status.NewOrder(cfg.Dashboard.StatusOrder)
			if err != nil {
				return "", err
			}
			return doctorDim.Sprint(strings.Join(o.Statuses(), " < ")), nil
		})

		check("Auth", func() (string, error) {
			if client == nil {
				return "", fmt.Errorf("skipped")
			}
			user, err := client.TestAuth(ctx)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("@%s", user.Username), nil
		})

		var path string
		check("Remote", func() (string, error) {
			p, err := gitremote.CurrentProjectPath(ctx, projectDir)
			if err != nil {
				return "", err
			}
			path = p
			return p, nil
		})

		check("Project", func() (string, error) {
			if client == nil || path == "" {
				return "", fmt.Errorf("skipped")
			}
			p, err := client.GetProject(ctx, path)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%s ", p.PathWithNamespace) + doctorDim.Sprintf("(id %d, %s)", p.ID, p.DefaultBranch), nil
		})

		fmt.Println()
		if errors == 0 {
			doctorSuccess.Println("Ready to watch pipelines!")
			return
		}
		doctorError.Printf("%d error(s)\n", errors)
		os.Exit(1)
	},
}
