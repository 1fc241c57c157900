package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/codewandler/pipeman/internal/apperr"

	"github.com/spf13/cobra"
)

var (
	version    = "dev"
	projectDir string
)

var rootCmd = &cobra.Command{
	Use:   "pipeman",
	Short: "Live GitLab pipeline dashboard for the current repository",
	Long: `pipeman - watch the pipelines of the repository you are in.

The project is resolved from the origin remote of the git repository in the
current directory. Pipelines refresh every few seconds until you press q.

Configuration:
  GITLAB_HOST    GitLab base URL, e.g. https://gitlab.example.com
  GITLAB_TOKEN   personal access token with read_api scope`,
	SilenceUsage: true,
	Run:          runWatch,
}

// SetVersion sets the version reported by 'pipeman version'
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectDir, "dir", "C", ".", "Git repository to resolve the project from")

	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(promptCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pipeman %s\n", version)
	},
}

// exitOnError prints err and exits. Configuration problems get their own
// prefix so they are easy to tell apart from API failures.
func exitOnError(err error) {
	var cfgErr *apperr.ConfigurationError
	if errors.As(err, &cfgErr) {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(1)
}
