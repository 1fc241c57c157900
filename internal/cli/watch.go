package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/codewandler/pipeman/internal/avatar"
	"github.com/codewandler/pipeman/internal/dashboard"
	"github.com/codewandler/pipeman/internal/output"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// avatarSize is the avatar size in pixels; two pixel rows share a line
const avatarSize = 6

const keyCtrlC = 0x03

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Show the live pipeline dashboard (default)",
	Long: `Show the live pipeline dashboard for the current repository.

Keys:
  q, Ctrl-C   quit

Examples:
  pipeman
  pipeman watch -C ~/src/app`,
	Run: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := newSession()
	if err != nil {
		exitOnError(err)
	}
	defer s.Close()

	project, err := s.resolveProject(ctx)
	if err != nil {
		exitOnError(err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stdin := int(os.Stdin.Fd())
	if term.IsTerminal(stdin) {
		oldState, err := term.MakeRaw(stdin)
		if err != nil {
			exitOnError(err)
		}
		defer term.Restore(stdin, oldState)
		go watchKeys(os.Stdin, cancel)
	}

	opts := []output.ScreenOption{
		output.WithWidth(terminalWidth),
		output.WithScreenLogger(s.log),
	}
	if s.cfg.Dashboard.AvatarsEnabled() {
		fetcher := avatar.NewFetcher(avatarSize, avatarSize, s.log.With().Str("component", "avatar").Logger())
		opts = append(opts, output.WithAvatars(ctx, fetcher))
	}
	screen := output.NewScreen(os.Stdout, opts...)
	screen.Enter()
	defer screen.Leave()

	mailbox := dashboard.NewMailbox()
	forwarded := make(chan struct{})
	go func() {
		mailbox.Forward(ctx, screen)
		close(forwarded)
	}()

	loop := dashboard.NewLoop(s.builder, mailbox, project,
		dashboard.WithInterval(s.cfg.Dashboard.RefreshInterval),
		dashboard.WithSleepSlice(s.cfg.Dashboard.SleepSlice),
		dashboard.WithFetchTimeout(s.cfg.Dashboard.FetchTimeout),
		dashboard.WithLogger(s.log.With().Str("component", "loop").Logger()),
	)
	if err := loop.Run(ctx); err != nil {
		s.log.Error().Err(err).Msg("refresh loop failed")
	}
	cancel()
	<-forwarded

	stats := loop.Stats()
	s.log.Info().
		Int64("cycles", stats.Cycles).
		Int64("failures", stats.Failures).
		Int64("published", stats.Published).
		Msg("dashboard closed")
}

// watchKeys reads raw key presses and calls quit on q or Ctrl-C
func watchKeys(r io.Reader, quit func()) {
	buf := make([]byte, 16)
	for {
		n, err := r.Read(buf)
		for _, b := range buf[:n] {
			switch b {
			case 'q', 'Q', keyCtrlC:
				quit()
				return
			}
		}
		if err != nil {
			return
		}
	}
}

func terminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 120
	}
	return w
}
