package output

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/codewandler/pipeman/internal/avatar"
	"github.com/codewandler/pipeman/internal/dashboard"

	"github.com/rs/zerolog"
)

const (
	enterAltScreen = "\x1b[?1049h\x1b[?25l"
	leaveAltScreen = "\x1b[?25h\x1b[?1049l"
	clearScreen    = "\x1b[H\x1b[2J"
)

// Screen is the full-screen presenter. It keeps the last snapshot it was
// given and redraws everything on each publish.
type Screen struct {
	out   io.Writer
	width func() int
	now   func() time.Time
	log   zerolog.Logger

	ctx     context.Context
	avatars *avatar.Fetcher

	mu     sync.Mutex
	snap   *dashboard.Snapshot
	closed bool // set by Leave, stops redraws
}

type ScreenOption func(*Screen)

// WithWidth sets the terminal width source
func WithWidth(fn func() int) ScreenOption { return func(s *Screen) { s.width = fn } }

// WithNow sets the time source for relative times
func WithNow(fn func() time.Time) ScreenOption { return func(s *Screen) { s.now = fn } }

// WithAvatars enables author avatars, downloaded in the background under ctx
func WithAvatars(ctx context.Context, f *avatar.Fetcher) ScreenOption {
	return func(s *Screen) {
		s.ctx = ctx
		s.avatars = f
	}
}

func WithScreenLogger(log zerolog.Logger) ScreenOption { return func(s *Screen) { s.log = log } }

func NewScreen(out io.Writer, opts ...ScreenOption) *Screen {
	s := &Screen{
		out:   out,
		width: func() int { return 120 },
		now:   time.Now,
		log:   zerolog.Nop(),
		ctx:   context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Enter switches to the alternate screen buffer and draws the loading view
func (s *Screen) Enter() {
	s.mu.Lock()
	s.closed = false
	fmt.Fprint(s.out, enterAltScreen)
	s.mu.Unlock()
	s.Redraw()
}

// Leave restores the primary screen buffer. Later redraws are dropped.
func (s *Screen) Leave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	fmt.Fprint(s.out, leaveAltScreen)
}

// Publish implements dashboard.Publisher
func (s *Screen) Publish(snap dashboard.Snapshot) {
	s.mu.Lock()
	s.snap = &snap
	s.mu.Unlock()

	if s.avatars != nil {
		var urls []string
		for _, r := range snap.Rows {
			if r.Author != nil && r.Author.AvatarURL != "" {
				urls = append(urls, r.Author.AvatarURL)
			}
		}
		s.avatars.Prefetch(s.ctx, urls, s.Redraw)
	}

	s.Redraw()
}

// Snapshot returns the snapshot currently shown
func (s *Screen) Snapshot() (dashboard.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap == nil {
		return dashboard.Snapshot{}, false
	}
	return *s.snap, true
}

// Redraw renders the current snapshot again
func (s *Screen) Redraw() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	frame := s.frame()
	// the terminal is in raw mode, so newlines need an explicit carriage return
	frame = strings.ReplaceAll(frame, "\n", "\r\n")
	if _, err := io.WriteString(s.out, clearScreen+frame); err != nil {
		s.log.Warn().Err(err).Msg("redraw failed")
	}
}

// frame must be called with mu held
func (s *Screen) frame() string {
	f := Frame{
		Snapshot: s.snap,
		Width:    s.width(),
		Now:      s.now(),
	}
	if s.avatars != nil {
		f.Avatars = s.avatars.Lookup
	}

	footer := "q quit"
	if s.snap != nil {
		footer = fmt.Sprintf("%d pipelines · updated %s · cycle %d · q quit",
			len(s.snap.Rows), s.snap.PublishedAt.Format("15:04:05"), s.snap.Cycle)
	}
	f.Footer = footer
	return Render(f)
}
