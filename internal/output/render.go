package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/codewandler/pipeman/internal/avatar"
	"github.com/codewandler/pipeman/internal/dashboard"
	"github.com/codewandler/pipeman/internal/status"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// AvatarLookup returns a ready avatar for url without blocking
type AvatarLookup func(url string) (*avatar.Image, bool)

// Frame holds what one full render needs
type Frame struct {
	Snapshot *dashboard.Snapshot
	Width    int
	Now      time.Time
	Avatars  AvatarLookup // optional
	Footer   string
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	idStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#5F87FF"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	columnStyle = lipgloss.NewStyle().PaddingLeft(2).PaddingRight(2)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5FD7FF"))
)

// Render draws the whole pipeline list as plain lines separated by "\n"
func Render(f Frame) string {
	width := f.Width
	if width <= 0 {
		width = 120
	}
	clip := lipgloss.NewStyle().MaxWidth(width)

	var b strings.Builder
	if f.Snapshot == nil {
		b.WriteString(headerStyle.Render("pipeman"))
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render("Loading pipelines..."))
		b.WriteString("\n")
	} else {
		b.WriteString(clip.Render(headerStyle.Render(f.Snapshot.Project.PathWithNamespace) + "  " +
			dimStyle.Render(f.Snapshot.Project.WebURL)))
		b.WriteString("\n")

		if len(f.Snapshot.Rows) == 0 {
			b.WriteString("\n")
			b.WriteString(dimStyle.Render("No pipelines yet."))
			b.WriteString("\n")
		}
		for _, row := range f.Snapshot.Rows {
			b.WriteString(clip.Render(RenderRow(row, f.Now, f.Avatars)))
			b.WriteString("\n")
			b.WriteString(dimStyle.Render(strings.Repeat("─", width)))
			b.WriteString("\n")
		}
	}

	if f.Footer != "" {
		b.WriteString(clip.Render(dimStyle.Render(f.Footer)))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderRow draws one pipeline as timing, info, author and stage columns
func RenderRow(row dashboard.Row, now time.Time, avatars AvatarLookup) string {
	p := row.Pipeline

	timings := lipgloss.JoinVertical(lipgloss.Left,
		StatusPill(p.Status, false),
		iconElapsed+" "+formatElapsed(p.Elapsed()),
		iconCalendar+" "+relTime(p.UpdatedAt, now),
	)

	author := row.Commit.AuthorName
	infoLines := []string{
		titleStyle.Render(truncate(row.Commit.Title, 60)),
		strings.Join([]string{
			idStyle.Render(fmt.Sprintf("#%d", p.ID)),
			infoPill(p.Ref, iconBranch),
			infoPill(p.ShortSHA(), iconCommit),
			infoPill(author, iconUser),
		}, "  "),
	}
	if p.IsLatest {
		infoLines = append(infoLines, pill("latest", "", colorWhite, colorSuccess))
	}
	info := lipgloss.JoinVertical(lipgloss.Left, infoLines...)

	columns := []string{
		columnStyle.Render(timings),
		columnStyle.Render(info),
	}
	if avatars != nil && row.Author != nil {
		if img, ok := avatars(row.Author.AvatarURL); ok {
			columns = append(columns, columnStyle.Render(RenderAvatar(img)))
		}
	}
	columns = append(columns, columnStyle.Render(RenderStages(row.Stages)))

	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

// RenderStages draws compact stage pills joined by dashes
func RenderStages(stages []status.StageSummary) string {
	if len(stages) == 0 {
		return dimStyle.Render("no jobs")
	}
	pills := make([]string, len(stages))
	for i, s := range stages {
		pills[i] = StatusPill(s.Status, true)
	}
	return strings.Join(pills, lipgloss.NewStyle().Bold(true).Render("-"))
}

// RenderAvatar draws img with upper half blocks, two pixel rows per line
func RenderAvatar(img *avatar.Image) string {
	lines := make([]string, 0, (img.Height+1)/2)
	for y := 0; y < img.Height; y += 2 {
		var line strings.Builder
		for x := 0; x < img.Width; x++ {
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(img.Hex(x, y)))
			if y+1 < img.Height {
				style = style.Background(lipgloss.Color(img.Hex(x, y+1)))
			}
			line.WriteString(style.Render("▀"))
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// formatElapsed renders d as H:MM:SS
func formatElapsed(d time.Duration) string {
	d = d.Truncate(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

func relTime(t *time.Time, now time.Time) string {
	if t == nil || t.IsZero() {
		return "unknown"
	}
	return humanize.RelTime(*t, now, "ago", "from now")
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
