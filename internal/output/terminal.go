package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/codewandler/pipeman/internal/dashboard"
	"github.com/codewandler/pipeman/internal/models"

	"github.com/charmbracelet/glamour"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"golang.org/x/term"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	projectColor = color.New(color.FgYellow, color.Bold)
	sectionColor = color.New(color.FgGreen)
	dimColor     = color.New(color.FgHiBlack)
	linkColor    = color.New(color.FgCyan, color.Underline)
	labelColor   = color.New(color.FgCyan)
	valueColor   = color.New(color.FgWhite)

	// Markdown renderer for commit messages
	mdRenderer, _ = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
)

// hyperlink creates a clickable terminal hyperlink using OSC 8 escape sequence
// Uses BEL (\a) as string terminator for wider terminal compatibility
func hyperlink(url, text string) string {
	styledText := linkColor.Sprint(text)
	if url == "" || !term.IsTerminal(int(os.Stdout.Fd())) {
		return styledText
	}
	return fmt.Sprintf("\x1b]8;;%s\x07%s\x1b]8;;\x07", url, styledText)
}

func printHeader(w io.Writer, title string) {
	line := strings.Repeat("═", 60)
	fmt.Fprintln(w)
	headerColor.Fprintln(w, line)
	projectColor.Fprintf(w, "  %s\n", title)
	headerColor.Fprintln(w, line)
	fmt.Fprintln(w)
}

func printField(w io.Writer, label, value string) {
	labelColor.Fprintf(w, "  %-16s ", label+":")
	valueColor.Fprintln(w, value)
}

func formatTimestamp(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "unknown"
	}
	return fmt.Sprintf("%s (%s)", t.Format("2006-01-02 15:04"), humanize.Time(*t))
}

// renderMarkdown renders markdown text for terminal display
func renderMarkdown(text string) string {
	if mdRenderer == nil {
		return text
	}
	rendered, err := mdRenderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimSpace(rendered)
}

// PrintPipelineList prints a one-shot table of the snapshot's pipelines
func PrintPipelineList(w io.Writer, snap dashboard.Snapshot) {
	printHeader(w, snap.Project.PathWithNamespace)

	if len(snap.Rows) == 0 {
		dimColor.Fprintln(w, "  No pipelines found.")
		fmt.Fprintln(w)
		return
	}

	for _, r := range snap.Rows {
		p := r.Pipeline
		fmt.Fprintf(w, "  %s %-10s %-9s %-20s %s",
			hyperlink(p.WebURL, fmt.Sprintf("#%-8d", p.ID)),
			p.Status,
			p.ShortSHA(),
			truncate(p.Ref, 20),
			truncate(r.Commit.Title, 50),
		)
		if p.IsLatest {
			sectionColor.Fprint(w, " (latest)")
		}
		fmt.Fprintln(w)

		dimColor.Fprintf(w, "  %-9s %s, %s, %s\n", "",
			r.Commit.AuthorName, formatElapsed(p.Elapsed()), formatTimestamp(p.UpdatedAt))
	}
	fmt.Fprintln(w)
}

// PrintPipelineDetails prints one pipeline with its commit, stages and jobs
func PrintPipelineDetails(w io.Writer, r dashboard.Row) {
	p := r.Pipeline
	c := r.Commit

	printHeader(w, fmt.Sprintf("Pipeline #%d", p.ID))

	printField(w, "Status", p.Status)
	printField(w, "Ref", p.Ref)
	printField(w, "SHA", p.SHA)
	if p.Name != "" {
		printField(w, "Name", p.Name)
	}
	printField(w, "Source", p.Source)
	printField(w, "Created", formatTimestamp(p.CreatedAt))
	printField(w, "Updated", formatTimestamp(p.UpdatedAt))
	printField(w, "Elapsed", formatElapsed(p.Elapsed()))
	if p.WebURL != "" {
		printField(w, "URL", hyperlink(p.WebURL, p.WebURL))
	}
	fmt.Fprintln(w)

	printField(w, "Author", authorLine(c, r.Author))
	if c.CommitterName != "" && c.CommitterName != c.AuthorName {
		printField(w, "Committer", fmt.Sprintf("%s <%s>", c.CommitterName, c.CommitterEmail))
	}
	printField(w, "Date", formatTimestamp(c.AuthoredDate))
	if c.Stats.Total > 0 {
		printField(w, "Changes", fmt.Sprintf("+%d/-%d (%d total)", c.Stats.Additions, c.Stats.Deletions, c.Stats.Total))
	}
	fmt.Fprintln(w)

	if len(r.Jobs) > 0 {
		sectionColor.Fprintf(w, "  Jobs (%d):\n", len(r.Jobs))
		for _, g := range groupJobs(r) {
			fmt.Fprintf(w, "    ▸ %-28s %s\n", g.stage, g.status)
			for _, j := range g.jobs {
				printJob(w, j)
			}
		}
		fmt.Fprintln(w)
	}

	sectionColor.Fprintln(w, "  Message:")
	fmt.Fprintln(w)
	for _, line := range strings.Split(renderMarkdown(c.Message), "\n") {
		fmt.Fprintf(w, "    %s\n", line)
	}
	fmt.Fprintln(w)
}

type jobGroup struct {
	stage  string
	status string
	jobs   []models.Job
}

// groupJobs buckets jobs under the row's stage summaries in display order.
// Jobs of a stage without a summary follow in order of first appearance.
func groupJobs(r dashboard.Row) []jobGroup {
	groups := make([]jobGroup, 0, len(r.Stages))
	index := make(map[string]int, len(r.Stages))
	for _, s := range r.Stages {
		index[s.Name] = len(groups)
		groups = append(groups, jobGroup{stage: s.Name, status: s.Status})
	}
	for _, j := range r.Jobs {
		i, ok := index[j.Stage]
		if !ok {
			i = len(groups)
			index[j.Stage] = i
			groups = append(groups, jobGroup{stage: j.Stage})
		}
		groups[i].jobs = append(groups[i].jobs, j)
	}
	return groups
}

func printJob(w io.Writer, j models.Job) {
	var details []string
	if j.Duration > 0 {
		details = append(details, formatElapsed(time.Duration(j.Duration*float64(time.Second))))
	}
	if j.Coverage != nil {
		details = append(details, fmt.Sprintf("%.1f%% coverage", *j.Coverage))
	}
	if j.AllowFailure {
		details = append(details, "allowed to fail")
	}

	fmt.Fprintf(w, "      • %-28s %-10s ", truncate(j.Name, 28), j.Status)
	dimColor.Fprintln(w, strings.Join(details, ", "))
}

func authorLine(c models.Commit, u *models.User) string {
	s := fmt.Sprintf("%s <%s>", c.AuthorName, c.AuthorEmail)
	if u != nil && u.Username != "" {
		s += " @" + u.Username
	}
	return s
}
