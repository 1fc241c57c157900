package output

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette of the pipeline list
const (
	colorCreated = lipgloss.Color("#333238")
	colorPending = lipgloss.Color("#6F3A0C")
	colorRunning = lipgloss.Color("#154584")
	colorSuccess = lipgloss.Color("#0C522C")
	colorWarning = lipgloss.Color("#6F3A0C")
	colorFailed  = lipgloss.Color("#8C1E0D")
	colorSkipped = lipgloss.Color("#333238")
	colorManual  = lipgloss.Color("#333238")
	colorGeneric = lipgloss.Color("#323232")
	colorText    = lipgloss.Color("#AAAAAA")
	colorWhite   = lipgloss.Color("#FFFFFF")
)

const (
	iconElapsed  = "⧗"
	iconCalendar = "◷"
	iconBranch   = "⎇"
	iconCommit   = "◉"
	iconUser     = "☺"
)

type statusLook struct {
	text  string
	icon  string
	color lipgloss.Color
}

var statusLooks = map[string]statusLook{
	"created":              {"Created", "○", colorCreated},
	"waiting_for_resource": {"Waiting", "◔", colorPending},
	"waiting_for_callback": {"Waiting", "◔", colorPending},
	"preparing":            {"Preparing", "◔", colorPending},
	"pending":              {"Pending", "◔", colorPending},
	"scheduled":            {"Scheduled", "◷", colorPending},
	"running":              {"Running", "●", colorRunning},
	"success":              {"Passed", "✔", colorSuccess},
	"warning":              {"Warning", "!", colorWarning},
	"failed":               {"Failed", "✖", colorFailed},
	"canceling":            {"Canceling", "⊘", colorSkipped},
	"canceled":             {"Canceled", "⊘", colorSkipped},
	"skipped":              {"Skipped", "»", colorSkipped},
	"manual":               {"Manual", "⚙", colorManual},
}

func lookFor(status string) statusLook {
	if l, ok := statusLooks[strings.ToLower(strings.TrimSpace(status))]; ok {
		return l
	}
	return statusLook{text: status, icon: "?", color: colorGeneric}
}

// pill renders text on a colored background. An empty text leaves only the icon.
func pill(text, icon string, fg, bg lipgloss.Color) string {
	label := strings.TrimSpace(icon + " " + text)
	return lipgloss.NewStyle().
		Foreground(fg).
		Background(bg).
		Padding(0, 1).
		Render(label)
}

// StatusPill renders a pipeline or stage status. Compact pills show the icon only.
func StatusPill(status string, compact bool) string {
	l := lookFor(status)
	if compact {
		return pill("", l.icon, colorWhite, l.color)
	}
	return pill(l.text, l.icon, colorWhite, l.color)
}

func infoPill(text, icon string) string {
	return pill(text, icon, colorText, colorGeneric)
}

// StatusIcon returns the icon used for status
func StatusIcon(status string) string {
	return lookFor(status).icon
}
