package statusline

import (
	"bytes"
	"strings"
	"text/template"
)

// DefaultFormat renders e.g. "● running #102 main"
const DefaultFormat = `{{.Icon}} {{.Status}}{{if .ID}} #{{.ID}}{{end}}{{if .Ref}} {{.Ref}}{{end}}`

// RenderSegment renders a segment with the given text/template format
func RenderSegment(format string, seg Segment) (string, error) {
	if format == "" {
		format = DefaultFormat
	}

	tmpl, err := template.New("segment").Parse(format)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, seg); err != nil {
		return "", err
	}

	return strings.TrimSpace(buf.String()), nil
}
