package diag

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Reporter renders diagnostics with source context for terminal output.
type Reporter struct {
	filename string
	lines    []string
}

func NewReporter(filename, source string) *Reporter {
	return &Reporter{
		filename: filename,
		lines:    strings.Split(source, "\n"),
	}
}

// Format renders one diagnostic with the offending line and a caret marker.
// Positions are stored 0-based and shown 1-based.
func (r *Reporter) Format(d Diagnostic) string {
	var out strings.Builder

	levelColor := r.severityColor(d.Severity)
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	line := d.Location.Start.Line + 1
	col := d.Location.Start.Column + 1

	if d.Code != "" {
		out.WriteString(fmt.Sprintf("%s[%s]: %s\n", levelColor(string(d.Severity)), d.Code, d.Message))
	} else {
		out.WriteString(fmt.Sprintf("%s: %s\n", levelColor(string(d.Severity)), d.Message))
	}

	width := r.lineNumberWidth(line)
	indent := strings.Repeat(" ", width)

	out.WriteString(fmt.Sprintf("%s %s %s:%d:%d\n", indent, dim("-->"), r.filename, line, col))
	out.WriteString(fmt.Sprintf("%s %s\n", indent, dim("│")))

	if line >= 1 && line <= len(r.lines) {
		out.WriteString(fmt.Sprintf("%s %s %s\n",
			bold(fmt.Sprintf("%*d", width, line)), dim("│"), r.lines[line-1]))

		marker := r.marker(d.Location.Start.Column, r.markerLength(d), d.Severity)
		out.WriteString(fmt.Sprintf("%s %s %s\n", indent, dim("│"), marker))
	}

	if d.HelpURL != "" {
		helpColor := color.New(color.FgGreen).SprintFunc()
		out.WriteString(fmt.Sprintf("%s %s %s %s\n", indent, dim("│"), helpColor("help:"), d.HelpURL))
	}

	out.WriteString("\n")
	return out.String()
}

// markerLength underlines the reported span when it stays on one line.
func (r *Reporter) markerLength(d Diagnostic) int {
	if d.Location.End.Line == d.Location.Start.Line && d.Location.End.Column > d.Location.Start.Column {
		return d.Location.End.Column - d.Location.Start.Column
	}
	return 1
}

func (r *Reporter) severityColor(s Severity) func(...interface{}) string {
	switch s {
	case SeverityWarning:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	case SeverityInfo, SeverityHint:
		return color.New(color.FgBlue, color.Bold).SprintFunc()
	default:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	}
}

func (r *Reporter) marker(column, length int, s Severity) string {
	if length <= 0 {
		length = 1
	}
	if column < 0 {
		column = 0
	}
	markerColor := r.severityColor(s)
	return strings.Repeat(" ", column) + markerColor(strings.Repeat("^", length))
}

func (r *Reporter) lineNumberWidth(line int) int {
	width := len(fmt.Sprintf("%d", line))
	if width < 3 {
		width = 3
	}
	return width
}
