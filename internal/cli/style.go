package cli

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/roach88/qcal/internal/report"
)

// Lipgloss styles used by text output.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff9e64"))

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7dcfff"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0caf5"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#565f89"))

	okStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#9ece6a"))

	reportStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7aa2f7")).
			Padding(0, 1)
)

// renderReport draws r in a rounded box. Nested reports are drawn inside
// their parent; bulky tables are summarised by size.
func renderReport(r *report.Report) string {
	var lines []string
	lines = append(lines, titleStyle.Render(r.Name))
	for _, e := range r.Entries() {
		switch v := e.Value.(type) {
		case *report.Report:
			lines = append(lines, keyStyle.Render(e.Key), renderReport(v))
		default:
			lines = append(lines, keyStyle.Render(e.Key)+" "+valueStyle.Render(formatValue(v)))
		}
	}
	return reportStyle.Render(strings.Join(lines, "\n"))
}

func formatValue(v any) string {
	switch v := v.(type) {
	case float64:
		return fmt.Sprintf("%.6g", v)
	case []float64:
		parts := make([]string, len(v))
		for i, f := range v {
			parts[i] = fmt.Sprintf("%.6g", f)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case []any:
		if len(v) > 8 {
			return dimStyle.Render(fmt.Sprintf("(%d values)", len(v)))
		}
		parts := make([]string, len(v))
		for i, x := range v {
			parts[i] = formatValue(x)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		if name, ok := v["name"].(string); ok {
			return dimStyle.Render("report " + name)
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return dimStyle.Render(fmt.Sprintf("(%d entries: %s)", len(v), strings.Join(keys, ", ")))
	case string:
		return v
	case nil:
		return "null"
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Map {
		return dimStyle.Render(fmt.Sprintf("(%d entries)", rv.Len()))
	}
	return fmt.Sprint(v)
}
