package reporting

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the run timestamp embedded in every export file name.
const TimestampLayout = "20060102_150405"

// Format identifies one export file type.
type Format string

const (
	FormatJSON       Format = "json"
	FormatCSV        Format = "csv"
	FormatMarkdown   Format = "markdown"
	FormatHTML       Format = "html"
	FormatJUnit      Format = "junit"
	FormatPrometheus Format = "prometheus"
)

// Formats lists every supported format.
var Formats = []Format{FormatJSON, FormatCSV, FormatMarkdown, FormatHTML, FormatJUnit, FormatPrometheus}

// DefaultFormats are written when no formats are configured.
func DefaultFormats() []Format {
	return []Format{FormatJSON, FormatCSV, FormatHTML, FormatMarkdown}
}

// ParseFormat validates a format name. "md" is accepted for markdown and
// "prom" for prometheus.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	case "junit":
		return FormatJUnit, nil
	case "prometheus", "prom":
		return FormatPrometheus, nil
	default:
		return "", fmt.Errorf("unknown report format %q", s)
	}
}

// ParseFormats parses a list of names, dropping duplicates.
func ParseFormats(names []string) ([]Format, error) {
	var out []Format
	seen := map[Format]bool{}
	for _, n := range names {
		f, err := ParseFormat(n)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out, nil
}

// FileName returns the export file name for a format and run time.
func FileName(f Format, ts time.Time) string {
	stamp := ts.Format(TimestampLayout)
	switch f {
	case FormatJSON:
		return fmt.Sprintf("benchmark_%s.json", stamp)
	case FormatCSV:
		return fmt.Sprintf("benchmark_summary_%s.csv", stamp)
	case FormatMarkdown:
		return fmt.Sprintf("benchmark_report_%s.md", stamp)
	case FormatHTML:
		return fmt.Sprintf("benchmark_report_%s.html", stamp)
	case FormatJUnit:
		return fmt.Sprintf("benchmark_junit_%s.xml", stamp)
	case FormatPrometheus:
		return fmt.Sprintf("benchmark_%s.prom", stamp)
	}
	return fmt.Sprintf("benchmark_%s.%s", stamp, f)
}
