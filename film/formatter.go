package film

import (
	"fmt"
	"strings"
)

// FormatOptions contains options for formatting output
type FormatOptions struct {
	ShowDetails bool
}

// ConsoleFormatter renders records as a tree for terminal output
type ConsoleFormatter struct{}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{}
}

// FormatFilmList formats a list of films for console display
func (f *ConsoleFormatter) FormatFilmList(records []Record, options FormatOptions) string {
	if len(records) == 0 {
		return "No films found"
	}

	var sb strings.Builder

	sb.WriteString("\nFilm")
	if len(records) != 1 {
		sb.WriteString("s")
	}
	fmt.Fprintf(&sb, " (%d):\n\n", len(records))

	for i, record := range records {
		isLast := i == len(records)-1
		prefix := "├"
		indent := "│   "
		if isLast {
			prefix = "╰"
			indent = "    "
		}

		fmt.Fprintf(&sb, "%s── %s", prefix, record)
		if record.IsBestPicture {
			sb.WriteString(" [BEST PICTURE]")
		}
		sb.WriteString("\n")

		if options.ShowDetails {
			fmt.Fprintf(&sb, "%sAwards: %d of %d nominations\n", indent, record.Awards, record.Nominations)
			fmt.Fprintf(&sb, "%sReferences: %d\n", indent, record.NumberOfReferences)
		}

		if !isLast && options.ShowDetails {
			sb.WriteString("│\n")
		}
	}

	sb.WriteString("\n")
	return sb.String()
}
