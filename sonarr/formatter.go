package sonarr

import (
	"fmt"
	"strings"
)

// ConsoleFormatter renders library entries for the terminal
type ConsoleFormatter struct{}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{}
}

// FormatLibrary formats library entries as a tree, flagging mismatches
func (f *ConsoleFormatter) FormatLibrary(entries []LibraryEntry) string {
	if len(entries) == 0 {
		return "No series in Sonarr"
	}

	var sb strings.Builder
	var mismatches, failures int

	fmt.Fprintf(&sb, "\nSonarr library (%d):\n\n", len(entries))

	for i, e := range entries {
		isLast := i == len(entries)-1
		prefix := "├"
		indent := "│   "
		if isLast {
			prefix = "╰"
			indent = "    "
		}

		marker := ""
		switch {
		case e.Err != nil:
			marker = " [error]"
			failures++
		case e.StatusMismatch:
			marker = " [mismatch]"
			mismatches++
		}

		fmt.Fprintf(&sb, "%s── %s [%d]%s\n", prefix, e.Title, e.TVDBID, marker)

		if e.Err != nil {
			fmt.Fprintf(&sb, "%sError: %s\n", indent, e.Error)
		} else {
			details := []string{
				"Sonarr: " + orUnknown(e.SonarrStatus),
				"TVDB: " + orUnknown(e.TVDBStatus),
			}
			if e.TVDBNetwork != "" {
				details = append(details, "Network: "+e.TVDBNetwork)
			}
			fmt.Fprintf(&sb, "%s%s\n", indent, strings.Join(details, " | "))
		}

		if len(e.Tags) > 0 {
			fmt.Fprintf(&sb, "%sTags: %s\n", indent, strings.Join(e.Tags, ", "))
		}

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	fmt.Fprintf(&sb, "\n%d mismatched, %d failed\n", mismatches, failures)
	return sb.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
