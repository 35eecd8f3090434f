package output

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// ConsoleFormatter renders views as trees for the terminal
type ConsoleFormatter struct{}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{}
}

// FormatSearchResults formats search hits for console display
func (f *ConsoleFormatter) FormatSearchResults(results []SearchResultView) string {
	if len(results) == 0 {
		return "No series found"
	}

	var sb strings.Builder
	sb.WriteString("\nSeries")
	fmt.Fprintf(&sb, " (%d):\n\n", len(results))

	for i, r := range results {
		isLast := i == len(results)-1
		prefix, indent := branch(isLast)

		fmt.Fprintf(&sb, "%s── %s%s [%s]\n", prefix, orUnknown(r.Name), year(r.FirstAired), r.ID)

		var details []string
		if r.Network != "" {
			details = append(details, "Network: "+r.Network)
		}
		if !r.FirstAired.IsZero() {
			details = append(details, "First aired: "+r.FirstAired.Format(dateLayout))
		}
		if r.IMDbID != "" {
			details = append(details, "IMDb: "+r.IMDbID)
		}
		if len(details) > 0 {
			fmt.Fprintf(&sb, "%s%s\n", indent, strings.Join(details, " | "))
		}

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

// FormatSeries formats one series and, when loaded, its seasons
func (f *ConsoleFormatter) FormatSeries(s SeriesView) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "\n%s%s [%s]\n", orUnknown(s.Name), year(s.FirstAired), s.ID)

	var lines []string
	if s.Status != "" {
		lines = append(lines, "Status: "+s.Status)
	}
	if s.Network != "" {
		lines = append(lines, "Network: "+s.Network)
	}
	if s.Runtime != "" {
		lines = append(lines, fmt.Sprintf("Runtime: %s min", s.Runtime))
	}
	if len(s.Genre) > 0 {
		lines = append(lines, "Genre: "+strings.Join(s.Genre, ", "))
	}
	if len(s.Actors) > 0 {
		lines = append(lines, "Actors: "+strings.Join(s.Actors, ", "))
	}
	if s.Poster != "" {
		lines = append(lines, "Poster: "+s.Poster)
	}
	for _, line := range lines {
		fmt.Fprintf(&sb, "  %s\n", line)
	}

	for i, season := range s.Seasons {
		isLast := i == len(s.Seasons)-1
		prefix, indent := branch(isLast)

		label := fmt.Sprintf("Season %d", season.Number)
		if season.Number == 0 {
			label = "Specials"
		}
		if i == 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s── %s (%d episodes)\n", prefix, label, len(season.Episodes))
		for _, e := range season.Episodes {
			fmt.Fprintf(&sb, "%s%s\n", indent, episodeLine(e))
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

// FormatEpisodes formats a flat list of episodes
func (f *ConsoleFormatter) FormatEpisodes(episodes []EpisodeView) string {
	if len(episodes) == 0 {
		return "No episodes found"
	}

	var sb strings.Builder
	sb.WriteString("\nEpisode")
	if len(episodes) != 1 {
		sb.WriteString("s")
	}
	fmt.Fprintf(&sb, " (%d):\n\n", len(episodes))

	for i, e := range episodes {
		isLast := i == len(episodes)-1
		prefix, indent := branch(isLast)

		fmt.Fprintf(&sb, "%s── %s\n", prefix, episodeLine(e))
		if e.Director != "" {
			fmt.Fprintf(&sb, "%sDirector: %s\n", indent, e.Director)
		}
		if len(e.GuestStars) > 0 {
			fmt.Fprintf(&sb, "%sGuest stars: %s\n", indent, strings.Join(e.GuestStars, ", "))
		}
		if e.Image != "" {
			fmt.Fprintf(&sb, "%sImage: %s\n", indent, e.Image)
		}

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

func episodeLine(e EpisodeView) string {
	line := orUnknown(e.Name)
	if e.Code != "" {
		line = e.Code + " " + line
	}
	if !e.FirstAired.IsZero() {
		line += " (" + e.FirstAired.Format(dateLayout) + ")"
	}
	return line
}

func branch(isLast bool) (prefix, indent string) {
	if isLast {
		return "╰", "    "
	}
	return "├", "│   "
}

func year(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf(" (%d)", t.Year())
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
