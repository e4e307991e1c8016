package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/runger/casts/internal/dataview"
	"github.com/runger/casts/internal/library"
)

var (
	headerStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62"))
	inactiveHdrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	selectedStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	cursorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	normalStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	separatorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

const (
	markerWidth = 2
	dateWidth   = 14
	countWidth  = 6
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	feedsWidth := min(m.opts.FeedsPaneWidth, max(m.width/2, 1))
	episodesWidth := max(m.width-feedsWidth-1, 1)
	rows := listHeight(m.height)

	left := m.header("Feeds", paneFeeds, feedsWidth) + "\n" + m.viewFeeds(feedsWidth, rows)
	sep := separatorStyle.Render(strings.TrimSuffix(strings.Repeat("│\n", rows+1), "\n"))
	right := m.header(m.episodesTitle(), paneEpisodes, episodesWidth) + "\n" + m.viewEpisodes(episodesWidth, rows)

	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, sep, right))
	b.WriteRune('\n')
	b.WriteString(m.viewStatus())
	return b.String()
}

func (m Model) header(title string, p pane, width int) string {
	label := Fit(" "+Clean(title), width)
	if m.focus == p {
		return headerStyle.Render(label)
	}
	return inactiveHdrStyle.Render(label)
}

func (m Model) episodesTitle() string {
	feed, ok := m.feeds.Selection()
	if !ok {
		return "Episodes"
	}
	return "Episodes: " + feed.Title
}

func (m Model) viewFeeds(width, rows int) string {
	return renderList(m.feeds, width, rows, m.focus == paneFeeds, m.opts.Placeholder, "No feeds", func(f library.FeedSummary, w int) string {
		count := ""
		if f.NewCount > 0 {
			count = humanize.Comma(int64(f.NewCount))
		}
		title := Clean(f.Title)
		if f.Status == library.FeedError {
			title = "! " + title
		}
		return Fit(title, w-countWidth) + padLeft(count, countWidth)
	})
}

func (m Model) viewEpisodes(width, rows int) string {
	return renderList(m.episodes, width, rows, m.focus == paneEpisodes, m.opts.Placeholder, "No episodes", func(e library.EpisodeSummary, w int) string {
		date := ""
		if !e.Published().IsZero() {
			date = humanize.Time(e.Published())
		}
		return statusGlyph(e.Status) + " " + Fit(Clean(e.Title), w-2-dateWidth) + padLeft(Fit(date, dateWidth-1), dateWidth)
	})
}

// renderList draws exactly rows lines of width columns for l.
func renderList[T dataview.Identifiable[int64]](
	l *dataview.InteractiveList[T, int64],
	width, rows int,
	focused bool,
	placeholder, empty string,
	format func(item T, width int) string,
) string {
	lines := make([]string, 0, rows)
	seq, ok := l.Rows()
	switch {
	case l.State() == dataview.StateUnattached:
		lines = append(lines, dimStyle.Render(Fit("", width)))
	case !ok:
		lines = append(lines, dimStyle.Render(Fit("Loading...", width)))
	default:
		for row := range seq {
			lines = append(lines, renderRow(row, width, focused, placeholder, format))
		}
		if len(lines) == 0 {
			lines = append(lines, dimStyle.Render(Fit(empty, width)))
		}
	}
	for len(lines) < rows {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func renderRow[T any](row dataview.Row[T], width int, focused bool, placeholder string, format func(item T, width int) string) string {
	inner := max(width-markerWidth, 0)
	text := Fit(placeholder, inner)
	if row.Loaded {
		text = format(row.Item, inner)
	}
	switch {
	case row.Selected && focused:
		return selectedStyle.Render("> " + text)
	case row.Selected:
		return cursorStyle.Render("* " + text)
	case !row.Loaded:
		return dimStyle.Render("  " + text)
	default:
		return normalStyle.Render("  " + text)
	}
}

func (m Model) viewStatus() string {
	if m.prompting {
		return m.prompt.View()
	}
	if m.status == "" {
		return ""
	}
	line := MiddleTruncate(Clean(m.status), max(m.width, 1))
	if m.statusErr {
		return errorStyle.Render(line)
	}
	return dimStyle.Render(line)
}

func statusGlyph(s library.EpisodeStatus) string {
	switch s {
	case library.EpisodeNew:
		return "●"
	case library.EpisodeStarted:
		return "◐"
	default:
		return " "
	}
}

func padLeft(s string, width int) string {
	if pad := width - lipgloss.Width(s); pad > 0 {
		return strings.Repeat(" ", pad) + s
	}
	return s
}
