// Package output renders view models to the terminal.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"taskctl/internal/view"
)

const (
	// Separator underlines detail headings.
	Separator = "------------"

	// FavoriteMark precedes the title of a favorite task.
	FavoriteMark = "★"

	indent = "    "
)

// badgeColors maps semantic badge colors to ANSI colors.
var badgeColors = map[string]lipgloss.Color{
	"secondary": lipgloss.Color("8"),
	"warning":   lipgloss.Color("3"),
	"success":   lipgloss.Color("2"),
	"light":     lipgloss.Color("7"),
}

// Styler paints text; a zero Styler leaves text unchanged.
type Styler struct {
	r *lipgloss.Renderer
}

// NewStyler creates a Styler bound to w. Color is only emitted when w is
// a terminal and color is enabled.
func NewStyler(w io.Writer, color bool) Styler {
	if !color {
		return Styler{}
	}
	return Styler{r: lipgloss.NewRenderer(w)}
}

func (s Styler) paint(text string, fg lipgloss.Color, bold bool) string {
	if s.r == nil {
		return text
	}
	st := s.r.NewStyle().Bold(bold)
	if fg != "" {
		st = st.Foreground(fg)
	}
	return st.Render(text)
}

// Badge renders a status badge, e.g. "[IN PROGRESS]".
func (s Styler) Badge(b view.Badge) string {
	return s.paint("["+strings.ToUpper(b.Label)+"]", badgeColors[b.Color], true)
}

// FormatCard writes one task card.
// Format:
//
//	#{ID}  [★ ]{TITLE}  [BADGE]
//	    {DESCRIPTION...}
//	    Created: {DATE}
//	    [View] [Edit] [Delete] [Fav|Unfav]
func FormatCard(w io.Writer, s Styler, c view.Card) {
	title := normalizeTitle(c.Title)
	if c.Favorite {
		title = s.paint(FavoriteMark, lipgloss.Color("3"), false) + " " + title
	}
	fmt.Fprintf(w, "#%s  %s  %s\n", c.ID, s.paint(title, "", true), s.Badge(c.Badge))

	for _, line := range strings.Split(c.Description, "\n") {
		fmt.Fprintf(w, "%s%s\n", indent, line)
	}
	fmt.Fprintf(w, "%sCreated: %s\n", indent, c.Created)

	actions := make([]string, 0, len(c.Actions))
	for _, a := range c.Actions {
		label := "[" + a.Label + "]"
		if a.Active {
			label = s.paint(label, lipgloss.Color("6"), true)
		}
		actions = append(actions, label)
	}
	fmt.Fprintf(w, "%s%s\n", indent, strings.Join(actions, " "))
}

// FormatList writes a list view: cards separated by blank lines, or its
// notice. Info notices are skipped when quiet is set.
func FormatList(w io.Writer, s Styler, v view.ListView, quiet bool) {
	if v.Notice != nil {
		FormatNotice(w, s, *v.Notice, quiet)
		return
	}
	for i, c := range v.Cards {
		if i > 0 {
			fmt.Fprintln(w)
		}
		FormatCard(w, s, c)
	}
}

// FormatNotice writes a notice line.
func FormatNotice(w io.Writer, s Styler, n view.Notice, quiet bool) {
	switch n.Kind {
	case view.NoticeError:
		fmt.Fprintln(w, s.paint("! "+n.Message, lipgloss.Color("1"), true))
	default:
		if quiet {
			return
		}
		fmt.Fprintln(w, n.Message)
	}
}

// FormatDetail writes the read-only view of one task.
func FormatDetail(w io.Writer, s Styler, d view.DetailView) {
	fav := "no"
	if d.Favorite {
		fav = "yes"
	}
	fmt.Fprintln(w, s.paint(d.Heading, "", true))
	fmt.Fprintln(w, Separator)
	fmt.Fprintf(w, "ID:        %s\n", d.ID)
	fmt.Fprintf(w, "Title:     %s\n", normalizeTitle(d.Title))
	fmt.Fprintf(w, "Status:    %s\n", s.Badge(d.Badge))
	fmt.Fprintf(w, "Favorite:  %s\n", fav)
	fmt.Fprintln(w, d.Created)
	fmt.Fprintln(w, "Description:")
	for _, line := range strings.Split(d.Description, "\n") {
		fmt.Fprintf(w, "%s%s\n", indent, line)
	}
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
