// Package render draws a list page as a text table for the terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"fleetdesk/internal/listing"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
)

// Table is everything the renderer needs; it holds no controller reference.
type Table struct {
	Title   string
	Columns []string
	Rows    [][]string
	Summary listing.Summary
}

// Render writes the loading view, the empty view, or the rows followed by a
// "Showing X–Y of Z" footer.
func Render(w io.Writer, t Table) error {
	_, err := io.WriteString(w, String(t))
	return err
}

func String(t Table) string {
	s := t.Summary
	switch {
	case s.Loading:
		return fmt.Sprintf("Loading %s…\n", t.Title)
	case s.Empty && s.Error != "":
		return fmt.Sprintf("Could not load %s: %s\n", t.Title, s.Error)
	case s.Empty:
		msg := fmt.Sprintf("No %s found", t.Title)
		if s.Search != "" || len(s.Filters) > 0 {
			msg += " for the current search and filters"
		}
		return msg + ".\n"
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(t.Columns...).
		Rows(t.Rows...)

	var b strings.Builder
	b.WriteString(tbl.String())
	b.WriteString("\n")
	b.WriteString(Footer(s))
	b.WriteString("\n")
	return b.String()
}

// Footer is the pagination line under the table.
func Footer(s listing.Summary) string {
	return fmt.Sprintf("Showing %d–%d of %d  ·  page %d/%d", s.ShowingFrom, s.ShowingTo, s.TotalCount, s.Page, s.TotalPages)
}
