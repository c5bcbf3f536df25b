// ABOUTME: Table rendering for event and report listings
// ABOUTME: Wraps lipgloss/table with the shared header and cell styles

package ui

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/bloomrefresh/bloom-cli/internal/models"
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(Muted)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeader
			}
			return tableCell
		})
}

// EventsTable renders events one per row
func EventsTable(events []models.Event) string {
	t := newTable("ID", "TITLE", "CATEGORY", "WHEN", "CAPACITY")
	for _, ev := range events {
		capacity := "-"
		if ev.Capacity != nil {
			capacity = strconv.Itoa(*ev.Capacity)
		}
		t.Row(ev.EventID, ev.Title, ev.Category, ev.DateTime, capacity)
	}
	return t.Render()
}

// ReportsTable renders reports one per row
func ReportsTable(reports []models.Report) string {
	t := newTable("ID", "EVENT", "BY", "BAGS", "PHOTOS")
	for _, r := range reports {
		t.Row(r.ReportID, r.EventID, r.SubmittedBy, strconv.Itoa(r.BagsCollected), strconv.Itoa(len(r.PhotoURLs)))
	}
	return t.Render()
}
