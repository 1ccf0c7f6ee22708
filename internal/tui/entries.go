package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/ospano/occuview/internal/api"
	"github.com/ospano/occuview/internal/export"
	"github.com/ospano/occuview/internal/feed"
)

var genderFilters = []string{"", "Male", "Female"}

type entriesModel struct {
	ef     *feed.Entries
	width  int
	height int

	snap  feed.Snapshot[api.EntriesPage]
	pager paginator.Model

	searchActive bool
	searchForm   *huh.Form
	searchVal    *string

	genderIdx int

	exportPicking bool
	exportCursor  int
}

func newEntriesModel(ef *feed.Entries) entriesModel {
	sv := ""
	p := paginator.New()
	p.SetTotalPages(1)
	return entriesModel{
		ef:        ef,
		pager:     p,
		searchVal: &sv,
	}
}

func (e *entriesModel) setSize(w, h int) {
	e.width = w
	e.height = h
}

func (e entriesModel) capturing() bool {
	return e.searchActive || e.exportPicking
}

func (e entriesModel) withSnapshot() entriesModel {
	e.snap = e.ef.Snapshot()
	if e.snap.Data != nil {
		e.pager.SetTotalPages(max(e.snap.Data.TotalPages, 1))
		e.pager.Page = max(e.snap.Data.PageNumber-1, 0)
	}
	return e
}

func (e entriesModel) update(msg tea.Msg) (entriesModel, tea.Cmd) {
	if e.searchActive && e.searchForm != nil {
		return e.updateSearchForm(msg)
	}
	if e.exportPicking {
		if msg, ok := msg.(tea.KeyMsg); ok {
			return e.updateExportPicker(msg)
		}
		return e, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Refresh):
			e.ef.Refetch()
			return e, nil

		case key.Matches(msg, keys.Left):
			if page := e.ef.Page(); page > 1 {
				e.ef.SetPage(page - 1)
				e.ef.Refetch()
			}
			return e, nil

		case key.Matches(msg, keys.Right):
			if e.snap.Data != nil && e.ef.Page() < e.snap.Data.TotalPages {
				e.ef.SetPage(e.ef.Page() + 1)
				e.ef.Refetch()
			}
			return e, nil

		case key.Matches(msg, keys.Search):
			return e.showSearchForm()

		case key.Matches(msg, keys.Filter):
			e.genderIdx = (e.genderIdx + 1) % len(genderFilters)
			e.ef.SetGender(genderFilters[e.genderIdx])
			e.ef.Refetch()
			return e, nil

		case key.Matches(msg, keys.Export):
			if e.snap.Data != nil && len(e.snap.Data.Records) > 0 {
				e.exportPicking = true
				e.exportCursor = 0
			}
			return e, nil
		}
	}
	return e, nil
}

func (e entriesModel) showSearchForm() (entriesModel, tea.Cmd) {
	*e.searchVal = e.ef.Search()
	e.searchForm = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Search visitors").Value(e.searchVal),
		),
	).WithShowHelp(true).WithShowErrors(true)
	e.searchActive = true
	return e, e.searchForm.Init()
}

func (e entriesModel) updateSearchForm(msg tea.Msg) (entriesModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			e.searchActive = false
			e.searchForm = nil
			return e, nil
		}
	}

	form, cmd := e.searchForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		e.searchForm = f
	}

	if e.searchForm.State == huh.StateCompleted {
		e.searchActive = false
		e.ef.SetSearch(strings.TrimSpace(*e.searchVal))
		e.ef.Refetch()
		return e, nil
	}

	return e, cmd
}

func (e entriesModel) updateExportPicker(msg tea.KeyMsg) (entriesModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if e.exportCursor > 0 {
			e.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if e.exportCursor < 1 {
			e.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		e.exportPicking = false
		return e, e.doExport(e.exportCursor)
	case key.Matches(msg, keys.Back):
		e.exportPicking = false
	}
	return e, nil
}

func (e entriesModel) doExport(format int) tea.Cmd {
	records := []api.EntryRecord{}
	if e.snap.Data != nil {
		records = e.snap.Data.Records
	}
	return func() tea.Msg {
		home, _ := os.UserHomeDir()
		dateStr := time.Now().Format("2006-01-02")

		var path string
		if format == 0 {
			path = filepath.Join(home, fmt.Sprintf("occuview-entries-%s.csv", dateStr))
			if err := export.ToCSV(records, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(home, fmt.Sprintf("occuview-entries-%s.json", dateStr))
			if err := export.ToJSON(records, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}

func (e entriesModel) view() string {
	w := e.width - 4

	if e.searchActive && e.searchForm != nil {
		title := titleStyle.Render("Crowd Entries")
		return activePanelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", e.searchForm.View()),
		)
	}

	if e.exportPicking {
		return e.renderExportPicker(w)
	}

	header := e.renderTableHeader(w)
	body := e.renderRows(w)
	footer := e.renderPagination(w)

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, body, "", footer),
	)
}

func (e entriesModel) renderTableHeader(w int) string {
	title := titleStyle.Render("Crowd Entries")

	var filters []string
	if s := e.ef.Search(); s != "" {
		filters = append(filters, fmt.Sprintf("search: %q", s))
	}
	if g := genderFilters[e.genderIdx]; g != "" {
		filters = append(filters, "gender: "+g)
	}
	filterStr := ""
	if len(filters) > 0 {
		filterStr = "  " + mutedStyle.Render(strings.Join(filters, "  "))
	}

	loading := ""
	if e.snap.Loading {
		loading = "  " + warningStyle.Render("loading...")
	}

	columns := mutedStyle.Render(fmt.Sprintf("  %-22s %-8s %-14s %-14s %s",
		"Name", "Gender", "Entry", "Exit", "Dwell"))

	return lipgloss.JoinVertical(lipgloss.Left,
		title+filterStr+loading, "",
		columns,
		mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 68))),
	)
}

func (e entriesModel) renderRows(w int) string {
	if e.snap.Err != nil && e.snap.Data == nil {
		return errorStyle.Render("  " + api.UserMessage(e.snap.Err))
	}
	if e.snap.Data == nil || len(e.snap.Data.Records) == 0 {
		return mutedStyle.Render("  No entries for today")
	}

	var rows []string
	for _, r := range e.snap.Data.Records {
		status := successStyle.Render("✓")
		exitStr := "-"
		dwell := mutedStyle.Render("inside")
		if r.ExitTime != nil {
			exitStr = feed.FormatTimestamp(*r.ExitTime)
			dwell = normalItemStyle.Render(dwellString(r.EntryTime, *r.ExitTime))
		} else {
			status = accentStyle.Render("●")
		}

		gender := secondaryStyle.Render(fmt.Sprintf("%-8s", r.Gender))
		if r.Gender == "Female" {
			gender = accentStyle.Render(fmt.Sprintf("%-8s", r.Gender))
		}

		rows = append(rows, fmt.Sprintf("  %s %-22s %s %-14s %-14s %s",
			status,
			truncate(r.Name, 22),
			gender,
			feed.FormatTimestamp(r.EntryTime),
			exitStr,
			dwell,
		))
	}

	// Stale data stays visible; the error rides along underneath.
	if e.snap.Err != nil {
		rows = append(rows, "", errorStyle.Render("  "+api.UserMessage(e.snap.Err)))
	}

	return strings.Join(rows, "\n")
}

func (e entriesModel) renderPagination(w int) string {
	if e.snap.Data == nil {
		return ""
	}
	d := e.snap.Data
	info := mutedStyle.Render(fmt.Sprintf("page %d of %d  (%s records)",
		d.PageNumber, max(d.TotalPages, 1), feed.FormatNumber(d.TotalRecords)))
	nav := mutedStyle.Render("  ←/→ page  /: search  g: filter  e: export")
	return "  " + e.pager.View() + "  " + info + nav
}

func (e entriesModel) renderExportPicker(w int) string {
	title := titleStyle.Render("Export Format")
	formats := []string{"CSV", "JSON"}
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range formats {
		cursor := "  "
		style := normalItemStyle
		if i == e.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func dwellString(entry, exit string) string {
	from, err := time.Parse(time.RFC3339, entry)
	if err != nil {
		return "-"
	}
	to, err := time.Parse(time.RFC3339, exit)
	if err != nil {
		return "-"
	}
	return feed.FormatDwellTime(to.Sub(from).Seconds())
}
