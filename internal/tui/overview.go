package tui

import (
	"fmt"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/NimbleMarkets/ntcharts/linechart/timeserieslinechart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ospano/occuview/internal/feed"
)

type overviewModel struct {
	width  int
	height int

	data    feed.OverviewData
	hasData bool

	occChart   timeserieslinechart.Model
	demoChart  timeserieslinechart.Model
	splitChart barchart.Model
}

func newOverviewModel() overviewModel {
	return overviewModel{
		data: feed.OverviewData{AvgDwellTime: feed.DwellStat{Value: feed.EmptyDwell}},
	}
}

func (o *overviewModel) setSize(w, h int) {
	o.width = w
	o.height = h
	if o.hasData {
		o.buildCharts()
	}
}

func (o overviewModel) withData(d feed.OverviewData) overviewModel {
	o.data = d
	o.hasData = true
	o.buildCharts()
	return o
}

func (o overviewModel) update(msg tea.Msg, ov *feed.Overview) (overviewModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, keys.Refresh) {
			return o, func() tea.Msg {
				ov.RefetchAll()
				return refetchDoneMsg{}
			}
		}
	}
	return o, nil
}

func (o *overviewModel) buildCharts() {
	chartWidth := o.width - 12
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 10
	if o.height > 36 {
		chartHeight = 14
	}

	// Occupancy over today
	o.occChart = timeserieslinechart.New(chartWidth, chartHeight)
	o.occChart.SetStyle(highlightStyle)
	for _, p := range o.data.OccupancyChart.Data {
		t, err := time.Parse(time.RFC3339, p.Timestamp)
		if err != nil {
			continue
		}
		o.occChart.Push(timeserieslinechart.TimePoint{Time: t, Value: float64(p.Occupancy)})
	}
	o.occChart.DrawBraille()

	// Demographics time series, one line per gender
	o.demoChart = timeserieslinechart.New(chartWidth, chartHeight)
	o.demoChart.SetDataSetStyle("male", secondaryStyle)
	o.demoChart.SetDataSetStyle("female", accentStyle)
	for _, p := range o.data.Demographics.Timeseries {
		t, err := time.Parse(time.RFC3339, p.Timestamp)
		if err != nil {
			continue
		}
		o.demoChart.PushDataSet("male", timeserieslinechart.TimePoint{Time: t, Value: float64(p.Male)})
		o.demoChart.PushDataSet("female", timeserieslinechart.TimePoint{Time: t, Value: float64(p.Female)})
	}
	o.demoChart.DrawBrailleAll()

	// Aggregate gender split
	o.splitChart = barchart.New(min(chartWidth, 30), 6)
	o.splitChart.PushAll([]barchart.BarData{
		{Label: "Male", Values: []barchart.BarValue{
			{Name: "Male", Value: float64(o.data.Demographics.Pie.Male), Style: secondaryStyle},
		}},
		{Label: "Female", Values: []barchart.BarValue{
			{Name: "Female", Value: float64(o.data.Demographics.Pie.Female), Style: accentStyle},
		}},
	})
	o.splitChart.Draw()
}

func (o overviewModel) view() string {
	if o.width < 20 {
		return "Terminal too small"
	}

	contentWidth := o.width - 4

	cards := o.renderStatCards(contentWidth)
	occPanel := o.renderOccupancyPanel(contentWidth)
	demoPanel := o.renderDemographicsPanel(contentWidth)

	return lipgloss.JoinVertical(lipgloss.Left, cards, occPanel, demoPanel)
}

func (o overviewModel) renderStatCards(w int) string {
	cardWidth := (w - 4) / 3

	live := statCard(cardWidth, "Live Occupancy",
		feed.FormatNumber(o.data.LiveOccupancy.Value),
		o.data.LiveOccupancy.Comparison,
		o.data.LiveOccupancy.Loading,
		o.data.LiveOccupancy.Error,
	)
	foot := statCard(cardWidth, "Today's Footfall",
		feed.FormatNumber(o.data.TodaysFootfall.Value),
		o.data.TodaysFootfall.Comparison,
		o.data.TodaysFootfall.Loading,
		o.data.TodaysFootfall.Error,
	)
	dwell := statCard(cardWidth, "Avg Dwell Time",
		o.data.AvgDwellTime.Value,
		o.data.AvgDwellTime.Comparison,
		o.data.AvgDwellTime.Loading,
		o.data.AvgDwellTime.Error,
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, live, " ", foot, " ", dwell)
}

func statCard(w int, label, value string, comparison float64, loading bool, errText string) string {
	rows := []string{statLabelStyle.Render(label)}

	if loading && value == "" {
		rows = append(rows, mutedStyle.Render("..."))
	} else {
		rows = append(rows, statValueStyle.Render(value))
	}

	pct, positive := feed.FormatPercentage(comparison)
	trend := successStyle.Render("▲ " + pct)
	if !positive {
		trend = errorStyle.Render("▼ " + pct)
	}
	rows = append(rows, trend+mutedStyle.Render(" vs prior"))

	if errText != "" {
		rows = append(rows, errorStyle.Render(truncate(errText, w-6)))
	} else if loading {
		rows = append(rows, mutedStyle.Render("updating..."))
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (o overviewModel) renderOccupancyPanel(w int) string {
	title := titleStyle.Render("Occupancy Today")
	if o.data.OccupancyChart.Loading && len(o.data.OccupancyChart.Data) == 0 {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, mutedStyle.Render("Loading...")),
		)
	}
	if len(o.data.OccupancyChart.Data) == 0 {
		body := mutedStyle.Render("No occupancy data for today")
		if o.data.OccupancyChart.Error != "" {
			body = errorStyle.Render(o.data.OccupancyChart.Error)
		}
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, body))
	}

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, "", o.occChart.View()),
	)
}

func (o overviewModel) renderDemographicsPanel(w int) string {
	title := titleStyle.Render("Demographics")
	legend := fmt.Sprintf("%s male  %s female",
		secondaryStyle.Render("●"), accentStyle.Render("●"))

	if len(o.data.Demographics.Timeseries) == 0 {
		body := mutedStyle.Render("No demographics data")
		if o.data.Demographics.Error != "" {
			body = errorStyle.Render(o.data.Demographics.Error)
		}
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, body))
	}

	pie := o.data.Demographics.Pie
	total := pie.Male + pie.Female
	splitLabel := mutedStyle.Render("no aggregate data")
	if total > 0 {
		splitLabel = fmt.Sprintf("%s  %s",
			secondaryStyle.Render(fmt.Sprintf("male %d%%", pie.Male*100/total)),
			accentStyle.Render(fmt.Sprintf("female %d%%", pie.Female*100/total)),
		)
	}

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title+"  "+legend, "",
			o.demoChart.View(), "",
			splitLabel, "",
			o.splitChart.View(),
		),
	)
}

func truncate(s string, w int) string {
	if w < 4 || len(s) <= w {
		return s
	}
	return s[:w-3] + "..."
}
