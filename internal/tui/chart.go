package tui

import (
	"strings"
	"sync"
	"time"

	tslc "github.com/NimbleMarkets/ntcharts/linechart/timeserieslinechart"
	"github.com/charmbracelet/lipgloss"

	"dompet/internal/app"
	"dompet/internal/core"
)

const chartHeight = 10

// Chart is the analytics ChartSink. Controllers push series from their own
// goroutines; the model renders whatever was drawn last.
type Chart struct {
	mu     sync.Mutex
	series *app.ChartSeries
}

func NewChart() *Chart {
	return &Chart{}
}

func (c *Chart) Draw(s app.ChartSeries) {
	s.Dates = append([]time.Time(nil), s.Dates...)
	s.Labels = append([]string(nil), s.Labels...)
	s.Values = append([]int64(nil), s.Values...)
	c.mu.Lock()
	c.series = &s
	c.mu.Unlock()
}

func (c *Chart) Clear() {
	c.mu.Lock()
	c.series = nil
	c.mu.Unlock()
}

// Series returns the last drawn series.
func (c *Chart) Series() (app.ChartSeries, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.series == nil {
		return app.ChartSeries{}, false
	}
	return *c.series, true
}

// Render draws the series as a braille line chart width cells wide. It
// returns "" when nothing is drawn.
func (c *Chart) Render(width int) string {
	s, ok := c.Series()
	if !ok || len(s.Values) == 0 {
		return ""
	}
	if width < 20 {
		width = 20
	}

	dates := make([]time.Time, 0, len(s.Dates))
	values := make([]float64, 0, len(s.Values))
	maxVal := 0.0
	for i, d := range s.Dates {
		if i >= len(s.Values) {
			break
		}
		if d.IsZero() {
			continue
		}
		v := float64(s.Values[i])
		dates = append(dates, d)
		values = append(values, v)
		maxVal = max(maxVal, v)
	}
	if len(dates) == 0 {
		return ""
	}
	if maxVal == 0 {
		maxVal = 1
	}
	start, end := dates[0], dates[len(dates)-1]
	if !end.After(start) {
		end = start.AddDate(0, 0, 1)
	}

	color := colorExpense
	if s.Type == core.Income {
		color = colorIncome
	}

	chart := tslc.New(width, chartHeight)
	chart.SetStyle(lipgloss.NewStyle().Foreground(color))
	chart.AxisStyle = lipgloss.NewStyle().Foreground(colorBorder)
	chart.LabelStyle = mutedStyle
	chart.SetTimeRange(start, end)
	chart.SetViewTimeRange(start, end)
	chart.SetYRange(0, maxVal)
	chart.SetViewYRange(0, maxVal)
	for i, d := range dates {
		chart.Push(tslc.TimePoint{Time: d, Value: values[i]})
	}
	chart.DrawBraille()

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(color).Bold(true).Render(s.Name))
	b.WriteString("\n")
	b.WriteString(chart.View())
	return b.String()
}
