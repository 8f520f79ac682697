package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"dompet/internal/api"
	"dompet/internal/core"
	"dompet/internal/format"
	applog "dompet/internal/log"
)

type AnalyticsView struct {
	Type             core.TxType
	Phase            Phase
	ChartEmpty       bool
	Breakdown        []format.BreakdownRow
	BreakdownMessage string
}

// AnalyticsController feeds the by-day chart and the category breakdown
// for one transaction type at a time.
type AnalyticsController struct {
	gw       Gateway
	sink     ChartSink
	logger   *applog.Logger
	onChange func()

	mu         sync.Mutex
	activeType core.TxType
	phase      Phase
	chartEmpty bool
	breakdown  []format.BreakdownRow
	errMsg     string
}

func NewAnalyticsController(gw Gateway, sink ChartSink, logger *applog.Logger, onChange func()) *AnalyticsController {
	if sink == nil {
		sink = nopChart{}
	}
	return &AnalyticsController{
		gw:         gw,
		sink:       sink,
		logger:     logger.WithComponent(applog.ComponentAnalytics),
		onChange:   onChange,
		activeType: core.Expense,
		phase:      PhaseLoading,
	}
}

func (a *AnalyticsController) ActiveType() core.TxType {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.activeType
}

// SetType switches the highlighted type and always reloads.
func (a *AnalyticsController) SetType(ctx context.Context, t core.TxType, rng core.DateRange) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %q", core.ErrInvalidType, t)
	}
	a.mu.Lock()
	a.activeType = t
	a.mu.Unlock()
	return a.Refresh(ctx, rng)
}

// Refresh loads rng for the active type. A response for a type that is no
// longer active is dropped.
func (a *AnalyticsController) Refresh(ctx context.Context, rng core.DateRange) error {
	a.mu.Lock()
	t := a.activeType
	a.phase = PhaseLoading
	a.chartEmpty = false
	a.breakdown = nil
	a.mu.Unlock()
	a.onChange()

	data, err := a.gw.Analytics(ctx, rng, t)
	a.logger.Trace(ctx, applog.OpRefresh, err, applog.FieldRange, rng.String(), applog.FieldTxType, t.String())

	a.mu.Lock()
	if a.activeType != t {
		a.mu.Unlock()
		return nil
	}
	if err != nil {
		a.phase = PhaseFailed
		a.errMsg = api.Message(err, MsgLoadFailed)
		a.mu.Unlock()
		a.sink.Clear()
		a.onChange()
		return fmt.Errorf("analytics refresh: %w", err)
	}
	series := chartSeries(data.ByDay, t)
	a.chartEmpty = len(series.Values) == 0
	a.breakdown = format.RenderBreakdown(data.ByCategory, t)
	a.phase = phaseOf(len(series.Values) + len(a.breakdown))
	a.mu.Unlock()

	if len(series.Values) == 0 {
		a.sink.Clear()
	} else {
		a.sink.Draw(series)
	}
	a.onChange()
	return nil
}

func chartSeries(days []core.DayPoint, t core.TxType) ChartSeries {
	s := ChartSeries{
		Name:   format.TypeLabel(t),
		Type:   t,
		Dates:  make([]time.Time, 0, len(days)),
		Labels: make([]string, 0, len(days)),
		Values: make([]int64, 0, len(days)),
	}
	for _, d := range days {
		var day time.Time
		if parsed, err := core.ParseDate(d.Date); err == nil {
			day = parsed.Time
		}
		s.Dates = append(s.Dates, day)
		s.Labels = append(s.Labels, format.ShortDate(d.Date))
		if t == core.Income {
			s.Values = append(s.Values, d.Income)
		} else {
			s.Values = append(s.Values, d.Expense)
		}
	}
	return s
}

func (a *AnalyticsController) View() AnalyticsView {
	a.mu.Lock()
	defer a.mu.Unlock()

	v := AnalyticsView{
		Type:       a.activeType,
		Phase:      a.phase,
		ChartEmpty: a.chartEmpty,
		Breakdown:  append([]format.BreakdownRow(nil), a.breakdown...),
	}
	switch {
	case a.phase == PhaseLoading:
		v.BreakdownMessage = MsgLoading
	case a.phase == PhaseFailed:
		v.BreakdownMessage = a.errMsg
	case len(a.breakdown) == 0:
		v.BreakdownMessage = MsgNoAnalytics
	}
	return v
}
