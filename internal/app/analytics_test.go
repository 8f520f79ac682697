package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"dompet/internal/core"
)

func TestAnalyticsRefresh(t *testing.T) {
	gw := &fakeGateway{analytics: core.Analytics{
		ByDay: []core.DayPoint{
			{Date: "2024-06-01", Income: 100000, Expense: 25000},
			{Date: "2024-06-02", Income: 0, Expense: 40000},
		},
		ByCategory: []core.CategoryShare{
			{Name: "Makan", Percentage: 62.5},
			{Name: "Transport", Percentage: 37.5},
		},
	}}
	h := newHarness(gw)
	rng := mustRange("2024-06-01", "2024-06-02")

	if h.app.analytics.ActiveType() != core.Expense {
		t.Fatal("analytics should default to expense")
	}
	if err := h.app.analytics.Refresh(context.Background(), rng); err != nil {
		t.Fatal(err)
	}
	s := h.chart.drawn[0]
	if s.Type != core.Expense || s.Labels[0] != "01/06/2024" || s.Values[0] != 25000 || s.Values[1] != 40000 {
		t.Fatalf("unexpected series %+v", s)
	}
	if len(s.Dates) != 2 || !s.Dates[1].Equal(time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("dates = %v", s.Dates)
	}
	v := h.app.analytics.View()
	if v.ChartEmpty || len(v.Breakdown) != 2 || v.Breakdown[0].Width != 62.5 || v.BreakdownMessage != "" {
		t.Fatalf("unexpected view %+v", v)
	}

	if err := h.app.SetAnalyticType(context.Background(), core.Income); err != nil {
		t.Fatal(err)
	}
	s = h.chart.drawn[1]
	if s.Type != core.Income || s.Values[0] != 100000 || s.Name != "Pemasukan" {
		t.Fatalf("unexpected income series %+v", s)
	}
	if gw.analyticsType[1] != core.Income {
		t.Fatalf("type not passed to the API: %v", gw.analyticsType)
	}
	if err := h.app.SetAnalyticType(context.Background(), "both"); !errors.Is(err, core.ErrInvalidType) {
		t.Fatalf("SetAnalyticType(both) = %v", err)
	}
}

func TestAnalyticsEmpty(t *testing.T) {
	h := newHarness(&fakeGateway{})
	if err := h.app.analytics.Refresh(context.Background(), mustRange("2024-06-01", "2024-06-02")); err != nil {
		t.Fatal(err)
	}
	v := h.app.analytics.View()
	if !v.ChartEmpty || v.BreakdownMessage != MsgNoAnalytics || v.Phase != PhaseEmpty {
		t.Fatalf("unexpected view %+v", v)
	}
	if h.chart.cleared != 1 || len(h.chart.drawn) != 0 {
		t.Fatalf("empty series should clear the chart: cleared=%d drawn=%d", h.chart.cleared, len(h.chart.drawn))
	}
}

func TestAnalyticsFailure(t *testing.T) {
	h := newHarness(&fakeGateway{analyticsErr: errors.New("boom")})
	if err := h.app.analytics.Refresh(context.Background(), mustRange("2024-06-01", "2024-06-02")); err == nil {
		t.Fatal("expected error")
	}
	if v := h.app.analytics.View(); v.Phase != PhaseFailed || v.BreakdownMessage != MsgLoadFailed {
		t.Fatalf("unexpected view %+v", v)
	}
}

func TestChartSeriesBadDate(t *testing.T) {
	s := chartSeries([]core.DayPoint{
		{Date: "2024-06-01", Expense: 10},
		{Date: "kemarin", Expense: 20},
	}, core.Expense)
	if len(s.Dates) != 2 || len(s.Labels) != 2 || len(s.Values) != 2 {
		t.Fatalf("series should stay parallel: %+v", s)
	}
	if s.Dates[0].IsZero() || !s.Dates[1].IsZero() || s.Labels[1] != "-" {
		t.Fatalf("unparseable day should keep a zero date and placeholder: %+v", s)
	}
}
