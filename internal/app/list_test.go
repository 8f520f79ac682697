package app

import (
	"context"
	"errors"
	"testing"

	"dompet/internal/api"
	"dompet/internal/core"
)

func TestListPagination(t *testing.T) {
	gw := &fakeGateway{rows: makeRows(23), ranged: core.Summary{Income: 500000, Expense: 276000}}
	h := newHarness(gw)
	ctx := context.Background()
	rng := mustRange("2024-06-01", "2024-06-30")

	if err := h.app.list.Refresh(ctx, rng); err != nil {
		t.Fatal(err)
	}
	v := h.app.list.View()
	if v.Phase != PhasePopulated || len(v.Rows) != 10 || v.PageInfo != "1 / 3" || v.Total != "Total: 23" {
		t.Fatalf("unexpected view %+v", v)
	}
	if !v.PrevDisabled || v.NextDisabled {
		t.Fatalf("first page: prev disabled %v, next disabled %v", v.PrevDisabled, v.NextDisabled)
	}
	if v.Income != "Rp 500.000" || v.Expense != "Rp 276.000" {
		t.Fatalf("totals %q %q", v.Income, v.Expense)
	}

	for i := 0; i < 2; i++ {
		if moved, err := h.app.list.Next(ctx); !moved || err != nil {
			t.Fatalf("Next #%d = %v, %v", i, moved, err)
		}
	}
	if moved, _ := h.app.list.Next(ctx); moved {
		t.Fatal("Next at the last page should be a no-op")
	}
	v = h.app.list.View()
	if v.PageInfo != "3 / 3" || len(v.Rows) != 3 || v.PrevDisabled || !v.NextDisabled {
		t.Fatalf("last page view %+v", v)
	}

	queries := gw.listQueries()
	if len(queries) != 3 {
		t.Fatalf("expected 3 list requests, got %d", len(queries))
	}
	for i, q := range queries {
		if q.Offset != i*core.DefaultPageSize || q.Limit != core.DefaultPageSize || !q.Range.Equal(rng) {
			t.Errorf("query %d = %+v", i, q)
		}
	}

	// a different range starts over at the first page
	if err := h.app.list.Refresh(ctx, mustRange("2024-05-01", "2024-05-31")); err != nil {
		t.Fatal(err)
	}
	if last := gw.listQueries()[3]; last.Offset != 0 {
		t.Fatalf("range change should reset offset, got %d", last.Offset)
	}
}

func TestListEmptyPage(t *testing.T) {
	h := newHarness(&fakeGateway{})
	if err := h.app.list.Refresh(context.Background(), mustRange("2024-06-01", "2024-06-30")); err != nil {
		t.Fatal(err)
	}
	v := h.app.list.View()
	if v.Phase != PhaseEmpty || v.Message != MsgNoRangeRows || len(v.Rows) != 0 {
		t.Fatalf("unexpected view %+v", v)
	}
	if v.PageInfo != "1 / 1" || !v.PrevDisabled || !v.NextDisabled {
		t.Fatalf("single page should disable both controls: %+v", v)
	}
	if moved, _ := h.app.list.Prev(context.Background()); moved {
		t.Fatal("Prev at the first page should be a no-op")
	}
}

func TestListJoinsBeforeApplying(t *testing.T) {
	gw := &fakeGateway{rows: makeRows(4), balanceErr: &api.Error{Status: 500, Message: "HTTP 500"}}
	h := newHarness(gw)
	err := h.app.list.Refresh(context.Background(), mustRange("2024-06-01", "2024-06-30"))
	if err == nil {
		t.Fatal("expected error")
	}
	v := h.app.list.View()
	if v.Phase != PhaseFailed || len(v.Rows) != 0 || v.Message != "HTTP 500" {
		t.Fatalf("rows must not show without totals: %+v", v)
	}
	if v.Income != MsgLoadingShort {
		t.Fatalf("income = %q", v.Income)
	}
}

func TestListRejectsIncompleteRange(t *testing.T) {
	gw := &fakeGateway{}
	h := newHarness(gw)
	err := h.app.list.Refresh(context.Background(), core.DateRange{Start: core.NewDate(2024, 6, 1)})
	if !errors.Is(err, core.ErrIncompleteRange) {
		t.Fatalf("expected ErrIncompleteRange, got %v", err)
	}
	if len(gw.listQueries()) != 0 {
		t.Fatal("no request should be issued for an incomplete range")
	}
}

func TestListIndexesRows(t *testing.T) {
	h := newHarness(&fakeGateway{rows: makeRows(2)})
	if err := h.app.list.Refresh(context.Background(), mustRange("2024-06-01", "2024-06-30")); err != nil {
		t.Fatal(err)
	}
	if _, ok := h.index.Lookup(2); !ok {
		t.Fatal("rendered rows should be indexed")
	}
}

func TestRecentList(t *testing.T) {
	gw := &fakeGateway{rows: makeRows(8)}
	h := newHarness(gw)
	if v := h.app.recent.View(); v.Phase != PhaseLoading || v.Message != MsgLoading {
		t.Fatalf("initial view %+v", v)
	}
	if err := h.app.recent.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	q := gw.recentQueries()[0]
	if q.Limit != RecentLimit || q.Offset != 0 || !q.Range.Equal(core.PastYear(testNow)) {
		t.Fatalf("unexpected query %+v", q)
	}
	if v := h.app.recent.View(); len(v.Rows) != 5 || v.Message != "" {
		t.Fatalf("unexpected view %+v", v)
	}

	empty := newHarness(&fakeGateway{})
	empty.app.recent.Refresh(context.Background())
	if v := empty.app.recent.View(); v.Phase != PhaseEmpty || v.Message != MsgNoRecent {
		t.Fatalf("empty view %+v", v)
	}
}

func TestBalanceJoinsSummaries(t *testing.T) {
	gw := &fakeGateway{
		overall: core.Summary{Income: 9000000, Expense: 4000000, Balance: 5000000},
		ranged:  core.Summary{Income: 1500000, Expense: 250000, Balance: 1250000},
	}
	h := newHarness(gw)
	if v := h.app.balance.View(); v.Balance != MsgLoadingShort {
		t.Fatalf("loading view %+v", v)
	}
	if err := h.app.balance.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	v := h.app.balance.View()
	if v.Income != "Rp 1.500.000" || v.Expense != "Rp 250.000" || v.Balance != "Rp 5.000.000" {
		t.Fatalf("unexpected view %+v", v)
	}

	var sawMonth bool
	for _, r := range gw.balances {
		if r != nil && r.Equal(core.MonthToDate(testNow)) {
			sawMonth = true
		}
	}
	if !sawMonth || len(gw.balances) != 2 {
		t.Fatalf("expected all-time and month requests, got %v", gw.balances)
	}
}
