package app

import (
	"context"
	"sync"
	"time"

	"dompet/internal/api"
	"dompet/internal/cache"
	"dompet/internal/core"
	"dompet/internal/events"
)

var testNow = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

type updateCall struct {
	id int64
	in core.TransactionInput
}

type fakeGateway struct {
	mu sync.Mutex

	meta    core.Meta
	metaErr error

	overall    core.Summary
	ranged     core.Summary
	balanceErr error
	balances   []*core.DateRange

	categories map[core.TxType][]core.Category
	catErr     error
	catGate    chan struct{}
	catCalls   []core.TxType

	rows    []core.Transaction
	txDelay time.Duration
	txErr   func(q api.TransactionQuery) error
	queries []api.TransactionQuery

	analytics     core.Analytics
	analyticsErr  error
	analyticsType []core.TxType

	createEcho *core.Transaction
	createErr  error
	created    []core.TransactionInput

	updateEcho *core.Transaction
	updateErr  error
	updated    []updateCall

	deleteErr error
	deleted   []int64
}

func (f *fakeGateway) Balance(ctx context.Context, r *core.DateRange) (core.Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances = append(f.balances, r)
	if f.balanceErr != nil {
		return core.Summary{}, f.balanceErr
	}
	if r == nil {
		return f.overall, nil
	}
	return f.ranged, nil
}

func (f *fakeGateway) Categories(ctx context.Context, t core.TxType) ([]core.Category, error) {
	f.mu.Lock()
	f.catCalls = append(f.catCalls, t)
	gate := f.catGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.catErr != nil {
		return nil, f.catErr
	}
	return f.categories[t], nil
}

func (f *fakeGateway) Transactions(ctx context.Context, q api.TransactionQuery) (core.TransactionPage, error) {
	if f.txDelay > 0 {
		select {
		case <-time.After(f.txDelay):
		case <-ctx.Done():
			return core.TransactionPage{}, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.txErr != nil {
		if err := f.txErr(q); err != nil {
			return core.TransactionPage{}, err
		}
	}
	page := core.TransactionPage{Total: len(f.rows)}
	if q.Offset < len(f.rows) {
		end := min(q.Offset+q.Limit, len(f.rows))
		page.Items = append(page.Items, f.rows[q.Offset:end]...)
	}
	return page, nil
}

func (f *fakeGateway) TransactionsMeta(ctx context.Context) (core.Meta, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.meta, f.metaErr
}

func (f *fakeGateway) Analytics(ctx context.Context, r core.DateRange, t core.TxType) (core.Analytics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.analyticsType = append(f.analyticsType, t)
	return f.analytics, f.analyticsErr
}

func (f *fakeGateway) CreateTransaction(ctx context.Context, in core.TransactionInput) (*core.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, in)
	return f.createEcho, f.createErr
}

func (f *fakeGateway) UpdateTransaction(ctx context.Context, id int64, in core.TransactionInput) (*core.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, updateCall{id, in})
	return f.updateEcho, f.updateErr
}

func (f *fakeGateway) DeleteTransaction(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

func (f *fakeGateway) listQueries() []api.TransactionQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []api.TransactionQuery
	for _, q := range f.queries {
		if !q.CacheBust {
			out = append(out, q)
		}
	}
	return out
}

func (f *fakeGateway) recentQueries() []api.TransactionQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []api.TransactionQuery
	for _, q := range f.queries {
		if q.CacheBust {
			out = append(out, q)
		}
	}
	return out
}

type fakeChart struct {
	mu      sync.Mutex
	drawn   []ChartSeries
	cleared int
}

func (c *fakeChart) Draw(s ChartSeries) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drawn = append(c.drawn, s)
}

func (c *fakeChart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleared++
}

type fakeNotifier struct {
	mu  sync.Mutex
	got []Feedback
}

func (n *fakeNotifier) Notify(f Feedback) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.got = append(n.got, f)
}

type fakeConfirmer struct {
	answer  bool
	prompts []string
}

func (c *fakeConfirmer) Confirm(ctx context.Context, prompt string) bool {
	c.prompts = append(c.prompts, prompt)
	return c.answer
}

type fakeObserver struct {
	mu      sync.Mutex
	changes []events.Change
	err     error
	// gate, when set, holds every publication until it is closed.
	gate chan struct{}
}

func (o *fakeObserver) TransactionChanged(ctx context.Context, c events.Change) error {
	if o.gate != nil {
		select {
		case <-o.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.changes = append(o.changes, c)
	return o.err
}

func (o *fakeObserver) recorded() []events.Change {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]events.Change(nil), o.changes...)
}

type harness struct {
	app      *App
	gw       *fakeGateway
	chart    *fakeChart
	notifier *fakeNotifier
	confirm  *fakeConfirmer
	observer *fakeObserver
	index    *cache.RowIndex
}

func newHarness(gw *fakeGateway) *harness {
	h := &harness{
		gw:       gw,
		chart:    &fakeChart{},
		notifier: &fakeNotifier{},
		confirm:  &fakeConfirmer{},
		observer: &fakeObserver{},
		index:    cache.NewRowIndex(64, time.Hour),
	}
	h.app = New(Options{
		Gateway:   gw,
		Chart:     h.chart,
		Notifier:  h.notifier,
		Confirmer: h.confirm,
		Observer:  h.observer,
		Index:     h.index,
		Now:       func() time.Time { return testNow },
		Location:  time.UTC,
	})
	return h
}

func makeRows(n int) []core.Transaction {
	rows := make([]core.Transaction, n)
	for i := range rows {
		rows[i] = core.Transaction{
			ID:       int64(i + 1),
			Type:     core.Expense,
			Amount:   int64(1000 * (i + 1)),
			Category: core.Category{ID: 3, Name: "Makan"},
			Date:     "2024-06-01",
		}
	}
	return rows
}

func mustRange(start, end string) core.DateRange {
	r, err := core.NewDateRange(start, end)
	if err != nil {
		panic(err)
	}
	return r
}
