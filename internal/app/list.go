package app

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"dompet/internal/api"
	"dompet/internal/cache"
	"dompet/internal/core"
	"dompet/internal/format"
	applog "dompet/internal/log"
)

// ListView is the display state of the paginated transaction list.
type ListView struct {
	Phase        Phase
	Message      string
	Range        core.DateRange
	Rows         []format.TransactionView
	Total        string
	PageInfo     string
	PrevDisabled bool
	NextDisabled bool
	Income       string
	Expense      string
}

// ListController pages through the transactions of a date range together
// with that range's income and expense totals.
type ListController struct {
	gw       Gateway
	index    *cache.RowIndex
	logger   *applog.Logger
	onChange func()

	mu      sync.Mutex
	rng     core.DateRange
	page    core.Page
	items   []core.Transaction
	summary core.Summary
	phase   Phase
	errMsg  string
}

func NewListController(gw Gateway, index *cache.RowIndex, logger *applog.Logger, onChange func()) *ListController {
	return &ListController{
		gw:       gw,
		index:    index,
		logger:   logger.WithComponent(applog.ComponentList),
		onChange: onChange,
		page:     core.NewPage(core.DefaultPageSize),
		phase:    PhaseLoading,
	}
}

// Refresh loads the current page of rng. A range different from the last
// one resets the page to the first. Rows and totals are applied together,
// only once both requests succeeded.
func (l *ListController) Refresh(ctx context.Context, rng core.DateRange) error {
	l.mu.Lock()
	if !rng.Equal(l.rng) {
		l.rng = rng
		l.page.Reset()
	}
	page := l.page
	l.items = nil
	l.phase = PhaseLoading
	l.errMsg = ""
	l.mu.Unlock()
	l.onChange()

	if err := rng.Validate(); err != nil {
		l.fail(err.Error())
		return err
	}

	var (
		rows    core.TransactionPage
		summary core.Summary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = l.gw.Transactions(gctx, api.TransactionQuery{
			Range:  rng,
			Limit:  page.Size,
			Offset: page.Offset(),
		})
		return err
	})
	g.Go(func() error {
		var err error
		summary, err = l.gw.Balance(gctx, &rng)
		return err
	})
	err := g.Wait()
	l.logger.Trace(ctx, applog.OpRefresh, err, applog.FieldRange, rng.String(), applog.FieldPage, page.Index)
	if err != nil {
		l.fail(api.Message(err, MsgLoadFailed))
		return fmt.Errorf("list refresh: %w", err)
	}

	l.index.Put(rows.Items...)
	l.mu.Lock()
	l.items = rows.Items
	l.page.Total = rows.Total
	l.summary = summary
	l.phase = phaseOf(len(rows.Items))
	l.mu.Unlock()
	l.onChange()
	return nil
}

func (l *ListController) fail(msg string) {
	l.mu.Lock()
	l.phase = PhaseFailed
	l.errMsg = msg
	l.mu.Unlock()
	l.onChange()
}

// Next moves one page forward and refreshes. At the last page it does
// nothing and reports false.
func (l *ListController) Next(ctx context.Context) (bool, error) {
	return l.step(ctx, (*core.Page).Next)
}

// Prev moves one page back and refreshes. At the first page it does nothing
// and reports false.
func (l *ListController) Prev(ctx context.Context) (bool, error) {
	return l.step(ctx, (*core.Page).Prev)
}

func (l *ListController) step(ctx context.Context, move func(*core.Page) bool) (bool, error) {
	l.mu.Lock()
	moved := move(&l.page)
	rng := l.rng
	l.mu.Unlock()
	if !moved {
		return false, nil
	}
	return true, l.Refresh(ctx, rng)
}

// ResetPage returns to the first page without loading.
func (l *ListController) ResetPage() {
	l.mu.Lock()
	l.page.Reset()
	l.mu.Unlock()
}

// Page returns the pagination cursor.
func (l *ListController) Page() core.Page {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.page
}

func (l *ListController) Items() []core.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]core.Transaction(nil), l.items...)
}

func (l *ListController) View() ListView {
	l.mu.Lock()
	defer l.mu.Unlock()

	v := ListView{
		Phase:        l.phase,
		Range:        l.rng,
		Total:        fmt.Sprintf("Total: %d", l.page.Total),
		PageInfo:     fmt.Sprintf("%d / %d", l.page.Index+1, l.page.TotalPages()),
		PrevDisabled: !l.page.HasPrev(),
		NextDisabled: !l.page.HasNext(),
		Income:       MsgLoadingShort,
		Expense:      MsgLoadingShort,
	}
	switch l.phase {
	case PhaseLoading:
		v.Message = MsgLoading
	case PhaseEmpty:
		v.Message = MsgNoRangeRows
	case PhaseFailed:
		v.Message = l.errMsg
	}
	if l.phase == PhaseEmpty || l.phase == PhasePopulated {
		v.Rows = format.RenderTransactions(l.items)
		v.Income = format.Rupiah(l.summary.Income)
		v.Expense = format.Rupiah(l.summary.Expense)
	}
	return v
}
