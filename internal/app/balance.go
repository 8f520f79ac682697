package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"dompet/internal/core"
	"dompet/internal/format"
	applog "dompet/internal/log"
)

// BalanceView shows this month's income and expense next to the all-time
// balance.
type BalanceView struct {
	Phase   Phase
	Income  string
	Expense string
	Balance string
}

type BalanceController struct {
	gw       Gateway
	logger   *applog.Logger
	now      func() time.Time
	onChange func()

	mu      sync.Mutex
	overall core.Summary
	month   core.Summary
	phase   Phase
}

func NewBalanceController(gw Gateway, logger *applog.Logger, now func() time.Time, onChange func()) *BalanceController {
	return &BalanceController{
		gw:       gw,
		logger:   logger.WithComponent(applog.ComponentBalance),
		now:      now,
		onChange: onChange,
		phase:    PhaseLoading,
	}
}

// Refresh joins the all-time and month-to-date summaries before applying
// either.
func (b *BalanceController) Refresh(ctx context.Context) error {
	b.mu.Lock()
	b.phase = PhaseLoading
	b.mu.Unlock()
	b.onChange()

	month := core.MonthToDate(b.now())
	var overall, monthly core.Summary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		overall, err = b.gw.Balance(gctx, nil)
		return err
	})
	g.Go(func() error {
		var err error
		monthly, err = b.gw.Balance(gctx, &month)
		return err
	})
	err := g.Wait()
	b.logger.Trace(ctx, applog.OpRefresh, err, applog.FieldRange, month.String())

	b.mu.Lock()
	if err != nil {
		b.phase = PhaseFailed
	} else {
		b.overall, b.month = overall, monthly
		b.phase = PhasePopulated
	}
	b.mu.Unlock()
	b.onChange()
	if err != nil {
		return fmt.Errorf("balance refresh: %w", err)
	}
	return nil
}

func (b *BalanceController) View() BalanceView {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.phase {
	case PhasePopulated:
		return BalanceView{
			Phase:   b.phase,
			Income:  format.Rupiah(b.month.Income),
			Expense: format.Rupiah(b.month.Expense),
			Balance: format.Rupiah(b.overall.Balance),
		}
	case PhaseFailed:
		return BalanceView{Phase: b.phase, Income: format.Placeholder, Expense: format.Placeholder, Balance: format.Placeholder}
	}
	return BalanceView{Phase: b.phase, Income: MsgLoadingShort, Expense: MsgLoadingShort, Balance: MsgLoadingShort}
}
