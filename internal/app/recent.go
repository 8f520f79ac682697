package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"dompet/internal/api"
	"dompet/internal/cache"
	"dompet/internal/core"
	"dompet/internal/format"
	applog "dompet/internal/log"
)

// RecentLimit is the size of the home view's latest-transactions list.
const RecentLimit = 5

type RecentView struct {
	Phase   Phase
	Message string
	Rows    []format.TransactionView
}

// RecentController loads the latest transactions of the past year. Each
// request carries a cache-busting parameter.
type RecentController struct {
	gw       Gateway
	index    *cache.RowIndex
	logger   *applog.Logger
	now      func() time.Time
	onChange func()

	mu     sync.Mutex
	items  []core.Transaction
	phase  Phase
	errMsg string
}

func NewRecentController(gw Gateway, index *cache.RowIndex, logger *applog.Logger, now func() time.Time, onChange func()) *RecentController {
	return &RecentController{
		gw:       gw,
		index:    index,
		logger:   logger.WithComponent(applog.ComponentRecent),
		now:      now,
		onChange: onChange,
		phase:    PhaseLoading,
	}
}

func (r *RecentController) Refresh(ctx context.Context) error {
	r.mu.Lock()
	r.items = nil
	r.phase = PhaseLoading
	r.mu.Unlock()
	r.onChange()

	page, err := r.gw.Transactions(ctx, api.TransactionQuery{
		Range:     core.PastYear(r.now()),
		Limit:     RecentLimit,
		Offset:    0,
		CacheBust: true,
	})
	r.logger.Trace(ctx, applog.OpRefresh, err)

	r.mu.Lock()
	if err != nil {
		r.phase = PhaseFailed
		r.errMsg = api.Message(err, MsgLoadFailed)
	} else {
		r.items = page.Items
		r.phase = phaseOf(len(page.Items))
	}
	r.mu.Unlock()
	if err == nil {
		r.index.Put(page.Items...)
	}
	r.onChange()
	if err != nil {
		return fmt.Errorf("recent refresh: %w", err)
	}
	return nil
}

func (r *RecentController) Items() []core.Transaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]core.Transaction(nil), r.items...)
}

func (r *RecentController) View() RecentView {
	r.mu.Lock()
	defer r.mu.Unlock()

	v := RecentView{Phase: r.phase}
	switch r.phase {
	case PhaseLoading:
		v.Message = MsgLoading
	case PhaseEmpty:
		v.Message = MsgNoRecent
	case PhaseFailed:
		v.Message = r.errMsg
	case PhasePopulated:
		v.Rows = format.RenderTransactions(r.items)
	}
	return v
}
