package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"dompet/internal/api"
	"dompet/internal/cache"
	"dompet/internal/core"
	"dompet/internal/events"
	"dompet/internal/format"
	applog "dompet/internal/log"
)

var (
	// ErrOutsideHost means no session token exists. Nothing reaches the
	// network for the lifetime of the App.
	ErrOutsideHost = errors.New("app: not running inside the host")
	ErrNotFound    = errors.New("app: transaction not loaded")
	ErrNoSelection = errors.New("app: no transaction selected")
	ErrBadPreset   = errors.New("app: preset must be 7 or 30 days")
)

// changeTimeout bounds one change publication. It runs detached from the
// operation that caused it.
const changeTimeout = 10 * time.Second

// PresetDays are the accepted quick ranges.
var PresetDays = map[int]bool{7: true, 30: true}

// Refresh is deferred loading work returned to the caller, which decides
// where to run it. A nil Refresh means nothing to load.
type Refresh func(ctx context.Context) error

type Options struct {
	// Gateway is nil when no session token is available.
	Gateway   Gateway
	Chart     ChartSink
	Notifier  Notifier
	Confirmer Confirmer
	Observer  ChangeObserver
	Index     *cache.RowIndex
	Logger    *applog.Logger
	Now       func() time.Time
	Location  *time.Location
}

// Snapshot is a consistent copy of everything a renderer needs.
type Snapshot struct {
	View         View
	ActiveTab    View
	HasTab       bool
	ChromeHidden bool
	EnvWarning   bool
	Status       Status
	Range        core.DateRange
	Balance      BalanceView
	Recent       RecentView
	List         ListView
	Analytics    AnalyticsView
	Editor       EditorView
	Detail       *format.DetailView
}

// App is the single owner of shared client state: the view, the selected
// transaction, the filter range, the status line and the environment
// condition. Controllers keep only their own local state.
type App struct {
	gw        Gateway
	index     *cache.RowIndex
	notifier  Notifier
	confirmer Confirmer
	observer  ChangeObserver
	logger    *applog.Logger
	now       func() time.Time
	loc       *time.Location

	balance   *BalanceController
	recent    *RecentController
	list      *ListController
	analytics *AnalyticsController
	editor    *Editor

	mu         sync.Mutex
	nav        *Navigator
	rng        core.DateRange
	selected   *core.Transaction
	status     Status
	envWarning bool
	listeners  []func()

	publishing sync.WaitGroup
}

func New(opts Options) *App {
	a := &App{
		gw:        opts.Gateway,
		index:     opts.Index,
		notifier:  opts.Notifier,
		confirmer: opts.Confirmer,
		observer:  opts.Observer,
		logger:    opts.Logger,
		now:       opts.Now,
		loc:       opts.Location,
		nav:       NewNavigator(),
	}
	if a.index == nil {
		a.index = cache.NewRowIndex(256, 10*time.Minute)
	}
	if a.notifier == nil {
		a.notifier = nopNotifier{}
	}
	if a.confirmer == nil {
		a.confirmer = denyAll{}
	}
	if a.logger == nil {
		a.logger = applog.Discard()
	}
	if a.now == nil {
		a.now = time.Now
	}
	if a.loc == nil {
		a.loc = time.Local
	}
	a.rng = core.LastDays(a.now(), core.DefaultRangeDays)

	a.balance = NewBalanceController(a.gw, a.logger, a.now, a.changed)
	a.recent = NewRecentController(a.gw, a.index, a.logger, a.now, a.changed)
	a.list = NewListController(a.gw, a.index, a.logger, a.changed)
	a.analytics = NewAnalyticsController(a.gw, opts.Chart, a.logger, a.changed)
	a.editor = NewEditor(a.gw, a.logger, a.changed)
	a.logger = a.logger.WithComponent(applog.ComponentApp)
	return a
}

// OnChange registers fn to run after any visible state changed. fn may be
// called from any goroutine.
func (a *App) OnChange(fn func()) {
	a.mu.Lock()
	a.listeners = append(a.listeners, fn)
	a.mu.Unlock()
}

func (a *App) changed() {
	a.mu.Lock()
	listeners := append([]func(){}, a.listeners...)
	a.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

func (a *App) setStatus(text string, kind StatusKind) {
	a.mu.Lock()
	a.status = Status{Text: text, Kind: kind}
	a.mu.Unlock()
	a.changed()
}

func (a *App) outsideHost() bool {
	return a.gw == nil
}

// Start loads the initial state: the default range from the transaction
// meta, then the balance and the recent list together. Without a gateway it
// shows the persistent environment warning and returns ErrOutsideHost.
func (a *App) Start(ctx context.Context) error {
	if a.outsideHost() {
		a.mu.Lock()
		a.envWarning = true
		a.status = Status{Text: MsgOutsideHost, Kind: StatusError}
		a.mu.Unlock()
		a.changed()
		a.logger.Warn("No session token, staying offline")
		return ErrOutsideHost
	}

	meta, err := a.gw.TransactionsMeta(ctx)
	if err != nil {
		a.logger.WarnContext(ctx, "Transaction meta unavailable, using default range", applog.FieldError, err.Error())
		meta = core.Meta{}
	}
	rng := core.DefaultRange(a.now(), meta)
	a.mu.Lock()
	a.rng = rng
	a.mu.Unlock()
	a.logger.InfoContext(ctx, "Starting", applog.FieldRange, rng.String())

	if err := a.refreshHome(ctx); err != nil {
		a.setStatus(api.Message(err, MsgLoadFailed), StatusError)
		return err
	}
	a.setStatus("", StatusMuted)
	return nil
}

// refreshHome loads the balance and the recent list. A failure in one
// region never cancels the other.
func (a *App) refreshHome(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return a.balance.Refresh(ctx) })
	g.Go(func() error { return a.recent.Refresh(ctx) })
	return g.Wait()
}

// Range is the shared filter range.
func (a *App) Range() core.DateRange {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rng
}

// SwitchTab activates tab at once. Unless skipRefresh is set, the tab's
// loading work is returned for the caller to run.
func (a *App) SwitchTab(tab View, skipRefresh bool) (Refresh, error) {
	a.mu.Lock()
	refresh, err := a.nav.SwitchTab(tab, skipRefresh)
	a.mu.Unlock()
	if err != nil {
		return nil, err
	}
	a.changed()
	if !refresh || a.outsideHost() {
		return nil, nil
	}
	return a.tabRefresh(tab), nil
}

func (a *App) tabRefresh(tab View) Refresh {
	switch tab {
	case ViewHome:
		return a.refreshHome
	case ViewAnalytic:
		return func(ctx context.Context) error {
			return a.analytics.Refresh(ctx, a.Range())
		}
	case ViewTransactionList:
		return func(ctx context.Context) error {
			return a.list.Refresh(ctx, a.Range())
		}
	}
	return nil
}

// OpenDetail selects transaction id and shows it. The rows on screen are
// searched first and the row index only after them.
func (a *App) OpenDetail(id int64) error {
	tx, ok := a.lookup(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	a.mu.Lock()
	a.selected = &tx
	a.nav.OpenDetail()
	a.mu.Unlock()
	a.changed()
	return nil
}

func (a *App) lookup(id int64) (core.Transaction, bool) {
	a.mu.Lock()
	view := a.nav.View()
	a.mu.Unlock()

	sources := []func() []core.Transaction{a.list.Items, a.recent.Items}
	if view == ViewHome {
		sources[0], sources[1] = sources[1], sources[0]
	}
	for _, items := range sources {
		for _, tx := range items() {
			if tx.ID == id {
				return tx, true
			}
		}
	}
	return a.index.Lookup(id)
}

// CloseDetail clears the selection and restores the previous tab.
func (a *App) CloseDetail() View {
	a.mu.Lock()
	a.selected = nil
	v := a.nav.CloseDetail()
	a.mu.Unlock()
	a.changed()
	return v
}

// Selected returns a copy of the selected transaction.
func (a *App) Selected() (core.Transaction, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.selected == nil {
		return core.Transaction{}, false
	}
	return *a.selected, true
}

// OpenCreate shows a blank form for t and returns the category load.
func (a *App) OpenCreate(t core.TxType) (Refresh, error) {
	if err := a.editor.OpenCreate(t); err != nil {
		return nil, err
	}
	a.mu.Lock()
	_ = a.nav.OpenAddEdit(ModeCreate)
	a.status = Status{}
	a.mu.Unlock()
	a.changed()
	if a.outsideHost() {
		return nil, nil
	}
	return a.editor.LoadCategories, nil
}

// OpenEdit shows the form pre-filled from the selected transaction and
// returns the category load.
func (a *App) OpenEdit() (Refresh, error) {
	a.mu.Lock()
	if a.selected == nil {
		a.mu.Unlock()
		return nil, ErrNoSelection
	}
	tx := *a.selected
	if err := a.nav.OpenAddEdit(ModeEdit); err != nil {
		a.mu.Unlock()
		return nil, err
	}
	a.status = Status{}
	a.mu.Unlock()

	a.editor.OpenEdit(tx)
	if a.outsideHost() {
		return nil, nil
	}
	return a.editor.LoadCategories, nil
}

// CancelEdit leaves the form without saving.
func (a *App) CancelEdit() View {
	a.editor.Cancel()
	a.mu.Lock()
	v := a.nav.CloseAddEdit()
	a.mu.Unlock()
	a.changed()
	return v
}

func (a *App) SetAmount(s string) string {
	return a.editor.SetAmount(s)
}

func (a *App) SetDescription(s string) {
	a.editor.SetDescription(s)
}

func (a *App) SelectCategory(id int64) error {
	return a.editor.SelectCategory(id)
}

// Submit validates the form and creates or updates the transaction. A
// validation failure never reaches the network. A network failure keeps the
// form as it is so the user can retry. After success the balance, the
// recent list and, for updates, the page list are re-synced best-effort.
func (a *App) Submit(ctx context.Context) (MutationResult, error) {
	if a.outsideHost() {
		return MutationResult{}, ErrOutsideHost
	}
	a.setStatus("", StatusMuted)
	sub, err := a.editor.begin()
	if err != nil {
		var ve *core.ValidationError
		if errors.As(err, &ve) {
			a.setStatus(ve.Message, StatusError)
		}
		return MutationResult{}, err
	}
	a.setStatus(MsgSaving, StatusMuted)

	if sub.session != nil {
		return a.submitUpdate(ctx, sub)
	}
	return a.submitCreate(ctx, sub)
}

func (a *App) submitUpdate(ctx context.Context, sub submission) (MutationResult, error) {
	id := sub.session.ID
	logger := a.logger.WithOperation(applog.OpUpdate)
	echo, err := a.gw.UpdateTransaction(ctx, id, sub.input)
	if err != nil {
		a.saveFailed(ctx, logger, err)
		return MutationResult{}, err
	}
	logger.InfoContext(ctx, "Transaction updated", applog.NewFields().
		WithTransaction(id, sub.input.Type.String(), amountOf(sub.input), sub.input.CategoryID).ToSlice()...)

	updated := mergeSubmitted(sub.session.Original, sub, echo)
	a.index.Put(updated)
	a.mu.Lock()
	a.selected = &updated
	a.mu.Unlock()
	a.setStatus(MsgUpdated, StatusOK)

	resyncs := runBestEffort(ctx, a.logger,
		resync{"balance", a.balance.Refresh},
		resync{"recent", a.recent.Refresh},
		resync{"list", func(ctx context.Context) error { return a.list.Refresh(ctx, a.Range()) }},
	)
	a.notifier.Notify(FeedbackSuccess)
	a.editor.finish(true)

	a.mu.Lock()
	a.nav.CloseAddEdit()
	a.mu.Unlock()
	a.changed()

	a.publish(ctx, events.NewChange(events.OpUpdated, updated))
	return MutationResult{Transaction: &updated, Resyncs: resyncs}, nil
}

func (a *App) submitCreate(ctx context.Context, sub submission) (MutationResult, error) {
	logger := a.logger.WithOperation(applog.OpCreate)
	echo, err := a.gw.CreateTransaction(ctx, sub.input)
	if err != nil {
		a.saveFailed(ctx, logger, err)
		return MutationResult{}, err
	}
	logger.InfoContext(ctx, "Transaction created", applog.NewFields().
		WithTransaction(0, sub.input.Type.String(), amountOf(sub.input), sub.input.CategoryID).ToSlice()...)

	a.editor.finish(true)
	a.setStatus(MsgSaved, StatusOK)

	resyncs := runBestEffort(ctx, a.logger,
		resync{"balance", a.balance.Refresh},
		resync{"recent", a.recent.Refresh},
	)
	a.notifier.Notify(FeedbackSuccess)
	created := mergeSubmitted(core.Transaction{}, sub, echo)
	if echo != nil {
		a.index.Put(created)
	}

	a.mu.Lock()
	a.nav.CloseAddEdit()
	a.mu.Unlock()
	a.changed()

	a.publish(ctx, events.NewChange(events.OpCreated, created))

	res := MutationResult{Resyncs: resyncs}
	if echo != nil {
		res.Transaction = &created
	}
	return res, nil
}

func (a *App) saveFailed(ctx context.Context, logger *applog.Logger, err error) {
	logger.WarnContext(ctx, "Save failed", applog.FieldError, err.Error())
	a.editor.finish(false)
	a.setStatus(api.Message(err, MsgSaveFailed), StatusError)
	a.notifier.Notify(FeedbackError)
}

// mergeSubmitted is the record after a save: the echo when the API sent
// one, else base with the submitted fields applied.
func mergeSubmitted(base core.Transaction, sub submission, echo *core.Transaction) core.Transaction {
	if echo != nil {
		return *echo
	}
	tx := base
	tx.Type = sub.input.Type
	tx.Amount = amountOf(sub.input)
	tx.Description = sub.input.Description
	if sub.category.ID != 0 {
		tx.Category = sub.category
	} else {
		tx.Category = core.Category{ID: sub.input.CategoryID}
	}
	return tx
}

func amountOf(in core.TransactionInput) int64 {
	n, _ := core.ParseAmount(in.Amount)
	return n
}

// Delete removes the selected transaction after the user confirms. On
// success it re-syncs best-effort and returns to the tab that was active
// before Detail. On failure navigation is left alone.
func (a *App) Delete(ctx context.Context) (MutationResult, error) {
	if a.outsideHost() {
		return MutationResult{}, ErrOutsideHost
	}
	a.mu.Lock()
	if a.selected == nil || a.nav.View() != ViewDetail {
		a.mu.Unlock()
		return MutationResult{}, ErrNoSelection
	}
	tx := *a.selected
	a.mu.Unlock()

	if !a.confirmer.Confirm(ctx, PromptDelete) {
		return MutationResult{Cancelled: true}, nil
	}

	logger := a.logger.WithOperation(applog.OpDelete)
	if err := a.gw.DeleteTransaction(ctx, tx.ID); err != nil {
		logger.WarnContext(ctx, "Delete failed", applog.FieldTxID, tx.ID, applog.FieldError, err.Error())
		a.setStatus(api.Message(err, MsgDeleteFailed), StatusError)
		return MutationResult{}, err
	}
	logger.InfoContext(ctx, "Transaction deleted", applog.FieldTxID, tx.ID)
	a.notifier.Notify(FeedbackSuccess)
	a.index.Forget(tx.ID)

	resyncs := runBestEffort(ctx, a.logger,
		resync{"balance", a.balance.Refresh},
		resync{"recent", a.recent.Refresh},
		resync{"list", func(ctx context.Context) error { return a.list.Refresh(ctx, a.Range()) }},
	)
	a.CloseDetail()
	a.publish(ctx, events.NewChange(events.OpDeleted, tx))
	return MutationResult{Resyncs: resyncs}, nil
}

// publish hands c to the observer in the background. The mutation that
// caused it has already completed.
func (a *App) publish(ctx context.Context, c events.Change) {
	if a.observer == nil {
		return
	}
	a.publishing.Add(1)
	go func() {
		defer a.publishing.Done()
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), changeTimeout)
		defer cancel()
		if err := a.observer.TransactionChanged(pctx, c); err != nil {
			a.logger.WarnContext(pctx, "Change not published",
				applog.FieldOperation, string(c.Op), applog.FieldTxID, c.ID, applog.FieldError, err.Error())
		}
	}()
}

// Drain waits for change publications still in flight.
func (a *App) Drain() {
	a.publishing.Wait()
}

// SetRange replaces the filter range and reloads the list from its first
// page.
func (a *App) SetRange(ctx context.Context, start, end string) error {
	rng, err := core.NewDateRange(start, end)
	if err != nil {
		a.setStatus(err.Error(), StatusError)
		return err
	}
	return a.applyRange(ctx, rng)
}

// ApplyPreset sets the range to the last days days (7 or 30) and reloads
// the list from its first page.
func (a *App) ApplyPreset(ctx context.Context, days int) error {
	if !PresetDays[days] {
		return fmt.Errorf("%w: %d", ErrBadPreset, days)
	}
	return a.applyRange(ctx, core.LastDays(a.now(), days))
}

func (a *App) applyRange(ctx context.Context, rng core.DateRange) error {
	a.mu.Lock()
	a.rng = rng
	a.mu.Unlock()
	a.list.ResetPage()
	a.changed()
	if a.outsideHost() {
		return ErrOutsideHost
	}
	return a.list.Refresh(ctx, rng)
}

func (a *App) NextPage(ctx context.Context) error {
	if a.outsideHost() {
		return ErrOutsideHost
	}
	_, err := a.list.Next(ctx)
	return err
}

func (a *App) PrevPage(ctx context.Context) error {
	if a.outsideHost() {
		return ErrOutsideHost
	}
	_, err := a.list.Prev(ctx)
	return err
}

// SetAnalyticType switches the analytics view to t and reloads it.
func (a *App) SetAnalyticType(ctx context.Context, t core.TxType) error {
	if a.outsideHost() {
		return ErrOutsideHost
	}
	return a.analytics.SetType(ctx, t, a.Range())
}

func (a *App) Snapshot() Snapshot {
	a.mu.Lock()
	s := Snapshot{
		View:         a.nav.View(),
		ChromeHidden: a.nav.ChromeHidden(),
		EnvWarning:   a.envWarning,
		Status:       a.status,
		Range:        a.rng,
	}
	s.ActiveTab, s.HasTab = a.nav.ActiveTab()
	if a.selected != nil {
		d := format.RenderDetail(*a.selected, a.loc)
		s.Detail = &d
	}
	a.mu.Unlock()

	s.Balance = a.balance.View()
	s.Recent = a.recent.View()
	s.List = a.list.View()
	s.Analytics = a.analytics.View()
	s.Editor = a.editor.View()
	return s
}
