// Package tui is the terminal front end. It renders App snapshots with
// bubbletea and runs every blocking App operation as a command.
package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"dompet/internal/app"
	"dompet/internal/core"
	applog "dompet/internal/log"
)

const flashDuration = 2 * time.Second

type formField int

const (
	fieldAmount formField = iota
	fieldDescription
	fieldCategory
	fieldCount
)

type (
	doneMsg struct {
		op  string
		err error
	}
	clearFlashMsg struct{ seq int }
)

// rangeInput is the custom range editor of the transaction list.
type rangeInput struct {
	start, end string
	onEnd      bool
}

type Model struct {
	ctx    context.Context
	app    *app.App
	chart  *Chart
	logger *applog.Logger

	snap   app.Snapshot
	width  int
	height int
	cursor int

	field    formField
	rng      *rangeInput
	confirm  *confirmMsg
	flash    string
	flashOK  bool
	flashSeq int
	quitting bool
}

func NewModel(ctx context.Context, a *app.App, chart *Chart, logger *applog.Logger) *Model {
	if logger == nil {
		logger = applog.Discard()
	}
	return &Model{
		ctx:    ctx,
		app:    a,
		chart:  chart,
		logger: logger.WithComponent(applog.ComponentTUI),
		snap:   a.Snapshot(),
		width:  80,
	}
}

func (m *Model) Init() tea.Cmd {
	return m.run("start", m.app.Start)
}

// run turns blocking work into a command reporting doneMsg.
func (m *Model) run(op string, fn app.Refresh) tea.Cmd {
	if fn == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		return doneMsg{op: op, err: fn(ctx)}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case changedMsg:
	case doneMsg:
		if msg.err != nil && !errors.Is(msg.err, app.ErrOutsideHost) {
			m.logger.Debug("Operation failed", applog.FieldOperation, msg.op, applog.FieldError, msg.err.Error())
		}
	case feedbackMsg:
		m.flashSeq++
		m.flashOK = msg.feedback == app.FeedbackSuccess
		m.flash = "✗"
		if m.flashOK {
			m.flash = "✓"
		}
		seq := m.flashSeq
		cmd = tea.Tick(flashDuration, func(time.Time) tea.Msg { return clearFlashMsg{seq: seq} })
	case clearFlashMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
		}
	case confirmMsg:
		c := msg
		m.confirm = &c
	case tea.KeyMsg:
		cmd = m.handleKey(msg)
	}
	m.snap = m.app.Snapshot()
	m.clampCursor()
	return m, cmd
}

func (m *Model) handleKey(k tea.KeyMsg) tea.Cmd {
	key := k.String()
	if key == "ctrl+c" {
		m.quitting = true
		return tea.Quit
	}
	if m.confirm != nil {
		return m.handleConfirmKey(key)
	}
	if m.rng != nil {
		return m.handleRangeKey(k)
	}

	switch m.snap.View {
	case app.ViewAddEdit:
		return m.handleFormKey(k)
	case app.ViewDetail:
		return m.handleDetailKey(key)
	}

	switch key {
	case "q":
		m.quitting = true
		return tea.Quit
	case "1":
		return m.switchTab(app.ViewHome)
	case "2":
		return m.switchTab(app.ViewAnalytic)
	case "3":
		return m.switchTab(app.ViewTransactionList)
	case "tab":
		return m.switchTab(nextTab(m.snap.View))
	case "a":
		return m.openCreate(core.Expense)
	case "A":
		return m.openCreate(core.Income)
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		m.cursor++
	case "enter":
		if id, ok := m.cursorRow(); ok {
			if err := m.app.OpenDetail(id); err != nil {
				m.logger.Warn("Detail unavailable", applog.FieldTxID, id, applog.FieldError, err.Error())
			}
		}
	}

	switch m.snap.View {
	case app.ViewAnalytic:
		if key == "t" {
			next := m.snap.Analytics.Type.Other()
			return m.run("analytics", func(ctx context.Context) error {
				return m.app.SetAnalyticType(ctx, next)
			})
		}
	case app.ViewTransactionList:
		switch key {
		case "right", "n":
			if !m.snap.List.NextDisabled {
				m.cursor = 0
				return m.run("next", m.app.NextPage)
			}
		case "left", "p":
			if !m.snap.List.PrevDisabled {
				m.cursor = 0
				return m.run("prev", m.app.PrevPage)
			}
		case "w":
			return m.preset(7)
		case "m":
			return m.preset(30)
		case "r":
			m.rng = &rangeInput{start: m.snap.Range.Start.String(), end: m.snap.Range.End.String()}
		}
	}
	return nil
}

func (m *Model) handleConfirmKey(key string) tea.Cmd {
	var answer bool
	switch key {
	case "y", "Y", "enter":
		answer = true
	case "n", "N", "esc":
	default:
		return nil
	}
	m.confirm.reply <- answer
	m.confirm = nil
	return nil
}

func (m *Model) handleDetailKey(key string) tea.Cmd {
	switch key {
	case "esc", "backspace", "q":
		m.app.CloseDetail()
	case "e":
		refresh, err := m.app.OpenEdit()
		if err != nil {
			return nil
		}
		m.field = fieldAmount
		return m.run("categories", refresh)
	case "d":
		return m.run("delete", func(ctx context.Context) error {
			_, err := m.app.Delete(ctx)
			return err
		})
	}
	return nil
}

func (m *Model) handleFormKey(k tea.KeyMsg) tea.Cmd {
	key := k.String()
	switch key {
	case "esc":
		m.app.CancelEdit()
		return nil
	case "enter":
		if m.snap.Editor.Saving {
			return nil
		}
		return m.run("submit", func(ctx context.Context) error {
			_, err := m.app.Submit(ctx)
			return err
		})
	case "tab", "down":
		m.field = (m.field + 1) % fieldCount
		return nil
	case "shift+tab", "up":
		m.field = (m.field + fieldCount - 1) % fieldCount
		return nil
	}

	e := m.snap.Editor
	switch m.field {
	case fieldAmount:
		switch {
		case key == "backspace":
			digits := core.AmountDigits(e.Amount)
			if digits != "" {
				m.app.SetAmount(digits[:len(digits)-1])
			}
		case k.Type == tea.KeyRunes:
			m.app.SetAmount(e.Amount + string(k.Runes))
		}
	case fieldDescription:
		switch {
		case key == "backspace":
			if r := []rune(e.Description); len(r) > 0 {
				m.app.SetDescription(string(r[:len(r)-1]))
			}
		case k.Type == tea.KeyRunes || k.Type == tea.KeySpace:
			m.app.SetDescription(e.Description + string(k.Runes))
		}
	case fieldCategory:
		switch key {
		case "left", "h":
			m.moveCategory(e.Categories, -1)
		case "right", "l", " ":
			m.moveCategory(e.Categories, 1)
		}
	}
	return nil
}

func (m *Model) moveCategory(opts []app.CategoryOption, delta int) {
	if len(opts) == 0 {
		return
	}
	cur := -1
	for i, o := range opts {
		if o.Selected {
			cur = i
		}
	}
	next := (cur + delta + len(opts)) % len(opts)
	if cur < 0 && delta < 0 {
		next = len(opts) - 1
	}
	_ = m.app.SelectCategory(opts[next].ID)
}

func (m *Model) handleRangeKey(k tea.KeyMsg) tea.Cmd {
	r := m.rng
	field := &r.start
	if r.onEnd {
		field = &r.end
	}
	switch k.String() {
	case "esc":
		m.rng = nil
	case "tab", "shift+tab":
		r.onEnd = !r.onEnd
	case "backspace":
		if len(*field) > 0 {
			*field = (*field)[:len(*field)-1]
		}
	case "enter":
		start, end := r.start, r.end
		m.rng = nil
		m.cursor = 0
		return m.run("range", func(ctx context.Context) error {
			return m.app.SetRange(ctx, start, end)
		})
	default:
		if k.Type == tea.KeyRunes && len(*field) < len("2006-01-02") {
			for _, c := range k.Runes {
				if (c >= '0' && c <= '9') || c == '-' {
					*field += string(c)
				}
			}
		}
	}
	return nil
}

func (m *Model) switchTab(tab app.View) tea.Cmd {
	refresh, err := m.app.SwitchTab(tab, false)
	if err != nil {
		return nil
	}
	m.cursor = 0
	return m.run("tab:"+tab.String(), refresh)
}

func (m *Model) openCreate(t core.TxType) tea.Cmd {
	refresh, err := m.app.OpenCreate(t)
	if err != nil {
		return nil
	}
	m.field = fieldAmount
	return m.run("categories", refresh)
}

func (m *Model) preset(days int) tea.Cmd {
	m.cursor = 0
	return m.run("preset", func(ctx context.Context) error {
		return m.app.ApplyPreset(ctx, days)
	})
}

func nextTab(v app.View) app.View {
	switch v {
	case app.ViewHome:
		return app.ViewAnalytic
	case app.ViewAnalytic:
		return app.ViewTransactionList
	}
	return app.ViewHome
}

// cursorRow is the transaction under the cursor on Home or the list.
func (m *Model) cursorRow() (int64, bool) {
	rows := m.visibleRows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return 0, false
	}
	return rows[m.cursor].ID, true
}

func (m *Model) clampCursor() {
	n := len(m.visibleRows())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
