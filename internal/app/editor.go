package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"dompet/internal/core"
	"dompet/internal/format"
	applog "dompet/internal/log"
)

var (
	ErrSaving          = errors.New("a save is already in progress")
	ErrUnknownCategory = errors.New("category not offered for this type")
)

// EditSession marks the form as editing an existing transaction.
type EditSession struct {
	ID       int64
	Original core.Transaction
}

// CategoryOption is one entry of the category picker.
type CategoryOption struct {
	ID       int64
	Label    string
	Kind     format.Kind
	Selected bool
}

type EditorView struct {
	Mode            EditMode
	Title           string
	Type            core.TxType
	TypeLabel       string
	Amount          string
	Description     string
	Categories      []CategoryOption
	CategoryMessage string
	Saving          bool
}

// submission is what the editor hands over when a save starts.
type submission struct {
	input    core.TransactionInput
	session  *EditSession
	category core.Category
}

// Editor holds the add/edit form.
type Editor struct {
	gw       Gateway
	logger   *applog.Logger
	onChange func()

	mu          sync.Mutex
	session     *EditSession
	txType      core.TxType
	amount      string
	description string
	categories  []core.Category
	catPhase    Phase
	categoryID  int64
	pendingID   int64
	saving      bool
}

func NewEditor(gw Gateway, logger *applog.Logger, onChange func()) *Editor {
	return &Editor{
		gw:       gw,
		logger:   logger.WithComponent(applog.ComponentEditor),
		onChange: onChange,
		txType:   core.Expense,
		catPhase: PhaseLoading,
	}
}

// OpenCreate starts a blank form for t. Call LoadCategories afterwards.
func (e *Editor) OpenCreate(t core.TxType) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %q", core.ErrInvalidType, t)
	}
	e.mu.Lock()
	e.session = nil
	e.txType = t
	e.amount = ""
	e.description = ""
	e.resetCategoriesLocked()
	e.mu.Unlock()
	e.onChange()
	return nil
}

// OpenEdit pre-fills the form from tx, keeping its stored type. The original
// category is selected once the category list for that type arrives.
func (e *Editor) OpenEdit(tx core.Transaction) {
	e.mu.Lock()
	e.session = &EditSession{ID: tx.ID, Original: tx}
	e.txType = tx.Type
	e.amount = format.GroupAmount(strconv.FormatInt(tx.Amount, 10))
	e.description = core.EditableDescription(tx.Description)
	e.resetCategoriesLocked()
	e.pendingID = tx.Category.ID
	e.mu.Unlock()
	e.onChange()
}

func (e *Editor) resetCategoriesLocked() {
	e.categories = nil
	e.catPhase = PhaseLoading
	e.categoryID = 0
	e.pendingID = 0
}

// LoadCategories fetches the categories of the active type. A list that
// arrives after the type changed is discarded.
func (e *Editor) LoadCategories(ctx context.Context) error {
	e.mu.Lock()
	t := e.txType
	e.catPhase = PhaseLoading
	e.mu.Unlock()

	cats, err := e.gw.Categories(ctx, t)
	e.logger.Trace(ctx, "categories", err, applog.FieldTxType, t.String())

	e.mu.Lock()
	if e.txType != t {
		e.mu.Unlock()
		return nil
	}
	if err != nil {
		e.catPhase = PhaseFailed
		e.mu.Unlock()
		e.onChange()
		return fmt.Errorf("load categories: %w", err)
	}
	e.categories = cats
	e.catPhase = phaseOf(len(cats))
	e.applySelectionLocked()
	e.mu.Unlock()
	e.onChange()
	return nil
}

// applySelectionLocked re-selects the pending category when offered. A
// fresh form defaults to the first category.
func (e *Editor) applySelectionLocked() {
	if e.pendingID != 0 {
		e.categoryID = 0
		if e.offersLocked(e.pendingID) {
			e.categoryID = e.pendingID
		}
		e.pendingID = 0
		return
	}
	if e.offersLocked(e.categoryID) {
		return
	}
	e.categoryID = 0
	if e.session == nil && len(e.categories) > 0 {
		e.categoryID = e.categories[0].ID
	}
}

func (e *Editor) offersLocked(id int64) bool {
	if id == 0 {
		return false
	}
	for _, c := range e.categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

// SetAmount stores the field value regrouped for display and returns it.
func (e *Editor) SetAmount(s string) string {
	grouped := format.GroupAmount(s)
	e.mu.Lock()
	e.amount = grouped
	e.mu.Unlock()
	e.onChange()
	return grouped
}

func (e *Editor) SetDescription(s string) {
	e.mu.Lock()
	e.description = s
	e.mu.Unlock()
	e.onChange()
}

// SelectCategory picks a category from the loaded list. Zero clears the
// selection.
func (e *Editor) SelectCategory(id int64) error {
	e.mu.Lock()
	if id != 0 && !e.offersLocked(id) {
		e.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrUnknownCategory, id)
	}
	e.categoryID = id
	e.pendingID = 0
	e.mu.Unlock()
	e.onChange()
	return nil
}

// Session returns the active edit session, nil when creating.
func (e *Editor) Session() *EditSession {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return nil
	}
	s := *e.session
	return &s
}

func (e *Editor) inputLocked() core.TransactionInput {
	return core.TransactionInput{
		Amount:      core.AmountDigits(e.amount),
		Description: core.NormalizeDescription(e.description),
		CategoryID:  e.categoryID,
		Type:        e.txType,
	}
}

// begin validates the form and marks it saving. Validation failures leave
// the form untouched.
func (e *Editor) begin() (submission, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.saving {
		return submission{}, ErrSaving
	}
	in := e.inputLocked()
	if err := in.Validate(); err != nil {
		return submission{}, err
	}
	sub := submission{input: in}
	if e.session != nil {
		s := *e.session
		sub.session = &s
	}
	for _, c := range e.categories {
		if c.ID == in.CategoryID {
			sub.category = c
		}
	}
	e.saving = true
	return sub, nil
}

// finish ends a save. Success clears the fields and the session; failure
// keeps everything so the user can retry.
func (e *Editor) finish(ok bool) {
	e.mu.Lock()
	e.saving = false
	if ok {
		e.session = nil
		e.amount = ""
		e.description = ""
	}
	e.mu.Unlock()
	e.onChange()
}

// Cancel drops the edit session. Field values are reset on the next open.
func (e *Editor) Cancel() {
	e.mu.Lock()
	e.session = nil
	e.mu.Unlock()
	e.onChange()
}

func (e *Editor) View() EditorView {
	e.mu.Lock()
	defer e.mu.Unlock()

	v := EditorView{
		Mode:        ModeCreate,
		Type:        e.txType,
		TypeLabel:   format.TypeLabel(e.txType),
		Amount:      e.amount,
		Description: e.description,
		Saving:      e.saving,
	}
	if e.session != nil {
		v.Mode = ModeEdit
		v.Title = "Edit Transaksi"
	} else {
		v.Title = "Tambah " + v.TypeLabel
	}
	switch e.catPhase {
	case PhaseLoading:
		v.CategoryMessage = MsgCategoriesLoading
	case PhaseEmpty:
		v.CategoryMessage = MsgNoCategories
	case PhaseFailed:
		v.CategoryMessage = MsgLoadFailed
	}
	for _, c := range e.categories {
		v.Categories = append(v.Categories, CategoryOption{
			ID:       c.ID,
			Label:    c.Name,
			Kind:     format.CategoryKind(c.Icon, c.Name, e.txType),
			Selected: c.ID == e.categoryID,
		})
	}
	return v
}
