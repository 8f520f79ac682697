package app

import "errors"

// View is one of the five mutually exclusive screens.
type View int

const (
	ViewHome View = iota
	ViewAnalytic
	ViewTransactionList
	ViewAddEdit
	ViewDetail
)

func (v View) String() string {
	switch v {
	case ViewHome:
		return "home"
	case ViewAnalytic:
		return "analytic"
	case ViewTransactionList:
		return "transaction"
	case ViewAddEdit:
		return "add_edit"
	case ViewDetail:
		return "detail"
	}
	return "unknown"
}

// IsTab reports whether v is reachable from the tab bar.
func (v View) IsTab() bool {
	return v == ViewHome || v == ViewAnalytic || v == ViewTransactionList
}

// EditMode tells a create form from an edit form.
type EditMode int

const (
	ModeCreate EditMode = iota
	ModeEdit
)

func (m EditMode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

var (
	ErrNotATab     = errors.New("view is not a tab")
	ErrNotInDetail = errors.New("edit requires the detail view")
)

// Navigator is the view state machine. It is not safe for concurrent use;
// App serializes access.
type Navigator struct {
	view            View
	tabBeforeDetail View
	mode            EditMode
}

func NewNavigator() *Navigator {
	return &Navigator{view: ViewHome, tabBeforeDetail: ViewHome}
}

func (n *Navigator) View() View {
	return n.view
}

// ActiveTab is the highlighted tab; ok is false in the modal views.
func (n *Navigator) ActiveTab() (View, bool) {
	if n.view.IsTab() {
		return n.view, true
	}
	return 0, false
}

// Mode is the form mode of the last AddEdit entry.
func (n *Navigator) Mode() EditMode {
	return n.mode
}

// ChromeHidden reports whether the tab bar and close control are hidden.
func (n *Navigator) ChromeHidden() bool {
	return n.view == ViewAddEdit || n.view == ViewDetail
}

// SwitchTab activates tab and reports whether the caller should refresh it.
func (n *Navigator) SwitchTab(tab View, skipRefresh bool) (bool, error) {
	if !tab.IsTab() {
		return false, ErrNotATab
	}
	n.view = tab
	return !skipRefresh, nil
}

// OpenAddEdit enters the form. Edit mode is only reachable from Detail.
func (n *Navigator) OpenAddEdit(mode EditMode) error {
	if mode == ModeEdit && n.view != ViewDetail {
		return ErrNotInDetail
	}
	n.mode = mode
	n.view = ViewAddEdit
	return nil
}

// CloseAddEdit leaves the form: edit returns to Detail, create to Home.
// Neither destination is refreshed.
func (n *Navigator) CloseAddEdit() View {
	if n.view != ViewAddEdit {
		return n.view
	}
	if n.mode == ModeEdit {
		n.view = ViewDetail
	} else {
		n.view = ViewHome
	}
	n.mode = ModeCreate
	return n.view
}

// OpenDetail enters Detail, remembering the tab it was opened from.
func (n *Navigator) OpenDetail() {
	if n.view.IsTab() {
		n.tabBeforeDetail = n.view
	}
	n.view = ViewDetail
}

// CloseDetail restores the tab active before Detail, without refresh.
func (n *Navigator) CloseDetail() View {
	n.view = n.tabBeforeDetail
	return n.view
}
