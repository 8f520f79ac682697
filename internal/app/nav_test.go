package app

import (
	"errors"
	"testing"
)

func TestNavigatorTabs(t *testing.T) {
	n := NewNavigator()
	if n.View() != ViewHome || n.ChromeHidden() {
		t.Fatalf("initial view = %s", n.View())
	}

	refresh, err := n.SwitchTab(ViewAnalytic, false)
	if err != nil || !refresh {
		t.Fatalf("SwitchTab = %v, %v", refresh, err)
	}
	refresh, _ = n.SwitchTab(ViewTransactionList, true)
	if refresh {
		t.Fatal("skip refresh should report no refresh")
	}
	if tab, ok := n.ActiveTab(); !ok || tab != ViewTransactionList {
		t.Fatalf("ActiveTab = %s, %v", tab, ok)
	}
	if _, err := n.SwitchTab(ViewDetail, false); !errors.Is(err, ErrNotATab) {
		t.Fatalf("expected ErrNotATab, got %v", err)
	}
}

func TestNavigatorDetailRestoresTab(t *testing.T) {
	n := NewNavigator()
	n.SwitchTab(ViewTransactionList, true)
	n.OpenDetail()

	if n.View() != ViewDetail || !n.ChromeHidden() {
		t.Fatalf("view = %s, chrome hidden = %v", n.View(), n.ChromeHidden())
	}
	if _, ok := n.ActiveTab(); ok {
		t.Fatal("no tab should be highlighted in detail")
	}
	if v := n.CloseDetail(); v != ViewTransactionList {
		t.Fatalf("CloseDetail = %s, want transaction", v)
	}
}

func TestNavigatorAddEdit(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Navigator)
		mode  EditMode
		want  View
	}{
		{
			name:  "create from analytic returns home",
			setup: func(n *Navigator) { n.SwitchTab(ViewAnalytic, true) },
			mode:  ModeCreate,
			want:  ViewHome,
		},
		{
			name: "edit returns to detail",
			setup: func(n *Navigator) {
				n.SwitchTab(ViewTransactionList, true)
				n.OpenDetail()
			},
			mode: ModeEdit,
			want: ViewDetail,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNavigator()
			tt.setup(n)
			if err := n.OpenAddEdit(tt.mode); err != nil {
				t.Fatal(err)
			}
			if n.View() != ViewAddEdit || n.Mode() != tt.mode || !n.ChromeHidden() {
				t.Fatalf("view = %s mode = %s", n.View(), n.Mode())
			}
			if got := n.CloseAddEdit(); got != tt.want {
				t.Fatalf("CloseAddEdit = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNavigatorEditRequiresDetail(t *testing.T) {
	n := NewNavigator()
	if err := n.OpenAddEdit(ModeEdit); !errors.Is(err, ErrNotInDetail) {
		t.Fatalf("expected ErrNotInDetail, got %v", err)
	}
	if n.View() != ViewHome {
		t.Fatalf("view changed to %s", n.View())
	}
	if n.CloseAddEdit() != ViewHome {
		t.Fatal("CloseAddEdit outside the form should be a no-op")
	}
}
