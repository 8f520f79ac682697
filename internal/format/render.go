package format

import (
	"strings"
	"time"

	"dompet/internal/core"
)

// TransactionView is a display-ready list row.
type TransactionView struct {
	ID           int64
	Type         core.TxType
	Amount       string // signed, with currency prefix
	Date         string
	CategoryName string
	CategoryKind Kind
	Description  string
}

// DetailView is the display-ready detail screen.
type DetailView struct {
	ID           int64
	DateTime     string
	TypeLabel    string
	Type         core.TxType
	Amount       string
	CategoryName string
	CategoryKind Kind
	Description  string
}

// BreakdownRow is one category bar of the analytics breakdown. Width is the
// percentage as reported by the API, used directly as the bar width.
type BreakdownRow struct {
	Name    string
	Kind    Kind
	Width   float64
	Percent string
}

// TypeLabel is the user-facing name of a transaction type.
func TypeLabel(t core.TxType) string {
	if t == core.Income {
		return "Pemasukan"
	}
	return "Pengeluaran"
}

// RenderTransaction shapes a list row.
func RenderTransaction(tx core.Transaction) TransactionView {
	name := strings.TrimSpace(tx.Category.Name)
	v := TransactionView{
		ID:           tx.ID,
		Type:         tx.Type,
		Amount:       SignedRupiah(tx.Amount, tx.Type),
		Date:         ShortDate(tx.Date),
		CategoryName: Placeholder,
		Description:  core.NormalizeDescription(tx.Description),
	}
	if name != "" {
		v.CategoryName = name
		v.CategoryKind = CategoryKind(tx.Category.Icon, name, tx.Type)
	}
	return v
}

// RenderTransactions shapes a list of rows.
func RenderTransactions(txs []core.Transaction) []TransactionView {
	out := make([]TransactionView, 0, len(txs))
	for _, tx := range txs {
		out = append(out, RenderTransaction(tx))
	}
	return out
}

// RenderDetail shapes the detail screen; zoned timestamps are shown in loc.
func RenderDetail(tx core.Transaction, loc *time.Location) DetailView {
	row := RenderTransaction(tx)
	return DetailView{
		ID:           tx.ID,
		DateTime:     DetailDateTime(tx.Date, TransactionStamp(tx), loc),
		TypeLabel:    TypeLabel(tx.Type),
		Type:         tx.Type,
		Amount:       row.Amount,
		CategoryName: row.CategoryName,
		CategoryKind: row.CategoryKind,
		Description:  row.Description,
	}
}

// RenderBreakdown shapes the analytics category breakdown for type t.
func RenderBreakdown(shares []core.CategoryShare, t core.TxType) []BreakdownRow {
	out := make([]BreakdownRow, 0, len(shares))
	for _, s := range shares {
		out = append(out, BreakdownRow{
			Name:    s.Name,
			Kind:    CategoryKind(s.Icon, s.Name, t),
			Width:   s.Percentage,
			Percent: Percent(s.Percentage),
		})
	}
	return out
}
