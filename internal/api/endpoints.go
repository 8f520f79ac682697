package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"dompet/internal/core"
)

// Wire shapes of the API. Amounts arrive as JSON numbers that may carry a
// fractional part ("50000.0"); they are truncated to integer units.
type (
	wireSummary struct {
		Income  decimal.Decimal `json:"income"`
		Expense decimal.Decimal `json:"expense"`
		Balance decimal.Decimal `json:"balance"`
	}

	wireCategory struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
		Icon string `json:"icon"`
	}

	wireCategories struct {
		Categories []wireCategory `json:"categories"`
	}

	wireTransaction struct {
		ID              int64           `json:"id"`
		Amount          decimal.Decimal `json:"amount"`
		Description     string          `json:"description"`
		Type            string          `json:"type"`
		TransactionDate string          `json:"transaction_date"`
		CategoryID      int64           `json:"category_id"`
		CategoryName    string          `json:"category_name"`
		CategoryIcon    string          `json:"category_icon"`
		CreatedAt       string          `json:"created_at"`
		UpdatedAt       string          `json:"updated_at"`
	}

	wireTransactions struct {
		Transactions []wireTransaction `json:"transactions"`
		Total        int               `json:"total"`
	}

	wireMeta struct {
		OldestDate string `json:"oldest_date"`
		NewestDate string `json:"newest_date"`
	}

	wireDay struct {
		Date    string          `json:"date"`
		Income  decimal.Decimal `json:"income"`
		Expense decimal.Decimal `json:"expense"`
	}

	wireShare struct {
		CategoryName string  `json:"category_name"`
		CategoryIcon string  `json:"category_icon"`
		Percentage   float64 `json:"percentage"`
	}

	wireAnalytics struct {
		ByDay      []wireDay   `json:"by_day"`
		ByCategory []wireShare `json:"by_category"`
	}

	wirePayload struct {
		Amount      string `json:"amount"`
		Description string `json:"description"`
		CategoryID  int64  `json:"category_id"`
		Type        string `json:"type"`
	}
)

func (w wireTransaction) toCore() core.Transaction {
	return core.Transaction{
		ID:          w.ID,
		Type:        core.TxType(strings.ToLower(w.Type)),
		Amount:      w.Amount.IntPart(),
		Description: w.Description,
		Category: core.Category{
			ID:   w.CategoryID,
			Name: w.CategoryName,
			Icon: w.CategoryIcon,
		},
		Date:      w.TransactionDate,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

func rangeQuery(r core.DateRange) url.Values {
	q := url.Values{}
	q.Set("start", r.Start.String())
	q.Set("end", r.End.String())
	return q
}

// Balance returns the summary for r, or the all-time summary when r is nil.
func (c *Client) Balance(ctx context.Context, r *core.DateRange) (core.Summary, error) {
	var q url.Values
	if r != nil {
		q = rangeQuery(*r)
	}
	var w wireSummary
	if err := c.Call(ctx, http.MethodGet, "/api/balance", q, nil, &w); err != nil {
		return core.Summary{}, err
	}
	return core.Summary{
		Income:  w.Income.IntPart(),
		Expense: w.Expense.IntPart(),
		Balance: w.Balance.IntPart(),
	}, nil
}

// Categories lists the categories valid for t.
func (c *Client) Categories(ctx context.Context, t core.TxType) ([]core.Category, error) {
	q := url.Values{}
	q.Set("type", t.String())
	var w wireCategories
	if err := c.Call(ctx, http.MethodGet, "/api/categories", q, nil, &w); err != nil {
		return nil, err
	}
	out := make([]core.Category, 0, len(w.Categories))
	for _, cat := range w.Categories {
		out = append(out, core.Category{ID: cat.ID, Name: cat.Name, Icon: cat.Icon})
	}
	return out, nil
}

// TransactionQuery selects one page of transactions.
type TransactionQuery struct {
	Range  core.DateRange
	Limit  int
	Offset int
	// CacheBust appends a "_" parameter that changes on every call.
	CacheBust bool
}

func (c *Client) Transactions(ctx context.Context, tq TransactionQuery) (core.TransactionPage, error) {
	q := rangeQuery(tq.Range)
	q.Set("limit", strconv.Itoa(tq.Limit))
	q.Set("offset", strconv.Itoa(tq.Offset))
	if tq.CacheBust {
		q.Set("_", strconv.FormatInt(c.now().UnixMilli(), 10))
	}
	var w wireTransactions
	if err := c.Call(ctx, http.MethodGet, "/api/transactions", q, nil, &w); err != nil {
		return core.TransactionPage{}, err
	}
	page := core.TransactionPage{
		Items: make([]core.Transaction, 0, len(w.Transactions)),
		Total: w.Total,
	}
	for _, tx := range w.Transactions {
		page.Items = append(page.Items, tx.toCore())
	}
	return page, nil
}

// TransactionsMeta returns the overall date bounds; either may be empty.
func (c *Client) TransactionsMeta(ctx context.Context) (core.Meta, error) {
	var w wireMeta
	if err := c.Call(ctx, http.MethodGet, "/api/transactions/meta", nil, nil, &w); err != nil {
		return core.Meta{}, err
	}
	return core.Meta{OldestDate: w.OldestDate, NewestDate: w.NewestDate}, nil
}

func (c *Client) Analytics(ctx context.Context, r core.DateRange, t core.TxType) (core.Analytics, error) {
	q := rangeQuery(r)
	q.Set("type", t.String())
	var w wireAnalytics
	if err := c.Call(ctx, http.MethodGet, "/api/analytics", q, nil, &w); err != nil {
		return core.Analytics{}, err
	}
	out := core.Analytics{
		ByDay:      make([]core.DayPoint, 0, len(w.ByDay)),
		ByCategory: make([]core.CategoryShare, 0, len(w.ByCategory)),
	}
	for _, d := range w.ByDay {
		out.ByDay = append(out.ByDay, core.DayPoint{
			Date:    d.Date,
			Income:  d.Income.IntPart(),
			Expense: d.Expense.IntPart(),
		})
	}
	for _, s := range w.ByCategory {
		out.ByCategory = append(out.ByCategory, core.CategoryShare{
			Name:       s.CategoryName,
			Icon:       s.CategoryIcon,
			Percentage: s.Percentage,
		})
	}
	return out, nil
}

func payloadOf(in core.TransactionInput) wirePayload {
	return wirePayload{
		Amount:      in.Amount,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		Type:        in.Type.String(),
	}
}

// CreateTransaction posts a new transaction. The echo is returned when the
// API sends back a transaction record.
func (c *Client) CreateTransaction(ctx context.Context, in core.TransactionInput) (*core.Transaction, error) {
	raw, _, err := c.do(ctx, http.MethodPost, "/api/transaction", nil, payloadOf(in))
	if err != nil {
		return nil, err
	}
	return decodeEcho(raw), nil
}

// UpdateTransaction patches transaction id. The echo is returned when the
// API sends back a transaction record.
func (c *Client) UpdateTransaction(ctx context.Context, id int64, in core.TransactionInput) (*core.Transaction, error) {
	raw, _, err := c.do(ctx, http.MethodPatch, transactionPath(id), nil, payloadOf(in))
	if err != nil {
		return nil, err
	}
	return decodeEcho(raw), nil
}

func (c *Client) DeleteTransaction(ctx context.Context, id int64) error {
	_, _, err := c.do(ctx, http.MethodDelete, transactionPath(id), nil, nil)
	return err
}

func transactionPath(id int64) string {
	return "/api/transaction/" + strconv.FormatInt(id, 10)
}

// decodeEcho reads a transaction echo, accepting either the bare record or
// {"transaction": {...}}. Anything else yields nil.
func decodeEcho(raw []byte) *core.Transaction {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	var wrapped struct {
		Transaction *wireTransaction `json:"transaction"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Transaction != nil && wrapped.Transaction.ID != 0 {
		tx := wrapped.Transaction.toCore()
		return &tx
	}
	var w wireTransaction
	if err := json.Unmarshal(raw, &w); err != nil || w.ID == 0 {
		return nil
	}
	tx := w.toCore()
	return &tx
}
