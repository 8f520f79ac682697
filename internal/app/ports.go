// Package app holds the client's state machine: view navigation, the list,
// balance and analytics controllers, the transaction editor and the single
// application record that sequences them.
//
// Every operation is a blocking call taking a context. A UI runs them off its
// event loop and re-renders from Snapshot whenever an OnChange listener fires.
package app

import (
	"context"
	"time"

	"dompet/internal/api"
	"dompet/internal/core"
	"dompet/internal/events"
)

// Gateway is the remote API as seen by the controllers. *api.Client
// implements it.
type Gateway interface {
	Balance(ctx context.Context, r *core.DateRange) (core.Summary, error)
	Categories(ctx context.Context, t core.TxType) ([]core.Category, error)
	Transactions(ctx context.Context, q api.TransactionQuery) (core.TransactionPage, error)
	TransactionsMeta(ctx context.Context) (core.Meta, error)
	Analytics(ctx context.Context, r core.DateRange, t core.TxType) (core.Analytics, error)
	CreateTransaction(ctx context.Context, in core.TransactionInput) (*core.Transaction, error)
	UpdateTransaction(ctx context.Context, id int64, in core.TransactionInput) (*core.Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) error
}

// ChartSeries is one chart series: parallel dates, labels and values. A
// point whose date could not be parsed has a zero Date and a placeholder
// label.
type ChartSeries struct {
	Name   string
	Type   core.TxType
	Dates  []time.Time
	Labels []string
	Values []int64
}

// ChartSink renders the analytics by-day series.
type ChartSink interface {
	Draw(s ChartSeries)
	Clear()
}

// Feedback is the outcome reported to the host after a mutation.
type Feedback int

const (
	FeedbackSuccess Feedback = iota
	FeedbackError
)

func (f Feedback) String() string {
	if f == FeedbackSuccess {
		return "success"
	}
	return "error"
}

// Notifier delivers host feedback such as haptics. Optional.
type Notifier interface {
	Notify(f Feedback)
}

// Confirmer asks the user a yes/no question and blocks for the answer.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ChangeObserver is told about every mutation the API confirmed.
type ChangeObserver interface {
	TransactionChanged(ctx context.Context, c events.Change) error
}

type nopChart struct{}

func (nopChart) Draw(ChartSeries) {}
func (nopChart) Clear()           {}

type nopNotifier struct{}

func (nopNotifier) Notify(Feedback) {}

// denyAll refuses every confirmation so nothing is deleted without a prompt.
type denyAll struct{}

func (denyAll) Confirm(context.Context, string) bool { return false }
