// Package cache holds the in-memory row index used to resolve a selected
// list row back into its transaction record.
package cache

import (
	"context"
	"time"

	"dompet/internal/core"
	applog "dompet/internal/log"
)

// Cleaner is implemented by caches whose expired entries can be swept.
type Cleaner interface {
	CleanExpired() int
}

// RowIndex maps transaction ids to the records most recently rendered.
type RowIndex struct {
	rows *LRU[int64, core.Transaction]
}

func NewRowIndex(size int, ttl time.Duration) *RowIndex {
	return &RowIndex{rows: NewLRU[int64, core.Transaction](size, ttl)}
}

// Put indexes every transaction in txs.
func (r *RowIndex) Put(txs ...core.Transaction) {
	for _, tx := range txs {
		r.rows.Set(tx.ID, tx)
	}
}

func (r *RowIndex) Lookup(id int64) (core.Transaction, bool) {
	return r.rows.Get(id)
}

func (r *RowIndex) Forget(id int64) {
	r.rows.Delete(id)
}

func (r *RowIndex) Len() int {
	return r.rows.Len()
}

func (r *RowIndex) CleanExpired() int {
	return r.rows.CleanExpired()
}

// Janitor periodically sweeps registered caches until its context ends.
type Janitor struct {
	caches []Cleaner
	logger *applog.Logger
}

func NewJanitor(logger *applog.Logger, caches ...Cleaner) *Janitor {
	if logger == nil {
		logger = applog.Discard()
	}
	return &Janitor{caches: caches, logger: logger.WithComponent(applog.ComponentCache)}
}

// Sweep cleans every registered cache once and returns the total removed.
func (j *Janitor) Sweep() int {
	total := 0
	for _, c := range j.caches {
		total += c.CleanExpired()
	}
	return total
}

// Run sweeps every interval and returns when ctx is done.
func (j *Janitor) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := j.Sweep(); n > 0 {
				j.logger.Debug("Expired rows swept", "removed", n)
			}
		case <-ctx.Done():
			return
		}
	}
}
