package repo

import (
	"context"
	"time"

	"pushverify/internal/platform/store"
	dom "pushverify/internal/services/gitqueue/domain"
)

// OutcomeTable is the ClickHouse table holding verification history
const OutcomeTable = "verification_outcomes"

// OutcomeHistory reads back recorded outcomes
type OutcomeHistory interface {
	dom.OutcomeRecorder
	History(ctx context.Context, requestID int64, limit int) ([]dom.Outcome, error)
}

// CHOutcomes appends outcomes to ClickHouse
type CHOutcomes struct {
	ch  store.Clickhouse
	now func() time.Time
}

// NewOutcomes returns the ClickHouse recorder, or a noop one when ch is nil
func NewOutcomes(ch store.Clickhouse) OutcomeHistory {
	if ch == nil {
		return Noop{}
	}
	return &CHOutcomes{ch: ch, now: time.Now}
}

// Record implements dom.OutcomeRecorder
func (c *CHOutcomes) Record(ctx context.Context, o dom.Outcome) error {
	at := o.At
	if at.IsZero() {
		at = c.now()
	}
	return c.ch.Insert(ctx, OutcomeTable, [][]any{{
		at.UTC(), o.RequestID, string(o.Kind), o.Revision, o.Reason,
	}})
}

// History returns the newest outcomes for a request first
func (c *CHOutcomes) History(ctx context.Context, requestID int64, limit int) ([]dom.Outcome, error) {
	if limit <= 0 {
		limit = 20
	}
	const sql = `
		SELECT at, request_id, kind, revision, reason
		FROM verification_outcomes
		WHERE request_id = ?
		ORDER BY at DESC
		LIMIT ?`
	rs, err := c.ch.Query(ctx, sql, requestID, limit)
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	var out []dom.Outcome
	for rs.Next() {
		var (
			o    dom.Outcome
			kind string
		)
		if err := rs.Scan(&o.At, &o.RequestID, &kind, &o.Revision, &o.Reason); err != nil {
			return nil, err
		}
		o.Kind = dom.Kind(kind)
		out = append(out, o)
	}
	return out, rs.Err()
}

// Noop discards outcomes
type Noop struct{}

// Record implements dom.OutcomeRecorder
func (Noop) Record(context.Context, dom.Outcome) error { return nil }

// History always returns nothing
func (Noop) History(context.Context, int64, int) ([]dom.Outcome, error) { return nil, nil }
