package repo

import (
	"context"
	"testing"
	"time"

	"pushverify/internal/platform/store"
	dom "pushverify/internal/services/gitqueue/domain"
)

type fakeCH struct {
	table string
	data  any
	rows  [][]any
	sql   string
	args  []any
}

func (f *fakeCH) Insert(_ context.Context, table string, data any) error {
	f.table, f.data = table, data
	return nil
}

func (f *fakeCH) Query(_ context.Context, sql string, args ...any) (store.Rows, error) {
	f.sql, f.args = sql, args
	return &fakeRows{data: f.rows}, nil
}

func (f *fakeCH) Close() error { return nil }

func TestCHOutcomesRecord(t *testing.T) {
	ch := &fakeCH{}
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rec := NewOutcomes(ch).(*CHOutcomes)
	rec.now = func() time.Time { return fixed }

	if err := rec.Record(context.Background(), dom.Outcome{RequestID: 7, Kind: dom.KindSuccess, Revision: "abc123"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	rows, ok := ch.data.([][]any)
	if ch.table != OutcomeTable || !ok || len(rows) != 1 {
		t.Fatalf("insert = %s %#v", ch.table, ch.data)
	}
	if rows[0][0] != fixed || rows[0][1] != int64(7) || rows[0][2] != "success" || rows[0][3] != "abc123" {
		t.Fatalf("row = %#v", rows[0])
	}
}

func TestCHOutcomesHistory(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	ch := &fakeCH{rows: [][]any{
		{at, int64(7), "duplicate-failed", "", "ids 7 and 3"},
	}}
	got, err := NewOutcomes(ch).History(context.Background(), 7, 0)
	if err != nil || len(got) != 1 {
		t.Fatalf("History = %v, %v", got, err)
	}
	if got[0].Kind != dom.KindDuplicateFailed || got[0].At != at {
		t.Fatalf("outcome = %+v", got[0])
	}
	if ch.args[0] != int64(7) || ch.args[1] != 20 {
		t.Fatalf("args = %v", ch.args)
	}
}

func TestNoopWhenClickhouseDisabled(t *testing.T) {
	h := NewOutcomes(nil)
	if _, ok := h.(Noop); !ok {
		t.Fatalf("want Noop, got %T", h)
	}
	if err := h.Record(context.Background(), dom.Outcome{}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if got, err := h.History(context.Background(), 1, 5); got != nil || err != nil {
		t.Fatalf("History = %v, %v", got, err)
	}
}
