package store

import (
	"context"
	"errors"
	"testing"
)

type sliceRows struct {
	vals []string
	i    int
	err  error
}

func (r *sliceRows) Next() bool {
	if r.i >= len(r.vals) {
		return false
	}
	r.i++
	return true
}

func (r *sliceRows) Scan(dest ...any) error {
	*(dest[0].(*string)) = r.vals[r.i-1]
	return nil
}

func (r *sliceRows) Err() error        { return r.err }
func (r *sliceRows) Close()            {}
func (r *sliceRows) Columns() []string { return []string{"v"} }

type rowsQ struct {
	RowQuerier
	rows *sliceRows
	err  error
}

func (q rowsQ) Query(context.Context, string, ...any) (Rows, error) {
	if q.err != nil {
		return nil, q.err
	}
	return q.rows, nil
}

func scanString(r Row) (string, error) {
	var s string
	err := r.Scan(&s)
	return s, err
}

func TestOne(t *testing.T) {
	ctx := context.Background()

	got, err := One(ctx, rowsQ{rows: &sliceRows{vals: []string{"abc123", "def456"}}}, scanString, "SELECT")
	if err != nil || got != "abc123" {
		t.Fatalf("One = %q, %v", got, err)
	}

	_, err = One(ctx, rowsQ{rows: &sliceRows{}}, scanString, "SELECT")
	if !IsNotFound(err) {
		t.Fatalf("empty result err = %v", err)
	}

	iterErr := errors.New("stream broken")
	_, err = One(ctx, rowsQ{rows: &sliceRows{err: iterErr}}, scanString, "SELECT")
	if !errors.Is(err, iterErr) {
		t.Fatalf("iteration err = %v", err)
	}

	qErr := errors.New("syntax error")
	if _, err = One(ctx, rowsQ{err: qErr}, scanString, "SELECT"); !errors.Is(err, qErr) {
		t.Fatalf("query err = %v", err)
	}
}
