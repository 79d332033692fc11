package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestHTTPStatusCodeMapping(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want int
	}{
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeInvalidArgument, http.StatusUnprocessableEntity},
		{ErrorCodeDuplicateKey, http.StatusConflict},
		{ErrorCodeConflict, http.StatusConflict},
		{ErrorCodeValidation, http.StatusBadRequest},
		{ErrorCodeJSON, http.StatusBadRequest},
		{ErrorCodeUnavailable, http.StatusServiceUnavailable},
		{ErrorCodeDB, http.StatusInternalServerError},
		{ErrorCodeUnknown, http.StatusInternalServerError},
		{999, http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := HTTPStatusCode(c.code); got != c.want {
			t.Fatalf("HTTPStatusCode(%v) = %d, want %d", c.code, got, c.want)
		}
	}
}

func TestWrapAndUnwrap(t *testing.T) {
	var nilErr *Error
	if nilErr.Error() != "<nil>" {
		t.Fatalf("nil render = %q", nilErr.Error())
	}

	src := stderrs.New("root")
	e := Wrapf(src, ErrorCodeUnavailable, "ls-remote %s", "svc")
	if e.Error() != "ls-remote svc: root" {
		t.Fatalf("Error() = %q", e.Error())
	}
	if !stderrs.Is(e, src) {
		t.Fatalf("errors.Is lost the cause")
	}
	if CodeOf(e) != ErrorCodeUnavailable {
		t.Fatalf("CodeOf = %v", CodeOf(e))
	}
	outer := fmt.Errorf("job 7: %w", e)
	if !IsCode(outer, ErrorCodeUnavailable) {
		t.Fatalf("IsCode did not see through fmt wrapping")
	}
	if Root(outer) != src {
		t.Fatalf("Root = %v", Root(outer))
	}
}

func TestWireFrom(t *testing.T) {
	if w := WireFrom(nil); w != (Wire{}) {
		t.Fatalf("nil wire = %+v", w)
	}
	w := WireFrom(WithField(Validationf("bad id"), "request_id"))
	if w.Code != ErrorCodeValidation || w.Field != "request_id" || w.Message != "bad id" {
		t.Fatalf("wire = %+v", w)
	}
	w = WireFrom(stderrs.New("plain"))
	if w.Code != ErrorCodeUnknown || w.Message != "plain" {
		t.Fatalf("foreign wire = %+v", w)
	}
	if HTTPStatus(Newf(ErrorCodeNotFound, "request %d", 3)) != http.StatusNotFound {
		t.Fatalf("not found should map to 404")
	}
}

func TestFromPostgres(t *testing.T) {
	if FromPostgres(nil, "x") != nil {
		t.Fatalf("nil should stay nil")
	}
	cases := []struct {
		sqlstate string
		want     ErrorCode
	}{
		{"23505", ErrorCodeDuplicateKey},
		{"22P02", ErrorCodeInvalidArgument},
		{"23502", ErrorCodeValidation},
		{"57P03", ErrorCodeUnavailable},
		{"XX000", ErrorCodeDB},
	}
	for _, c := range cases {
		err := FromPostgres(fmt.Errorf("exec: %w", &pgconn.PgError{Code: c.sqlstate}), "update push_requests")
		if got := CodeOf(err); got != c.want {
			t.Fatalf("sqlstate %s -> %v, want %v", c.sqlstate, got, c.want)
		}
	}
	if got := CodeOf(FromPostgres(stderrs.New("conn reset"), "select")); got != ErrorCodeDB {
		t.Fatalf("non pg error -> %v", got)
	}
}
