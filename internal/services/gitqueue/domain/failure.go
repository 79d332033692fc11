package domain

import (
	"fmt"

	perr "pushverify/internal/platform/errors"
)

// Kind names a terminal outcome
type Kind string

// Outcome kinds
const (
	KindSuccess          Kind = "success"
	KindExcluded         Kind = "excluded"
	KindValidationFailed Kind = "validation-failed"
	KindRemoteFailed     Kind = "remote-failed"
	KindRefNotFound      Kind = "ref-not-found"
	KindDuplicateFailed  Kind = "duplicate-failed"
	KindNotFound         Kind = "not-found"
	KindIntegrityFailed  Kind = "integrity-failed"
)

// Notified reports whether the owner is emailed for this kind
func (k Kind) Notified() bool {
	switch k {
	case KindSuccess, KindValidationFailed, KindRemoteFailed, KindRefNotFound, KindDuplicateFailed:
		return true
	}
	return false
}

// Code maps a kind onto the platform error codes
func (k Kind) Code() perr.ErrorCode {
	switch k {
	case KindNotFound, KindRefNotFound:
		return perr.ErrorCodeNotFound
	case KindValidationFailed:
		return perr.ErrorCodeValidation
	case KindRemoteFailed:
		return perr.ErrorCodeUnavailable
	case KindDuplicateFailed:
		return perr.ErrorCodeConflict
	case KindIntegrityFailed:
		return perr.ErrorCodeDB
	}
	return perr.ErrorCodeUnknown
}

// Failure is a user facing verification failure
// Reason is what the owner reads in the failure email
type Failure struct {
	Kind   Kind
	Reason string
	Err    error
}

// Error implements error
func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Reason, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Reason)
}

// Unwrap returns the underlying cause
func (f *Failure) Unwrap() error { return f.Err }

// AsPlatform converts f into a coded platform error
func (f *Failure) AsPlatform() error {
	if f.Err != nil {
		return perr.Wrap(f.Err, f.Kind.Code(), f.Reason)
	}
	return perr.New(f.Kind.Code(), f.Reason)
}

// ErrNoBranch builds the validation failure for a request without a branch
func ErrNoBranch(id int64) *Failure {
	return &Failure{Kind: KindValidationFailed, Reason: fmt.Sprintf("request %d has no branch", id)}
}

// ErrRefNotFound builds the failure for a branch the remote does not advertise
func ErrRefNotFound(branch string) *Failure {
	return &Failure{Kind: KindRefNotFound, Reason: fmt.Sprintf("the specified branch (%s) was not found in the repository", branch)}
}

// ErrDuplicate builds the conflict failure naming both requests
func ErrDuplicate(id, otherID int64, commit string) *Failure {
	return &Failure{
		Kind:   KindDuplicateFailed,
		Reason: fmt.Sprintf("another request has the same revision %s (ids %d and %d)", commit, id, otherID),
	}
}
