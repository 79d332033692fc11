// Package domain defines the verification queue types and the ports it consumes
package domain

import (
	"strconv"
	"time"
)

// State is the workflow state of a deployment request; only StateDiscarded is interpreted here
type State string

// Known workflow states
const (
	StateRequested State = "requested"
	StateAdded     State = "added"
	StateStaged    State = "staged"
	StateVerified  State = "verified"
	StatePickme    State = "pickme"
	StateLive      State = "live"
	StateDiscarded State = "discarded"
)

// DeploymentRequest is the slice of a push request the verifier reads and writes
type DeploymentRequest struct {
	ID       int64
	User     string
	Title    string
	Repo     string
	Branch   string
	Revision string // empty until a verification succeeds
	Tags     TagSet
	State    State
	Watchers []string
	ReviewID *int64
}

// HasReview reports whether a code review is linked
func (r DeploymentRequest) HasReview() bool { return r.ReviewID != nil && *r.ReviewID != 0 }

// ReviewToken renders the review id, or "" when none is linked
func (r DeploymentRequest) ReviewToken() string {
	if !r.HasReview() {
		return ""
	}
	return strconv.FormatInt(*r.ReviewID, 10)
}

// RemoteRef is one (commit, ref) pair advertised by a remote
type RemoteRef struct {
	Commit string
	Ref    string
}

// Changes is a partial update; nil fields are left untouched
type Changes struct {
	Revision *string
	Tags     *TagSet
}

// Outcome is the terminal result of one verification job
type Outcome struct {
	RequestID int64
	Kind      Kind
	Revision  string
	Reason    string
	At        time.Time
}
