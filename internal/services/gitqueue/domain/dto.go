package domain

import "time"

// EnqueueInput asks for a request to be verified
type EnqueueInput struct {
	RequestID int64 `json:"request_id" validate:"required,min=1"`
}

// QueueStatus reports the jobs not yet finished
type QueueStatus struct {
	Pending int `json:"pending"`
}

// OutcomeRow is an outcome as served to API clients
type OutcomeRow struct {
	RequestID int64     `json:"request_id"`
	Kind      Kind      `json:"kind"`
	Revision  string    `json:"revision,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	At        time.Time `json:"at"`
}

// Row converts an outcome for the wire
func (o Outcome) Row() OutcomeRow {
	return OutcomeRow{RequestID: o.RequestID, Kind: o.Kind, Revision: o.Revision, Reason: o.Reason, At: o.At}
}
