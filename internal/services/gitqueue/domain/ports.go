package domain

import "context"

// Gateway is the persistence contract of the pipeline
// bool results are false when no row matched
type Gateway interface {
	GetByID(ctx context.Context, id int64) (DeploymentRequest, bool, error)
	// GetByRevision finds a request bound to commit other than excludeID, preferring non discarded rows
	GetByRevision(ctx context.Context, commit string, excludeID int64) (DeploymentRequest, bool, error)
	// UpdateThenReread applies ch and returns the committed row in one transaction
	UpdateThenReread(ctx context.Context, id int64, ch Changes) (DeploymentRequest, bool, error)
}

// Notifier dispatches owner notifications and integration webhooks
type Notifier interface {
	SendEmail(ctx context.Context, recipients []string, htmlBody, subject string) error
	SendChat(ctx context.Context, recipients []string, text string) error
	// FireWebhook is best effort; transport failures are logged by the implementation
	FireWebhook(ctx context.Context, leftType, leftID, rightType, rightID string)
}

// RemoteLister lists the heads a remote advertises for a branch
type RemoteLister interface {
	ListRemote(ctx context.Context, uri, branch string) ([]RemoteRef, error)
}

// OutcomeRecorder keeps a history of terminal outcomes
type OutcomeRecorder interface {
	Record(ctx context.Context, o Outcome) error
}

// EnqueuePort accepts verification jobs from producers
type EnqueuePort interface {
	Enqueue(requestID int64)
	Pending() int
}

// WorkerPort runs the single verification worker
type WorkerPort interface {
	Start(ctx context.Context) bool
	Run(ctx context.Context) error
	Idle(ctx context.Context) error
}

// OutcomeReader serves the recorded history of a request
type OutcomeReader interface {
	History(ctx context.Context, requestID int64, limit int) ([]Outcome, error)
}
