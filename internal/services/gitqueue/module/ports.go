package module

import dom "pushverify/internal/services/gitqueue/domain"

// Ports holds the ports exposed by the gitqueue module
type Ports struct {
	Worker   dom.WorkerPort
	Enqueuer dom.EnqueuePort
	History  dom.OutcomeReader
}
