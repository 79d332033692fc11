// Package http provides http transport for the verification queue
package http

import (
	stdhttp "net/http"
	"strconv"

	perr "pushverify/internal/platform/errors"
	phttp "pushverify/internal/platform/net/http"
	dom "pushverify/internal/services/gitqueue/domain"

	"github.com/go-chi/chi/v5"
)

// MaxHistory caps the outcomes returned per request
const MaxHistory = 100

// Register mounts the queue routes
func Register(r phttp.Router, enq dom.EnqueuePort, hist dom.OutcomeReader) {
	h := &handlers{enq: enq, hist: hist}
	r.Post("/", phttp.JSONHandler(stdhttp.StatusAccepted, h.enqueue))
	r.Get("/queue", phttp.JSONHandlerNoBody(h.queue))
	r.Get("/{id}/outcomes", phttp.JSONHandlerNoBody(h.outcomes))
}

type handlers struct {
	enq  dom.EnqueuePort
	hist dom.OutcomeReader
}

// enqueue queues a request for verification and returns immediately
func (h *handlers) enqueue(_ *stdhttp.Request, in dom.EnqueueInput) (any, error) {
	h.enq.Enqueue(in.RequestID)
	return dom.QueueStatus{Pending: h.enq.Pending()}, nil
}

func (h *handlers) queue(*stdhttp.Request) (any, error) {
	return dom.QueueStatus{Pending: h.enq.Pending()}, nil
}

// outcomes lists recorded outcomes, newest first
func (h *handlers) outcomes(r *stdhttp.Request) (any, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return nil, perr.WithField(perr.InvalidArgf("id must be a positive integer"), "id")
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, perr.WithField(perr.InvalidArgf("limit must be a positive integer"), "limit")
		}
		limit = min(n, MaxHistory)
	}

	list, err := h.hist.History(r.Context(), id, limit)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "outcome history for request %d", id)
	}
	rows := make([]dom.OutcomeRow, 0, len(list))
	for _, o := range list {
		rows = append(rows, o.Row())
	}
	return rows, nil
}
