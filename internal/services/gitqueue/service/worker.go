package service

import (
	"context"
	"runtime/debug"
	"time"

	perr "pushverify/internal/platform/errors"
	"pushverify/internal/platform/logger"

	"github.com/google/uuid"
)

// Enqueue appends a request id to the queue; it never blocks
func (s *Svc) Enqueue(requestID int64) {
	s.q.push(requestID)
	s.log.Debug().Int64("request_id", requestID).Int("pending", s.q.depth()).Msg("verification enqueued")
}

// Pending returns the number of jobs enqueued but not finished
func (s *Svc) Pending() int { return s.q.depth() }

// Start spawns the worker unless one is already running
func (s *Svc) Start(ctx context.Context) bool {
	if !s.running.CompareAndSwap(false, true) {
		return false
	}
	go func() {
		if err := s.loop(ctx); err != nil && ctx.Err() == nil {
			s.log.Error().Err(err).Msg("worker stopped")
		}
	}()
	return true
}

// Run runs the worker on the calling goroutine until ctx is cancelled
func (s *Svc) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return perr.Conflictf("gitqueue worker already running")
	}
	return s.loop(ctx)
}

// Idle blocks until no job is pending
func (s *Svc) Idle(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.q.idleCh():
		return nil
	}
}

func (s *Svc) loop(ctx context.Context) error {
	defer s.running.Store(false)
	s.log.Info().Dur("throttle", s.cfg.Throttle).Msg("gitqueue worker started")

	for {
		if err := s.sleep(ctx, s.cfg.Throttle); err != nil {
			return err
		}
		id, err := s.q.pop(ctx)
		if err != nil {
			return err
		}
		s.process(ctx, id)
	}
}

// process runs one job to a terminal outcome; shutdown does not cut it short
func (s *Svc) process(ctx context.Context, requestID int64) {
	jctx := logger.WithJob(context.WithoutCancel(ctx), uuid.NewString(), requestID)
	log := logger.C(jctx)
	start := time.Now()

	defer s.q.done()
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("verification panicked")
		}
	}()

	if err := s.Verify(jctx, requestID); err != nil {
		log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("verification aborted")
		return
	}
	log.Debug().Dur("elapsed", time.Since(start)).Msg("verification finished")
}
