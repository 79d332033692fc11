// Package service implements the branch verification queue, its worker and pipeline
package service

import (
	"context"
	"sync/atomic"
	"time"

	"pushverify/internal/adapters/git"
	"pushverify/internal/platform/logger"
	dom "pushverify/internal/services/gitqueue/domain"
)

// Service is the queue plus its single worker
type Service interface {
	dom.EnqueuePort
	dom.WorkerPort
}

// Config controls the worker and the notification content
type Config struct {
	Throttle time.Duration
	Exclude  []dom.Tag
	Address  git.Address

	AppServer     string
	AppPort       int
	ReviewServer  string
	ChatOnFailure bool
}

// Svc owns the queue and runs at most one worker
type Svc struct {
	cfg      Config
	gw       dom.Gateway
	notify   dom.Notifier
	remote   dom.RemoteLister
	outcomes dom.OutcomeRecorder

	q       *queue
	running atomic.Bool
	sleep   func(context.Context, time.Duration) error
	now     func() time.Time
	log     logger.Logger
}

var _ Service = (*Svc)(nil)

// New constructs the service; a nil outcomes recorder discards outcomes
func New(cfg Config, gw dom.Gateway, n dom.Notifier, remote dom.RemoteLister, outcomes dom.OutcomeRecorder) *Svc {
	if cfg.Throttle < 0 {
		cfg.Throttle = 0
	}
	if cfg.AppPort == 0 {
		cfg.AppPort = 443
	}
	return &Svc{
		cfg:      cfg,
		gw:       gw,
		notify:   n,
		remote:   remote,
		outcomes: outcomes,
		q:        newQueue(),
		sleep:    sleepCtx,
		now:      time.Now,
		log:      *logger.Named("gitqueue"),
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
