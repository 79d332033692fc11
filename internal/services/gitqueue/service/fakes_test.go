package service

import (
	"context"
	"errors"
	"sync"

	"pushverify/internal/adapters/git"
	dom "pushverify/internal/services/gitqueue/domain"
)

// memGateway is an in-memory Gateway
type memGateway struct {
	mu       sync.Mutex
	rows     map[int64]dom.DeploymentRequest
	loads    []int64
	updates  int
	loadHook func(id int64) error // runs before a load; may panic
	lostRows bool                 // updates match nothing
}

func newGateway(rows ...dom.DeploymentRequest) *memGateway {
	g := &memGateway{rows: map[int64]dom.DeploymentRequest{}}
	for _, r := range rows {
		g.rows[r.ID] = r
	}
	return g
}

func (g *memGateway) GetByID(_ context.Context, id int64) (dom.DeploymentRequest, bool, error) {
	g.mu.Lock()
	g.loads = append(g.loads, id)
	hook := g.loadHook
	g.mu.Unlock()
	if hook != nil {
		if err := hook(id); err != nil {
			return dom.DeploymentRequest{}, false, err
		}
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	r, ok := g.rows[id]
	return r, ok, nil
}

func (g *memGateway) GetByRevision(_ context.Context, commit string, excludeID int64) (dom.DeploymentRequest, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	var (
		best  dom.DeploymentRequest
		found bool
	)
	for _, r := range g.rows {
		if r.Revision != commit || r.ID == excludeID {
			continue
		}
		if !found || (best.State == dom.StateDiscarded && r.State != dom.StateDiscarded) {
			best, found = r, true
		}
	}
	return best, found, nil
}

func (g *memGateway) UpdateThenReread(_ context.Context, id int64, ch dom.Changes) (dom.DeploymentRequest, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.updates++
	r, ok := g.rows[id]
	if !ok || g.lostRows {
		return dom.DeploymentRequest{}, false, nil
	}
	if ch.Revision != nil {
		r.Revision = *ch.Revision
	}
	if ch.Tags != nil {
		r.Tags = *ch.Tags
	}
	g.rows[id] = r
	return r, true, nil
}

func (g *memGateway) row(id int64) dom.DeploymentRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rows[id]
}

func (g *memGateway) loadOrder() []int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]int64(nil), g.loads...)
}

type mail struct {
	to      []string
	body    string
	subject string
}

type hook struct{ leftType, leftID, rightType, rightID string }

// recNotifier records every dispatch
type recNotifier struct {
	mu    sync.Mutex
	mails []mail
	chats []string
	hooks []hook
}

func (n *recNotifier) SendEmail(_ context.Context, to []string, body, subject string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.mails = append(n.mails, mail{to: to, body: body, subject: subject})
	return nil
}

func (n *recNotifier) SendChat(_ context.Context, _ []string, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.chats = append(n.chats, text)
	return nil
}

func (n *recNotifier) FireWebhook(_ context.Context, lt, lid, rt, rid string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.hooks = append(n.hooks, hook{lt, lid, rt, rid})
}

// fakeRemote answers ls-remote from a branch -> commit map
type fakeRemote struct {
	mu    sync.Mutex
	heads map[string]string
	err   error
	uris  []string
}

func (r *fakeRemote) ListRemote(_ context.Context, uri, branch string) ([]dom.RemoteRef, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.uris = append(r.uris, uri)
	if r.err != nil {
		return nil, r.err
	}
	var refs []dom.RemoteRef
	for b, c := range r.heads {
		refs = append(refs, dom.RemoteRef{Commit: c, Ref: "refs/heads/" + b})
	}
	return refs, nil
}

func (r *fakeRemote) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.uris)
}

type recOutcomes struct {
	mu   sync.Mutex
	list []dom.Outcome
}

func (o *recOutcomes) Record(_ context.Context, out dom.Outcome) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.list = append(o.list, out)
	return nil
}

func (o *recOutcomes) kinds() []dom.Kind {
	o.mu.Lock()
	defer o.mu.Unlock()
	ks := make([]dom.Kind, len(o.list))
	for i, x := range o.list {
		ks[i] = x.Kind
	}
	return ks
}

var errBoom = errors.New("connection reset by peer")

func remoteExit(code int, stderr string) error {
	return &git.RemoteError{ExitCode: code, Stderr: stderr, Args: []string{"ls-remote", "-h"}, Err: errors.New("exit status 128")}
}
