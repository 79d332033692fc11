package module

import (
	"context"
	stdhttp "net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"pushverify/internal/modkit"
	"pushverify/internal/modkit/module"
	"pushverify/internal/platform/config"
	phttp "pushverify/internal/platform/net/http"
	dom "pushverify/internal/services/gitqueue/domain"

	"github.com/go-chi/chi/v5"
)

func TestFromConfig(t *testing.T) {
	t.Setenv("PV_GIT_SERVERNAME", "git.example.com")
	t.Setenv("PV_GIT_EXCLUDE_FROM_VERIFICATION", "buildbot, no-verify")
	t.Setenv("PV_GIT_THROTTLE", "3s")
	t.Setenv("PV_GIT_CHAT_ON_FAILURE", "true")
	t.Setenv("PV_APP_PORT", "8443")
	t.Setenv("PV_WEBHOOK_POST_URL", "https://hooks.example.com/link")

	o := FromConfig(config.New().Prefix("PV_"))

	if o.GitServer != "git.example.com" || o.GitScheme != "https" || o.MainRepo != "main" {
		t.Fatalf("git opts = %+v", o)
	}
	if !slices.Equal(o.Exclude, []string{"buildbot", "no-verify"}) {
		t.Fatalf("exclude = %v", o.Exclude)
	}
	if o.Throttle != 3*time.Second || o.QueryTimeout != 30*time.Second || !o.ChatOnFailure {
		t.Fatalf("timing opts = %+v", o)
	}
	if o.AppPort != 8443 || o.WebhookURL != "https://hooks.example.com/link" || o.WebhookTimeout != 3*time.Second {
		t.Fatalf("link opts = %+v", o)
	}
	if o.SMTPAddr != "" || o.ChatURL != "" {
		t.Fatalf("transports should default to disabled: %+v", o)
	}
	if o.MailTimeout != 30*time.Second {
		t.Fatalf("mail timeout = %v", o.MailTimeout)
	}
}

func TestFromConfigThrottleFloor(t *testing.T) {
	cases := []struct {
		env  string
		want time.Duration
	}{
		{"", time.Second},
		{"0", time.Second},
		{"0s", time.Second},
		{"250ms", time.Second},
		{"1500ms", 1500 * time.Millisecond},
	}
	for _, c := range cases {
		t.Setenv("PV_GIT_THROTTLE", c.env)
		t.Setenv("PV_MAIL_TIMEOUT", "5s")
		o := FromConfig(config.New().Prefix("PV_"))
		if o.Throttle != c.want {
			t.Fatalf("THROTTLE=%q gave %v, want %v", c.env, o.Throttle, c.want)
		}
		if o.MailTimeout != 5*time.Second {
			t.Fatalf("mail timeout = %v", o.MailTimeout)
		}
	}
}

type oneRow struct {
	mu  sync.Mutex
	req dom.DeploymentRequest
}

func (g *oneRow) GetByID(_ context.Context, id int64) (dom.DeploymentRequest, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.req, id == g.req.ID, nil
}

func (g *oneRow) GetByRevision(context.Context, string, int64) (dom.DeploymentRequest, bool, error) {
	return dom.DeploymentRequest{}, false, nil
}

func (g *oneRow) UpdateThenReread(_ context.Context, id int64, ch dom.Changes) (dom.DeploymentRequest, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if ch.Revision != nil {
		g.req.Revision = *ch.Revision
	}
	if ch.Tags != nil {
		g.req.Tags = *ch.Tags
	}
	return g.req, true, nil
}

func (g *oneRow) revision() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.req.Revision
}

type staticRemote struct{ uri string }

func (r *staticRemote) ListRemote(_ context.Context, uri, branch string) ([]dom.RemoteRef, error) {
	r.uri = uri
	return []dom.RemoteRef{{Commit: "abc123", Ref: "refs/heads/" + branch}}, nil
}

type quietNotifier struct{ subjects []string }

func (n *quietNotifier) SendEmail(_ context.Context, _ []string, _, subject string) error {
	n.subjects = append(n.subjects, subject)
	return nil
}
func (n *quietNotifier) SendChat(context.Context, []string, string) error          { return nil }
func (n *quietNotifier) FireWebhook(context.Context, string, string, string, string) {}

func TestModuleEndToEnd(t *testing.T) {
	gw := &oneRow{req: dom.DeploymentRequest{ID: 5, User: "alice", Title: "Fix", Repo: "svc", Branch: "topic"}}
	remote := &staticRemote{}
	n := &quietNotifier{}

	opts := Options{GitScheme: "ssh", GitServer: "git.example.com", MainRepo: "main", DevDir: "dev", AppServer: "push.example.com"}
	m := New(modkit.Deps{Cfg: config.New()}, opts, Overrides{Remote: remote, Notifier: n, Gateway: gw})

	if m.Name() != "gitqueue" {
		t.Fatalf("name = %s", m.Name())
	}
	worker := module.MustPortsOf[dom.WorkerPort](m)
	if _, ok := module.PortsOf[dom.EnqueuePort](m); !ok {
		t.Fatalf("enqueue port missing")
	}

	mux := chi.NewRouter()
	phttp.AdaptChi(mux).Route("/v1", func(r phttp.Router) { m.MountRoutes(r) })

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodPost, "/v1/verifications", strings.NewReader(`{"request_id":5}`)))
	if rec.Code != stdhttp.StatusAccepted {
		t.Fatalf("enqueue status = %d body=%s", rec.Code, rec.Body.String())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if !worker.Start(ctx) {
		t.Fatalf("worker did not start")
	}
	idleCtx, idleCancel := context.WithTimeout(ctx, 5*time.Second)
	defer idleCancel()
	if err := worker.Idle(idleCtx); err != nil {
		t.Fatalf("Idle: %v", err)
	}

	if gw.revision() != "abc123" {
		t.Fatalf("revision = %q", gw.revision())
	}
	if remote.uri != "ssh://git.example.com/dev/svc" {
		t.Fatalf("uri = %s", remote.uri)
	}
	if !slices.Equal(n.subjects, []string{"[push] alice - Fix"}) {
		t.Fatalf("subjects = %v", n.subjects)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/v1/verifications/5/outcomes", nil))
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("history status = %d", rec.Code)
	}
}
