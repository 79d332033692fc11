// Package module wires the verification queue, its adapters and its routes
package module

import (
	"pushverify/internal/adapters/git"
	"pushverify/internal/adapters/notify"
	"pushverify/internal/modkit"
	phttp "pushverify/internal/platform/net/http"
	dom "pushverify/internal/services/gitqueue/domain"
	qhttp "pushverify/internal/services/gitqueue/http"
	"pushverify/internal/services/gitqueue/repo"
	"pushverify/internal/services/gitqueue/service"
)

// Module defines the gitqueue module
type Module struct {
	deps  modkit.Deps
	opts  Options
	ports Ports
}

// Overrides replaces adapters built from config; nil fields keep the defaults
type Overrides struct {
	Remote   dom.RemoteLister
	Notifier dom.Notifier
	Gateway  dom.Gateway
}

// New constructs the module from config and deps
func New(deps modkit.Deps, opts Options, ov Overrides) *Module {
	remote := ov.Remote
	if remote == nil {
		remote = git.NewClient(git.Options{Binary: opts.GitBinary, Timeout: opts.QueryTimeout})
	}
	n := ov.Notifier
	if n == nil {
		n = &notify.Dispatcher{
			Mail: notify.NewMailer(notify.MailOptions{
				Addr:     opts.SMTPAddr,
				From:     opts.MailFrom,
				Username: opts.MailUser,
				Password: opts.MailPassword,
				Domain:   opts.MailDomain,
				Timeout:  opts.MailTimeout,
			}),
			Chat:    notify.NewChat(notify.ChatOptions{URL: opts.ChatURL}),
			Webhook: notify.NewWebhook(notify.WebhookOptions{URL: opts.WebhookURL, Timeout: opts.WebhookTimeout}),
		}
	}
	gw := ov.Gateway
	if gw == nil {
		gw = repo.NewPG(deps.PG)
	}
	outcomes := repo.NewOutcomes(deps.CH)

	exclude := make([]dom.Tag, 0, len(opts.Exclude))
	for _, t := range opts.Exclude {
		exclude = append(exclude, dom.Tag(t))
	}

	svc := service.New(service.Config{
		Throttle: opts.Throttle,
		Exclude:  exclude,
		Address: git.Address{
			Scheme:   opts.GitScheme,
			Host:     opts.GitServer,
			Auth:     opts.GitAuth,
			Port:     opts.GitPort,
			MainRepo: opts.MainRepo,
			DevDir:   opts.DevDir,
		},
		AppServer:     opts.AppServer,
		AppPort:       opts.AppPort,
		ReviewServer:  opts.ReviewServer,
		ChatOnFailure: opts.ChatOnFailure,
	}, gw, n, remote, outcomes)

	return &Module{
		deps: deps,
		opts: opts,
		ports: Ports{
			Worker:   svc,
			Enqueuer: svc,
			History:  outcomes,
		},
	}
}

// Ports returns the module ports (Worker, Enqueuer, History)
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return "gitqueue" }

// MountRoutes mounts the queue routes under /verifications
func (m *Module) MountRoutes(r phttp.Router) {
	r.Route("/verifications", func(rr phttp.Router) {
		qhttp.Register(rr, m.ports.Enqueuer, m.ports.History)
	})
}
