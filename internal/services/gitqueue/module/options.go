package module

import (
	"time"

	"pushverify/internal/adapters/notify"
	"pushverify/internal/platform/config"
)

// Options controls the verification worker and its notification transports
type Options struct {
	// remote
	GitScheme     string
	GitServer     string
	GitAuth       string
	GitPort       string
	MainRepo      string
	DevDir        string
	GitBinary     string
	QueryTimeout  time.Duration
	// Throttle is the pause before each job. FromConfig never returns less
	// than MinThrottle; a zero value set directly disables the pause
	Throttle      time.Duration
	Exclude       []string
	ChatOnFailure bool

	// links in mail
	AppServer    string
	AppPort      int
	ReviewServer string

	// transports; empty addresses disable them
	SMTPAddr       string
	MailFrom       string
	MailUser       string
	MailPassword   string
	MailDomain     string
	MailTimeout    time.Duration
	ChatURL        string
	WebhookURL     string
	WebhookTimeout time.Duration
}

// MinThrottle is the lowest pause between git queries accepted from config
const MinThrottle = time.Second

// FromConfig reads the GIT_, APP_, REVIEWBOARD_, MAIL_, CHAT_ and WEBHOOK_ groups
func FromConfig(cfg config.Conf) Options {
	g := cfg.Prefix("GIT_")
	app := cfg.Prefix("APP_")
	mail := cfg.Prefix("MAIL_")
	hook := cfg.Prefix("WEBHOOK_")
	return Options{
		GitScheme:     g.MayString("SCHEME", "https"),
		GitServer:     g.MayString("SERVERNAME", "localhost"),
		GitAuth:       g.MayString("AUTH", ""),
		GitPort:       g.MayString("PORT", ""),
		MainRepo:      g.MayString("MAIN_REPOSITORY", "main"),
		DevDir:        g.MayString("DEV_REPOSITORIES_DIR", "dev"),
		GitBinary:     g.MayString("BINARY", "git"),
		QueryTimeout:  g.MayDuration("QUERY_TIMEOUT", 30*time.Second),
		Throttle:      max(g.MayDuration("THROTTLE", MinThrottle), MinThrottle),
		Exclude:       g.MayCSV("EXCLUDE_FROM_VERIFICATION", nil),
		ChatOnFailure: g.MayBool("CHAT_ON_FAILURE", false),

		AppServer:    app.MayString("SERVERNAME", "localhost"),
		AppPort:      app.MayInt("PORT", 443),
		ReviewServer: cfg.Prefix("REVIEWBOARD_").MayString("SERVERNAME", "localhost"),

		SMTPAddr:       mail.MayString("SMTP_ADDR", ""),
		MailFrom:       mail.MayString("FROM", "pushmanager@localhost"),
		MailUser:       mail.MayString("USERNAME", ""),
		MailPassword:   mail.MayString("PASSWORD", ""),
		MailDomain:     mail.MayString("DOMAIN", ""),
		MailTimeout:    mail.MayDuration("TIMEOUT", notify.DefaultMailTimeout),
		ChatURL:        cfg.Prefix("CHAT_").MayString("URL", ""),
		WebhookURL:     hook.MayString("POST_URL", ""),
		WebhookTimeout: hook.MayDuration("TIMEOUT", 3*time.Second),
	}
}
