// Package git queries remote repositories with the git binary
package git

import (
	"context"
	"strings"
	"time"

	"pushverify/internal/platform/logger"
	dom "pushverify/internal/services/gitqueue/domain"
)

const (
	defaultBinary  = "git"
	defaultTimeout = 30 * time.Second
)

// Options configures the Client
type Options struct {
	Binary  string
	Timeout time.Duration // per query
	Runner  Runner
}

// Client lists remote heads
type Client struct {
	opts Options
	run  Runner
	log  logger.Logger
}

var _ dom.RemoteLister = (*Client)(nil)

// NewClient creates a Client with defaults for zero fields
func NewClient(o Options) *Client {
	if o.Binary == "" {
		o.Binary = defaultBinary
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	run := o.Runner
	if run == nil {
		run = ExecRunner{}
	}
	return &Client{opts: o, run: run, log: *logger.Named("git")}
}

// ListRemote runs `git ls-remote -h uri branch` and returns every advertised (commit, ref) pair
// a non zero exit is returned as *RemoteError
func (c *Client) ListRemote(ctx context.Context, uri, branch string) ([]dom.RemoteRef, error) {
	args := []string{"ls-remote", "-h", uri, branch}

	qctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	start := time.Now()
	stdout, stderr, code, err := c.run.Run(qctx, c.opts.Binary, args...)
	c.log.Debug().
		Str("uri", redact(uri)).
		Str("branch", branch).
		Int("exit", code).
		Dur("elapsed", time.Since(start)).
		Msg("ls-remote")

	if err != nil || code != 0 {
		return nil, &RemoteError{
			ExitCode: code,
			Stdout:   string(stdout),
			Stderr:   string(stderr),
			Args:     redactArgs(args),
			Err:      err,
		}
	}
	return ParseRefs(string(stdout)), nil
}

// ParseRefs reads whitespace separated (sha, ref) pairs; a trailing odd token is ignored
func ParseRefs(out string) []dom.RemoteRef {
	toks := strings.Fields(out)
	refs := make([]dom.RemoteRef, 0, len(toks)/2)
	for i := 0; i+1 < len(toks); i += 2 {
		refs = append(refs, dom.RemoteRef{Commit: toks[i], Ref: toks[i+1]})
	}
	return refs
}

// HeadCommit returns the commit of refs/heads/<branch>
func HeadCommit(refs []dom.RemoteRef, branch string) (string, bool) {
	want := "refs/heads/" + branch
	for _, r := range refs {
		if r.Ref == want {
			return r.Commit, true
		}
	}
	return "", false
}

// redact hides embedded credentials in a URI
func redact(uri string) string {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return uri
	}
	host, path, _ := strings.Cut(rest, "/")
	if at := strings.LastIndex(host, "@"); at >= 0 {
		host = "***@" + host[at+1:]
	}
	if path == "" {
		return scheme + "://" + host
	}
	return scheme + "://" + host + "/" + path
}

func redactArgs(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = redact(a)
	}
	return out
}
