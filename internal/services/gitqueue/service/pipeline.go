package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"pushverify/internal/adapters/git"
	perr "pushverify/internal/platform/errors"
	"pushverify/internal/platform/logger"
	str "pushverify/internal/platform/strings"
	dom "pushverify/internal/services/gitqueue/domain"
)

// Webhook link types
const (
	linkRequest = "pushrequest"
	linkRef     = "ref"
	linkCommit  = "commit"
	linkReview  = "review"
)

// Verify runs one request through the pipeline
// user facing failures are handled here; only unexpected errors are returned
func (s *Svc) Verify(ctx context.Context, requestID int64) error {
	log := logger.C(ctx)

	req, ok, err := s.gw.GetByID(ctx, requestID)
	if err != nil {
		return perr.Wrapf(err, perr.CodeOf(err), "load request %d", requestID)
	}
	if !ok {
		log.Error().Msg("verification job for non-existent request")
		s.record(ctx, dom.Outcome{RequestID: requestID, Kind: dom.KindNotFound})
		return nil
	}

	if req.Tags.HasAny(s.cfg.Exclude) {
		log.Info().Str("tags", req.Tags.String()).Msg("request excluded from verification")
		s.record(ctx, dom.Outcome{RequestID: req.ID, Kind: dom.KindExcluded})
		return nil
	}

	commit, err := s.resolve(ctx, req)
	if err == nil {
		err = s.checkDuplicate(ctx, req, commit)
	}
	var f *dom.Failure
	if errors.As(err, &f) {
		return s.fail(ctx, req, f)
	}
	if err != nil {
		return err
	}
	return s.succeed(ctx, req, commit)
}

// resolve maps the request branch to the commit the remote advertises for it
func (s *Svc) resolve(ctx context.Context, req dom.DeploymentRequest) (string, error) {
	if req.Branch == "" {
		return "", dom.ErrNoBranch(req.ID)
	}

	refs, err := s.remote.ListRemote(ctx, s.cfg.Address.URI(req.Repo), req.Branch)
	if err != nil {
		reason := err.Error()
		var re *git.RemoteError
		if errors.As(err, &re) {
			reason = re.Reason()
		}
		return "", &dom.Failure{Kind: dom.KindRemoteFailed, Reason: reason, Err: err}
	}

	commit, ok := git.HeadCommit(refs, req.Branch)
	if !ok {
		return "", dom.ErrRefNotFound(req.Branch)
	}
	return commit, nil
}

// checkDuplicate fails when another live request is bound to commit
// the request's own binding never counts, so re-verifying an unchanged branch is stable
func (s *Svc) checkDuplicate(ctx context.Context, req dom.DeploymentRequest, commit string) error {
	other, found, err := s.gw.GetByRevision(ctx, commit, req.ID)
	if err != nil {
		return perr.Wrapf(err, perr.CodeOf(err), "lookup revision %s", commit)
	}
	if found && other.ID != req.ID && other.State != dom.StateDiscarded {
		return dom.ErrDuplicate(req.ID, other.ID, commit)
	}
	return nil
}

func (s *Svc) succeed(ctx context.Context, req dom.DeploymentRequest, commit string) error {
	log := logger.C(ctx)

	tags := req.Tags.MarkVerified()
	upd, ok, err := s.gw.UpdateThenReread(ctx, req.ID, dom.Changes{Revision: &commit, Tags: &tags})
	if err != nil {
		return perr.Wrapf(err, perr.CodeOf(err), "commit verified revision")
	}
	if !ok {
		s.integrity(ctx, req.ID, commit)
		return nil
	}

	log.Info().Str("revision", upd.Revision).Str("branch", upd.Branch).Msg("branch verified")
	s.record(ctx, dom.Outcome{RequestID: upd.ID, Kind: dom.KindSuccess, Revision: upd.Revision})

	body, err := renderSuccess(s.mailView(upd, ""))
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "render success mail")
	}
	if err := s.notify.SendEmail(ctx, []string{upd.User}, body, subject("[push]", upd)); err != nil {
		log.Error().Err(err).Msg("success mail not sent")
	}

	id := strconv.FormatInt(upd.ID, 10)
	s.notify.FireWebhook(ctx, linkRequest, id, linkRef, upd.Branch)
	s.notify.FireWebhook(ctx, linkRequest, id, linkCommit, upd.Revision)
	if upd.HasReview() {
		s.notify.FireWebhook(ctx, linkRequest, id, linkReview, upd.ReviewToken())
	}
	return nil
}

func (s *Svc) fail(ctx context.Context, req dom.DeploymentRequest, f *dom.Failure) error {
	log := logger.C(ctx)

	tags := req.Tags.MarkFailed()
	upd, ok, err := s.gw.UpdateThenReread(ctx, req.ID, dom.Changes{Tags: &tags})
	if err != nil {
		return perr.Wrapf(err, perr.CodeOf(err), "commit failure tags")
	}
	if !ok {
		s.integrity(ctx, req.ID, "")
		return nil
	}

	pe := f.AsPlatform()
	log.Warn().Str("kind", string(f.Kind)).Str("code", perr.CodeOf(pe).String()).Err(pe).Msg("verification failed")
	s.record(ctx, dom.Outcome{RequestID: upd.ID, Kind: f.Kind, Revision: upd.Revision, Reason: f.Reason})

	if f.Kind.Notified() {
		prefix := "[push]"
		if f.Kind == dom.KindRemoteFailed || f.Kind == dom.KindRefNotFound {
			prefix = "[push error]"
		}
		body, err := renderFailure(s.mailView(upd, f.Reason), f.Kind)
		if err != nil {
			return perr.Wrap(err, perr.ErrorCodeUnknown, "render failure mail")
		}
		if err := s.notify.SendEmail(ctx, []string{upd.User}, body, subject(prefix, upd)); err != nil {
			log.Error().Err(err).Msg("failure mail not sent")
		}
	}

	if s.cfg.ChatOnFailure {
		text := fmt.Sprintf("Push request %d (%s/%s) could not be verified: %s", upd.ID, upd.Repo, upd.Branch, str.FirstLine(f.Reason))
		if err := s.notify.SendChat(ctx, []string{upd.User}, text); err != nil {
			log.Error().Err(err).Msg("failure chat not sent")
		}
	}
	return nil
}

func (s *Svc) integrity(ctx context.Context, id int64, commit string) {
	err := perr.DBf("update of request %d matched no rows", id)
	logger.C(ctx).Error().Err(err).Str("revision", commit).Msg("persistence integrity error")
	s.record(ctx, dom.Outcome{RequestID: id, Kind: dom.KindIntegrityFailed, Revision: commit, Reason: err.Error()})
}

func (s *Svc) record(ctx context.Context, o dom.Outcome) {
	if s.outcomes == nil {
		return
	}
	if o.At.IsZero() {
		o.At = s.now()
	}
	if err := s.outcomes.Record(ctx, o); err != nil {
		logger.C(ctx).Warn().Err(err).Str("kind", string(o.Kind)).Msg("outcome not recorded")
	}
}

func subject(prefix string, r dom.DeploymentRequest) string {
	return fmt.Sprintf("%s %s - %s", prefix, r.User, r.Title)
}
