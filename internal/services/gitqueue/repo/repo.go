// Package repo implements the verification queue persistence gateway and outcome history
package repo

import (
	"context"
	"strconv"
	"strings"

	"pushverify/internal/modkit/repokit"
	perr "pushverify/internal/platform/errors"
	"pushverify/internal/platform/store"
	str "pushverify/internal/platform/strings"
	dom "pushverify/internal/services/gitqueue/domain"
)

const selectCols = `
	id, "user", title, repo, COALESCE(branch, ''), COALESCE(revision, ''),
	COALESCE(tags, ''), state, COALESCE(watchers, ''), reviewid`

type (
	// PG is the Postgres gateway over push_requests
	PG struct {
		db     repokit.TxRunner
		binder repokit.Binder[*queries]
	}
	queries struct{ q repokit.Queryer }
)

var _ dom.Gateway = (*PG)(nil)

// NewPG binds the gateway to a transaction runner
func NewPG(db repokit.TxRunner) *PG {
	return &PG{
		db:     db,
		binder: repokit.Binder[*queries](func(q repokit.Queryer) *queries { return &queries{q: q} }),
	}
}

// GetByID loads one request
func (g *PG) GetByID(ctx context.Context, id int64) (dom.DeploymentRequest, bool, error) {
	return g.binder.Must(g.db).byID(ctx, id)
}

// GetByRevision finds another request bound to commit
// non discarded rows sort first so a live conflict is never hidden by a discarded one
func (g *PG) GetByRevision(ctx context.Context, commit string, excludeID int64) (dom.DeploymentRequest, bool, error) {
	const sql = `SELECT` + selectCols + `
		FROM push_requests
		WHERE revision = $1 AND id <> $2
		ORDER BY (state = 'discarded') ASC, id DESC
		LIMIT 1`
	return first(store.One(ctx, g.db, scanRequest, sql, commit, excludeID))
}

// UpdateThenReread applies ch and re-reads the row in the same transaction
func (g *PG) UpdateThenReread(ctx context.Context, id int64, ch dom.Changes) (dom.DeploymentRequest, bool, error) {
	set, args := changeSet(ch)
	if len(set) == 0 {
		return dom.DeploymentRequest{}, false, perr.InvalidArgf("update of request %d has no changes", id)
	}
	args = append(args, id)
	sql := `UPDATE push_requests SET ` + strings.Join(set, ", ") + ` WHERE id = $` + strconv.Itoa(len(args))

	var (
		out   dom.DeploymentRequest
		found bool
	)
	err := repokit.WithTx(ctx, g.db, func(q repokit.Queryer) error {
		tag, err := q.Exec(ctx, sql, args...)
		if err != nil {
			return perr.FromPostgres(err, "update push request")
		}
		if tag.RowsAffected() == 0 {
			return nil
		}
		out, found, err = g.binder.Must(q).byID(ctx, id)
		return err
	})
	if err != nil {
		return dom.DeploymentRequest{}, false, err
	}
	return out, found, nil
}

func (r *queries) byID(ctx context.Context, id int64) (dom.DeploymentRequest, bool, error) {
	const sql = `SELECT` + selectCols + ` FROM push_requests WHERE id = $1`
	return first(store.One(ctx, r.q, scanRequest, sql, id))
}

func changeSet(ch dom.Changes) (set []string, args []any) {
	if ch.Revision != nil {
		args = append(args, str.NilIfEmpty(*ch.Revision))
		set = append(set, "revision = $"+strconv.Itoa(len(args)))
	}
	if ch.Tags != nil {
		args = append(args, ch.Tags.String())
		set = append(set, "tags = $"+strconv.Itoa(len(args)))
	}
	return set, args
}

func first(r dom.DeploymentRequest, err error) (dom.DeploymentRequest, bool, error) {
	if store.IsNotFound(err) {
		return dom.DeploymentRequest{}, false, nil
	}
	if err != nil {
		return dom.DeploymentRequest{}, false, perr.FromPostgres(err, "load push request")
	}
	return r, true, nil
}

func scanRequest(row store.Row) (dom.DeploymentRequest, error) {
	var (
		r        dom.DeploymentRequest
		tags     string
		state    string
		watchers string
	)
	if err := row.Scan(&r.ID, &r.User, &r.Title, &r.Repo, &r.Branch, &r.Revision,
		&tags, &state, &watchers, &r.ReviewID); err != nil {
		return r, err
	}
	r.Tags = dom.ParseTags(tags)
	r.State = dom.State(state)
	r.Watchers = str.SplitCSV(watchers)
	return r, nil
}
