// Package request implements the change request repository using PostgreSQL.
// The payload is stored as JSONB; status transitions are guarded in SQL so a
// terminal request can never be re-decided, even under concurrent reviewers.
package request

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/heartmarshall/shiftbot-backend/internal/adapter/postgres"
	"github.com/heartmarshall/shiftbot-backend/internal/domain"
)

const table = "change_requests"

var columns = []string{
	"id", "kind", "requested_by", "payload", "status",
	"requested_at", "reviewed_by", "reviewed_at",
}

// Repo provides change request persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new change request repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type requestRow struct {
	ID          uuid.UUID  `db:"id"`
	Kind        string     `db:"kind"`
	RequestedBy int64      `db:"requested_by"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	RequestedAt time.Time  `db:"requested_at"`
	ReviewedBy  *int64     `db:"reviewed_by"`
	ReviewedAt  *time.Time `db:"reviewed_at"`
}

func (r requestRow) toDomain() (domain.ChangeRequest, error) {
	var payload domain.RequestPayload
	if err := json.Unmarshal(r.Payload, &payload); err != nil {
		return domain.ChangeRequest{}, fmt.Errorf("change_request %s: unmarshal payload: %w", r.ID, err)
	}

	return domain.ChangeRequest{
		ID:          r.ID,
		Kind:        domain.RequestKind(r.Kind),
		RequestedBy: r.RequestedBy,
		Payload:     payload,
		Status:      domain.RequestStatus(r.Status),
		RequestedAt: r.RequestedAt,
		ReviewedBy:  r.ReviewedBy,
		ReviewedAt:  r.ReviewedAt,
	}, nil
}

// Create inserts a new pending change request.
func (r *Repo) Create(ctx context.Context, req domain.ChangeRequest) (*domain.ChangeRequest, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	payloadJSON, err := json.Marshal(req.Payload)
	if err != nil {
		return nil, fmt.Errorf("change_request marshal payload: %w", err)
	}

	sql, args, err := postgres.Builder().
		Insert(table).
		Columns("id", "kind", "requested_by", "payload", "status", "requested_at").
		Values(req.ID, req.Kind.String(), req.RequestedBy, payloadJSON, req.Status.String(), req.RequestedAt).
		Suffix("RETURNING " + selectList()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert change_request: %w", err)
	}

	var row requestRow
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "change_request", req.ID)
	}

	created, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// GetByID returns a change request by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ChangeRequest, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select change_request: %w", err)
	}

	var row requestRow
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "change_request", id)
	}

	req, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// Pending returns pending requests, newest first.
func (r *Repo) Pending(ctx context.Context, limit int) ([]domain.ChangeRequest, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"status": domain.RequestStatusPending.String()}).
		OrderBy("requested_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build pending change_requests: %w", err)
	}

	var rows []requestRow
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("pending change_requests: %w", err)
	}

	requests := make([]domain.ChangeRequest, 0, len(rows))
	for _, row := range rows {
		req, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, nil
}

// Decide transitions a pending request to a terminal status. The WHERE
// status='pending' guard makes the transition atomic: if no row matched, the
// request is either missing (domain.ErrNotFound) or already decided
// (domain.ErrInvalidTransition).
func (r *Repo) Decide(ctx context.Context, id uuid.UUID, status domain.RequestStatus, reviewer int64, at time.Time) (*domain.ChangeRequest, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Update(table).
		Set("status", status.String()).
		Set("reviewed_by", reviewer).
		Set("reviewed_at", at).
		Where(squirrel.Eq{"id": id, "status": domain.RequestStatusPending.String()}).
		Suffix("RETURNING " + selectList()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build decide change_request: %w", err)
	}

	var row requestRow
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, fmt.Errorf("change_request %s: %w", id, domain.ErrInvalidTransition)
		}
		return nil, postgres.MapError(err, "change_request", id)
	}

	decided, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &decided, nil
}

func selectList() string {
	return strings.Join(columns, ", ")
}
