package rooms

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var ErrNotFound = errors.New("rooms: not found")

// Repository is the persistence contract for the call log.
//
// InsertActive must be atomic with respect to the one-active-per-group
// invariant: when a concurrent caller wins the insert, the loser gets the
// winner's record back with inserted=false instead of a second active row.
type Repository interface {
	InsertActive(ctx context.Context, rec CallRecord) (CallRecord, bool, error)
	GetActive(ctx context.Context, groupID string) (CallRecord, error)
	EndActive(ctx context.Context, groupID string, endedAt time.Time) (CallRecord, error)
	GetByRoomID(ctx context.Context, roomID string) (CallRecord, error)
	ListByGroup(ctx context.Context, groupID string) ([]CallRecord, error)
}

// PostgresRepo stores call records in Postgres.
//
// NOTE: This repository assumes the following schema exists:
//
//	CREATE TABLE call_records (
//	  id         UUID PRIMARY KEY,
//	  group_id   TEXT NOT NULL,
//	  room_id    TEXT NOT NULL UNIQUE,
//	  creator_id TEXT NOT NULL,
//	  active     BOOLEAN NOT NULL,
//	  created_at TIMESTAMPTZ NOT NULL,
//	  ended_at   TIMESTAMPTZ
//	);
//	CREATE UNIQUE INDEX call_records_one_active
//	  ON call_records (group_id) WHERE active;
//	CREATE INDEX call_records_group ON call_records (group_id, created_at DESC);
//
// The partial unique index is what makes check-then-insert safe under
// concurrency; InsertActive leans on it via ON CONFLICT DO NOTHING.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

const recordColumns = `id, group_id, room_id, creator_id, active, created_at, ended_at`

func scanRecord(row interface{ Scan(...any) error }) (CallRecord, error) {
	var r CallRecord
	err := row.Scan(
		&r.ID,
		&r.GroupID,
		&r.RoomID,
		&r.CreatorID,
		&r.Active,
		&r.CreatedAt,
		&r.EndedAt,
	)
	return r, err
}

func (p *PostgresRepo) InsertActive(ctx context.Context, rec CallRecord) (CallRecord, bool, error) {
	const q = `
INSERT INTO call_records (id, group_id, room_id, creator_id, active, created_at)
VALUES ($1,$2,$3,$4,TRUE,$5)
ON CONFLICT (group_id) WHERE active DO NOTHING
RETURNING ` + recordColumns + `
`
	inserted, err := scanRecord(p.db.QueryRowContext(ctx, q, rec.ID, rec.GroupID, rec.RoomID, rec.CreatorID, rec.CreatedAt))
	if err == nil {
		return inserted, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return CallRecord{}, false, err
	}

	// Lost the race: another caller holds the active slot. Hand back theirs.
	// If that call ended before this read, GetActive reports ErrNotFound and
	// the caller may retry the insert.
	existing, err := p.GetActive(ctx, rec.GroupID)
	if err != nil {
		return CallRecord{}, false, err
	}
	return existing, false, nil
}

func (p *PostgresRepo) GetActive(ctx context.Context, groupID string) (CallRecord, error) {
	const q = `
SELECT ` + recordColumns + `
FROM call_records
WHERE group_id = $1 AND active
`
	r, err := scanRecord(p.db.QueryRowContext(ctx, q, groupID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CallRecord{}, ErrNotFound
		}
		return CallRecord{}, err
	}
	return r, nil
}

func (p *PostgresRepo) EndActive(ctx context.Context, groupID string, endedAt time.Time) (CallRecord, error) {
	// Single-statement transition keeps end atomic: only an active row
	// matches, so ending twice yields no rows the second time.
	const q = `
UPDATE call_records
SET active = FALSE, ended_at = $2
WHERE group_id = $1 AND active
RETURNING ` + recordColumns + `
`
	r, err := scanRecord(p.db.QueryRowContext(ctx, q, groupID, endedAt))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CallRecord{}, ErrNotFound
		}
		return CallRecord{}, err
	}
	return r, nil
}

func (p *PostgresRepo) GetByRoomID(ctx context.Context, roomID string) (CallRecord, error) {
	const q = `
SELECT ` + recordColumns + `
FROM call_records
WHERE room_id = $1
`
	r, err := scanRecord(p.db.QueryRowContext(ctx, q, roomID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CallRecord{}, ErrNotFound
		}
		return CallRecord{}, err
	}
	return r, nil
}

func (p *PostgresRepo) ListByGroup(ctx context.Context, groupID string) ([]CallRecord, error) {
	const q = `
SELECT ` + recordColumns + `
FROM call_records
WHERE group_id = $1
ORDER BY created_at DESC
`
	rows, err := p.db.QueryContext(ctx, q, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CallRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
