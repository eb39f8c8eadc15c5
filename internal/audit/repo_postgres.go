package audit

import (
	"context"
	"database/sql"
)

// PostgresRepo stores audit events in Postgres.
//
// NOTE: assumes the following append-only table exists:
//
//	CREATE TABLE call_audit_events (
//	  id            UUID PRIMARY KEY,
//	  group_id      TEXT NOT NULL,
//	  room_id       TEXT,
//	  actor_user_id TEXT NOT NULL,
//	  actor_role    TEXT,
//	  type          TEXT NOT NULL,
//	  message       TEXT,
//	  created_at    TIMESTAMPTZ NOT NULL
//	);
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (p *PostgresRepo) Append(ctx context.Context, e Event) error {
	const q = `
INSERT INTO call_audit_events (
  id, group_id, room_id, actor_user_id, actor_role, type, message, created_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8
)
`
	_, err := p.db.ExecContext(ctx, q,
		e.ID,
		e.GroupID,
		e.RoomID,
		e.ActorUserID,
		e.ActorRole,
		e.Type,
		e.Message,
		e.CreatedAt,
	)
	return err
}
