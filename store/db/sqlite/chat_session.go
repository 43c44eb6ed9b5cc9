package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/lumenhr/lumen/store"
)

func (d *DB) UpsertChatSession(ctx context.Context, upsert *store.UpsertChatSession) (*store.ChatSession, error) {
	now := time.Now().Unix()
	stmt := `
		INSERT INTO chat_session (uid, user_id, is_active, created_ts, updated_ts)
		VALUES (?, ?, 1, ?, ?)
		ON CONFLICT (uid, user_id) DO UPDATE SET updated_ts = excluded.updated_ts
		RETURNING id, uid, user_id, is_active, created_ts, updated_ts
	`
	var session store.ChatSession
	if err := d.db.QueryRowContext(ctx, stmt,
		upsert.UID,
		upsert.UserID,
		now,
		now,
	).Scan(
		&session.ID,
		&session.UID,
		&session.UserID,
		&session.IsActive,
		&session.CreatedTs,
		&session.UpdatedTs,
	); err != nil {
		return nil, errors.Wrap(err, "failed to upsert chat session")
	}
	return &session, nil
}

func (d *DB) GetChatSession(ctx context.Context, find *store.FindChatSession) (*store.ChatSession, error) {
	list, err := d.ListChatSessions(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (d *DB) ListChatSessions(ctx context.Context, find *store.FindChatSession) ([]*store.ChatSession, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = ?"), append(args, *find.ID)
	}
	if find.UID != nil {
		where, args = append(where, "uid = ?"), append(args, *find.UID)
	}
	if find.UserID != nil {
		where, args = append(where, "user_id = ?"), append(args, *find.UserID)
	}
	if find.IsActive != nil {
		where, args = append(where, "is_active = ?"), append(args, *find.IsActive)
	}

	query := `
		SELECT id, uid, user_id, is_active, created_ts, updated_ts
		FROM chat_session
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY updated_ts DESC`
	if find.Limit != nil {
		query += " LIMIT ?"
		args = append(args, *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list chat sessions")
	}
	defer rows.Close()

	var sessions []*store.ChatSession
	for rows.Next() {
		var session store.ChatSession
		if err := rows.Scan(
			&session.ID,
			&session.UID,
			&session.UserID,
			&session.IsActive,
			&session.CreatedTs,
			&session.UpdatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan chat session")
		}
		sessions = append(sessions, &session)
	}
	return sessions, rows.Err()
}

// CreateChatTurn appends a turn. Turns are append-only: there is no update or
// delete statement for chat_turn anywhere in this package.
func (d *DB) CreateChatTurn(ctx context.Context, create *store.CreateChatTurn) (*store.ChatTurn, error) {
	invocations := create.Invocations
	if invocations == nil {
		invocations = []*store.TurnInvocation{}
	}
	invocationsJSON, err := json.Marshal(invocations)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal invocations")
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().Unix()
	stmt := `
		INSERT INTO chat_turn (session_id, role, content, invocations, created_ts)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`
	turn := &store.ChatTurn{
		SessionID:   create.SessionID,
		Role:        create.Role,
		Content:     create.Content,
		Invocations: invocations,
		CreatedTs:   now,
	}
	if err := tx.QueryRowContext(ctx, stmt,
		create.SessionID,
		create.Role,
		create.Content,
		string(invocationsJSON),
		now,
	).Scan(&turn.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create chat turn")
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE chat_session SET updated_ts = ? WHERE id = ?`, now, create.SessionID,
	); err != nil {
		return nil, errors.Wrap(err, "failed to touch chat session")
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "failed to commit chat turn")
	}
	return turn, nil
}

func (d *DB) ListChatTurns(ctx context.Context, sessionID int32) ([]*store.ChatTurn, error) {
	query := `
		SELECT id, session_id, role, content, invocations, created_ts
		FROM chat_turn
		WHERE session_id = ?
		ORDER BY id`

	rows, err := d.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list chat turns")
	}
	defer rows.Close()

	var turns []*store.ChatTurn
	for rows.Next() {
		turn, err := scanChatTurn(rows)
		if err != nil {
			return nil, err
		}
		turns = append(turns, turn)
	}
	return turns, rows.Err()
}

func scanChatTurn(row rowScanner) (*store.ChatTurn, error) {
	var turn store.ChatTurn
	var invocationsJSON sql.NullString
	if err := row.Scan(
		&turn.ID,
		&turn.SessionID,
		&turn.Role,
		&turn.Content,
		&invocationsJSON,
		&turn.CreatedTs,
	); err != nil {
		return nil, errors.Wrap(err, "failed to scan chat turn")
	}
	if invocationsJSON.Valid && invocationsJSON.String != "" {
		if err := json.Unmarshal([]byte(invocationsJSON.String), &turn.Invocations); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal invocations")
		}
	}
	return &turn, nil
}
