package adapter

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	meeting "github.com/ayush1432220/Meet-mind-web-App/internal/pkg/meeting/application/domain"
)

type PgTaskRepository struct {
	pool *pgxpool.Pool
}

func NewPgTaskRepository(pool *pgxpool.Pool) *PgTaskRepository {
	return &PgTaskRepository{pool: pool}
}

// ReplaceForMeeting swaps the meeting's tasks inside one transaction. The
// delete-then-insert makes the write absolute: a redelivered job rewrites the
// same set instead of appending duplicates.
func (r *PgTaskRepository) ReplaceForMeeting(ctx context.Context, meetingID string, tasks []meeting.Task) ([]string, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgTaskRepository: nil pool")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM tasks WHERE meeting_id = $1::uuid", meetingID); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		status := t.Status
		if status == "" {
			status = meeting.TaskStatusToDo
		}
		var id string
		err := tx.QueryRow(ctx, `
			INSERT INTO tasks (meeting_id, title, assigned_to, status, deadline)
			VALUES ($1::uuid, $2, $3::uuid, $4, $5)
			RETURNING id::text
		`, meetingID, t.Title, t.AssignedTo, string(status), t.Deadline).Scan(&id)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *PgTaskRepository) ListByMeeting(ctx context.Context, meetingID string) ([]meeting.Task, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgTaskRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, meeting_id::text, title, assigned_to::text, status, deadline, created_at
		FROM tasks
		WHERE meeting_id = $1::uuid
		ORDER BY created_at
	`, meetingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []meeting.Task
	for rows.Next() {
		var (
			t      meeting.Task
			status string
		)
		if err := rows.Scan(&t.ID, &t.MeetingID, &t.Title, &t.AssignedTo, &status, &t.Deadline, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.Status = meeting.TaskStatus(status)
		out = append(out, t)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}
