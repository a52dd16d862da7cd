package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	meeting "github.com/ayush1432220/Meet-mind-web-App/internal/pkg/meeting/application/domain"
)

type PgMeetingRepository struct {
	pool *pgxpool.Pool
}

func NewPgMeetingRepository(pool *pgxpool.Pool) *PgMeetingRepository {
	return &PgMeetingRepository{pool: pool}
}

func (r *PgMeetingRepository) Create(ctx context.Context, m meeting.Meeting) (string, error) {
	if r == nil || r.pool == nil {
		return "", errors.New("PgMeetingRepository: nil pool")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	var id string
	err = tx.QueryRow(ctx, `
		INSERT INTO meetings (platform_meeting_id, title, host_id, status, start_time)
		VALUES ($1, $2, $3::uuid, $4, $5)
		RETURNING id::text
	`, m.PlatformMeetingID, m.Title, m.HostID, string(m.Status), m.StartTime).Scan(&id)
	if err != nil {
		return "", err
	}

	for _, uid := range m.ParticipantIDs {
		if uid == "" {
			continue
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO meeting_participants (meeting_id, user_id)
			VALUES ($1::uuid, $2::uuid)
			ON CONFLICT DO NOTHING
		`, id, uid)
		if err != nil {
			return "", err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return id, nil
}

func (r *PgMeetingRepository) GetByID(ctx context.Context, id string) (*meeting.Meeting, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMeetingRepository: nil pool")
	}

	var (
		m            meeting.Meeting
		status       string
		transcript   []byte
		keyDecisions []byte
		analytics    []byte
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, platform_meeting_id, title, host_id::text, status,
		       start_time, end_time, transcript, summary, key_decisions, analytics, created_at
		FROM meetings
		WHERE id = $1::uuid
	`, id).Scan(&m.ID, &m.PlatformMeetingID, &m.Title, &m.HostID, &status,
		&m.StartTime, &m.EndTime, &transcript, &m.Summary, &keyDecisions, &analytics, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, meeting.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	m.Status = meeting.Status(status)

	if len(transcript) > 0 {
		if err := json.Unmarshal(transcript, &m.Transcript); err != nil {
			return nil, fmt.Errorf("decode transcript: %w", err)
		}
	}
	if len(keyDecisions) > 0 {
		if err := json.Unmarshal(keyDecisions, &m.KeyDecisions); err != nil {
			return nil, fmt.Errorf("decode key decisions: %w", err)
		}
	}
	if len(analytics) > 0 {
		var a meeting.Analytics
		if err := json.Unmarshal(analytics, &a); err != nil {
			return nil, fmt.Errorf("decode analytics: %w", err)
		}
		m.Analytics = &a
	}

	rows, err := r.pool.Query(ctx, `
		SELECT user_id::text FROM meeting_participants WHERE meeting_id = $1::uuid
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			return nil, err
		}
		m.ParticipantIDs = append(m.ParticipantIDs, uid)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return &m, nil
}

func (r *PgMeetingRepository) ListByMember(ctx context.Context, userID string) ([]meeting.Overview, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMeetingRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT m.id::text, m.title, m.status, m.start_time, m.end_time
		FROM meetings m
		LEFT JOIN meeting_participants p ON p.meeting_id = m.id
		WHERE m.host_id = $1::uuid OR p.user_id = $1::uuid
		ORDER BY m.start_time DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []meeting.Overview
	for rows.Next() {
		var (
			o      meeting.Overview
			status string
		)
		if err := rows.Scan(&o.ID, &o.Title, &status, &o.StartTime, &o.EndTime); err != nil {
			return nil, err
		}
		o.Status = meeting.Status(status)
		out = append(out, o)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

// BeginProcessing uses the status column itself as the compare-and-set guard
// so two concurrent end requests cannot both win, and end_time is written
// exactly once.
func (r *PgMeetingRepository) BeginProcessing(ctx context.Context, id string, endTime time.Time, transcript []meeting.TranscriptEntry) error {
	if r == nil || r.pool == nil {
		return errors.New("PgMeetingRepository: nil pool")
	}
	raw, err := json.Marshal(transcript)
	if err != nil {
		return fmt.Errorf("encode transcript: %w", err)
	}

	ct, err := r.pool.Exec(ctx, `
		UPDATE meetings
		SET status = $2, end_time = $3, transcript = $4
		WHERE id = $1::uuid AND status = $5
	`, id, string(meeting.StatusProcessing), endTime, raw, string(meeting.StatusLive))
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return r.classifyGuardMiss(ctx, id)
	}
	return nil
}

func (r *PgMeetingRepository) CompleteProcessing(ctx context.Context, id string, rec meeting.CompletionRecord) error {
	if r == nil || r.pool == nil {
		return errors.New("PgMeetingRepository: nil pool")
	}
	decisions, err := json.Marshal(rec.KeyDecisions)
	if err != nil {
		return fmt.Errorf("encode key decisions: %w", err)
	}
	analytics, err := json.Marshal(rec.Analytics)
	if err != nil {
		return fmt.Errorf("encode analytics: %w", err)
	}

	ct, err := r.pool.Exec(ctx, `
		UPDATE meetings
		SET status = $2, summary = $3, key_decisions = $4, analytics = $5
		WHERE id = $1::uuid AND status IN ($6, $2)
	`, id, string(meeting.StatusCompleted), rec.Summary, decisions, analytics,
		string(meeting.StatusProcessing))
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return r.classifyGuardMiss(ctx, id)
	}
	return nil
}

func (r *PgMeetingRepository) MarkError(ctx context.Context, id string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgMeetingRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE meetings
		SET status = $2
		WHERE id = $1::uuid AND status IN ($3, $2)
	`, id, string(meeting.StatusError), string(meeting.StatusProcessing))
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return r.classifyGuardMiss(ctx, id)
	}
	return nil
}

// classifyGuardMiss distinguishes "no such meeting" from "guard rejected the
// transition" after a zero-row update.
func (r *PgMeetingRepository) classifyGuardMiss(ctx context.Context, id string) error {
	var exists bool
	if err := r.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM meetings WHERE id = $1::uuid)", id,
	).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return meeting.ErrNotFound
	}
	return meeting.ErrStateConflict
}
