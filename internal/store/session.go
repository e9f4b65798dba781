package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"hiring-management-api/internal/model"
)

func (s *Store) CreateSchedulingSession(ctx context.Context, sess *model.SchedulingSession) error {
	panel, err := json.Marshal(sess.Panel)
	if err != nil {
		return fmt.Errorf("encode panel: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO scheduling_sessions (id, user_id, candidate_id, campaign_id, client_id, panel)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		sess.ID, sess.UserID, sess.CandidateID, sess.CampaignID, sess.ClientID, panel,
	)
	return err
}

func (s *Store) GetSchedulingSession(ctx context.Context, id string) (*model.SchedulingSession, error) {
	sess := &model.SchedulingSession{}
	var panel, details []byte
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, candidate_id, campaign_id, client_id, panel, details, created_at, updated_at
		 FROM scheduling_sessions WHERE id = $1`, id,
	).Scan(&sess.ID, &sess.UserID, &sess.CandidateID, &sess.CampaignID, &sess.ClientID,
		&panel, &details, &sess.CreatedAt, &sess.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(panel, &sess.Panel); err != nil {
		return nil, fmt.Errorf("decode panel: %w", err)
	}
	if len(details) > 0 {
		sess.Details = &model.InterviewDetails{}
		if err := json.Unmarshal(details, sess.Details); err != nil {
			return nil, fmt.Errorf("decode details: %w", err)
		}
	}
	return sess, nil
}

// SaveSessionDetails attaches the interview details to an existing session.
func (s *Store) SaveSessionDetails(ctx context.Context, sessionID string, d *model.InterviewDetails) error {
	details, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode details: %w", err)
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE scheduling_sessions SET details = $1, updated_at = NOW() WHERE id = $2`,
		details, sessionID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) UpdateSessionPanel(ctx context.Context, sessionID string, panel []model.PanelMember) error {
	b, err := json.Marshal(panel)
	if err != nil {
		return fmt.Errorf("encode panel: %w", err)
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE scheduling_sessions SET panel = $1, updated_at = NOW() WHERE id = $2`,
		b, sessionID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteSessionsForUser is part of explicit logout teardown.
func (s *Store) DeleteSessionsForUser(ctx context.Context, userID string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM scheduling_sessions WHERE user_id = $1`, userID,
	)
	return err
}
