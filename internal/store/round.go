package store

import (
	"context"
	"encoding/json"
	"fmt"

	"hiring-management-api/internal/model"
)

func (s *Store) ListRounds(ctx context.Context, candidateID, campaignID, clientID string) ([]model.InterviewRound, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, round_number, name, status, panel, details, selected_slots,
		        scheduling_option, session_id, sync_error, version, created_at, updated_at
		 FROM interview_rounds
		 WHERE candidate_id = $1 AND campaign_id = $2 AND client_id = $3
		 ORDER BY round_number`,
		candidateID, campaignID, clientID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.InterviewRound
	for rows.Next() {
		r := model.InterviewRound{
			CandidateID: candidateID,
			CampaignID:  campaignID,
			ClientID:    clientID,
		}
		var panel, details, slots []byte
		if err := rows.Scan(&r.ID, &r.RoundNumber, &r.Name, &r.Status, &panel, &details, &slots,
			&r.SchedulingOption, &r.SessionID, &r.SyncError, &r.Version, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		if err := decodeRoundBlobs(&r, panel, details, slots); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ReplaceRounds rewrites the full round list for a triple in one tx. Used
// by list-shape operations (add/remove/rename) where numbering changes.
func (s *Store) ReplaceRounds(ctx context.Context, candidateID, campaignID, clientID string, rounds []model.InterviewRound) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`DELETE FROM interview_rounds
		 WHERE candidate_id = $1 AND campaign_id = $2 AND client_id = $3`,
		candidateID, campaignID, clientID,
	)
	if err != nil {
		return err
	}

	for i := range rounds {
		r := &rounds[i]
		panel, details, slots, err := encodeRoundBlobs(r)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO interview_rounds
			   (id, candidate_id, campaign_id, client_id, round_number, name, status,
			    panel, details, selected_slots, scheduling_option, session_id, sync_error, version)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
			r.ID, candidateID, campaignID, clientID, r.RoundNumber, r.Name, r.Status,
			panel, details, slots, r.SchedulingOption, r.SessionID, r.SyncError, r.Version,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// UpdateRound saves a single round with an optimistic version check, which
// guards against a second tab clobbering a concurrent edit.
func (s *Store) UpdateRound(ctx context.Context, r *model.InterviewRound) error {
	panel, details, slots, err := encodeRoundBlobs(r)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE interview_rounds
		 SET name=$1, status=$2, panel=$3, details=$4, selected_slots=$5,
		     scheduling_option=$6, session_id=$7, sync_error=$8,
		     version=version+1, updated_at=NOW()
		 WHERE id=$9 AND version=$10`,
		r.Name, r.Status, panel, details, slots,
		r.SchedulingOption, r.SessionID, r.SyncError,
		r.ID, r.Version,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrVersionConflict
	}
	r.Version++
	return nil
}

func (s *Store) SaveSchemaNames(ctx context.Context, candidateID, campaignID, clientID string, names []string) error {
	b, err := json.Marshal(names)
	if err != nil {
		return fmt.Errorf("encode schema names: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO interview_schemas (candidate_id, campaign_id, client_id, names)
		 VALUES ($1,$2,$3,$4)
		 ON CONFLICT (candidate_id, campaign_id, client_id)
		 DO UPDATE SET names = EXCLUDED.names, updated_at = NOW()`,
		candidateID, campaignID, clientID, b,
	)
	return err
}

func (s *Store) GetSchemaNames(ctx context.Context, candidateID, campaignID, clientID string) ([]string, error) {
	var b []byte
	err := s.pool.QueryRow(ctx,
		`SELECT names FROM interview_schemas
		 WHERE candidate_id = $1 AND campaign_id = $2 AND client_id = $3`,
		candidateID, campaignID, clientID,
	).Scan(&b)
	if err != nil {
		return nil, nil // absent schema is not an error
	}
	var names []string
	if err := json.Unmarshal(b, &names); err != nil {
		return nil, fmt.Errorf("decode schema names: %w", err)
	}
	return names, nil
}

func encodeRoundBlobs(r *model.InterviewRound) (panel, details, slots []byte, err error) {
	if panel, err = json.Marshal(r.Panel); err != nil {
		return nil, nil, nil, fmt.Errorf("encode panel: %w", err)
	}
	details = []byte("null")
	if r.Details != nil {
		if details, err = json.Marshal(r.Details); err != nil {
			return nil, nil, nil, fmt.Errorf("encode details: %w", err)
		}
	}
	if slots, err = json.Marshal(r.SelectedSlots); err != nil {
		return nil, nil, nil, fmt.Errorf("encode slots: %w", err)
	}
	return panel, details, slots, nil
}

func decodeRoundBlobs(r *model.InterviewRound, panel, details, slots []byte) error {
	if err := json.Unmarshal(panel, &r.Panel); err != nil {
		return fmt.Errorf("decode panel: %w", err)
	}
	if len(details) > 0 && string(details) != "null" {
		r.Details = &model.InterviewDetails{}
		if err := json.Unmarshal(details, r.Details); err != nil {
			return fmt.Errorf("decode details: %w", err)
		}
	}
	if err := json.Unmarshal(slots, &r.SelectedSlots); err != nil {
		return fmt.Errorf("decode slots: %w", err)
	}
	return nil
}
