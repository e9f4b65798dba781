package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"hiring-management-api/internal/model"
)

func (s *Store) CreateCandidate(ctx context.Context, c *model.Candidate) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO candidates
		   (id, name, email, phone, total_experience, company, ctc, ectc,
		    offer_in_hand, notice_period, current_location, preferred_location,
		    availability, campaign_id)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		c.ID, c.Name, c.Email, c.Phone, c.TotalExperience, c.Company, c.CTC, c.ECTC,
		c.OfferInHand, c.NoticePeriod, c.CurrentLocation, c.PreferredLocation,
		c.Availability, c.CampaignID,
	)
	return err
}

// CreateCandidates inserts a validated import batch atomically.
func (s *Store) CreateCandidates(ctx context.Context, cs []model.Candidate) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := range cs {
		c := &cs[i]
		_, err = tx.Exec(ctx,
			`INSERT INTO candidates
			   (id, name, email, phone, total_experience, company, ctc, ectc,
			    offer_in_hand, notice_period, current_location, preferred_location,
			    availability, campaign_id)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
			c.ID, c.Name, c.Email, c.Phone, c.TotalExperience, c.Company, c.CTC, c.ECTC,
			c.OfferInHand, c.NoticePeriod, c.CurrentLocation, c.PreferredLocation,
			c.Availability, c.CampaignID,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *Store) GetCandidate(ctx context.Context, id string) (*model.Candidate, error) {
	c := &model.Candidate{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, email, phone, total_experience, company, ctc, ectc,
		        offer_in_hand, notice_period, current_location, preferred_location,
		        availability, campaign_id, created_at
		 FROM candidates WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.TotalExperience, &c.Company, &c.CTC, &c.ECTC,
		&c.OfferInHand, &c.NoticePeriod, &c.CurrentLocation, &c.PreferredLocation,
		&c.Availability, &c.CampaignID, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Store) ListCandidates(ctx context.Context, campaignID string) ([]model.Candidate, error) {
	q := `SELECT id, name, email, phone, total_experience, company, ctc, ectc,
	             offer_in_hand, notice_period, current_location, preferred_location,
	             availability, campaign_id, created_at
	      FROM candidates`
	args := []any{}
	if campaignID != "" {
		q += ` WHERE campaign_id = $1`
		args = append(args, campaignID)
	}
	q += ` ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Candidate
	for rows.Next() {
		var c model.Candidate
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.TotalExperience, &c.Company,
			&c.CTC, &c.ECTC, &c.OfferInHand, &c.NoticePeriod, &c.CurrentLocation,
			&c.PreferredLocation, &c.Availability, &c.CampaignID, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
