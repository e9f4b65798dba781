package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"hiring-management-api/internal/model"
)

func (s *Store) CreateClient(ctx context.Context, c *model.Client) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO clients (id, name, contact_email) VALUES ($1,$2,$3)`,
		c.ID, c.Name, c.ContactEmail,
	)
	return err
}

func (s *Store) ListClients(ctx context.Context) ([]model.Client, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, contact_email, created_at, updated_at FROM clients ORDER BY name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Client
	for rows.Next() {
		var c model.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.ContactEmail, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) CreateCampaign(ctx context.Context, c *model.Campaign) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO campaigns (id, client_id, title, job_description, status)
		 VALUES ($1,$2,$3,$4,$5)`,
		c.ID, c.ClientID, c.Title, c.JobDescription, c.Status,
	)
	return err
}

func (s *Store) GetCampaign(ctx context.Context, id string) (*model.Campaign, error) {
	c := &model.Campaign{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, client_id, title, job_description, status, created_at, updated_at
		 FROM campaigns WHERE id = $1`, id,
	).Scan(&c.ID, &c.ClientID, &c.Title, &c.JobDescription, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Store) ListCampaigns(ctx context.Context, clientID string) ([]model.Campaign, error) {
	q := `SELECT id, client_id, title, job_description, status, created_at, updated_at
	      FROM campaigns`
	args := []any{}
	if clientID != "" {
		q += ` WHERE client_id = $1`
		args = append(args, clientID)
	}
	q += ` ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Campaign
	for rows.Next() {
		var c model.Campaign
		if err := rows.Scan(&c.ID, &c.ClientID, &c.Title, &c.JobDescription, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
