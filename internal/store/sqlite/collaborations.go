package sqlite

import (
	"context"
	"fmt"

	"github.com/ofertaapp/oferta-server/internal/domain"
)

// CreateCollaboration records a user attaching to an existing offer.
func (s *Store) CreateCollaboration(ctx context.Context, c *domain.Collaboration) error {
	query := `INSERT INTO collaborations (id, offer_id, user_id, created_at) VALUES (?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query, c.ID, c.OfferID, c.UserID, formatTime(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert collaboration: %w", err)
	}
	return nil
}

// CountCollaborations returns the number of collaborators on an offer.
func (s *Store) CountCollaborations(ctx context.Context, offerID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM collaborations WHERE offer_id = ?`, offerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count collaborations: %w", err)
	}
	return count, nil
}

// ListCollaborations returns an offer's collaborations, oldest first.
func (s *Store) ListCollaborations(ctx context.Context, offerID string) ([]*domain.Collaboration, error) {
	query := `SELECT id, offer_id, user_id, created_at FROM collaborations
		WHERE offer_id = ? ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, offerID)
	if err != nil {
		return nil, fmt.Errorf("query collaborations: %w", err)
	}
	defer rows.Close()

	var collabs []*domain.Collaboration
	for rows.Next() {
		var (
			c         domain.Collaboration
			createdAt string
		)
		if err := rows.Scan(&c.ID, &c.OfferID, &c.UserID, &createdAt); err != nil {
			return nil, fmt.Errorf("scan collaboration: %w", err)
		}
		if c.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		collabs = append(collabs, &c)
	}
	return collabs, rows.Err()
}
