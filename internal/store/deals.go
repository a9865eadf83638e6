package store

import (
	"context"
	"database/sql"
	"fmt"

	"crm-service/internal/models"
)

const dealWithCustomer = `
	SELECT d.*, c.username AS customer_name
	FROM deals d
	LEFT JOIN customers c ON d.customer_id = c.id`

// CreateDeal inserts a new deal
func (s *Store) CreateDeal(ctx context.Context, deal *models.Deal) error {
	query := `
		INSERT INTO deals (customer_id, title, description, value, stage, probability, dead_line)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	return s.db.QueryRowxContext(ctx, query,
		deal.CustomerID, deal.Title, deal.Description, deal.Value,
		deal.Stage, deal.Probability, deal.DeadLine).
		Scan(&deal.ID, &deal.CreatedAt)
}

// GetDealByID retrieves a deal with its customer display name.
// A deal without an associated customer still returns, with a nil name.
func (s *Store) GetDealByID(ctx context.Context, id int64) (*models.Deal, error) {
	var deal models.Deal
	err := s.db.GetContext(ctx, &deal, dealWithCustomer+" WHERE d.id = $1", id)
	if isNoRows(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &deal, nil
}

// GetDeals retrieves all deals, most recently created first
func (s *Store) GetDeals(ctx context.Context) ([]models.Deal, error) {
	deals := []models.Deal{}
	err := s.db.SelectContext(ctx, &deals, dealWithCustomer+" ORDER BY d.created_at DESC")
	return deals, err
}

// UpdateDeal replaces the mutable fields of a deal
func (s *Store) UpdateDeal(ctx context.Context, deal *models.Deal) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE deals
		SET customer_id = $1, title = $2, description = $3, value = $4,
		    stage = $5, probability = $6, dead_line = $7
		WHERE id = $8`,
		deal.CustomerID, deal.Title, deal.Description, deal.Value,
		deal.Stage, deal.Probability, deal.DeadLine, deal.ID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// UpdateDealStage persists a stage transition. Stage and probability move
// together in a single statement and nothing else is touched.
func (s *Store) UpdateDealStage(ctx context.Context, id int64, stage string, probability int) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE deals SET stage = $1, probability = $2 WHERE id = $3",
		stage, probability, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// DeleteDeal removes a deal row. No cascade to other entities.
func (s *Store) DeleteDeal(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM deals WHERE id = $1", id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// CountDeals returns the total number of deal rows
func (s *Store) CountDeals(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM deals")
	return count, err
}

// SumDealValue returns the total value across all deals, 0 when empty
func (s *Store) SumDealValue(ctx context.Context) (float64, error) {
	var total float64
	err := s.db.GetContext(ctx, &total, "SELECT COALESCE(SUM(value), 0) FROM deals")
	return total, err
}

// GetStageStats returns count and summed value grouped by stage.
// Only stages with at least one deal appear; callers fill the gaps.
func (s *Store) GetStageStats(ctx context.Context) ([]models.StageStat, error) {
	stats := []models.StageStat{}
	err := s.db.SelectContext(ctx, &stats, `
		SELECT stage, COUNT(*) AS count, COALESCE(SUM(value), 0) AS total_value
		FROM deals
		GROUP BY stage`)
	return stats, err
}

// GetRecentDeals retrieves the most recently created deals
func (s *Store) GetRecentDeals(ctx context.Context, limit int) ([]models.Deal, error) {
	deals := []models.Deal{}
	err := s.db.SelectContext(ctx, &deals,
		dealWithCustomer+" ORDER BY d.created_at DESC LIMIT $1", limit)
	return deals, err
}

// GetDealsNearingDeadline retrieves non-terminal deals whose deadline falls
// strictly between now and now + withinDays, soonest first
func (s *Store) GetDealsNearingDeadline(ctx context.Context, withinDays int) ([]models.Deal, error) {
	deals := []models.Deal{}
	err := s.db.SelectContext(ctx, &deals, dealWithCustomer+`
		WHERE d.dead_line IS NOT NULL
		  AND d.dead_line > NOW()
		  AND d.dead_line <= NOW() + ($1 || ' days')::interval
		  AND d.stage NOT IN ($2, $3)
		ORDER BY d.dead_line ASC`,
		withinDays, models.StageClosedWon, models.StageClosedLost)
	return deals, err
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
