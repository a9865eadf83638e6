package store

import (
	"context"

	"crm-service/internal/models"
)

const activityWithCustomer = `
	SELECT a.*, c.username AS customer_name
	FROM activities a
	LEFT JOIN customers c ON a.customer_id = c.id`

// CreateActivity inserts a new activity
func (s *Store) CreateActivity(ctx context.Context, activity *models.Activity) error {
	query := `
		INSERT INTO activities (customer_id, opportunity_id, task_type, description, notification, assigned_to, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	return s.db.QueryRowxContext(ctx, query,
		activity.CustomerID, activity.OpportunityID, activity.TaskType,
		activity.Description, activity.Notification, activity.AssignedTo, activity.Status).
		Scan(&activity.ID, &activity.CreatedAt)
}

// GetActivityByID retrieves one activity with its customer display name
func (s *Store) GetActivityByID(ctx context.Context, id int64) (*models.Activity, error) {
	var activity models.Activity
	err := s.db.GetContext(ctx, &activity, activityWithCustomer+" WHERE a.id = $1", id)
	if isNoRows(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &activity, nil
}

// GetActivities retrieves all activities, newest first
func (s *Store) GetActivities(ctx context.Context) ([]models.Activity, error) {
	activities := []models.Activity{}
	err := s.db.SelectContext(ctx, &activities, activityWithCustomer+" ORDER BY a.created_at DESC")
	return activities, err
}

// GetActivitiesByStatus retrieves activities filtered by status
func (s *Store) GetActivitiesByStatus(ctx context.Context, status string) ([]models.Activity, error) {
	activities := []models.Activity{}
	err := s.db.SelectContext(ctx, &activities,
		activityWithCustomer+" WHERE a.status = $1 ORDER BY a.created_at DESC", status)
	return activities, err
}

// GetActivitiesByAssignee retrieves activities assigned to one user
func (s *Store) GetActivitiesByAssignee(ctx context.Context, assignedTo string) ([]models.Activity, error) {
	activities := []models.Activity{}
	err := s.db.SelectContext(ctx, &activities,
		activityWithCustomer+" WHERE a.assigned_to = $1 ORDER BY a.created_at DESC", assignedTo)
	return activities, err
}

// GetRecentActivities retrieves the newest activities for the admin feed
func (s *Store) GetRecentActivities(ctx context.Context, limit int) ([]models.Activity, error) {
	activities := []models.Activity{}
	err := s.db.SelectContext(ctx, &activities,
		activityWithCustomer+" ORDER BY a.created_at DESC LIMIT $1", limit)
	return activities, err
}

// UpdateActivity replaces an activity's fields
func (s *Store) UpdateActivity(ctx context.Context, activity *models.Activity) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE activities
		SET customer_id = $1, opportunity_id = $2, task_type = $3, description = $4,
		    notification = $5, assigned_to = $6, status = $7
		WHERE id = $8`,
		activity.CustomerID, activity.OpportunityID, activity.TaskType, activity.Description,
		activity.Notification, activity.AssignedTo, activity.Status, activity.ID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// DeleteActivity removes an activity row
func (s *Store) DeleteActivity(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM activities WHERE id = $1", id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
