package service

import (
	"context"
	"errors"
	"fmt"

	"crm-service/internal/models"
	"crm-service/internal/store"
	"crm-service/internal/util"

	"go.uber.org/zap"
)

// ErrActivityFieldsRequired is returned when an activity payload misses a
// required field
var ErrActivityFieldsRequired = errors.New("task type, description, assigned to, and status are required")

// ActivityService handles CRM task records
type ActivityService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewActivityService creates a new activity service
func NewActivityService(store *store.Store) *ActivityService {
	return &ActivityService{
		store:  store,
		logger: util.NamedLogger("activities"),
	}
}

// ActivityRequest carries the mutable activity fields
type ActivityRequest struct {
	CustomerID    *int64  `json:"customer_id"`
	OpportunityID *int64  `json:"opportunity_id"`
	TaskType      string  `json:"task_type"`
	Description   string  `json:"description"`
	Notification  *string `json:"notification"`
	AssignedTo    string  `json:"assigned_to"`
	Status        string  `json:"status"`
}

func (req *ActivityRequest) validate() error {
	if req.TaskType == "" || req.Description == "" || req.AssignedTo == "" || req.Status == "" {
		return ErrActivityFieldsRequired
	}
	return nil
}

func (req *ActivityRequest) toModel() *models.Activity {
	return &models.Activity{
		CustomerID:    req.CustomerID,
		OpportunityID: req.OpportunityID,
		TaskType:      req.TaskType,
		Description:   req.Description,
		Notification:  req.Notification,
		AssignedTo:    req.AssignedTo,
		Status:        req.Status,
	}
}

// CreateActivity inserts a new activity
func (s *ActivityService) CreateActivity(ctx context.Context, req *ActivityRequest) (*models.Activity, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	activity := req.toModel()
	if err := s.store.CreateActivity(ctx, activity); err != nil {
		return nil, fmt.Errorf("failed to create activity: %w", err)
	}

	s.logger.Info("Activity created",
		zap.Int64("activity_id", activity.ID),
		zap.String("task_type", activity.TaskType))
	return activity, nil
}

// GetActivity returns one activity
func (s *ActivityService) GetActivity(ctx context.Context, id int64) (*models.Activity, error) {
	return s.store.GetActivityByID(ctx, id)
}

// ListActivities returns all activities, newest first
func (s *ActivityService) ListActivities(ctx context.Context) ([]models.Activity, error) {
	return s.store.GetActivities(ctx)
}

// ListActivitiesByStatus returns activities filtered by status
func (s *ActivityService) ListActivitiesByStatus(ctx context.Context, status string) ([]models.Activity, error) {
	return s.store.GetActivitiesByStatus(ctx, status)
}

// ListActivitiesByAssignee returns activities assigned to one user
func (s *ActivityService) ListActivitiesByAssignee(ctx context.Context, assignedTo string) ([]models.Activity, error) {
	return s.store.GetActivitiesByAssignee(ctx, assignedTo)
}

// UpdateActivity replaces an activity's fields
func (s *ActivityService) UpdateActivity(ctx context.Context, id int64, req *ActivityRequest) error {
	if err := req.validate(); err != nil {
		return err
	}

	activity := req.toModel()
	activity.ID = id
	return s.store.UpdateActivity(ctx, activity)
}

// DeleteActivity removes an activity
func (s *ActivityService) DeleteActivity(ctx context.Context, id int64) error {
	return s.store.DeleteActivity(ctx, id)
}
