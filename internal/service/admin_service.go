package service

import (
	"context"
	"errors"
	"fmt"

	"crm-service/internal/models"
	"crm-service/internal/store"
	"crm-service/internal/util"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// User management guard errors
var (
	ErrUserHasCustomers = errors.New("cannot delete user with associated customers")
	ErrUserIsAdmin      = errors.New("cannot delete admin user")
)

const (
	systemLogsLimit      = 200
	recentActivitiesFeed = 10
)

// AdminService handles user administration and the system audit log
type AdminService struct {
	store      *store.Store
	bcryptCost int
	logger     *zap.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(store *store.Store, bcryptCost int) *AdminService {
	return &AdminService{
		store:      store,
		bcryptCost: bcryptCost,
		logger:     util.NamedLogger("admin"),
	}
}

// ListUsers returns all user accounts
func (s *AdminService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.store.GetUsers(ctx)
}

// AddUser creates a user on behalf of the admin
func (s *AdminService) AddUser(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	if req.Username == "" || req.Email == "" || req.Roles == "" || req.Password == "" {
		return nil, ErrUserFieldsRequired
	}

	existing, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Roles:    req.Roles,
		Password: string(hash),
		Contacts: req.Contacts,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User added by admin", zap.Int64("user_id", user.ID))
	return user, nil
}

// GetUser returns one user profile
func (s *AdminService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.store.GetUserByID(ctx, id)
}

// UpdateUserRequest carries the mutable user profile fields
type UpdateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Roles    string `json:"roles"`
	Contacts string `json:"contacts"`
}

// UpdateUser replaces a user's profile fields
func (s *AdminService) UpdateUser(ctx context.Context, id int64, req *UpdateUserRequest) error {
	if req.Username == "" || req.Email == "" || req.Roles == "" {
		return ErrUserFieldsRequired
	}

	user := &models.User{
		ID:       id,
		Username: req.Username,
		Email:    req.Email,
		Roles:    req.Roles,
		Contacts: req.Contacts,
	}
	return s.store.UpdateUser(ctx, user)
}

// DeleteUser removes a user account. Users with associated customers and
// the admin-bound user are protected.
func (s *AdminService) DeleteUser(ctx context.Context, id int64) error {
	customers, err := s.store.CountCustomersForUser(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check user customers: %w", err)
	}
	if customers > 0 {
		return ErrUserHasCustomers
	}

	isAdmin, err := s.store.IsAdminUser(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check admin binding: %w", err)
	}
	if isAdmin {
		return ErrUserIsAdmin
	}

	return s.store.DeleteUser(ctx, id)
}

// GetSystemLogs returns recent audit log entries
func (s *AdminService) GetSystemLogs(ctx context.Context) ([]models.SystemLog, error) {
	return s.store.GetSystemLogs(ctx, systemLogsLimit)
}

// ClearSystemLogs removes all audit log entries
func (s *AdminService) ClearSystemLogs(ctx context.Context, ip string) error {
	if err := s.store.ClearSystemLogs(ctx); err != nil {
		return err
	}
	if err := s.store.AddSystemLog(ctx, "info", "System logs cleared by admin", nil, ip); err != nil {
		s.logger.Warn("Failed to write audit log", zap.Error(err))
	}
	return nil
}

// RecentActivities returns the newest activities for the admin dashboard
func (s *AdminService) RecentActivities(ctx context.Context) ([]models.Activity, error) {
	return s.store.GetRecentActivities(ctx, recentActivitiesFeed)
}
