package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crm-service/internal/models"
	"crm-service/internal/store"
	"crm-service/internal/util"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Auth errors
var (
	ErrUserExists          = errors.New("user already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserFieldsRequired  = errors.New("username, email, roles, and password are required")
	ErrAdminFieldsRequired = errors.New("username and password are required")
	ErrAdminExists         = errors.New("admin user already exists")
)

// AuthService handles user and admin authentication
type AuthService struct {
	store      *store.Store
	jwtSecret  []byte
	tokenTTL   time.Duration
	bcryptCost int
	logger     *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(store *store.Store, jwtSecret string, tokenTTL time.Duration, bcryptCost int) *AuthService {
	return &AuthService{
		store:      store,
		jwtSecret:  []byte(jwtSecret),
		tokenTTL:   tokenTTL,
		bcryptCost: bcryptCost,
		logger:     util.NamedLogger("auth"),
	}
}

// RegisterRequest carries a user registration payload
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Roles    string `json:"roles"`
	Password string `json:"password"`
	Contacts string `json:"contacts"`
}

// RegisterUser creates a user account with a hashed password
func (s *AuthService) RegisterUser(ctx context.Context, req *RegisterRequest) (*models.User, error) {
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

	s.logger.Info("User registered",
		zap.Int64("user_id", user.ID),
		zap.String("roles", user.Roles))
	return user, nil
}

// LoginUser verifies user credentials by username and role
func (s *AuthService) LoginUser(ctx context.Context, username, password, roles string) (*models.User, error) {
	user, err := s.store.GetUserByCredentialName(ctx, username, roles)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// AdminLogin verifies admin credentials and issues a signed token
func (s *AuthService) AdminLogin(ctx context.Context, username, password, ip string) (*models.Admin, string, error) {
	admin, err := s.store.GetAdminByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)) != nil {
		s.audit(ctx, "error", fmt.Sprintf("Failed admin login attempt for username: %s", username), ip)
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(admin)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign token: %w", err)
	}

	s.audit(ctx, "info", fmt.Sprintf("Admin user %s logged in successfully", admin.Username), ip)
	return admin, token, nil
}

// CreateFirstAdmin bootstraps the admin account; refused once one exists
func (s *AuthService) CreateFirstAdmin(ctx context.Context, username, password, ip string) (*models.Admin, error) {
	if username == "" || password == "" {
		return nil, ErrAdminFieldsRequired
	}

	count, err := s.store.CountAdmins(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		return nil, ErrAdminExists
	}

	admin, err := s.newAdmin(username, password)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateAdmin(ctx, admin); err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	s.audit(ctx, "info", fmt.Sprintf("Admin user %s created successfully", username), ip)
	return admin, nil
}

// ReplaceAdmin swaps the single admin account for a new one
func (s *AuthService) ReplaceAdmin(ctx context.Context, username, password, ip string) (*models.Admin, error) {
	if username == "" || password == "" {
		return nil, ErrAdminFieldsRequired
	}

	admin, err := s.newAdmin(username, password)
	if err != nil {
		return nil, err
	}
	if err := s.store.ReplaceAdmin(ctx, admin); err != nil {
		return nil, fmt.Errorf("failed to replace admin: %w", err)
	}

	s.audit(ctx, "info", fmt.Sprintf("Admin user %s replaced previous admin", username), ip)
	return admin, nil
}

func (s *AuthService) newAdmin(username, password string) (*models.Admin, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return &models.Admin{
		Username: username,
		Password: string(hash),
		Role:     "admin",
	}, nil
}

func (s *AuthService) issueToken(admin *models.Admin) (string, error) {
	claims := jwt.MapClaims{
		"sub":  admin.AdminID,
		"name": admin.Username,
		"role": admin.Role,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(s.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// VerifyToken parses and validates an admin token
func (s *AuthService) VerifyToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// audit writes an audit log row, best effort
func (s *AuthService) audit(ctx context.Context, level, message, ip string) {
	if err := s.store.AddSystemLog(ctx, level, message, nil, ip); err != nil {
		s.logger.Warn("Failed to write audit log", zap.Error(err))
	}
}
