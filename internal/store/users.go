package store

import (
	"context"

	"crm-service/internal/models"
)

// CreateUser inserts a new user account
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, email, roles, password, contacts)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	return s.db.QueryRowxContext(ctx, query,
		user.Username, user.Email, user.Roles, user.Password, user.Contacts).
		Scan(&user.ID)
}

// GetUserByID retrieves a user without the password column
func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user,
		"SELECT id, username, email, roles, contacts FROM users WHERE id = $1", id)
	if isNoRows(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email, nil when absent
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE email = $1", email)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByCredentialName retrieves a user by username and role for login
func (s *Store) GetUserByCredentialName(ctx context.Context, username, roles string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user,
		"SELECT * FROM users WHERE username = $1 AND roles = $2", username, roles)
	if isNoRows(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUsers retrieves all user accounts without passwords
func (s *Store) GetUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	err := s.db.SelectContext(ctx, &users,
		"SELECT id, username, email, roles, contacts FROM users ORDER BY id")
	return users, err
}

// UpdateUser replaces a user's profile fields
func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET username = $1, email = $2, roles = $3, contacts = $4 WHERE id = $5",
		user.Username, user.Email, user.Roles, user.Contacts, user.ID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// DeleteUser removes a user row
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// CountCustomersForUser counts customers referencing a user
func (s *Store) CountCustomersForUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM customers WHERE user_id = $1", userID)
	return count, err
}

// IsAdminUser reports whether a user id is bound to the admin account
func (s *Store) IsAdminUser(ctx context.Context, userID int64) (bool, error) {
	var count int64
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM admin WHERE users_id = $1", userID)
	return count > 0, err
}

// GetAdminByUsername retrieves the admin account by username
func (s *Store) GetAdminByUsername(ctx context.Context, username string) (*models.Admin, error) {
	var admin models.Admin
	err := s.db.GetContext(ctx, &admin, "SELECT * FROM admin WHERE username = $1", username)
	if isNoRows(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// CountAdmins returns the number of admin rows
func (s *Store) CountAdmins(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM admin")
	return count, err
}

// CreateAdmin inserts an admin account
func (s *Store) CreateAdmin(ctx context.Context, admin *models.Admin) error {
	return s.db.QueryRowxContext(ctx,
		"INSERT INTO admin (username, password, role) VALUES ($1, $2, $3) RETURNING admin_id",
		admin.Username, admin.Password, admin.Role).
		Scan(&admin.AdminID)
}

// ReplaceAdmin swaps the single admin account inside one transaction
func (s *Store) ReplaceAdmin(ctx context.Context, admin *models.Admin) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM admin"); err != nil {
		return err
	}
	err = tx.QueryRowxContext(ctx,
		"INSERT INTO admin (username, password, role) VALUES ($1, $2, $3) RETURNING admin_id",
		admin.Username, admin.Password, admin.Role).
		Scan(&admin.AdminID)
	if err != nil {
		return err
	}
	return tx.Commit()
}
