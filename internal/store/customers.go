package store

import (
	"context"
	"fmt"

	"crm-service/internal/models"
)

// CreateCustomer inserts a new customer record
func (s *Store) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	query := `
		INSERT INTO customers (username, user_id, email, contacts, service, details)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	return s.db.QueryRowxContext(ctx, query,
		customer.Username, customer.UserID, customer.Email,
		customer.Contacts, customer.Service, customer.Details).
		Scan(&customer.ID, &customer.CreatedAt)
}

// GetCustomerByID retrieves a customer by ID
func (s *Store) GetCustomerByID(ctx context.Context, id int64) (*models.Customer, error) {
	var customer models.Customer
	err := s.db.GetContext(ctx, &customer, "SELECT * FROM customers WHERE id = $1", id)
	if isNoRows(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetCustomers retrieves all customers
func (s *Store) GetCustomers(ctx context.Context) ([]models.Customer, error) {
	customers := []models.Customer{}
	err := s.db.SelectContext(ctx, &customers, "SELECT * FROM customers ORDER BY created_at DESC")
	return customers, err
}

// UpdateCustomer replaces a customer's fields
func (s *Store) UpdateCustomer(ctx context.Context, customer *models.Customer) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE customers
		SET username = $1, user_id = $2, email = $3, contacts = $4, service = $5, details = $6
		WHERE id = $7`,
		customer.Username, customer.UserID, customer.Email,
		customer.Contacts, customer.Service, customer.Details, customer.ID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// DeleteCustomerCascade removes a customer and every dependent row in one
// transaction. Dependents go first to keep referential integrity.
func (s *Store) DeleteCustomerCascade(ctx context.Context, id int64) (*models.Customer, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var customer models.Customer
	err = tx.GetContext(ctx, &customer, "SELECT * FROM customers WHERE id = $1", id)
	if isNoRows(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	dependents := []string{
		"DELETE FROM report WHERE customer_id = $1",
		"DELETE FROM activities WHERE customer_id = $1",
		"DELETE FROM deals WHERE customer_id = $1",
	}
	for _, stmt := range dependents {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return nil, fmt.Errorf("failed to delete dependent rows: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM customers WHERE id = $1", id); err != nil {
		return nil, fmt.Errorf("failed to delete customer: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetServiceDistribution returns customer counts grouped by service
func (s *Store) GetServiceDistribution(ctx context.Context) ([]models.ServiceCount, error) {
	counts := []models.ServiceCount{}
	err := s.db.SelectContext(ctx, &counts,
		"SELECT service, COUNT(*) AS count FROM customers GROUP BY service")
	return counts, err
}

// GetTopServices returns the most common customer services
func (s *Store) GetTopServices(ctx context.Context, limit int) ([]models.ServiceCount, error) {
	counts := []models.ServiceCount{}
	err := s.db.SelectContext(ctx, &counts,
		"SELECT service, COUNT(*) AS count FROM customers GROUP BY service ORDER BY count DESC LIMIT $1",
		limit)
	return counts, err
}

// GetCustomerGrowth returns monthly customer counts with a running total
func (s *Store) GetCustomerGrowth(ctx context.Context) ([]models.MonthlyCount, error) {
	growth := []models.MonthlyCount{}
	err := s.db.SelectContext(ctx, &growth, `
		SELECT to_char(created_at, 'YYYY-MM') AS date,
		       COUNT(*) AS count,
		       SUM(COUNT(*)) OVER (ORDER BY to_char(created_at, 'YYYY-MM')) AS cumulative_count
		FROM customers
		GROUP BY to_char(created_at, 'YYYY-MM')
		ORDER BY date`)
	return growth, err
}

// GetServiceGrowth returns monthly customer counts per service
func (s *Store) GetServiceGrowth(ctx context.Context) ([]models.ServiceMonthlyCount, error) {
	growth := []models.ServiceMonthlyCount{}
	err := s.db.SelectContext(ctx, &growth, `
		SELECT to_char(created_at, 'YYYY-MM') AS date, service, COUNT(*) AS count
		FROM customers
		GROUP BY to_char(created_at, 'YYYY-MM'), service
		ORDER BY date, service`)
	return growth, err
}

// CountNewCustomersThisMonth returns customers created in the current month
func (s *Store) CountNewCustomersThisMonth(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count, `
		SELECT COUNT(*)
		FROM customers
		WHERE date_trunc('month', created_at) = date_trunc('month', NOW())`)
	return count, err
}

// GetActivityStatusDistribution returns activity counts grouped by status
func (s *Store) GetActivityStatusDistribution(ctx context.Context) ([]models.StatusCount, error) {
	counts := []models.StatusCount{}
	err := s.db.SelectContext(ctx, &counts,
		"SELECT status, COUNT(*) AS count FROM activities GROUP BY status")
	return counts, err
}
