package store

import (
	"context"

	"crm-service/internal/models"
)

// CreateReport inserts report file metadata
func (s *Store) CreateReport(ctx context.Context, report *models.Report) error {
	query := `
		INSERT INTO report (title, task_type, task_status, description, file_extension,
		                    file_name, file_path, file_size, signature, customer_id, project_id, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING report_id, created_at`

	return s.db.QueryRowxContext(ctx, query,
		report.Title, report.TaskType, report.TaskStatus, report.Description,
		report.FileExtension, report.FileName, report.FilePath, report.FileSize,
		report.Signature, report.CustomerID, report.ProjectID, report.CreatedBy).
		Scan(&report.ReportID, &report.CreatedAt)
}

// GetReportByID retrieves report metadata by ID
func (s *Store) GetReportByID(ctx context.Context, id int64) (*models.Report, error) {
	var report models.Report
	err := s.db.GetContext(ctx, &report, "SELECT * FROM report WHERE report_id = $1", id)
	if isNoRows(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// GetReports retrieves all reports, newest first
func (s *Store) GetReports(ctx context.Context) ([]models.Report, error) {
	reports := []models.Report{}
	err := s.db.SelectContext(ctx, &reports, "SELECT * FROM report ORDER BY created_at DESC")
	return reports, err
}

// DeleteReport removes report metadata
func (s *Store) DeleteReport(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM report WHERE report_id = $1", id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// CreateSMSRecord inserts an SMS send record
func (s *Store) CreateSMSRecord(ctx context.Context, record *models.SMSRecord) error {
	query := `
		INSERT INTO sms (message, phone_numbers, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	return s.db.QueryRowxContext(ctx, query,
		record.Message, record.PhoneNumbers, record.Status).
		Scan(&record.ID, &record.CreatedAt)
}
