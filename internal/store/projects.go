package store

import (
	"context"

	"crm-service/internal/models"
)

// CreateProject inserts a new project
func (s *Store) CreateProject(ctx context.Context, project *models.Project) error {
	query := `
		INSERT INTO projects (title, description, status, start_date, end_date, assigned_to, report_upload)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	return s.db.QueryRowxContext(ctx, query,
		project.Title, project.Description, project.Status,
		project.StartDate, project.EndDate, project.AssignedTo, project.ReportUpload).
		Scan(&project.ID, &project.CreatedAt)
}

// GetProjectByID retrieves a project by ID
func (s *Store) GetProjectByID(ctx context.Context, id int64) (*models.Project, error) {
	var project models.Project
	err := s.db.GetContext(ctx, &project, "SELECT * FROM projects WHERE id = $1", id)
	if isNoRows(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// GetProjects retrieves all projects
func (s *Store) GetProjects(ctx context.Context) ([]models.Project, error) {
	projects := []models.Project{}
	err := s.db.SelectContext(ctx, &projects, "SELECT * FROM projects ORDER BY created_at DESC")
	return projects, err
}

// GetProjectTitles retrieves id/title pairs for pickers
func (s *Store) GetProjectTitles(ctx context.Context) ([]models.Project, error) {
	projects := []models.Project{}
	err := s.db.SelectContext(ctx, &projects, "SELECT id, title FROM projects ORDER BY title")
	return projects, err
}

// UpdateProject replaces a project's fields
func (s *Store) UpdateProject(ctx context.Context, project *models.Project) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE projects
		SET title = $1, description = $2, status = $3, start_date = $4,
		    end_date = $5, assigned_to = $6, report_upload = $7
		WHERE id = $8`,
		project.Title, project.Description, project.Status, project.StartDate,
		project.EndDate, project.AssignedTo, project.ReportUpload, project.ID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// DeleteProject removes a project row
func (s *Store) DeleteProject(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM projects WHERE id = $1", id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
