package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"crm-service/internal/models"
	"crm-service/internal/store"
	"crm-service/internal/util"

	"go.uber.org/zap"
)

// ProjectService handles projects and their uploaded report files
type ProjectService struct {
	store      *store.Store
	uploadsDir string
	logger     *zap.Logger
}

// NewProjectService creates a new project service. The uploads directory is
// created on startup if missing.
func NewProjectService(store *store.Store, uploadsDir string) (*ProjectService, error) {
	if err := os.MkdirAll(uploadsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads dir: %w", err)
	}
	return &ProjectService{
		store:      store,
		uploadsDir: uploadsDir,
		logger:     util.NamedLogger("projects"),
	}, nil
}

// UploadsDir returns the directory project files are stored in
func (s *ProjectService) UploadsDir() string {
	return s.uploadsDir
}

// UploadFileName builds a unique stored name for an uploaded file,
// preserving the original extension
func UploadFileName(originalName string) string {
	return fmt.Sprintf("%d%s", time.Now().UnixNano()/int64(time.Millisecond), filepath.Ext(originalName))
}

// ProjectRequest carries the mutable project fields
type ProjectRequest struct {
	Title       string     `json:"title" form:"title"`
	Description string     `json:"description" form:"description"`
	Status      string     `json:"status" form:"status"`
	StartDate   *time.Time `json:"start_date" form:"start_date" time_format:"2006-01-02"`
	EndDate     *time.Time `json:"end_date" form:"end_date" time_format:"2006-01-02"`
	AssignedTo  string     `json:"assigned_to" form:"assigned_to"`
}

// CreateProject inserts a project; reportUpload is the stored file name of
// an already-saved upload, empty when none was attached
func (s *ProjectService) CreateProject(ctx context.Context, req *ProjectRequest, reportUpload string) (*models.Project, error) {
	project := &models.Project{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		AssignedTo:  req.AssignedTo,
	}
	if reportUpload != "" {
		project.ReportUpload = &reportUpload
	}

	if err := s.store.CreateProject(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.logger.Info("Project created", zap.Int64("project_id", project.ID))
	return project, nil
}

// GetProject returns one project
func (s *ProjectService) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	return s.store.GetProjectByID(ctx, id)
}

// ListProjects returns all projects
func (s *ProjectService) ListProjects(ctx context.Context) ([]models.Project, error) {
	return s.store.GetProjects(ctx)
}

// ProjectTitles returns id/title pairs for form pickers
func (s *ProjectService) ProjectTitles(ctx context.Context) ([]models.Project, error) {
	return s.store.GetProjectTitles(ctx)
}

// UpdateProject replaces a project's fields. A new upload replaces the old
// file on disk; without one the existing file reference is kept.
func (s *ProjectService) UpdateProject(ctx context.Context, id int64, req *ProjectRequest, reportUpload string) error {
	existing, err := s.store.GetProjectByID(ctx, id)
	if err != nil {
		return err
	}

	project := &models.Project{
		ID:           id,
		Title:        req.Title,
		Description:  req.Description,
		Status:       req.Status,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		AssignedTo:   req.AssignedTo,
		ReportUpload: existing.ReportUpload,
	}

	if reportUpload != "" {
		project.ReportUpload = &reportUpload
		if existing.ReportUpload != nil {
			s.removeUpload(*existing.ReportUpload)
		}
	}

	return s.store.UpdateProject(ctx, project)
}

// DeleteProject removes a project and its uploaded file
func (s *ProjectService) DeleteProject(ctx context.Context, id int64) error {
	existing, err := s.store.GetProjectByID(ctx, id)
	if err != nil {
		return err
	}

	if existing.ReportUpload != nil {
		s.removeUpload(*existing.ReportUpload)
	}

	return s.store.DeleteProject(ctx, id)
}

// removeUpload deletes a stored file, best effort
func (s *ProjectService) removeUpload(name string) {
	path := filepath.Join(s.uploadsDir, name)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("Failed to remove uploaded file",
			zap.String("file", name),
			zap.Error(err))
	}
}
