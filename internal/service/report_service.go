package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"crm-service/internal/models"
	"crm-service/internal/store"
	"crm-service/internal/util"

	"github.com/fumiama/go-docx"
	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
)

// Validation errors for report generation
var (
	ErrReportFieldsRequired  = errors.New("required fields are missing")
	ErrUnsupportedReportType = errors.New("unsupported file extension")
)

// ReportService generates report files and tracks their metadata
type ReportService struct {
	store      *store.Store
	reportsDir string
	logger     *zap.Logger
}

// NewReportService creates a new report service. The reports directory is
// created on startup if missing.
func NewReportService(store *store.Store, reportsDir string) (*ReportService, error) {
	if err := os.MkdirAll(reportsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create reports dir: %w", err)
	}
	return &ReportService{
		store:      store,
		reportsDir: reportsDir,
		logger:     util.NamedLogger("reports"),
	}, nil
}

// ReportRequest carries the inputs for report generation
type ReportRequest struct {
	Title         string `json:"title"`
	TaskType      string `json:"task_type"`
	TaskStatus    string `json:"task_status"`
	Description   string `json:"description"`
	FileExtension string `json:"file_extension"`
	Signature     string `json:"signature"`
	CustomerID    *int64 `json:"customer_id"`
	ProjectID     *int64 `json:"project_id"`
	CreatedBy     *int64 `json:"created_by"`
}

func (req *ReportRequest) validate() error {
	if req.Title == "" || req.TaskType == "" || req.TaskStatus == "" ||
		req.Description == "" || req.FileExtension == "" || req.Signature == "" {
		return ErrReportFieldsRequired
	}
	switch req.FileExtension {
	case "pdf", "docx", "doc", "txt", "rtf", "odt":
		return nil
	}
	return ErrUnsupportedReportType
}

// CreateReport generates the report file in the requested format and
// persists its metadata
func (s *ReportService) CreateReport(ctx context.Context, req *ReportRequest) (*models.Report, error) {
	ctx, span := util.StartSpan(ctx, "ReportService.CreateReport")
	defer span.End()

	if err := req.validate(); err != nil {
		return nil, err
	}

	fileName := fmt.Sprintf("report_%d.%s", time.Now().UnixMilli(), req.FileExtension)
	filePath := filepath.Join(s.reportsDir, fileName)
	generatedAt := time.Now()

	var err error
	switch req.FileExtension {
	case "pdf":
		err = writePDFReport(filePath, req, generatedAt)
	case "docx", "doc":
		err = writeDocxReport(filePath, req, generatedAt)
	case "rtf":
		err = os.WriteFile(filePath, []byte(renderRTFReport(req, generatedAt)), 0o644)
	default: // txt, odt fall back to a plain render
		err = os.WriteFile(filePath, []byte(renderTextReport(req, generatedAt)), 0o644)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to generate report file: %w", err)
	}

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat report file: %w", err)
	}

	report := &models.Report{
		Title:         req.Title,
		TaskType:      req.TaskType,
		TaskStatus:    req.TaskStatus,
		Description:   req.Description,
		FileExtension: req.FileExtension,
		FileName:      fileName,
		FilePath:      filePath,
		FileSize:      info.Size(),
		Signature:     req.Signature,
		CustomerID:    req.CustomerID,
		ProjectID:     req.ProjectID,
		CreatedBy:     req.CreatedBy,
	}
	if err := s.store.CreateReport(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to save report metadata: %w", err)
	}

	util.ReportsGeneratedTotal.WithLabelValues(req.FileExtension).Inc()
	s.logger.Info("Report generated",
		zap.Int64("report_id", report.ReportID),
		zap.String("file", fileName))
	return report, nil
}

// ListReports returns all report metadata, newest first
func (s *ReportService) ListReports(ctx context.Context) ([]models.Report, error) {
	return s.store.GetReports(ctx)
}

// ResolveReportFile returns the metadata and on-disk path of a report,
// store.ErrNotFound when either the row or the file is missing
func (s *ReportService) ResolveReportFile(ctx context.Context, id int64) (*models.Report, string, error) {
	report, err := s.store.GetReportByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	path := report.FilePath
	if path == "" {
		path = filepath.Join(s.reportsDir, report.FileName)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, "", store.ErrNotFound
	}
	return report, path, nil
}

// DeleteReport removes report metadata and its file (file removal is best
// effort)
func (s *ReportService) DeleteReport(ctx context.Context, id int64) error {
	report, err := s.store.GetReportByID(ctx, id)
	if err != nil {
		return err
	}

	path := report.FilePath
	if path == "" {
		path = filepath.Join(s.reportsDir, report.FileName)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("Failed to remove report file",
			zap.String("file", report.FileName),
			zap.Error(err))
	}

	return s.store.DeleteReport(ctx, id)
}

func writePDFReport(path string, req *ReportRequest, generatedAt time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, req.Title)
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, "Task Type: "+req.TaskType)
	pdf.Ln(8)
	pdf.Cell(0, 8, "Status: "+req.TaskStatus)
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, "Description:")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	for _, line := range strings.Split(req.Description, "\n") {
		pdf.MultiCell(0, 6, line, "", "L", false)
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, "Signature: "+req.Signature)
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, "Generated: "+generatedAt.Format(time.RFC1123))

	return pdf.OutputFileAndClose(path)
}

func writeDocxReport(path string, req *ReportRequest, generatedAt time.Time) error {
	doc := docx.New().WithDefaultTheme()

	doc.AddParagraph().AddText(req.Title).Size("28").Bold()
	doc.AddParagraph().AddText("Task Type: " + req.TaskType)
	doc.AddParagraph().AddText("Status: " + req.TaskStatus)
	doc.AddParagraph().AddText("Description:")
	doc.AddParagraph().AddText(req.Description)
	doc.AddParagraph().AddText("Signature: " + req.Signature)
	doc.AddParagraph().AddText("Generated: " + generatedAt.Format(time.RFC1123))

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = doc.WriteTo(f)
	return err
}

func renderTextReport(req *ReportRequest, generatedAt time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "REPORT: %s\n", req.Title)
	fmt.Fprintf(&b, "Task Type: %s\n", req.TaskType)
	fmt.Fprintf(&b, "Status: %s\n", req.TaskStatus)
	fmt.Fprintf(&b, "Description: %s\n", req.Description)
	fmt.Fprintf(&b, "Signature: %s\n", req.Signature)
	fmt.Fprintf(&b, "Generated: %s", generatedAt.Format(time.RFC1123))
	return b.String()
}

func renderRTFReport(req *ReportRequest, generatedAt time.Time) string {
	var b strings.Builder
	b.WriteString("{\\rtf1\\ansi\n")
	fmt.Fprintf(&b, "{\\b REPORT:} %s\\line\n", req.Title)
	fmt.Fprintf(&b, "Task Type: %s\\line\n", req.TaskType)
	fmt.Fprintf(&b, "Status: %s\\line\n", req.TaskStatus)
	fmt.Fprintf(&b, "Description: %s\\line\n", req.Description)
	fmt.Fprintf(&b, "Signature: %s\\line\n", req.Signature)
	fmt.Fprintf(&b, "Generated: %s\\line\n", generatedAt.Format(time.RFC1123))
	b.WriteString("}")
	return b.String()
}
