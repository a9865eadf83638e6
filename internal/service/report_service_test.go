package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReportRequestValidate(t *testing.T) {
	req := &ReportRequest{
		Title:         "Q3 summary",
		TaskType:      "maintenance",
		TaskStatus:    "done",
		Description:   "Quarterly maintenance report",
		FileExtension: "pdf",
		Signature:     "J. Doe",
	}
	assert.NoError(t, req.validate())

	req.FileExtension = "xlsx"
	assert.ErrorIs(t, req.validate(), ErrUnsupportedReportType)

	req.FileExtension = "pdf"
	req.Signature = ""
	assert.ErrorIs(t, req.validate(), ErrReportFieldsRequired)
}

func TestRenderTextReport(t *testing.T) {
	req := &ReportRequest{
		Title:         "Site visit",
		TaskType:      "installation",
		TaskStatus:    "in progress",
		Description:   "Fiber install at client site",
		FileExtension: "txt",
		Signature:     "A. Tech",
	}
	generatedAt := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

	out := renderTextReport(req, generatedAt)

	assert.True(t, strings.HasPrefix(out, "REPORT: Site visit\n"))
	assert.Contains(t, out, "Task Type: installation")
	assert.Contains(t, out, "Status: in progress")
	assert.Contains(t, out, "Signature: A. Tech")
	assert.Contains(t, out, generatedAt.Format(time.RFC1123))
}

func TestRenderRTFReport(t *testing.T) {
	req := &ReportRequest{
		Title:         "Handover",
		TaskType:      "support",
		TaskStatus:    "done",
		Description:   "Final handover notes",
		FileExtension: "rtf",
		Signature:     "B. Lead",
	}

	out := renderRTFReport(req, time.Now())

	assert.True(t, strings.HasPrefix(out, "{\\rtf1\\ansi"))
	assert.True(t, strings.HasSuffix(out, "}"))
	assert.Contains(t, out, "Handover")
	assert.Contains(t, out, "\\line")
}
