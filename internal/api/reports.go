package api

import (
	"net/http"

	"crm-service/internal/service"

	"github.com/gin-gonic/gin"
)

// listReports handles listing report metadata, newest first
func (h *Handler) listReports(c *gin.Context) {
	reports, err := h.reportService.ListReports(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Reports not found")
		return
	}
	c.JSON(http.StatusOK, reports)
}

// createReport handles report generation
func (h *Handler) createReport(c *gin.Context) {
	var req service.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	report, err := h.reportService.CreateReport(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err, "Report not found")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":        report.ReportID,
		"message":   "Report generated successfully",
		"file_name": report.FileName,
	})
}

// downloadReport streams a generated report file as an attachment
func (h *Handler) downloadReport(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	report, path, err := h.reportService.ResolveReportFile(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "Report not found")
		return
	}

	c.FileAttachment(path, report.FileName)
}

// deleteReport handles report deletion
func (h *Handler) deleteReport(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.reportService.DeleteReport(c.Request.Context(), id); err != nil {
		h.fail(c, err, "Report not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Report deleted successfully"})
}
