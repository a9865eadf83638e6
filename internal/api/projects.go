package api

import (
	"net/http"
	"path/filepath"

	"crm-service/internal/service"

	"github.com/gin-gonic/gin"
)

// listProjects handles listing all projects
func (h *Handler) listProjects(c *gin.Context) {
	projects, err := h.projectService.ListProjects(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Projects not found")
		return
	}
	c.JSON(http.StatusOK, projects)
}

// projectTitles handles the id/title listing used by form pickers
func (h *Handler) projectTitles(c *gin.Context) {
	titles, err := h.projectService.ProjectTitles(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Projects not found")
		return
	}
	c.JSON(http.StatusOK, titles)
}

// getProject handles get project by ID
func (h *Handler) getProject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	project, err := h.projectService.GetProject(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "Project not found")
		return
	}
	c.JSON(http.StatusOK, project)
}

// saveProjectUpload stores the optional multipart report file and returns its
// stored name, empty when no file was attached
func (h *Handler) saveProjectUpload(c *gin.Context) (string, error) {
	file, err := c.FormFile("report")
	if err != nil {
		if err == http.ErrMissingFile {
			return "", nil
		}
		return "", err
	}

	stored := service.UploadFileName(file.Filename)
	dst := filepath.Join(h.projectService.UploadsDir(), stored)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", err
	}
	return stored, nil
}

// createProject handles project creation with an optional report upload
func (h *Handler) createProject(c *gin.Context) {
	var req service.ProjectRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	upload, err := h.saveProjectUpload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid report upload"})
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), &req, upload)
	if err != nil {
		h.fail(c, err, "Project not found")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":      project.ID,
		"message": "Project created successfully",
	})
}

// updateProject handles project update; a new upload replaces the old file
func (h *Handler) updateProject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req service.ProjectRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	upload, err := h.saveProjectUpload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid report upload"})
		return
	}

	if err := h.projectService.UpdateProject(c.Request.Context(), id, &req, upload); err != nil {
		h.fail(c, err, "Project not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project updated successfully"})
}

// deleteProject handles project deletion
func (h *Handler) deleteProject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(c.Request.Context(), id); err != nil {
		h.fail(c, err, "Project not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}
