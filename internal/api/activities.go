package api

import (
	"net/http"

	"crm-service/internal/service"

	"github.com/gin-gonic/gin"
)

// listActivities handles listing all activities, newest first
func (h *Handler) listActivities(c *gin.Context) {
	activities, err := h.activityService.ListActivities(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Activities not found")
		return
	}
	c.JSON(http.StatusOK, activities)
}

// getActivity handles get activity by ID
func (h *Handler) getActivity(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	activity, err := h.activityService.GetActivity(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "Activity not found")
		return
	}
	c.JSON(http.StatusOK, activity)
}

// listActivitiesByStatus handles listing activities filtered by status
func (h *Handler) listActivitiesByStatus(c *gin.Context) {
	activities, err := h.activityService.ListActivitiesByStatus(c.Request.Context(), c.Param("status"))
	if err != nil {
		h.fail(c, err, "Activities not found")
		return
	}
	c.JSON(http.StatusOK, activities)
}

// listActivitiesByAssignee handles listing activities for one assignee
func (h *Handler) listActivitiesByAssignee(c *gin.Context) {
	activities, err := h.activityService.ListActivitiesByAssignee(c.Request.Context(), c.Param("assignee"))
	if err != nil {
		h.fail(c, err, "Activities not found")
		return
	}
	c.JSON(http.StatusOK, activities)
}

// createActivity handles activity creation
func (h *Handler) createActivity(c *gin.Context) {
	var req service.ActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	activity, err := h.activityService.CreateActivity(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err, "Activity not found")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":      activity.ID,
		"message": "Activity created successfully",
	})
}

// updateActivity handles activity update
func (h *Handler) updateActivity(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req service.ActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	if err := h.activityService.UpdateActivity(c.Request.Context(), id, &req); err != nil {
		h.fail(c, err, "Activity not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Activity updated successfully"})
}

// deleteActivity handles activity deletion
func (h *Handler) deleteActivity(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.activityService.DeleteActivity(c.Request.Context(), id); err != nil {
		h.fail(c, err, "Activity not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Activity deleted successfully"})
}
