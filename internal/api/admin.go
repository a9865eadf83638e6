package api

import (
	"net/http"

	"crm-service/internal/service"

	"github.com/gin-gonic/gin"
)

// getUser handles get user profile by ID
func (h *Handler) getUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	user, err := h.adminService.GetUser(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, user)
}

// updateUser handles user profile update
func (h *Handler) updateUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	if err := h.adminService.UpdateUser(c.Request.Context(), id, &req); err != nil {
		h.fail(c, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User updated successfully"})
}

// deleteUser handles user deletion; users with customers and the admin-bound
// user are protected
func (h *Handler) deleteUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.adminService.DeleteUser(c.Request.Context(), id); err != nil {
		h.fail(c, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// adminListUsers handles listing all user accounts
func (h *Handler) adminListUsers(c *gin.Context) {
	users, err := h.adminService.ListUsers(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Users not found")
		return
	}
	c.JSON(http.StatusOK, users)
}

// adminAddUser handles user creation by the admin
func (h *Handler) adminAddUser(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	user, err := h.adminService.AddUser(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err, "User not found")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":      user.ID,
		"message": "User added successfully",
	})
}

// systemLogs handles listing recent audit log entries
func (h *Handler) systemLogs(c *gin.Context) {
	logs, err := h.adminService.GetSystemLogs(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Logs not found")
		return
	}
	c.JSON(http.StatusOK, logs)
}

// clearSystemLogs handles clearing the audit log
func (h *Handler) clearSystemLogs(c *gin.Context) {
	if err := h.adminService.ClearSystemLogs(c.Request.Context(), c.ClientIP()); err != nil {
		h.fail(c, err, "Logs not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "System logs cleared successfully"})
}

// recentActivities handles the admin dashboard activity feed
func (h *Handler) recentActivities(c *gin.Context) {
	activities, err := h.adminService.RecentActivities(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Activities not found")
		return
	}
	c.JSON(http.StatusOK, activities)
}
