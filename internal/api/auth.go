package api

import (
	"net/http"
	"strings"

	"crm-service/internal/service"

	"github.com/gin-gonic/gin"
)

// registerUser handles user self-registration
func (h *Handler) registerUser(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	user, err := h.authService.RegisterUser(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err, "User not found")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":      user.ID,
		"message": "User registered successfully",
	})
}

// loginRequest carries user login credentials
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Roles    string `json:"roles"`
}

// loginUser handles user login by username and role
func (h *Handler) loginUser(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	user, err := h.authService.LoginUser(c.Request.Context(), req.Username, req.Password, req.Roles)
	if err != nil {
		h.fail(c, err, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    user,
	})
}

// adminCredentials carries admin login or setup credentials
type adminCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// adminLogin handles admin login and token issuance
func (h *Handler) adminLogin(c *gin.Context) {
	var req adminCredentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	admin, token, err := h.authService.AdminLogin(c.Request.Context(), req.Username, req.Password, c.ClientIP())
	if err != nil {
		h.fail(c, err, "Admin not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"admin":   admin,
	})
}

// adminSetup bootstraps the first admin account
func (h *Handler) adminSetup(c *gin.Context) {
	var req adminCredentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	admin, err := h.authService.CreateFirstAdmin(c.Request.Context(), req.Username, req.Password, c.ClientIP())
	if err != nil {
		h.fail(c, err, "Admin not found")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":      admin.AdminID,
		"message": "Admin created successfully",
	})
}

// adminReplace swaps the admin account for a new one
func (h *Handler) adminReplace(c *gin.Context) {
	var req adminCredentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	admin, err := h.authService.ReplaceAdmin(c.Request.Context(), req.Username, req.Password, c.ClientIP())
	if err != nil {
		h.fail(c, err, "Admin not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":      admin.AdminID,
		"message": "Admin replaced successfully",
	})
}

// requireAdmin validates the bearer token on protected admin routes
func (h *Handler) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Missing authorization token"})
			return
		}

		claims, err := h.authService.VerifyToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}
		if role, _ := claims["role"].(string); role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Admin access required"})
			return
		}

		c.Next()
	}
}
