package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"crm-service/internal/service"
	"crm-service/internal/store"
	"crm-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handler contains HTTP handlers
type Handler struct {
	dealService     *service.DealService
	customerService *service.CustomerService
	activityService *service.ActivityService
	projectService  *service.ProjectService
	reportService   *service.ReportService
	smsService      *service.SMSService
	authService     *service.AuthService
	adminService    *service.AdminService
	logger          *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	dealService *service.DealService,
	customerService *service.CustomerService,
	activityService *service.ActivityService,
	projectService *service.ProjectService,
	reportService *service.ReportService,
	smsService *service.SMSService,
	authService *service.AuthService,
	adminService *service.AdminService,
) *Handler {
	return &Handler{
		dealService:     dealService,
		customerService: customerService,
		activityService: activityService,
		projectService:  projectService,
		reportService:   reportService,
		smsService:      smsService,
		authService:     authService,
		adminService:    adminService,
		logger:          util.NamedLogger("api"),
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.Static("/uploads", h.projectService.UploadsDir())

	deals := router.Group("/deals")
	{
		deals.GET("", h.listDeals)
		deals.GET("/stage", h.stageBreakdown)
		deals.GET("/summary", h.pipelineSummary)
		deals.GET("/deadline/reminders", h.deadlineReminders)
		deals.GET("/:id", h.getDeal)
		deals.POST("", h.createDeal)
		deals.PUT("/:id", h.updateDeal)
		deals.DELETE("/:id", h.deleteDeal)
		deals.PUT("/:id/progress", h.progressDeal)
	}

	customers := router.Group("/customers")
	{
		customers.GET("", h.listCustomers)
		customers.GET("/stats/services", h.serviceStatistics)
		customers.GET("/stats/trends", h.customerTrends)
		customers.GET("/stats/new-this-month", h.newCustomersThisMonth)
		customers.GET("/:id", h.getCustomer)
		customers.POST("", h.createCustomer)
		customers.PUT("/:id", h.updateCustomer)
		customers.DELETE("/:id", h.deleteCustomer)
	}

	activities := router.Group("/activities")
	{
		activities.GET("", h.listActivities)
		activities.GET("/status/:status", h.listActivitiesByStatus)
		activities.GET("/assigned/:assignee", h.listActivitiesByAssignee)
		activities.GET("/:id", h.getActivity)
		activities.POST("", h.createActivity)
		activities.PUT("/:id", h.updateActivity)
		activities.DELETE("/:id", h.deleteActivity)
	}

	projects := router.Group("/projects")
	{
		projects.GET("", h.listProjects)
		projects.GET("/titles", h.projectTitles)
		projects.GET("/:id", h.getProject)
		projects.POST("", h.createProject)
		projects.PUT("/:id", h.updateProject)
		projects.DELETE("/:id", h.deleteProject)
	}

	reports := router.Group("/reports")
	{
		reports.GET("", h.listReports)
		reports.GET("/:id/download", h.downloadReport)
		reports.POST("", h.createReport)
		reports.DELETE("/:id", h.deleteReport)
	}

	auth := router.Group("/auth")
	{
		auth.POST("/register", h.registerUser)
		auth.POST("/login", h.loginUser)
	}

	users := router.Group("/users")
	{
		users.GET("/:id", h.getUser)
		users.PUT("/:id", h.updateUser)
		users.DELETE("/:id", h.deleteUser)
	}

	sms := router.Group("/sms")
	{
		sms.POST("/send", h.sendSMS)
		sms.GET("/test", h.testSMS)
	}

	admin := router.Group("/admin")
	{
		admin.POST("/login", h.adminLogin)
		admin.POST("/setup", h.adminSetup)

		protected := admin.Group("")
		protected.Use(h.requireAdmin())
		{
			protected.POST("/replace", h.adminReplace)
			protected.GET("/users", h.adminListUsers)
			protected.POST("/users", h.adminAddUser)
			protected.GET("/logs", h.systemLogs)
			protected.DELETE("/logs", h.clearSystemLogs)
			protected.GET("/activities/recent", h.recentActivities)
		}
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// parseID reads the :id path parameter. On a malformed id it writes the 400
// response and returns false.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid id"})
		return 0, false
	}
	return id, true
}

// validationErrors are the sentinels surfaced as 400 with their own message
var validationErrors = []error{
	service.ErrTitleRequired,
	service.ErrInvalidDirection,
	service.ErrCustomerFieldsRequired,
	service.ErrActivityFieldsRequired,
	service.ErrReportFieldsRequired,
	service.ErrUnsupportedReportType,
	service.ErrSMSFieldsRequired,
	service.ErrUserFieldsRequired,
	service.ErrAdminFieldsRequired,
	service.ErrUserHasCustomers,
	service.ErrUserIsAdmin,
}

func isValidationError(err error) bool {
	for _, sentinel := range validationErrors {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// fail maps a service error to its HTTP response. notFoundMsg is the message
// used for the 404 case.
func (h *Handler) fail(c *gin.Context, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": notFoundMsg})
	case errors.Is(err, service.ErrDealLocked):
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
	case errors.Is(err, service.ErrUserExists) || errors.Is(err, service.ErrAdminExists):
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
	case isValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	default:
		h.logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
