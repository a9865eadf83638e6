package api

import (
	"net/http"

	"crm-service/internal/service"

	"github.com/gin-gonic/gin"
)

// listCustomers handles listing all customers
func (h *Handler) listCustomers(c *gin.Context) {
	customers, err := h.customerService.ListCustomers(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Customers not found")
		return
	}
	c.JSON(http.StatusOK, customers)
}

// getCustomer handles get customer by ID
func (h *Handler) getCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	customer, err := h.customerService.GetCustomer(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "Customer not found")
		return
	}
	c.JSON(http.StatusOK, customer)
}

// createCustomer handles customer creation
func (h *Handler) createCustomer(c *gin.Context) {
	var req service.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err, "Customer not found")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":      customer.ID,
		"message": "Customer added successfully",
	})
}

// updateCustomer handles customer update
func (h *Handler) updateCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req service.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	if err := h.customerService.UpdateCustomer(c.Request.Context(), id, &req); err != nil {
		h.fail(c, err, "Customer not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer updated successfully"})
}

// deleteCustomer handles customer deletion together with dependent records
func (h *Handler) deleteCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	customer, err := h.customerService.DeleteCustomer(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "Customer not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Customer and all associated records deleted successfully",
		"customer": customer,
	})
}

// serviceStatistics handles the statistics dashboard aggregate
func (h *Handler) serviceStatistics(c *gin.Context) {
	c.JSON(http.StatusOK, h.customerService.GetServiceStatistics(c.Request.Context()))
}

// customerTrends handles the month-over-month growth aggregate
func (h *Handler) customerTrends(c *gin.Context) {
	c.JSON(http.StatusOK, h.customerService.GetTrends(c.Request.Context()))
}

// newCustomersThisMonth handles the current-month customer count
func (h *Handler) newCustomersThisMonth(c *gin.Context) {
	count, err := h.customerService.NewCustomersThisMonth(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Customers not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}
