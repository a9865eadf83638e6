package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// sendSMSRequest carries an outbound SMS payload
type sendSMSRequest struct {
	Message      string   `json:"message"`
	PhoneNumbers []string `json:"phone_numbers"`
}

// sendSMS handles sending an SMS through the gateway
func (h *Handler) sendSMS(c *gin.Context) {
	var req sendSMSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	if err := h.smsService.Send(c.Request.Context(), req.Message, req.PhoneNumbers); err != nil {
		h.fail(c, err, "SMS not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "SMS sent successfully"})
}

// testSMS sends a fixed test message to the number given in the query string
func (h *Handler) testSMS(c *gin.Context) {
	number := c.Query("number")
	if number == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "number query parameter is required"})
		return
	}

	if err := h.smsService.Send(c.Request.Context(), "CRM test message", []string{number}); err != nil {
		h.fail(c, err, "SMS not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Test SMS sent successfully"})
}
