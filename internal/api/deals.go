package api

import (
	"fmt"
	"net/http"

	"crm-service/internal/service"

	"github.com/gin-gonic/gin"
)

// listDeals handles listing all deals, newest first
func (h *Handler) listDeals(c *gin.Context) {
	deals, err := h.dealService.ListDeals(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Deals not found")
		return
	}
	c.JSON(http.StatusOK, deals)
}

// getDeal handles get deal by ID
func (h *Handler) getDeal(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	deal, err := h.dealService.GetDeal(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "Deal not found")
		return
	}
	c.JSON(http.StatusOK, deal)
}

// createDeal handles deal creation. The response carries a fresh pipeline
// summary, null when the recompute failed.
func (h *Handler) createDeal(c *gin.Context) {
	var req service.DealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	deal, summary, err := h.dealService.CreateDeal(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err, "Deal not found")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":      deal.ID,
		"message": "Deal created successfully",
		"summary": summary,
	})
}

// updateDeal handles full replacement of a deal's fields
func (h *Handler) updateDeal(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req service.DealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	summary, err := h.dealService.UpdateDeal(c.Request.Context(), id, &req)
	if err != nil {
		h.fail(c, err, "Deal not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Deal updated successfully",
		"summary": summary,
	})
}

// deleteDeal handles deal deletion
func (h *Handler) deleteDeal(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	summary, err := h.dealService.DeleteDeal(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "Deal not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Deal deleted successfully",
		"summary": summary,
	})
}

// progressDealRequest carries the transition direction
type progressDealRequest struct {
	Direction string `json:"direction"`
}

// progressDeal handles a single stage transition
func (h *Handler) progressDeal(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req progressDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	result, err := h.dealService.ProgressDeal(c.Request.Context(), id, req.Direction)
	if err != nil {
		h.fail(c, err, "Deal not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     fmt.Sprintf("Deal progressed to %s", result.Stage),
		"stage":       result.Stage,
		"probability": result.Probability,
		"summary":     result.Summary,
	})
}

// pipelineSummary handles the pipeline snapshot with recent deals
func (h *Handler) pipelineSummary(c *gin.Context) {
	summary, err := h.dealService.Summary(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Summary not found")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// stageBreakdown handles the per-stage count and value breakdown
func (h *Handler) stageBreakdown(c *gin.Context) {
	stats, err := h.dealService.StageBreakdown(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Stage breakdown not found")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// deadlineReminders lists non-terminal deals due within the reminder window
func (h *Handler) deadlineReminders(c *gin.Context) {
	deals, err := h.dealService.DealsNearingDeadline(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Deals not found")
		return
	}
	c.JSON(http.StatusOK, deals)
}
