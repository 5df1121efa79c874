package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/marketday/fleamarket-api/internal/application/service"
	"github.com/marketday/fleamarket-api/internal/presentation/http/dto/request"
	"github.com/marketday/fleamarket-api/internal/presentation/http/dto/response"
	"github.com/marketday/fleamarket-api/internal/presentation/http/middleware"
)

// CompensationHandler handles vendor compensation HTTP requests
type CompensationHandler struct {
	compensationService *service.CompensationService
}

// NewCompensationHandler creates a new compensation handler
func NewCompensationHandler(compensationService *service.CompensationService) *CompensationHandler {
	return &CompensationHandler{compensationService: compensationService}
}

// Start handles opening a compensation receipt for a vendor
func (h *CompensationHandler) Start(c *gin.Context) {
	vendorID, err := uuid.Parse(c.Param("vendor_id"))
	if err != nil {
		response.BadRequest(c, "Invalid vendor ID")
		return
	}

	receipt, err := h.compensationService.Start(c.Request.Context(), vendorID, middleware.GetActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Compensation started successfully", receipt)
}

// AddItem handles compensating one sold item into the receipt
func (h *CompensationHandler) AddItem(c *gin.Context) {
	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}
	var req request.ItemCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.compensationService.AddItem(c.Request.Context(), receiptID, req.Code, middleware.GetActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item compensated successfully", result)
}

// Finish handles closing a compensation receipt with commission lines
func (h *CompensationHandler) Finish(c *gin.Context) {
	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	receipt, err := h.compensationService.Finish(c.Request.Context(), receiptID, middleware.GetActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Compensation finished successfully", receipt)
}

// Compensate handles a one-shot compensation of listed items
func (h *CompensationHandler) Compensate(c *gin.Context) {
	var req request.CompensateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	vendorID, err := uuid.Parse(req.VendorID)
	if err != nil {
		response.BadRequest(c, "Invalid vendor ID")
		return
	}

	receipt, err := h.compensationService.Compensate(c.Request.Context(), vendorID, req.Codes, middleware.GetActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Vendor compensated successfully", receipt)
}

// Compensable handles previewing a vendor's compensable items and commission
func (h *CompensationHandler) Compensable(c *gin.Context) {
	vendorID, err := uuid.Parse(c.Param("vendor_id"))
	if err != nil {
		response.BadRequest(c, "Invalid vendor ID")
		return
	}

	result, err := h.compensationService.Compensable(c.Request.Context(), vendorID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Compensable items retrieved successfully", result)
}
