package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/marketday/fleamarket-api/internal/application/service"
	"github.com/marketday/fleamarket-api/internal/presentation/http/dto/request"
	"github.com/marketday/fleamarket-api/internal/presentation/http/dto/response"
	"github.com/marketday/fleamarket-api/internal/presentation/http/middleware"
)

// ReceiptHandler handles sale receipt HTTP requests
type ReceiptHandler struct {
	receiptService *service.ReceiptService
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receiptService *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// Start handles opening a new pending sale receipt
func (h *ReceiptHandler) Start(c *gin.Context) {
	receipt, err := h.receiptService.Start(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Receipt started successfully", receipt)
}

// Reserve handles staging an item into a pending receipt
func (h *ReceiptHandler) Reserve(c *gin.Context) {
	var req request.ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	receiptID, err := uuid.Parse(req.ReceiptID)
	if err != nil {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	result, err := h.receiptService.Reserve(c.Request.Context(), req.Code, receiptID, middleware.GetActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item reserved successfully", result)
}

// Release handles undoing a reservation
func (h *ReceiptHandler) Release(c *gin.Context) {
	var req request.ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	receiptID, err := uuid.Parse(req.ReceiptID)
	if err != nil {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	removal, err := h.receiptService.Release(c.Request.Context(), req.Code, receiptID, middleware.GetActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item released successfully", removal)
}

// Finish handles completing a pending sale receipt
func (h *ReceiptHandler) Finish(c *gin.Context) {
	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	receipt, err := h.receiptService.Finish(c.Request.Context(), receiptID, middleware.GetActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt finished successfully", receipt)
}

// Abort handles cancelling a pending receipt
func (h *ReceiptHandler) Abort(c *gin.Context) {
	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	receipt, err := h.receiptService.Abort(c.Request.Context(), receiptID, middleware.GetActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt aborted successfully", receipt)
}

// Get handles fetching a receipt with its lines
func (h *ReceiptHandler) Get(c *gin.Context) {
	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	receipt, err := h.receiptService.Get(c.Request.Context(), receiptID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt retrieved successfully", receipt)
}

// GetByItem handles finding the receipt currently holding an item
func (h *ReceiptHandler) GetByItem(c *gin.Context) {
	receipt, err := h.receiptService.GetByItem(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt retrieved successfully", receipt)
}

// Activate handles resuming a clerk's pending receipt after re-login
func (h *ReceiptHandler) Activate(c *gin.Context) {
	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	receipt, err := h.receiptService.Activate(c.Request.Context(), receiptID, middleware.GetActor(c).ClerkID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt activated successfully", receipt)
}

// ListPending handles listing all pending receipts, for overseers
func (h *ReceiptHandler) ListPending(c *gin.Context) {
	receipts, err := h.receiptService.ListPending(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipts retrieved successfully", receipts)
}
