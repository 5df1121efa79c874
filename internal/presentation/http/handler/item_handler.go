package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/marketday/fleamarket-api/internal/application/service"
	"github.com/marketday/fleamarket-api/internal/domain/enum"
	"github.com/marketday/fleamarket-api/internal/domain/repository"
	"github.com/marketday/fleamarket-api/internal/presentation/http/dto/request"
	"github.com/marketday/fleamarket-api/internal/presentation/http/dto/response"
	"github.com/marketday/fleamarket-api/internal/presentation/http/middleware"
	"github.com/marketday/fleamarket-api/pkg/pagination"
)

// ItemHandler handles item ledger HTTP requests
type ItemHandler struct {
	ledgerService *service.LedgerService
}

// NewItemHandler creates a new item handler
func NewItemHandler(ledgerService *service.LedgerService) *ItemHandler {
	return &ItemHandler{ledgerService: ledgerService}
}

// Register handles registering a new item for a vendor
func (h *ItemHandler) Register(c *gin.Context) {
	var req request.RegisterItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	vendorID, err := uuid.Parse(req.VendorID)
	if err != nil {
		response.BadRequest(c, "Invalid vendor ID")
		return
	}

	item, err := h.ledgerService.RegisterItem(c.Request.Context(), &service.RegisterItemInput{
		VendorID: vendorID,
		Name:     req.Name,
		Price:    req.Price,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Item registered successfully", item)
}

// Find handles looking up an item by barcode
func (h *ItemHandler) Find(c *gin.Context) {
	code := c.Param("code")
	checkAvailability := c.Query("available") == "true"

	result, err := h.ledgerService.Find(c.Request.Context(), code, checkAvailability)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item retrieved successfully", result)
}

// Checkin handles bringing an advertised item to the event
func (h *ItemHandler) Checkin(c *gin.Context) {
	var req request.ItemCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.ledgerService.Checkin(c.Request.Context(), req.Code, middleware.GetActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item checked in successfully", result)
}

// Checkout handles returning an unsold item to its owner
func (h *ItemHandler) Checkout(c *gin.Context) {
	var req request.ItemCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.ledgerService.Checkout(c.Request.Context(), req.Code, middleware.GetActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item checked out successfully", result)
}

// MarkMissing handles recording that a brought item cannot be located
func (h *ItemHandler) MarkMissing(c *gin.Context) {
	var req request.ItemCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.ledgerService.MarkMissing(c.Request.Context(), req.Code, middleware.GetActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item marked as missing", result)
}

// MarkLost handles flagging an item as lost property
func (h *ItemHandler) MarkLost(c *gin.Context) {
	var req request.ItemCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.ledgerService.MarkLost(c.Request.Context(), req.Code)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item marked as lost property", item)
}

// Abandon handles flagging all of a vendor's remaining items as abandoned
func (h *ItemHandler) Abandon(c *gin.Context) {
	vendorID, err := uuid.Parse(c.Param("vendor_id"))
	if err != nil {
		response.BadRequest(c, "Invalid vendor ID")
		return
	}

	count, err := h.ledgerService.AbandonAll(c.Request.Context(), vendorID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Items abandoned successfully", gin.H{"count": count})
}

// ListByVendor handles listing a vendor's items
func (h *ItemHandler) ListByVendor(c *gin.Context) {
	vendorID, err := uuid.Parse(c.Param("vendor_id"))
	if err != nil {
		response.BadRequest(c, "Invalid vendor ID")
		return
	}

	var state *enum.ItemState
	if stateStr := c.Query("state"); stateStr != "" {
		stateInt, err := strconv.Atoi(stateStr)
		if err != nil || !enum.ItemState(stateInt).Valid() {
			response.BadRequest(c, "Invalid item state")
			return
		}
		s := enum.ItemState(stateInt)
		state = &s
	}

	items, err := h.ledgerService.ListByVendor(c.Request.Context(), vendorID, state)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Items retrieved successfully", items)
}

// Search handles overseer item search with filters
func (h *ItemHandler) Search(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &repository.ItemFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
		Query: c.Query("query"),
		Code:  c.Query("code"),
	}
	params.Pagination.Validate()

	if vendorIDStr := c.Query("vendor_id"); vendorIDStr != "" {
		if vendorID, err := uuid.Parse(vendorIDStr); err == nil {
			params.VendorID = &vendorID
		}
	}

	if stateStr := c.Query("state"); stateStr != "" {
		if stateInt, err := strconv.Atoi(stateStr); err == nil && enum.ItemState(stateInt).Valid() {
			params.States = []enum.ItemState{enum.ItemState(stateInt)}
		}
	}

	if minStr := c.Query("min_price"); minStr != "" {
		if min, err := strconv.ParseInt(minStr, 10, 64); err == nil {
			params.MinPrice = &min
		}
	}

	if maxStr := c.Query("max_price"); maxStr != "" {
		if max, err := strconv.ParseInt(maxStr, 10, 64); err == nil {
			params.MaxPrice = &max
		}
	}

	result, err := h.ledgerService.Search(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Items retrieved successfully", result)
}

// Edit handles an overseer price/state correction
func (h *ItemHandler) Edit(c *gin.Context) {
	var req request.EditItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.ledgerService.Edit(c.Request.Context(), &service.EditItemInput{
		Code:  req.Code,
		Price: req.Price,
		State: enum.ItemState(req.State),
	}, middleware.GetActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item updated successfully", item)
}
