package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/marketday/fleamarket-api/internal/application/service"
	"github.com/marketday/fleamarket-api/internal/presentation/http/dto/request"
	"github.com/marketday/fleamarket-api/internal/presentation/http/dto/response"
)

// VendorHandler handles vendor HTTP requests
type VendorHandler struct {
	vendorService *service.VendorService
}

// NewVendorHandler creates a new vendor handler
func NewVendorHandler(vendorService *service.VendorService) *VendorHandler {
	return &VendorHandler{vendorService: vendorService}
}

// Create handles registering a new vendor
func (h *VendorHandler) Create(c *gin.Context) {
	var req request.CreateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	vendor, err := h.vendorService.Create(c.Request.Context(), &service.CreateVendorInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Vendor created successfully", vendor)
}

// Get handles fetching a vendor by id
func (h *VendorHandler) Get(c *gin.Context) {
	vendorID, err := uuid.Parse(c.Param("vendor_id"))
	if err != nil {
		response.BadRequest(c, "Invalid vendor ID")
		return
	}

	vendor, err := h.vendorService.Get(c.Request.Context(), vendorID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Vendor retrieved successfully", vendor)
}

// Find handles searching vendors by name, email or phone
func (h *VendorHandler) Find(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		response.BadRequest(c, "Query parameter is required")
		return
	}

	vendors, err := h.vendorService.Find(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Vendors retrieved successfully", vendors)
}
