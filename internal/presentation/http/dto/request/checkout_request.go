package request

// LoginRequest represents a clerk login request
type LoginRequest struct {
	AccessCode string `json:"access_code" binding:"required"`
	Counter    string `json:"counter" binding:"required"`
}

// ValidateCounterRequest represents a counter validation request
type ValidateCounterRequest struct {
	Counter string `json:"counter" binding:"required"`
}

// RegisterItemRequest represents a vendor item registration request
type RegisterItemRequest struct {
	VendorID string `json:"vendor_id" binding:"required,uuid"`
	Name     string `json:"name" binding:"required,max=255"`
	Price    int64  `json:"price" binding:"min=0"`
}

// ItemCodeRequest carries a single item barcode
type ItemCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// ReserveRequest reserves an item onto a pending receipt
type ReserveRequest struct {
	Code      string `json:"code" binding:"required"`
	ReceiptID string `json:"receipt_id" binding:"required,uuid"`
}

// EditItemRequest represents an overseer item correction
type EditItemRequest struct {
	Code  string `json:"code" binding:"required"`
	Price int64  `json:"price" binding:"min=0"`
	State int    `json:"state"`
}

// CompensateRequest runs a one-shot compensation for a vendor
type CompensateRequest struct {
	VendorID string   `json:"vendor_id" binding:"required,uuid"`
	Codes    []string `json:"codes" binding:"required,min=1"`
}

// CreateClerkRequest provisions a new clerk
type CreateClerkRequest struct {
	Name     string `json:"name" binding:"required,max=255"`
	Overseer bool   `json:"overseer"`
}

// CreateVendorRequest registers a new vendor
type CreateVendorRequest struct {
	Name  string `json:"name" binding:"required,max=255"`
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone"`
}
