package transport

import "time"

type CreateCustomerRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email,max=200"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,max=40"`
	Nationality *string `json:"nationality,omitempty" validate:"omitempty,max=100"`
	Notes       *string `json:"notes,omitempty" validate:"omitempty,max=5000"`
}

type UpdateCustomerRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email,max=200"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,max=40"`
	Nationality *string `json:"nationality,omitempty" validate:"omitempty,max=100"`
	Notes       *string `json:"notes,omitempty" validate:"omitempty,max=5000"`
}

type ListCustomersRequest struct {
	Search   string `form:"search" validate:"omitempty,max=100"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

type PresignDocumentRequest struct {
	FileName    string `json:"fileName" validate:"required,min=1,max=255"`
	ContentType string `json:"contentType" validate:"required,max=200"`
	SizeBytes   int64  `json:"sizeBytes" validate:"required,gt=0"`
}

type RegisterDocumentRequest struct {
	FileKey     string `json:"fileKey" validate:"required,max=500"`
	FileName    string `json:"fileName" validate:"required,min=1,max=255"`
	ContentType string `json:"contentType" validate:"required,max=200"`
}

type CustomerResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Email       *string   `json:"email"`
	Phone       *string   `json:"phone"`
	Nationality *string   `json:"nationality"`
	Notes       *string   `json:"notes"`
	CreatedBy   *int64    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CustomerListResponse struct {
	Items      []CustomerResponse `json:"items"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"pageSize"`
	TotalPages int                `json:"totalPages"`
}

type PresignedUploadResponse struct {
	UploadURL string    `json:"uploadUrl"`
	FileKey   string    `json:"fileKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type DocumentResponse struct {
	ID          int64     `json:"id"`
	CustomerID  int64     `json:"customerId"`
	FileKey     string    `json:"fileKey"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes"`
	UploadedBy  *int64    `json:"uploadedBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

type DownloadURLResponse struct {
	DownloadURL string    `json:"downloadUrl"`
	ExpiresAt   time.Time `json:"expiresAt"`
}
