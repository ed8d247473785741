package transport

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request DTOs
type CreateLeadRequest struct {
	LeadName           string           `json:"leadName" validate:"required,min=1,max=200"`
	CustomerID         *int64           `json:"customerId,omitempty" validate:"omitempty,gt=0"`
	Status             string           `json:"status,omitempty" validate:"omitempty,leadstatus"`
	Priority           string           `json:"priority,omitempty" validate:"omitempty,leadpriority"`
	Company            *string          `json:"company,omitempty" validate:"omitempty,max=100"`
	Model              *string          `json:"model,omitempty" validate:"omitempty,max=100"`
	Trim               *string          `json:"trim,omitempty" validate:"omitempty,max=100"`
	Spec               *string          `json:"spec,omitempty" validate:"omitempty,max=100"`
	Year               *int             `json:"year,omitempty" validate:"omitempty,gte=1950,lte=2100"`
	ExteriorColour     *string          `json:"exteriorColour,omitempty" validate:"omitempty,max=50"`
	InteriorColour     *string          `json:"interiorColour,omitempty" validate:"omitempty,max=50"`
	Gearbox            *string          `json:"gearbox,omitempty" validate:"omitempty,max=50"`
	FuelType           *string          `json:"fuelType,omitempty" validate:"omitempty,max=50"`
	SteeringSide       *string          `json:"steeringSide,omitempty" validate:"omitempty,oneof=LHD RHD"`
	ExportTo           *string          `json:"exportTo,omitempty" validate:"omitempty,max=100"`
	ExportToCountry    *string          `json:"exportToCountry,omitempty" validate:"omitempty,max=100"`
	Quantity           *int             `json:"quantity,omitempty" validate:"omitempty,gte=1,lte=1000"`
	SellingPrice       *decimal.Decimal `json:"sellingPrice,omitempty"`
	CostPrice          *decimal.Decimal `json:"costPrice,omitempty"`
	Notes              *string          `json:"notes,omitempty" validate:"omitempty,max=5000"`
	NotConvertedReason *string          `json:"notConvertedReason,omitempty" validate:"omitempty,max=1000"`
	AssignedTo         *int64           `json:"assignedTo,omitempty" validate:"omitempty,gt=0"`
}

type UpdateLeadRequest struct {
	LeadName        *string          `json:"leadName,omitempty" validate:"omitempty,min=1,max=200"`
	CustomerID      OptionalInt64    `json:"customerId,omitempty" validate:"-"`
	Priority        *string          `json:"priority,omitempty" validate:"omitempty,leadpriority"`
	Company         *string          `json:"company,omitempty" validate:"omitempty,max=100"`
	Model           *string          `json:"model,omitempty" validate:"omitempty,max=100"`
	Trim            *string          `json:"trim,omitempty" validate:"omitempty,max=100"`
	Spec            *string          `json:"spec,omitempty" validate:"omitempty,max=100"`
	Year            *int             `json:"year,omitempty" validate:"omitempty,gte=1950,lte=2100"`
	ExteriorColour  *string          `json:"exteriorColour,omitempty" validate:"omitempty,max=50"`
	InteriorColour  *string          `json:"interiorColour,omitempty" validate:"omitempty,max=50"`
	Gearbox         *string          `json:"gearbox,omitempty" validate:"omitempty,max=50"`
	FuelType        *string          `json:"fuelType,omitempty" validate:"omitempty,max=50"`
	SteeringSide    *string          `json:"steeringSide,omitempty" validate:"omitempty,oneof=LHD RHD"`
	ExportTo        *string          `json:"exportTo,omitempty" validate:"omitempty,max=100"`
	ExportToCountry *string          `json:"exportToCountry,omitempty" validate:"omitempty,max=100"`
	Quantity        *int             `json:"quantity,omitempty" validate:"omitempty,gte=1,lte=1000"`
	SellingPrice    *decimal.Decimal `json:"sellingPrice,omitempty"`
	CostPrice       *decimal.Decimal `json:"costPrice,omitempty"`
	Notes           *string          `json:"notes,omitempty" validate:"omitempty,max=5000"`
}

type UpdateLeadStatusRequest struct {
	Status string  `json:"status" validate:"required,leadstatus"`
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=1000"`
}

type SetLeadActiveRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

type AssignLeadRequest struct {
	AssignedTo *int64 `json:"assignedTo" validate:"omitempty,gt=0"`
}

type ListLeadsRequest struct {
	Status     string `form:"status" validate:"omitempty,leadstatus"`
	Priority   string `form:"priority" validate:"omitempty,leadpriority"`
	Active     *bool  `form:"active"`
	AssignedTo *int64 `form:"assignedTo" validate:"omitempty,gt=0"`
	CustomerID *int64 `form:"customerId" validate:"omitempty,gt=0"`
	Search     string `form:"search" validate:"max=100"`
	Page       int    `form:"page" validate:"omitempty,min=1"`
	PageSize   int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
	SortBy     string `form:"sortBy" validate:"omitempty,oneof=createdAt updatedAt leadName status priority sellingPrice"`
	SortOrder  string `form:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

type ListFinanceLeadsRequest struct {
	State    string `form:"state" validate:"omitempty,oneof=pending approved rejected"`
	Search   string `form:"search" validate:"max=100"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

type RejectLeadRequest struct {
	Reason string `json:"reason" validate:"required,min=1,max=1000"`
}

// Response DTOs
type LeadResponse struct {
	ID                 int64            `json:"id"`
	LeadName           string           `json:"leadName"`
	CustomerID         *int64           `json:"customerId"`
	Status             string           `json:"status"`
	Priority           string           `json:"priority"`
	Company            *string          `json:"company"`
	Model              *string          `json:"model"`
	Trim               *string          `json:"trim"`
	Spec               *string          `json:"spec"`
	Year               *int             `json:"year"`
	ExteriorColour     *string          `json:"exteriorColour"`
	InteriorColour     *string          `json:"interiorColour"`
	Gearbox            *string          `json:"gearbox"`
	FuelType           *string          `json:"fuelType"`
	SteeringSide       *string          `json:"steeringSide"`
	ExportTo           *string          `json:"exportTo"`
	ExportToCountry    *string          `json:"exportToCountry"`
	Quantity           int              `json:"quantity"`
	SellingPrice       *decimal.Decimal `json:"sellingPrice"`
	CostPrice          *decimal.Decimal `json:"costPrice"`
	Margin             *decimal.Decimal `json:"margin"`
	Notes              *string          `json:"notes"`
	NotConvertedReason *string          `json:"notConvertedReason"`
	AssignedTo         *int64           `json:"assignedTo"`
	IsActive           bool             `json:"isActive"`
	FinanceApproved    *bool            `json:"financeApproved"`
	ApprovedBy         *int64           `json:"approvedBy"`
	ApprovedAt         *time.Time       `json:"approvedAt"`
	RejectionReason    *string          `json:"rejectionReason"`
	CommissionPaid     bool             `json:"commissionPaid"`
	CreatedAt          time.Time        `json:"createdAt"`
	UpdatedAt          time.Time        `json:"updatedAt"`
}

type LeadListResponse struct {
	Items      []LeadResponse `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}
