package management

import (
	"dealership_crm_backend/internal/leads/domain"
	"dealership_crm_backend/internal/leads/transport"
)

// ToLeadResponse converts a domain lead to its API shape.
func ToLeadResponse(l domain.Lead) transport.LeadResponse {
	return transport.LeadResponse{
		ID:                 l.ID,
		LeadName:           l.LeadName,
		CustomerID:         l.CustomerID,
		Status:             l.Status.String(),
		Priority:           l.Priority.String(),
		Company:            l.Company,
		Model:              l.Model,
		Trim:               l.Trim,
		Spec:               l.Spec,
		Year:               l.Year,
		ExteriorColour:     l.ExteriorColour,
		InteriorColour:     l.InteriorColour,
		Gearbox:            l.Gearbox,
		FuelType:           l.FuelType,
		SteeringSide:       l.SteeringSide,
		ExportTo:           l.ExportTo,
		ExportToCountry:    l.ExportToCountry,
		Quantity:           l.Quantity,
		SellingPrice:       l.SellingPrice,
		CostPrice:          l.CostPrice,
		Margin:             l.Margin(),
		Notes:              l.Notes,
		NotConvertedReason: l.NotConvertedReason,
		AssignedTo:         l.AssignedTo,
		IsActive:           l.IsActive,
		FinanceApproved:    l.FinanceApproved,
		ApprovedBy:         l.ApprovedBy,
		ApprovedAt:         l.ApprovedAt,
		RejectionReason:    l.RejectionReason,
		CommissionPaid:     l.CommissionPaid,
		CreatedAt:          l.CreatedAt,
		UpdatedAt:          l.UpdatedAt,
	}
}

// ToLeadListResponse wraps a page of leads.
func ToLeadListResponse(leads []domain.Lead, total, page, pageSize int) transport.LeadListResponse {
	items := make([]transport.LeadResponse, len(leads))
	for i, l := range leads {
		items[i] = ToLeadResponse(l)
	}
	return transport.LeadListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}
}

// NormalizePage clamps page and pageSize to 1..100 with a default size of 20.
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
