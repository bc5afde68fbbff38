package dto

import (
	"github.com/finbooks/finbooks/internal/core/domain"
)

// CreateCompanyRequest is the payload for creating a company.
type CreateCompanyRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=255"`
	TaxID string `json:"taxID" binding:"omitempty,max=50"`
}

// CompanyResponse is the API representation of a company.
type CompanyResponse struct {
	CompanyID  string `json:"companyID"`
	Name       string `json:"name"`
	TaxID      string `json:"taxID,omitempty"`
	IsArchived bool   `json:"isArchived"`
}

// ToCompanyResponse maps a domain company to its API shape.
func ToCompanyResponse(c *domain.Company) CompanyResponse {
	return CompanyResponse{
		CompanyID:  c.CompanyID,
		Name:       c.Name,
		TaxID:      c.TaxID,
		IsArchived: c.IsArchived,
	}
}
