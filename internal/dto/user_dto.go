package dto

import (
	"time"

	"github.com/google/uuid"
)

type UserProfileResponse struct {
	Id           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	CompanyName  *string   `json:"company_name"`
	Industry     *string   `json:"industry"`
	BusinessType *string   `json:"business_type"`
	CompanySize  *string   `json:"company_size"`
	CreatedAt    time.Time `json:"created_at"`
}

type UpdateProfileRequest struct {
	FullName     *string `json:"full_name,omitempty"`
	CompanyName  *string `json:"company_name,omitempty"`
	Industry     *string `json:"industry,omitempty"`
	BusinessType *string `json:"business_type,omitempty"`
	CompanySize  *string `json:"company_size,omitempty"`
}

type UpdateBusinessContextRequest struct {
	CompanyName  *string `json:"company_name,omitempty"`
	Industry     *string `json:"industry,omitempty"`
	BusinessType *string `json:"business_type,omitempty"`
	CompanySize  *string `json:"company_size,omitempty"`
}

// BusinessContext is the transient grounding payload attached to completion
// requests. It is sourced from the user profile at send time and never
// persisted as its own entity.
type BusinessContext struct {
	Company      string `json:"company,omitempty"`
	Industry     string `json:"industry,omitempty"`
	BusinessType string `json:"business_type,omitempty"`
	CompanySize  string `json:"company_size,omitempty"`
}

func (bc *BusinessContext) IsEmpty() bool {
	return bc == nil || (bc.Company == "" && bc.Industry == "" && bc.BusinessType == "" && bc.CompanySize == "")
}
