package management

import (
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/leads/transport"
)

func ToLeadResponse(lead repository.Lead) transport.LeadResponse {
	return transport.LeadResponse{
		ID:              lead.ID,
		Name:            lead.Name,
		Phone:           lead.Phone,
		Email:           lead.Email,
		College:         lead.College,
		Status:          lead.Status,
		AssignedBOEID:   lead.AssignedBOEID,
		AssignedBOEName: lead.AssignedBOEName,
		Pipeline:        lead.Pipeline,
		RetryCount:      lead.RetryCount,
		NextFollowUpAt:  lead.NextFollowUpAt,
		IsActive:        lead.IsActive,
		CreatedAt:       lead.CreatedAt,
		UpdatedAt:       lead.UpdatedAt,
	}
}

func ToLeadResponseWithConversion(lead repository.Lead, details *repository.ConversionDetails) transport.LeadResponse {
	resp := ToLeadResponse(lead)
	if details != nil {
		resp.Conversion = &transport.ConversionResponse{
			CourseName: details.CourseName,
			CourseFee:  details.CourseFee,
			AmountPaid: details.AmountPaid,
			DueAmount:  details.DueAmount,
		}
	}
	return resp
}
