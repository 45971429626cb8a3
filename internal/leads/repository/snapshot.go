package repository

import "leadflow_backend/internal/leads/domain"

// Snapshot converts the persisted row into the in-memory form the
// classifier and the analytics reducers compute over.
func (l Lead) Snapshot() domain.Lead {
	return domain.Lead{
		ID:              l.ID,
		Name:            l.Name,
		Phone:           l.Phone,
		Email:           l.Email,
		College:         l.College,
		Status:          domain.Status(l.Status),
		AssignedBOEID:   l.AssignedBOEID,
		AssignedBOEName: l.AssignedBOEName,
		Pipeline:        l.Pipeline,
		RetryCount:      l.RetryCount,
		NextFollowUpAt:  l.NextFollowUpAt,
		IsActive:        l.IsActive,
		ConversionDue:   l.ConversionDue,
		CreatedAt:       l.CreatedAt,
	}
}

// Snapshots maps a result set in bulk.
func Snapshots(leads []Lead) []domain.Lead {
	out := make([]domain.Lead, len(leads))
	for i, l := range leads {
		out[i] = l.Snapshot()
	}
	return out
}
