package handlers

import (
	"github.com/citizen-voice/feedback-service/internal/api/dto"
	"github.com/citizen-voice/feedback-service/internal/domain"
	"github.com/citizen-voice/feedback-service/internal/service"
)

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Phone:     user.Phone,
		Role:      user.Role,
		AgencyID:  user.AgencyID,
		Address:   user.Address,
		City:      user.City,
		Country:   user.Country,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func agencyResponse(agency *domain.Agency) dto.AgencyResponse {
	return dto.AgencyResponse{
		ID:          agency.ID,
		Name:        agency.Name,
		Email:       agency.Email,
		Phone:       agency.Phone,
		Address:     agency.Address,
		Description: agency.Description,
		CreatedAt:   agency.CreatedAt,
		UpdatedAt:   agency.UpdatedAt,
	}
}

func categoryResponse(view *domain.CategoryView) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:         view.ID,
		Name:       view.Name,
		AgencyID:   view.AgencyID,
		AgencyName: view.AgencyName,
		CreatedAt:  view.CreatedAt,
		UpdatedAt:  view.UpdatedAt,
	}
}

func submissionResponse(s *domain.Submission) dto.SubmissionResponse {
	return dto.SubmissionResponse{
		ID:            s.ID,
		UserID:        s.UserID,
		CategoryID:    s.CategoryID,
		AgencyID:      s.AgencyID,
		Title:         s.Title,
		Description:   s.Description,
		Type:          s.Type,
		Status:        s.Status,
		Location:      s.Location,
		AttachmentURL: s.AttachmentURL,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func submissionList(submissions []domain.Submission) []dto.SubmissionResponse {
	items := make([]dto.SubmissionResponse, 0, len(submissions))
	for i := range submissions {
		items = append(items, submissionResponse(&submissions[i]))
	}
	return items
}

func submissionDetailResponse(detail *service.SubmissionDetail) dto.SubmissionDetailResponse {
	return dto.SubmissionDetailResponse{
		SubmissionResponse: submissionResponse(&detail.Submission),
		CategoryName:       detail.CategoryName,
		AgencyName:         detail.AgencyName,
		AuthorName:         detail.AuthorName,
	}
}

func submissionThreadResponse(thread *service.SubmissionThread) dto.SubmissionThreadResponse {
	return dto.SubmissionThreadResponse{
		SubmissionResponse: submissionResponse(&thread.Submission),
		Responses:          responseList(thread.Responses),
	}
}

func summaryResponse(row service.SubmissionSummary) dto.SubmissionSummaryResponse {
	return dto.SubmissionSummaryResponse{
		ID:         row.ID,
		Title:      row.Title,
		Type:       row.Type,
		Status:     row.Status,
		Settled:    row.Settled,
		UserID:     row.UserID,
		AgencyID:   row.AgencyID,
		CategoryID: row.CategoryID,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}

func historyResponse(h domain.SubmissionHistory) dto.HistoryResponse {
	return dto.HistoryResponse{
		ID:         h.ID,
		ChangedBy:  h.ChangedBy,
		ChangeType: h.ChangeType,
		OldValue:   h.OldValue,
		NewValue:   h.NewValue,
		CreatedAt:  h.CreatedAt,
	}
}

func adminResponse(r *domain.AdminResponse) dto.AdminResponseResponse {
	return dto.AdminResponseResponse{
		ID:           r.ID,
		SubmissionID: r.SubmissionID,
		ResponderID:  r.ResponderID,
		Message:      r.Message,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func responseList(responses []domain.AdminResponse) []dto.AdminResponseResponse {
	items := make([]dto.AdminResponseResponse, 0, len(responses))
	for i := range responses {
		items = append(items, adminResponse(&responses[i]))
	}
	return items
}
