package handlers

import (
	"time"

	"github.com/MohsenMaaleki/windsightai/core/models"
)

type AnalysisDTO struct {
	ID         uint               `json:"id"`
	CreatedAt  time.Time          `json:"createdAt"`
	Status     string             `json:"status"`
	ResultPath *string            `json:"resultPath"`
	Detections []models.Detection `json:"detections"`
	Error      string             `json:"error,omitempty"`
}

type UploadDTO struct {
	ID         uint          `json:"id"`
	Filename   string        `json:"filename"`
	StoredName string        `json:"storedName"`
	UploadedAt time.Time     `json:"uploadedAt"`
	MediaType  string        `json:"mediaType"`
	SizeBytes  int64         `json:"sizeBytes"`
	Analyses   []AnalysisDTO `json:"analyses"`
}

type SubscriptionDTO struct {
	ID        uint       `json:"id"`
	AccountID uint       `json:"accountId"`
	PlanType  string     `json:"planType"`
	StartDate time.Time  `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
	Status    string     `json:"status"`
}

func toAnalysisDTO(a models.Analysis) AnalysisDTO {
	return AnalysisDTO{
		ID:         a.ID,
		CreatedAt:  a.CreatedAt,
		Status:     a.Status,
		ResultPath: a.ResultPath,
		Detections: a.Detections,
		Error:      a.ErrorMessage,
	}
}

func toUploadDTO(up models.Upload) UploadDTO {
	analyses := make([]AnalysisDTO, len(up.Analyses))
	for i, a := range up.Analyses {
		analyses[i] = toAnalysisDTO(a)
	}
	return UploadDTO{
		ID:         up.ID,
		Filename:   up.Filename,
		StoredName: up.StoredName,
		UploadedAt: up.UploadedAt,
		MediaType:  up.MediaType,
		SizeBytes:  up.SizeBytes,
		Analyses:   analyses,
	}
}

func toSubscriptionDTO(sub models.Subscription) SubscriptionDTO {
	return SubscriptionDTO{
		ID:        sub.ID,
		AccountID: sub.AccountID,
		PlanType:  sub.PlanType,
		StartDate: sub.StartDate,
		EndDate:   sub.EndDate,
		Status:    sub.Status,
	}
}
