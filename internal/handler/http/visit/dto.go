// Package visit provides HTTP handlers for visit summary endpoints.
// It includes handlers for creating summaries, recording diagnoses,
// retrieving per-patient history, and the root health probe.
package visit

import (
	"time"

	"medgenie/internal/domain/entity"
)

// DTO represents the JSON structure for a stored visit record.
// updated_at is omitted until the first diagnosis update.
type DTO struct {
	ID           string     `json:"id" example:"4f6b2c1e-9d07-4a38-bb41-52c9d2a01f7e"`
	OriginalText string     `json:"original_text" example:"Patient presented with persistent cough and mild fever."`
	Summary      string     `json:"summary" example:"Persistent cough and mild fever."`
	PatientID    string     `json:"patient_id" example:"p-1001"`
	VisitDate    string     `json:"visit_date" example:"2025-03-10T09:30:00Z"`
	Timestamp    time.Time  `json:"timestamp" example:"2025-03-10T09:31:02Z"`
	Diagnosis    string     `json:"diagnosis" example:"Acute bronchitis"`
	Status       string     `json:"status" example:"pending_diagnosis"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

func toDTO(v *entity.Visit) DTO {
	dto := DTO{
		ID:           v.ID,
		OriginalText: v.OriginalText,
		Summary:      v.Summary,
		PatientID:    v.PatientID,
		VisitDate:    v.VisitDate,
		Timestamp:    v.Timestamp,
		Diagnosis:    v.Diagnosis,
		Status:       v.Status,
	}
	if !v.UpdatedAt.IsZero() {
		updatedAt := v.UpdatedAt
		dto.UpdatedAt = &updatedAt
	}
	return dto
}

// CreateRequest is the body of POST /summarize.
type CreateRequest struct {
	Text      string `json:"text" example:"Patient presented with persistent cough and mild fever."`
	PatientID string `json:"patient_id" example:"p-1001"`
	VisitDate string `json:"visit_date,omitempty" example:"2025-03-10T09:30:00Z"`
}

// CreateResponse is the body returned by POST /summarize.
type CreateResponse struct {
	DocumentID string `json:"document_id" example:"4f6b2c1e-9d07-4a38-bb41-52c9d2a01f7e"`
	Summary    string `json:"summary" example:"Persistent cough and mild fever."`
	Status     string `json:"status" example:"success"`
}

// UpdateDiagnosisRequest is the body of POST /update_diagnosis.
type UpdateDiagnosisRequest struct {
	DocumentID string `json:"document_id" example:"4f6b2c1e-9d07-4a38-bb41-52c9d2a01f7e"`
	Diagnosis  string `json:"diagnosis" example:"Acute bronchitis"`
	PatientID  string `json:"patient_id" example:"p-1001"`
}

// UpdateDiagnosisResponse is the body returned by POST /update_diagnosis.
type UpdateDiagnosisResponse struct {
	Status     string `json:"status" example:"success"`
	DocumentID string `json:"document_id" example:"4f6b2c1e-9d07-4a38-bb41-52c9d2a01f7e"`
	Message    string `json:"message" example:"Diagnosis updated successfully"`
}

// HistoryResponse is the body returned by GET /patient/{patient_id}/history.
// Message is set only when the patient has no records.
type HistoryResponse struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message,omitempty" example:"No records found for this patient"`
	Data    []DTO  `json:"data"`
}

// RootResponse is the body returned by the GET / health probe.
type RootResponse struct {
	Status  string `json:"status" example:"healthy"`
	Message string `json:"message" example:"MedGenie API is running"`
}
