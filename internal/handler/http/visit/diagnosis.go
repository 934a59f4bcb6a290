package visit

import (
	"encoding/json"
	"errors"
	"net/http"

	"medgenie/internal/domain/entity"
	"medgenie/internal/handler/http/respond"
	visitUC "medgenie/internal/usecase/visit"
)

type UpdateDiagnosisHandler struct{ Svc visitUC.Service }

// ServeHTTP records a diagnosis on an existing visit.
// An id belonging to a different patient answers 404 exactly like an unknown
// id, so the endpoint cannot be used to probe which ids exist.
// @Summary      Update diagnosis
// @Description  Records the diagnosis on a visit and moves it to status completed
// @Tags         visits
// @Accept       json
// @Produce      json
// @Param        diagnosis body UpdateDiagnosisRequest true "Document id, diagnosis and patient id"
// @Success      200 {object} UpdateDiagnosisResponse "Diagnosis recorded"
// @Failure      400 {object} map[string]string "Missing required field"
// @Failure      404 {object} map[string]string "Unknown document id"
// @Failure      500 {object} map[string]string "Store failure"
// @Router       /update_diagnosis [post]
func (h UpdateDiagnosisHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req UpdateDiagnosisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	err := h.Svc.UpdateDiagnosis(r.Context(), visitUC.UpdateDiagnosisInput{
		DocumentID: req.DocumentID,
		Diagnosis:  req.Diagnosis,
		PatientID:  req.PatientID,
	})
	if err != nil {
		var vErr *entity.ValidationError
		switch {
		case errors.As(err, &vErr):
			respond.SafeError(w, http.StatusBadRequest, err)
		case errors.Is(err, visitUC.ErrVisitNotFound):
			respond.SafeErrorV2(w, http.StatusNotFound,
				respond.NewAppError(http.StatusNotFound, "Document not found", nil))
		default:
			respond.SafeError(w, http.StatusInternalServerError, err)
		}
		return
	}

	respond.JSON(w, http.StatusOK, UpdateDiagnosisResponse{
		Status:     "success",
		DocumentID: req.DocumentID,
		Message:    "Diagnosis updated successfully",
	})
}
