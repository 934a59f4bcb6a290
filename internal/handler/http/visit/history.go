package visit

import (
	"errors"
	"net/http"

	"medgenie/internal/domain/entity"
	"medgenie/internal/handler/http/pathutil"
	"medgenie/internal/handler/http/respond"
	visitUC "medgenie/internal/usecase/visit"
)

type HistoryHandler struct{ Svc visitUC.Service }

// ServeHTTP returns the patient's visit records ordered by visit date
// descending. A patient with zero records is a success with an explanatory
// message, never an error.
// @Summary      Patient history
// @Description  Retrieves all visit records for a patient, newest visit date first
// @Tags         visits
// @Produce      json
// @Param        patient_id path string true "Patient identifier"
// @Success      200 {object} HistoryResponse "Visit records"
// @Failure      400 {object} map[string]string "Malformed path"
// @Failure      500 {object} map[string]string "Store failure"
// @Router       /patient/{patient_id}/history [get]
func (h HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	patientID, err := pathutil.ExtractPatientID(r.URL.Path)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	visits, err := h.Svc.History(r.Context(), patientID)
	if err != nil {
		var vErr *entity.ValidationError
		if errors.As(err, &vErr) {
			respond.SafeError(w, http.StatusBadRequest, err)
			return
		}
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	data := make([]DTO, 0, len(visits))
	for _, v := range visits {
		data = append(data, toDTO(v))
	}

	res := HistoryResponse{Status: "success", Data: data}
	if len(data) == 0 {
		res.Message = "No records found for this patient"
	}
	respond.JSON(w, http.StatusOK, res)
}
