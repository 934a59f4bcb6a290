package visit

import (
	"encoding/json"
	"errors"
	"net/http"

	"medgenie/internal/domain/entity"
	"medgenie/internal/handler/http/respond"
	visitUC "medgenie/internal/usecase/visit"
)

type CreateHandler struct{ Svc visitUC.Service }

// ServeHTTP creates a summarized visit record.
// @Summary      Create visit summary
// @Description  Summarizes the visit text and stores a new record with status pending_diagnosis
// @Tags         visits
// @Accept       json
// @Produce      json
// @Param        visit body CreateRequest true "Visit text and patient id"
// @Success      200 {object} CreateResponse "Stored summary"
// @Failure      400 {object} map[string]string "Missing required field"
// @Failure      500 {object} map[string]string "Store failure"
// @Router       /summarize [post]
func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := h.Svc.CreateSummary(r.Context(), visitUC.CreateInput{
		Text:      req.Text,
		PatientID: req.PatientID,
		VisitDate: req.VisitDate,
	})
	if err != nil {
		var vErr *entity.ValidationError
		if errors.As(err, &vErr) {
			respond.SafeError(w, http.StatusBadRequest, err)
			return
		}
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	respond.JSON(w, http.StatusOK, CreateResponse{
		DocumentID: res.DocumentID,
		Summary:    res.Summary,
		Status:     "success",
	})
}
