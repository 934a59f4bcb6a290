package visit

import (
	"context"
	"net/http"
	"time"

	"medgenie/internal/handler/http/respond"
)

// StoreProber is the single store read the root health probe needs.
// The visit repository satisfies it.
type StoreProber interface {
	Probe(ctx context.Context) error
}

// RootHandler answers the service-level health probe.
type RootHandler struct{ Store StoreProber }

// ServeHTTP verifies store connectivity by fetching at most one record.
// Any store failure maps to the fixed message below; the underlying error
// text never reaches the client.
// @Summary      Health check
// @Description  Verifies the service is up and the record store is reachable
// @Tags         health
// @Produce      json
// @Success      200 {object} RootResponse "Service healthy"
// @Failure      500 {object} map[string]string "Store unreachable"
// @Router       / [get]
func (h RootHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Store.Probe(ctx); err != nil {
		respond.SafeErrorV2(w, http.StatusInternalServerError,
			respond.NewAppError(http.StatusInternalServerError, "Database connection error", err))
		return
	}

	respond.JSON(w, http.StatusOK, RootResponse{
		Status:  "healthy",
		Message: "MedGenie API is running",
	})
}
