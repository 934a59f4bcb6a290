package visit

import (
	"net/http"

	visitUC "medgenie/internal/usecase/visit"
)

// Register registers all visit-related HTTP handlers with the given mux.
// It sets up the root health probe, summary creation, diagnosis update, and
// patient history routes. The store probe bypasses the use case layer
// because it reads the store without any business logic.
func Register(mux *http.ServeMux, svc visitUC.Service, store StoreProber) {
	mux.Handle("GET    /{$}", RootHandler{Store: store})
	mux.Handle("POST   /summarize", CreateHandler{Svc: svc})
	mux.Handle("POST   /update_diagnosis", UpdateDiagnosisHandler{Svc: svc})
	mux.Handle("GET    /patient/", HistoryHandler{Svc: svc})
}
