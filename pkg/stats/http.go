package stats

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/openrelief/masterlist/pkg/common/logger"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

func (h *HTTPHandler) Register(router *mux.Router) {
	router.HandleFunc("/dashboard/stats", h.handleOverview).Methods(http.MethodGet)
}

func (h *HTTPHandler) handleOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.Overview(r.Context(), r.Header.Get("X-User-ID"))
	if err != nil {
		logger.Log.WithError(err).Error("failed to compute dashboard stats")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(overview)
}
