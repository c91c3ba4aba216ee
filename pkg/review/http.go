package review

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/openrelief/masterlist/pkg/common/logger"
	"github.com/openrelief/masterlist/pkg/common/models"
	"github.com/openrelief/masterlist/pkg/dedup"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

func (h *HTTPHandler) Register(router *mux.Router) {
	router.HandleFunc("/masterlists/{id}/pairs", h.handleList).Methods(http.MethodGet)
	router.HandleFunc("/duplicate-pairs/{id}", h.handleUpdate).Methods(http.MethodPatch)
}

func (h *HTTPHandler) handleList(w http.ResponseWriter, r *http.Request) {
	masterlistID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "invalid masterlist id", http.StatusBadRequest)
		return
	}

	query := r.URL.Query()
	limit, _ := strconv.Atoi(query.Get("limit"))
	offset, _ := strconv.Atoi(query.Get("offset"))

	pairs, err := h.service.List(r.Context(), masterlistID, query.Get("status"), limit, offset)
	if err != nil {
		logger.Log.WithError(err).Error("failed to list duplicate pairs")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(pairs)
}

func (h *HTTPHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	pairID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "invalid pair id", http.StatusBadRequest)
		return
	}

	var req models.ReviewUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	pair, err := h.service.Decide(r.Context(), pairID, dedup.PairStatus(req.Status))
	if err != nil {
		if errors.Is(err, ErrInvalidStatus) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if errors.Is(err, ErrPairNotFound) {
			http.Error(w, "duplicate pair not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to update duplicate pair")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(pair)
}
