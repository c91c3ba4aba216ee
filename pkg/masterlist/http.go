package masterlist

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/openrelief/masterlist/pkg/common/kafka"
	"github.com/openrelief/masterlist/pkg/common/logger"
	"github.com/openrelief/masterlist/pkg/common/models"
)

type HTTPHandler struct {
	service  *Service
	producer *kafka.Producer
	maxBody  int64
}

func NewHTTPHandler(service *Service, producer *kafka.Producer, maxBody int64) *HTTPHandler {
	return &HTTPHandler{service: service, producer: producer, maxBody: maxBody}
}

func (h *HTTPHandler) Register(router *mux.Router) {
	router.HandleFunc("/masterlists", h.handleUpload).Methods(http.MethodPost)
	router.HandleFunc("/masterlists", h.handleList).Methods(http.MethodGet)
	router.HandleFunc("/masterlists/{id}", h.handleGet).Methods(http.MethodGet)
	router.HandleFunc("/masterlists/{id}", h.handleDelete).Methods(http.MethodDelete)
	router.HandleFunc("/masterlists/{id}/deduplicate", h.handleDeduplicate).Methods(http.MethodPost)
}

func (h *HTTPHandler) handleUpload(w http.ResponseWriter, r *http.Request) {
	if h.maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	}

	if err := r.ParseMultipartForm(h.maxBody); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	incidentName := r.FormValue("incident_name")
	if incidentName == "" {
		http.Error(w, "incident_name is required", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "a CSV file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	ownerID := r.Header.Get("X-User-ID")

	ml, err := h.service.Ingest(r.Context(), ownerID, incidentName, header.Filename, file)
	if err != nil {
		logger.Log.WithError(err).Error("failed to ingest masterlist")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(models.UploadResponse{
		ID:          ml.ID,
		Status:      ml.Status.String(),
		RecordCount: ml.RecordCount,
		Timestamp:   time.Now().UTC(),
	})
}

func (h *HTTPHandler) handleList(w http.ResponseWriter, r *http.Request) {
	ownerID := r.Header.Get("X-User-ID")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	lists, err := h.service.List(r.Context(), ownerID, limit)
	if err != nil {
		logger.Log.WithError(err).Error("failed to list masterlists")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(lists)
}

func (h *HTTPHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid masterlist id", http.StatusBadRequest)
		return
	}

	ml, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "masterlist not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to fetch masterlist")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ml)
}

func (h *HTTPHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid masterlist id", http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "masterlist not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to delete masterlist")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleDeduplicate validates eligibility and queues a run request; the
// dedup worker performs the actual run.
func (h *HTTPHandler) handleDeduplicate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid masterlist id", http.StatusBadRequest)
		return
	}

	ml, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "masterlist not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to fetch masterlist")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if !ml.Status.CanStartDedup() {
		http.Error(w, "deduplication can only be run on ready or completed masterlists", http.StatusConflict)
		return
	}

	payload := map[string]interface{}{
		"masterlist_id": ml.ID,
		"requested_by":  r.Header.Get("X-User-ID"),
	}
	if err := h.producer.PublishEvent(r.Context(), "dedup-requested", "masterlist-service", payload); err != nil {
		logger.Log.WithError(err).Error("failed to queue deduplication run")
		http.Error(w, "failed to queue deduplication", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(models.DedupTriggerResponse{MasterlistID: ml.ID, Queued: true})
}

func pathID(r *http.Request) (uint64, error) {
	return strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
}
