package export

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/openrelief/masterlist/pkg/common/logger"
	"github.com/openrelief/masterlist/pkg/masterlist"
)

type HTTPHandler struct {
	exporter    *Exporter
	masterlists *masterlist.Service
}

func NewHTTPHandler(exporter *Exporter, masterlists *masterlist.Service) *HTTPHandler {
	return &HTTPHandler{exporter: exporter, masterlists: masterlists}
}

func (h *HTTPHandler) Register(router *mux.Router) {
	router.HandleFunc("/masterlists/{id}/export", h.handleExport).Methods(http.MethodGet)
}

func (h *HTTPHandler) handleExport(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "invalid masterlist id", http.StatusBadRequest)
		return
	}

	ml, err := h.masterlists.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, masterlist.ErrNotFound) {
			http.Error(w, "masterlist not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to fetch masterlist for export")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ml.IncidentName+"_clean.csv"))

	if err := h.exporter.Export(r.Context(), w, id); err != nil {
		// Headers are already out; all we can do is log.
		logger.Log.WithError(err).WithField("masterlist_id", id).Error("failed to stream clean export")
	}
}
