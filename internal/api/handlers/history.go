package handlers

import (
	"net/http"
	"strconv"

	"github.com/media-namer/backend/internal/db"
	"github.com/media-namer/backend/internal/db/models"
)

type HistoryHandler struct {
	db *db.Database
}

func NewHistoryHandler(db *db.Database) *HistoryHandler {
	return &HistoryHandler{db: db}
}

// ListRenames returns past rename decisions, newest first.
func (h *HistoryHandler) ListRenames(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 1000 {
			jsonError(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	records, err := h.db.ListRenames(limit)
	if err != nil {
		jsonError(w, "failed to list history: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []*models.RenameRecord{}
	}

	jsonResponse(w, records, http.StatusOK)
}
