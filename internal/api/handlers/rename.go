package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"github.com/media-namer/backend/internal/job"
	"github.com/media-namer/backend/internal/media"
	"github.com/media-namer/backend/internal/renamer"
)

type RenameHandler struct {
	svc   *renamer.Service
	queue *job.JobQueue
}

func NewRenameHandler(svc *renamer.Service, queue *job.JobQueue) *RenameHandler {
	return &RenameHandler{svc: svc, queue: queue}
}

type renameRequest struct {
	Path       string `json:"path"`
	UserPrompt string `json:"user_prompt,omitempty"`
	MaxFrames  int    `json:"max_frames,omitempty"`
	OutputDir  string `json:"output_dir,omitempty"`
}

// Preview builds the digest and naming decision without touching the file.
func (h *RenameHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Path == "" {
		jsonError(w, "path is required", http.StatusBadRequest)
		return
	}

	d, decision, err := h.svc.Preview(r.Context(), req.Path, req.UserPrompt, req.MaxFrames)
	if err != nil {
		jsonError(w, err.Error(), statusForMediaError(err))
		return
	}

	jsonResponse(w, map[string]interface{}{
		"digest":   d,
		"decision": decision,
	}, http.StatusOK)
}

// Enqueue queues a rename job and returns it immediately.
func (h *RenameHandler) Enqueue(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Path == "" {
		jsonError(w, "path is required", http.StatusBadRequest)
		return
	}

	j, err := h.queue.Enqueue(job.JobRename, req.Path, job.RenameParams{
		UserPrompt: req.UserPrompt,
		MaxFrames:  req.MaxFrames,
		OutputDir:  req.OutputDir,
	})
	if err != nil {
		jsonError(w, "failed to enqueue job: "+err.Error(), http.StatusInternalServerError)
		return
	}

	jsonResponse(w, j, http.StatusAccepted)
}

func statusForMediaError(err error) int {
	var unsupported *media.UnsupportedTypeError
	var invalid *media.InvalidMediaError
	switch {
	case errors.Is(err, os.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, os.ErrPermission):
		return http.StatusForbidden
	case errors.As(err, &unsupported):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &invalid):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
