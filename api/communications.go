package api

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/madanco/crewdeck/internal/notify"
	"github.com/madanco/crewdeck/pkg/models"
	"github.com/madanco/crewdeck/pkg/repository"
)

type CommunicationsHandler struct {
	commRepo   repository.CommunicationRepo
	jobRepo    repository.JobRepo
	userRepo   repository.UserRepo
	notifyRepo repository.NotificationRepo
}

func NewCommunicationsHandler(cr repository.CommunicationRepo, jr repository.JobRepo, ur repository.UserRepo, nr repository.NotificationRepo) *CommunicationsHandler {
	return &CommunicationsHandler{commRepo: cr, jobRepo: jr, userRepo: ur, notifyRepo: nr}
}

// ListCommunications returns everything for admins; contractors only their
// own entries.
func (h *CommunicationsHandler) ListCommunications(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	var (
		comms []models.Communication
		err   error
	)
	switch user.Role {
	case models.RoleAdmin:
		comms, err = h.commRepo.ListCommunications(r.Context())
	case models.RoleContractor:
		comms, err = h.commRepo.ListCommunicationsForContractor(r.Context(), user.ID)
	default:
		writeError(w, http.StatusForbidden, "unknown role")
		return
	}
	if err != nil {
		writeStoreError(w, err, "list communications")
		return
	}
	writeJSON(w, comms, http.StatusOK)
}

type createCommunicationRequest struct {
	JobID        string                   `json:"jobId"`
	ContractorID string                   `json:"contractorId"`
	Type         models.CommunicationType `json:"type"`
	Subject      string                   `json:"subject"`
	Message      string                   `json:"message"`
	Priority     models.Priority          `json:"priority"`
}

// CreateCommunication files a message against a job. The server owns id,
// createdAt, and status: whatever the client sent, a new communication is
// always pending. Contractors can only file for themselves.
func (h *CommunicationsHandler) CreateCommunication(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	ctx := r.Context()
	if err := validatePayload(ctx, communicationSchema, body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req createCommunicationRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	contractorID := req.ContractorID
	if user.Role == models.RoleContractor {
		contractorID = user.ID
	}
	if contractorID == "" {
		writeError(w, http.StatusBadRequest, "contractorId required")
		return
	}

	job, err := h.jobRepo.GetJobByID(ctx, req.JobID)
	if err != nil {
		writeStoreError(w, err, "get job")
		return
	}
	if job == nil {
		writeError(w, http.StatusBadRequest, "unknown job")
		return
	}
	contractor, err := h.userRepo.GetUserByID(ctx, contractorID)
	if err != nil {
		writeStoreError(w, err, "get contractor")
		return
	}
	if contractor == nil {
		writeError(w, http.StatusBadRequest, "unknown contractor")
		return
	}

	comm := &models.Communication{
		ID:           uuid.NewString(),
		JobID:        req.JobID,
		ContractorID: contractorID,
		Type:         req.Type,
		Subject:      req.Subject,
		Message:      req.Message,
		Priority:     req.Priority,
		Status:       models.CommPending,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	if err := h.commRepo.CreateCommunication(ctx, comm); err != nil {
		writeStoreError(w, err, "create communication")
		return
	}

	// Notify admins; a failed enqueue never fails the request.
	if err := notify.EnqueueCommunicationCreated(ctx, h.notifyRepo, comm); err != nil {
		logger.Warn("enqueue notification", slog.Any("err", err))
	}

	writeJSON(w, comm, http.StatusCreated)
}

type resolveCommunicationRequest struct {
	AdminResponse string `json:"adminResponse"`
}

// ResolveCommunication performs the only lifecycle transition a communication
// has. Resolving twice is a conflict: a recorded admin response is never
// silently overwritten.
func (h *CommunicationsHandler) ResolveCommunication(w http.ResponseWriter, r *http.Request) {
	if currentUser(r).Role != models.RoleAdmin {
		writeError(w, http.StatusForbidden, "admin role required")
		return
	}

	var req resolveCommunicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.AdminResponse == "" {
		writeError(w, http.StatusBadRequest, "adminResponse required")
		return
	}

	ctx := r.Context()
	id := mux.Vars(r)["id"]

	comm, err := h.commRepo.GetCommunicationByID(ctx, id)
	if err != nil {
		writeStoreError(w, err, "get communication")
		return
	}
	if comm == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if comm.Status == models.CommResolved {
		writeError(w, http.StatusConflict, "already resolved")
		return
	}

	comm.Status = models.CommResolved
	comm.ResolvedAt = time.Now().UTC().Format(time.RFC3339)
	comm.AdminResponse = req.AdminResponse

	if err := h.commRepo.UpdateCommunication(ctx, comm); err != nil {
		writeStoreError(w, err, "resolve communication")
		return
	}

	if err := notify.EnqueueCommunicationResolved(ctx, h.notifyRepo, comm); err != nil {
		logger.Warn("enqueue notification", slog.Any("err", err))
	}

	writeJSON(w, comm, http.StatusOK)
}
