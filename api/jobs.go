package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/madanco/crewdeck/pkg/models"
	"github.com/madanco/crewdeck/pkg/repository"
)

type JobsHandler struct {
	jobRepo  repository.JobRepo
	userRepo repository.UserRepo
}

func NewJobsHandler(jr repository.JobRepo, ur repository.UserRepo) *JobsHandler {
	return &JobsHandler{jobRepo: jr, userRepo: ur}
}

// ListJobs returns every job for admins; contractors only see jobs whose
// assignedCrew contains their own id.
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	var (
		jobs []models.Job
		err  error
	)
	switch user.Role {
	case models.RoleAdmin:
		jobs, err = h.jobRepo.ListJobs(r.Context())
	case models.RoleContractor:
		jobs, err = h.jobRepo.ListJobsForCrewMember(r.Context(), user.ID)
	default:
		writeError(w, http.StatusForbidden, "unknown role")
		return
	}
	if err != nil {
		writeStoreError(w, err, "list jobs")
		return
	}
	writeJSON(w, jobs, http.StatusOK)
}

type createJobRequest struct {
	Title         string             `json:"title"`
	ClientName    string             `json:"clientName"`
	ClientAddress string             `json:"clientAddress"`
	StartDate     string             `json:"startDate"`
	EndDate       string             `json:"endDate"`
	AssignedCrew  []string           `json:"assignedCrew"`
	Status        models.JobStatus   `json:"status"`
	Notes         string             `json:"notes"`
	Reminders     []models.Reminder  `json:"reminders"`
	ProjectType   models.ProjectType `json:"projectType"`
}

// checkCrew rejects crew ids that do not reference an existing contractor.
// Dangling references were silently accepted upstream; here they are a
// validation failure.
func (h *JobsHandler) checkCrew(r *http.Request, crew []string) error {
	seen := map[string]bool{}
	for _, id := range crew {
		if seen[id] {
			return fmt.Errorf("duplicate crew member %s", id)
		}
		seen[id] = true
		u, err := h.userRepo.GetUserByID(r.Context(), id)
		if err != nil {
			return err
		}
		if u == nil || u.Role != models.RoleContractor {
			return fmt.Errorf("crew member %s is not a known contractor", id)
		}
	}
	return nil
}

func (h *JobsHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	if currentUser(r).Role != models.RoleAdmin {
		writeError(w, http.StatusForbidden, "admin role required")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	ctx := r.Context()
	if err := validatePayload(ctx, jobSchema, body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req createJobRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if err := h.checkCrew(r, req.AssignedCrew); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	job := &models.Job{
		ID:            uuid.NewString(),
		Title:         req.Title,
		ClientName:    req.ClientName,
		ClientAddress: req.ClientAddress,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		AssignedCrew:  req.AssignedCrew,
		Status:        req.Status,
		Notes:         req.Notes,
		Reminders:     req.Reminders,
		ProjectType:   req.ProjectType,
	}
	if job.AssignedCrew == nil {
		job.AssignedCrew = []string{}
	}
	if job.Reminders == nil {
		job.Reminders = []models.Reminder{}
	}
	for i := range job.Reminders {
		if job.Reminders[i].ID == "" {
			job.Reminders[i].ID = uuid.NewString()
		}
	}

	if err := h.jobRepo.CreateJob(ctx, job); err != nil {
		writeStoreError(w, err, "create job")
		return
	}
	writeJSON(w, job, http.StatusCreated)
}

type updateJobRequest struct {
	Title         *string             `json:"title"`
	ClientName    *string             `json:"clientName"`
	ClientAddress *string             `json:"clientAddress"`
	StartDate     *string             `json:"startDate"`
	EndDate       *string             `json:"endDate"`
	AssignedCrew  *[]string           `json:"assignedCrew"`
	Status        *models.JobStatus   `json:"status"`
	Notes         *string             `json:"notes"`
	Reminders     *[]models.Reminder  `json:"reminders"`
	ProjectType   *models.ProjectType `json:"projectType"`
}

// UpdateJob merges the submitted fields into the existing record. Admins may
// update any job; a contractor only jobs they are crewed on.
func (h *JobsHandler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	ctx := r.Context()
	id := mux.Vars(r)["id"]

	job, err := h.jobRepo.GetJobByID(ctx, id)
	if err != nil {
		writeStoreError(w, err, "get job")
		return
	}
	if job == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	if user.Role != models.RoleAdmin && !job.HasCrewMember(user.ID) {
		writeError(w, http.StatusForbidden, "not assigned to this job")
		return
	}

	var req updateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Status != nil && !req.Status.Valid() {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}
	if req.ProjectType != nil && !req.ProjectType.Valid() {
		writeError(w, http.StatusBadRequest, "invalid project type")
		return
	}

	if req.Title != nil {
		job.Title = *req.Title
	}
	if req.ClientName != nil {
		job.ClientName = *req.ClientName
	}
	if req.ClientAddress != nil {
		job.ClientAddress = *req.ClientAddress
	}
	if req.StartDate != nil {
		job.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		job.EndDate = *req.EndDate
	}
	if req.AssignedCrew != nil {
		if user.Role != models.RoleAdmin {
			writeError(w, http.StatusForbidden, "only admins may change the crew")
			return
		}
		if err := h.checkCrew(r, *req.AssignedCrew); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		job.AssignedCrew = *req.AssignedCrew
	}
	if req.Status != nil {
		job.Status = *req.Status
	}
	if req.Notes != nil {
		job.Notes = *req.Notes
	}
	if req.Reminders != nil {
		job.Reminders = *req.Reminders
		for i := range job.Reminders {
			if !job.Reminders[i].Type.Valid() {
				writeError(w, http.StatusBadRequest, "invalid reminder type")
				return
			}
			if job.Reminders[i].ID == "" {
				job.Reminders[i].ID = uuid.NewString()
			}
		}
	}
	if req.ProjectType != nil {
		job.ProjectType = *req.ProjectType
	}

	if err := h.jobRepo.UpdateJob(ctx, job); err != nil {
		writeStoreError(w, err, "update job")
		return
	}
	writeJSON(w, job, http.StatusOK)
}

func (h *JobsHandler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	if currentUser(r).Role != models.RoleAdmin {
		writeError(w, http.StatusForbidden, "admin role required")
		return
	}

	if err := h.jobRepo.DeleteJob(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeStoreError(w, err, "delete job")
		return
	}
	writeJSON(w, map[string]bool{"success": true}, http.StatusOK)
}
