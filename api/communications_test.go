package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/madanco/crewdeck/internal/notify"
	"github.com/madanco/crewdeck/pkg/models"
)

func tilePayload(jobID string) map[string]any {
	return map[string]any{
		"jobId":    jobID,
		"type":     "material_request",
		"subject":  "Additional Tile Needed",
		"message":  "We need 3 more boxes of subway tile for the shower area.",
		"priority": "medium",
	}
}

func createCommunication(t *testing.T, srv *httptest.Server, token string, payload map[string]any) models.Communication {
	t.Helper()
	var created models.Communication
	status := doRequest(t, srv, http.MethodPost, "/communications", token, payload, &created)
	if status != http.StatusCreated {
		t.Fatalf("create communication: expected 201, got %d", status)
	}
	return created
}

func TestCreateCommunicationForcesPendingStatus(t *testing.T) {
	srv, _, cleanup := setupServer(t)
	defer cleanup()

	admin := login(t, srv, "admin")
	job := createJob(t, srv, admin, deckRepairPayload("mike-id"))

	mike := login(t, srv, "mike_plumber")
	payload := tilePayload(job.ID)
	// a hostile client smuggling a status must be overridden
	payload["status"] = "resolved"
	payload["resolvedAt"] = "2024-01-01T00:00:00Z"

	created := createCommunication(t, srv, mike, payload)
	if created.Status != models.CommPending {
		t.Fatalf("expected status forced to pending, got %s", created.Status)
	}
	if created.ResolvedAt != "" || created.AdminResponse != "" {
		t.Fatalf("resolved fields must be empty on a pending entry: %+v", created)
	}
	if created.ID == "" || created.CreatedAt == "" {
		t.Fatalf("expected server-assigned id and createdAt: %+v", created)
	}
	if _, err := time.Parse(time.RFC3339, created.CreatedAt); err != nil {
		t.Fatalf("createdAt not RFC3339: %v", err)
	}
}

func TestCreateCommunicationForcesContractorID(t *testing.T) {
	srv, _, cleanup := setupServer(t)
	defer cleanup()

	admin := login(t, srv, "admin")
	job := createJob(t, srv, admin, deckRepairPayload("mike-id"))

	mike := login(t, srv, "mike_plumber")
	payload := tilePayload(job.ID)
	payload["contractorId"] = "sarah-id" // filing for someone else

	created := createCommunication(t, srv, mike, payload)
	if created.ContractorID != "mike-id" {
		t.Fatalf("expected contractorId forced to requester, got %s", created.ContractorID)
	}
}

func TestCreateCommunicationValidatesReferences(t *testing.T) {
	srv, _, cleanup := setupServer(t)
	defer cleanup()

	mike := login(t, srv, "mike_plumber")
	if status := doRequest(t, srv, http.MethodPost, "/communications", mike, tilePayload("ghost-job"), nil); status != http.StatusBadRequest {
		t.Fatalf("unknown job: expected 400, got %d", status)
	}

	admin := login(t, srv, "admin")
	job := createJob(t, srv, admin, deckRepairPayload("mike-id"))
	payload := tilePayload(job.ID)
	payload["contractorId"] = "ghost-user"
	if status := doRequest(t, srv, http.MethodPost, "/communications", admin, payload, nil); status != http.StatusBadRequest {
		t.Fatalf("unknown contractor: expected 400, got %d", status)
	}
}

func TestContractorSeesOnlyOwnCommunications(t *testing.T) {
	srv, _, cleanup := setupServer(t)
	defer cleanup()

	admin := login(t, srv, "admin")
	job := createJob(t, srv, admin, deckRepairPayload("mike-id", "sarah-id"))

	mike := login(t, srv, "mike_plumber")
	sarah := login(t, srv, "sarah_tile")
	mine := createCommunication(t, srv, mike, tilePayload(job.ID))
	createCommunication(t, srv, sarah, tilePayload(job.ID))

	var comms []models.Communication
	if status := doRequest(t, srv, http.MethodGet, "/communications", mike, nil, &comms); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if len(comms) != 1 || comms[0].ID != mine.ID {
		t.Fatalf("expected exactly own communication, got %+v", comms)
	}

	// admin sees both
	if status := doRequest(t, srv, http.MethodGet, "/communications", admin, nil, &comms); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if len(comms) != 2 {
		t.Fatalf("admin should see all communications, got %d", len(comms))
	}
}

func TestResolveCommunication(t *testing.T) {
	srv, _, cleanup := setupServer(t)
	defer cleanup()

	admin := login(t, srv, "admin")
	job := createJob(t, srv, admin, deckRepairPayload("mike-id"))
	mike := login(t, srv, "mike_plumber")
	comm := createCommunication(t, srv, mike, tilePayload(job.ID))

	var resolved models.Communication
	status := doRequest(t, srv, http.MethodPut, "/communications/"+comm.ID+"/resolve", admin,
		map[string]string{"adminResponse": "Approved, order placed."}, &resolved)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if resolved.Status != models.CommResolved || resolved.AdminResponse != "Approved, order placed." || resolved.ResolvedAt == "" {
		t.Fatalf("resolution incomplete: %+v", resolved)
	}
}

func TestResolveTwiceIsConflict(t *testing.T) {
	srv, _, cleanup := setupServer(t)
	defer cleanup()

	admin := login(t, srv, "admin")
	job := createJob(t, srv, admin, deckRepairPayload("mike-id"))
	mike := login(t, srv, "mike_plumber")
	comm := createCommunication(t, srv, mike, tilePayload(job.ID))

	path := "/communications/" + comm.ID + "/resolve"
	if status := doRequest(t, srv, http.MethodPut, path, admin,
		map[string]string{"adminResponse": "First answer."}, nil); status != http.StatusOK {
		t.Fatalf("first resolve: expected 200, got %d", status)
	}
	if status := doRequest(t, srv, http.MethodPut, path, admin,
		map[string]string{"adminResponse": "Second answer."}, nil); status != http.StatusConflict {
		t.Fatalf("second resolve: expected 409, got %d", status)
	}

	// first response is untouched
	var comms []models.Communication
	doRequest(t, srv, http.MethodGet, "/communications", admin, nil, &comms)
	if len(comms) != 1 || comms[0].AdminResponse != "First answer." {
		t.Fatalf("admin response overwritten: %+v", comms)
	}
}

func TestResolveRequiresAdmin(t *testing.T) {
	srv, _, cleanup := setupServer(t)
	defer cleanup()

	admin := login(t, srv, "admin")
	job := createJob(t, srv, admin, deckRepairPayload("mike-id"))
	mike := login(t, srv, "mike_plumber")
	comm := createCommunication(t, srv, mike, tilePayload(job.ID))

	status := doRequest(t, srv, http.MethodPut, "/communications/"+comm.ID+"/resolve", mike,
		map[string]string{"adminResponse": "self-service"}, nil)
	if status != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", status)
	}
}

func TestCommunicationEventsEnqueueNotifications(t *testing.T) {
	srv, repo, cleanup := setupServer(t)
	defer cleanup()

	admin := login(t, srv, "admin")
	job := createJob(t, srv, admin, deckRepairPayload("mike-id"))
	mike := login(t, srv, "mike_plumber")
	comm := createCommunication(t, srv, mike, tilePayload(job.ID))

	doRequest(t, srv, http.MethodPut, "/communications/"+comm.ID+"/resolve", admin,
		map[string]string{"adminResponse": "Done."}, nil)

	queue, err := repo.ListNotifications(context.Background())
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	var created, resolved int
	for _, n := range queue {
		switch n.Type {
		case notify.TypeCommunicationCreated:
			created++
			if n.RecipientID != notify.RecipientAdmins {
				t.Fatalf("created notification should go to admins, got %q", n.RecipientID)
			}
		case notify.TypeCommunicationResolved:
			resolved++
			if n.RecipientID != "mike-id" {
				t.Fatalf("resolved notification should go to the contractor, got %q", n.RecipientID)
			}
		}
	}
	if created != 1 || resolved != 1 {
		t.Fatalf("expected one created and one resolved notification, got %d/%d", created, resolved)
	}
}
