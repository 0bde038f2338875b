package client_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/goleak"
	"golang.org/x/crypto/bcrypt"

	"github.com/madanco/crewdeck/api"
	dbfs "github.com/madanco/crewdeck/db"
	"github.com/madanco/crewdeck/internal/config"
	"github.com/madanco/crewdeck/internal/db"
	"github.com/madanco/crewdeck/internal/kvstore"
	"github.com/madanco/crewdeck/internal/store"
	"github.com/madanco/crewdeck/pkg/client"
	"github.com/madanco/crewdeck/pkg/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// startAPI runs the full server stack the client talks to in production.
func startAPI(t *testing.T) (*httptest.Server, *store.RecordStore) {
	t.Helper()
	ctx := context.Background()

	d, err := db.New(ctx, "file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("db.New: %v", err)
	}
	if err := db.Migrate(ctx, d, dbfs.Migrations); err != nil {
		d.Close()
		t.Fatalf("migrate: %v", err)
	}

	repo := store.New(kvstore.NewSQLite(d), nil)
	users := []models.User{
		{ID: "admin-id", Username: "admin", Name: "John Smith", Role: models.RoleAdmin},
		{ID: "mike-id", Username: "mike_plumber", Name: "Mike Johnson", Role: models.RoleContractor},
	}
	for i := range users {
		if err := repo.CreateUser(ctx, &users[i]); err != nil {
			t.Fatalf("seed user: %v", err)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(users[i].Username+"123"), bcrypt.MinCost)
		if err != nil {
			t.Fatalf("hash password: %v", err)
		}
		if err := repo.SetCredential(ctx, users[i].Username, string(hash)); err != nil {
			t.Fatalf("seed credential: %v", err)
		}
	}

	cfg := &config.Config{JWTSecret: "client-test-secret", TokenDuration: time.Hour}
	srv := httptest.NewServer(api.SetupRoutes(cfg, "test", "now", repo))
	t.Cleanup(func() { srv.Close(); d.Close() })
	return srv, repo
}

func TestLoginLoadsCache(t *testing.T) {
	srv, _ := startAPI(t)
	c := client.New(srv.URL)
	ctx := context.Background()

	if err := c.Login(ctx, "admin", "admin123"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if u := c.CurrentUser(); u == nil || u.Role != models.RoleAdmin {
		t.Fatalf("unexpected current user: %+v", u)
	}
	if c.SessionToken() == "" {
		t.Fatalf("expected a session token")
	}
	if got := len(c.Users()); got != 2 {
		t.Fatalf("expected 2 cached users, got %d", got)
	}
	// fresh install: collections exist but are empty
	if c.Jobs() == nil || c.Communications() == nil {
		t.Fatalf("caches must be non-nil after refresh")
	}
}

func TestLoginBadPassword(t *testing.T) {
	srv, _ := startAPI(t)
	c := client.New(srv.URL)

	err := c.Login(context.Background(), "admin", "wrong")
	if !errors.Is(err, client.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if c.CurrentUser() != nil || c.SessionToken() != "" {
		t.Fatalf("failed login must leave the client logged out")
	}
}

func TestMutationsMergeIntoCache(t *testing.T) {
	srv, _ := startAPI(t)
	c := client.New(srv.URL)
	ctx := context.Background()

	if err := c.Login(ctx, "admin", "admin123"); err != nil {
		t.Fatalf("login: %v", err)
	}

	job, err := c.AddJob(ctx, client.JobDraft{
		Title:         "Fence Repair",
		ClientName:    "Dan Lee",
		ClientAddress: "12 Birch Road",
		StartDate:     "2024-04-01",
		EndDate:       "2024-04-02",
		AssignedCrew:  []string{"mike-id"},
		Status:        models.JobScheduled,
		ProjectType:   models.ProjectOther,
	})
	if err != nil {
		t.Fatalf("add job: %v", err)
	}
	if len(c.Jobs()) != 1 || c.Jobs()[0].ID != job.ID {
		t.Fatalf("job not merged into cache: %+v", c.Jobs())
	}

	status := models.JobInProgress
	updated, err := c.UpdateJob(ctx, job.ID, client.JobPatch{Status: &status})
	if err != nil {
		t.Fatalf("update job: %v", err)
	}
	if updated.Status != models.JobInProgress || c.Jobs()[0].Status != models.JobInProgress {
		t.Fatalf("update not merged: %+v", c.Jobs())
	}

	if err := c.DeleteJob(ctx, job.ID); err != nil {
		t.Fatalf("delete job: %v", err)
	}
	if len(c.Jobs()) != 0 {
		t.Fatalf("delete not merged: %+v", c.Jobs())
	}
}

func TestCommunicationFlow(t *testing.T) {
	srv, _ := startAPI(t)
	ctx := context.Background()

	admin := client.New(srv.URL)
	if err := admin.Login(ctx, "admin", "admin123"); err != nil {
		t.Fatalf("admin login: %v", err)
	}
	job, err := admin.AddJob(ctx, client.JobDraft{
		Title: "Bathroom Refit", ClientName: "Kim Park", ClientAddress: "3 Elm Court",
		StartDate: "2024-05-01", EndDate: "2024-05-10",
		AssignedCrew: []string{"mike-id"}, Status: models.JobScheduled,
		ProjectType: models.ProjectBathroom,
	})
	if err != nil {
		t.Fatalf("add job: %v", err)
	}

	mike := client.New(srv.URL)
	if err := mike.Login(ctx, "mike_plumber", "mike_plumber123"); err != nil {
		t.Fatalf("mike login: %v", err)
	}
	comm, err := mike.AddCommunication(ctx, client.CommunicationDraft{
		JobID: job.ID, Type: models.CommMaterialRequest,
		Subject: "Copper pipe", Message: "Need 10m of 15mm pipe.",
		Priority: models.PriorityHigh,
	})
	if err != nil {
		t.Fatalf("add communication: %v", err)
	}
	if comm.Status != models.CommPending || comm.ContractorID != "mike-id" {
		t.Fatalf("server did not normalize the draft: %+v", comm)
	}

	if err := admin.RefreshData(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	resolved, err := admin.ResolveCommunication(ctx, comm.ID, "Ordered, arrives Tuesday.")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Status != models.CommResolved || resolved.AdminResponse == "" {
		t.Fatalf("resolution incomplete: %+v", resolved)
	}

	// resolving again conflicts
	if _, err := admin.ResolveCommunication(ctx, comm.ID, "Again"); !errors.Is(err, client.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestForbiddenMutation(t *testing.T) {
	srv, _ := startAPI(t)
	ctx := context.Background()

	mike := client.New(srv.URL)
	if err := mike.Login(ctx, "mike_plumber", "mike_plumber123"); err != nil {
		t.Fatalf("login: %v", err)
	}
	_, err := mike.AddUser(ctx, client.UserDraft{Username: "eve", Name: "Eve", Role: models.RoleAdmin})
	if !errors.Is(err, client.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	// a 403 is not a session failure; the client stays logged in
	if mike.CurrentUser() == nil {
		t.Fatalf("403 must not log the client out")
	}
}

func TestSaveRestoreSession(t *testing.T) {
	srv, _ := startAPI(t)
	ctx := context.Background()

	c := client.New(srv.URL)
	if err := c.Login(ctx, "admin", "admin123"); err != nil {
		t.Fatalf("login: %v", err)
	}
	saved, err := c.SaveSession()
	if err != nil {
		t.Fatalf("save session: %v", err)
	}

	// a new client instance picks the session up, as after an app restart
	restored := client.New(srv.URL)
	if err := restored.RestoreSession(ctx, saved); err != nil {
		t.Fatalf("restore session: %v", err)
	}
	if u := restored.CurrentUser(); u == nil || u.Username != "admin" {
		t.Fatalf("restored user wrong: %+v", u)
	}
	if len(restored.Users()) != 2 {
		t.Fatalf("restore must refresh the cache, got %+v", restored.Users())
	}
}

func TestRestoreSessionWithDeadTokenResets(t *testing.T) {
	srv, repo := startAPI(t)
	ctx := context.Background()

	c := client.New(srv.URL)
	if err := c.Login(ctx, "mike_plumber", "mike_plumber123"); err != nil {
		t.Fatalf("login: %v", err)
	}
	saved, err := c.SaveSession()
	if err != nil {
		t.Fatalf("save session: %v", err)
	}

	// the user is deleted while the session sits on disk
	if err := repo.DeleteUser(ctx, "mike-id"); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	restored := client.New(srv.URL)
	err = restored.RestoreSession(ctx, saved)
	if !errors.Is(err, client.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if restored.CurrentUser() != nil || restored.SessionToken() != "" {
		t.Fatalf("failed restore must reset the client")
	}
}

func TestSaveSessionWhileLoggedOut(t *testing.T) {
	c := client.New("http://unused")
	if _, err := c.SaveSession(); !errors.Is(err, client.ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
}

func TestServerSide401ForcesLogout(t *testing.T) {
	srv, repo := startAPI(t)
	ctx := context.Background()

	c := client.New(srv.URL)
	if err := c.Login(ctx, "mike_plumber", "mike_plumber123"); err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := repo.DeleteUser(ctx, "mike-id"); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	err := c.RefreshData(ctx)
	if !errors.Is(err, client.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if c.CurrentUser() != nil || len(c.Users()) != 0 {
		t.Fatalf("401 must clear all local state")
	}
}
