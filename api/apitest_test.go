package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/madanco/crewdeck/api"
	dbfs "github.com/madanco/crewdeck/db"
	"github.com/madanco/crewdeck/internal/config"
	"github.com/madanco/crewdeck/internal/db"
	"github.com/madanco/crewdeck/internal/kvstore"
	"github.com/madanco/crewdeck/internal/store"
	"github.com/madanco/crewdeck/pkg/models"
)

const testSecret = "test-secret"

// setupServer starts the full router over an in-memory sqlite store with one
// admin and two contractors.
func setupServer(t *testing.T) (*httptest.Server, *store.RecordStore, func()) {
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
	seedTestUsers(t, repo)

	cfg := &config.Config{
		JWTSecret:     testSecret,
		TokenDuration: time.Hour,
	}
	srv := httptest.NewServer(api.SetupRoutes(cfg, "test", "now", repo))
	return srv, repo, func() { srv.Close(); d.Close() }
}

func seedTestUsers(t *testing.T, repo *store.RecordStore) {
	t.Helper()
	ctx := context.Background()
	users := []models.User{
		{ID: "admin-id", Username: "admin", Name: "John Smith", Role: models.RoleAdmin},
		{ID: "mike-id", Username: "mike_plumber", Name: "Mike Johnson", Role: models.RoleContractor, Specialties: []string{"Plumbing"}},
		{ID: "sarah-id", Username: "sarah_tile", Name: "Sarah Wilson", Role: models.RoleContractor, Specialties: []string{"Tile Work"}},
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
}

// login returns a session token for the username, assuming the default
// username+"123" password.
func login(t *testing.T, srv *httptest.Server, username string) string {
	t.Helper()
	body := map[string]string{"username": username, "password": username + "123"}
	var resp struct {
		Success      bool   `json:"success"`
		SessionToken string `json:"sessionToken"`
	}
	status := doRequest(t, srv, http.MethodPost, "/auth/login", "", body, &resp)
	if status != http.StatusOK || !resp.Success {
		t.Fatalf("login %s failed with status %d", username, status)
	}
	return resp.SessionToken
}

// doRequest issues a JSON request with an optional bearer token and decodes
// the response into out when it is non-nil.
func doRequest(t *testing.T, srv *httptest.Server, method, path, token string, body, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer res.Body.Close()
	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil && err != io.EOF {
			t.Fatalf("decode %s %s response: %v", method, path, err)
		}
	}
	return res.StatusCode
}
