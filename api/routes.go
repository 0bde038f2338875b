package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/madanco/crewdeck/internal/config"
	"github.com/madanco/crewdeck/internal/store"
)

func SetupRoutes(cfg *config.Config, version, buildTime string, repo *store.RecordStore) http.Handler {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(RecoveryMiddleware)

	// Create handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(repo, repo, cfg.JWTSecret, cfg.TokenDuration)
	usersHandler := NewUsersHandler(repo, repo)
	jobsHandler := NewJobsHandler(repo, repo)
	commsHandler := NewCommunicationsHandler(repo, repo, repo, repo)

	// Open endpoints
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Everything else requires a valid session token.
	protected := r.PathPrefix("/").Subrouter()
	protected.Use(SessionMiddleware(cfg.JWTSecret, repo))

	protected.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST")

	protected.HandleFunc("/users", usersHandler.ListUsers).Methods("GET")
	protected.HandleFunc("/users", usersHandler.CreateUser).Methods("POST")
	protected.HandleFunc("/users/{id}", usersHandler.UpdateUser).Methods("PUT")
	protected.HandleFunc("/users/{id}", usersHandler.DeleteUser).Methods("DELETE")

	protected.HandleFunc("/jobs", jobsHandler.ListJobs).Methods("GET")
	protected.HandleFunc("/jobs", jobsHandler.CreateJob).Methods("POST")
	protected.HandleFunc("/jobs/{id}", jobsHandler.UpdateJob).Methods("PUT")
	protected.HandleFunc("/jobs/{id}", jobsHandler.DeleteJob).Methods("DELETE")

	protected.HandleFunc("/communications", commsHandler.ListCommunications).Methods("GET")
	protected.HandleFunc("/communications", commsHandler.CreateCommunication).Methods("POST")
	protected.HandleFunc("/communications/{id}/resolve", commsHandler.ResolveCommunication).Methods("PUT")

	// CORS wraps the router itself so preflight requests get answered before
	// method matching can 405 them.
	return CORSMiddleware(r)
}
